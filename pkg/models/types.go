package models

import "time"

// JST は日本標準時（UTC+9固定）です。診断ログのタイムスタンプは全てJSTで記録します。
var JST = time.FixedZone("JST", 9*60*60)

// --- 回答スケール ---

// 回答スケールの種別
const (
	ScaleYN3  = "yn3"  // Yes / 部分的に / No の3択
	ScaleFive = "five" // 5段階（ラベル先頭の数字がスコア）
)

// 3択回答のラベル
const (
	AnswerYes     = "Yes"
	AnswerPartial = "部分的に"
	AnswerNo      = "No"
)

// --- 診断カテゴリ ---

// Category は診断の5カテゴリを表します。
type Category string

const (
	CategoryInventory Category = "在庫・運搬"
	CategorySkills    Category = "人材・技能承継"
	CategoryCost      Category = "原価意識・改善文化"
	CategoryPlanning  Category = "生産計画・変動対応"
	CategoryDX        Category = "DX・情報共有"
)

// AssessmentCategories はカテゴリの固定列挙順です。
// タイプ判定の同点時はこの順で先頭のカテゴリが優先されます。
var AssessmentCategories = []Category{
	CategoryInventory,
	CategorySkills,
	CategoryCost,
	CategoryPlanning,
	CategoryDX,
}

// --- タイプ判定 ---

// 6タイプのラベル
const (
	TypeInventory = "在庫滞留型"
	TypeSkills    = "熟練依存型"
	TypeCost      = "原価ブラックボックス型"
	TypePlanning  = "変動脆弱型"
	TypeDX        = "データ断絶型"
	TypeBalanced  = "バランス良好型"
)

// CategoryTypeLabels は最弱カテゴリ→タイプラベルの1:1対応です。
var CategoryTypeLabels = map[Category]string{
	CategoryInventory: TypeInventory,
	CategorySkills:    TypeSkills,
	CategoryCost:      TypeCost,
	CategoryPlanning:  TypePlanning,
	CategoryDX:        TypeDX,
}

// TypeText はタイプ別の静的コメントです。AIコメントが生成できない場合の
// フォールバック文としてレポートに挿入します。
var TypeText = map[string]string{
	TypeInventory: "過剰在庫やWIP滞留で資金が眠っている可能性が高い状態です。生産量ではなく“流れ”の設計に軸足を移しましょう。",
	TypeSkills:    "属人化により技能がブラックボックス化。ベテラン離職に伴う急落リスクが高い状態です。技能棚卸と多能工化の設計が急務です。",
	TypeCost:      "コスト意識・原価の見える化が弱く、利益が目減りする体質です。現場まで“見える原価管理”を展開しましょう。",
	TypePlanning:  "受注変動・突発に弱く、納期トラブルや残業増に直結しています。変動を“なくす”のではなく“流す”バッファ設計が肝要です。",
	TypeDX:        "進捗・実績が見えず、意思決定が遅れがちです。まずは“見える化”から。現場と経営のデータ接続を整備しましょう。",
	TypeBalanced:  "リスク分散と仕組み成熟が進んでいます。次の一手は“利益を生むデータ活用”と継続的なリードタイム短縮です。",
}

// --- 信号 ---

// 3段階の信号ラベル
const (
	SignalBlue   = "青信号"
	SignalYellow = "黄信号"
	SignalRed    = "赤信号"
)

// SignalColors は信号ラベル→フロントエンド用カラー名の対応です。
var SignalColors = map[string]string{
	SignalBlue:   "blue",
	SignalYellow: "yellow",
	SignalRed:    "red",
}

// --- スコア ---

// CategoryScore は1カテゴリの平均スコアです。
type CategoryScore struct {
	Category Category `json:"category"`
	Score    float64  `json:"score"`
}

// CategoryProfile は5カテゴリのスコアをAssessmentCategoriesの列挙順で保持します。
type CategoryProfile []CategoryScore

// Score は指定カテゴリのスコアを返します。未知のカテゴリは0を返します。
func (p CategoryProfile) Score(cat Category) float64 {
	for _, cs := range p {
		if cs.Category == cat {
			return cs.Score
		}
	}
	return 0
}

// --- 保存レコード ---

// ResponseHeader はresponsesテーブルの固定列順です。
// Excelブック・CSVの両方がこの順序で書き込むため、並びを変えてはいけません。
var ResponseHeader = []string{
	"timestamp",
	"company",
	"email",
	"category_scores",
	"total_score",
	"type_label",
	"ai_comment",
	"utm_source",
	"utm_campaign",
	"pdf_url",
	"app_version",
	"status",
	"ai_comment_len",
	"risk_level",
	"entry_check",
	"report_date",
}

// ResultRecord は1回の診断の保存スナップショットです。
// 作成後は変更せず、1回の送信につき1度だけ永続化します。
type ResultRecord struct {
	Timestamp          string
	Company            string
	Email              string
	CategoryScoresJSON string
	TotalScore         string
	TypeLabel          string
	AIComment          string
	UTMSource          string
	UTMCampaign        string
	PDFURL             string
	AppVersion         string
	Status             string
	AICommentLen       string
	RiskLevel          string
	EntryCheck         string
	ReportDate         string
}

// Row はResponseHeaderの列順に並べた値を返します。
func (r *ResultRecord) Row() []string {
	return []string{
		r.Timestamp,
		r.Company,
		r.Email,
		r.CategoryScoresJSON,
		r.TotalScore,
		r.TypeLabel,
		r.AIComment,
		r.UTMSource,
		r.UTMCampaign,
		r.PDFURL,
		r.AppVersion,
		r.Status,
		r.AICommentLen,
		r.RiskLevel,
		r.EntryCheck,
		r.ReportDate,
	}
}

// --- 診断イベント ---

// EventHeader はeventsテーブルの固定列順です。
var EventHeader = []string{"timestamp", "level", "message", "payload"}

// DiagnosticEvent は管理者向けの運用イベント（障害・警告）です。
// 利用者の画面には一切表示しません。
type DiagnosticEvent struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Payload   string `json:"payload"`
}

// Row はEventHeaderの列順に並べた値を返します。
func (e *DiagnosticEvent) Row() []string {
	return []string{e.Timestamp, e.Level, e.Message, e.Payload}
}

// --- 送信セッション ---

// DiagnosisSession は1回のフォーム送信のライフタイムを表します。
// Savedフラグで同一送信の二重保存を防ぎます（送信ごとに新規作成）。
type DiagnosisSession struct {
	ID    string
	Saved bool
}

// --- APIリクエスト/レスポンス ---

// DiagnoseRequest は診断フォームの送信ボディです。
// answersのキーは設問ID（q1〜q10）、値は選択されたラベルです。
type DiagnoseRequest struct {
	Company     string            `json:"company"`
	Email       string            `json:"email"`
	UTMSource   string            `json:"utm_source"`
	UTMMedium   string            `json:"utm_medium"`
	UTMCampaign string            `json:"utm_campaign"`
	Answers     map[string]string `json:"answers"`
}

// DiagnoseResult は診断APIのレスポンス本体です。
// レポート描画（表・棒グラフ・PDF）に必要な情報を全て含みます。
type DiagnoseResult struct {
	SessionID        string          `json:"session_id"`
	Company          string          `json:"company"`
	ReportDate       string          `json:"report_date"`
	CategoryScores   CategoryProfile `json:"category_scores"`
	OverallScore     float64         `json:"overall_score"`
	Signal           string          `json:"signal"`
	SignalColor      string          `json:"signal_color"`
	TypeLabel        string          `json:"type_label"`
	TypeText         string          `json:"type_text"`
	Comment          string          `json:"comment"`
	CommentGenerated bool            `json:"comment_generated"`
	RiskLevel        string          `json:"risk_level"`
}
