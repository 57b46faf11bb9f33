package services

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	config "shindan-api/configs"
	"shindan-api/pkg/models"
)

// ReportService は診断結果から保存用のResultRecordを組み立てます。
type ReportService struct {
	version string
	now     func() time.Time
}

// NewReportService は新しいReportServiceを生成します。
func NewReportService() *ReportService {
	return &ReportService{
		version: config.AppVersion,
		now:     time.Now,
	}
}

// AssembleInput はレコード組み立てに必要な入力一式です。
type AssembleInput struct {
	Company     string
	Email       string
	UTMSource   string
	UTMCampaign string
	Profile     models.CategoryProfile
	Overall     float64
	TypeLabel   string
	AIComment   string // 生成に失敗した場合は空文字
}

// BuildRecord は保存レコードを組み立てます。列順の契約はResultRecord.Row()が担います。
// ai_comment列には生成されたコメントのみを記録します（静的フォールバック文は保存しない）。
func (s *ReportService) BuildRecord(in AssembleInput) *models.ResultRecord {
	now := s.now().In(models.JST)

	return &models.ResultRecord{
		Timestamp:          now.Format(time.RFC3339),
		Company:            in.Company,
		Email:              in.Email,
		CategoryScoresJSON: s.profileJSON(in.Profile),
		TotalScore:         fmt.Sprintf("%.2f", in.Overall),
		TypeLabel:          in.TypeLabel,
		AIComment:          in.AIComment,
		UTMSource:          in.UTMSource,
		UTMCampaign:        in.UTMCampaign,
		PDFURL:             "", // 将来の外部ストレージ連携用
		AppVersion:         s.version,
		Status:             "ok",
		AICommentLen:       fmt.Sprintf("%d", len([]rune(in.AIComment))),
		RiskLevel:          RiskLevel(in.Overall),
		EntryCheck:         "OK",
		ReportDate:         now.Format("2006-01-02"),
	}
}

// profileJSON はカテゴリ→スコアのJSON文字列を作ります。
// スコアは小数2桁に丸めて格納します（下流の消費者が2桁精度を期待）。
func (s *ReportService) profileJSON(profile models.CategoryProfile) string {
	scores := make(map[models.Category]float64, len(profile))
	for _, cs := range profile {
		scores[cs.Category] = math.Round(cs.Score*100) / 100
	}
	data, err := json.Marshal(scores)
	if err != nil {
		// map[string]float64のMarshalは失敗しないが、念のため空オブジェクトを返す
		return "{}"
	}
	return string(data)
}

// RiskLevel は全体平均から3段階のリスクラベルを返します。
// 信号（青/黄/赤）とは閾値が異なる別系統の指標です。
func RiskLevel(overall float64) string {
	switch {
	case overall < 2.0:
		return "高リスク"
	case overall < 3.5:
		return "中リスク"
	default:
		return "低リスク"
	}
}
