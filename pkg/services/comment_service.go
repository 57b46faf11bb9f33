package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"shindan-api/pkg/models"
	"shindan-api/pkg/openai"
)

// MaxCommentLength はコメントの最大文字数です（超過分は末尾を…で切り詰め）。
const MaxCommentLength = 520

const commentSystemPrompt = "専門的かつ簡潔。日本語。実務に直結する助言を。"

// CommentService はAIコメント（経営者向けの約300字の診断コメント）を生成します。
// 生成はベストエフォートで、失敗時は呼び出し側がタイプ別の静的文に切り替えます。
type CommentService struct {
	client     *openai.Client
	retryDelay time.Duration
}

// NewCommentService は新しいCommentServiceを生成します。
func NewCommentService(client *openai.Client) *CommentService {
	return &CommentService{
		client:     client,
		retryDelay: 4 * time.Second,
	}
}

// Generate はAIコメントを生成します。一時エラーは固定ディレイ後に1回だけ再試行します。
func (s *CommentService) Generate(company, mainType string, profile models.CategoryProfile, overall float64) (string, error) {
	if !s.client.Configured() {
		return "", fmt.Errorf("OpenAIのAPIキーが未設定です")
	}

	prompt := s.buildPrompt(company, mainType, profile, overall)

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			time.Sleep(s.retryDelay)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		text, err := s.client.ChatCompletion(ctx, commentSystemPrompt, prompt, 420, 0.4)
		cancel()
		if err == nil {
			return text, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("AIコメント生成でエラー: %w", lastErr)
}

// StaticComment はタイプ別の静的コメントを返します（AI未生成時のフォールバック）。
func (s *CommentService) StaticComment(mainType string) string {
	return models.TypeText[mainType]
}

// buildPrompt は診断結果からユーザープロンプトを組み立てます。
func (s *CommentService) buildPrompt(company, mainType string, profile models.CategoryProfile, overall float64) string {
	if company == "" {
		company = "（未入力）"
	}

	categories := make([]string, 0, len(profile))
	for _, cs := range profile {
		categories = append(categories, string(cs.Category))
	}

	worst2 := worstCategories(profile, 2)

	return strings.TrimSpace(fmt.Sprintf(`
あなたは元製造部長の経営コンサルタントです。以下の診断結果を受け、経営者向けに約300字（260〜340字）の具体的コメントを日本語で書いてください。箇条書きは使わず、1段落で、余計な前置きや免責は不要。最後は「90分スポット診断」での次アクションを自然に促す一文で締めます。

[会社名] %s
[全体平均] %.2f / 5
[信号] %s
[タイプ] %s
[弱点カテゴリTOP2] %s
[5カテゴリ] %s
`,
		company,
		overall,
		signalShortLabel(overall),
		mainType,
		strings.Join(worst2, ", "),
		strings.Join(categories, ", "),
	))
}

// worstCategories はスコアの低い順にn個のカテゴリ名を返します。
// 同点時は列挙順を保ちます（安定ソート）。
func worstCategories(profile models.CategoryProfile, n int) []string {
	sorted := make(models.CategoryProfile, len(profile))
	copy(sorted, profile)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score < sorted[j].Score
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	names := make([]string, 0, n)
	for _, cs := range sorted[:n] {
		names = append(names, string(cs.Category))
	}
	return names
}

// signalShortLabel はプロンプト用の短い信号表記（青/黄/赤）を返します。
func signalShortLabel(overall float64) string {
	switch {
	case overall >= 4.0:
		return "青"
	case overall >= 2.6:
		return "黄"
	default:
		return "赤"
	}
}

// ClampComment はコメントを最大max文字に切り詰めます。
// 連続する空白・改行は1つのスペースにまとめ、超過時は(max-1)文字＋「…」にします。
// max以下のコメントはそのまま返すため、再適用しても変化しません。
func ClampComment(text string, max int) string {
	if text == "" {
		return ""
	}
	t := strings.Join(strings.Fields(text), " ")
	runes := []rune(t)
	if len(runes) <= max {
		return t
	}
	return string(runes[:max-1]) + "…"
}
