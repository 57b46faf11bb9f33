package services

import (
	"strconv"

	config "shindan-api/configs"
	"shindan-api/pkg/models"
)

// ScoringService は回答のスコア化とタイプ・信号の判定を提供します。
// 全て副作用のない純粋な計算で、失敗しません。
type ScoringService struct {
	questions []config.QuestionDefinition
}

// NewScoringService は新しいScoringServiceを生成します。
func NewScoringService(q *config.Questionnaire) *ScoringService {
	return &ScoringService{questions: q.Questions}
}

// Questions は設問定義を返します。
func (s *ScoringService) Questions() []config.QuestionDefinition {
	return s.questions
}

// scoreYN3 は3択回答をスコア化します。未知のラベルは中立の3です。
// invert=trueの設問（Yesがリスク高）はスコアを5↔1で反転します。
func scoreYN3(ans string, invert bool) int {
	base := map[string]int{
		models.AnswerYes:     5,
		models.AnswerPartial: 3,
		models.AnswerNo:      1,
	}
	val, ok := base[ans]
	if !ok {
		val = 3
	}
	if invert {
		return map[int]int{5: 1, 3: 3, 1: 5}[val]
	}
	return val
}

// scoreFive は5段階回答をスコア化します（ラベル先頭の数字を読む）。
// 未知のラベルは中立の3です。
func scoreFive(ans string) int {
	if ans == "" {
		return 3
	}
	n, err := strconv.Atoi(string([]rune(ans)[0]))
	if err != nil || n < 1 || n > 5 {
		return 3
	}
	return n
}

// scoreAnswer は設問定義に従って1問の回答をスコア化します。
func scoreAnswer(q config.QuestionDefinition, ans string) int {
	if q.Scale == models.ScaleFive {
		return scoreFive(ans)
	}
	return scoreYN3(ans, q.Invert)
}

// BuildProfile は回答（設問ID→ラベル）から5カテゴリのプロフィールと全体平均を計算します。
// 各カテゴリは2問の平均、全体平均は5カテゴリの平均です。結果は全て[1,5]に収まります。
func (s *ScoringService) BuildProfile(answers map[string]string) (models.CategoryProfile, float64) {
	sums := make(map[models.Category]int)
	counts := make(map[models.Category]int)
	for _, q := range s.questions {
		sums[q.Category] += scoreAnswer(q, answers[q.ID])
		counts[q.Category]++
	}

	profile := make(models.CategoryProfile, 0, len(models.AssessmentCategories))
	total := 0.0
	for _, cat := range models.AssessmentCategories {
		score := float64(sums[cat]) / float64(counts[cat])
		profile = append(profile, models.CategoryScore{Category: cat, Score: score})
		total += score
	}
	overall := total / float64(len(profile))
	return profile, overall
}

// Signal は全体平均から3段階の信号を判定します。
// 境界値（4.0、2.6）は上位の帯に分類されます。
func (s *ScoringService) Signal(overall float64) string {
	switch {
	case overall >= 4.0:
		return models.SignalBlue
	case overall >= 2.6:
		return models.SignalYellow
	default:
		return models.SignalRed
	}
}

// DominantType はプロフィールからタイプラベルを判定します。
// 全カテゴリが4.0以上ならバランス良好型、そうでなければ最低スコアの
// カテゴリ（同点時は列挙順で先頭）のタイプを返します。
func (s *ScoringService) DominantType(profile models.CategoryProfile) string {
	allHealthy := true
	for _, cs := range profile {
		if cs.Score < 4.0 {
			allHealthy = false
			break
		}
	}
	if allHealthy {
		return models.TypeBalanced
	}

	worst := profile[0]
	for _, cs := range profile[1:] {
		if cs.Score < worst.Score {
			worst = cs
		}
	}
	return models.CategoryTypeLabels[worst.Category]
}
