package config

import (
	"fmt"
	"os"

	"shindan-api/pkg/models"

	"gopkg.in/yaml.v3"
)

// QuestionDefinition は設問1問の定義です。
type QuestionDefinition struct {
	ID       string          `yaml:"id" json:"id"`
	Text     string          `yaml:"text" json:"text"`
	Category models.Category `yaml:"category" json:"category"`
	Scale    string          `yaml:"scale" json:"scale"`
	Invert   bool            `yaml:"invert" json:"invert"` // Yesがリスク高を意味する設問
}

// Questionnaire は診断の設問一覧（固定ルーブリック: 5カテゴリ×2問）です。
type Questionnaire struct {
	Questions []QuestionDefinition `yaml:"questions" json:"questions"`
}

// LoadQuestionnaire はYAMLファイルから設問定義を読み込みます。
// ファイルが存在しない場合は組み込みのデフォルト設問を返します。
func LoadQuestionnaire(path string) (*Questionnaire, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultQuestionnaire(), nil
		}
		return nil, fmt.Errorf("設問定義ファイルの読み込みに失敗: %w", err)
	}

	var q Questionnaire
	if err := yaml.Unmarshal(data, &q); err != nil {
		return nil, fmt.Errorf("設問定義YAMLのパースに失敗: %w", err)
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return &q, nil
}

// Validate はルーブリックの前提（10問、各カテゴリ2問、既知のスケール）を検証します。
func (q *Questionnaire) Validate() error {
	if len(q.Questions) != 10 {
		return fmt.Errorf("設問は10問である必要があります（現在: %d問）", len(q.Questions))
	}
	perCategory := make(map[models.Category]int)
	for _, qd := range q.Questions {
		if qd.Scale != models.ScaleYN3 && qd.Scale != models.ScaleFive {
			return fmt.Errorf("設問 %s のスケールが不正です: %s", qd.ID, qd.Scale)
		}
		if _, ok := models.CategoryTypeLabels[qd.Category]; !ok {
			return fmt.Errorf("設問 %s のカテゴリが不正です: %s", qd.ID, qd.Category)
		}
		perCategory[qd.Category]++
	}
	for _, cat := range models.AssessmentCategories {
		if perCategory[cat] != 2 {
			return fmt.Errorf("カテゴリ %s の設問数が2問ではありません（現在: %d問）", cat, perCategory[cat])
		}
	}
	return nil
}

// DefaultQuestionnaire は組み込みの設問定義を返します。
// configs/questions.yaml と同一の内容です。
func DefaultQuestionnaire() *Questionnaire {
	return &Questionnaire{
		Questions: []QuestionDefinition{
			{ID: "q1", Text: "完成品・仕掛品の在庫基準を数値で管理していますか？", Category: models.CategoryInventory, Scale: models.ScaleYN3},
			{ID: "q2", Text: "在庫削減の責任部署（またはKPI）が明確ですか？", Category: models.CategoryInventory, Scale: models.ScaleYN3},
			{ID: "q3", Text: "熟練者しか対応できない作業が3割以上ありますか？（Yesはリスク高）", Category: models.CategorySkills, Scale: models.ScaleYN3, Invert: true},
			{ID: "q4", Text: "作業標準書・マニュアルを継続更新できる体制がありますか？", Category: models.CategorySkills, Scale: models.ScaleYN3},
			{ID: "q5", Text: "改善提案や原価削減の目標を数値で追っていますか？", Category: models.CategoryCost, Scale: models.ScaleYN3},
			{ID: "q6", Text: "現場リーダーがコスト感覚を持って行動していますか？", Category: models.CategoryCost, Scale: models.ScaleFive},
			{ID: "q7", Text: "受注変動や突発対応の標準ルールがありますか？", Category: models.CategoryPlanning, Scale: models.ScaleYN3},
			{ID: "q8", Text: "リードタイム短縮の取組を定期的に見直していますか？", Category: models.CategoryPlanning, Scale: models.ScaleYN3},
			{ID: "q9", Text: "現場の進捗や生産実績をリアルタイムで把握できますか？", Category: models.CategoryDX, Scale: models.ScaleYN3},
			{ID: "q10", Text: "データをもとに経営会議や現場ミーティングを行っていますか？", Category: models.CategoryDX, Scale: models.ScaleYN3},
		},
	}
}
