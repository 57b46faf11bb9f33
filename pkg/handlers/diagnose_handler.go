package handlers

import (
	"log"
	"math"
	"net/http"
	"regexp"
	"strings"

	"shindan-api/pkg/models"
	"shindan-api/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DiagnoseHandler は診断フォームのAPIハンドラです。
type DiagnoseHandler struct {
	scoring *services.ScoringService
	comment *services.CommentService
	report  *services.ReportService
	sink    *services.ResultSinkService
	events  *services.EventLogService
}

// NewDiagnoseHandler は新しいDiagnoseHandlerを生成します。
func NewDiagnoseHandler(
	scoring *services.ScoringService,
	comment *services.CommentService,
	report *services.ReportService,
	sink *services.ResultSinkService,
	events *services.EventLogService,
) *DiagnoseHandler {
	return &DiagnoseHandler{
		scoring: scoring,
		comment: comment,
		report:  report,
		sink:    sink,
		events:  events,
	}
}

var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

// validateSubmission は必須の識別情報を検証します。
// ここで弾かれるエラーだけが利用者に表示されます。
func validateSubmission(company, email string) (bool, string) {
	if strings.TrimSpace(company) == "" {
		return false, "会社名は必須です。"
	}
	if strings.TrimSpace(email) == "" {
		return false, "メールアドレスは必須です。"
	}
	if !emailRe.MatchString(strings.TrimSpace(email)) {
		return false, "メールアドレスの形式が正しくありません。"
	}
	return true, ""
}

// GetQuestions は設問定義を返します（フォーム描画用）。
func (h *DiagnoseHandler) GetQuestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"questions": h.scoring.Questions(),
	})
}

// Diagnose は診断フォームの送信を処理します。
// 入力検証エラー以外（AIコメント生成・保存の失敗）は利用者に見せず、
// 必ず診断結果を返します。
func (h *DiagnoseHandler) Diagnose(c *gin.Context) {
	var req models.DiagnoseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "リクエストボディの形式が正しくありません。",
		})
		return
	}

	if ok, msg := validateSubmission(req.Company, req.Email); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
		return
	}

	// 送信セッション（保存の二重実行防止フラグ付き）
	session := &models.DiagnosisSession{ID: uuid.NewString()}

	// スコア化と判定
	profile, overall := h.scoring.BuildProfile(req.Answers)
	signal := h.scoring.Signal(overall)
	mainType := h.scoring.DominantType(profile)

	// AIコメント生成（ベストエフォート）
	aiComment := ""
	commentGenerated := false
	if text, err := h.comment.Generate(req.Company, mainType, profile, overall); err != nil {
		log.Printf("AIコメント未生成: %v", err)
		h.events.Record("WARN", "AIコメント未生成: "+err.Error(), nil)
	} else {
		aiComment = services.ClampComment(text, services.MaxCommentLength)
		commentGenerated = true
	}

	// 保存レコードの組み立てとサイレント保存
	record := h.report.BuildRecord(services.AssembleInput{
		Company:     strings.TrimSpace(req.Company),
		Email:       strings.TrimSpace(req.Email),
		UTMSource:   req.UTMSource,
		UTMCampaign: req.UTMCampaign,
		Profile:     profile,
		Overall:     overall,
		TypeLabel:   mainType,
		AIComment:   aiComment,
	})
	h.sink.Save(session, record)

	// 表示用コメント（未生成時はタイプ別の静的文）
	displayComment := aiComment
	if displayComment == "" {
		displayComment = h.comment.StaticComment(mainType)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result": models.DiagnoseResult{
			SessionID:        session.ID,
			Company:          strings.TrimSpace(req.Company),
			ReportDate:       record.ReportDate,
			CategoryScores:   profile,
			OverallScore:     math.Round(overall*100) / 100,
			Signal:           signal,
			SignalColor:      models.SignalColors[signal],
			TypeLabel:        mainType,
			TypeText:         models.TypeText[mainType],
			Comment:          displayComment,
			CommentGenerated: commentGenerated,
			RiskLevel:        record.RiskLevel,
		},
	})
}
