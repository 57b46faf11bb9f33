package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	config "shindan-api/configs"
	"shindan-api/pkg/models"
	"shindan-api/pkg/openai"
	"shindan-api/pkg/services"
	"shindan-api/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router       *gin.Engine
	responsesCSV *storage.CSVStore
	eventsCSV    *storage.CSVStore
}

// newTestEnv はテスト用のルーター一式を組み立てます（CSVのみの保存構成、AIキー未設定）。
func newTestEnv(t *testing.T, adminMode bool) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	cfg := &config.Config{
		AdminMode:     adminMode,
		AdminUsername: "admin",
		AdminPassword: "test-password",
	}

	book := storage.NewWorkbookStore("")
	responsesCSV := storage.NewCSVStore(filepath.Join(dir, "responses.csv"))
	eventsCSV := storage.NewCSVStore(filepath.Join(dir, "events.csv"))

	eventLogService := services.NewEventLogService(book, eventsCSV)
	sinkService := services.NewResultSinkService(book, responsesCSV, eventLogService)
	scoringService := services.NewScoringService(config.DefaultQuestionnaire())
	reportService := services.NewReportService()
	commentService := services.NewCommentService(openai.NewClient("https://api.openai.com", "", "gpt-4o-mini"))

	diagnoseHandler := NewDiagnoseHandler(scoringService, commentService, reportService, sinkService, eventLogService)
	adminHandler := NewAdminHandler(cfg, eventLogService)

	router := gin.New()
	router.GET("/health", HealthCheck)
	v1 := router.Group("/api/v1")
	{
		v1.GET("/questions", diagnoseHandler.GetQuestions)
		v1.POST("/diagnose", diagnoseHandler.Diagnose)
		admin := v1.Group("/admin")
		{
			admin.GET("/events", adminHandler.GetEvents)
			admin.POST("/maintenance/start", adminHandler.StartMaintenance)
			admin.POST("/maintenance/stop", adminHandler.StopMaintenance)
		}
	}

	return &testEnv{router: router, responsesCSV: responsesCSV, eventsCSV: eventsCSV}
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest("POST", path, bytes.NewBuffer(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func bestAnswers() map[string]string {
	return map[string]string{
		"q1": "Yes", "q2": "Yes",
		"q3": "No", "q4": "Yes",
		"q5": "Yes", "q6": "5（非常にある）",
		"q7": "Yes", "q8": "Yes",
		"q9": "Yes", "q10": "Yes",
	}
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t, false)

	req, err := http.NewRequest("GET", "/health", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestGetQuestions(t *testing.T) {
	env := newTestEnv(t, false)

	req, err := http.NewRequest("GET", "/api/v1/questions", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "q1")
	assert.Contains(t, w.Body.String(), "在庫・運搬")
	assert.Contains(t, w.Body.String(), "q10")
}

func TestDiagnoseAllBest(t *testing.T) {
	env := newTestEnv(t, false)

	w := postJSON(t, env.router, "/api/v1/diagnose", models.DiagnoseRequest{
		Company: "テスト製作所",
		Email:   "info@example.co.jp",
		Answers: bestAnswers(),
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                  `json:"success"`
		Result  models.DiagnoseResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 5.0, resp.Result.OverallScore)
	assert.Equal(t, models.SignalBlue, resp.Result.Signal)
	assert.Equal(t, "blue", resp.Result.SignalColor)
	assert.Equal(t, models.TypeBalanced, resp.Result.TypeLabel)
	assert.Equal(t, "低リスク", resp.Result.RiskLevel)
	assert.NotEmpty(t, resp.Result.SessionID)

	// AIキー未設定なので静的コメントにフォールバック
	assert.False(t, resp.Result.CommentGenerated)
	assert.Equal(t, models.TypeText[models.TypeBalanced], resp.Result.Comment)

	// 結果はCSVにサイレント保存される
	rows, err := env.responsesCSV.ReadRows()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, models.ResponseHeader, rows[0])

	// ai_comment列は空（静的文は保存しない）、total_scoreは2桁書式
	byColumn := make(map[string]string)
	for i, name := range models.ResponseHeader {
		byColumn[name] = rows[1][i]
	}
	assert.Equal(t, "", byColumn["ai_comment"])
	assert.Equal(t, "0", byColumn["ai_comment_len"])
	assert.Equal(t, "5.00", byColumn["total_score"])
	assert.Equal(t, models.TypeBalanced, byColumn["type_label"])
}

func TestDiagnoseAllWorst(t *testing.T) {
	env := newTestEnv(t, false)

	w := postJSON(t, env.router, "/api/v1/diagnose", models.DiagnoseRequest{
		Company: "テスト製作所",
		Email:   "info@example.co.jp",
		Answers: map[string]string{
			"q1": "No", "q2": "No",
			"q3": "Yes", "q4": "No",
			"q5": "No", "q6": "1（まったくない）",
			"q7": "No", "q8": "No",
			"q9": "No", "q10": "No",
		},
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Result models.DiagnoseResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1.0, resp.Result.OverallScore)
	assert.Equal(t, models.SignalRed, resp.Result.Signal)
	// 全カテゴリ同点の最低値は列挙順で先頭の在庫・運搬
	assert.Equal(t, models.TypeInventory, resp.Result.TypeLabel)
	assert.Equal(t, "高リスク", resp.Result.RiskLevel)
}

func TestDiagnoseValidation(t *testing.T) {
	env := newTestEnv(t, false)

	testCases := []struct {
		name    string
		company string
		email   string
		errMsg  string
	}{
		{"会社名なし", "", "info@example.co.jp", "会社名は必須です。"},
		{"メールなし", "テスト製作所", "", "メールアドレスは必須です。"},
		{"メール形式不正", "テスト製作所", "not-an-email", "メールアドレスの形式が正しくありません。"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(t, env.router, "/api/v1/diagnose", models.DiagnoseRequest{
				Company: tc.company,
				Email:   tc.email,
				Answers: bestAnswers(),
			})
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tc.errMsg)
		})
	}

	t.Run("ボディ形式不正", func(t *testing.T) {
		req, err := http.NewRequest("POST", "/api/v1/diagnose", bytes.NewBufferString("{broken"))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "リクエストボディの形式が正しくありません。")
	})

	// 入力検証エラー時は保存されない
	rows, err := env.responsesCSV.ReadRows()
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAdminEventsRequiresAdminMode(t *testing.T) {
	env := newTestEnv(t, false)

	req, err := http.NewRequest("GET", "/api/v1/admin/events", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "管理者モードが無効です")
}

func TestAdminEventsWithQueryFlag(t *testing.T) {
	env := newTestEnv(t, false)

	// 診断を1回実行するとAIコメント未生成のWARNイベントが残る
	w := postJSON(t, env.router, "/api/v1/diagnose", models.DiagnoseRequest{
		Company: "テスト製作所",
		Email:   "info@example.co.jp",
		Answers: bestAnswers(),
	})
	require.Equal(t, http.StatusOK, w.Code)

	req, err := http.NewRequest("GET", "/api/v1/admin/events?admin=1", nil)
	require.NoError(t, err)

	w2 := httptest.NewRecorder()
	env.router.ServeHTTP(w2, req)

	assert.Equal(t, http.StatusOK, w2.Code)

	var resp struct {
		Success bool                     `json:"success"`
		Count   int                      `json:"count"`
		Events  []models.DiagnosticEvent `json:"events"`
	}
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.GreaterOrEqual(t, resp.Count, 1)
	assert.Equal(t, "WARN", resp.Events[0].Level)
	assert.Contains(t, resp.Events[0].Message, "AIコメント未生成")
}

func TestAdminEventsWithConfigFlag(t *testing.T) {
	env := newTestEnv(t, true)

	req, err := http.NewRequest("GET", "/api/v1/admin/events", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "events")
}

func TestMaintenanceMode(t *testing.T) {
	env := newTestEnv(t, false)
	defer isMaintenanceMode.Store(false)

	// 認証失敗
	w := postJSON(t, env.router, "/api/v1/admin/maintenance/start", AdminCredentials{
		Username: "admin",
		Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 開始するとヘルスチェックが503になる
	w = postJSON(t, env.router, "/api/v1/admin/maintenance/start", AdminCredentials{
		Username: "admin",
		Password: "test-password",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	req, err := http.NewRequest("GET", "/health", nil)
	require.NoError(t, err)
	w2 := httptest.NewRecorder()
	env.router.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusServiceUnavailable, w2.Code)

	// 停止で復帰
	w = postJSON(t, env.router, "/api/v1/admin/maintenance/stop", AdminCredentials{
		Username: "admin",
		Password: "test-password",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w3 := httptest.NewRecorder()
	req2, _ := http.NewRequest("GET", "/health", nil)
	env.router.ServeHTTP(w3, req2)
	assert.Equal(t, http.StatusOK, w3.Code)
}
