package main

import (
	"log"

	config "shindan-api/configs"
	"shindan-api/pkg/handlers"
	"shindan-api/pkg/openai"
	"shindan-api/pkg/services"
	"shindan-api/pkg/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .envファイルを読み込み
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	// 設定の読み込み
	cfg := config.LoadConfig()

	// 設問定義の読み込み（ファイルが無ければ組み込みのデフォルト）
	questionnaire, err := config.LoadQuestionnaire(cfg.QuestionsPath)
	if err != nil {
		log.Fatalf("設問定義の読み込みに失敗しました: %v", err)
	}

	// ストレージの初期化（Excelブック優先・CSVフォールバック）
	book := storage.NewWorkbookStore(cfg.ExcelBookPath)
	responsesCSV := storage.NewCSVStore(cfg.ResponsesCSVPath)
	eventsCSV := storage.NewCSVStore(cfg.EventsCSVPath)
	if book.Configured() {
		log.Printf("保存先: Excelブック %s（フォールバック: %s）", cfg.ExcelBookPath, cfg.ResponsesCSVPath)
	} else {
		log.Printf("保存先: CSV %s（Excelブック未設定）", cfg.ResponsesCSVPath)
	}

	// サービスの初期化
	eventLogService := services.NewEventLogService(book, eventsCSV)
	resultSinkService := services.NewResultSinkService(book, responsesCSV, eventLogService)
	scoringService := services.NewScoringService(questionnaire)
	reportService := services.NewReportService()
	commentService := services.NewCommentService(
		openai.NewClient(cfg.OpenAIEndpoint, cfg.OpenAIAPIKey, cfg.OpenAIModel),
	)

	// ハンドラーの初期化
	diagnoseHandler := handlers.NewDiagnoseHandler(
		scoringService, commentService, reportService, resultSinkService, eventLogService,
	)
	adminHandler := handlers.NewAdminHandler(cfg, eventLogService)

	// Ginルーターの初期化
	r := gin.Default()
	r.Use(cors.Default())

	// ヘルスチェックエンドポイント
	r.GET("/health", handlers.HealthCheck)

	// APIバージョン1のルートグループ
	v1 := r.Group("/api/v1")
	{
		v1.GET("/questions", diagnoseHandler.GetQuestions)
		v1.POST("/diagnose", diagnoseHandler.Diagnose)

		// 管理者向けAPI
		admin := v1.Group("/admin")
		{
			admin.GET("/events", adminHandler.GetEvents)
			admin.POST("/maintenance/start", adminHandler.StartMaintenance)
			admin.POST("/maintenance/stop", adminHandler.StopMaintenance)
		}
	}

	log.Printf("Starting shindan-api server on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
