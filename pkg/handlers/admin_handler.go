package handlers

import (
	"net/http"
	"sync/atomic"

	config "shindan-api/configs"
	"shindan-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// isMaintenanceMode はサーバーがメンテナンスモードかどうかを示します。
// atomic.Boolを使用して、スレッドセーフな読み書きを保証します。
var isMaintenanceMode atomic.Bool

// AdminHandler は管理者向け操作（イベントログ確認・メンテナンス切替）のハンドラです。
type AdminHandler struct {
	cfg    *config.Config
	events *services.EventLogService
}

// NewAdminHandler は新しいAdminHandlerを生成します。
func NewAdminHandler(cfg *config.Config, events *services.EventLogService) *AdminHandler {
	return &AdminHandler{
		cfg:    cfg,
		events: events,
	}
}

// AdminCredentials は管理者認証のためのリクエストボディです。
type AdminCredentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// adminModeActive は管理者モードが有効かを判定します。
// クエリパラメータ ?admin=1 またはデプロイ設定 ADMIN_MODE=1 で有効になります。
func (h *AdminHandler) adminModeActive(c *gin.Context) bool {
	return c.Query("admin") == "1" || h.cfg.AdminMode
}

// GetEvents は最新50件の診断イベントを新しい順で返します（管理者モード限定）。
func (h *AdminHandler) GetEvents(c *gin.Context) {
	if !h.adminModeActive(c) {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "管理者モードが無効です",
		})
		return
	}

	events := h.events.Recent(services.RecentEventLimit)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(events),
		"events":  events,
	})
}

// StartMaintenance はメンテナンスモードを開始します。
func (h *AdminHandler) StartMaintenance(c *gin.Context) {
	var input AdminCredentials
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	if input.Username != h.cfg.AdminUsername || input.Password != h.cfg.AdminPassword {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	isMaintenanceMode.Store(true)
	c.JSON(http.StatusOK, gin.H{"message": "Maintenance mode started"})
}

// StopMaintenance はメンテナンスモードを停止します。
func (h *AdminHandler) StopMaintenance(c *gin.Context) {
	var input AdminCredentials
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	if input.Username != h.cfg.AdminUsername || input.Password != h.cfg.AdminPassword {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	isMaintenanceMode.Store(false)
	c.JSON(http.StatusOK, gin.H{"message": "Maintenance mode stopped"})
}

// HealthCheck は外部のヘルスチェッカー（例: ロードバランサー）からのリクエストに応答します。
func HealthCheck(c *gin.Context) {
	if isMaintenanceMode.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "message": "Server is in maintenance mode"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
