package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/AlexMcLaughlin1/sessions/internal/exporter"
	"github.com/AlexMcLaughlin1/sessions/internal/service/tracker"
)

// Handler 训练计划 API 处理器
type Handler struct {
	tracker    *tracker.Tracker
	exporter   *exporter.Exporter
	exportsDir string
	downloads  *exportDownloadStore
}

// NewHandler 创建 API 处理器
func NewHandler(t *tracker.Tracker, exportsDir string) *Handler {
	return &Handler{
		tracker:    t,
		exporter:   exporter.NewExporter(t),
		exportsDir: exportsDir,
		downloads:  newExportDownloadStore(),
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 训练表格与汇总
	router.GET("/board", h.GetBoard)
	router.GET("/stats", h.GetStats)

	// 单元格操作
	// key 放在请求体中：列名可能含 "/"
	router.POST("/cells/toggle", h.ToggleCompletion)
	router.PUT("/cells/planned", h.SetPlannedDay)

	// 导出
	router.POST("/export", h.Export)
	router.GET("/export/download/:token", h.DownloadExport)
}
