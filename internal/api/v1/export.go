package v1

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AlexMcLaughlin1/sessions/internal/calendar"
)

const exportDownloadTTL = 10 * time.Minute

// Export 生成进度工作簿，返回下载令牌
// POST /api/export
func (h *Handler) Export(c *gin.Context) {
	f, err := h.exporter.Export()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "导出失败: " + err.Error()})
		return
	}
	defer func() { _ = f.Close() }()

	if err := os.MkdirAll(h.exportsDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建导出目录失败"})
		return
	}

	filePath := filepath.Join(h.exportsDir, uuid.NewString()+".xlsx")
	if err := f.SaveAs(filePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存导出文件失败: " + err.Error()})
		return
	}

	fileName := fmt.Sprintf("training-plan-%s.xlsx", calendar.FormatISO(h.tracker.Today()))
	token := h.downloads.put(filePath, fileName, exportDownloadTTL)
	c.JSON(http.StatusOK, gin.H{
		"token":       token,
		"fileName":    fileName,
		"downloadUrl": "/api/export/download/" + token,
	})
}

// DownloadExport 下载导出文件
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	item, ok := h.downloads.get(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接已失效"})
		return
	}
	if _, err := os.Stat(item.filePath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "导出文件不存在"})
		return
	}
	c.FileAttachment(item.filePath, item.fileName)
}
