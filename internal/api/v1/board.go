package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AlexMcLaughlin1/sessions/internal/model"
	"github.com/AlexMcLaughlin1/sessions/internal/service/tracker"
)

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.tracker.Status())
}

// GetBoard 获取训练表格（含汇总）
// GET /api/board
func (h *Handler) GetBoard(c *gin.Context) {
	c.JSON(http.StatusOK, h.tracker.Board())
}

// GetStats 获取汇总
// GET /api/stats
func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.tracker.Stats())
}

type toggleRequest struct {
	Key string `json:"key" binding:"required"`
}

// ToggleCompletion 切换完成状态
// POST /api/cells/toggle {"key": "completed_0_session_1"}
func (h *Handler) ToggleCompletion(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}
	key, err := model.ParseCellKey(req.Key)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "非法单元格标识"})
		return
	}

	update, err := h.tracker.ToggleCompletion(key)
	if err != nil {
		writeCellError(c, err)
		return
	}
	c.JSON(http.StatusOK, update)
}

type plannedDayRequest struct {
	Key  string `json:"key" binding:"required"`
	Date string `json:"date"`
}

// SetPlannedDay 设置计划日期（空串或 "Unplanned" 表示取消）
// PUT /api/cells/planned {"key": "planned_0_session_1", "date": "2025-01-07"}
func (h *Handler) SetPlannedDay(c *gin.Context) {
	var req plannedDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}
	key, err := model.ParseCellKey(req.Key)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "非法单元格标识"})
		return
	}

	update, err := h.tracker.SetPlannedDay(key, req.Date)
	if err != nil {
		writeCellError(c, err)
		return
	}
	c.JSON(http.StatusOK, update)
}

func writeCellError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, tracker.ErrUnknownCell):
		c.JSON(http.StatusNotFound, gin.H{"error": "单元格不存在"})
	case errors.Is(err, tracker.ErrWrongKeyPrefix):
		c.JSON(http.StatusBadRequest, gin.H{"error": "单元格标识类型不匹配"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
