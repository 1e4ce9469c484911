package handler

import (
	"net/http"

	"github.com/blues/egf/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// EventHandler 事件查询接口
type EventHandler struct {
	eventLogic *logic.EventLogic
}

func NewEventHandler(db *gorm.DB) *EventHandler {
	return &EventHandler{eventLogic: logic.NewEventLogic(db)}
}

// GetEvents 获取事件列表
func (h *EventHandler) GetEvents(c *gin.Context) {
	eventType := c.Query("type")
	page, pageSize := pageParams(c)

	events, total, err := h.eventLogic.GetEvents(eventType, page, pageSize)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"events":     events,
		"pagination": paging(page, pageSize, total),
	})
}

// GetEventStats 获取事件统计
func (h *EventHandler) GetEventStats(c *gin.Context) {
	stats, err := h.eventLogic.GetEventStatistics()
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", stats)
}
