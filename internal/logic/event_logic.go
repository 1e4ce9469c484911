package logic

import (
	"errors"
	"fmt"

	"github.com/blues/egf/internal/model"
	"gorm.io/gorm"
)

// EventLogic 事件业务逻辑
type EventLogic struct {
	db *gorm.DB
}

// NewEventLogic 创建事件业务逻辑
func NewEventLogic(db *gorm.DB) *EventLogic {
	return &EventLogic{db: db}
}

// CreateEvent 创建事件记录
func (e *EventLogic) CreateEvent(event *model.LedgerEventModel) error {
	if event.EventType == "" {
		return errors.New("事件类型不能为空")
	}
	if err := e.db.Create(event).Error; err != nil {
		return fmt.Errorf("创建事件记录失败: %w", err)
	}
	return nil
}

// GetEvents 获取事件列表
func (e *EventLogic) GetEvents(eventType string, page, pageSize int) ([]model.LedgerEventModel, int64, error) {
	var events []model.LedgerEventModel
	var total int64

	query := e.db.Model(&model.LedgerEventModel{})
	if eventType != "" {
		query = query.Where("event_type = ?", eventType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取事件总数失败: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&events).Error; err != nil {
		return nil, 0, fmt.Errorf("获取事件列表失败: %w", err)
	}

	return events, total, nil
}

// GetEvent 获取单个事件
func (e *EventLogic) GetEvent(id int64) (*model.LedgerEventModel, error) {
	var event model.LedgerEventModel
	if err := e.db.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("事件不存在")
		}
		return nil, fmt.Errorf("获取事件失败: %w", err)
	}
	return &event, nil
}

// UpdateEventProcessed 更新事件处理状态
func (e *EventLogic) UpdateEventProcessed(id int64, processed bool) error {
	if err := e.db.Model(&model.LedgerEventModel{}).Where("id = ?", id).Update("processed", processed).Error; err != nil {
		return fmt.Errorf("更新事件处理状态失败: %w", err)
	}
	return nil
}

// GetUnprocessedEvents 获取未处理的事件
func (e *EventLogic) GetUnprocessedEvents(limit int) ([]model.LedgerEventModel, error) {
	var events []model.LedgerEventModel
	if err := e.db.Where("processed = ?", false).
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("获取未处理事件失败: %w", err)
	}
	return events, nil
}

// GetEventStatistics 获取事件统计信息
func (e *EventLogic) GetEventStatistics() (map[string]interface{}, error) {
	var total int64
	if err := e.db.Model(&model.LedgerEventModel{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("获取总事件数失败: %w", err)
	}

	var processed int64
	if err := e.db.Model(&model.LedgerEventModel{}).Where("processed = ?", true).Count(&processed).Error; err != nil {
		return nil, fmt.Errorf("获取已处理事件数失败: %w", err)
	}

	return map[string]interface{}{
		"total_events":     total,
		"processed_events": processed,
		"pending_events":   total - processed,
	}, nil
}
