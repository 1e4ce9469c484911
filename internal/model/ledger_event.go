package model

import (
	"time"
)

// LedgerEventModel 引擎事件记录
type LedgerEventModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	EventType string `json:"event_type" gorm:"index;not null"`
	Data      string `json:"data" gorm:"type:text"`
	Processed bool   `json:"processed" gorm:"default:false"`
}

// TableName 自定义表名
func (LedgerEventModel) TableName() string {
	return "ledger_event"
}
