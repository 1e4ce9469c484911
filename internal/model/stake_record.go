package model

import (
	"time"
)

// StakeRecordModel 质押记录，每个地址当前仓位加历史
type StakeRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Address   string    `json:"address" gorm:"index;not null"`
	Amount    string    `json:"amount" gorm:"type:numeric(78,0);not null"`
	Duration  int64     `json:"duration" gorm:"not null"` // 秒
	StartTime time.Time `json:"start_time" gorm:"not null"`

	Status StakeStatus `json:"status" gorm:"default:'active'"`
	// 已发放的收益，领取或转投后填写
	Reward string `json:"reward" gorm:"type:numeric(78,0);default:0"`
}

// StakeStatus 质押仓位状态
type StakeStatus string

const (
	StakeStatusActive     StakeStatus = "active"     // 计息中
	StakeStatusClaimed    StakeStatus = "claimed"    // 收益已领取
	StakeStatusReinvested StakeStatus = "reinvested" // 收益已转投
	StakeStatusUnstaked   StakeStatus = "unstaked"   // 本金已取回
)

// TableName 自定义表名
func (StakeRecordModel) TableName() string {
	return "stake_record"
}
