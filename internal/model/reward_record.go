package model

import (
	"time"
)

// RewardRecordModel 出资奖励发放记录
type RewardRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CampaignId uint64 `json:"campaign_id" gorm:"index;not null"`
	Address    string `json:"address" gorm:"index;not null"`
	Amount     string `json:"amount" gorm:"type:numeric(78,0);not null"`
}

// TableName 自定义表名
func (RewardRecordModel) TableName() string {
	return "reward_record"
}
