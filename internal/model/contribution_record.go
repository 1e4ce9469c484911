package model

import (
	"time"
)

// ContributionRecordModel 出资记录
type ContributionRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CampaignId uint64 `json:"campaign_id" gorm:"index;not null"`
	Address    string `json:"address" gorm:"index;not null"`
	// 出资币种，空字符串表示原生币
	TokenAddress string `json:"token_address"`
	Amount       string `json:"amount" gorm:"type:numeric(78,0);not null"`
}

// TableName 自定义表名
func (ContributionRecordModel) TableName() string {
	return "contribution_record"
}
