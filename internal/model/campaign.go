package model

import (
	"time"
)

// CampaignModel 众筹活动读模型，镜像账本引擎状态
type CampaignModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 引擎内的活动ID
	CampaignId uint64 `json:"campaign_id" gorm:"uniqueIndex;not null"`

	// 基本信息
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
	ImageURL    string `json:"image_url"`

	// 金额列用numeric(78,0)保存wei精度
	TargetAmount    string `json:"target_amount" gorm:"type:numeric(78,0);not null"`
	AmountCollected string `json:"amount_collected" gorm:"type:numeric(78,0);default:0"`

	// 时间信息
	StartTime time.Time `json:"start_time" gorm:"not null"`
	EndTime   time.Time `json:"end_time" gorm:"not null"`

	// 状态
	Status  CampaignStatus `json:"status" gorm:"default:'active'"`
	Claimed bool           `json:"claimed" gorm:"default:false"`

	// 创建者地址
	CreatorAddress string `json:"creator_address" gorm:"index;not null"`
}

// CampaignStatus 活动状态
type CampaignStatus string

const (
	CampaignStatusActive   CampaignStatus = "active"   // 进行中
	CampaignStatusPaused   CampaignStatus = "paused"   // 已暂停
	CampaignStatusSuccess  CampaignStatus = "success"  // 达标
	CampaignStatusFailed   CampaignStatus = "failed"   // 到期未达标
	CampaignStatusClaimed  CampaignStatus = "claimed"  // 创建者已提取
	CampaignStatusUpcoming CampaignStatus = "upcoming" // 未开始
)

// TableName 自定义表名
func (CampaignModel) TableName() string {
	return "campaign"
}
