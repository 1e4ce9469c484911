package logic

import (
	"fmt"

	"github.com/blues/egf/internal/model"
	"gorm.io/gorm"
)

// RefundRecordLogic 退款记录业务逻辑
type RefundRecordLogic struct {
	db *gorm.DB
}

// NewRefundRecordLogic 创建退款记录业务逻辑
func NewRefundRecordLogic(db *gorm.DB) *RefundRecordLogic {
	return &RefundRecordLogic{db: db}
}

// CreateRecord 创建退款记录
func (l *RefundRecordLogic) CreateRecord(record *model.RefundRecordModel) error {
	if err := l.db.Create(record).Error; err != nil {
		return fmt.Errorf("创建退款记录失败: %w", err)
	}
	return nil
}

// GetByCampaign 获取活动的退款记录
func (l *RefundRecordLogic) GetByCampaign(campaignId uint64, page, pageSize int) ([]model.RefundRecordModel, int64, error) {
	var records []model.RefundRecordModel
	var total int64

	query := l.db.Model(&model.RefundRecordModel{}).Where("campaign_id = ?", campaignId)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取退款记录总数失败: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, 0, fmt.Errorf("获取退款记录失败: %w", err)
	}

	return records, total, nil
}

// RewardRecordLogic 奖励发放记录业务逻辑
type RewardRecordLogic struct {
	db *gorm.DB
}

// NewRewardRecordLogic 创建奖励记录业务逻辑
func NewRewardRecordLogic(db *gorm.DB) *RewardRecordLogic {
	return &RewardRecordLogic{db: db}
}

// CreateRecord 创建奖励记录
func (l *RewardRecordLogic) CreateRecord(record *model.RewardRecordModel) error {
	if err := l.db.Create(record).Error; err != nil {
		return fmt.Errorf("创建奖励记录失败: %w", err)
	}
	return nil
}

// GetByAddress 获取地址的奖励记录
func (l *RewardRecordLogic) GetByAddress(address string, page, pageSize int) ([]model.RewardRecordModel, int64, error) {
	var records []model.RewardRecordModel
	var total int64

	query := l.db.Model(&model.RewardRecordModel{}).Where("address = ?", address)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取奖励记录总数失败: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, 0, fmt.Errorf("获取奖励记录失败: %w", err)
	}

	return records, total, nil
}
