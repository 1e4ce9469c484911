package logic

import (
	"fmt"

	"github.com/blues/egf/internal/model"
	"gorm.io/gorm"
)

// ContributionRecordLogic 出资记录业务逻辑
type ContributionRecordLogic struct {
	db *gorm.DB
}

// NewContributionRecordLogic 创建出资记录业务逻辑
func NewContributionRecordLogic(db *gorm.DB) *ContributionRecordLogic {
	return &ContributionRecordLogic{db: db}
}

// CreateRecord 创建出资记录
func (l *ContributionRecordLogic) CreateRecord(record *model.ContributionRecordModel) error {
	if err := l.db.Create(record).Error; err != nil {
		return fmt.Errorf("创建出资记录失败: %w", err)
	}
	return nil
}

// GetByCampaign 获取活动的出资记录
func (l *ContributionRecordLogic) GetByCampaign(campaignId uint64, page, pageSize int) ([]model.ContributionRecordModel, int64, error) {
	var records []model.ContributionRecordModel
	var total int64

	query := l.db.Model(&model.ContributionRecordModel{}).Where("campaign_id = ?", campaignId)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取出资记录总数失败: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, 0, fmt.Errorf("获取出资记录失败: %w", err)
	}

	return records, total, nil
}

// GetByAddress 获取地址的出资记录
func (l *ContributionRecordLogic) GetByAddress(address string, page, pageSize int) ([]model.ContributionRecordModel, int64, error) {
	var records []model.ContributionRecordModel
	var total int64

	query := l.db.Model(&model.ContributionRecordModel{}).Where("address = ?", address)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取出资记录总数失败: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, 0, fmt.Errorf("获取出资记录失败: %w", err)
	}

	return records, total, nil
}
