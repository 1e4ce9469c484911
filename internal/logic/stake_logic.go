package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/blues/egf/internal/model"
	"gorm.io/gorm"
)

// StakeLogic 质押记录业务逻辑
type StakeLogic struct {
	db *gorm.DB
}

// NewStakeLogic 创建质押业务逻辑
func NewStakeLogic(db *gorm.DB) *StakeLogic {
	return &StakeLogic{db: db}
}

// OpenPosition 记录新的计息仓位，再次质押会新开一行
func (l *StakeLogic) OpenPosition(address, amount string, duration int64, startTime time.Time) error {
	record := &model.StakeRecordModel{
		Address:   address,
		Amount:    amount,
		Duration:  duration,
		StartTime: startTime,
		Status:    model.StakeStatusActive,
	}
	if err := l.db.Create(record).Error; err != nil {
		return fmt.Errorf("创建质押记录失败: %w", err)
	}
	return nil
}

// ClosePosition 关闭地址的计息仓位并记录发放的收益
func (l *StakeLogic) ClosePosition(address string, status model.StakeStatus, reward string) error {
	if err := l.db.Model(&model.StakeRecordModel{}).
		Where("address = ? AND status = ?", address, model.StakeStatusActive).
		Updates(map[string]interface{}{
			"status": status,
			"reward": reward,
		}).Error; err != nil {
		return fmt.Errorf("关闭质押仓位失败: %w", err)
	}
	return nil
}

// MarkUnstaked 标记本金已取回
func (l *StakeLogic) MarkUnstaked(address string) error {
	if err := l.db.Model(&model.StakeRecordModel{}).
		Where("address = ? AND status <> ?", address, model.StakeStatusUnstaked).
		Update("status", model.StakeStatusUnstaked).Error; err != nil {
		return fmt.Errorf("标记赎回失败: %w", err)
	}
	return nil
}

// GetActivePosition 获取地址当前计息仓位
func (l *StakeLogic) GetActivePosition(address string) (*model.StakeRecordModel, error) {
	var record model.StakeRecordModel
	err := l.db.Where("address = ? AND status = ?", address, model.StakeStatusActive).
		Order("created_at DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New("没有计息中的仓位")
	}
	if err != nil {
		return nil, fmt.Errorf("获取质押仓位失败: %w", err)
	}
	return &record, nil
}

// GetHistory 获取地址的质押历史
func (l *StakeLogic) GetHistory(address string, page, pageSize int) ([]model.StakeRecordModel, int64, error) {
	var records []model.StakeRecordModel
	var total int64

	query := l.db.Model(&model.StakeRecordModel{}).Where("address = ?", address)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取质押记录总数失败: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, 0, fmt.Errorf("获取质押记录失败: %w", err)
	}

	return records, total, nil
}

// GetStakingStats 获取质押统计信息
func (l *StakeLogic) GetStakingStats() (map[string]interface{}, error) {
	var totalPositions int64
	l.db.Model(&model.StakeRecordModel{}).Count(&totalPositions)

	var activePositions int64
	l.db.Model(&model.StakeRecordModel{}).
		Where("status = ?", model.StakeStatusActive).
		Count(&activePositions)

	var totalStaked string
	l.db.Model(&model.StakeRecordModel{}).
		Where("status = ?", model.StakeStatusActive).
		Select("COALESCE(SUM(amount), 0)::text").
		Scan(&totalStaked)

	var totalRewards string
	l.db.Model(&model.StakeRecordModel{}).
		Select("COALESCE(SUM(reward), 0)::text").
		Scan(&totalRewards)

	return map[string]interface{}{
		"totalPositions":  totalPositions,
		"activePositions": activePositions,
		"totalStaked":     totalStaked,
		"totalRewards":    totalRewards,
	}, nil
}
