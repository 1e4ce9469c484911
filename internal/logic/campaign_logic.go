package logic

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/blues/egf/internal/model"
	"gorm.io/gorm"
)

// CampaignLogic 活动读模型业务逻辑
type CampaignLogic struct {
	db *gorm.DB
}

// NewCampaignLogic 创建活动业务逻辑
func NewCampaignLogic(db *gorm.DB) *CampaignLogic {
	return &CampaignLogic{db: db}
}

// SaveCampaign 按引擎活动ID写入或更新读模型行
func (l *CampaignLogic) SaveCampaign(campaign *model.CampaignModel) error {
	var existing model.CampaignModel
	err := l.db.Where("campaign_id = ?", campaign.CampaignId).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := l.db.Create(campaign).Error; err != nil {
			return fmt.Errorf("创建活动记录失败: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("查询活动记录失败: %w", err)
	}

	campaign.Id = existing.Id
	campaign.CreatedAt = existing.CreatedAt
	if err := l.db.Save(campaign).Error; err != nil {
		return fmt.Errorf("更新活动记录失败: %w", err)
	}
	return nil
}

// UpdateStatus 更新活动状态
func (l *CampaignLogic) UpdateStatus(campaignId uint64, status model.CampaignStatus) error {
	if err := l.db.Model(&model.CampaignModel{}).
		Where("campaign_id = ?", campaignId).
		Update("status", status).Error; err != nil {
		return fmt.Errorf("更新活动状态失败: %w", err)
	}
	return nil
}

// MarkClaimed 标记创建者已提取
func (l *CampaignLogic) MarkClaimed(campaignId uint64) error {
	if err := l.db.Model(&model.CampaignModel{}).
		Where("campaign_id = ?", campaignId).
		Updates(map[string]interface{}{
			"claimed": true,
			"status":  model.CampaignStatusClaimed,
		}).Error; err != nil {
		return fmt.Errorf("标记活动提取失败: %w", err)
	}
	return nil
}

// GetCampaigns 获取活动列表
func (l *CampaignLogic) GetCampaigns(status, creator string, page, pageSize int) ([]model.CampaignModel, int64, error) {
	var campaigns []model.CampaignModel
	var total int64

	query := l.db.Model(&model.CampaignModel{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if creator != "" {
		query = query.Where("creator_address = ?", creator)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取活动总数失败: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := query.Offset(offset).Limit(pageSize).Order("campaign_id ASC").Find(&campaigns).Error; err != nil {
		return nil, 0, fmt.Errorf("获取活动列表失败: %w", err)
	}

	return campaigns, total, nil
}

// GetCampaign 获取活动详情
func (l *CampaignLogic) GetCampaign(campaignId uint64) (*model.CampaignModel, error) {
	var campaign model.CampaignModel
	if err := l.db.Where("campaign_id = ?", campaignId).First(&campaign).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("活动不存在")
		}
		return nil, fmt.Errorf("获取活动详情失败: %w", err)
	}
	return &campaign, nil
}

// GetCampaignStats 获取单个活动的统计信息
func (l *CampaignLogic) GetCampaignStats(campaignId uint64) (map[string]interface{}, error) {
	campaign, err := l.GetCampaign(campaignId)
	if err != nil {
		return nil, err
	}

	var contributorCount int64
	l.db.Model(&model.ContributionRecordModel{}).
		Where("campaign_id = ?", campaignId).
		Distinct("address").
		Count(&contributorCount)

	var contributionCount int64
	l.db.Model(&model.ContributionRecordModel{}).
		Where("campaign_id = ?", campaignId).
		Count(&contributionCount)

	// 完成百分比按wei精度计算
	completion := float64(0)
	target, okT := new(big.Int).SetString(campaign.TargetAmount, 10)
	collected, okC := new(big.Int).SetString(campaign.AmountCollected, 10)
	if okT && okC && target.Sign() > 0 {
		ratio := new(big.Rat).SetFrac(collected, target)
		f, _ := ratio.Float64()
		completion = f * 100
	}

	remaining := time.Duration(0)
	if campaign.Status == model.CampaignStatusActive && time.Now().Before(campaign.EndTime) {
		remaining = time.Until(campaign.EndTime)
	}

	return map[string]interface{}{
		"campaign_id":           campaign.CampaignId,
		"amount_collected":      campaign.AmountCollected,
		"target_amount":         campaign.TargetAmount,
		"completion_percentage": completion,
		"contributor_count":     contributorCount,
		"contribution_count":    contributionCount,
		"remaining_time":        remaining.String(),
		"status":                string(campaign.Status),
	}, nil
}

// GetAllCampaignStats 获取所有活动的统计信息
func (l *CampaignLogic) GetAllCampaignStats() (map[string]interface{}, error) {
	var totalCampaigns int64
	l.db.Model(&model.CampaignModel{}).Count(&totalCampaigns)

	counts := make(map[string]int64)
	for _, status := range []model.CampaignStatus{
		model.CampaignStatusUpcoming,
		model.CampaignStatusActive,
		model.CampaignStatusPaused,
		model.CampaignStatusSuccess,
		model.CampaignStatusFailed,
		model.CampaignStatusClaimed,
	} {
		var n int64
		l.db.Model(&model.CampaignModel{}).Where("status = ?", status).Count(&n)
		counts[string(status)] = n
	}

	// 总筹集额，numeric列直接在SQL里求和
	var totalRaised string
	l.db.Model(&model.CampaignModel{}).
		Select("COALESCE(SUM(amount_collected), 0)::text").
		Scan(&totalRaised)

	var totalContributors int64
	l.db.Model(&model.ContributionRecordModel{}).
		Distinct("address").
		Count(&totalContributors)

	return map[string]interface{}{
		"totalCampaigns":    totalCampaigns,
		"statusCounts":      counts,
		"totalRaised":       totalRaised,
		"totalContributors": totalContributors,
	}, nil
}
