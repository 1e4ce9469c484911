package event

import (
	"fmt"
	"time"

	"github.com/blues/egf/internal/ledger"
	"github.com/blues/egf/internal/logic"
	"github.com/blues/egf/internal/model"
	"gorm.io/gorm"
)

// CampaignProcessor 活动事件处理器，把引擎快照投影进读模型
type CampaignProcessor struct {
	registry      *ledger.Registry
	campaignLogic *logic.CampaignLogic
}

// NewCampaignProcessor 创建活动事件处理器
func NewCampaignProcessor(db *gorm.DB) *CampaignProcessor {
	return &CampaignProcessor{
		campaignLogic: logic.NewCampaignLogic(db),
	}
}

// BindRegistry 注入活动登记簿
func (p *CampaignProcessor) BindRegistry(registry *ledger.Registry) {
	p.registry = registry
}

// Refresh 用引擎当前状态覆盖读模型行
func (p *CampaignProcessor) Refresh(campaignId uint64) error {
	if p.registry == nil {
		return fmt.Errorf("registry not bound")
	}
	c, err := p.registry.GetCampaign(campaignId)
	if err != nil {
		return fmt.Errorf("failed to load campaign %d: %w", campaignId, err)
	}

	row := &model.CampaignModel{
		CampaignId:      c.ID,
		Name:            c.Name,
		Description:     c.Description,
		ImageURL:        c.Image,
		TargetAmount:    c.TargetAmount.String(),
		AmountCollected: c.AmountCollected.String(),
		StartTime:       c.StartAt,
		EndTime:         c.EndAt,
		Status:          deriveStatus(&c, time.Now()),
		Claimed:         c.ClaimedByOwner,
		CreatorAddress:  c.Creator.Hex(),
	}
	return p.campaignLogic.SaveCampaign(row)
}

// HandleWithdraw 创建者提取后标记活动为已提取
func (p *CampaignProcessor) HandleWithdraw(e ledger.WithdrawSuccessful) error {
	if err := p.Refresh(e.ID); err != nil {
		return err
	}
	return p.campaignLogic.MarkClaimed(e.ID)
}

// deriveStatus 从引擎快照推导读模型状态
func deriveStatus(c *ledger.Campaign, now time.Time) model.CampaignStatus {
	switch {
	case c.ClaimedByOwner:
		return model.CampaignStatusClaimed
	case !c.IsActive:
		return model.CampaignStatusPaused
	case now.Before(c.StartAt):
		return model.CampaignStatusUpcoming
	case !now.Before(c.EndAt):
		if c.AmountCollected.Cmp(c.TargetAmount) >= 0 {
			return model.CampaignStatusSuccess
		}
		return model.CampaignStatusFailed
	case c.AmountCollected.Cmp(c.TargetAmount) >= 0:
		return model.CampaignStatusSuccess
	default:
		return model.CampaignStatusActive
	}
}
