package event

import (
	"github.com/blues/egf/internal/ledger"
	"github.com/blues/egf/internal/logic"
	"github.com/blues/egf/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

// FundingProcessor 出资/退款/奖励事件处理器
type FundingProcessor struct {
	contributionLogic *logic.ContributionRecordLogic
	refundLogic       *logic.RefundRecordLogic
	rewardLogic       *logic.RewardRecordLogic
	campaignProcessor *CampaignProcessor
}

// NewFundingProcessor 创建出资事件处理器
func NewFundingProcessor(db *gorm.DB, campaignProcessor *CampaignProcessor) *FundingProcessor {
	return &FundingProcessor{
		contributionLogic: logic.NewContributionRecordLogic(db),
		refundLogic:       logic.NewRefundRecordLogic(db),
		rewardLogic:       logic.NewRewardRecordLogic(db),
		campaignProcessor: campaignProcessor,
	}
}

// HandleFunded 记录出资并刷新活动行
func (p *FundingProcessor) HandleFunded(e ledger.CampaignFunded) error {
	record := &model.ContributionRecordModel{
		CampaignId:   e.ID,
		Address:      e.Funder.Hex(),
		TokenAddress: tokenColumn(e.Token),
		Amount:       e.Amount.String(),
	}
	if err := p.contributionLogic.CreateRecord(record); err != nil {
		return err
	}
	return p.campaignProcessor.Refresh(e.ID)
}

// HandleRefund 记录退款并刷新活动行
func (p *FundingProcessor) HandleRefund(e ledger.RefundIssued) error {
	record := &model.RefundRecordModel{
		CampaignId:   e.ID,
		Address:      e.Contributor.Hex(),
		TokenAddress: tokenColumn(e.Token),
		Amount:       e.Amount.String(),
	}
	if err := p.refundLogic.CreateRecord(record); err != nil {
		return err
	}
	return p.campaignProcessor.Refresh(e.ID)
}

// HandleReward 记录奖励发放
func (p *FundingProcessor) HandleReward(e ledger.RewardClaimed) error {
	return p.rewardLogic.CreateRecord(&model.RewardRecordModel{
		CampaignId: e.ID,
		Address:    e.Contributor.Hex(),
		Amount:     e.Reward.String(),
	})
}

// tokenColumn 原生币出资的token列留空
func tokenColumn(token common.Address) string {
	if token == (common.Address{}) {
		return ""
	}
	return token.Hex()
}
