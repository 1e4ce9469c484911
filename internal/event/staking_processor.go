package event

import (
	"github.com/blues/egf/internal/ledger"
	"github.com/blues/egf/internal/logic"
	"github.com/blues/egf/internal/model"
	"gorm.io/gorm"
)

// StakingProcessor 质押事件处理器
type StakingProcessor struct {
	stakeLogic *logic.StakeLogic
}

// NewStakingProcessor 创建质押事件处理器
func NewStakingProcessor(db *gorm.DB) *StakingProcessor {
	return &StakingProcessor{
		stakeLogic: logic.NewStakeLogic(db),
	}
}

// HandleStaked 记录新仓位，引擎语义下再次质押会覆盖旧仓位
func (p *StakingProcessor) HandleStaked(e ledger.Staked) error {
	// 旧的计息行先关掉，避免同一地址出现两行active
	if err := p.stakeLogic.ClosePosition(e.Staker.Hex(), model.StakeStatusClaimed, "0"); err != nil {
		return err
	}
	return p.stakeLogic.OpenPosition(e.Staker.Hex(), e.Amount.String(), int64(e.Duration.Seconds()), e.StartTime)
}

// HandleRewardPaid 收益发放后关闭仓位
func (p *StakingProcessor) HandleRewardPaid(e ledger.StakingRewardPaid) error {
	return p.stakeLogic.ClosePosition(e.Staker.Hex(), model.StakeStatusClaimed, e.Reward.String())
}

// HandleReinvested 收益转投后关闭仓位
func (p *StakingProcessor) HandleReinvested(e ledger.RewardReinvested) error {
	return p.stakeLogic.ClosePosition(e.Staker.Hex(), model.StakeStatusReinvested, e.Amount.String())
}

// HandleUnstaked 本金取回
func (p *StakingProcessor) HandleUnstaked(e ledger.Unstaked) error {
	return p.stakeLogic.MarkUnstaked(e.Staker.Hex())
}
