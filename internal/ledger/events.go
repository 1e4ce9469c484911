package ledger

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Event 账本事件，前端/索引器可订阅
type Event interface {
	Name() string
}

// EventSink 事件接收器，由服务层注入
type EventSink interface {
	Publish(event Event)
}

// NopSink 丢弃所有事件
type NopSink struct{}

func (NopSink) Publish(Event) {}

// CampaignCreated 活动创建事件
type CampaignCreated struct {
	ID           uint64
	Creator      common.Address
	TargetAmount *big.Int
	StartAt      time.Time
	EndAt        time.Time
}

func (CampaignCreated) Name() string { return "CampaignCreated" }

// CampaignUpdated 活动更新事件
type CampaignUpdated struct {
	ID           uint64
	Creator      common.Address
	TargetAmount *big.Int
	StartAt      time.Time
	EndAt        time.Time
}

func (CampaignUpdated) Name() string { return "CampaignUpdated" }

// CampaignFunded 出资事件，Token为零值表示原生币出资
type CampaignFunded struct {
	ID     uint64
	Funder common.Address
	Amount *big.Int
	Token  common.Address
}

func (CampaignFunded) Name() string { return "CampaignFunded" }

// WithdrawSuccessful 创建者提取事件
type WithdrawSuccessful struct {
	ID      uint64
	Creator common.Address
	Amount  *big.Int
}

func (WithdrawSuccessful) Name() string { return "WithdrawSuccessful" }

// RefundIssued 退款事件
type RefundIssued struct {
	ID          uint64
	Contributor common.Address
	Amount      *big.Int
	Token       common.Address
}

func (RefundIssued) Name() string { return "RefundIssued" }

// RewardClaimed 出资奖励领取事件
type RewardClaimed struct {
	ID          uint64
	Contributor common.Address
	Reward      *big.Int
}

func (RewardClaimed) Name() string { return "RewardClaimed" }

// TokenAuthorisationChanged 出资币种授权变更事件
type TokenAuthorisationChanged struct {
	Token      common.Address
	Authorised bool
}

func (TokenAuthorisationChanged) Name() string { return "TokenAuthorisationChanged" }

// TokenLocked 持仓锁定事件
type TokenLocked struct {
	Holder common.Address
}

func (TokenLocked) Name() string { return "TokenLocked" }

// TokenUnlocked 持仓解锁事件
type TokenUnlocked struct {
	Holder common.Address
}

func (TokenUnlocked) Name() string { return "TokenUnlocked" }

// Staked 质押事件
type Staked struct {
	Staker    common.Address
	Amount    *big.Int
	Duration  time.Duration
	StartTime time.Time
}

func (Staked) Name() string { return "Staked" }

// StakingRewardPaid 质押收益发放事件
type StakingRewardPaid struct {
	Staker common.Address
	Reward *big.Int
}

func (StakingRewardPaid) Name() string { return "StakingRewardPaid" }

// RewardReinvested 质押收益转投事件
type RewardReinvested struct {
	Staker     common.Address
	CampaignID uint64
	Amount     *big.Int
}

func (RewardReinvested) Name() string { return "RewardReinvested" }

// Unstaked 本金赎回事件
type Unstaked struct {
	Staker common.Address
	Amount *big.Int
}

func (Unstaked) Name() string { return "Unstaked" }
