package ledger

import (
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// 质押周期，按30天月计
const (
	OneMonth    = 2592000 * time.Second
	ThreeMonths = 3 * OneMonth
	SixMonths   = 6 * OneMonth

	secondsPerYear = int64(12 * 2592000)
)

// 各周期对应的年化收益率（百分比）
var annualRates = map[time.Duration]int64{
	OneMonth:    10,
	ThreeMonths: 15,
	SixMonths:   25,
}

// Stake 质押仓位，每个地址同时只有一个
type Stake struct {
	Amount    *big.Int
	Duration  time.Duration
	StartTime time.Time
}

// StakingEngine 质押引擎，独占Stake记录
// 持有登记簿引用用于收益转投（构造时显式注入，不做动态寻址）
type StakingEngine struct {
	mu sync.Mutex

	custody      common.Address
	stakingToken *Token
	bank         *Bank
	registry     *Registry

	stakes map[common.Address]*Stake
	// 托管中的本金，ClaimReward只付收益，本金由Unstake单独取回
	locked map[common.Address]*big.Int

	// 收益是否在名义锁定期截止后停止累积
	capAccrual bool

	clock Clock
	sink  EventSink
}

// StakingOption 质押引擎可选配置
type StakingOption func(*StakingEngine)

// WithStakingClock 注入时钟
func WithStakingClock(clock Clock) StakingOption {
	return func(e *StakingEngine) { e.clock = clock }
}

// WithStakingEventSink 注入事件接收器
func WithStakingEventSink(sink EventSink) StakingOption {
	return func(e *StakingEngine) { e.sink = sink }
}

// WithAccrualCap 配置收益是否封顶在锁定期
func WithAccrualCap(cap bool) StakingOption {
	return func(e *StakingEngine) { e.capAccrual = cap }
}

// NewStakingEngine 创建质押引擎
// custody是引擎的托管地址：质押本金、收益储备和转投备付金都挂在它名下
func NewStakingEngine(custody common.Address, stakingToken *Token, bank *Bank, registry *Registry, opts ...StakingOption) *StakingEngine {
	e := &StakingEngine{
		custody:      custody,
		stakingToken: stakingToken,
		bank:         bank,
		registry:     registry,
		stakes:       make(map[common.Address]*Stake),
		locked:       make(map[common.Address]*big.Int),
		capAccrual:   true,
		clock:        SystemClock{},
		sink:         NopSink{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Custody 托管地址
func (e *StakingEngine) Custody() common.Address { return e.custody }

// StakeTokens 质押，需要事先授权托管地址，再次质押会重置仓位
func (e *StakingEngine) StakeTokens(caller common.Address, amount *big.Int, duration time.Duration) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrZeroStake
	}
	if _, ok := annualRates[duration]; !ok {
		return ErrInvalidDuration
	}
	now := e.clock.Now()
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.stakingToken.TransferFrom(e.custody, caller, e.custody, amount); err != nil {
		return err
	}

	e.stakes[caller] = &Stake{
		Amount:    new(big.Int).Set(amount),
		Duration:  duration,
		StartTime: now,
	}
	principal, ok := e.locked[caller]
	if !ok {
		principal = new(big.Int)
		e.locked[caller] = principal
	}
	principal.Add(principal, amount)

	e.sink.Publish(Staked{Staker: caller, Amount: new(big.Int).Set(amount), Duration: duration, StartTime: now})
	return nil
}

// CalculateReward 按时间比例计算当前应计收益（只读）
// reward = amount × 年化率/100 × 持续时间/一年
func (e *StakingEngine) CalculateReward(staker common.Address) *big.Int {
	now := e.clock.Now()
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rewardAt(staker, now)
}

// ClaimReward 领取收益并关闭仓位，本金留在托管中等待Unstake
func (e *StakingEngine) ClaimReward(caller common.Address) error {
	now := e.clock.Now()
	e.mu.Lock()
	defer e.mu.Unlock()

	reward := e.rewardAt(caller, now)
	if reward.Sign() <= 0 {
		return ErrNoRewards
	}
	if err := e.stakingToken.Transfer(e.custody, caller, reward); err != nil {
		return err
	}
	e.stakes[caller].Amount = new(big.Int)

	e.sink.Publish(StakingRewardPaid{Staker: caller, Reward: reward})
	return nil
}

// Unstake 取回托管本金，仓位未领取的收益随重置作废
func (e *StakingEngine) Unstake(caller common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	principal, ok := e.locked[caller]
	if !ok || principal.Sign() <= 0 {
		return ErrNoStake
	}
	if err := e.stakingToken.Transfer(e.custody, caller, principal); err != nil {
		return err
	}
	paid := new(big.Int).Set(principal)
	principal.SetInt64(0)
	if s, ok := e.stakes[caller]; ok {
		s.Amount = new(big.Int)
	}

	e.sink.Publish(Unstaked{Staker: caller, Amount: paid})
	return nil
}

// ReinvestReward 把应计收益加成后转投进指定活动并关闭仓位
// 转投金额由引擎备付金垫付，出资记在质押人名下
func (e *StakingEngine) ReinvestReward(caller common.Address, campaignID uint64, bonusRate int64) error {
	if bonusRate < 0 {
		return ErrInvalidBonusRate
	}
	now := e.clock.Now()
	e.mu.Lock()
	defer e.mu.Unlock()

	reward := e.rewardAt(caller, now)
	if reward.Sign() <= 0 {
		return ErrNoRewards
	}
	bonus := new(big.Int).Mul(reward, big.NewInt(bonusRate))
	bonus.Div(bonus, big.NewInt(100))
	total := new(big.Int).Add(reward, bonus)

	if err := e.registry.FundCampaignFor(e.custody, caller, campaignID, total); err != nil {
		return err
	}
	e.stakes[caller].Amount = new(big.Int)

	e.sink.Publish(RewardReinvested{Staker: caller, CampaignID: campaignID, Amount: total})
	return nil
}

// Stakes 查询质押仓位
func (e *StakingEngine) Stakes(addr common.Address) (Stake, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.stakes[addr]
	if !ok {
		return Stake{}, false
	}
	out := *s
	out.Amount = new(big.Int).Set(s.Amount)
	return out, true
}

// LockedPrincipal 查询托管中的本金
func (e *StakingEngine) LockedPrincipal(addr common.Address) *big.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p, ok := e.locked[addr]; ok {
		return new(big.Int).Set(p)
	}
	return new(big.Int)
}

func (e *StakingEngine) rewardAt(staker common.Address, now time.Time) *big.Int {
	s, ok := e.stakes[staker]
	if !ok || s.Amount.Sign() <= 0 {
		return new(big.Int)
	}
	elapsed := now.Sub(s.StartTime)
	if elapsed < 0 {
		elapsed = 0
	}
	if e.capAccrual && elapsed > s.Duration {
		elapsed = s.Duration
	}

	// 与原公式保持一致的整数运算顺序：amount × rate / 100 × elapsed / 年秒数
	reward := new(big.Int).Mul(s.Amount, big.NewInt(annualRates[s.Duration]))
	reward.Div(reward, big.NewInt(100))
	reward.Mul(reward, big.NewInt(int64(elapsed/time.Second)))
	reward.Div(reward, big.NewInt(secondsPerYear))
	return reward
}
