package ledger_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/blues/egf/internal/ledger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stakingEnv struct {
	*testEnv
	dai    *ledger.Token
	engine *ledger.StakingEngine
}

// newStakingEnv wires a staking engine on top of the registry env with a
// mDAI reward reserve and a native reserve for reinvestment sponsoring.
func newStakingEnv(opts ...ledger.StakingOption) *stakingEnv {
	e := newTestEnv()
	dai := ledger.NewToken("MockDai", "mDAI", ownerAddr, eth(1000000), e.clock)

	base := []ledger.StakingOption{
		ledger.WithStakingClock(e.clock),
		ledger.WithStakingEventSink(e.sink),
	}
	engine := ledger.NewStakingEngine(stakeCustody, dai, e.bank, e.registry, append(base, opts...)...)

	// reward reserve and reinvestment float
	if err := dai.Transfer(ownerAddr, stakeCustody, eth(10000)); err != nil {
		panic(err)
	}
	if err := e.bank.Deposit(stakeCustody, eth(1000)); err != nil {
		panic(err)
	}
	return &stakingEnv{testEnv: e, dai: dai, engine: engine}
}

func (e *stakingEnv) stake(staker common.Address, amount *big.Int, duration time.Duration) {
	if err := e.dai.Transfer(ownerAddr, staker, amount); err != nil {
		panic(err)
	}
	if err := e.dai.Approve(staker, stakeCustody, amount); err != nil {
		panic(err)
	}
	if err := e.engine.StakeTokens(staker, amount, duration); err != nil {
		panic(err)
	}
}

// expectedReward mirrors the accrual formula's integer operation order.
func expectedReward(amount *big.Int, rate int64, elapsed time.Duration) *big.Int {
	r := new(big.Int).Mul(amount, big.NewInt(rate))
	r.Div(r, big.NewInt(100))
	r.Mul(r, big.NewInt(int64(elapsed/time.Second)))
	r.Div(r, big.NewInt(int64(12*ledger.OneMonth/time.Second)))
	return r
}

func TestStakeTokensValidation(t *testing.T) {
	e := newStakingEnv()

	err := e.engine.StakeTokens(funderAddr, big.NewInt(0), ledger.OneMonth)
	assert.ErrorIs(t, err, ledger.ErrZeroStake)

	err = e.engine.StakeTokens(funderAddr, eth(100), 42*time.Hour)
	assert.ErrorIs(t, err, ledger.ErrInvalidDuration)

	// staking requires a prior allowance
	err = e.engine.StakeTokens(funderAddr, eth(100), ledger.OneMonth)
	assert.ErrorIs(t, err, ledger.ErrInsufficientAllw)
}

func TestStakeTokens(t *testing.T) {
	e := newStakingEnv()
	e.stake(funderAddr, eth(100), ledger.OneMonth)

	s, ok := e.engine.Stakes(funderAddr)
	require.True(t, ok)
	assert.Zero(t, eth(100).Cmp(s.Amount))
	assert.Equal(t, ledger.OneMonth, s.Duration)
	assert.Equal(t, e.clock.Now(), s.StartTime)

	staked, ok := e.sink.last().(ledger.Staked)
	require.True(t, ok)
	assert.Equal(t, funderAddr, staked.Staker)
	assert.Zero(t, eth(100).Cmp(staked.Amount))
	assert.Equal(t, ledger.OneMonth, staked.Duration)
	assert.Equal(t, e.clock.Now(), staked.StartTime)
}

func TestCalculateRewardPerDuration(t *testing.T) {
	cases := []struct {
		name     string
		duration time.Duration
		rate     int64
	}{
		{"one month", ledger.OneMonth, 10},
		{"three months", ledger.ThreeMonths, 15},
		{"six months", ledger.SixMonths, 25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newStakingEnv()
			e.stake(funderAddr, eth(100), tc.duration)

			e.clock.Advance(tc.duration)

			want := expectedReward(eth(100), tc.rate, tc.duration)
			assert.Zero(t, want.Cmp(e.engine.CalculateReward(funderAddr)))
		})
	}
}

func TestCalculateRewardPartialElapsed(t *testing.T) {
	e := newStakingEnv()
	e.stake(funderAddr, eth(100), ledger.SixMonths)

	e.clock.Advance(ledger.OneMonth)

	want := expectedReward(eth(100), 25, ledger.OneMonth)
	assert.Zero(t, want.Cmp(e.engine.CalculateReward(funderAddr)))
}

func TestCalculateRewardNoStake(t *testing.T) {
	e := newStakingEnv()
	assert.Zero(t, e.engine.CalculateReward(otherAddr).Sign())
}

func TestRewardCappedAtDuration(t *testing.T) {
	e := newStakingEnv()
	e.stake(funderAddr, eth(100), ledger.OneMonth)

	e.clock.Advance(3 * ledger.OneMonth)

	want := expectedReward(eth(100), 10, ledger.OneMonth)
	assert.Zero(t, want.Cmp(e.engine.CalculateReward(funderAddr)))
}

func TestRewardAccruesPastDurationWhenUncapped(t *testing.T) {
	e := newStakingEnv(ledger.WithAccrualCap(false))
	e.stake(funderAddr, eth(100), ledger.OneMonth)

	e.clock.Advance(3 * ledger.OneMonth)

	want := expectedReward(eth(100), 10, 3*ledger.OneMonth)
	assert.Zero(t, want.Cmp(e.engine.CalculateReward(funderAddr)))
}

func TestClaimStakingReward(t *testing.T) {
	e := newStakingEnv()
	e.stake(funderAddr, eth(100), ledger.ThreeMonths)

	e.clock.Advance(ledger.ThreeMonths)

	want := expectedReward(eth(100), 15, ledger.ThreeMonths)
	before := e.dai.BalanceOf(funderAddr)
	require.NoError(t, e.engine.ClaimReward(funderAddr))
	after := e.dai.BalanceOf(funderAddr)
	assert.Zero(t, new(big.Int).Sub(after, before).Cmp(want))

	// position closed
	s, ok := e.engine.Stakes(funderAddr)
	require.True(t, ok)
	assert.Zero(t, s.Amount.Sign())

	assert.ErrorIs(t, e.engine.ClaimReward(funderAddr), ledger.ErrNoRewards)
}

func TestClaimRewardWithoutStake(t *testing.T) {
	e := newStakingEnv()
	assert.ErrorIs(t, e.engine.ClaimReward(otherAddr), ledger.ErrNoRewards)
}

func TestUnstakeReturnsPrincipal(t *testing.T) {
	e := newStakingEnv()
	e.stake(funderAddr, eth(100), ledger.OneMonth)

	e.clock.Advance(ledger.OneMonth)
	require.NoError(t, e.engine.ClaimReward(funderAddr))

	assert.Zero(t, e.engine.LockedPrincipal(funderAddr).Cmp(eth(100)))

	before := e.dai.BalanceOf(funderAddr)
	require.NoError(t, e.engine.Unstake(funderAddr))
	after := e.dai.BalanceOf(funderAddr)
	assert.Zero(t, new(big.Int).Sub(after, before).Cmp(eth(100)))
	assert.Zero(t, e.engine.LockedPrincipal(funderAddr).Sign())

	assert.ErrorIs(t, e.engine.Unstake(funderAddr), ledger.ErrNoStake)
}

func TestUnstakeLivePositionForfeitsReward(t *testing.T) {
	e := newStakingEnv()
	e.stake(funderAddr, eth(100), ledger.OneMonth)

	e.clock.Advance(ledger.OneMonth / 2)
	require.NoError(t, e.engine.Unstake(funderAddr))

	assert.Zero(t, e.engine.CalculateReward(funderAddr).Sign())
	assert.ErrorIs(t, e.engine.ClaimReward(funderAddr), ledger.ErrNoRewards)
}

func TestReinvestReward(t *testing.T) {
	e := newStakingEnv()
	id := e.createCampaign(creatorAddr, eth(500), 90*24*time.Hour)

	e.stake(funderAddr, eth(100), ledger.OneMonth)
	e.clock.Advance(ledger.OneMonth)

	reward := e.engine.CalculateReward(funderAddr)
	bonus := new(big.Int).Div(new(big.Int).Mul(reward, big.NewInt(10)), big.NewInt(100))
	total := new(big.Int).Add(reward, bonus)

	require.NoError(t, e.engine.ReinvestReward(funderAddr, id, 10))

	c, _ := e.registry.GetCampaign(id)
	assert.Zero(t, total.Cmp(c.AmountCollected))

	// contribution is recorded for the staker, not the engine
	contrib, _ := e.registry.Contribution(id, funderAddr)
	assert.Zero(t, total.Cmp(contrib.Native))

	s, _ := e.engine.Stakes(funderAddr)
	assert.Zero(t, s.Amount.Sign())

	reinvested, ok := e.sink.last().(ledger.RewardReinvested)
	require.True(t, ok)
	assert.Equal(t, id, reinvested.CampaignID)
	assert.Zero(t, total.Cmp(reinvested.Amount))
}

func TestReinvestRewardRejections(t *testing.T) {
	e := newStakingEnv()
	id := e.createCampaign(creatorAddr, eth(500), 90*24*time.Hour)

	assert.ErrorIs(t, e.engine.ReinvestReward(otherAddr, id, 10), ledger.ErrNoRewards)

	e.stake(funderAddr, eth(100), ledger.OneMonth)
	e.clock.Advance(ledger.OneMonth)

	assert.ErrorIs(t, e.engine.ReinvestReward(funderAddr, id, -1), ledger.ErrInvalidBonusRate)
	assert.ErrorIs(t, e.engine.ReinvestReward(funderAddr, id+1, 10), ledger.ErrInvalidCampaign)

	// a failed cross-component call leaves the stake open
	s, _ := e.engine.Stakes(funderAddr)
	assert.True(t, s.Amount.Sign() > 0)
}

// End-to-end: stake for three months, claim exactly at maturity, position closes.
func TestStakingLifecycleEndToEnd(t *testing.T) {
	e := newStakingEnv()
	e.stake(funderAddr, eth(100), ledger.ThreeMonths)

	e.clock.Advance(ledger.ThreeMonths)

	want := expectedReward(eth(100), 15, ledger.ThreeMonths)
	assert.Zero(t, want.Cmp(e.engine.CalculateReward(funderAddr)))

	before := e.dai.BalanceOf(funderAddr)
	require.NoError(t, e.engine.ClaimReward(funderAddr))
	assert.Zero(t, new(big.Int).Sub(e.dai.BalanceOf(funderAddr), before).Cmp(want))

	s, _ := e.engine.Stakes(funderAddr)
	assert.Zero(t, s.Amount.Sign())
	assert.ErrorIs(t, e.engine.ClaimReward(funderAddr), ledger.ErrNoRewards)
}
