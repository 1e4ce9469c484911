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

func newLeaf(clock ledger.Clock) *ledger.Token {
	return ledger.NewToken("LeafToken", "LEAF", ownerAddr, eth(1000000), clock)
}

func TestTokenInitialSupply(t *testing.T) {
	leaf := newLeaf(nil)
	assert.Zero(t, eth(1000000).Cmp(leaf.TotalSupply()))
	assert.Zero(t, eth(1000000).Cmp(leaf.BalanceOf(ownerAddr)))
	assert.Equal(t, "LeafToken", leaf.Name())
	assert.Equal(t, "LEAF", leaf.Symbol())
}

func TestTokenTransfer(t *testing.T) {
	leaf := newLeaf(nil)

	require.NoError(t, leaf.Transfer(ownerAddr, funderAddr, eth(50)))
	assert.Zero(t, eth(50).Cmp(leaf.BalanceOf(funderAddr)))

	require.NoError(t, leaf.Transfer(funderAddr, otherAddr, eth(50)))
	assert.Zero(t, eth(50).Cmp(leaf.BalanceOf(otherAddr)))
	assert.Zero(t, leaf.BalanceOf(funderAddr).Sign())

	err := leaf.Transfer(funderAddr, otherAddr, eth(1))
	assert.ErrorIs(t, err, ledger.ErrInsufficientFund)

	err = leaf.Transfer(ownerAddr, otherAddr, big.NewInt(0))
	assert.ErrorIs(t, err, ledger.ErrZeroAmount)
}

func TestTokenAllowances(t *testing.T) {
	leaf := newLeaf(nil)

	// no allowance yet
	err := leaf.TransferFrom(funderAddr, ownerAddr, otherAddr, eth(10))
	assert.ErrorIs(t, err, ledger.ErrInsufficientAllw)

	require.NoError(t, leaf.Approve(ownerAddr, funderAddr, eth(100)))
	assert.Zero(t, eth(100).Cmp(leaf.Allowance(ownerAddr, funderAddr)))

	require.NoError(t, leaf.TransferFrom(funderAddr, ownerAddr, otherAddr, eth(60)))
	assert.Zero(t, eth(60).Cmp(leaf.BalanceOf(otherAddr)))
	assert.Zero(t, eth(40).Cmp(leaf.Allowance(ownerAddr, funderAddr)))

	// spending beyond the remaining allowance
	err = leaf.TransferFrom(funderAddr, ownerAddr, otherAddr, eth(41))
	assert.ErrorIs(t, err, ledger.ErrInsufficientAllw)
}

func TestTokenMintRoles(t *testing.T) {
	leaf := newLeaf(nil)

	err := leaf.Mint(funderAddr, funderAddr, eth(10))
	assert.ErrorIs(t, err, ledger.ErrNotMinter)

	require.NoError(t, leaf.Mint(ownerAddr, funderAddr, eth(10)))
	assert.Zero(t, eth(10).Cmp(leaf.BalanceOf(funderAddr)))
	assert.Zero(t, eth(1000010).Cmp(leaf.TotalSupply()))

	// granting is owner-only
	err = leaf.GrantMinter(funderAddr, funderAddr)
	assert.ErrorIs(t, err, ledger.ErrNotOwner)

	require.NoError(t, leaf.GrantMinter(ownerAddr, funderAddr))
	assert.True(t, leaf.IsMinter(funderAddr))
	require.NoError(t, leaf.Mint(funderAddr, otherAddr, eth(5)))

	require.NoError(t, leaf.RevokeMinter(ownerAddr, funderAddr))
	err = leaf.Mint(funderAddr, otherAddr, eth(5))
	assert.ErrorIs(t, err, ledger.ErrNotMinter)
}

func TestTokenBurn(t *testing.T) {
	leaf := newLeaf(nil)
	require.NoError(t, leaf.Mint(ownerAddr, funderAddr, eth(500)))

	err := leaf.Burn(funderAddr, funderAddr, eth(500))
	assert.ErrorIs(t, err, ledger.ErrNotOwner)

	require.NoError(t, leaf.Burn(ownerAddr, funderAddr, eth(500)))
	assert.Zero(t, leaf.BalanceOf(funderAddr).Sign())
	assert.Zero(t, eth(1000000).Cmp(leaf.TotalSupply()))

	err = leaf.Burn(ownerAddr, funderAddr, eth(1))
	assert.ErrorIs(t, err, ledger.ErrInsufficientFund)
}

func TestTokenMonthlyMint(t *testing.T) {
	clock := ledger.NewManualClock(genesis)
	leaf := newLeaf(clock)

	// amount must be configured first
	assert.ErrorIs(t, leaf.MintMonthly(ownerAddr), ledger.ErrZeroAmount)

	require.NoError(t, leaf.SetMonthlyMint(ownerAddr, eth(100)))
	assert.ErrorIs(t, leaf.MintMonthly(funderAddr), ledger.ErrNotOwner)

	require.NoError(t, leaf.MintMonthly(ownerAddr))
	assert.Zero(t, eth(1000100).Cmp(leaf.TotalSupply()))

	// once per thirty days
	assert.ErrorIs(t, leaf.MintMonthly(ownerAddr), ledger.ErrMintTooSoon)
	clock.Advance(29 * 24 * time.Hour)
	assert.ErrorIs(t, leaf.MintMonthly(ownerAddr), ledger.ErrMintTooSoon)
	clock.Advance(24 * time.Hour)
	require.NoError(t, leaf.MintMonthly(ownerAddr))
}

func TestTokenMaxSupply(t *testing.T) {
	clock := ledger.NewManualClock(genesis)
	leaf := newLeaf(clock)

	require.NoError(t, leaf.SetMaxSupply(ownerAddr, eth(1000050)))
	require.NoError(t, leaf.Mint(ownerAddr, funderAddr, eth(50)))

	err := leaf.Mint(ownerAddr, funderAddr, eth(1))
	assert.ErrorIs(t, err, ledger.ErrMaxSupply)

	require.NoError(t, leaf.SetMonthlyMint(ownerAddr, eth(100)))
	assert.ErrorIs(t, leaf.MintMonthly(ownerAddr), ledger.ErrMaxSupply)
}

func TestTokenLock(t *testing.T) {
	clock := ledger.NewManualClock(genesis)
	leaf := newLeaf(clock)
	sink := &recordSink{}
	leaf.SetEventSink(sink)

	// nothing locked yet
	assert.ErrorIs(t, leaf.Unlock(funderAddr), ledger.ErrNothingLocked)

	// balance below the one-token threshold
	assert.ErrorIs(t, leaf.Lock(funderAddr), ledger.ErrInsufficientLock)

	require.NoError(t, leaf.Transfer(ownerAddr, funderAddr, eth(10)))
	require.NoError(t, leaf.Lock(funderAddr))
	assert.True(t, leaf.HasLocked(funderAddr))
	locked, ok := sink.last().(ledger.TokenLocked)
	require.True(t, ok)
	assert.Equal(t, funderAddr, locked.Holder)

	assert.ErrorIs(t, leaf.Lock(funderAddr), ledger.ErrAlreadyLocked)

	// the lock period has to elapse before unlocking
	assert.ErrorIs(t, leaf.Unlock(funderAddr), ledger.ErrLockNotOver)
	clock.Advance(time.Minute)
	require.NoError(t, leaf.Unlock(funderAddr))
	assert.False(t, leaf.HasLocked(funderAddr))
	unlocked, ok := sink.last().(ledger.TokenUnlocked)
	require.True(t, ok)
	assert.Equal(t, funderAddr, unlocked.Holder)
}

func TestTokenLockPeriodConfig(t *testing.T) {
	clock := ledger.NewManualClock(genesis)
	leaf := newLeaf(clock)

	assert.ErrorIs(t, leaf.SetLockPeriod(funderAddr, time.Hour), ledger.ErrNotOwner)
	assert.ErrorIs(t, leaf.SetLockPeriod(ownerAddr, 0), ledger.ErrInvalidLockPeriod)
	require.NoError(t, leaf.SetLockPeriod(ownerAddr, time.Hour))

	require.NoError(t, leaf.Lock(ownerAddr))
	clock.Advance(time.Minute)
	assert.ErrorIs(t, leaf.Unlock(ownerAddr), ledger.ErrLockNotOver)
	clock.Advance(59 * time.Minute)
	require.NoError(t, leaf.Unlock(ownerAddr))
}

func TestBankTransfers(t *testing.T) {
	bank := ledger.NewBank()

	require.NoError(t, bank.Deposit(funderAddr, eth(10)))
	assert.Zero(t, eth(10).Cmp(bank.BalanceOf(funderAddr)))

	require.NoError(t, bank.Transfer(funderAddr, otherAddr, eth(4)))
	assert.Zero(t, eth(6).Cmp(bank.BalanceOf(funderAddr)))
	assert.Zero(t, eth(4).Cmp(bank.BalanceOf(otherAddr)))

	assert.ErrorIs(t, bank.Transfer(funderAddr, otherAddr, eth(7)), ledger.ErrInsufficientBank)
	assert.ErrorIs(t, bank.Withdraw(otherAddr, eth(5)), ledger.ErrInsufficientBank)

	require.NoError(t, bank.Withdraw(otherAddr, eth(4)))
	assert.Zero(t, bank.BalanceOf(otherAddr).Sign())

	assert.ErrorIs(t, bank.Deposit(funderAddr, big.NewInt(0)), ledger.ErrZeroAmount)
}

func TestTokenSaleBuy(t *testing.T) {
	clock := ledger.NewManualClock(genesis)
	bank := ledger.NewBank()
	dai := ledger.NewToken("MockDai", "mDAI", ownerAddr, eth(1000000), clock)

	// 1 ETH buys 1000 mDAI
	sale := ledger.NewTokenSale(dai, bank, ledger.FixedRateOracle{Rate: big.NewInt(1000)}, saleCustody)
	require.NoError(t, dai.GrantMinter(ownerAddr, saleCustody))
	require.NoError(t, bank.Deposit(funderAddr, eth(2)))

	// payment must match the requested amount at the oracle rate
	err := sale.Buy(funderAddr, eth(1000), big.NewInt(1))
	assert.ErrorIs(t, err, ledger.ErrIncorrectEth)

	require.NoError(t, sale.Buy(funderAddr, eth(1000), eth(1)))
	assert.Zero(t, eth(1000).Cmp(dai.BalanceOf(funderAddr)))
	assert.Zero(t, eth(1).Cmp(bank.BalanceOf(saleCustody)))

	// buying mints new supply
	assert.Zero(t, eth(1001000).Cmp(dai.TotalSupply()))
}

func TestTokenSaleSell(t *testing.T) {
	clock := ledger.NewManualClock(genesis)
	bank := ledger.NewBank()
	dai := ledger.NewToken("MockDai", "mDAI", ownerAddr, eth(1000000), clock)
	sale := ledger.NewTokenSale(dai, bank, ledger.FixedRateOracle{Rate: big.NewInt(1000)}, saleCustody)
	require.NoError(t, dai.GrantMinter(ownerAddr, saleCustody))
	require.NoError(t, bank.Deposit(funderAddr, eth(1)))
	require.NoError(t, sale.Buy(funderAddr, eth(1000), eth(1)))

	// selling more than held
	err := sale.Sell(funderAddr, eth(2000))
	assert.ErrorIs(t, err, ledger.ErrInsufficientFund)

	// selling requires approval of the sale custody
	err = sale.Sell(funderAddr, eth(1000))
	assert.ErrorIs(t, err, ledger.ErrInsufficientAllw)

	require.NoError(t, dai.Approve(funderAddr, saleCustody, eth(1000)))
	require.NoError(t, sale.Sell(funderAddr, eth(1000)))
	assert.Zero(t, dai.BalanceOf(funderAddr).Sign())
	assert.Zero(t, eth(1).Cmp(bank.BalanceOf(funderAddr)))
}

func TestTokenSaleUnknownToken(t *testing.T) {
	// a sale custody without the minter role cannot fulfil purchases and the
	// native payment is rolled back
	clock := ledger.NewManualClock(genesis)
	bank := ledger.NewBank()
	dai := ledger.NewToken("MockDai", "mDAI", ownerAddr, eth(1000000), clock)
	custody := common.HexToAddress("0xCC")
	sale := ledger.NewTokenSale(dai, bank, ledger.FixedRateOracle{Rate: big.NewInt(1000)}, custody)
	require.NoError(t, bank.Deposit(funderAddr, eth(1)))

	err := sale.Buy(funderAddr, eth(1000), eth(1))
	assert.ErrorIs(t, err, ledger.ErrNotMinter)
	assert.Zero(t, eth(1).Cmp(bank.BalanceOf(funderAddr)))
}
