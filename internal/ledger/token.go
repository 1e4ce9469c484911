package ledger

import (
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
)

// 月度增发间隔，与质押周期使用同一个30天月定义
const mintInterval = 30 * 24 * time.Hour

// 持仓锁定默认参数，锁定期可由owner调整
const defaultLockPeriod = time.Minute

// Token 可增发/销毁的同质化代币账本
// 奖励代币和模拟支付代币（mDAI）都用它实例化
type Token struct {
	mu sync.Mutex

	name   string
	symbol string
	owner  common.Address

	balances    map[common.Address]*big.Int
	allowances  map[common.Address]map[common.Address]*big.Int
	minters     map[common.Address]bool
	totalSupply *big.Int

	// 月度增发限制，maxSupply为nil表示不设上限
	maxSupply       *big.Int
	monthlyMint     *big.Int
	lastMonthlyMint time.Time

	// 持仓锁定状态，锁定是参与资格凭证，不冻结余额
	lockPeriod time.Duration
	minLock    *big.Int
	lockedAt   map[common.Address]time.Time

	clock Clock
	sink  EventSink
}

// NewToken 创建代币并把初始发行量记到owner名下
func NewToken(name, symbol string, owner common.Address, initialSupply *big.Int, clock Clock) *Token {
	if clock == nil {
		clock = SystemClock{}
	}
	t := &Token{
		name:        name,
		symbol:      symbol,
		owner:       owner,
		balances:    make(map[common.Address]*big.Int),
		allowances:  make(map[common.Address]map[common.Address]*big.Int),
		minters:     map[common.Address]bool{owner: true},
		totalSupply: new(big.Int),
		lockPeriod:  defaultLockPeriod,
		minLock:     big.NewInt(params.Ether),
		lockedAt:    make(map[common.Address]time.Time),
		clock:       clock,
		sink:        NopSink{},
	}
	if initialSupply != nil && initialSupply.Sign() > 0 {
		t.balances[owner] = new(big.Int).Set(initialSupply)
		t.totalSupply.Set(initialSupply)
	}
	return t
}

// SetEventSink 注入事件接收器
func (t *Token) SetEventSink(sink EventSink) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sink = sink
}

// Name 代币名称
func (t *Token) Name() string { return t.name }

// Symbol 代币符号
func (t *Token) Symbol() string { return t.symbol }

// Owner 代币管理者
func (t *Token) Owner() common.Address { return t.owner }

// TotalSupply 总发行量
func (t *Token) TotalSupply() *big.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return new(big.Int).Set(t.totalSupply)
}

// BalanceOf 查询余额
func (t *Token) BalanceOf(addr common.Address) *big.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if bal, ok := t.balances[addr]; ok {
		return new(big.Int).Set(bal)
	}
	return new(big.Int)
}

// Allowance 查询授权额度
func (t *Token) Allowance(owner, spender common.Address) *big.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if m, ok := t.allowances[owner]; ok {
		if a, ok := m[spender]; ok {
			return new(big.Int).Set(a)
		}
	}
	return new(big.Int)
}

// Transfer 转账
func (t *Token) Transfer(from, to common.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.move(from, to, amount)
}

// Approve 授权spender支配额度，覆盖旧值
func (t *Token) Approve(owner, spender common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrZeroAmount
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.allowances[owner]
	if !ok {
		m = make(map[common.Address]*big.Int)
		t.allowances[owner] = m
	}
	m[spender] = new(big.Int).Set(amount)
	return nil
}

// TransferFrom 凭授权转账并扣减额度
func (t *Token) TransferFrom(spender, from, to common.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.allowances[from]
	if !ok {
		return ErrInsufficientAllw
	}
	allowed, ok := m[spender]
	if !ok || allowed.Cmp(amount) < 0 {
		return ErrInsufficientAllw
	}
	if err := t.move(from, to, amount); err != nil {
		return err
	}
	allowed.Sub(allowed, amount)
	return nil
}

// Mint 增发，仅minter角色可调用
func (t *Token) Mint(caller, to common.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.minters[caller] {
		return ErrNotMinter
	}
	return t.mint(to, amount)
}

// Burn 销毁，仅owner可调用
func (t *Token) Burn(caller, from common.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if caller != t.owner {
		return ErrNotOwner
	}
	bal, ok := t.balances[from]
	if !ok || bal.Cmp(amount) < 0 {
		return ErrInsufficientFund
	}
	bal.Sub(bal, amount)
	t.totalSupply.Sub(t.totalSupply, amount)
	return nil
}

// GrantMinter 授予增发角色，仅owner可调用
func (t *Token) GrantMinter(caller, minter common.Address) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if caller != t.owner {
		return ErrNotOwner
	}
	t.minters[minter] = true
	return nil
}

// RevokeMinter 回收增发角色
func (t *Token) RevokeMinter(caller, minter common.Address) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if caller != t.owner {
		return ErrNotOwner
	}
	delete(t.minters, minter)
	return nil
}

// IsMinter 查询角色
func (t *Token) IsMinter(addr common.Address) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.minters[addr]
}

// SetMonthlyMint 配置月度增发额度，仅owner可调用
func (t *Token) SetMonthlyMint(caller common.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if caller != t.owner {
		return ErrNotOwner
	}
	t.monthlyMint = new(big.Int).Set(amount)
	return nil
}

// SetMaxSupply 配置发行上限，仅owner可调用
func (t *Token) SetMaxSupply(caller common.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if caller != t.owner {
		return ErrNotOwner
	}
	t.maxSupply = new(big.Int).Set(amount)
	return nil
}

// MintMonthly 月度增发到owner名下，30天内只允许一次
func (t *Token) MintMonthly(caller common.Address) error {
	now := t.clock.Now()
	t.mu.Lock()
	defer t.mu.Unlock()
	if caller != t.owner {
		return ErrNotOwner
	}
	if t.monthlyMint == nil || t.monthlyMint.Sign() <= 0 {
		return ErrZeroAmount
	}
	if !t.lastMonthlyMint.IsZero() && now.Sub(t.lastMonthlyMint) < mintInterval {
		return ErrMintTooSoon
	}
	if err := t.mint(t.owner, t.monthlyMint); err != nil {
		return err
	}
	t.lastMonthlyMint = now
	return nil
}

// SetLockPeriod 配置锁定期，仅owner可调用
func (t *Token) SetLockPeriod(caller common.Address, period time.Duration) error {
	if period <= 0 {
		return ErrInvalidLockPeriod
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if caller != t.owner {
		return ErrNotOwner
	}
	t.lockPeriod = period
	return nil
}

// Lock 锁定持仓，需要至少一个整币的余额，重复锁定会被拒绝
func (t *Token) Lock(caller common.Address) error {
	now := t.clock.Now()
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.lockedAt[caller]; ok {
		return ErrAlreadyLocked
	}
	bal, ok := t.balances[caller]
	if !ok || bal.Cmp(t.minLock) < 0 {
		return ErrInsufficientLock
	}
	t.lockedAt[caller] = now

	t.sink.Publish(TokenLocked{Holder: caller})
	return nil
}

// Unlock 解除锁定，锁定期结束前不可解除
func (t *Token) Unlock(caller common.Address) error {
	now := t.clock.Now()
	t.mu.Lock()
	defer t.mu.Unlock()
	at, ok := t.lockedAt[caller]
	if !ok {
		return ErrNothingLocked
	}
	if now.Sub(at) < t.lockPeriod {
		return ErrLockNotOver
	}
	delete(t.lockedAt, caller)

	t.sink.Publish(TokenUnlocked{Holder: caller})
	return nil
}

// HasLocked 查询锁定状态
func (t *Token) HasLocked(addr common.Address) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.lockedAt[addr]
	return ok
}

func (t *Token) move(from, to common.Address, amount *big.Int) error {
	bal, ok := t.balances[from]
	if !ok || bal.Cmp(amount) < 0 {
		return ErrInsufficientFund
	}
	bal.Sub(bal, amount)
	dst, ok := t.balances[to]
	if !ok {
		dst = new(big.Int)
		t.balances[to] = dst
	}
	dst.Add(dst, amount)
	return nil
}

func (t *Token) mint(to common.Address, amount *big.Int) error {
	next := new(big.Int).Add(t.totalSupply, amount)
	if t.maxSupply != nil && next.Cmp(t.maxSupply) > 0 {
		return ErrMaxSupply
	}
	dst, ok := t.balances[to]
	if !ok {
		dst = new(big.Int)
		t.balances[to] = dst
	}
	dst.Add(dst, amount)
	t.totalSupply.Set(next)
	return nil
}
