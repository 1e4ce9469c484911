package ledger

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Bank 原生币账本，承担价值转移原语（ValueLedger）
// 链上环境由执行引擎提供，这里用内存实现自托管
type Bank struct {
	mu       sync.Mutex
	balances map[common.Address]*big.Int
}

// NewBank 创建原生币账本
func NewBank() *Bank {
	return &Bank{balances: make(map[common.Address]*big.Int)}
}

// Deposit 充值
func (b *Bank) Deposit(to common.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.credit(to, amount)
	return nil
}

// Withdraw 提现
func (b *Bank) Withdraw(from common.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.debit(from, amount)
}

// Transfer 转账
func (b *Bank) Transfer(from, to common.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.debit(from, amount); err != nil {
		return err
	}
	b.credit(to, amount)
	return nil
}

// BalanceOf 查询余额
func (b *Bank) BalanceOf(addr common.Address) *big.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if bal, ok := b.balances[addr]; ok {
		return new(big.Int).Set(bal)
	}
	return new(big.Int)
}

func (b *Bank) credit(to common.Address, amount *big.Int) {
	bal, ok := b.balances[to]
	if !ok {
		bal = new(big.Int)
		b.balances[to] = bal
	}
	bal.Add(bal, amount)
}

func (b *Bank) debit(from common.Address, amount *big.Int) error {
	bal, ok := b.balances[from]
	if !ok || bal.Cmp(amount) < 0 {
		return ErrInsufficientBank
	}
	bal.Sub(bal, amount)
	return nil
}

func checkAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	return nil
}
