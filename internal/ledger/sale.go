package ledger

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// PriceOracle 汇率源，链下喂价的抽象（Chainlink等）
type PriceOracle interface {
	// TokensPerEth 返回1个原生币可兑换的代币数量
	TokensPerEth() *big.Int
}

// FixedRateOracle 固定汇率，测试和模拟币使用
type FixedRateOracle struct {
	Rate *big.Int
}

func (o FixedRateOracle) TokensPerEth() *big.Int {
	return new(big.Int).Set(o.Rate)
}

// TokenSale 代币申购/赎回，按喂价汇率和原生币互换
type TokenSale struct {
	mu sync.Mutex

	token   *Token
	bank    *Bank
	oracle  PriceOracle
	custody common.Address
}

// NewTokenSale 创建申购模块，custody需预先被授予token的minter角色
func NewTokenSale(token *Token, bank *Bank, oracle PriceOracle, custody common.Address) *TokenSale {
	return &TokenSale{token: token, bank: bank, oracle: oracle, custody: custody}
}

// Custody 托管地址
func (s *TokenSale) Custody() common.Address { return s.custody }

// Buy 按当前汇率用原生币申购代币，要求支付金额与申购量严格匹配
func (s *TokenSale) Buy(caller common.Address, tokenAmount, ethValue *big.Int) error {
	if err := checkAmount(tokenAmount); err != nil {
		return err
	}
	if ethValue == nil || ethValue.Sign() <= 0 {
		return ErrZeroAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rate := s.oracle.TokensPerEth()
	if rate == nil || rate.Sign() <= 0 {
		return ErrIncorrectEth
	}
	expected := new(big.Int).Mul(ethValue, rate)
	if expected.Cmp(tokenAmount) != 0 {
		return ErrIncorrectEth
	}

	if err := s.bank.Transfer(caller, s.custody, ethValue); err != nil {
		return err
	}
	if err := s.token.Mint(s.custody, caller, tokenAmount); err != nil {
		// 回滚原生币划转
		_ = s.bank.Transfer(s.custody, caller, ethValue)
		return err
	}
	return nil
}

// Sell 赎回代币换回原生币，需要事先授权托管地址
func (s *TokenSale) Sell(caller common.Address, tokenAmount *big.Int) error {
	if err := checkAmount(tokenAmount); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rate := s.oracle.TokensPerEth()
	if rate == nil || rate.Sign() <= 0 {
		return ErrIncorrectEth
	}
	ethValue := new(big.Int).Div(tokenAmount, rate)
	if ethValue.Sign() <= 0 {
		return ErrZeroAmount
	}
	if s.token.BalanceOf(caller).Cmp(tokenAmount) < 0 {
		return ErrInsufficientFund
	}

	if err := s.token.TransferFrom(s.custody, caller, s.custody, tokenAmount); err != nil {
		return err
	}
	if err := s.bank.Transfer(s.custody, caller, ethValue); err != nil {
		// 回滚代币划转
		_ = s.token.Transfer(s.custody, caller, tokenAmount)
		return err
	}
	return nil
}
