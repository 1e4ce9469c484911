package handler

import (
	"net/http"

	"github.com/blues/egf/internal/ledger"
	"github.com/gin-gonic/gin"
)

// BankHandler 原生币账本接口
type BankHandler struct {
	bank *ledger.Bank
}

func NewBankHandler(bank *ledger.Bank) *BankHandler {
	return &BankHandler{bank: bank}
}

// GetBalance 查询余额
func (h *BankHandler) GetBalance(c *gin.Context) {
	addr, ok := parseAddress(c, c.Param("address"))
	if !ok {
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{"balance": h.bank.BalanceOf(addr).String()})
}

// Deposit 充值
func (h *BankHandler) Deposit(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	amount, ok := parseAmount(c, req.Amount)
	if !ok {
		return
	}

	if err := h.bank.Deposit(caller, amount); err != nil {
		LedgerErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "充值成功", nil)
}

// Withdraw 提现
func (h *BankHandler) Withdraw(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	amount, ok := parseAmount(c, req.Amount)
	if !ok {
		return
	}

	if err := h.bank.Withdraw(caller, amount); err != nil {
		LedgerErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "提现成功", nil)
}

// Transfer 转账
func (h *BankHandler) Transfer(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	to, ok := parseAddress(c, req.To)
	if !ok {
		return
	}
	amount, ok := parseAmount(c, req.Amount)
	if !ok {
		return
	}

	if err := h.bank.Transfer(caller, to, amount); err != nil {
		LedgerErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "转账成功", nil)
}
