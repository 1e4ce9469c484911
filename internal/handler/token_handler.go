package handler

import (
	"net/http"

	"github.com/blues/egf/internal/ledger"
	"github.com/gin-gonic/gin"
)

// TokenHandler 代币接口，按符号路由到具体代币实例
type TokenHandler struct {
	tokens map[string]*ledger.Token
}

func NewTokenHandler(tokens map[string]*ledger.Token) *TokenHandler {
	return &TokenHandler{tokens: tokens}
}

func (h *TokenHandler) token(c *gin.Context) (*ledger.Token, bool) {
	symbol := c.Param("symbol")
	token, ok := h.tokens[symbol]
	if !ok {
		ErrorResponse(c, http.StatusNotFound, "未知的代币符号")
		return nil, false
	}
	return token, true
}

// GetInfo 代币基本信息
func (h *TokenHandler) GetInfo(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"name":        token.Name(),
		"symbol":      token.Symbol(),
		"owner":       token.Owner().Hex(),
		"totalSupply": token.TotalSupply().String(),
	})
}

// GetBalance 查询余额
func (h *TokenHandler) GetBalance(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	addr, ok := parseAddress(c, c.Param("address"))
	if !ok {
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{"balance": token.BalanceOf(addr).String()})
}

// Transfer 转账
func (h *TokenHandler) Transfer(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
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

	if err := token.Transfer(caller, to, amount); err != nil {
		LedgerErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "转账成功", nil)
}

// Approve 授权支配额度
func (h *TokenHandler) Approve(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	spender, ok := parseAddress(c, req.Spender)
	if !ok {
		return
	}
	amount, ok := parseAmount(c, req.Amount)
	if !ok {
		return
	}

	if err := token.Approve(caller, spender, amount); err != nil {
		LedgerErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "授权成功", nil)
}

// Mint 增发
func (h *TokenHandler) Mint(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	var req MintRequest
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

	if err := token.Mint(caller, to, amount); err != nil {
		LedgerErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "增发成功", nil)
}

// Burn 销毁
func (h *TokenHandler) Burn(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	var req BurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	from, ok := parseAddress(c, req.From)
	if !ok {
		return
	}
	amount, ok := parseAmount(c, req.Amount)
	if !ok {
		return
	}

	if err := token.Burn(caller, from, amount); err != nil {
		LedgerErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "销毁成功", nil)
}

// GrantMinter 授予增发角色
func (h *TokenHandler) GrantMinter(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	var req MinterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	minter, ok := parseAddress(c, req.Minter)
	if !ok {
		return
	}

	if err := token.GrantMinter(caller, minter); err != nil {
		LedgerErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "角色授予成功", nil)
}

// RevokeMinter 回收增发角色
func (h *TokenHandler) RevokeMinter(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	var req MinterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	minter, ok := parseAddress(c, req.Minter)
	if !ok {
		return
	}

	if err := token.RevokeMinter(caller, minter); err != nil {
		LedgerErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "角色回收成功", nil)
}

// Lock 锁定持仓
func (h *TokenHandler) Lock(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	if err := token.Lock(caller); err != nil {
		LedgerErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "锁定成功", nil)
}

// Unlock 解除锁定
func (h *TokenHandler) Unlock(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	if err := token.Unlock(caller); err != nil {
		LedgerErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "解锁成功", nil)
}

// GetLocked 查询锁定状态
func (h *TokenHandler) GetLocked(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	addr, ok := parseAddress(c, c.Param("address"))
	if !ok {
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{"locked": token.HasLocked(addr)})
}

// MintMonthly 月度增发
func (h *TokenHandler) MintMonthly(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	if err := token.MintMonthly(caller); err != nil {
		LedgerErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "月度增发成功", nil)
}
