package handler

import (
	"net/http"

	"github.com/blues/egf/internal/ledger"
	"github.com/gin-gonic/gin"
)

// SaleHandler 代币申购/赎回接口
type SaleHandler struct {
	sale *ledger.TokenSale
}

func NewSaleHandler(sale *ledger.TokenSale) *SaleHandler {
	return &SaleHandler{sale: sale}
}

// Buy 按汇率申购代币
func (h *SaleHandler) Buy(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	var req BuyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	tokenAmount, ok := parseAmount(c, req.TokenAmount)
	if !ok {
		return
	}
	ethValue, ok := parseAmount(c, req.EthValue)
	if !ok {
		return
	}

	if err := h.sale.Buy(caller, tokenAmount, ethValue); err != nil {
		LedgerErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "申购成功", nil)
}

// Sell 赎回代币换回原生币
func (h *SaleHandler) Sell(c *gin.Context) {
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

	if err := h.sale.Sell(caller, amount); err != nil {
		LedgerErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "赎回成功", nil)
}
