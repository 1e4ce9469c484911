package handler

import (
	"net/http"
	"time"

	"github.com/blues/egf/internal/ledger"
	"github.com/blues/egf/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// StakingHandler 质押接口
type StakingHandler struct {
	engine     *ledger.StakingEngine
	bonusRate  int64
	stakeLogic *logic.StakeLogic
}

func NewStakingHandler(db *gorm.DB, engine *ledger.StakingEngine, bonusRate int64) *StakingHandler {
	return &StakingHandler{
		engine:     engine,
		bonusRate:  bonusRate,
		stakeLogic: logic.NewStakeLogic(db),
	}
}

// Stake 质押代币
func (h *StakingHandler) Stake(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	var req StakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	amount, ok := parseAmount(c, req.Amount)
	if !ok {
		return
	}

	if err := h.engine.StakeTokens(caller, amount, time.Duration(req.Duration)*time.Second); err != nil {
		LedgerErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "质押成功", nil)
}

// GetReward 查询当前应计收益
func (h *StakingHandler) GetReward(c *gin.Context) {
	addr, ok := parseAddress(c, c.Param("address"))
	if !ok {
		return
	}

	reward := h.engine.CalculateReward(addr)
	SuccessResponse(c, http.StatusOK, "", gin.H{"reward": reward.String()})
}

// ClaimReward 领取质押收益
func (h *StakingHandler) ClaimReward(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	if err := h.engine.ClaimReward(caller); err != nil {
		LedgerErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "收益领取成功", nil)
}

// Unstake 取回托管本金
func (h *StakingHandler) Unstake(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	if err := h.engine.Unstake(caller); err != nil {
		LedgerErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "本金取回成功", nil)
}

// Reinvest 收益加成后转投活动
func (h *StakingHandler) Reinvest(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	var req ReinvestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.engine.ReinvestReward(caller, req.CampaignId, h.bonusRate); err != nil {
		LedgerErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "收益转投成功", nil)
}

// GetPosition 查询引擎里的当前仓位
func (h *StakingHandler) GetPosition(c *gin.Context) {
	addr, ok := parseAddress(c, c.Param("address"))
	if !ok {
		return
	}

	stake, found := h.engine.Stakes(addr)
	if !found {
		ErrorResponse(c, http.StatusNotFound, "没有质押仓位")
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"amount":    stake.Amount.String(),
		"duration":  int64(stake.Duration.Seconds()),
		"startTime": stake.StartTime,
		"locked":    h.engine.LockedPrincipal(addr).String(),
	})
}

// GetHistory 查询质押历史
func (h *StakingHandler) GetHistory(c *gin.Context) {
	addr, ok := parseAddress(c, c.Param("address"))
	if !ok {
		return
	}
	page, pageSize := pageParams(c)

	records, total, err := h.stakeLogic.GetHistory(addr.Hex(), page, pageSize)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"stakes":     ToStakeRecordResponseList(records),
		"pagination": paging(page, pageSize, total),
	})
}

// GetStats 查询质押统计
func (h *StakingHandler) GetStats(c *gin.Context) {
	stats, err := h.stakeLogic.GetStakingStats()
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", stats)
}
