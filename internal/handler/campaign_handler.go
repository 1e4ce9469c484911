package handler

import (
	"net/http"

	"github.com/blues/egf/internal/ledger"
	"github.com/blues/egf/internal/logic"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CampaignHandler 活动接口，写操作直达引擎，读操作走读模型
type CampaignHandler struct {
	registry          *ledger.Registry
	tokens            map[common.Address]*ledger.Token
	campaignLogic     *logic.CampaignLogic
	contributionLogic *logic.ContributionRecordLogic
	refundLogic       *logic.RefundRecordLogic
	rewardLogic       *logic.RewardRecordLogic
}

func NewCampaignHandler(db *gorm.DB, registry *ledger.Registry, tokens map[common.Address]*ledger.Token) *CampaignHandler {
	return &CampaignHandler{
		registry:          registry,
		tokens:            tokens,
		campaignLogic:     logic.NewCampaignLogic(db),
		contributionLogic: logic.NewContributionRecordLogic(db),
		refundLogic:       logic.NewRefundRecordLogic(db),
		rewardLogic:       logic.NewRewardRecordLogic(db),
	}
}

// CreateCampaign 创建活动
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	target, ok := parseAmount(c, req.TargetAmount)
	if !ok {
		return
	}

	id, err := h.registry.CreateCampaign(caller, req.Name, req.Description, target, req.StartTime, req.EndTime, req.ImageURL)
	if err != nil {
		LedgerErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "活动创建成功", gin.H{"campaignId": id})
}

// GetCampaigns 获取活动列表
func (h *CampaignHandler) GetCampaigns(c *gin.Context) {
	status := c.Query("status")
	creator := c.Query("creator")
	page, pageSize := pageParams(c)

	campaigns, total, err := h.campaignLogic.GetCampaigns(status, creator, page, pageSize)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"campaigns":  ToCampaignResponseList(campaigns),
		"pagination": paging(page, pageSize, total),
	})
}

// GetCampaign 获取活动详情
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	id, ok := parseCampaignId(c)
	if !ok {
		return
	}

	campaign, err := h.campaignLogic.GetCampaign(id)
	if err != nil {
		ErrorResponse(c, http.StatusNotFound, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{"campaign": ToCampaignResponse(campaign)})
}

// UpdateCampaign 更新活动，仅创建者可调用
func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	id, ok := parseCampaignId(c)
	if !ok {
		return
	}

	var req UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	target, ok := parseAmount(c, req.TargetAmount)
	if !ok {
		return
	}

	if err := h.registry.UpdateCampaign(caller, id, req.Name, req.Description, target, req.StartTime, req.EndTime, req.ImageURL); err != nil {
		LedgerErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "活动更新成功", nil)
}

// ToggleCampaignStatus 暂停/恢复活动
func (h *CampaignHandler) ToggleCampaignStatus(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	id, ok := parseCampaignId(c)
	if !ok {
		return
	}

	if err := h.registry.ToggleCampaignStatus(caller, id); err != nil {
		LedgerErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "活动状态已切换", nil)
}

// FundCampaign 原生币出资
func (h *CampaignHandler) FundCampaign(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	id, ok := parseCampaignId(c)
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

	if err := h.registry.FundCampaign(caller, id, amount); err != nil {
		LedgerErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "出资成功", nil)
}

// FundCampaignWithToken 授权币种出资
func (h *CampaignHandler) FundCampaignWithToken(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	id, ok := parseCampaignId(c)
	if !ok {
		return
	}

	var req FundTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	tokenAddr, ok := parseAddress(c, req.TokenAddress)
	if !ok {
		return
	}
	amount, ok := parseAmount(c, req.Amount)
	if !ok {
		return
	}

	if err := h.registry.FundCampaignWithToken(caller, id, tokenAddr, amount); err != nil {
		LedgerErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "出资成功", nil)
}

// Withdraw 创建者提取筹得资金
func (h *CampaignHandler) Withdraw(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	id, ok := parseCampaignId(c)
	if !ok {
		return
	}

	if err := h.registry.Withdraw(caller, id); err != nil {
		LedgerErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "提取成功", nil)
}

// Refund 出资人退款
func (h *CampaignHandler) Refund(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	id, ok := parseCampaignId(c)
	if !ok {
		return
	}

	if err := h.registry.Refund(caller, id); err != nil {
		LedgerErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "退款成功", nil)
}

// ClaimReward 出资人领取奖励代币
func (h *CampaignHandler) ClaimReward(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	id, ok := parseCampaignId(c)
	if !ok {
		return
	}

	if err := h.registry.ClaimReward(caller, id); err != nil {
		LedgerErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "奖励领取成功", nil)
}

// AuthoriseToken 平台管理员授权/撤销出资币种
func (h *CampaignHandler) AuthoriseToken(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	var req AuthoriseTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	tokenAddr, ok := parseAddress(c, req.TokenAddress)
	if !ok {
		return
	}

	token, known := h.tokens[tokenAddr]
	if !known {
		ErrorResponse(c, http.StatusNotFound, "未知的代币地址")
		return
	}

	if err := h.registry.SetAuthorisedToken(caller, tokenAddr, token, req.Authorised); err != nil {
		LedgerErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "授权状态已更新", nil)
}

// GetContributions 获取活动出资记录
func (h *CampaignHandler) GetContributions(c *gin.Context) {
	id, ok := parseCampaignId(c)
	if !ok {
		return
	}
	page, pageSize := pageParams(c)

	records, total, err := h.contributionLogic.GetByCampaign(id, page, pageSize)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"contributions": ToContributionRecordResponseList(records),
		"pagination":    paging(page, pageSize, total),
	})
}

// GetRefunds 获取活动退款记录
func (h *CampaignHandler) GetRefunds(c *gin.Context) {
	id, ok := parseCampaignId(c)
	if !ok {
		return
	}
	page, pageSize := pageParams(c)

	records, total, err := h.refundLogic.GetByCampaign(id, page, pageSize)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"refunds":    ToRefundRecordResponseList(records),
		"pagination": paging(page, pageSize, total),
	})
}

// GetCampaignStats 获取活动统计信息
func (h *CampaignHandler) GetCampaignStats(c *gin.Context) {
	id, ok := parseCampaignId(c)
	if !ok {
		return
	}

	stats, err := h.campaignLogic.GetCampaignStats(id)
	if err != nil {
		ErrorResponse(c, http.StatusNotFound, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", stats)
}

// GetAllCampaignStats 获取平台总体统计信息
func (h *CampaignHandler) GetAllCampaignStats(c *gin.Context) {
	stats, err := h.campaignLogic.GetAllCampaignStats()
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", stats)
}
