package handler

import (
	"time"

	"github.com/blues/egf/internal/model"
)

// 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// 分页信息结构
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"pageSize"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"totalPage"`
}

// 请求模型

// CreateCampaignRequest 创建活动请求
type CreateCampaignRequest struct {
	Name         string    `json:"name" binding:"required"`
	Description  string    `json:"description" binding:"required"`
	ImageURL     string    `json:"imageUrl" binding:"required"`
	TargetAmount string    `json:"targetAmount" binding:"required"` // wei字符串
	StartTime    time.Time `json:"startTime" binding:"required"`
	EndTime      time.Time `json:"endTime" binding:"required"`
}

// UpdateCampaignRequest 更新活动请求，字段全量覆盖
type UpdateCampaignRequest = CreateCampaignRequest

// AmountRequest 单金额请求
type AmountRequest struct {
	Amount string `json:"amount" binding:"required"` // wei字符串
}

// FundTokenRequest 代币出资请求
type FundTokenRequest struct {
	TokenAddress string `json:"tokenAddress" binding:"required"`
	Amount       string `json:"amount" binding:"required"`
}

// AuthoriseTokenRequest 出资币种授权请求
type AuthoriseTokenRequest struct {
	TokenAddress string `json:"tokenAddress" binding:"required"`
	Authorised   bool   `json:"authorised"`
}

// StakeRequest 质押请求
type StakeRequest struct {
	Amount   string `json:"amount" binding:"required"`   // wei字符串
	Duration int64  `json:"duration" binding:"required"` // 秒
}

// ReinvestRequest 收益转投请求
type ReinvestRequest struct {
	CampaignId uint64 `json:"campaignId"`
}

// TransferRequest 代币转账请求
type TransferRequest struct {
	To     string `json:"to" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

// ApproveRequest 代币授权请求
type ApproveRequest struct {
	Spender string `json:"spender" binding:"required"`
	Amount  string `json:"amount" binding:"required"`
}

// MintRequest 增发请求
type MintRequest struct {
	To     string `json:"to" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

// BurnRequest 销毁请求
type BurnRequest struct {
	From   string `json:"from" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

// MinterRequest 增发角色变更请求
type MinterRequest struct {
	Minter string `json:"minter" binding:"required"`
}

// BuyRequest 代币申购请求
type BuyRequest struct {
	TokenAmount string `json:"tokenAmount" binding:"required"`
	EthValue    string `json:"ethValue" binding:"required"`
}

// 响应模型

// CampaignResponse 活动响应模型
type CampaignResponse struct {
	CampaignId      uint64    `json:"campaignId"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	ImageURL        string    `json:"imageUrl"`
	Creator         string    `json:"creator"`
	TargetAmount    string    `json:"targetAmount"`
	AmountCollected string    `json:"amountCollected"`
	Status          string    `json:"status"`
	Claimed         bool      `json:"claimed"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ContributionRecordResponse 出资记录响应模型
type ContributionRecordResponse struct {
	Id           int64     `json:"id"`
	CampaignId   uint64    `json:"campaignId"`
	Address      string    `json:"address"`
	TokenAddress string    `json:"tokenAddress"`
	Amount       string    `json:"amount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RefundRecordResponse 退款记录响应模型
type RefundRecordResponse struct {
	Id           int64     `json:"id"`
	CampaignId   uint64    `json:"campaignId"`
	Address      string    `json:"address"`
	TokenAddress string    `json:"tokenAddress"`
	Amount       string    `json:"amount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// StakeRecordResponse 质押记录响应模型
type StakeRecordResponse struct {
	Id        int64     `json:"id"`
	Address   string    `json:"address"`
	Amount    string    `json:"amount"`
	Duration  int64     `json:"duration"`
	StartTime time.Time `json:"startTime"`
	Status    string    `json:"status"`
	Reward    string    `json:"reward"`
	CreatedAt time.Time `json:"createdAt"`
}

// 转换函数

// ToCampaignResponse 将读模型转换为响应模型
func ToCampaignResponse(campaign *model.CampaignModel) CampaignResponse {
	return CampaignResponse{
		CampaignId:      campaign.CampaignId,
		Name:            campaign.Name,
		Description:     campaign.Description,
		ImageURL:        campaign.ImageURL,
		Creator:         campaign.CreatorAddress,
		TargetAmount:    campaign.TargetAmount,
		AmountCollected: campaign.AmountCollected,
		Status:          string(campaign.Status),
		Claimed:         campaign.Claimed,
		StartTime:       campaign.StartTime,
		EndTime:         campaign.EndTime,
		CreatedAt:       campaign.CreatedAt,
		UpdatedAt:       campaign.UpdatedAt,
	}
}

// ToCampaignResponseList 转换活动列表
func ToCampaignResponseList(campaigns []model.CampaignModel) []CampaignResponse {
	result := make([]CampaignResponse, len(campaigns))
	for i := range campaigns {
		result[i] = ToCampaignResponse(&campaigns[i])
	}
	return result
}

// ToContributionRecordResponseList 转换出资记录列表
func ToContributionRecordResponseList(records []model.ContributionRecordModel) []ContributionRecordResponse {
	result := make([]ContributionRecordResponse, len(records))
	for i, record := range records {
		result[i] = ContributionRecordResponse{
			Id:           record.Id,
			CampaignId:   record.CampaignId,
			Address:      record.Address,
			TokenAddress: record.TokenAddress,
			Amount:       record.Amount,
			CreatedAt:    record.CreatedAt,
		}
	}
	return result
}

// ToRefundRecordResponseList 转换退款记录列表
func ToRefundRecordResponseList(records []model.RefundRecordModel) []RefundRecordResponse {
	result := make([]RefundRecordResponse, len(records))
	for i, record := range records {
		result[i] = RefundRecordResponse{
			Id:           record.Id,
			CampaignId:   record.CampaignId,
			Address:      record.Address,
			TokenAddress: record.TokenAddress,
			Amount:       record.Amount,
			CreatedAt:    record.CreatedAt,
		}
	}
	return result
}

// ToStakeRecordResponseList 转换质押记录列表
func ToStakeRecordResponseList(records []model.StakeRecordModel) []StakeRecordResponse {
	result := make([]StakeRecordResponse, len(records))
	for i, record := range records {
		result[i] = StakeRecordResponse{
			Id:        record.Id,
			Address:   record.Address,
			Amount:    record.Amount,
			Duration:  record.Duration,
			StartTime: record.StartTime,
			Status:    string(record.Status),
			Reward:    record.Reward,
			CreatedAt: record.CreatedAt,
		}
	}
	return result
}
