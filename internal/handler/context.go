package handler

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

// CallerHeader 调用方地址请求头，签名校验不在服务范围内
const CallerHeader = "X-Caller-Address"

// callerAddress 从请求头解析调用方地址
func callerAddress(c *gin.Context) (common.Address, bool) {
	raw := c.GetHeader(CallerHeader)
	if !common.IsHexAddress(raw) {
		ErrorResponse(c, http.StatusBadRequest, "缺少或非法的调用方地址")
		return common.Address{}, false
	}
	return common.HexToAddress(raw), true
}

// parseAddress 解析路径/请求体里的地址
func parseAddress(c *gin.Context, raw string) (common.Address, bool) {
	if !common.IsHexAddress(raw) {
		ErrorResponse(c, http.StatusBadRequest, "非法的地址")
		return common.Address{}, false
	}
	return common.HexToAddress(raw), true
}

// parseAmount 解析wei字符串
func parseAmount(c *gin.Context, raw string) (*big.Int, bool) {
	amount, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "非法的金额")
		return nil, false
	}
	return amount, true
}

// parseCampaignId 解析路径里的活动ID
func parseCampaignId(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "非法的活动ID")
		return 0, false
	}
	return id, true
}

// pageParams 解析分页参数
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}

// paging 组装分页响应
func paging(page, pageSize int, total int64) Pagination {
	totalPage := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		totalPage++
	}
	return Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	}
}
