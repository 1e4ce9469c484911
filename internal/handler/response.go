package handler

import (
	"errors"
	"net/http"

	"github.com/blues/egf/internal/ledger"
	"github.com/gin-gonic/gin"
)

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// LedgerErrorResponse 把账本拒绝原因映射为HTTP状态码
func LedgerErrorResponse(c *gin.Context, err error) {
	var lerr *ledger.Error
	if errors.As(err, &lerr) {
		c.JSON(statusForKind(lerr.Kind), Response{
			Success: false,
			Message: lerr.Reason,
			Data:    gin.H{"kind": lerr.Kind.String()},
		})
		return
	}
	ErrorResponse(c, http.StatusInternalServerError, err.Error())
}

func statusForKind(kind ledger.ErrorKind) int {
	switch kind {
	case ledger.KindInvalidInput:
		return http.StatusBadRequest
	case ledger.KindNotFound:
		return http.StatusNotFound
	case ledger.KindUnauthorized:
		return http.StatusForbidden
	case ledger.KindStateConflict, ledger.KindTokenNotAuthorised, ledger.KindNoRewards:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
