package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fachturrpl1/absensi-sub009/pkg/response"
)

// OperatorHeader 调用方传入的操作人 ID，写入审计字段
const OperatorHeader = "X-Operator-ID"

// GetOperatorID 从请求头提取操作人 ID。
// 未提供时返回空字符串（审计字段留空）；提供了但不是 UUID 时写入 400 响应并返回 false，
// 调用方应在 ok=false 时直接 return。
func GetOperatorID(c *gin.Context) (string, bool) {
	v := strings.TrimSpace(c.GetHeader(OperatorHeader))
	if v == "" {
		return "", true
	}
	if _, err := uuid.Parse(v); err != nil {
		response.BadRequest(c, 10003, "操作人ID格式错误")
		return "", false
	}
	return v, true
}

// requireParam 读取路径参数，为空时写入 400 响应
func requireParam(c *gin.Context, name, message string) (string, bool) {
	v := c.Param(name)
	if v == "" {
		response.BadRequest(c, 10001, message)
		return "", false
	}
	return v, true
}
