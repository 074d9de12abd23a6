// Package ctxutil 把 gin 请求上下文转换成下游使用的 context.Context
package ctxutil

import (
	"context"

	"ddd-skeleton/api/response"
	"ddd-skeleton/infrastructure/persistence"

	"github.com/gin-gonic/gin"
)

// WithRequestID 请求 ID 随 context 传给仓储层，gorm 日志会带上它
func WithRequestID(ctx *gin.Context) context.Context {
	requestID := response.GetRequestID(ctx)
	return persistence.ContextWithRequestID(ctx.Request.Context(), requestID)
}
