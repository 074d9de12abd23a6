package response

import (
	stdErrors "errors"
	"net/http"
	"runtime"

	"ddd-skeleton/domain/shared"
	"ddd-skeleton/pkg/errors"
	"ddd-skeleton/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var httpStatusMap = map[errors.ErrorCode]int{
	errors.CodeInternal:        http.StatusInternalServerError,
	errors.CodeBadRequest:      http.StatusBadRequest,
	errors.CodeUnauthorized:    http.StatusUnauthorized,
	errors.CodeForbidden:       http.StatusForbidden,
	errors.CodeNotFound:        http.StatusNotFound,
	errors.CodeConflict:        http.StatusConflict,
	errors.CodeTooManyRequest:  http.StatusTooManyRequests,
	errors.CodeValidation:      http.StatusBadRequest,
	errors.CodeDomainViolation: http.StatusUnprocessableEntity,

	errors.CodeProjectNotFound: http.StatusNotFound,
	errors.CodeOwnerNotFound:   http.StatusNotFound,
}

// StatusFor 应用错误码对应的 HTTP 状态码，未知错误码一律 500
func StatusFor(code errors.ErrorCode) int {
	if status, ok := httpStatusMap[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func getRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

func GetRequestID(c *gin.Context) string {
	return getRequestID(c)
}

func captureStack(skip int) []string {
	var pcs [16]uintptr
	n := runtime.Callers(skip, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	stack := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		frame, more := frames.Next()
		if frame.Function != "" {
			stack = append(stack, frame.Function)
		}
		if !more {
			break
		}
	}
	return stack
}

// HandleError 处理参数绑定等框架层错误。
func HandleError(c *gin.Context, err error, message string, code int) {
	requestID := getRequestID(c)

	logger.Warn(message,
		logger.RequestID(requestID),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Int("status", code),
		zap.Error(err))

	c.JSON(code, &Response{
		Success:   false,
		Error:     string(errors.CodeBadRequest),
		Message:   message,
		Code:      code,
		RequestID: requestID,
	})
}

// Abort 中间件使用，写出错误响应并终止后续处理
func Abort(c *gin.Context, code errors.ErrorCode, message string) {
	status := StatusFor(code)
	c.AbortWithStatusJSON(status, &Response{
		Success:   false,
		Error:     string(code),
		Message:   message,
		Code:      status,
		RequestID: getRequestID(c),
	})
}

// HandleAppError 按应用错误码自动映射 HTTP 状态码。
func HandleAppError(c *gin.Context, err error) {
	requestID := getRequestID(c)
	appErr := errors.FromDomainError(err)
	httpStatus := StatusFor(appErr.Code)

	fields := []zap.Field{
		logger.RequestID(requestID),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("error_code", string(appErr.Code)),
		zap.Int("http_status", httpStatus),
	}
	if appErr.Err != nil {
		fields = append(fields, zap.Error(appErr.Err))
	}

	// 4xx 是调用方的问题，只有 5xx 才需要堆栈
	if httpStatus >= http.StatusInternalServerError {
		fields = append(fields, zap.Strings("stack", extractStack(err)))
		logger.Error(appErr.Message, fields...)
	} else {
		logger.Warn(appErr.Message, fields...)
	}

	userMessage := appErr.Message
	if appErr.Code == errors.CodeInternal {
		userMessage = "internal server error"
	}

	c.JSON(httpStatus, &Response{
		Success:   false,
		Error:     string(appErr.Code),
		Message:   userMessage,
		Code:      httpStatus,
		RequestID: requestID,
	})
}

func extractStack(err error) []string {
	var stacker shared.Stacker
	if stdErrors.As(err, &stacker) {
		if stack := stacker.Stack(); len(stack) > 0 {
			return stack
		}
	}
	return captureStack(4)
}
