/*
Package response - API 层统一响应处理

HTTP 状态码映射只放在 API 层，领域层和应用层只认识错误分类。
所有响应携带 RequestID 用于日志追踪，内部错误统一返回 "internal server error"。

堆栈提取: 优先从领域错误（实现 shared.Stacker 接口）提取"错误发生点"堆栈，
否则在此处捕获"错误处理点"堆栈作为兜底。

响应格式:

	成功: { success: true, data: {...}, message: "...", code: 200, request_id: "..." }
	失败: { success: false, error: "ERROR_CODE", message: "用户可见消息", code: 4xx/5xx, request_id: "..." }
*/
package response

// RequestIDKey 是 gin context 中保存请求 ID 的键。
const RequestIDKey = "request_id"

// Response 是统一响应结构。
type Response struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"` // 错误码，不是错误详情
	Code      int    `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ListResponse 是列表响应结构，Data 永远是数组
type ListResponse struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data"`
	Total     int    `json:"total"`
	Message   string `json:"message"`
	Code      int    `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}
