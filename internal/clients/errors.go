// Package clients 定义各模型服务客户端共用的错误类型
package clients

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// 客户端公共错误
var (
	ErrEmptyResponse        = errors.New("模型没有返回任何候选回复")
	ErrStreamingUnsupported = errors.New("不支持流式输出")
)

// maxErrorBody 错误响应体最多读取的字节数
const maxErrorBody = 4096

// ProviderError 模型服务返回非2xx状态码
type ProviderError struct {
	StatusCode int    // HTTP状态码
	Type       string // 服务端错误类型，如 invalid_request_error
	Message    string // 错误描述
	Body       string // 原始响应体（截断）
}

func (e *ProviderError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("服务器返回错误: HTTP %d: %s: %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("服务器返回错误: HTTP %d: %s", e.StatusCode, e.Message)
}

// IsRateLimited 是否被限流（HTTP 429）
func (e *ProviderError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// IsServerError 是否为服务端错误（HTTP 5xx）
func (e *ProviderError) IsServerError() bool {
	return e.StatusCode >= 500
}

// IsSuccess 判断状态码是否为2xx
func IsSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// ReadProviderError 从错误响应中解析 ProviderError。
// 兼容 {"error":{"type":"...","message":"..."}} 和 {"error":"..."} 两种格式，
// 其他内容原样作为错误描述。
func ReadProviderError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	providerErr := &ProviderError{
		StatusCode: resp.StatusCode,
		Message:    string(body),
		Body:       string(body),
	}

	var structured struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &structured) == nil && structured.Error.Message != "" {
		providerErr.Type = structured.Error.Type
		providerErr.Message = structured.Error.Message
		return providerErr
	}

	var flat struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &flat) == nil && flat.Error != "" {
		providerErr.Message = flat.Error
	}

	return providerErr
}
