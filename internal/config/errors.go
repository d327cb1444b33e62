package config

import "errors"

// 配置相关错误
var (
	ErrEmptyHost        = errors.New("服务器地址不能为空")
	ErrInvalidPort      = errors.New("服务器端口必须在1-65535之间")
	ErrUnknownProvider  = errors.New("未知的模型服务提供方")
	ErrEmptyBaseURL     = errors.New("模型服务地址不能为空")
	ErrInvalidTimeout   = errors.New("请求超时时间必须大于0")
	ErrEmptyOllamaHost  = errors.New("Ollama服务器地址不能为空")
	ErrInvalidWindow    = errors.New("历史窗口大小必须大于0")
	ErrInvalidIdleTTL   = errors.New("会话空闲超时时间必须大于0")
	ErrInvalidBufferLen = errors.New("WebSocket缓冲区大小必须大于0")
)
