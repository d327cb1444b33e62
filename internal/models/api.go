package models

// QueryRequest 问答和指令请求
type QueryRequest struct {
	Input     string `json:"input" binding:"required"`
	Context   any    `json:"context"`
	MaxLength int    `json:"max_length"` // 大于0时按长度切分回复，便于小屏显示
}

// QueryResponse 问答响应
type QueryResponse struct {
	Response string   `json:"response"`
	Chunks   []string `json:"chunks,omitempty"`
}

// TaskRequest 任务请求
type TaskRequest struct {
	Args map[string]any `json:"args"`
}

// SessionResponse 创建会话的响应
type SessionResponse struct {
	SessionID string `json:"session_id"`
	App       string `json:"app"`
}

// HistoryResponse 会话历史
type HistoryResponse struct {
	SessionID string    `json:"session_id"`
	History   []Message `json:"history"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"` // 模型服务错误分类：rate_limited / upstream_error
}
