package models

// WebSocket 帧类型
const (
	FrameQuery   = "query"
	FrameCommand = "command"
	FrameTask    = "task"
	FrameClear   = "clear"
	FrameError   = "error"
)

// ChatFrame 客户端发送的WebSocket帧
type ChatFrame struct {
	Type    string         `json:"type"`              // query/command/task/clear
	Input   string         `json:"input,omitempty"`   // 用户输入
	Context any            `json:"context,omitempty"` // 上下文数据
	Task    string         `json:"task,omitempty"`    // 任务名称，type 为 task 时使用
	Args    map[string]any `json:"args,omitempty"`    // 任务参数
}

// ChatReply 服务端返回的WebSocket帧
type ChatReply struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Response  string `json:"response,omitempty"`
	Command   any    `json:"command,omitempty"`
	Error     string `json:"error,omitempty"`
}
