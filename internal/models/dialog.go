package models

// Role 消息角色
type Role string

// 消息角色常量
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message 对话消息，创建后不再修改
type Message struct {
	Role    Role   `json:"role"`           // 消息角色：system/user/assistant
	Content string `json:"content"`        // 消息内容
	Name    string `json:"name,omitempty"` // 可选的发送者名称
}

// NewMessage 创建新的消息
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content}
}

// SystemMessage 创建系统消息
func SystemMessage(content string) Message {
	return NewMessage(RoleSystem, content)
}

// UserMessage 创建用户消息
func UserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

// AssistantMessage 创建助手消息
func AssistantMessage(content string) Message {
	return NewMessage(RoleAssistant, content)
}

// Valid 检查角色是否合法
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Usage token用量统计
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`     // 提示词token数
	CompletionTokens int `json:"completion_tokens"` // 生成token数
	TotalTokens      int `json:"total_tokens"`      // 总token数
}

// ChatChoice 单个候选回复
type ChatChoice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason,omitempty"`
}

// ChatResponse 对话补全响应
type ChatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
	Usage   *Usage       `json:"usage,omitempty"`
}

// FirstContent 返回第一个候选回复的内容，没有候选时ok为false
func (r *ChatResponse) FirstContent() (string, bool) {
	if r == nil || len(r.Choices) == 0 {
		return "", false
	}
	return r.Choices[0].Message.Content, true
}
