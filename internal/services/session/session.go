// Package session 管理带有限历史窗口的对话会话
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"reflect"

	"ai_llm_mini/internal/models"
	"ai_llm_mini/internal/services/response"
)

// DefaultWindowLimit 默认历史窗口大小（消息条数，即最近5轮对话）
const DefaultWindowLimit = 10

// ErrNoResponse 模型没有给出回复。所有传输层错误都会包装成该错误返回，
// 原始错误仍可通过 errors.As 取出。
var ErrNoResponse = errors.New("no response")

// Transport 发送消息列表并返回原始回复文本
type Transport interface {
	Send(ctx context.Context, messages []models.Message, modelConfig models.ModelConfig, stream bool) (string, error)
}

// Session 对话会话。
// 完整历史保存在内存中，只在组装请求时截取最近 windowLimit 条消息。
// Session 不是并发安全的，同一会话的 Turn 调用必须由调用方串行化。
type Session struct {
	transport    Transport
	systemPrompt string
	history      []models.Message
	windowLimit  int
	modelConfig  models.ModelConfig
}

// Option 会话选项
type Option func(*Session)

// WithWindowLimit 设置历史窗口大小（消息条数），非正数使用默认值
func WithWindowLimit(limit int) Option {
	return func(s *Session) {
		if limit > 0 {
			s.windowLimit = limit
		}
	}
}

// WithModelConfig 设置会话使用的模型配置
func WithModelConfig(modelConfig models.ModelConfig) Option {
	return func(s *Session) {
		s.modelConfig = modelConfig
	}
}

// New 创建新的对话会话
func New(transport Transport, systemPrompt string, opts ...Option) *Session {
	s := &Session{
		transport:    transport,
		systemPrompt: systemPrompt,
		history:      make([]models.Message, 0),
		windowLimit:  DefaultWindowLimit,
		modelConfig:  models.DefaultModelConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Turn 处理一轮对话：格式化用户输入，组装请求，调用模型并清洗回复。
// 成功时把本轮的用户消息和清洗后的回复追加到历史；
// 失败时历史保持不变，返回的错误满足 errors.Is(err, ErrNoResponse)。
func (s *Session) Turn(ctx context.Context, userInput string, contextData any) (string, error) {
	prompt := FormatUserPrompt(userInput, contextData)
	outbound := s.Outbound(prompt)

	raw, err := s.transport.Send(ctx, outbound, s.modelConfig, false)
	if err != nil {
		log.Printf("请求模型失败: %v", err)
		return "", fmt.Errorf("%w: %w", ErrNoResponse, err)
	}

	cleaned := response.Clean(raw)
	s.history = append(s.history, models.UserMessage(prompt), models.AssistantMessage(cleaned))

	return cleaned, nil
}

// Outbound 组装发送给模型的消息列表：系统提示词 + 最近的历史窗口 + 新的用户消息
func (s *Session) Outbound(prompt string) []models.Message {
	window := s.window()

	messages := make([]models.Message, 0, len(window)+2)
	messages = append(messages, models.SystemMessage(s.systemPrompt))
	messages = append(messages, window...)
	messages = append(messages, models.UserMessage(prompt))
	return messages
}

// window 返回最近 windowLimit 条历史消息
func (s *Session) window() []models.Message {
	start := len(s.history) - s.windowLimit
	if start < 0 {
		start = 0
	}
	return s.history[start:]
}

// Clear 清除对话历史
func (s *Session) Clear() {
	s.history = make([]models.Message, 0)
}

// SetSystemPrompt 替换系统提示词，不影响已有历史
func (s *Session) SetSystemPrompt(prompt string) {
	s.systemPrompt = prompt
}

// SystemPrompt 返回当前系统提示词
func (s *Session) SystemPrompt() string {
	return s.systemPrompt
}

// History 返回完整历史的副本
func (s *Session) History() []models.Message {
	history := make([]models.Message, len(s.history))
	copy(history, s.history)
	return history
}

// Len 返回历史消息条数
func (s *Session) Len() int {
	return len(s.history)
}

// WindowLimit 返回历史窗口大小
func (s *Session) WindowLimit() int {
	return s.windowLimit
}

// ModelConfig 返回会话的模型配置
func (s *Session) ModelConfig() models.ModelConfig {
	return s.modelConfig
}

// SetModelConfig 更新会话的模型配置
func (s *Session) SetModelConfig(modelConfig models.ModelConfig) {
	s.modelConfig = modelConfig
}

// FormatUserPrompt 有上下文数据时按固定模板拼接，否则原样返回用户输入
func FormatUserPrompt(userInput string, contextData any) string {
	contextText, ok := FormatContextData(contextData)
	if !ok {
		return userInput
	}
	return fmt.Sprintf("User Query: %s\n\nContext Data: %s", userInput, contextText)
}

// FormatContextData 把上下文数据转成文本。
// 字符串原样使用，其他值编码为JSON；nil、空字符串、空map和空切片视为没有上下文。
func FormatContextData(contextData any) (string, bool) {
	switch v := contextData.(type) {
	case nil:
		return "", false
	case string:
		return v, v != ""
	case []byte:
		return string(v), len(v) > 0
	}

	rv := reflect.ValueOf(contextData)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "", false
		}
	case reflect.Map, reflect.Slice, reflect.Array:
		if rv.Len() == 0 {
			return "", false
		}
	}

	if stringer, ok := contextData.(fmt.Stringer); ok {
		text := stringer.String()
		return text, text != ""
	}

	data, err := json.Marshal(contextData)
	if err != nil {
		return fmt.Sprint(contextData), true
	}
	return string(data), true
}
