// Package ollama 提供Ollama本地模型服务的对话客户端
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ai_llm_mini/internal/clients"
	"ai_llm_mini/internal/models"
)

// Config Ollama客户端配置
type Config struct {
	Host    string        // Ollama服务器地址（完整URL）
	Model   string        // 使用的模型名称，为空时使用ModelConfig中的名称
	Timeout time.Duration // 单次请求超时
}

// Client Ollama客户端
type Client struct {
	config Config
	client *http.Client
}

// ChatRequest 对话请求参数
type ChatRequest struct {
	Model    string           `json:"model"`             // 模型名称
	Messages []models.Message `json:"messages"`          // 消息列表
	Stream   bool             `json:"stream"`            // 是否流式输出
	Options  Options          `json:"options,omitempty"` // 可选参数
}

// Options 生成选项
type Options struct {
	Temperature float64 `json:"temperature"`           // 温度参数
	TopP        float64 `json:"top_p,omitempty"`       // Top-p采样
	NumPredict  int     `json:"num_predict,omitempty"` // 最大生成token数
}

// ChatResponse 对话响应
type ChatResponse struct {
	Model           string         `json:"model"`             // 模型名称
	CreatedAt       string         `json:"created_at"`        // 创建时间
	Message         models.Message `json:"message"`           // 助手回复
	Done            bool           `json:"done"`              // 是否完成
	DoneReason      string         `json:"done_reason"`       // 结束原因
	TotalDuration   int64          `json:"total_duration"`    // 总耗时(纳秒)
	PromptEvalCount int            `json:"prompt_eval_count"` // 提示词评估数量
	EvalCount       int            `json:"eval_count"`        // 评估数量
}

// NewClient 创建新的Ollama客户端
func NewClient(config Config) *Client {
	return &Client{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// Chat 发送对话请求
func (c *Client) Chat(ctx context.Context, messages []models.Message, modelConfig models.ModelConfig) (*ChatResponse, error) {
	model := c.config.Model
	if model == "" {
		model = modelConfig.ModelName
	}

	// 准备请求体
	reqBody := ChatRequest{
		Model:    model,
		Messages: messages,
		Stream:   false,
		Options: Options{
			Temperature: modelConfig.Temperature,
			TopP:        modelConfig.TopP,
			NumPredict:  modelConfig.MaxTokens,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("序列化请求失败: %w", err)
	}

	url := strings.TrimRight(c.config.Host, "/") + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("发送请求失败: %w", err)
	}
	defer resp.Body.Close()

	// 检查响应状态码
	if !clients.IsSuccess(resp.StatusCode) {
		return nil, clients.ReadProviderError(resp)
	}

	var response ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("解析响应失败: %w", err)
	}

	return &response, nil
}

// Send 发送消息列表并返回助手回复的原始文本
func (c *Client) Send(ctx context.Context, messages []models.Message, modelConfig models.ModelConfig, stream bool) (string, error) {
	if stream {
		return "", clients.ErrStreamingUnsupported
	}

	response, err := c.Chat(ctx, messages, modelConfig)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(response.Message.Content) == "" {
		return "", clients.ErrEmptyResponse
	}
	return response.Message.Content, nil
}
