// Package openai 提供兼容OpenAI Chat Completions接口的客户端
package openai

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

// DefaultBaseURL 默认API地址
const DefaultBaseURL = "https://api.openai.com/v1"

// Config OpenAI客户端配置
type Config struct {
	BaseURL string        // API地址，如 https://api.openai.com/v1
	APIKey  string        // API密钥，为空时不发送Authorization头
	Timeout time.Duration // 单次请求超时，0表示不限制
}

// Client OpenAI客户端
type Client struct {
	config      Config
	client      *http.Client
	modelConfig models.ModelConfig
}

// ChatRequest 对话补全请求参数
type ChatRequest struct {
	Model       string           `json:"model"`       // 模型名称
	Messages    []models.Message `json:"messages"`    // 消息列表
	MaxTokens   int              `json:"max_tokens"`  // 最大生成token数
	Temperature float64          `json:"temperature"` // 温度参数
	TopP        float64          `json:"top_p"`       // Top-p采样
	Stream      bool             `json:"stream"`      // 是否流式输出
}

// NewClient 创建新的OpenAI客户端
func NewClient(config Config, modelConfig models.ModelConfig) *Client {
	return NewClientWithHTTP(config, modelConfig, &http.Client{Timeout: config.Timeout})
}

// NewClientWithHTTP 使用指定的http.Client创建客户端
func NewClientWithHTTP(config Config, modelConfig models.ModelConfig, httpClient *http.Client) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	return &Client{
		config:      config,
		client:      httpClient,
		modelConfig: modelConfig,
	}
}

// ModelConfig 返回客户端默认的模型配置
func (c *Client) ModelConfig() models.ModelConfig {
	return c.modelConfig
}

// SetModelConfig 更新客户端默认的模型配置
func (c *Client) SetModelConfig(modelConfig models.ModelConfig) {
	c.modelConfig = modelConfig
}

// ChatCompletion 使用客户端默认模型配置发送对话补全请求
func (c *Client) ChatCompletion(ctx context.Context, messages []models.Message) (*models.ChatResponse, error) {
	return c.complete(ctx, messages, c.modelConfig, false)
}

// Send 发送消息列表并返回第一个候选回复的原始文本
func (c *Client) Send(ctx context.Context, messages []models.Message, modelConfig models.ModelConfig, stream bool) (string, error) {
	response, err := c.complete(ctx, messages, modelConfig, stream)
	if err != nil {
		return "", err
	}

	content, ok := response.FirstContent()
	if !ok || strings.TrimSpace(content) == "" {
		return "", clients.ErrEmptyResponse
	}
	return content, nil
}

// SimpleChat 单轮对话，systemMessage为空时不发送系统消息
func (c *Client) SimpleChat(ctx context.Context, prompt, systemMessage string) (string, error) {
	messages := make([]models.Message, 0, 2)
	if systemMessage != "" {
		messages = append(messages, models.SystemMessage(systemMessage))
	}
	messages = append(messages, models.UserMessage(prompt))

	return c.Send(ctx, messages, c.modelConfig, false)
}

// complete 构建请求并解析响应，响应体在所有路径上都会被关闭
func (c *Client) complete(ctx context.Context, messages []models.Message, modelConfig models.ModelConfig, stream bool) (*models.ChatResponse, error) {
	if stream {
		return nil, clients.ErrStreamingUnsupported
	}

	// 准备请求体
	reqBody := ChatRequest{
		Model:       modelConfig.ModelName,
		Messages:    messages,
		MaxTokens:   modelConfig.MaxTokens,
		Temperature: modelConfig.Temperature,
		TopP:        modelConfig.TopP,
		Stream:      stream,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("序列化请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}

	// 设置请求头
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("发送请求失败: %w", err)
	}
	defer resp.Body.Close()

	if !clients.IsSuccess(resp.StatusCode) {
		return nil, clients.ReadProviderError(resp)
	}

	var response models.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("解析响应失败: %w", err)
	}

	return &response, nil
}

// endpoint 返回对话补全接口地址
func (c *Client) endpoint() string {
	return strings.TrimRight(c.config.BaseURL, "/") + "/chat/completions"
}
