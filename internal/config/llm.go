package config

import (
	"fmt"
	"time"

	"ai_llm_mini/internal/models"
)

// 模型服务提供方
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// LLMConfig 模型服务配置
type LLMConfig struct {
	Provider string             `yaml:"provider"` // openai 或 ollama
	BaseURL  string             `yaml:"base_url"` // OpenAI兼容接口地址
	APIKey   string             `yaml:"api_key"`  // API密钥，可由 LLM_API_KEY 覆盖
	Model    models.ModelConfig `yaml:"model"`    // 模型参数
	Timeout  time.Duration      `yaml:"timeout"`  // 单次请求超时时间
}

// NewLLMConfig 创建默认的模型服务配置
func NewLLMConfig() LLMConfig {
	return LLMConfig{
		Provider: ProviderOpenAI,
		BaseURL:  "https://api.openai.com/v1",
		Model:    models.DefaultModelConfig(),
		Timeout:  30 * time.Second,
	}
}

// Validate 验证模型服务配置
func (c *LLMConfig) Validate() error {
	switch c.Provider {
	case ProviderOpenAI:
		if c.BaseURL == "" {
			return ErrEmptyBaseURL
		}
	case ProviderOllama:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider)
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if err := c.Model.Validate(); err != nil {
		return fmt.Errorf("模型参数无效: %w", err)
	}
	return nil
}
