package models

import "fmt"

// 默认模型参数
const (
	DefaultModelName   = "gpt-3.5-turbo"
	DefaultMaxTokens   = 150
	DefaultTemperature = 0.7
	DefaultTopP        = 1.0
)

// ModelConfig 模型参数配置
type ModelConfig struct {
	ModelName   string  `yaml:"name" json:"model"`              // 模型名称
	MaxTokens   int     `yaml:"max_tokens" json:"max_tokens"`   // 最大生成token数
	Temperature float64 `yaml:"temperature" json:"temperature"` // 温度参数 [0,2]
	TopP        float64 `yaml:"top_p" json:"top_p"`             // Top-p采样 [0,1]
}

// DefaultModelConfig 返回默认模型配置
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		ModelName:   DefaultModelName,
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
		TopP:        DefaultTopP,
	}
}

// WithTemperature 返回修改了温度的副本
func (c ModelConfig) WithTemperature(temperature float64) ModelConfig {
	c.Temperature = temperature
	return c
}

// Validate 验证模型配置
func (c ModelConfig) Validate() error {
	if c.ModelName == "" {
		return fmt.Errorf("模型名称不能为空")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("最大生成token数必须大于0: %d", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("温度参数必须在0到2之间: %v", c.Temperature)
	}
	if c.TopP < 0 || c.TopP > 1 {
		return fmt.Errorf("top_p必须在0到1之间: %v", c.TopP)
	}
	return nil
}
