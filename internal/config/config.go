// Package config 提供配置加载和管理功能
package config

import (
	"fmt"
	"os"
	"time"

	"ai_llm_mini/internal/apps"

	"gopkg.in/yaml.v3"
)

// 环境变量
const (
	EnvAPIKey  = "LLM_API_KEY"
	EnvBaseURL = "LLM_BASE_URL"
)

// Config 应用程序配置结构
type Config struct {
	Server    ServerConfig             `yaml:"server"`
	LLM       LLMConfig                `yaml:"llm"`
	Ollama    OllamaConfig             `yaml:"ollama"`
	Session   SessionConfig            `yaml:"session"`
	WebSocket WebSocketConfig          `yaml:"websocket"`
	Apps      map[string]apps.Override `yaml:"apps"` // 按应用名称覆盖提示词、温度、窗口和安全范围
}

// ServerConfig HTTP服务器配置
type ServerConfig struct {
	Host            string        `yaml:"host"`             // 服务器监听地址
	Port            int           `yaml:"port"`             // 服务器监听端口
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // 优雅关闭的等待时间
}

// Addr 返回监听地址
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SessionConfig 会话配置
type SessionConfig struct {
	WindowMessages int           `yaml:"window_messages"` // 历史窗口大小（消息条数）
	IdleTTL        time.Duration `yaml:"idle_ttl"`        // 空闲超过该时间的会话会被回收
	ReapInterval   time.Duration `yaml:"reap_interval"`   // 回收检查间隔
}

// WebSocketConfig WebSocket配置
type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size"`  // 读缓冲区大小
	WriteBufferSize int           `yaml:"write_buffer_size"` // 写缓冲区大小
	PingPeriod      time.Duration `yaml:"ping_period"`       // 心跳间隔
	PongWait        time.Duration `yaml:"pong_wait"`         // 等待Pong响应的超时时间
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ShutdownTimeout: 5 * time.Second,
		},
		LLM:    NewLLMConfig(),
		Ollama: NewOllamaConfig(),
		Session: SessionConfig{
			WindowMessages: 10,
			IdleTTL:        30 * time.Minute,
			ReapInterval:   time.Minute,
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			PingPeriod:      30 * time.Second,
			PongWait:        60 * time.Second,
		},
	}
}

// Load 从文件加载配置，文件名为空时只使用默认值和环境变量
func Load(filename string) (*Config, error) {
	config := Default()

	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	}

	applyEnv(config)

	// 验证配置
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	return config, nil
}

// applyEnv 用环境变量覆盖敏感配置
func applyEnv(config *Config) {
	if key := os.Getenv(EnvAPIKey); key != "" {
		config.LLM.APIKey = key
	}
	if baseURL := os.Getenv(EnvBaseURL); baseURL != "" {
		config.LLM.BaseURL = baseURL
	}
}

// Validate 验证配置是否有效
func (c *Config) Validate() error {
	// 验证服务器配置
	if c.Server.Host == "" {
		return ErrEmptyHost
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return ErrInvalidPort
	}

	// 验证模型服务配置
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	if c.LLM.Provider == ProviderOllama {
		if err := c.Ollama.Validate(); err != nil {
			return err
		}
	}

	// 验证会话配置
	if c.Session.WindowMessages <= 0 {
		return ErrInvalidWindow
	}
	if c.Session.IdleTTL <= 0 {
		return ErrInvalidIdleTTL
	}
	if c.Session.ReapInterval <= 0 {
		c.Session.ReapInterval = time.Minute
	}

	// 验证WebSocket配置
	if c.WebSocket.ReadBufferSize <= 0 || c.WebSocket.WriteBufferSize <= 0 {
		return ErrInvalidBufferLen
	}
	if c.WebSocket.PongWait <= 0 {
		c.WebSocket.PongWait = 60 * time.Second
	}
	if c.WebSocket.PingPeriod <= 0 || c.WebSocket.PingPeriod >= c.WebSocket.PongWait {
		c.WebSocket.PingPeriod = c.WebSocket.PongWait * 9 / 10
	}

	return nil
}
