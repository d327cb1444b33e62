package config

// OllamaConfig Ollama配置，provider 为 ollama 时使用
type OllamaConfig struct {
	Host  string `yaml:"host"`  // Ollama服务器地址
	Model string `yaml:"model"` // 模型名称，为空时使用 llm.model.name
}

// NewOllamaConfig 创建默认的Ollama配置
func NewOllamaConfig() OllamaConfig {
	return OllamaConfig{
		Host: "http://localhost:11434",
	}
}

// Validate 验证Ollama配置
func (c *OllamaConfig) Validate() error {
	if c.Host == "" {
		return ErrEmptyOllamaHost
	}
	return nil
}
