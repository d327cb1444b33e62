package apps

import (
	"fmt"
	"sort"

	"ai_llm_mini/internal/models"
	"ai_llm_mini/internal/services/session"
)

// Builtin 返回内置的领域应用定义，每次调用返回新的副本
func Builtin() []Definition {
	return []Definition{
		motorDefinition(),
		lightingDefinition(),
		securityDefinition(),
		navigationDefinition(),
		schedulerDefinition(),
		weatherDefinition(),
		smartHomeDefinition(),
	}
}

// Registry 应用注册表，为每个会话创建独立的应用实例
type Registry struct {
	transport   session.Transport
	modelConfig models.ModelConfig
	windowLimit int
	defs        map[string]Definition
	windows     map[string]int
}

// NewRegistry 用内置定义和配置覆盖项创建注册表。
// 覆盖项引用未知应用、安全范围无效或提示词模板无法渲染时返回错误。
func NewRegistry(transport session.Transport, modelConfig models.ModelConfig, windowLimit int, overrides map[string]Override) (*Registry, error) {
	r := &Registry{
		transport:   transport,
		modelConfig: modelConfig,
		windowLimit: windowLimit,
		defs:        make(map[string]Definition),
		windows:     make(map[string]int),
	}
	for _, def := range Builtin() {
		r.defs[def.Name] = def
	}

	for name, override := range overrides {
		def, ok := r.defs[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownApp, name)
		}
		applied, err := override.Apply(def)
		if err != nil {
			return nil, err
		}
		r.defs[name] = applied
		if override.WindowMessages > 0 {
			r.windows[name] = override.WindowMessages
		}
	}

	// 提前渲染一次，尽早发现配置错误
	for _, name := range r.Names() {
		if _, err := r.defs[name].RenderSystemPrompt(); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Names 按字母序返回应用名称
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definition 返回应用定义
func (r *Registry) Definition(name string) (Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Info 应用概要
type Info struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Structured  bool     `json:"structured"`
	Tasks       []string `json:"tasks"`
}

// List 返回所有应用的概要
func (r *Registry) List() []Info {
	infos := make([]Info, 0, len(r.defs))
	for _, name := range r.Names() {
		def := r.defs[name]
		infos = append(infos, Info{
			Name:        def.Name,
			Description: def.Description,
			Structured:  def.Structured(),
			Tasks:       taskNames(def),
		})
	}
	return infos
}

// New 创建指定应用的新实例
func (r *Registry) New(name string) (*Application, error) {
	def, ok := r.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownApp, name)
	}

	window := r.windowLimit
	if w, ok := r.windows[name]; ok {
		window = w
	}
	return New(def, r.transport, WithModelConfig(r.modelConfig), WithWindowLimit(window))
}
