// Package apps 把对话会话和指令校验组合成面向具体领域的应用
package apps

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"ai_llm_mini/internal/services/command"
)

var (
	// ErrUnknownApp 应用不存在
	ErrUnknownApp = errors.New("未知的应用")
	// ErrUnknownTask 任务不存在
	ErrUnknownTask = errors.New("未知的任务")
	// ErrMissingArgument 缺少任务参数
	ErrMissingArgument = errors.New("缺少任务参数")
	// ErrNotStructured 应用不返回结构化指令
	ErrNotStructured = errors.New("应用不支持结构化指令")
	// ErrInvalidLimit 覆盖的安全范围无效
	ErrInvalidLimit = errors.New("安全范围无效")
)

// Settings 领域配置（区域、传感器类型等），用于渲染系统提示词和格式化上下文
type Settings map[string]any

// Clone 返回浅拷贝
func (s Settings) Clone() Settings {
	out := make(Settings, len(s))
	for key, value := range s {
		out[key] = value
	}
	return out
}

// Bool 读取布尔配置
func (s Settings) Bool(key string) bool {
	b, _ := s[key].(bool)
	return b
}

// String 读取字符串配置
func (s Settings) String(key string) string {
	str, _ := s[key].(string)
	return str
}

// ContextFormatter 把调用方提供的上下文数据格式化为发送给模型的文本
type ContextFormatter func(settings Settings, data any) string

// TaskBuilder 根据参数构造任务的查询和上下文
type TaskBuilder func(settings Settings, args Args) (query string, contextText string, err error)

// Task 预定义的分析任务
type Task struct {
	Description string
	Build       TaskBuilder
}

// Definition 描述一个领域应用：提示词模板、温度、领域配置、校验规则和任务
type Definition struct {
	Name          string
	Description   string
	SystemPrompt  string // text/template 模板，数据为 .Settings 和 .Limits
	Temperature   *float64
	Settings      Settings
	Limits        command.Limits
	Schema        *command.Schema // 为空表示应用只返回文本
	FormatContext ContextFormatter
	// Checks 依赖领域配置的后处理，追加在 Schema 的后处理之后
	Checks        func(settings Settings) []command.PostProcessor
	Tasks         map[string]Task
}

// Structured 应用是否返回结构化指令
func (d Definition) Structured() bool {
	return d.Schema != nil
}

// promptData 渲染系统提示词使用的数据
type promptData struct {
	Settings Settings
	Limits   command.Limits
}

var promptFuncs = template.FuncMap{
	"join": joinList,
	"json": jsonText,
	"num":  command.FormatNumber,
}

// RenderSystemPrompt 渲染系统提示词模板，引用不存在的配置项会返回错误
func (d Definition) RenderSystemPrompt() (string, error) {
	tmpl, err := template.New(d.Name).Funcs(promptFuncs).Option("missingkey=error").Parse(d.SystemPrompt)
	if err != nil {
		return "", fmt.Errorf("解析 %s 系统提示词失败: %w", d.Name, err)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, promptData{Settings: d.Settings, Limits: d.Limits}); err != nil {
		return "", fmt.Errorf("渲染 %s 系统提示词失败: %w", d.Name, err)
	}
	return strings.TrimSpace(sb.String()), nil
}

// Bound 覆盖项中的安全范围，未给出的一端沿用内置值
type Bound struct {
	Min *float64 `yaml:"min"`
	Max *float64 `yaml:"max"`
}

// merge 把给出的边界合并到 base 上
func (b Bound) merge(base command.Range) command.Range {
	if b.Min != nil {
		base.Min = *b.Min
	}
	if b.Max != nil {
		base.Max = *b.Max
	}
	return base
}

// Override 配置文件中对单个应用的覆盖项
type Override struct {
	SystemPrompt   string           `yaml:"system_prompt"`
	Temperature    *float64         `yaml:"temperature"`
	WindowMessages int              `yaml:"window_messages"`
	Limits         map[string]Bound `yaml:"limits"`
	Settings       Settings         `yaml:"settings"`
}

// Apply 返回应用了覆盖项的定义副本。
// 新增字段的范围必须同时给出 min 和 max，合并后 min 不能大于 max。
func (o Override) Apply(def Definition) (Definition, error) {
	def.Settings = def.Settings.Clone()
	def.Limits = def.Limits.Clone()

	if o.SystemPrompt != "" {
		def.SystemPrompt = o.SystemPrompt
	}
	if o.Temperature != nil {
		t := *o.Temperature
		def.Temperature = &t
	}
	for field, bound := range o.Limits {
		base, ok := def.Limits[field]
		if !ok && (bound.Min == nil || bound.Max == nil) {
			return def, fmt.Errorf("%w: %s.%s 需要同时给出 min 和 max", ErrInvalidLimit, def.Name, field)
		}
		r := bound.merge(base)
		if r.Min > r.Max {
			return def, fmt.Errorf("%w: %s.%s 下限 %s 大于上限 %s", ErrInvalidLimit, def.Name, field,
				command.FormatNumber(r.Min), command.FormatNumber(r.Max))
		}
		def.Limits[field] = r
	}
	for key, value := range o.Settings {
		def.Settings[key] = value
	}
	return def, nil
}

// Args 任务参数
type Args map[string]any

// Value 读取参数，nil 和空字符串视为不存在
func (a Args) Value(key string) (any, bool) {
	value, ok := a[key]
	if !ok || value == nil {
		return nil, false
	}
	if s, isString := value.(string); isString && s == "" {
		return nil, false
	}
	return value, true
}

// Require 读取必填参数
func (a Args) Require(key string) (any, error) {
	value, ok := a.Value(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingArgument, key)
	}
	return value, nil
}

// Text 读取参数并转为文本，不存在时返回默认值
func (a Args) Text(key, fallback string) string {
	value, ok := a.Value(key)
	if !ok {
		return fallback
	}
	return plainText(value)
}

func temperature(t float64) *float64 {
	return &t
}

// plainText 字符串原样返回，其他值按 %v 输出
func plainText(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

// jsonText 把值编码为JSON文本，失败时退回 %v
func jsonText(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(data)
}

// joinList 用逗号连接列表
func joinList(value any) string {
	switch v := value.(type) {
	case []string:
		return strings.Join(v, ", ")
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, plainText(item))
		}
		return strings.Join(parts, ", ")
	case nil:
		return ""
	}
	return plainText(value)
}
