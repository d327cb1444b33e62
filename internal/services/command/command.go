// Package command 校验模型返回的结构化指令，附加安全检查结果和警告
package command

import (
	"encoding/json"
	"strconv"
	"strings"
)

// SafetyCheck 安全检查结果
type SafetyCheck string

// 安全检查结果常量，空值表示未设置
const (
	SafetyUnset   SafetyCheck = ""
	SafetyPassed  SafetyCheck = "passed"
	SafetyWarning SafetyCheck = "warning"
	SafetyFailed  SafetyCheck = "failed"
)

// 指令中由校验器维护的字段
const (
	keySafetyCheck = "safety_check"
	keyWarnings    = "warnings"
	keyParameters  = "parameters"
	keyExplanation = "explanation"
	keyRawResponse = "raw_response"
)

// ValidatedCommand 校验后的指令：模型返回的字段加上安全检查结果和警告
type ValidatedCommand struct {
	Fields      map[string]any
	SafetyCheck SafetyCheck
	Warnings    []string
}

// NewValidatedCommand 从解码后的对象创建指令。
// 对象中已有的 safety_check 和 warnings 会被提取到对应字段，
// parameters 会被复制，后续修改不影响调用方的对象。
func NewValidatedCommand(fields map[string]any) *ValidatedCommand {
	cmd := &ValidatedCommand{Fields: make(map[string]any, len(fields))}
	for key, value := range fields {
		switch key {
		case keySafetyCheck:
			if s, ok := value.(string); ok {
				cmd.SafetyCheck = SafetyCheck(s)
			}
		case keyWarnings:
			cmd.Warnings = toStrings(value)
		case keyParameters:
			if params, ok := value.(map[string]any); ok {
				copied := make(map[string]any, len(params))
				for name, v := range params {
					copied[name] = v
				}
				value = copied
			}
			cmd.Fields[key] = value
		default:
			cmd.Fields[key] = value
		}
	}
	return cmd
}

// Get 读取字段
func (c *ValidatedCommand) Get(key string) (any, bool) {
	value, ok := c.Fields[key]
	return value, ok
}

// String 读取字符串字段，不存在或类型不符时返回空字符串
func (c *ValidatedCommand) String(key string) string {
	s, _ := c.Fields[key].(string)
	return s
}

// Set 设置字段
func (c *ValidatedCommand) Set(key string, value any) {
	if c.Fields == nil {
		c.Fields = make(map[string]any)
	}
	c.Fields[key] = value
}

// Has 字段是否存在
func (c *ValidatedCommand) Has(key string) bool {
	_, ok := c.Fields[key]
	return ok
}

// Parameters 返回 parameters 子对象
func (c *ValidatedCommand) Parameters() (map[string]any, bool) {
	params, ok := c.Fields[keyParameters].(map[string]any)
	return params, ok
}

// Failed 安全检查是否失败
func (c *ValidatedCommand) Failed() bool {
	return c.SafetyCheck == SafetyFailed
}

// MarshalJSON 输出为扁平的JSON对象
func (c *ValidatedCommand) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Fields)+2)
	for key, value := range c.Fields {
		out[key] = value
	}
	if c.SafetyCheck != SafetyUnset {
		out[keySafetyCheck] = c.SafetyCheck
	}
	if len(c.Warnings) > 0 {
		out[keyWarnings] = c.Warnings
	}
	return json.Marshal(out)
}

// UnmarshalJSON 从扁平的JSON对象读取
func (c *ValidatedCommand) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*c = *NewValidatedCommand(fields)
	return nil
}

// ToNumber 把JSON数字或数字字符串（可带%后缀）转换为float64
func ToNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSuffix(strings.TrimSpace(v), "%")
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	}
	return 0, false
}

// FormatNumber 格式化数字，整数不带小数点
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// toStrings 把 []any / []string 转换为字符串切片，忽略非字符串元素
func toStrings(value any) []string {
	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v != "" {
			return []string{v}
		}
	}
	return nil
}
