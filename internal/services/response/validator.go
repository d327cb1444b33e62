// Package response 提供模型回复的清洗与结构化解析
package response

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/jsonc"
)

// rolePrefixes 需要去除的角色前缀，按优先级排列
var rolePrefixes = []string{
	"AI: ",
	"Assistant: ",
	"Bot: ",
	"Response: ",
}

// Clean 清洗模型回复：合并连续空白、去除首尾空白，并去掉第一个匹配的角色前缀
func Clean(raw string) string {
	if raw == "" {
		return ""
	}

	cleaned := strings.Join(strings.Fields(raw), " ")

	for _, prefix := range rolePrefixes {
		if strings.HasPrefix(cleaned, prefix) {
			cleaned = cleaned[len(prefix):]
			break
		}
	}

	return cleaned
}

// ParseFailure 结构化解析失败，保留原始文本用于诊断
type ParseFailure struct {
	Raw string // 原始回复文本
	Err error  // 解码错误
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("解析结构化回复失败: %v", e.Err)
}

func (e *ParseFailure) Unwrap() error {
	return e.Err
}

// ParseStructured 将文本解码为JSON值。
// 严格解码失败后会去掉代码块标记并容忍注释和尾随逗号再试一次；
// 仍然失败时返回 *ParseFailure，不会panic。
func ParseStructured(text string) (any, error) {
	var value any
	err := json.Unmarshal([]byte(text), &value)
	if err == nil {
		return value, nil
	}

	candidate := stripCodeFence(text)
	if candidate != "" {
		var lenient any
		if json.Unmarshal(jsonc.ToJSON([]byte(candidate)), &lenient) == nil {
			return lenient, nil
		}
	}

	return nil, &ParseFailure{Raw: text, Err: err}
}

// ParseObject 解码文本并要求结果是JSON对象
func ParseObject(text string) (map[string]any, error) {
	value, err := ParseStructured(text)
	if err != nil {
		return nil, err
	}
	object, ok := value.(map[string]any)
	if !ok {
		return nil, &ParseFailure{Raw: text, Err: fmt.Errorf("期望JSON对象，实际为%T", value)}
	}
	return object, nil
}

// stripCodeFence 去掉 ```json ... ``` 形式的包裹
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if len(trimmed) >= 4 && strings.EqualFold(trimmed[:4], "json") {
		trimmed = trimmed[4:]
	}
	trimmed = strings.TrimSpace(trimmed)
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}
