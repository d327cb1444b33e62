package apps

import (
	"fmt"
	"sort"
	"strings"

	"ai_llm_mini/internal/services/session"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// asMap 把上下文数据转换为 map，非 map 返回 false
func asMap(data any) (map[string]any, bool) {
	switch v := data.(type) {
	case map[string]any:
		return v, true
	case Args:
		return v, true
	case Settings:
		return v, true
	}
	return nil, false
}

// sortedKeys 按字母序返回 map 的键
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// keyValues 把 map 格式化为 "k: v, k: v"
func keyValues(m map[string]any) string {
	parts := make([]string, 0, len(m))
	for _, key := range sortedKeys(m) {
		parts = append(parts, fmt.Sprintf("%s: %s", key, plainText(m[key])))
	}
	return strings.Join(parts, ", ")
}

// statusLine 值为 map 时展开为键值对，否则直接输出
func statusLine(value any) string {
	if m, ok := asMap(value); ok {
		return keyValues(m)
	}
	return plainText(value)
}

// titleWords 把 snake_case 转换为首字母大写的单词，Caser 不能跨 goroutine 共享
func titleWords(key string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(key, "_", " "))
}

// contextLines 拼接上下文行，开头为 "Label: JSON" 形式
type contextLines []string

func (c *contextLines) add(format string, args ...any) {
	*c = append(*c, fmt.Sprintf(format, args...))
}

// addJSON 参数存在时追加 "label: JSON"
func (c *contextLines) addJSON(label string, args Args, key string) {
	if value, ok := args.Value(key); ok {
		c.add("%s: %s", label, jsonText(value))
	}
}

// addText 参数存在时追加 "label: text"
func (c *contextLines) addText(label string, args Args, key string) {
	if value, ok := args.Value(key); ok {
		c.add("%s: %s", label, plainText(value))
	}
}

func (c contextLines) String() string {
	return strings.Join(c, "\n")
}

// stringOr 没有生成任何行时按通用规则输出 data
func (c contextLines) stringOr(data any) string {
	if len(c) == 0 {
		return rawContext(data)
	}
	return c.String()
}

// rawContext 非 map 上下文按通用规则转为文本
func rawContext(data any) string {
	text, _ := session.FormatContextData(data)
	return text
}
