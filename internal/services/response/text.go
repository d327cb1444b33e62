package response

import (
	"fmt"
	"log"
	"strings"
	"unicode/utf8"
)

// FormatPrompt 用vars替换模板中的 {name} 占位符，{{ 和 }} 表示字面量括号。
// 出现未知占位符时记录日志并原样返回模板。
func FormatPrompt(template string, vars map[string]any) string {
	var b strings.Builder
	b.Grow(len(template))

	for i := 0; i < len(template); i++ {
		ch := template[i]
		switch {
		case ch == '{' && i+1 < len(template) && template[i+1] == '{':
			b.WriteByte('{')
			i++
		case ch == '}' && i+1 < len(template) && template[i+1] == '}':
			b.WriteByte('}')
			i++
		case ch == '{':
			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				b.WriteString(template[i:])
				return b.String()
			}
			name := template[i+1 : i+1+end]
			value, ok := vars[name]
			if !ok {
				log.Printf("缺少模板变量: %s", name)
				return template
			}
			fmt.Fprint(&b, value)
			i += end + 1
		default:
			b.WriteByte(ch)
		}
	}

	return b.String()
}

// ChunkText 按单词边界把文本切分为不超过maxLength个字符的片段。
// 单个超长单词单独成为一个片段。
func ChunkText(text string, maxLength int) []string {
	if maxLength <= 0 || utf8.RuneCountInString(text) <= maxLength {
		return []string{text}
	}

	var chunks []string
	var current []string
	currentLength := 0

	for _, word := range strings.Fields(text) {
		wordLength := utf8.RuneCountInString(word)
		needed := wordLength
		if len(current) > 0 {
			needed++ // 分隔空格
		}

		if currentLength+needed <= maxLength {
			current = append(current, word)
			currentLength += needed
			continue
		}

		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = nil
			currentLength = 0
		}

		if wordLength > maxLength {
			chunks = append(chunks, word)
			continue
		}
		current = append(current, word)
		currentLength = wordLength
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}

	return chunks
}
