package response

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrompt(t *testing.T) {
	tests := []struct {
		name     string
		template string
		vars     map[string]any
		want     string
	}{
		{
			name:     "替换变量",
			template: "Turn {motor} to {angle} degrees",
			vars:     map[string]any{"motor": "servo1", "angle": 90},
			want:     "Turn servo1 to 90 degrees",
		},
		{
			name:     "转义括号",
			template: "{{\"speed\": {speed}}}",
			vars:     map[string]any{"speed": 40},
			want:     "{\"speed\": 40}",
		},
		{
			name:     "缺少变量返回原模板",
			template: "Hello {name}, you are {age}",
			vars:     map[string]any{"name": "bot"},
			want:     "Hello {name}, you are {age}",
		},
		{
			name:     "没有占位符",
			template: "plain",
			vars:     nil,
			want:     "plain",
		},
		{
			name:     "未闭合括号",
			template: "open {brace",
			vars:     nil,
			want:     "open {brace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrompt(tt.template, tt.vars))
		})
	}
}

func TestChunkText(t *testing.T) {
	t.Run("短文本不切分", func(t *testing.T) {
		assert.Equal(t, []string{"short text"}, ChunkText("short text", 100))
	})

	t.Run("按单词切分", func(t *testing.T) {
		chunks := ChunkText("one two three four five six", 10)
		assert.Equal(t, []string{"one two", "three four", "five six"}, chunks)
		for _, chunk := range chunks {
			assert.LessOrEqual(t, len(chunk), 10)
		}
	})

	t.Run("超长单词单独成块", func(t *testing.T) {
		long := strings.Repeat("x", 15)
		chunks := ChunkText("a "+long+" b", 10)
		assert.Equal(t, []string{"a", long, "b"}, chunks)
	})

	t.Run("保留全部单词", func(t *testing.T) {
		text := strings.Repeat("word ", 200)
		chunks := ChunkText(text, 50)
		assert.Equal(t, strings.Fields(text), strings.Fields(strings.Join(chunks, " ")))
	})
}
