package ollama_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai_llm_mini/internal/clients"
	"ai_llm_mini/internal/clients/ollama"
	"ai_llm_mini/internal/models"
)

func TestClient_Chat(t *testing.T) {
	// 创建测试服务器
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("期望POST请求，实际收到%s", r.Method)
		}
		if r.URL.Path != "/api/chat" {
			t.Errorf("期望路径/api/chat，实际收到%s", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("期望Content-Type为application/json，实际收到%s", r.Header.Get("Content-Type"))
		}

		var req ollama.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("解析请求体失败: %v", err)
		}
		if req.Model != "llama3" {
			t.Errorf("期望模型llama3，实际收到%s", req.Model)
		}
		if req.Stream {
			t.Error("不应请求流式输出")
		}
		if req.Options.NumPredict != 150 {
			t.Errorf("期望num_predict为150，实际收到%d", req.Options.NumPredict)
		}
		if len(req.Messages) != 2 {
			t.Errorf("期望2条消息，实际收到%d条", len(req.Messages))
		}

		resp := ollama.ChatResponse{
			Model:     "llama3",
			CreatedAt: time.Now().Format(time.RFC3339),
			Message:   models.AssistantMessage("这是一个测试响应"),
			Done:      true,
			EvalCount: 20,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := ollama.NewClient(ollama.Config{Host: server.URL, Model: "llama3"})

	tests := []struct {
		name        string
		messages    []models.Message
		wantErr     bool
		wantContain string
	}{
		{
			name: "基本对话测试",
			messages: []models.Message{
				models.SystemMessage("You are a test bot."),
				models.UserMessage("你好"),
			},
			wantContain: "这是一个测试响应",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := client.Send(context.Background(), tt.messages, models.DefaultModelConfig(), false)
			if (err != nil) != tt.wantErr {
				t.Errorf("Send() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if text != tt.wantContain {
				t.Errorf("Send() = %v, want %v", text, tt.wantContain)
			}
		})
	}
}

func TestClient_ModelFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollama.ChatRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(ollama.ChatResponse{
			Model:   req.Model,
			Message: models.AssistantMessage(req.Model),
			Done:    true,
		})
	}))
	defer server.Close()

	client := ollama.NewClient(ollama.Config{Host: server.URL})
	cfg := models.DefaultModelConfig()
	cfg.ModelName = "qwen2"

	text, err := client.Send(context.Background(), []models.Message{models.UserMessage("hi")}, cfg, false)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if text != "qwen2" {
		t.Errorf("期望使用ModelConfig中的模型qwen2，实际为%s", text)
	}
}

func TestClient_ChatErrors(t *testing.T) {
	// 创建测试服务器处理错误情况
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("服务器内部错误"))
	}))
	defer server.Close()

	client := ollama.NewClient(ollama.Config{Host: server.URL, Model: "llama3"})

	_, err := client.Send(context.Background(), []models.Message{models.UserMessage("测试错误处理")}, models.DefaultModelConfig(), false)
	var providerErr *clients.ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("期望ProviderError，实际收到%v", err)
	}
	if providerErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("期望状态码500，实际为%d", providerErr.StatusCode)
	}
	if providerErr.Body != "服务器内部错误" {
		t.Errorf("期望保留响应体，实际为%q", providerErr.Body)
	}

	// 测试无效的服务器地址
	invalidClient := ollama.NewClient(ollama.Config{Host: "http://127.0.0.1:1", Model: "llama3"})
	if _, err := invalidClient.Send(context.Background(), []models.Message{models.UserMessage("测试无效服务器")}, models.DefaultModelConfig(), false); err == nil {
		t.Error("期望收到错误，但没有收到")
	}

	// 流式输出不受支持
	if _, err := client.Send(context.Background(), nil, models.DefaultModelConfig(), true); !errors.Is(err, clients.ErrStreamingUnsupported) {
		t.Errorf("期望ErrStreamingUnsupported，实际收到%v", err)
	}
}

func TestClient_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"llama3","message":{"role":"assistant","content":""},"done":true}`))
	}))
	defer server.Close()

	client := ollama.NewClient(ollama.Config{Host: server.URL, Model: "llama3"})
	_, err := client.Send(context.Background(), []models.Message{models.UserMessage("你好")}, models.DefaultModelConfig(), false)
	if !errors.Is(err, clients.ErrEmptyResponse) {
		t.Fatalf("期望ErrEmptyResponse，实际收到%v", err)
	}
}
