package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"ai_llm_mini/internal/apps"
	"ai_llm_mini/internal/config"
	"ai_llm_mini/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ChatHandler WebSocket对话处理器，每个连接独占一个应用会话
type ChatHandler struct {
	registry *apps.Registry
	config   config.WebSocketConfig
	upgrader websocket.Upgrader
	sessions map[string]*ChatSession
	mu       sync.RWMutex
}

// ChatSession WebSocket对话会话
type ChatSession struct {
	ID     string
	WSConn *websocket.Conn
	App    *apps.Application
	mu     sync.Mutex
}

// NewChatHandler 创建WebSocket对话处理器
func NewChatHandler(registry *apps.Registry, wsConfig config.WebSocketConfig) *ChatHandler {
	return &ChatHandler{
		registry: registry,
		config:   wsConfig,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  wsConfig.ReadBufferSize,
			WriteBufferSize: wsConfig.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		sessions: make(map[string]*ChatSession),
	}
}

// Count 当前连接数
func (h *ChatHandler) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// HandleWebSocket 处理WebSocket连接
func (h *ChatHandler) HandleWebSocket(c *gin.Context) {
	app, err := h.registry.New(c.Param("app"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	// 升级HTTP连接为WebSocket
	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("升级WebSocket连接失败: %v", err)
		return
	}

	session := &ChatSession{
		ID:     uuid.New().String(),
		WSConn: ws,
		App:    app,
	}

	// 保存会话
	h.mu.Lock()
	h.sessions[session.ID] = session
	h.mu.Unlock()

	log.Printf("WebSocket会话建立: app=%s, session=%s", app.Name(), session.ID)
	h.handleSession(session)
}

// handleSession 处理会话消息，同一连接上的请求按顺序处理
func (h *ChatHandler) handleSession(session *ChatSession) {
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		session.WSConn.Close()
		h.mu.Lock()
		delete(h.sessions, session.ID)
		h.mu.Unlock()
		log.Printf("WebSocket会话结束: session=%s", session.ID)
	}()

	session.WSConn.SetReadDeadline(time.Now().Add(h.config.PongWait))
	session.WSConn.SetPongHandler(func(string) error {
		return session.WSConn.SetReadDeadline(time.Now().Add(h.config.PongWait))
	})
	go h.keepAlive(ctx, session)

	for {
		messageType, data, err := session.WSConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("读取WebSocket消息失败: %v", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			h.write(session, models.ChatReply{Type: models.FrameError, Error: "只支持文本帧"})
			continue
		}

		var frame models.ChatFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			h.write(session, models.ChatReply{Type: models.FrameError, Error: "消息格式错误: " + err.Error()})
			continue
		}

		if err := h.write(session, h.handleFrame(ctx, session, frame)); err != nil {
			log.Printf("发送响应失败: %v", err)
			return
		}
	}
}

// handleFrame 处理单个请求帧
func (h *ChatHandler) handleFrame(ctx context.Context, session *ChatSession, frame models.ChatFrame) models.ChatReply {
	reply := models.ChatReply{Type: frame.Type}

	var err error
	switch frame.Type {
	case models.FrameQuery:
		reply.Response, err = session.App.Ask(ctx, frame.Input, frame.Context)
	case models.FrameCommand:
		reply.Command, err = session.App.Command(ctx, frame.Input, frame.Context)
	case models.FrameTask:
		reply.Response, err = session.App.RunTask(ctx, frame.Task, apps.Args(frame.Args))
	case models.FrameClear:
		session.App.Clear()
	default:
		return models.ChatReply{Type: models.FrameError, Error: "未知的消息类型: " + frame.Type}
	}

	if err != nil {
		return models.ChatReply{Type: models.FrameError, Error: errorMessage(err)}
	}
	return reply
}

// write 发送响应，写操作需要和心跳互斥
func (h *ChatHandler) write(session *ChatSession, reply models.ChatReply) error {
	reply.SessionID = session.ID

	session.mu.Lock()
	defer session.mu.Unlock()
	return session.WSConn.WriteJSON(reply)
}

// keepAlive 定期发送Ping
func (h *ChatHandler) keepAlive(ctx context.Context, session *ChatSession) {
	ticker := time.NewTicker(h.config.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			session.mu.Lock()
			err := session.WSConn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second))
			session.mu.Unlock()
			if err != nil {
				log.Printf("发送Ping失败: %v", err)
				return
			}
		}
	}
}
