package handlers

import (
	"fmt"
	"log"
	"net/http"

	"ai_llm_mini/internal/apps"
	"ai_llm_mini/internal/models"
	"ai_llm_mini/internal/services/command"
	"ai_llm_mini/internal/services/response"
	"ai_llm_mini/internal/services/session"

	"github.com/gin-gonic/gin"
)

// AppHandler 应用会话的REST处理器
type AppHandler struct {
	registry *apps.Registry
	sessions *session.Manager[*apps.Application]
}

// NewAppHandler 创建应用处理器
func NewAppHandler(registry *apps.Registry, sessions *session.Manager[*apps.Application]) *AppHandler {
	return &AppHandler{
		registry: registry,
		sessions: sessions,
	}
}

// ListApps 列出所有应用
func (h *AppHandler) ListApps(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"apps": h.registry.List()})
}

// CreateSession 为应用创建新会话
func (h *AppHandler) CreateSession(c *gin.Context) {
	name := c.Param("app")
	app, err := h.registry.New(name)
	if err != nil {
		abortWithError(c, err)
		return
	}

	id := h.sessions.Create(app)
	log.Printf("创建会话: app=%s, session=%s", name, id)
	c.JSON(http.StatusCreated, models.SessionResponse{SessionID: id, App: name})
}

// Query 通用问答
func (h *AppHandler) Query(c *gin.Context) {
	var req models.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	var reply string
	err := h.withApp(c, func(app *apps.Application) error {
		var err error
		reply, err = app.Ask(c.Request.Context(), req.Input, req.Context)
		return err
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := models.QueryResponse{Response: reply}
	if req.MaxLength > 0 {
		resp.Chunks = response.ChunkText(reply, req.MaxLength)
	}
	c.JSON(http.StatusOK, resp)
}

// Command 结构化指令
func (h *AppHandler) Command(c *gin.Context) {
	var req models.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	var cmd *command.ValidatedCommand
	err := h.withApp(c, func(app *apps.Application) error {
		var err error
		cmd, err = app.Command(c.Request.Context(), req.Input, req.Context)
		return err
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cmd)
}

// RunTask 执行预定义任务
func (h *AppHandler) RunTask(c *gin.Context) {
	var req models.TaskRequest
	// 任务参数可以为空
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
			return
		}
	}

	var reply string
	err := h.withApp(c, func(app *apps.Application) error {
		var err error
		reply, err = app.RunTask(c.Request.Context(), c.Param("task"), apps.Args(req.Args))
		return err
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.QueryResponse{Response: reply})
}

// GetHistory 返回会话历史
func (h *AppHandler) GetHistory(c *gin.Context) {
	var history []models.Message
	err := h.withApp(c, func(app *apps.Application) error {
		history = app.History()
		return nil
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.HistoryResponse{SessionID: c.Param("id"), History: history})
}

// ClearHistory 清除会话历史
func (h *AppHandler) ClearHistory(c *gin.Context) {
	err := h.withApp(c, func(app *apps.Application) error {
		app.Clear()
		return nil
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteSession 删除会话
func (h *AppHandler) DeleteSession(c *gin.Context) {
	id := c.Param("id")
	err := h.withApp(c, func(*apps.Application) error { return nil })
	if err != nil {
		abortWithError(c, err)
		return
	}
	h.sessions.Remove(id)
	log.Printf("删除会话: session=%s", id)
	c.Status(http.StatusNoContent)
}

// withApp 串行地在会话对应的应用上执行fn，会话不属于路径中的应用时视为不存在
func (h *AppHandler) withApp(c *gin.Context, fn func(*apps.Application) error) error {
	name, id := c.Param("app"), c.Param("id")
	return h.sessions.Do(id, func(app *apps.Application) error {
		if app.Name() != name {
			return fmt.Errorf("%w: %s", session.ErrSessionNotFound, id)
		}
		return fn(app)
	})
}
