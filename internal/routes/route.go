// Package routes 注册HTTP路由
package routes

import (
	"ai_llm_mini/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, appHandler *handlers.AppHandler, chatHandler *handlers.ChatHandler) {
	r.GET("/", handlers.Root)
	r.GET("/health", handlers.Health)

	// 注册应用路由
	RegisterAppRoutes(r, appHandler)

	// 注册对话路由
	RegisterChatRoutes(r, chatHandler)
}

// RegisterAppRoutes 注册应用会话相关路由
func RegisterAppRoutes(r *gin.Engine, h *handlers.AppHandler) {
	api := r.Group("/api/apps")
	api.GET("", h.ListApps)
	api.POST("/:app/sessions", h.CreateSession)

	s := api.Group("/:app/sessions/:id")
	s.POST("/query", h.Query)
	s.POST("/command", h.Command)
	s.POST("/tasks/:task", h.RunTask)
	s.GET("/history", h.GetHistory)
	s.DELETE("/history", h.ClearHistory)
	s.DELETE("", h.DeleteSession)
}

// RegisterChatRoutes 注册WebSocket对话路由
func RegisterChatRoutes(r *gin.Engine, h *handlers.ChatHandler) {
	r.GET("/ws/apps/:app", h.HandleWebSocket)
}
