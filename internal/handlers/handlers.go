// Package handlers 提供HTTP和WebSocket处理器
package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"ai_llm_mini/internal/apps"
	"ai_llm_mini/internal/clients"
	"ai_llm_mini/internal/models"
	"ai_llm_mini/internal/services/session"

	"github.com/gin-gonic/gin"
)

// Health 健康检查
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// Root 根路由
func Root(c *gin.Context) {
	c.String(http.StatusOK, "AI LLM Mini Server Running")
}

// errorStatus 把业务错误映射为HTTP状态码
func errorStatus(err error) int {
	switch {
	case errors.Is(err, session.ErrNoResponse):
		return http.StatusBadGateway
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, apps.ErrUnknownApp),
		errors.Is(err, apps.ErrUnknownTask):
		return http.StatusNotFound
	case errors.Is(err, apps.ErrMissingArgument),
		errors.Is(err, apps.ErrNotStructured):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// errorMessage 模型无回复时统一返回 "no response"
func errorMessage(err error) string {
	if errors.Is(err, session.ErrNoResponse) {
		return session.ErrNoResponse.Error()
	}
	return err.Error()
}

// 模型服务错误分类
const (
	reasonRateLimited = "rate_limited"
	reasonUpstream    = "upstream_error"
)

// errorReason 返回模型服务错误的分类，其他错误返回空字符串
func errorReason(err error) string {
	var providerErr *clients.ProviderError
	if !errors.As(err, &providerErr) {
		return ""
	}
	switch {
	case providerErr.IsRateLimited():
		return reasonRateLimited
	case providerErr.IsServerError():
		return reasonUpstream
	}
	return ""
}

// abortWithError 写入错误响应
func abortWithError(c *gin.Context, err error) {
	reason := errorReason(err)
	if reason != "" {
		log.Printf("模型服务错误(%s): %v", reason, err)
	}
	c.AbortWithStatusJSON(errorStatus(err), models.ErrorResponse{Error: errorMessage(err), Reason: reason})
}
