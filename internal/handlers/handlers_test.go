package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"ai_llm_mini/internal/apps"
	"ai_llm_mini/internal/clients"
	"ai_llm_mini/internal/services/session"

	"github.com/stretchr/testify/assert"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: %w", session.ErrNoResponse, errors.New("dial tcp: refused")), http.StatusBadGateway},
		{session.ErrSessionNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: toaster", apps.ErrUnknownApp), http.StatusNotFound},
		{fmt.Errorf("%w: motor/juggle", apps.ErrUnknownTask), http.StatusNotFound},
		{fmt.Errorf("%w: sensors", apps.ErrMissingArgument), http.StatusBadRequest},
		{apps.ErrNotStructured, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, errorStatus(tt.err), tt.err.Error())
	}
}

func TestErrorMessage(t *testing.T) {
	err := fmt.Errorf("%w: %w", session.ErrNoResponse, errors.New("status 503"))
	assert.Equal(t, "no response", errorMessage(err))
	assert.Equal(t, "boom", errorMessage(errors.New("boom")))
}

func TestErrorReason(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"限流", &clients.ProviderError{StatusCode: http.StatusTooManyRequests}, reasonRateLimited},
		{"服务端错误", &clients.ProviderError{StatusCode: http.StatusServiceUnavailable}, reasonUpstream},
		{"请求错误", &clients.ProviderError{StatusCode: http.StatusBadRequest}, ""},
		{"网络错误", errors.New("dial tcp: refused"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fmt.Errorf("%w: %w", session.ErrNoResponse, tt.err)
			assert.Equal(t, tt.want, errorReason(err))
			assert.Equal(t, http.StatusBadGateway, errorStatus(err))
		})
	}
}
