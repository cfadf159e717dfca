package middleware_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/KurirHub/courier_management_app/internal/middleware"
	"github.com/KurirHub/courier_management_app/internal/utils"
)

func TestPosthogMiddleware_PassThroughWhenNotConfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)

	client := utils.InitializePosthogClient("", slog.Default())
	require.False(t, client.IsInitialized())

	r := gin.New()
	r.Use(middleware.PosthogMiddleware(client))
	r.GET("/api/v1/session/today", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/session/today", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", w.Body.String())
}

func TestPosthogMiddleware_NilClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.PosthogMiddleware(nil))
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}
