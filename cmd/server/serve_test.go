package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connect3/backend/internal/config"
	"connect3/backend/internal/handler"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func memoryConfig() *config.Config {
	return &config.Config{
		GraphBackend:      config.BackendMemory,
		Port:              "0",
		RequestTimeout:    time.Second,
		RateLimitRPS:      100,
		RateLimitBurst:    100,
		CORSAllowedOrigin: "*",
	}
}

func TestOpenStore(t *testing.T) {
	s, err := openStore(context.Background(), memoryConfig(), zap.NewNop())
	require.NoError(t, err)
	defer s.Close(context.Background())
	assert.NoError(t, s.Ping(context.Background()))

	cfg := memoryConfig()
	cfg.GraphBackend = "cassandra"
	_, err = openStore(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestNewRouter(t *testing.T) {
	cfg := memoryConfig()
	s, err := openStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	router := newRouter(cfg, handler.New(handler.Deps{Store: s}))

	for _, path := range []string{"/health", "/metrics", "/swagger/doc.json"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/users", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
