package main

import (
	"coop-collections/internal/config"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsServer(t *testing.T) {
	srv := newMetricsServer(9191)
	assert.Equal(t, ":9191", srv.Addr)

	t.Run("serves health", func(t *testing.T) {
		rr := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "OK", rr.Body.String())
	})

	t.Run("serves metrics", func(t *testing.T) {
		rr := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "go_goroutines")
	})
}

func TestConnectRabbitMQ_RequiresHost(t *testing.T) {
	conn, err := connectRabbitMQ(config.RabbitMQConfig{Port: 5672}, slog.New(slog.DiscardHandler))
	require.Error(t, err)
	assert.Nil(t, conn)
	assert.Contains(t, err.Error(), "host is not configured")
}
