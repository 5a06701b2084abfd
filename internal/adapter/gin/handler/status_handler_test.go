package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubClock struct {
	now time.Time
	err error
}

func (s stubClock) Now(context.Context) (time.Time, error) {
	return s.now, s.err
}

func setupStatus(t *testing.T, clock Clock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewStatusHandler(clock, "usuarios_db", "postgres", zaptest.NewLogger(t))

	r := gin.New()
	r.GET("/", h.Index)
	r.GET("/api/status", h.Status)
	r.GET("/health", Health)
	return r
}

func TestStatus(t *testing.T) {
	t.Run("Connected", func(t *testing.T) {
		now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
		r := setupStatus(t, stubClock{now: now})

		w := serve(r, http.MethodGet, "/api/status", nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp StatusResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "connected", resp.Status)
		assert.True(t, now.Equal(resp.Timestamp))
		assert.Equal(t, "usuarios_db", resp.Database)
		assert.Equal(t, "postgres", resp.Host)
	})

	t.Run("Database Down", func(t *testing.T) {
		r := setupStatus(t, stubClock{err: errors.New("dial tcp: connection refused")})

		w := serve(r, http.MethodGet, "/api/status", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var resp StatusErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "error", resp.Status)
		assert.Equal(t, "Não foi possível conectar ao banco de dados", resp.Message)
		assert.Equal(t, "dial tcp: connection refused", resp.Error)
	})
}

func TestIndex(t *testing.T) {
	r := setupStatus(t, stubClock{})

	w := serve(r, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp IndexResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "API funcionando!", resp.Message)
	assert.Len(t, resp.Endpoints, 5)
	assert.Contains(t, resp.Endpoints, "DELETE /api/usuarios/:id")
}

func TestHealth(t *testing.T) {
	r := setupStatus(t, stubClock{err: errors.New("down")})

	w := serve(r, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
