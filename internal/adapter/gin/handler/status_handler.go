package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"usuarios-api/pkg/logger"
)

const (
	statusConnected = "connected"
	statusError     = "error"

	msgDatabaseUnreachable = "Não foi possível conectar ao banco de dados"
)

// Clock reads the current time from the database server.
type Clock interface {
	Now(ctx context.Context) (time.Time, error)
}

// StatusHandler reports database connectivity and the API index.
type StatusHandler struct {
	db       Clock
	database string
	host     string
	log      *zap.Logger
}

// NewStatusHandler creates a StatusHandler. database and host are echoed in
// the status body as configured.
func NewStatusHandler(db Clock, database, host string, log *zap.Logger) *StatusHandler {
	return &StatusHandler{
		db:       db,
		database: database,
		host:     host,
		log:      log,
	}
}

// StatusResponse is the body of a successful status check
type StatusResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database"`
	Host      string    `json:"host"`
}

// StatusErrorResponse is the body of a failed status check
type StatusErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// IndexResponse lists the resource endpoints
type IndexResponse struct {
	Message   string            `json:"message"`
	Endpoints map[string]string `json:"endpoints"`
}

var endpoints = map[string]string{
	"GET /api/usuarios":        "Lista todos os usuários",
	"POST /api/usuarios":       "Cria um novo usuário",
	"GET /api/usuarios/:id":    "Busca usuário por ID",
	"DELETE /api/usuarios/:id": "Remove usuário",
	"GET /api/status":          "Status da conexão com o banco",
}

// Index handles GET /
func (h *StatusHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, IndexResponse{
		Message:   "API funcionando!",
		Endpoints: endpoints,
	})
}

// Status handles GET /api/status. It answers 200 only when the database
// returns its current time.
func (h *StatusHandler) Status(c *gin.Context) {
	now, err := h.db.Now(c.Request.Context())
	if err != nil {
		logger.WithContext(c.Request.Context(), h.log).Error("database status check failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, StatusErrorResponse{
			Status:  statusError,
			Message: msgDatabaseUnreachable,
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, StatusResponse{
		Status:    statusConnected,
		Timestamp: now,
		Database:  h.database,
		Host:      h.host,
	})
}

// Health handles GET /health. It reports process liveness only.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
