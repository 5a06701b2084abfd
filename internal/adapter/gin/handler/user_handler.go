package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"usuarios-api/internal/usecase/user"
	pkgerrors "usuarios-api/pkg/errors"
	"usuarios-api/pkg/logger"
)

const (
	msgUserCreated = "Usuário criado com sucesso"
	msgUserDeleted = "Usuário removido com sucesso"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// CreateUserRequest represents the HTTP request body for creating a user.
// Presence is checked by the usecase so that a missing field and a
// malformed body produce the same response.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UserMessageResponse pairs a confirmation message with the affected user
type UserMessageResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// ListUsersResponse represents the HTTP response for listing users
type ListUsersResponse struct {
	Total int            `json:"total"`
	Users []UserResponse `json:"users"`
}

// ErrorResponse is the body of 400 and 500 responses
type ErrorResponse struct {
	Error string `json:"erro"`
}

// MessageResponse is the body of 404 responses
type MessageResponse struct {
	Message string `json:"message"`
}

// CreateUser handles POST /api/usuarios
func (h *UserHandler) CreateUser(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create user request", zap.Error(err))
		h.handleError(c, pkgerrors.ErrMissingFields)
		return
	}

	resp, err := h.uc.CreateUser(c.Request.Context(), user.CreateUserRequest{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, UserMessageResponse{
		Message: msgUserCreated,
		User:    toUserResponse(resp.User),
	})
}

// GetUser handles GET /api/usuarios/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.uc.GetUser(c.Request.Context(), user.GetUserRequest{ID: id})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(resp.User))
}

// DeleteUser handles DELETE /api/usuarios/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.uc.DeleteUser(c.Request.Context(), user.DeleteUserRequest{ID: id})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, UserMessageResponse{
		Message: msgUserDeleted,
		User:    toUserResponse(resp.User),
	})
}

// ListUsers handles GET /api/usuarios
func (h *UserHandler) ListUsers(c *gin.Context) {
	resp, err := h.uc.ListUsers(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	users := make([]UserResponse, len(resp.Users))
	for i, u := range resp.Users {
		users[i] = toUserResponse(u)
	}

	c.JSON(http.StatusOK, ListUsersResponse{
		Total: resp.Total,
		Users: users,
	})
}

// parseID reads the :id path parameter. Anything that is not a positive
// base-10 integer is answered with 400 and ok is false.
func (h *UserHandler) parseID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		logger.WithContext(c.Request.Context(), h.log).Warn("Invalid user ID", zap.String("id", idStr))
		h.handleError(c, pkgerrors.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// handleError converts usecase errors to HTTP responses. The status comes
// from the error itself; domain errors carry a fixed message and everything
// else is a store failure reported verbatim.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	log := logger.WithContext(c.Request.Context(), h.log)

	status := http.StatusInternalServerError
	var statuser pkgerrors.HTTPStatuser
	if errors.As(err, &statuser) {
		status = statuser.HTTPStatus()
	}

	msg, ok := pkgerrors.PublicMessage(err)
	if !ok {
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}

	var notFound *pkgerrors.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(status, MessageResponse{Message: msg})
		return
	}

	log.Debug("client error", zap.Int("status", status), zap.String("error", msg))
	c.JSON(status, ErrorResponse{Error: msg})
}

func toUserResponse(u user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
