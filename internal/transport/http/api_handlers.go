package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/chatline/chatline-server/internal/auth"
)

// APIHandlers provides HTTP handlers for the REST API endpoints.
type APIHandlers struct {
	authService *auth.Service
	log         *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(authService *auth.Service, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{
		authService: authService,
		log:         logger,
	}
}

// CredentialsRequest represents the login/register request body.
type CredentialsRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// TokenResponse represents a successful login response body.
type TokenResponse struct {
	Token string `json:"token"`
}

// StatusResponse represents a successful register response body.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Register handles user registration.
// POST /api/register
func (h *APIHandlers) Register(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error().Err(err).Msg("unreadable register request")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	err := h.authService.Register(c.Request.Context(), req.Login, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrEmptyCredentials):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Empty username or password"})
		return
	case errors.Is(err, auth.ErrUserExists):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Username already exists"})
		return
	default:
		h.log.Error().Err(err).Str("login", req.Login).Msg("failed to register user")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	h.log.Info().Str("login", req.Login).Msg("user registered")
	c.JSON(http.StatusCreated, StatusResponse{Status: "Ok"})
}

// Login handles user login and mints a session credential.
// POST /api/login
func (h *APIHandlers) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("unreadable login request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid login or password"})
			return
		}
		h.log.Error().Err(err).Str("login", req.Login).Msg("failed to login user")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	h.log.Info().Str("login", req.Login).Msg("user logged in")
	c.JSON(http.StatusOK, TokenResponse{Token: token})
}
