package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/eightd/internal/apperr"
	"github.com/lalith-99/eightd/internal/auth"
	"github.com/lalith-99/eightd/internal/observ"
	"go.uber.org/zap"
)

// AuthHandler handles POST /api/login/. A successful login returns the user
// and nothing else: no token, cookie or session is issued.
type AuthHandler struct {
	svc     *auth.Service
	metrics *observ.Metrics
	logger  *zap.Logger
}

func NewAuthHandler(svc *auth.Service, metrics *observ.Metrics, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, metrics: metrics, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(c, h.logger, apperr.Validationf("Must include email and password"))
		return
	}

	user, outcome, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if outcome != "" {
		h.metrics.LoginAttempt(outcome)
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    user,
		"message": "Login successful",
	})
}
