package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/eightd/internal/apperr"
	"github.com/lalith-99/eightd/internal/auth"
	"github.com/lalith-99/eightd/internal/models"
	"github.com/lalith-99/eightd/internal/repository"
	"go.uber.org/zap"
)

// UserHandler handles /api/users/.
type UserHandler struct {
	repo   repository.UserRepository
	logger *zap.Logger
}

func NewUserHandler(repo repository.UserRepository, logger *zap.Logger) *UserHandler {
	return &UserHandler{repo: repo, logger: logger}
}

type createUserRequest struct {
	models.UserPatch
	Password *string `json:"password"`
}

// Create handles POST /api/users/. The password is hashed here and never
// stored or echoed in clear.
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	var u models.User
	req.UserPatch.Apply(&u)
	if err := u.Validate(); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if req.Password == nil {
		respondError(c, h.logger, apperr.Required("password"))
		return
	}
	if err := models.ValidatePassword(*req.Password); err != nil {
		respondError(c, h.logger, err)
		return
	}

	hash, err := auth.HashPassword(*req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	u.PasswordHash = hash

	created, err := h.repo.Create(c.Request.Context(), &u)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.repo.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, err := pathID(c, "user")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	u, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// Update handles PUT and PATCH. Only supplied fields change; the password
// is not updatable here.
func (h *UserHandler) Update(c *gin.Context) {
	id, err := pathID(c, "user")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var patch models.UserPatch
	if err := bindJSON(c, &patch); err != nil {
		respondError(c, h.logger, err)
		return
	}

	ctx := c.Request.Context()
	u, err := h.repo.GetByID(ctx, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	patch.Apply(u)
	if err := u.Validate(); err != nil {
		respondError(c, h.logger, err)
		return
	}
	updated, err := h.repo.Update(ctx, u)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "user")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
