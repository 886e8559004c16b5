package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/eightd/internal/apperr"
	"github.com/lalith-99/eightd/internal/models"
	"github.com/lalith-99/eightd/internal/repository"
	"go.uber.org/zap"
)

// DefaultRoleInTeam is given to members added without a role.
const DefaultRoleInTeam = "Membre"

// TeamHandler handles /api/teams/ and team membership.
type TeamHandler struct {
	repo   repository.TeamRepository
	logger *zap.Logger
}

func NewTeamHandler(repo repository.TeamRepository, logger *zap.Logger) *TeamHandler {
	return &TeamHandler{repo: repo, logger: logger}
}

// Create handles POST /api/teams/. created_on defaults to today and the
// creator is optional.
func (h *TeamHandler) Create(c *gin.Context) {
	var patch models.TeamPatch
	if err := bindJSON(c, &patch); err != nil {
		respondError(c, h.logger, err)
		return
	}

	t := models.Team{CreatedOn: models.Today()}
	patch.Apply(&t)
	if err := t.Validate(); err != nil {
		respondError(c, h.logger, err)
		return
	}
	created, err := h.repo.Create(c.Request.Context(), &t)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *TeamHandler) List(c *gin.Context) {
	teams, err := h.repo.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, teams)
}

// Get returns the team with its members.
func (h *TeamHandler) Get(c *gin.Context) {
	id, err := pathID(c, "team")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	t, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TeamHandler) Update(c *gin.Context) {
	id, err := pathID(c, "team")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var patch models.TeamPatch
	if err := bindJSON(c, &patch); err != nil {
		respondError(c, h.logger, err)
		return
	}

	ctx := c.Request.Context()
	t, err := h.repo.GetByID(ctx, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	patch.Apply(t)
	if err := t.Validate(); err != nil {
		respondError(c, h.logger, err)
		return
	}
	updated, err := h.repo.Update(ctx, t)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *TeamHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "team")
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

type memberRequest struct {
	UserID     int64  `json:"user_id" binding:"required"`
	RoleInTeam string `json:"role_in_team"`
}

// memberResponse adds already_member to the membership for repeat adds.
type memberResponse struct {
	*models.TeamMember
	AlreadyMember bool `json:"already_member,omitempty"`
}

// AddMember handles POST /api/teams/:id/add_member/. Adding an existing
// member is not an error: the stored membership comes back with 200.
func (h *TeamHandler) AddMember(c *gin.Context) {
	teamID, err := pathID(c, "team")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var req memberRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	role := strings.TrimSpace(req.RoleInTeam)
	if role == "" {
		role = DefaultRoleInTeam
	}

	m, created, err := h.repo.AddMember(c.Request.Context(), teamID, req.UserID, role)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if created {
		h.logger.Info("member added",
			zap.Int64("team_id", teamID),
			zap.Int64("user_id", req.UserID),
			zap.String("role_in_team", role),
		)
		c.JSON(http.StatusCreated, memberResponse{TeamMember: m})
		return
	}
	c.JSON(http.StatusOK, memberResponse{TeamMember: m, AlreadyMember: true})
}

// RemoveMember handles DELETE /api/teams/:id/remove_member/. user_id is read
// from the body, or from the query string when the client cannot send a
// DELETE body.
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	teamID, err := pathID(c, "team")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req memberRequest
	if raw := c.Query("user_id"); raw != "" {
		req.UserID, _ = strconv.ParseInt(raw, 10, 64)
		if req.UserID <= 0 {
			respondError(c, h.logger, apperr.Validation("user_id", "must be a positive integer"))
			return
		}
	} else if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	if _, err := h.repo.GetByID(c.Request.Context(), teamID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.repo.RemoveMember(c.Request.Context(), teamID, req.UserID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, message("Member removed"))
}
