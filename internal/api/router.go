package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/eightd/internal/auth"
	"github.com/lalith-99/eightd/internal/middleware"
	"github.com/lalith-99/eightd/internal/observ"
	"github.com/lalith-99/eightd/internal/repository"
	"go.uber.org/zap"
)

// Deps is everything the router needs. Auth, Metrics and RateLimiter may be
// nil; NewRouter fills in working defaults.
type Deps struct {
	Store              *repository.Store
	Auth               *auth.Service
	Metrics            *observ.Metrics
	RateLimiter        *middleware.RateLimiter
	Logger             *zap.Logger
	DefaultPerformerID int64

	// Checks run by /readyz in addition to the store ping, keyed by name.
	ReadyChecks map[string]func(context.Context) error
}

// NewRouter builds the gin engine with every route under /api/. Paths end
// with a slash; gin redirects the slash-less form.
func NewRouter(d Deps) *gin.Engine {
	useJSONFieldNames()

	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Metrics == nil {
		d.Metrics = observ.NewMetrics()
	}
	if d.Auth == nil {
		d.Auth = auth.NewService(d.Store.Users, nil, d.Logger)
	}
	if d.DefaultPerformerID <= 0 {
		d.DefaultPerformerID = 1
	}

	r := gin.New()
	r.RedirectTrailingSlash = true
	r.Use(
		middleware.RequestID(),
		gin.Recovery(),
		middleware.Logger(d.Logger),
		d.Metrics.Middleware(),
	)
	if d.RateLimiter != nil {
		r.Use(d.RateLimiter.Middleware())
	}

	r.GET("/", root)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readyz", readyz(d))
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	s := d.Store
	users := NewUserHandler(s.Users, d.Logger)
	login := NewAuthHandler(d.Auth, d.Metrics, d.Logger)
	teams := NewTeamHandler(s.Teams, d.Logger)
	problems := NewProblemHandler(s.Problems, s.Steps, d.DefaultPerformerID, d.Metrics, d.Logger)
	steps := NewStepHandler(s.Steps, s.Actions, d.DefaultPerformerID, d.Metrics, d.Logger)
	actions := NewActionHandler(s.Actions, d.DefaultPerformerID, d.Metrics, d.Logger)
	notifications := NewNotificationHandler(s.Notifications, d.Logger)
	history := NewHistoryHandler(s.History, d.Logger)

	api := r.Group("/api")
	api.Use(middleware.Actor())
	api.GET("/", root)

	api.POST("/login/", login.Login)

	api.GET("/users/", users.List)
	api.POST("/users/", users.Create)
	api.GET("/users/:id/", users.Get)
	api.PUT("/users/:id/", users.Update)
	api.PATCH("/users/:id/", users.Update)
	api.DELETE("/users/:id/", users.Delete)

	api.GET("/teams/", teams.List)
	api.POST("/teams/", teams.Create)
	api.GET("/teams/:id/", teams.Get)
	api.PUT("/teams/:id/", teams.Update)
	api.PATCH("/teams/:id/", teams.Update)
	api.DELETE("/teams/:id/", teams.Delete)
	api.POST("/teams/:id/add_member/", teams.AddMember)
	api.DELETE("/teams/:id/remove_member/", teams.RemoveMember)

	api.GET("/problems/", problems.List)
	api.POST("/problems/", problems.Create)
	api.GET("/problems/:id/", problems.Get)
	api.PUT("/problems/:id/", problems.Update)
	api.PATCH("/problems/:id/", problems.Update)
	api.DELETE("/problems/:id/", problems.Delete)
	api.GET("/problems/:id/steps/", problems.Steps)
	api.PATCH("/problems/:id/update_status/", problems.UpdateStatus)

	api.GET("/steps/", steps.List)
	api.POST("/steps/", steps.Create)
	api.POST("/steps/initialize_steps/", steps.InitializeSteps)
	api.GET("/steps/:id/", steps.Get)
	api.PUT("/steps/:id/", steps.Update)
	api.PATCH("/steps/:id/", steps.Update)
	api.DELETE("/steps/:id/", steps.Delete)
	api.GET("/steps/:id/actions/", steps.Actions)
	api.PATCH("/steps/:id/update_status/", steps.UpdateStatus)

	api.GET("/actions/", actions.List)
	api.POST("/actions/", actions.Create)
	api.GET("/actions/:id/", actions.Get)
	api.PUT("/actions/:id/", actions.Update)
	api.PATCH("/actions/:id/", actions.Update)
	api.DELETE("/actions/:id/", actions.Delete)
	api.PATCH("/actions/:id/update_status/", actions.UpdateStatus)

	api.GET("/notifications/", notifications.List)
	api.POST("/notifications/", notifications.Create)
	api.GET("/notifications/by_user/", notifications.ByUser)
	api.PATCH("/notifications/mark_all_read/", notifications.MarkAllRead)
	api.GET("/notifications/:id/", notifications.Get)
	api.PUT("/notifications/:id/", notifications.Update)
	api.PATCH("/notifications/:id/", notifications.Update)
	api.DELETE("/notifications/:id/", notifications.Delete)
	api.PATCH("/notifications/:id/mark_read/", notifications.MarkRead)

	api.GET("/history/", history.List)
	api.GET("/history/by_problem/", history.ByProblem)
	api.GET("/history/:id/", history.Get)

	return r
}

func root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Problem Resolution API (8D)",
		"version": "1.0",
		"endpoints": gin.H{
			"api":           "/api/",
			"login":         "/api/login/",
			"users":         "/api/users/",
			"teams":         "/api/teams/",
			"problems":      "/api/problems/",
			"steps":         "/api/steps/",
			"actions":       "/api/actions/",
			"notifications": "/api/notifications/",
			"history":       "/api/history/",
		},
	})
}

func readyz(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		checks := gin.H{}
		ready := true
		run := func(name string, check func(context.Context) error) {
			if err := check(ctx); err != nil {
				d.Logger.Warn("readiness check failed", zap.String("check", name), zap.Error(err))
				checks[name] = err.Error()
				ready = false
				return
			}
			checks[name] = "ok"
		}

		if d.Store.Ping != nil {
			run("store", d.Store.Ping)
		}
		for name, check := range d.ReadyChecks {
			run(name, check)
		}

		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"ready": ready, "checks": checks})
	}
}
