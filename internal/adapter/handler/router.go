package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/meetmind/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meetmind/pkg/config"
	paramMiddleware "github.com/johnquangdev/meetmind/pkg/middleware"
	"github.com/johnquangdev/meetmind/pkg/validator"
)

// ReadinessCheck reports whether a dependency is usable
type ReadinessCheck func(ctx context.Context) error

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	meetingHandler *Meeting
	summaryHandler *Summary
	auth           echo.MiddlewareFunc
	validator      *validator.CustomValidator
	metrics        http.Handler
	checks         map[string]ReadinessCheck
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	meetingHandler *Meeting,
	summaryHandler *Summary,
	auth echo.MiddlewareFunc,
	v *validator.CustomValidator,
) *Router {
	if v == nil {
		v = validator.New()
	}
	return &Router{
		cfg:            cfg,
		meetingHandler: meetingHandler,
		summaryHandler: summaryHandler,
		auth:           auth,
		validator:      v,
		checks:         make(map[string]ReadinessCheck),
	}
}

// WithMetrics exposes h on the configured metrics path
func (rt *Router) WithMetrics(h http.Handler) *Router {
	rt.metrics = h
	return rt
}

// WithReadiness adds a dependency check to /health/ready
func (rt *Router) WithReadiness(name string, check ReadinessCheck) *Router {
	if check != nil {
		rt.checks[name] = check
	}
	return rt
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.Validator = rt.validator

	e.GET("/health", rt.healthCheck)
	e.GET("/health/ready", rt.readinessCheck)

	if rt.metrics != nil && rt.cfg.Metrics.Enabled {
		e.GET(rt.cfg.Metrics.Path, echo.WrapHandler(rt.metrics))
	}

	v1 := e.Group("/v1")
	if rt.auth != nil {
		v1.Use(rt.auth)
	}
	v1.Use(paramMiddleware.RequireUser(middleware.ContextUserID))

	rt.setupMeetingRoutes(v1)
	rt.setupSummaryRoutes(v1)
}

// setupMeetingRoutes configures meeting and auto-join routes
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetingGroup := g.Group("/meetings")
	byID := paramMiddleware.UUIDParam("id", ctxMeetingID)

	meetingGroup.GET("", rt.meetingHandler.ListMeetings)
	meetingGroup.POST("", rt.meetingHandler.CreateMeeting)
	meetingGroup.GET("/bot/status", rt.meetingHandler.BotStatus)
	meetingGroup.GET("/:id", rt.meetingHandler.GetMeeting, byID)
	meetingGroup.PUT("/:id", rt.meetingHandler.UpdateMeeting, byID)
	meetingGroup.DELETE("/:id", rt.meetingHandler.DeleteMeeting, byID)
	meetingGroup.POST("/:id/auto-join", rt.meetingHandler.AutoJoin, byID)
	meetingGroup.GET("/:id/summary", rt.summaryHandler.GetMeetingSummary, byID)
}

// setupSummaryRoutes configures summary routes
func (rt *Router) setupSummaryRoutes(g *echo.Group) {
	summaryGroup := g.Group("/summaries")

	summaryGroup.GET("", rt.summaryHandler.ListSummaries)
	summaryGroup.GET("/:id", rt.summaryHandler.GetSummary, paramMiddleware.UUIDParam("id", ctxSummaryID))
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"time":        time.Now().Format(time.RFC3339),
		"environment": rt.cfg.Server.Environment,
	})
}

// readinessCheck runs every dependency check and reports 503 if any fails
func (rt *Router) readinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(rt.checks))
	for name, check := range rt.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	return c.JSON(status, map[string]interface{}{
		"ready":  status == http.StatusOK,
		"checks": results,
	})
}
