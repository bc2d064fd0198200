package api

import (
	"github.com/gin-gonic/gin"

	"StartupCopilot/backend/go/pkg/ratelimiter"
)

// SetupRouter wires the advisory endpoints onto a gin engine. limiter may be
// nil to disable rate limiting.
func SetupRouter(h *Handler, jwtSecret string, limiter ratelimiter.RateLimiter) *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", h.Health)

	apiV1 := r.Group("/api/v1")
	if limiter != nil {
		apiV1.Use(RateLimitMiddleware(limiter))
	}
	apiV1.Use(AuthMiddleware(jwtSecret))
	{
		projects := apiV1.Group("/projects")
		{
			projects.POST("", h.CreateProject)
			projects.GET("", h.ListProjects)
			projects.GET("/stats", h.ProjectStats)
			projects.GET("/:id", h.GetProject)
			projects.PATCH("/:id", h.UpdateProject)
			projects.DELETE("/:id", h.DeleteProject)
			projects.POST("/:id/analysis/idea", h.AnalyzeIdea)
			projects.POST("/:id/analysis/competitors", h.ResearchCompetitors)
			projects.POST("/:id/analysis/swot", h.GenerateSWOT)
			projects.POST("/:id/report", h.ExportReport)
		}

		startups := apiV1.Group("/startups")
		{
			startups.POST("", h.CreateStartup)
			startups.GET("", h.ListStartups)
			startups.GET("/:id", h.GetStartup)
			startups.PATCH("/:id", h.UpdateStartup)
			startups.DELETE("/:id", h.DeleteStartup)
			startups.GET("/:id/consultations", h.ListStartupConsultations)
		}

		consultations := apiV1.Group("/consultations")
		{
			consultations.POST("", h.ScheduleConsultation)
			consultations.GET("", h.ListConsultantSessions)
			consultations.PATCH("/:id", h.UpdateConsultation)
		}

		apiV1.GET("/profile", h.GetProfile)
		apiV1.PUT("/profile", h.UpsertProfile)
		apiV1.GET("/consultants", h.ListConsultants)
	}

	return r
}
