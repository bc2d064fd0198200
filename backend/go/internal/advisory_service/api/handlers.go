package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"StartupCopilot/backend/go/internal/advisory_service/service"
	"StartupCopilot/backend/go/internal/advisory_service/store"
	"StartupCopilot/backend/go/internal/models"
	"StartupCopilot/backend/go/pkg/logger"
)

// Store modes reported by the health endpoint.
const (
	StoreModePersistent = "persistent"
	StoreModeMemory     = "memory"
)

// Handler carries the handlers for every advisory endpoint.
type Handler struct {
	service   *service.AdvisoryService
	cm        *service.ConnectionManager
	exporter  *service.ReportExporter // nil when object storage is not configured
	storeMode string
	log       *logger.Logger
}

// NewHandler creates a Handler. exporter may be nil.
func NewHandler(s *service.AdvisoryService, cm *service.ConnectionManager, exporter *service.ReportExporter, storeMode string, log *logger.Logger) *Handler {
	if storeMode == "" {
		storeMode = StoreModePersistent
	}
	return &Handler{service: s, cm: cm, exporter: exporter, storeMode: storeMode, log: log}
}

// statusForKind maps the store error taxonomy onto HTTP status codes.
// Connectivity problems are 503 so clients know to retry.
func statusForKind(kind store.Kind) int {
	switch kind {
	case store.KindNotConfigured, store.KindUnavailable, store.KindNetwork, store.KindSessionInvalid:
		return http.StatusServiceUnavailable
	case store.KindPermissionDenied:
		return http.StatusForbidden
	case store.KindUnauthenticated:
		return http.StatusUnauthorized
	case store.KindQuotaExceeded:
		return http.StatusTooManyRequests
	case store.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	kind := store.KindOf(err)
	c.JSON(statusForKind(kind), gin.H{"error": err.Error(), "kind": string(kind)})
}

// Health reports process liveness and the current connectivity belief.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"online": h.cm.IsOnline(),
		"store":  h.storeMode,
	})
}

// --- Projects ---

// CreateProjectRequest is the JSON body for project creation.
type CreateProjectRequest struct {
	Name        string             `json:"name" binding:"required"`
	Description string             `json:"description"`
	Type        models.ProjectType `json:"type" binding:"required"`
	Tags        []string           `json:"tags"`
}

func (h *Handler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project := &models.Project{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Tags:        req.Tags,
	}
	id, err := h.service.CreateProject(c.Request.Context(), currentUID(c), project)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) ListProjects(c *gin.Context) {
	projects, err := h.service.ListProjects(c.Request.Context(), currentUID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *Handler) GetProject(c *gin.Context) {
	project, err := h.service.GetProject(c.Request.Context(), currentUID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if project == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *Handler) UpdateProject(c *gin.Context) {
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.UpdateProject(c.Request.Context(), currentUID(c), c.Param("id"), fields); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

func (h *Handler) DeleteProject(c *gin.Context) {
	if err := h.service.DeleteProject(c.Request.Context(), currentUID(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ProjectStats(c *gin.Context) {
	stats, err := h.service.ProjectStats(c.Request.Context(), currentUID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// --- AI analyses ---

func (h *Handler) AnalyzeIdea(c *gin.Context) {
	analysis, err := h.service.AnalyzeProjectIdea(c.Request.Context(), currentUID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func (h *Handler) ResearchCompetitors(c *gin.Context) {
	research, err := h.service.ResearchProjectCompetitors(c.Request.Context(), currentUID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, research)
}

func (h *Handler) GenerateSWOT(c *gin.Context) {
	swot, err := h.service.GenerateProjectSWOT(c.Request.Context(), currentUID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, swot)
}

// ExportReport renders the project workbook and uploads it to object
// storage, returning the object key.
func (h *Handler) ExportReport(c *gin.Context) {
	if h.exporter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "report storage is not configured", "kind": string(store.KindNotConfigured)})
		return
	}
	uid := currentUID(c)
	ctx := c.Request.Context()

	project, err := h.service.GetProject(ctx, uid, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if project == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	stats, err := h.service.ProjectStats(ctx, uid)
	if err != nil {
		h.fail(c, err)
		return
	}

	key, err := h.exporter.Export(ctx, uid, project, stats)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"object": key})
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// --- Startups ---

// CreateStartupRequest is the JSON body for startup creation.
type CreateStartupRequest struct {
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description"`
	Industry    string              `json:"industry"`
	Stage       models.StartupStage `json:"stage"`
	TeamSize    int                 `json:"teamSize"`
	Funding     *models.Funding     `json:"funding"`
	Metrics     *models.Metrics     `json:"metrics"`
}

func (h *Handler) CreateStartup(c *gin.Context) {
	var req CreateStartupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startup := &models.StartupData{
		Name:        req.Name,
		Description: req.Description,
		Industry:    req.Industry,
		Stage:       req.Stage,
		TeamSize:    req.TeamSize,
		Funding:     req.Funding,
		Metrics:     req.Metrics,
	}
	id, err := h.service.CreateStartup(c.Request.Context(), currentUID(c), startup)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) ListStartups(c *gin.Context) {
	startups, err := h.service.ListStartups(c.Request.Context(), currentUID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"startups": startups})
}

func (h *Handler) GetStartup(c *gin.Context) {
	startup, err := h.service.GetStartup(c.Request.Context(), currentUID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if startup == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "startup not found"})
		return
	}
	c.JSON(http.StatusOK, startup)
}

func (h *Handler) UpdateStartup(c *gin.Context) {
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.UpdateStartup(c.Request.Context(), currentUID(c), c.Param("id"), fields); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

func (h *Handler) DeleteStartup(c *gin.Context) {
	if err := h.service.DeleteStartup(c.Request.Context(), currentUID(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Consultations ---

// ScheduleConsultationRequest is the JSON body for scheduling a consultation.
type ScheduleConsultationRequest struct {
	StartupID    string  `json:"startupId" binding:"required"`
	ConsultantID string  `json:"consultantId" binding:"required"`
	Title        string  `json:"title" binding:"required"`
	Description  string  `json:"description"`
	ScheduledAt  *string `json:"scheduledAt"`
	Duration     int     `json:"duration"`
}

func (h *Handler) ScheduleConsultation(c *gin.Context) {
	var req ScheduleConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	consultation := &models.ConsultationData{
		StartupID:    req.StartupID,
		ConsultantID: req.ConsultantID,
		Title:        req.Title,
		Description:  req.Description,
		Status:       models.ConsultationPending,
		Duration:     req.Duration,
	}
	if req.ScheduledAt != nil {
		at, err := parseTime(*req.ScheduledAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "scheduledAt must be RFC 3339"})
			return
		}
		consultation.ScheduledAt = &at
	}

	id, err := h.service.ScheduleConsultation(c.Request.Context(), currentUID(c), consultation)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) ListStartupConsultations(c *gin.Context) {
	consultations, err := h.service.ListStartupConsultations(c.Request.Context(), currentUID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"consultations": consultations})
}

func (h *Handler) ListConsultantSessions(c *gin.Context) {
	consultations, err := h.service.ListConsultantSessions(c.Request.Context(), currentUID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"consultations": consultations})
}

func (h *Handler) UpdateConsultation(c *gin.Context) {
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.UpdateConsultation(c.Request.Context(), currentUID(c), c.Param("id"), fields); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

// --- Profiles ---

func (h *Handler) GetProfile(c *gin.Context) {
	profile, err := h.service.GetProfile(c.Request.Context(), currentUID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpsertProfileRequest is the JSON body for profile writes.
type UpsertProfileRequest struct {
	DisplayName string             `json:"displayName" binding:"required"`
	Role        models.ProfileRole `json:"role"`
	Bio         string             `json:"bio"`
	Expertise   []string           `json:"expertise"`
	Experience  string             `json:"experience"`
	LinkedIn    string             `json:"linkedIn"`
}

func (h *Handler) UpsertProfile(c *gin.Context) {
	var req UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile := &models.UserProfile{
		DisplayName: req.DisplayName,
		Role:        req.Role,
		Bio:         req.Bio,
		Expertise:   req.Expertise,
		Experience:  req.Experience,
		LinkedIn:    req.LinkedIn,
	}
	if err := h.service.UpsertProfile(c.Request.Context(), currentUID(c), profile); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "saved"})
}

func (h *Handler) ListConsultants(c *gin.Context) {
	consultants, err := h.service.ListConsultants(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"consultants": consultants})
}
