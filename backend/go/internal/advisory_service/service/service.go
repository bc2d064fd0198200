package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"StartupCopilot/backend/go/internal/advisory_service/ai"
	"StartupCopilot/backend/go/internal/advisory_service/store"
	"StartupCopilot/backend/go/internal/database/kafka"
	"StartupCopilot/backend/go/internal/models"
	"StartupCopilot/backend/go/pkg/logger"
)

// Stores bundles the typed document stores the service operates on.
type Stores struct {
	Projects      *store.ProjectStore
	Startups      *store.StartupStore
	Consultations *store.ConsultationStore
	Profiles      *store.UserProfileStore
}

// AdvisoryService implements the business operations of the advisory
// backend. Every document access funnels failures through the connection
// manager so connectivity state stays accurate; audit publishing and stats
// caching are best effort and never fail a request.
type AdvisoryService struct {
	stores   Stores
	cm       *ConnectionManager
	advisor  *ai.Advisor
	audit    *kafka.AuditPublisher
	cache    *goredis.Client
	statsTTL time.Duration
	log      *logger.Logger
}

// NewAdvisoryService creates the service. advisor, audit and cache may be
// nil; the corresponding features are then disabled.
func NewAdvisoryService(stores Stores, cm *ConnectionManager, advisor *ai.Advisor, audit *kafka.AuditPublisher, cache *goredis.Client, statsTTL time.Duration, log *logger.Logger) *AdvisoryService {
	if statsTTL <= 0 {
		statsTTL = 5 * time.Minute
	}
	return &AdvisoryService{
		stores:   stores,
		cm:       cm,
		advisor:  advisor,
		audit:    audit,
		cache:    cache,
		statsTTL: statsTTL,
		log:      log,
	}
}

// fail routes a store error through the connection manager and returns it
// unchanged for the API layer to map.
func (s *AdvisoryService) fail(ctx context.Context, op string, err error) error {
	kind := s.cm.HandleConnectionError(ctx, err)
	s.log.WithError(models.ErrorInfo{Message: err.Error(), Type: string(kind)}).Warn(op + " failed")
	return err
}

func (s *AdvisoryService) publishAudit(ctx context.Context, collection, id string, action models.AuditAction, actorID string) {
	if s.audit == nil {
		return
	}
	event := &models.AuditEvent{
		Collection: collection,
		DocumentID: id,
		Action:     action,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.audit.Publish(ctx, event); err != nil {
		s.log.WithError(models.ErrorInfo{Message: err.Error()}).Warn("audit publish failed")
	}
}

func statsKey(userID string) string {
	return "advisory:stats:" + userID
}

func (s *AdvisoryService) invalidateStats(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, statsKey(userID)).Err(); err != nil {
		s.log.WithError(models.ErrorInfo{Message: err.Error()}).Warn("stats cache invalidation failed")
	}
}

func errPermissionDenied(op string) error {
	return &store.Error{Kind: store.KindPermissionDenied, Op: op, Err: fmt.Errorf("caller does not own this document")}
}

func errNotFound(op string) error {
	return &store.Error{Kind: store.KindNotFound, Op: op}
}

func errAdvisorDisabled(op string) error {
	return &store.Error{Kind: store.KindNotConfigured, Op: op, Err: fmt.Errorf("AI advisor is not configured")}
}

// ---- Projects ----

// CreateProject stores a new project owned by userID. Status and progress
// are forced to their initial values regardless of the request payload.
func (s *AdvisoryService) CreateProject(ctx context.Context, userID string, project *models.Project) (string, error) {
	project.UserID = userID
	id, err := s.stores.Projects.Create(ctx, project)
	if err != nil {
		return "", s.fail(ctx, "create project", err)
	}
	s.publishAudit(ctx, store.CollectionProjects, id, models.AuditActionCreate, userID)
	s.invalidateStats(ctx, userID)
	return id, nil
}

// GetProject returns the project, or nil when it does not exist. Reading a
// project owned by someone else is a permission error, not a 404, so owners
// can tell the difference.
func (s *AdvisoryService) GetProject(ctx context.Context, userID, id string) (*models.Project, error) {
	project, err := s.stores.Projects.Get(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "get project", err)
	}
	if project == nil {
		return nil, nil
	}
	if project.UserID != userID {
		return nil, errPermissionDenied("get projects")
	}
	return project, nil
}

// ListProjects returns the caller's projects, most recently updated first.
func (s *AdvisoryService) ListProjects(ctx context.Context, userID string) ([]*models.Project, error) {
	projects, err := s.stores.Projects.ListByUser(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, "list projects", err)
	}
	return projects, nil
}

// UpdateProject applies a partial update to a project the caller owns.
func (s *AdvisoryService) UpdateProject(ctx context.Context, userID, id string, fields map[string]interface{}) error {
	project, err := s.stores.Projects.Get(ctx, id)
	if err != nil {
		return s.fail(ctx, "update project", err)
	}
	if project == nil {
		return errNotFound("update projects")
	}
	if project.UserID != userID {
		return errPermissionDenied("update projects")
	}
	if err := s.stores.Projects.Update(ctx, id, fields); err != nil {
		return s.fail(ctx, "update project", err)
	}
	s.publishAudit(ctx, store.CollectionProjects, id, models.AuditActionUpdate, userID)
	s.invalidateStats(ctx, userID)
	return nil
}

// DeleteProject removes a project the caller owns. Deleting a project that
// does not exist succeeds.
func (s *AdvisoryService) DeleteProject(ctx context.Context, userID, id string) error {
	project, err := s.stores.Projects.Get(ctx, id)
	if err != nil {
		return s.fail(ctx, "delete project", err)
	}
	if project == nil {
		return nil
	}
	if project.UserID != userID {
		return errPermissionDenied("delete projects")
	}
	if err := s.stores.Projects.Delete(ctx, id); err != nil {
		return s.fail(ctx, "delete project", err)
	}
	s.publishAudit(ctx, store.CollectionProjects, id, models.AuditActionDelete, userID)
	s.invalidateStats(ctx, userID)
	return nil
}

// ProjectStats returns the caller's project counters, served from the Redis
// cache when possible. A cache failure falls through to the store.
func (s *AdvisoryService) ProjectStats(ctx context.Context, userID string) (*models.ProjectStats, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, statsKey(userID)).Result()
		if err == nil {
			var stats models.ProjectStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		} else if err != goredis.Nil {
			s.log.WithError(models.ErrorInfo{Message: err.Error()}).Warn("stats cache read failed")
		}
	}

	stats, err := s.stores.Projects.Stats(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, "project stats", err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, statsKey(userID), data, s.statsTTL).Err(); err != nil {
				s.log.WithError(models.ErrorInfo{Message: err.Error()}).Warn("stats cache write failed")
			}
		}
	}
	return stats, nil
}

// ---- AI analyses ----

// loadOwnedProject fetches a project and enforces ownership for the
// analysis operations, which both read and write the project content.
func (s *AdvisoryService) loadOwnedProject(ctx context.Context, userID, id, op string) (*models.Project, error) {
	project, err := s.stores.Projects.Get(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if project == nil {
		return nil, errNotFound(op)
	}
	if project.UserID != userID {
		return nil, errPermissionDenied(op)
	}
	return project, nil
}

func (s *AdvisoryService) saveContent(ctx context.Context, userID string, project *models.Project, op string) error {
	project.Content.Version++
	fields := map[string]interface{}{
		"content": project.Content,
		"status":  models.ProjectStatusInProgress,
	}
	if err := s.stores.Projects.Update(ctx, project.ID, fields); err != nil {
		return s.fail(ctx, op, err)
	}
	s.publishAudit(ctx, store.CollectionProjects, project.ID, models.AuditActionUpdate, userID)
	return nil
}

// AnalyzeProjectIdea runs the AI idea analysis for a project and stores the
// result in the project content.
func (s *AdvisoryService) AnalyzeProjectIdea(ctx context.Context, userID, projectID string) (*models.IdeaAnalysis, error) {
	if s.advisor == nil {
		return nil, errAdvisorDisabled("analyze idea")
	}
	project, err := s.loadOwnedProject(ctx, userID, projectID, "analyze idea")
	if err != nil {
		return nil, err
	}

	analysis, err := s.advisor.AnalyzeIdea(ctx, project.Name+": "+project.Description)
	if err != nil {
		return nil, s.fail(ctx, "analyze idea", err)
	}

	if project.Content == nil {
		project.Content = &models.ProjectContent{}
	}
	project.Content.IdeaAnalysis = analysis
	if err := s.saveContent(ctx, userID, project, "analyze idea"); err != nil {
		return nil, err
	}
	return analysis, nil
}

// ResearchProjectCompetitors runs the AI competitor research for a project.
func (s *AdvisoryService) ResearchProjectCompetitors(ctx context.Context, userID, projectID string) (*models.CompetitorResearch, error) {
	if s.advisor == nil {
		return nil, errAdvisorDisabled("research competitors")
	}
	project, err := s.loadOwnedProject(ctx, userID, projectID, "research competitors")
	if err != nil {
		return nil, err
	}

	research, err := s.advisor.ResearchCompetitors(ctx, project.Name+": "+project.Description)
	if err != nil {
		return nil, s.fail(ctx, "research competitors", err)
	}

	if project.Content == nil {
		project.Content = &models.ProjectContent{}
	}
	project.Content.Competitors = research
	if err := s.saveContent(ctx, userID, project, "research competitors"); err != nil {
		return nil, err
	}
	return research, nil
}

// GenerateProjectSWOT runs the AI SWOT analysis for a project.
func (s *AdvisoryService) GenerateProjectSWOT(ctx context.Context, userID, projectID string) (*models.SWOTAnalysis, error) {
	if s.advisor == nil {
		return nil, errAdvisorDisabled("generate swot")
	}
	project, err := s.loadOwnedProject(ctx, userID, projectID, "generate swot")
	if err != nil {
		return nil, err
	}

	swot, err := s.advisor.GenerateSWOT(ctx, project.Name+": "+project.Description)
	if err != nil {
		return nil, s.fail(ctx, "generate swot", err)
	}

	if project.Content == nil {
		project.Content = &models.ProjectContent{}
	}
	project.Content.SWOT = swot
	if err := s.saveContent(ctx, userID, project, "generate swot"); err != nil {
		return nil, err
	}
	return swot, nil
}

// ---- Startups ----

// CreateStartup stores a new startup founded by userID.
func (s *AdvisoryService) CreateStartup(ctx context.Context, userID string, startup *models.StartupData) (string, error) {
	startup.FounderID = userID
	id, err := s.stores.Startups.Create(ctx, startup)
	if err != nil {
		return "", s.fail(ctx, "create startup", err)
	}
	s.publishAudit(ctx, store.CollectionStartups, id, models.AuditActionCreate, userID)
	return id, nil
}

// GetStartup returns the startup, or nil when absent. Only the founder may
// read it.
func (s *AdvisoryService) GetStartup(ctx context.Context, userID, id string) (*models.StartupData, error) {
	startup, err := s.stores.Startups.Get(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "get startup", err)
	}
	if startup == nil {
		return nil, nil
	}
	if startup.FounderID != userID {
		return nil, errPermissionDenied("get startups")
	}
	return startup, nil
}

// ListStartups returns the caller's startups, newest first.
func (s *AdvisoryService) ListStartups(ctx context.Context, userID string) ([]*models.StartupData, error) {
	startups, err := s.stores.Startups.ListByFounder(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, "list startups", err)
	}
	return startups, nil
}

// UpdateStartup applies a partial update to a startup the caller founded.
func (s *AdvisoryService) UpdateStartup(ctx context.Context, userID, id string, fields map[string]interface{}) error {
	startup, err := s.stores.Startups.Get(ctx, id)
	if err != nil {
		return s.fail(ctx, "update startup", err)
	}
	if startup == nil {
		return errNotFound("update startups")
	}
	if startup.FounderID != userID {
		return errPermissionDenied("update startups")
	}
	if err := s.stores.Startups.Update(ctx, id, fields); err != nil {
		return s.fail(ctx, "update startup", err)
	}
	s.publishAudit(ctx, store.CollectionStartups, id, models.AuditActionUpdate, userID)
	return nil
}

// DeleteStartup removes a startup the caller founded. Idempotent.
func (s *AdvisoryService) DeleteStartup(ctx context.Context, userID, id string) error {
	startup, err := s.stores.Startups.Get(ctx, id)
	if err != nil {
		return s.fail(ctx, "delete startup", err)
	}
	if startup == nil {
		return nil
	}
	if startup.FounderID != userID {
		return errPermissionDenied("delete startups")
	}
	if err := s.stores.Startups.Delete(ctx, id); err != nil {
		return s.fail(ctx, "delete startup", err)
	}
	s.publishAudit(ctx, store.CollectionStartups, id, models.AuditActionDelete, userID)
	return nil
}

// ---- Consultations ----

// ScheduleConsultation creates a consultation for one of the caller's
// startups.
func (s *AdvisoryService) ScheduleConsultation(ctx context.Context, userID string, consultation *models.ConsultationData) (string, error) {
	startup, err := s.stores.Startups.Get(ctx, consultation.StartupID)
	if err != nil {
		return "", s.fail(ctx, "schedule consultation", err)
	}
	if startup == nil {
		return "", errNotFound("schedule consultations")
	}
	if startup.FounderID != userID {
		return "", errPermissionDenied("schedule consultations")
	}

	id, err := s.stores.Consultations.Create(ctx, consultation)
	if err != nil {
		return "", s.fail(ctx, "schedule consultation", err)
	}
	s.publishAudit(ctx, store.CollectionConsultations, id, models.AuditActionCreate, userID)
	return id, nil
}

// ListStartupConsultations returns the consultations of one of the caller's
// startups, newest first.
func (s *AdvisoryService) ListStartupConsultations(ctx context.Context, userID, startupID string) ([]*models.ConsultationData, error) {
	startup, err := s.stores.Startups.Get(ctx, startupID)
	if err != nil {
		return nil, s.fail(ctx, "list consultations", err)
	}
	if startup == nil {
		return nil, errNotFound("list consultations")
	}
	if startup.FounderID != userID {
		return nil, errPermissionDenied("list consultations")
	}
	consultations, err := s.stores.Consultations.ListByStartup(ctx, startupID)
	if err != nil {
		return nil, s.fail(ctx, "list consultations", err)
	}
	return consultations, nil
}

// ListConsultantSessions returns the consultations assigned to the calling
// consultant, ordered by schedule.
func (s *AdvisoryService) ListConsultantSessions(ctx context.Context, consultantID string) ([]*models.ConsultationData, error) {
	consultations, err := s.stores.Consultations.ListByConsultant(ctx, consultantID)
	if err != nil {
		return nil, s.fail(ctx, "list consultant sessions", err)
	}
	return consultations, nil
}

// UpdateConsultation applies a partial update. Both the assigned consultant
// and the startup founder may modify a consultation.
func (s *AdvisoryService) UpdateConsultation(ctx context.Context, userID, id string, fields map[string]interface{}) error {
	consultation, err := s.stores.Consultations.Get(ctx, id)
	if err != nil {
		return s.fail(ctx, "update consultation", err)
	}
	if consultation == nil {
		return errNotFound("update consultations")
	}
	if consultation.ConsultantID != userID {
		startup, err := s.stores.Startups.Get(ctx, consultation.StartupID)
		if err != nil {
			return s.fail(ctx, "update consultation", err)
		}
		if startup == nil || startup.FounderID != userID {
			return errPermissionDenied("update consultations")
		}
	}
	if err := s.stores.Consultations.Update(ctx, id, fields); err != nil {
		return s.fail(ctx, "update consultation", err)
	}
	s.publishAudit(ctx, store.CollectionConsultations, id, models.AuditActionUpdate, userID)
	return nil
}

// ---- Profiles ----

// GetProfile returns the caller's profile document, or nil when none exists.
func (s *AdvisoryService) GetProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	profile, err := s.stores.Profiles.GetByUID(ctx, uid)
	if err != nil {
		return nil, s.fail(ctx, "get profile", err)
	}
	return profile, nil
}

// UpsertProfile creates the caller's profile on first write and applies a
// partial update afterwards.
func (s *AdvisoryService) UpsertProfile(ctx context.Context, uid string, profile *models.UserProfile) error {
	profile.UID = uid
	existing, err := s.stores.Profiles.GetByUID(ctx, uid)
	if err != nil {
		return s.fail(ctx, "upsert profile", err)
	}
	if existing == nil {
		id, err := s.stores.Profiles.Create(ctx, profile)
		if err != nil {
			return s.fail(ctx, "upsert profile", err)
		}
		s.publishAudit(ctx, store.CollectionUsers, id, models.AuditActionCreate, uid)
		return nil
	}

	fields := map[string]interface{}{
		"displayName": profile.DisplayName,
		"bio":         profile.Bio,
		"expertise":   profile.Expertise,
		"experience":  profile.Experience,
		"linkedIn":    profile.LinkedIn,
	}
	if profile.Role != "" {
		fields["role"] = profile.Role
	}
	if err := s.stores.Profiles.Update(ctx, existing.ID, fields); err != nil {
		return s.fail(ctx, "upsert profile", err)
	}
	s.publishAudit(ctx, store.CollectionUsers, existing.ID, models.AuditActionUpdate, uid)
	return nil
}

// ListConsultants returns every profile registered with the consultant role.
func (s *AdvisoryService) ListConsultants(ctx context.Context) ([]*models.UserProfile, error) {
	consultants, err := s.stores.Profiles.ListConsultants(ctx)
	if err != nil {
		return nil, s.fail(ctx, "list consultants", err)
	}
	return consultants, nil
}
