package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StartupCopilot/backend/go/internal/advisory_service/service"
	"StartupCopilot/backend/go/internal/advisory_service/store"
	"StartupCopilot/backend/go/pkg/logger"
)

const testSecret = "test-secret"

type nullTransport struct{}

func (nullTransport) EnableNetwork(context.Context) error  { return nil }
func (nullTransport) DisableNetwork(context.Context) error { return nil }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	docs := store.NewMemoryDocumentStore()
	stores := service.Stores{
		Projects:      store.NewProjectStore(docs),
		Startups:      store.NewStartupStore(docs),
		Consultations: store.NewConsultationStore(docs),
		Profiles:      store.NewUserProfileStore(docs),
	}
	log := logger.New("test", "", "")
	cm := service.NewConnectionManager(nullTransport{}, service.DefaultRetryPolicy(), nil, log)
	svc := service.NewAdvisoryService(stores, cm, nil, nil, nil, 0, log)
	return SetupRouter(NewHandler(svc, cm, nil, StoreModeMemory, log), testSecret, nil)
}

func bearerToken(t *testing.T, uid string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": uid,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func doJSON(t *testing.T, r *gin.Engine, method, path, auth string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthzIsPublic(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, true, resp["online"])
	assert.Equal(t, StoreModeMemory, resp["store"])
}

func TestAuthRequired(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/projects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/projects", "Bearer garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProjectEndpoints(t *testing.T) {
	r := newTestRouter(t)
	alice := bearerToken(t, "alice")

	w := doJSON(t, r, http.MethodPost, "/api/v1/projects", alice, gin.H{
		"name": "EcoTech",
		"type": "business-plan",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	// Missing required fields are rejected before the service runs.
	w = doJSON(t, r, http.MethodPost, "/api/v1/projects", alice, gin.H{"description": "no name"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/projects/"+created.ID, alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Another user gets 403, not 404, for an existing document.
	w = doJSON(t, r, http.MethodGet, "/api/v1/projects/"+created.ID, bearerToken(t, "mallory"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/projects/does-not-exist", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPatch, "/api/v1/projects/"+created.ID, alice, gin.H{"progress": 55})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/projects/stats", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats["totalProjects"])

	w = doJSON(t, r, http.MethodDelete, "/api/v1/projects/"+created.ID, alice, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	// Idempotent delete.
	w = doJSON(t, r, http.MethodDelete, "/api/v1/projects/"+created.ID, alice, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAnalysisUnavailableWithoutAdvisor(t *testing.T) {
	r := newTestRouter(t)
	alice := bearerToken(t, "alice")

	w := doJSON(t, r, http.MethodPost, "/api/v1/projects", alice, gin.H{
		"name": "EcoTech",
		"type": "swot-analysis",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, r, http.MethodPost, "/api/v1/projects/"+created.ID+"/analysis/swot", alice, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), string(store.KindNotConfigured))
}

func TestConsultationFlow(t *testing.T) {
	r := newTestRouter(t)
	founder := bearerToken(t, "founder")
	carol := bearerToken(t, "carol")

	w := doJSON(t, r, http.MethodPost, "/api/v1/startups", founder, gin.H{
		"name":  "EcoTech Inc",
		"stage": "mvp",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var startup struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &startup))

	w = doJSON(t, r, http.MethodPost, "/api/v1/consultations", founder, gin.H{
		"startupId":    startup.ID,
		"consultantId": "carol",
		"title":        "Seed round prep",
		"scheduledAt":  time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/consultations", carol, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Seed round prep")

	w = doJSON(t, r, http.MethodGet, "/api/v1/startups/"+startup.ID+"/consultations", founder, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Seed round prep")
}
