package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(backend *mockBackend, identity Identity) *chi.Mux {
	router := chi.NewRouter()
	manager := NewManager(backend, &memCache{}, zap.NewNop())
	NewHandler(manager, identity).RegisterRoutes(router)
	return router
}

func TestHandlerOpen_FillsRegisterIdentityDefaults(t *testing.T) {
	backend := newMockBackend()
	router := newTestRouter(backend, Identity{RegisterID: registerID, SiteID: siteID})

	body := `{"operator_id":"` + operatorID + `","initial_amount":"50,00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/session/open", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, registerID, backend.lastCreate.RegisterID)
	assert.Equal(t, siteID, backend.lastCreate.SiteID)
	assert.Equal(t, 50.0, backend.lastCreate.InitialAmount)
}

func TestHandlerOpen_ExplicitIdentityWins(t *testing.T) {
	backend := newMockBackend()
	router := newTestRouter(backend, Identity{RegisterID: registerID, SiteID: siteID})

	otherSite := uuid.New().String()
	otherRegister := uuid.New().String()
	body := `{"operator_id":"` + operatorID + `","site_id":"` + otherSite +
		`","register_id":"` + otherRegister + `","initial_amount":"10"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/session/open", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, otherRegister, backend.lastCreate.RegisterID)
	assert.Equal(t, otherSite, backend.lastCreate.SiteID)
}
