package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncMatchesRecorded()
	s.IncMatchesRecorded()
	s.IncMatchesDeleted(3)
	s.IncEntitiesCreated("players")
	s.IncEntitiesCreated("venues")
	s.IncEntitiesCreated("players")
	s.AddValidationWarnings(2)

	body := scrape(t, reg)
	assert.Contains(t, body, "tennis_matches_recorded_total 2")
	assert.Contains(t, body, "tennis_matches_deleted_total 3")
	assert.Contains(t, body, `tennis_entities_created_total{kind="players"} 2`)
	assert.Contains(t, body, `tennis_entities_created_total{kind="venues"} 1`)
	assert.Contains(t, body, "tennis_score_validation_warnings_total 2")
}

func TestMetricsHandler_ExposesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)
	s.SetStartupTime(0.25)

	assert.Contains(t, scrape(t, reg), "tennis_startup_duration_seconds 0.25")
}

func scrape(t *testing.T, reg *prometheus.Registry) string {
	t.Helper()
	rec := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestMock_CountsCalls(t *testing.T) {
	m := NewMock()
	m.IncEntitiesCreated("venues")
	m.IncMatchesDeleted(2)
	m.IncMatchesDeleted(1)
	m.ObserveSaveDuration(0.1)

	assert.Equal(t, 1, m.EntitiesCreated("venues"))
	assert.Equal(t, 0, m.EntitiesCreated("players"))
	assert.Equal(t, 3, m.MatchesDeleted())
	assert.Len(t, m.SaveDurations(), 1)
}
