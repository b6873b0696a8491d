package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techradar-io/radar-api/internal/task"
)

func TestMetrics_TaskObserver(t *testing.T) {
	m := New()

	m.TaskSubmitted(task.TaskTypeRadarProvisioning)
	m.TaskSubmitted(task.TaskTypeRadarProvisioning)
	m.TaskFinished(task.TaskTypeRadarProvisioning, task.TaskStatusCompleted, 20*time.Millisecond)
	m.TaskFinished(task.TaskTypeRadarProvisioning, task.TaskStatusFailed, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.tasksSubmitted.WithLabelValues(task.TaskTypeRadarProvisioning)))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.tasksFinished.WithLabelValues(task.TaskTypeRadarProvisioning, string(task.TaskStatusFailed))))
	assert.Equal(t, 1, testutil.CollectAndCount(m.taskDuration))
}

func TestMetrics_NATSMessage(t *testing.T) {
	m := New()
	m.NATSMessage("handled")
	m.NATSMessage("rejected")
	m.NATSMessage("rejected")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.natsMessages.WithLabelValues("rejected")))
}

func TestMetrics_Middleware_UsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/radars/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/api/radars/1", "/api/radars/2", "/nowhere"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/radars/{id}", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.TaskSubmitted(task.TaskTypeRadarProvisioning)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `radar_tasks_submitted_total{task_type="radar_provisioning"} 1`), body)
	assert.Contains(t, body, "go_goroutines")
}
