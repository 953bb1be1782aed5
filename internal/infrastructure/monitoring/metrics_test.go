package monitoring

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorsAreIndependent(t *testing.T) {
	a := NewMetrics()
	defer a.Close()
	b := NewMetrics()
	defer b.Close()

	a.RecordMutation("create_project", true)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.Mutations.WithLabelValues("create_project", "success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Mutations.WithLabelValues("create_project", "success")))
}

func TestRecordPersistCountsFailures(t *testing.T) {
	m := NewMetrics()
	defer m.Close()

	m.RecordPersist(time.Millisecond, nil)
	m.RecordPersist(time.Millisecond, errors.New("quota"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistFailures))
	assert.EqualValues(t, 1, m.Snapshot()["persist_failures"])
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()
	defer m.Close()

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/api/files/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, id := range []string{"file_a", "file_b"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/files/"+id, nil)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusNoContent, w.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/files/:id", "204")))
	assert.EqualValues(t, 2, m.Snapshot()["requests_total"])
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewMetrics()
	defer m.Close()
	m.ObserveCompose(time.Millisecond, true)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "codecraft_preview_cache_total")
}
