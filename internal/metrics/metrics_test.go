package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/t/{hash}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusFound)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/t/{hash}", "302"))

	for _, hash := range []string{"a", "b", "c"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/t/"+hash, nil))
		assert.Equal(t, http.StatusFound, rec.Code)
	}

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/t/{hash}", "302"))
	assert.Equal(t, float64(3), after-before)
}

func TestObserveClick(t *testing.T) {
	before := testutil.ToFloat64(clicksTotal.WithLabelValues(ClickRecorded))
	ObserveClick(ClickRecorded)
	assert.Equal(t, float64(1), testutil.ToFloat64(clicksTotal.WithLabelValues(ClickRecorded))-before)
}
