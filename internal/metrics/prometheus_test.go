package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareUsesRouteTemplate(t *testing.T) {

	r := mux.NewRouter()
	r.Use(Middleware)
	r.HandleFunc("/api/vitals/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(TotalRequests.WithLabelValues("GET", "/api/vitals/{id:[0-9]+}", "404"))

	for _, path := range []string{"/api/vitals/1", "/api/vitals/2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	after := testutil.ToFloat64(TotalRequests.WithLabelValues("GET", "/api/vitals/{id:[0-9]+}", "404"))
	if after-before != 2 {
		t.Errorf("expected 2 requests on the templated series, got %v", after-before)
	}
}

func TestVitalsCounters(t *testing.T) {

	before := testutil.ToFloat64(VitalsRejected.WithLabelValues("INVALID_RANGE"))
	IncrementVitalsRejected("INVALID_RANGE")
	if testutil.ToFloat64(VitalsRejected.WithLabelValues("INVALID_RANGE"))-before != 1 {
		t.Error("rejected counter did not increment")
	}

	SetRollingWindowLogs(42)
	if testutil.ToFloat64(RollingWindowLogs) != 42 {
		t.Error("window gauge not set")
	}
}
