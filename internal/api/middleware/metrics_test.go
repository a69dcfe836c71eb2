package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddleware(t *testing.T) {
	httpRequestsTotal.Reset()
	httpRequestDuration.Reset()

	r := chi.NewRouter()
	r.Use(MetricsMiddleware())
	r.Get("/loans/{loanID}/schedule", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	for _, path := range []string{"/loans/1/schedule", "/loans/2/schedule", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	expectedTotal := `
		# HELP coop_collections_http_requests_total Total number of HTTP requests.
		# TYPE coop_collections_http_requests_total counter
		coop_collections_http_requests_total{method="GET",path="/loans/{loanID}/schedule",status_code="200"} 2
		coop_collections_http_requests_total{method="GET",path="unmatched",status_code="404"} 1
	`
	if err := testutil.CollectAndCompare(httpRequestsTotal, strings.NewReader(expectedTotal)); err != nil {
		t.Errorf("unexpected metrics for http_requests_total: %v", err)
	}
}
