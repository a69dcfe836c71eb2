package api

import (
	"context"
	"coop-collections/internal/api/handler/dto"
	mw "coop-collections/internal/api/middleware"
	"coop-collections/internal/config"
	"coop-collections/internal/domain/loan"
	"coop-collections/internal/domain/obligation"
	"coop-collections/internal/domain/purchase"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var logger = slog.New(slog.DiscardHandler)

type stubObligations struct{}

func (stubObligations) ListObligations(context.Context) ([]obligation.Obligation, error) {
	return []obligation.Obligation{}, nil
}

func (stubObligations) ListMemberObligations(context.Context, int64) ([]obligation.Obligation, error) {
	return []obligation.Obligation{}, nil
}

type stubPurchases struct {
	purchase.PurchaseService
}

func (stubPurchases) ListMemberPurchases(context.Context, int64) ([]*purchase.Record, error) {
	return nil, nil
}

func newTestRouter(authEnabled bool) http.Handler {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Auth: config.AuthConfig{Enabled: authEnabled, JWTSecret: "router-test-secret", TokenTTL: time.Minute},
		},
		Metrics: config.MetricsConfig{Path: "/metrics"},
	}
	limiter := mw.NewRateLimiterMiddleware(config.RateLimitConfig{Enabled: false}, nil, logger)
	services := Services{
		Loans:       loan.NewLoanService(nil, nil, logger),
		Purchases:   stubPurchases{},
		Obligations: stubObligations{},
	}
	return SetupRouter(services, limiter, cfg, logger)
}

func do(t *testing.T, h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = "10.0.0.1:5000"
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestSetupRouter_PublicEndpoints(t *testing.T) {
	router := newTestRouter(true)

	rr := do(t, router, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	rr = do(t, router, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, router, http.MethodGet, "/swagger", "", "")
	assert.Equal(t, http.StatusMovedPermanently, rr.Code)
	assert.Equal(t, "/swagger/index.html", rr.Header().Get("Location"))
}

func TestSetupRouter_RequiresBearerToken(t *testing.T) {
	router := newTestRouter(true)

	for _, path := range []string{"/obligations", "/members/3/obligations", "/members/3/purchases", "/loans/pending", "/loans/counts"} {
		rr := do(t, router, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
	for _, path := range []string{"/loans", "/loans/31/approve", "/loans/31/reject"} {
		rr := do(t, router, http.MethodPost, path, "{}", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}

	rr := do(t, router, http.MethodPost, "/auth/token", `{"username":"teller01"}`, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var token dto.TokenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &token))

	rr = do(t, router, http.MethodGet, "/obligations", "", token.Token)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"count":0,"obligations":[]}`, rr.Body.String())

	rr = do(t, router, http.MethodGet, "/members/3/purchases", "", token.Token)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestSetupRouter_SchedulePreview(t *testing.T) {
	router := newTestRouter(false)

	rr := do(t, router, http.MethodPost, "/schedules/preview",
		`{"principal":"1200","durationMonths":3,"originationDate":"2024-01-15"}`, "")

	require.Equal(t, http.StatusOK, rr.Code)
	var resp dto.ReconciliationResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Pending", resp.Progress)
	require.Len(t, resp.Schedule, 3)
	assert.Equal(t, "2024-02-15", resp.Schedule[0].DueDate)
	assert.Equal(t, "424.00", resp.Schedule[0].TotalDue)
	assert.Equal(t, "0.00", resp.Schedule[2].RemainingBalanceAfter)
}

func TestSetupRouter_UnknownRoute(t *testing.T) {
	router := newTestRouter(false)

	rr := do(t, router, http.MethodGet, "/invoices", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, router, http.MethodGet, "/loans", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
