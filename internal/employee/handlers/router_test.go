package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	e "github.com/gartstein/workforce/internal/employee/errors"
	"github.com/gartstein/workforce/internal/employee/models"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func newTestRouter(t *testing.T, pinger Pinger, logger *zap.Logger) (*gin.Engine, *prometheus.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := &mockEmployeeController{
		getEmployeeFunc: func(_ context.Context, _ int64) (*models.Employee, error) {
			return nil, e.ErrNotFound
		},
	}
	reg := prometheus.NewRegistry()
	return NewRouter(NewEmployeeHandler(ctrl, zaptest.NewLogger(t)), reg, pinger, logger), reg
}

func TestRouter_Healthz(t *testing.T) {
	r, _ := newTestRouter(t, stubPinger{}, zaptest.NewLogger(t))
	w := doRequest(r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	r, _ = newTestRouter(t, stubPinger{err: errors.New("connection refused")}, zaptest.NewLogger(t))
	w = doRequest(r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_RequestID(t *testing.T) {
	r, _ := newTestRouter(t, stubPinger{}, zaptest.NewLogger(t))

	w := doRequest(r, http.MethodGet, "/healthz", "")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestRouter_AccessLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r, _ := newTestRouter(t, stubPinger{}, zap.New(core))

	doRequest(r, http.MethodGet, "/employees/7", "")

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/employees/7", fields["path"])
	assert.EqualValues(t, http.StatusNotFound, fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestRouter_Metrics(t *testing.T) {
	r, reg := newTestRouter(t, stubPinger{}, zaptest.NewLogger(t))

	doRequest(r, http.MethodGet, "/employees/1", "")
	doRequest(r, http.MethodGet, "/employees/2", "")

	families, err := reg.Gather()
	require.NoError(t, err)
	var found bool
	for _, mf := range families {
		if mf.GetName() != "employees_http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["route"] == "/employees/:id" && labels["status"] == "404" {
				found = true
				assert.Equal(t, float64(2), m.GetCounter().GetValue())
			}
		}
	}
	assert.True(t, found, "expected a counter for the /employees/:id route")

	w := doRequest(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "employees_http_request_duration_seconds"))
}
