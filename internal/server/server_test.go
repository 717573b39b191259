package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/marquage/expedition/internal/config"
	"github.com/marquage/expedition/internal/report"
	"github.com/marquage/expedition/internal/source"
	"github.com/marquage/expedition/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(env string) *config.Config {
	return &config.Config{
		Env:  env,
		HTTP: config.HTTPConfig{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second},
		Log:  config.LogConfig{Level: "info", Format: "text"},
	}
}

func sampleRows(n int) []report.Row {
	rows := make([]report.Row, n)
	for i := range rows {
		rows[i].Set(report.KeyPalette, i+1)
		rows[i].Set(report.KeyChosenWeight, 100)
	}
	return rows
}

func newTestServer(t *testing.T, env string, src source.Source, opts ...api.Option) *WebServer {
	t.Helper()
	options := api.DefaultOptions()
	for _, o := range opts {
		o(&options)
	}
	gen, err := api.NewWithOptions(options)
	require.NoError(t, err)
	return NewWebServer(testConfig(env), gen, src, nil)
}

func decodeError(t *testing.T, body io.Reader) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func TestGetReport(t *testing.T) {
	var seen source.Query
	src := source.Func(func(_ context.Context, q source.Query) ([]report.Row, error) {
		seen = q
		return sampleRows(35), nil
	})
	ws := newTestServer(t, config.EnvDevelopment, src)

	req := httptest.NewRequest(http.MethodGet, ReportPath+"?choosen=pdsbru&dateStart=2025-03-01&dateEnd=2025-03-14", nil)
	rec := httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="rapport_palettes_2025-03-01_2025-03-14.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
	assert.Equal(t, rec.Header().Get("Content-Length"), strconv.Itoa(rec.Body.Len()))
	assert.Equal(t, "pdsbru", seen.Chosen)
	assert.Equal(t, "2025-03-01", seen.Period.Start)

	_, err := uuid.Parse(rec.Header().Get(requestIDHeader))
	assert.NoError(t, err)
}

func TestGetReportEmpty(t *testing.T) {
	ws := newTestServer(t, config.EnvDevelopment, source.Static{})
	rec := httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, ReportPath, nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No data found", decodeError(t, rec.Body).Error)
}

func TestGetReportSourceFailure(t *testing.T) {
	src := source.Func(func(context.Context, source.Query) ([]report.Row, error) {
		return nil, errors.New("connection refused")
	})

	ws := newTestServer(t, config.EnvDevelopment, src)
	rec := httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, ReportPath, nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec.Body)
	assert.Equal(t, "Failed to fetch data", resp.Error)
	assert.Equal(t, "connection refused", resp.Details)

	ws = newTestServer(t, config.EnvProduction, src)
	rec = httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, ReportPath, nil))
	assert.Empty(t, decodeError(t, rec.Body).Details)
}

func TestGetReportWithoutSource(t *testing.T) {
	ws := newTestServer(t, config.EnvDevelopment, nil)
	rec := httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, ReportPath, nil))
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestRenderFailure(t *testing.T) {
	for env, wantDetails := range map[string]bool{config.EnvDevelopment: true, config.EnvProduction: false} {
		ws := newTestServer(t, env, source.Static(sampleRows(2)), api.WithLogo("missing-logo.png"))
		rec := httptest.NewRecorder()
		ws.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, ReportPath, nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code, env)
		resp := decodeError(t, rec.Body)
		assert.Equal(t, "Failed to generate PDF", resp.Error, env)
		assert.Equal(t, wantDetails, resp.Details != "", env)
		assert.NotEmpty(t, resp.RequestID, env)
	}
}

func TestPostReport(t *testing.T) {
	ws := newTestServer(t, config.EnvDevelopment, nil)
	body := `{"rows": [{"numpal": "P1", "pdsChoosen": "12,5"}, {"numpal": "P2", "nbcolis": 4}],
		"dateStart": "01/03/2025", "dateEnd": "14/03/2025", "variant": "palettes"}`

	rec := httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, ReportPath, strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="rapport_palettes_01-03-2025_14-03-2025.pdf"`, rec.Header().Get("Content-Disposition"))

	rec = httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, ReportPath+"?format=html", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "RÉCAPITULATIF")
}

func TestPostReportErrors(t *testing.T) {
	ws := newTestServer(t, config.EnvDevelopment, nil)
	tests := []struct {
		name   string
		body   string
		target string
		status int
	}{
		{"malformed", `{"rows": [`, ReportPath, http.StatusBadRequest},
		{"empty", `{"rows": []}`, ReportPath, http.StatusNotFound},
		{"unknown variant", `{"rows": [{"numpal": 1}], "variant": "nope"}`, ReportPath, http.StatusBadRequest},
		{"unknown format", `{"rows": [{"numpal": 1}]}`, ReportPath + "?format=xls", http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		ws.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tt.target, strings.NewReader(tt.body)))
		assert.Equal(t, tt.status, rec.Code, tt.name)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ws := newTestServer(t, config.EnvDevelopment, nil)
	rec := httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, ReportPath, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, POST", rec.Header().Get("Allow"))
}

func TestRequestIDPropagation(t *testing.T) {
	ws := newTestServer(t, config.EnvDevelopment, nil)
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, id)
	rec := httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, rec.Header().Get(requestIDHeader))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestStartAndShutdown(t *testing.T) {
	ws := newTestServer(t, config.EnvDevelopment, source.Static(sampleRows(1)))
	require.NoError(t, ws.Start())

	resp, err := http.Get("http://" + ws.Addr() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, ws.Shutdown(ctx))
}
