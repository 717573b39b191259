package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/marquage/expedition/internal/render"
	"github.com/marquage/expedition/internal/report"
	"github.com/marquage/expedition/internal/source"
	"github.com/marquage/expedition/internal/variant"
	"github.com/marquage/expedition/pkg/api"
)

// ErrorResponse is the JSON body of failed requests.
type ErrorResponse struct {
	Error     string `json:"error"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// ReportRequest is the body of a POST report request.
type ReportRequest struct {
	Rows      []report.Row `json:"rows"`
	DateStart string       `json:"dateStart"`
	DateEnd   string       `json:"dateEnd"`
	Variant   string       `json:"variant"`
	Format    string       `json:"format"`
}

func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		ws.jsonError(w, r, http.StatusMethodNotAllowed, "Method not allowed", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (ws *WebServer) handleReport(w http.ResponseWriter, r *http.Request) {
	var (
		req  ReportRequest
		rows []report.Row
	)
	q := r.URL.Query()

	switch r.Method {
	case http.MethodGet:
		req = ReportRequest{
			DateStart: q.Get("dateStart"),
			DateEnd:   q.Get("dateEnd"),
			Variant:   q.Get("variant"),
			Format:    q.Get("format"),
		}
		if ws.source == nil {
			ws.jsonError(w, r, http.StatusNotImplemented, "No row source configured", nil)
			return
		}
		var err error
		rows, err = ws.source.Rows(r.Context(), source.Query{
			Chosen: q.Get("choosen"),
			Period: report.Period{Start: req.DateStart, End: req.DateEnd},
		})
		if err != nil {
			ws.jsonError(w, r, http.StatusInternalServerError, "Failed to fetch data", err)
			return
		}
	case http.MethodPost:
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err := dec.Decode(&req); err != nil {
			ws.jsonError(w, r, http.StatusBadRequest, "Invalid request body", err)
			return
		}
		if v := q.Get("variant"); v != "" {
			req.Variant = v
		}
		if f := q.Get("format"); f != "" {
			req.Format = f
		}
		rows = req.Rows
	default:
		w.Header().Set("Allow", "GET, POST")
		ws.jsonError(w, r, http.StatusMethodNotAllowed, "Method not allowed", nil)
		return
	}

	if req.Format != "" && req.Format != "pdf" && req.Format != "html" {
		ws.jsonError(w, r, http.StatusBadRequest, "Unknown format", nil)
		return
	}
	if len(rows) == 0 {
		ws.jsonError(w, r, http.StatusNotFound, "No data found", nil)
		return
	}

	gen, err := ws.generator(req.Variant)
	if err != nil {
		if errors.Is(err, variant.ErrUnknownVariant) {
			ws.jsonError(w, r, http.StatusBadRequest, "Unknown report variant", err)
			return
		}
		ws.jsonError(w, r, http.StatusInternalServerError, "Failed to generate PDF", err)
		return
	}

	period := report.Period{Start: req.DateStart, End: req.DateEnd}
	if req.Format == "html" {
		ws.writeHTML(w, r, gen, rows, period)
		return
	}

	doc, err := gen.Generate(r.Context(), rows, period)
	if err != nil {
		ws.jsonError(w, r, http.StatusInternalServerError, "Failed to generate PDF", err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "application/pdf")
	h.Set("Content-Disposition", `attachment; filename="`+api.Filename(period)+`"`)
	h.Set("Content-Length", strconv.Itoa(len(doc.Data)))
	noCache(h)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Data); err != nil {
		ws.logger.Warn("failed to write report", "err", err, "request_id", requestID(r.Context()))
	}
}

func (ws *WebServer) writeHTML(w http.ResponseWriter, r *http.Request, gen *api.Generator, rows []report.Row, period report.Period) {
	var buf bytes.Buffer
	if err := gen.GenerateHTML(r.Context(), &buf, rows, period); err != nil {
		ws.jsonError(w, r, http.StatusInternalServerError, "Failed to generate preview", err)
		return
	}
	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Content-Length", strconv.Itoa(buf.Len()))
	noCache(h)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func noCache(h http.Header) {
	h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
}

// jsonError logs err and writes the error body. Details are only exposed
// outside production.
func (ws *WebServer) jsonError(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	id := requestID(r.Context())
	resp := ErrorResponse{Error: msg, RequestID: id}
	if err != nil {
		level := ws.logger.Warn
		var re *render.RenderError
		if status >= http.StatusInternalServerError || errors.As(err, &re) {
			level = ws.logger.Error
		}
		level(msg, "err", err, "request_id", id)
		if !ws.cfg.IsProduction() {
			resp.Details = err.Error()
		}
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
