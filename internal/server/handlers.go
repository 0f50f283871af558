package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"DrawdownLens/internal/model"
	"DrawdownLens/internal/service"
	"DrawdownLens/internal/symbols"
)

// successRateRequest is the body of POST /api/analyze-success-rate.
type successRateRequest struct {
	Ticker string   `json:"ticker" validate:"required,max=20"`
	Target *float64 `json:"target" validate:"omitempty,gt=0,lte=100"`
}

// analyzeForm is the form posted to /analyze_stock.
type analyzeForm struct {
	Ticker string  `validate:"required,max=20"`
	Target float64 `validate:"gt=0,lte=100"`
}

// pageData feeds templates/index.html.
type pageData struct {
	Symbol        string
	Target        float64
	Error         string
	Analysis      *service.Analysis
	DefaultTarget float64
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	if data.DefaultTarget == 0 {
		data.DefaultTarget = s.opts.FormDefaultTarget
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.Error("failed to render page",
			zap.String("correlation_id", correlationID(r.Context())),
			zap.Error(err))
	}
}

// handleIndex serves GET /.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, pageData{})
}

// handleAnalyzeStock serves POST /analyze_stock.
func (s *Server) handleAnalyzeStock(w http.ResponseWriter, r *http.Request) {
	form := analyzeForm{
		Ticker: strings.ToUpper(strings.TrimSpace(r.FormValue("stock_symbol"))),
		Target: s.opts.FormDefaultTarget,
	}
	data := pageData{Symbol: form.Ticker, Target: form.Target}

	if raw := strings.TrimSpace(r.FormValue("target_increase_pct")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			data.Error = (&model.ValidationError{Field: "target", Reason: "must be a number"}).Error()
			s.render(w, r, http.StatusBadRequest, data)
			return
		}
		form.Target = v
		data.Target = v
	}
	if err := s.validate.Struct(form); err != nil {
		_, data.Error = statusFor(validationError(err))
		s.render(w, r, http.StatusBadRequest, data)
		return
	}

	analysis, err := s.analyzer.Analyze(r.Context(), form.Ticker, form.Target)
	if err != nil {
		status, msg := statusFor(err)
		s.logFailure(r, form.Ticker, status, err)
		data.Error = msg
		s.render(w, r, status, data)
		return
	}
	data.Analysis = analysis
	s.render(w, r, http.StatusOK, data)
}

// handleSuccessRate serves POST /api/analyze-success-rate.
func (s *Server) handleSuccessRate(w http.ResponseWriter, r *http.Request) {
	var req successRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "request body must be JSON with a ticker"})
		return
	}
	req.Ticker = strings.ToUpper(strings.TrimSpace(req.Ticker))
	if err := s.validate.Struct(req); err != nil {
		_, msg := statusFor(validationError(err))
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: msg})
		return
	}
	target := s.opts.DefaultTarget
	if req.Target != nil {
		target = *req.Target
	}

	table, err := s.analyzer.SuccessRates(r.Context(), req.Ticker, target)
	if err != nil {
		status, msg := statusFor(err)
		s.logFailure(r, req.Ticker, status, err)
		writeJSON(w, r, status, errorResponse{Error: msg})
		return
	}
	writeJSON(w, r, http.StatusOK, table)
}

// handleSearchStock serves GET /search_stock?q=.
func (s *Server) handleSearchStock(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 50 {
		limit = symbols.DefaultLimit
	}
	writeJSON(w, r, http.StatusOK, s.symbols.Search(r.URL.Query().Get("q"), limit))
}

// handleHealth serves GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":   "ok",
		"provider": s.opts.Provider,
		"symbols":  s.symbols.Len(),
	})
}

func (s *Server) logFailure(r *http.Request, ticker string, status int, err error) {
	log := s.logger.Warn
	if status >= 500 {
		log = s.logger.Error
	}
	log("analysis failed",
		zap.String("correlation_id", correlationID(r.Context())),
		zap.String("symbol", ticker),
		zap.Int("status", status),
		zap.Error(err))
}
