package server

import "net/http"

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// HTML form
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /analyze_stock", s.handleAnalyzeStock)
	mux.HandleFunc("GET /search_stock", s.handleSearchStock)

	// API routes
	mux.HandleFunc("POST /api/analyze-success-rate", s.handleSuccessRate)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched API routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusNotFound, errorResponse{Error: "the requested endpoint does not exist"})
}
