package server

import "net/http"

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Suggestion pipeline
	mux.HandleFunc("/v1/trading-suggestions", s.app.SuggestionsHandler.HandleGenerate)
	mux.HandleFunc("/api/suggestions/history", func(w http.ResponseWriter, r *http.Request) {
		RouteByMethod(w, r, MethodRouter{
			http.MethodGet:  s.app.SuggestionsHandler.HandleHistory,
			http.MethodHead: s.app.SuggestionsHandler.HandleHistory,
		})
	})

	// MCP endpoint (JSON-RPC over HTTP)
	if s.app.MCPHandler != nil {
		mux.Handle("/mcp", s.app.MCPHandler)
	}

	// API routes
	mux.HandleFunc("/api/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", s.app.VersionHandler.ServeHTTP)
	mux.HandleFunc("/api/upstream-health", s.app.UpstreamHealthHandler.ServeHTTP)

	// 404 handler for unmatched routes
	mux.HandleFunc("/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"status":"error","error":"The requested endpoint does not exist"}`))
}
