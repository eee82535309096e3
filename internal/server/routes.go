package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Landing page (also the JSON 404 for unknown paths)
	mux.HandleFunc("/", s.app.PageHandler.IndexHandler)

	// Analysis pipeline
	mux.HandleFunc("/analisar", s.app.AnalysisHandler.AnalisarHandler) // POST - dispatch async analysis
	mux.HandleFunc("/status/", s.app.StatusHandler.StatusHandler)      // GET /status/{task_id}

	// Document rendering (the legacy path is an alias, same payload)
	mux.HandleFunc("/gerar_documento", s.app.DocumentHandler.GerarDocumentoHandler)
	mux.HandleFunc("/gerar_docx", s.app.DocumentHandler.GerarDocumentoHandler)

	// API routes - System
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/jobs/stats", s.app.StatusHandler.JobStatsHandler)

	return mux
}
