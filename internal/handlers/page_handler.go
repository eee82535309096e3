package handlers

import (
	_ "embed"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/maadv/parecer/internal/common"
)

//go:embed index.html
var indexPage []byte

type PageHandler struct {
	logger arbor.ILogger
}

func NewPageHandler() *PageHandler {
	return &PageHandler{
		logger: common.GetLogger(),
	}
}

// IndexHandler serves the landing page. Any other path under / is a
// JSON 404 so API clients never receive HTML by accident.
func (h *PageHandler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteJSON(w, http.StatusNotFound, map[string]interface{}{
			"error":   "Not Found",
			"path":    r.URL.Path,
			"message": "The requested endpoint does not exist",
		})
		return
	}
	if !RequireMethod(w, r, "GET") {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(indexPage)
}
