package handler

import (
	"net/http"

	"github.com/bcnelson/styla-directory/internal/directory"
	"github.com/bcnelson/styla-directory/internal/domain"
	"github.com/sirupsen/logrus"
)

// SearchHandler handles directory search.
type SearchHandler struct {
	engine *directory.Engine
	log    logrus.FieldLogger
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(engine *directory.Engine, log logrus.FieldLogger) *SearchHandler {
	return &SearchHandler{engine: engine, log: log}
}

// Search runs a directory query. Backend failures produce an empty result.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var q domain.SearchQuery
	if !decodeAndValidate(w, r, &q) {
		return
	}

	results := h.engine.Search(r.Context(), q)
	respondJSON(w, http.StatusOK, &domain.SearchResponse{Results: results, Count: len(results)})
}
