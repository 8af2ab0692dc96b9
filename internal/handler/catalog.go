package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matthewbaird/crisis/internal/catalog"
	"github.com/matthewbaird/crisis/internal/types"
)

// CatalogHandler serves the loaded indicator catalog read-only.
type CatalogHandler struct {
	catalog *catalog.Catalog
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

type catalogResponse struct {
	Count      int                     `json:"count"`
	Indicators []types.CrisisIndicator `json:"indicators"`
}

// HandleList returns every indicator in catalog order.
// GET /v1/catalog
func (h *CatalogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	inds := h.catalog.Indicators()
	writeJSON(w, http.StatusOK, catalogResponse{Count: len(inds), Indicators: inds})
}

// HandleCategory returns the indicators in one category.
// GET /v1/catalog/categories/{category}
func (h *CatalogHandler) HandleCategory(w http.ResponseWriter, r *http.Request) {
	cat := types.Category(chi.URLParam(r, "category"))
	if !cat.Valid() {
		writeError(w, http.StatusNotFound, "UNKNOWN_CATEGORY", "unknown category: "+string(cat))
		return
	}
	inds := h.catalog.ByCategory(cat)
	writeJSON(w, http.StatusOK, catalogResponse{Count: len(inds), Indicators: inds})
}
