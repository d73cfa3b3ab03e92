package catalog

import (
	"log/slog"
	"net/http"

	"github.com/chakulahub/chakula-api/internal/api"
	"github.com/chakulahub/chakula-api/internal/api/auth"
)

type CatalogHandler struct {
	CatalogService CatalogService
	logger         *slog.Logger
}

func NewCatalogHandler(catalogService CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		logger:         logger,
		CatalogService: catalogService,
	}
}

// ListCategories handles GET /catalog/categories. Runs behind the optional
// gate: an authenticated caller's language preference wins over the ?lang=
// query parameter; anonymous callers default to en.
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	lang := "en"
	if q := r.URL.Query().Get("lang"); q == "sw" {
		lang = "sw"
	}
	if identity, ok := auth.IdentityFromContext(r.Context()); ok && identity.Language != "" {
		lang = identity.Language
	}

	categories, err := h.CatalogService.ListCategories(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "List categories failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, api.MsgInternalError)
		return
	}

	api.DataResponse(w, r, http.StatusOK, map[string]interface{}{
		"language":   lang,
		"categories": categories,
	})
}
