package http

import (
	"log/slog"
	"net/http"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/service"
	"github.com/MaazSiddiqui25/Baqir-Sons/pkg/httputil"
	"github.com/MaazSiddiqui25/Baqir-Sons/pkg/middleware"
)

// CatalogHandler exposes catalog load state and the admin refresh.
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: svc,
		logger:  logger,
	}
}

// GetStatus handles GET /api/v1/catalog/status
func (h *CatalogHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.service.Status()})
}

// Refresh handles POST /api/v1/catalog/refresh
// @Summary Force a fresh catalog load
// @Tags catalog
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 429 {object} map[string]interface{}
// @Router /api/v1/catalog/refresh [post]
func (h *CatalogHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	subject := ""
	if claims != nil {
		subject = claims.Subject
	}
	h.logger.InfoContext(r.Context(), "manual catalog refresh", slog.String("subject", subject))

	t := middleware.StartTiming(r.Context(), "refresh", "forced catalog load")
	res := h.service.Refresh(r.Context())
	t.Stop()

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: RefreshResponse{
		Catalog:      toCatalogMeta(res),
		ProductCount: len(res.Products),
		Status:       h.service.Status(),
	}})
}
