package http

import (
	"log/slog"
	"net/http"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/service"
	"github.com/MaazSiddiqui25/Baqir-Sons/pkg/httputil"
)

// PageHandler serves the content pages and the media gallery.
type PageHandler struct {
	pages  *service.PageService
	media  *service.MediaService
	logger *slog.Logger
}

// NewPageHandler creates a new page HTTP handler.
func NewPageHandler(pages *service.PageService, media *service.MediaService, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		pages:  pages,
		media:  media,
		logger: logger,
	}
}

// GetHome handles GET /api/v1/pages/home
func (h *PageHandler) GetHome(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.pages.Home(r.Context())})
}

// GetAbout handles GET /api/v1/pages/about
func (h *PageHandler) GetAbout(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.pages.About(r.Context())})
}

// GetContact handles GET /api/v1/pages/contact
func (h *PageHandler) GetContact(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.pages.Contact(r.Context())})
}

// ListMedia handles GET /api/v1/media
// @Summary List gallery items
// @Tags media
// @Produce json
// @Param category query string false "Category, 'All' for every item"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/media [get]
func (h *PageHandler) ListMedia(w http.ResponseWriter, r *http.Request) {
	res := h.media.List(r.URL.Query().Get("category"))
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: res.Items,
		Meta: map[string]any{
			"category":   res.Category,
			"categories": res.Categories,
		},
	})
}
