package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/domain"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/service"
	"github.com/MaazSiddiqui25/Baqir-Sons/pkg/httputil"
	"github.com/MaazSiddiqui25/Baqir-Sons/pkg/middleware"
	"github.com/MaazSiddiqui25/Baqir-Sons/pkg/validator"
)

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.CatalogService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// ListProducts handles GET /api/v1/products
// @Summary List products
// @Description Filters, sorts and paginates the catalog. The catalog meta
// @Description carries an error message whenever the data is not live.
// @Tags products
// @Produce json
// @Param category query string false "Category, 'All Products' for every category"
// @Param search query string false "Substring of title or description"
// @Param sort query string false "Sort order" Enums(featured,price-asc,price-desc,name-asc,newest)
// @Param page query int false "Page number" default(1)
// @Param lang query string false "Language" Enums(en,ur)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/products [get]
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var in service.ListInput
	if err := validator.DecodeQueryAndValidate(r.URL.Query(), &in); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	t := middleware.StartTiming(r.Context(), "catalog", "catalog load")
	res := h.service.List(r.Context(), in)
	t.Stop()

	lang := domain.NormalizeLang(in.Lang)
	resp := httputil.NewPaginatedResponse(
		toProductResponses(res.Products, lang),
		res.View.TotalCount,
		res.View.Page,
		res.View.PageSize,
		res.View.PageNumbers,
	)
	resp.Meta = ListMeta{
		Catalog:    toCatalogMeta(res.Catalog),
		Filters:    res.State,
		Layout:     res.View.Layout,
		Categories: res.Categories,
		Sorts:      sortOptions(),
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// GetProduct handles GET /api/v1/products/{slug}
// @Summary Get product by slug
// @Tags products
// @Produce json
// @Param slug path string true "Product URL slug"
// @Param lang query string false "Language" Enums(en,ur)
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/products/{slug} [get]
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	lang := r.URL.Query().Get("lang")
	if lang != "" && lang != domain.LangEnglish && lang != domain.LangUrdu {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "lang must be one of: en, ur"},
		})
		return
	}

	t := middleware.StartTiming(r.Context(), "detail", "product detail")
	detail, err := h.service.Detail(r.Context(), slug, lang)
	t.Stop()
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: toProductDetailResponse(detail)})
}

// ListFeatured handles GET /api/v1/products/featured
func (h *ProductHandler) ListFeatured(w http.ResponseWriter, r *http.Request) {
	lang := domain.NormalizeLang(r.URL.Query().Get("lang"))
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: toProductResponses(h.service.Featured(r.Context()), lang),
	})
}

// ListCategories handles GET /api/v1/categories
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.service.Categories(r.Context())})
}
