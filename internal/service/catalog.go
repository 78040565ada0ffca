package service

import (
	"context"
	"log/slog"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/catalog"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/catalog/fallback"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/cms"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/contact"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/domain"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/image"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/listing"
	apperrors "github.com/MaazSiddiqui25/Baqir-Sons/pkg/errors"
)

// Rendered image sizes.
const (
	listImageWidth    = 400
	listImageHeight   = 300
	detailImageWidth  = 800
	detailImageHeight = 600
)

const (
	// MaxFeatured caps the featured product list.
	MaxFeatured = 6
	// MaxRecommended caps the recommendations on a detail page.
	MaxRecommended = 3
)

// CatalogLoader is the part of catalog.Loader the service uses.
type CatalogLoader interface {
	Current(ctx context.Context) *domain.CatalogResult
	Load(ctx context.Context, forceFresh bool) *domain.CatalogResult
	Status() catalog.Status
}

// ListInput holds the query parameters of a product listing.
type ListInput struct {
	Category string `query:"category" validate:"max=100"`
	Search   string `query:"search" validate:"max=200"`
	Sort     string `query:"sort" validate:"omitempty,oneof=featured price-asc price-desc name-asc newest"`
	Page     int    `query:"page" validate:"omitempty,gte=1"`
	Lang     string `query:"lang" validate:"omitempty,oneof=en ur"`
}

// ProductSummary is a product with its card image resolved.
type ProductSummary struct {
	Product  domain.Product
	ImageURL string
	ImageAlt string
	Image    image.Responsive
}

// ListResult is one page of the catalog.
type ListResult struct {
	Products   []ProductSummary
	View       listing.View
	State      listing.FilterState
	Catalog    *domain.CatalogResult
	Categories []string
}

// ResolvedImage is a product image with its URL.
type ResolvedImage struct {
	URL     string
	Alt     string
	Caption string
}

// ProductDetail is everything the product page shows.
type ProductDetail struct {
	Product     domain.Product
	Lang        string
	Images      []ResolvedImage
	Recommended []ProductSummary
	InquiryURL  string
	Source      string
}

// Detail sources.
const (
	DetailSourceCMS      = "cms"
	DetailSourceFallback = "fallback"
	DetailSourceCatalog  = "catalog"
)

// CatalogService implements the product catalog read operations.
type CatalogService struct {
	loader CatalogLoader
	fetch  cms.StrategyFunc
	images *image.Resolver
	linker *contact.Linker
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service. fetch runs the detail,
// category and featured queries; a nil fetch answers everything from the
// loaded catalog.
func NewCatalogService(loader CatalogLoader, fetch cms.StrategyFunc, images *image.Resolver, linker *contact.Linker, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		loader: loader,
		fetch:  fetch,
		images: images,
		linker: linker,
		logger: logger,
	}
}

// List filters, sorts and paginates the current catalog.
func (s *CatalogService) List(ctx context.Context, in ListInput) *ListResult {
	state := listing.FilterState{
		Category: in.Category,
		Search:   in.Search,
		Sort:     listing.Sort(in.Sort),
		Page:     in.Page,
	}
	if state.Category == "" {
		state.Category = domain.AllProducts
	}
	if state.Sort == "" {
		state.Sort = listing.DefaultSort
	}
	if state.Page == 0 {
		state.Page = 1
	}

	res := s.loader.Current(ctx)
	view := listing.Derive(res.Products, state)
	state.Page = view.Page

	offset := (view.Page - 1) * view.PageSize
	summaries := make([]ProductSummary, len(view.Visible))
	for i := range view.Visible {
		summaries[i] = s.summarize(view.Visible[i], offset+i+1)
	}

	return &ListResult{
		Products:   summaries,
		View:       view,
		State:      state,
		Catalog:    res,
		Categories: withSentinel(domain.Categories(res.Products)),
	}
}

// summarize resolves the card image; position picks the static fallback.
func (s *CatalogService) summarize(p domain.Product, position int) ProductSummary {
	main := p.MainImage()
	fb := image.FallbackPath(position)
	alt := main.Alt
	if alt == "" {
		alt = p.Title
	}
	return ProductSummary{
		Product:  p,
		ImageURL: s.images.Resolve(main.Ref, listImageWidth, listImageHeight, fb),
		ImageAlt: alt,
		Image:    s.images.Responsive(main.Ref, fb),
	}
}

// Detail returns the product for slug. It asks the CMS first, then the
// bilingual sample details, then the loaded catalog.
func (s *CatalogService) Detail(ctx context.Context, slug, lang string) (*ProductDetail, error) {
	if slug == "" {
		return nil, apperrors.InvalidInput("slug is required")
	}
	lang = domain.NormalizeLang(lang)

	product, source := s.fromCMS(ctx, slug), DetailSourceCMS
	if product == nil {
		if p, ok := fallback.Detail(slug); ok {
			product, source = p, DetailSourceFallback
		}
	}
	current := s.loader.Current(ctx)
	if product == nil {
		if p, ok := domain.FindBySlug(current.Products, slug); ok {
			cp := *p
			product, source = &cp, DetailSourceCatalog
		}
	}
	if product == nil {
		return nil, apperrors.NotFound("product", slug)
	}

	images := make([]ResolvedImage, 0, len(product.Images))
	for i, img := range product.Images {
		images = append(images, ResolvedImage{
			URL:     s.images.Resolve(img.Ref, detailImageWidth, detailImageHeight, image.FallbackPath(i+1)),
			Alt:     img.Alt,
			Caption: img.Caption,
		})
	}
	if len(images) == 0 {
		images = append(images, ResolvedImage{URL: image.FallbackPath(1), Alt: product.Title})
	}

	recs := Recommend(current.Products, product, MaxRecommended)
	recommended := make([]ProductSummary, len(recs))
	for i, r := range recs {
		recommended[i] = s.summarize(r, i+1)
	}

	return &ProductDetail{
		Product:     *product,
		Lang:        lang,
		Images:      images,
		Recommended: recommended,
		InquiryURL:  s.linker.ProductLink(product, lang),
		Source:      source,
	}, nil
}

func (s *CatalogService) fromCMS(ctx context.Context, slug string) *domain.Product {
	if s.fetch == nil {
		return nil
	}
	raw, err := s.fetch(ctx, cms.ProductBySlug(slug))
	if err != nil {
		s.logger.WarnContext(ctx, "product detail fetch failed",
			slog.String("slug", slug),
			slog.String("error", err.Error()),
		)
		return nil
	}
	p, err := cms.DecodeProduct(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "product detail decode failed",
			slog.String("slug", slug),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return p
}

// Recommend picks up to limit products in the same category as p or
// featured, excluding p itself, in catalog order.
func Recommend(products []domain.Product, p *domain.Product, limit int) []domain.Product {
	out := make([]domain.Product, 0, limit)
	for _, c := range products {
		if len(out) == limit {
			break
		}
		if c.ID == p.ID || (c.Slug != "" && c.Slug == p.Slug) {
			continue
		}
		if (p.Category != "" && c.Category == p.Category) || c.Featured {
			out = append(out, c)
		}
	}
	return out
}

// Categories lists the category filter options, sentinel first. The CMS
// list is preferred; the loaded catalog fills in when it is unavailable.
func (s *CatalogService) Categories(ctx context.Context) []string {
	if s.fetch != nil {
		raw, err := s.fetch(ctx, cms.Categories())
		if err == nil {
			cats, derr := cms.DecodeStrings(raw)
			if derr == nil && len(cats) > 0 {
				return withSentinel(cats)
			}
			err = derr
		}
		if err != nil {
			s.logger.DebugContext(ctx, "categories query failed, deriving from catalog",
				slog.String("error", err.Error()),
			)
		}
	}
	return withSentinel(domain.Categories(s.loader.Current(ctx).Products))
}

func withSentinel(categories []string) []string {
	out := make([]string, 0, len(categories)+1)
	out = append(out, domain.AllProducts)
	seen := map[string]struct{}{domain.AllProducts: {}}
	for _, c := range categories {
		if _, ok := seen[c]; ok || c == "" {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Featured returns up to MaxFeatured featured products.
func (s *CatalogService) Featured(ctx context.Context) []ProductSummary {
	var products []domain.Product
	if s.fetch != nil {
		raw, err := s.fetch(ctx, cms.FeaturedProducts())
		if err == nil {
			products, _, err = cms.DecodeProducts(raw)
		}
		if err != nil {
			s.logger.DebugContext(ctx, "featured query failed, filtering catalog",
				slog.String("error", err.Error()),
			)
			products = nil
		}
	}
	if products == nil {
		for _, p := range s.loader.Current(ctx).Products {
			if p.Featured {
				products = append(products, p)
			}
		}
	}

	if len(products) > MaxFeatured {
		products = products[:MaxFeatured]
	}
	out := make([]ProductSummary, len(products))
	for i, p := range products {
		out[i] = s.summarize(p, i+1)
	}
	return out
}

// Refresh forces a fresh catalog load.
func (s *CatalogService) Refresh(ctx context.Context) *domain.CatalogResult {
	res := s.loader.Load(ctx, true)
	s.logger.InfoContext(ctx, "catalog refresh requested",
		slog.String("source", string(res.Source)),
		slog.Uint64("generation", res.Generation),
	)
	return res
}

// Status reports what the catalog is serving.
func (s *CatalogService) Status() catalog.Status {
	return s.loader.Status()
}
