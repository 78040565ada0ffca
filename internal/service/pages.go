package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/catalog/fallback"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/cms"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/contact"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/domain"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/image"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/repository"
	apperrors "github.com/MaazSiddiqui25/Baqir-Sons/pkg/errors"
)

// DefaultPageTTL is how long page documents stay cached.
const DefaultPageTTL = 5 * time.Minute

const defaultAutoSlideInterval = 3

var pageQueries = map[domain.PageKind]string{
	domain.PageHome:    cms.HomePageQuery,
	domain.PageAbout:   cms.AboutPageQuery,
	domain.PageContact: cms.ContactPageQuery,
}

// PageService serves the singleton page documents. Sections the CMS leaves
// empty are filled from the built-in defaults.
type PageService struct {
	fetch  cms.StrategyFunc
	cache  repository.PageCache
	ttl    time.Duration
	images *image.Resolver
	linker *contact.Linker
	logger *slog.Logger
}

// NewPageService creates a new page service. fetch and cache may be nil.
func NewPageService(fetch cms.StrategyFunc, cache repository.PageCache, ttl time.Duration, images *image.Resolver, linker *contact.Linker, logger *slog.Logger) *PageService {
	if ttl <= 0 {
		ttl = DefaultPageTTL
	}
	return &PageService{
		fetch:  fetch,
		cache:  cache,
		ttl:    ttl,
		images: images,
		linker: linker,
		logger: logger,
	}
}

// Home returns the home page with image URLs resolved.
func (s *PageService) Home(ctx context.Context) *domain.HomePage {
	page := loadPage[domain.HomePage](ctx, s, domain.PageHome)
	def := defaultPage[domain.HomePage](domain.PageHome)

	if page.HeroSection.Heading == "" && len(page.HeroSection.CTAButtons) == 0 {
		page.HeroSection = def.HeroSection
	}
	if len(page.Stats) == 0 {
		page.Stats = def.Stats
	}
	if page.AboutSection.Heading == "" && len(page.AboutSection.Features) == 0 {
		ref := page.AboutSection.FactoryImage
		page.AboutSection = def.AboutSection
		page.AboutSection.FactoryImage = ref
	}
	if page.ProductsSection.Heading == "" && len(page.ProductsSection.FeaturedProducts) == 0 {
		page.ProductsSection = def.ProductsSection
	}
	if page.BannerSlider.AutoSlideInterval <= 0 {
		page.BannerSlider.AutoSlideInterval = defaultAutoSlideInterval
	}
	if page.Title == "" {
		page.Title = def.Title
	}

	for i := range page.BannerSlider.Images {
		b := &page.BannerSlider.Images[i]
		b.ImageURL = s.images.Resolve(b.Image, 1200, 500, image.FactoryPlaceholderPath)
	}
	page.AboutSection.FactoryImageURL = s.images.Resolve(page.AboutSection.FactoryImage, 600, 400, image.FactoryPath)
	for i := range page.ProductsSection.FeaturedProducts {
		c := &page.ProductsSection.FeaturedProducts[i]
		c.ImageURL = s.images.Resolve(c.Image, 300, 200, image.FallbackPath(i+1))
	}
	if !page.SEO.OGImage.IsZero() {
		page.SEO.OGImageURL = s.images.Resolve(page.SEO.OGImage, 1200, 630, image.PlaceholderPath)
	}
	return page
}

// About returns the about page.
func (s *PageService) About(ctx context.Context) *domain.AboutPage {
	page := loadPage[domain.AboutPage](ctx, s, domain.PageAbout)
	def := defaultPage[domain.AboutPage](domain.PageAbout)

	if page.Title == "" {
		page.Title = def.Title
	}
	if page.HeroSection.Heading == "" {
		page.HeroSection.Heading = def.HeroSection.Heading
	}
	if page.HeroSection.Description == "" {
		page.HeroSection.Description = def.HeroSection.Description
	}
	if len(page.Mission) == 0 {
		page.Mission = def.Mission
	}
	if len(page.Values) == 0 {
		page.Values = def.Values
	}
	if len(page.Milestones) == 0 {
		page.Milestones = def.Milestones
	}

	if !page.HeroSection.BackgroundImage.IsZero() {
		page.HeroSection.BackgroundImageURL = s.images.Resolve(page.HeroSection.BackgroundImage, 1600, 900, image.FactoryPath)
	}
	for i := range page.Team {
		m := &page.Team[i]
		m.ImageURL = s.images.Resolve(m.Image, 400, 400, image.PlaceholderPath)
	}
	for i := range page.Certifications {
		c := &page.Certifications[i]
		c.ImageURL = s.images.Resolve(c.Image, 200, 200, image.PlaceholderPath)
	}
	return page
}

// Contact returns the contact page with map and chat links.
func (s *PageService) Contact(ctx context.Context) *domain.ContactPage {
	page := loadPage[domain.ContactPage](ctx, s, domain.PageContact)
	def := defaultPage[domain.ContactPage](domain.PageContact)

	if page.Title == "" {
		page.Title = def.Title
	}
	if page.Description == "" {
		page.Description = def.Description
	}
	info := &page.ContactInfo
	if info.Address == "" {
		info.Address = def.ContactInfo.Address
	}
	if info.Phone == "" {
		info.Phone = def.ContactInfo.Phone
	}
	if info.Email == "" {
		info.Email = def.ContactInfo.Email
	}
	if info.WorkingHours == "" {
		info.WorkingHours = def.ContactInfo.WorkingHours
	}

	if page.MapURL == "" {
		page.MapURL = contact.MapsSearchURL(info.Address)
	}
	page.WhatsAppURL = s.linker.TopicLink(contact.TopicServices)
	return page
}

// Invalidate drops the cached document for kind.
func (s *PageService) Invalidate(ctx context.Context, kind domain.PageKind) error {
	if _, ok := pageQueries[kind]; !ok {
		return apperrors.InvalidInput("unknown page " + string(kind))
	}
	if s.cache == nil {
		return nil
	}
	return s.cache.DeletePage(ctx, kind)
}

// raw returns the page document from the cache or the CMS, or nil when
// neither has one.
func (s *PageService) raw(ctx context.Context, kind domain.PageKind) json.RawMessage {
	log := s.logger.With(slog.String("page", string(kind)))

	if s.cache != nil {
		doc, err := s.cache.GetPage(ctx, kind)
		if err == nil {
			return doc
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.WarnContext(ctx, "page cache read failed", slog.String("error", err.Error()))
		}
	}

	if s.fetch == nil {
		return nil
	}
	doc, err := s.fetch(ctx, cms.Page(pageQueries[kind]))
	if err != nil {
		log.WarnContext(ctx, "page fetch failed, using defaults", slog.String("error", err.Error()))
		return nil
	}
	if len(bytes.TrimSpace(doc)) == 0 || string(bytes.TrimSpace(doc)) == "null" {
		return nil
	}

	if s.cache != nil {
		if err := s.cache.SetPage(ctx, kind, doc, s.ttl); err != nil {
			log.WarnContext(ctx, "page cache write failed", slog.String("error", err.Error()))
		}
	}
	return doc
}

// loadPage decodes the live document, or the default when there is none or
// it does not decode.
func loadPage[T any](ctx context.Context, s *PageService, kind domain.PageKind) *T {
	if raw := s.raw(ctx, kind); raw != nil {
		page, err := cms.DecodeDocument[T](raw)
		if err == nil && page != nil {
			return page
		}
		if err != nil {
			s.logger.WarnContext(ctx, "page document did not decode, using defaults",
				slog.String("page", string(kind)),
				slog.String("error", err.Error()),
			)
		}
	}
	return defaultPage[T](kind)
}

func defaultPage[T any](kind domain.PageKind) *T {
	page, err := cms.DecodeDocument[T](fallback.Page(kind))
	if err != nil || page == nil {
		return new(T)
	}
	return page
}
