package service

import (
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/catalog/fallback"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/domain"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/image"
)

// MediaResult is the filtered gallery.
type MediaResult struct {
	Items      []domain.MediaItem
	Categories []string
	Category   string
}

// MediaService serves the media gallery.
type MediaService struct {
	items  []domain.MediaItem
	images *image.Resolver
}

// NewMediaService creates a media service over the built-in gallery.
func NewMediaService(images *image.Resolver) *MediaService {
	return &MediaService{items: fallback.Media(), images: images}
}

// List returns the items in category; empty or "All" returns everything.
func (s *MediaService) List(category string) *MediaResult {
	if category == "" {
		category = domain.AllMedia
	}
	filtered := domain.FilterMedia(s.items, category)
	items := make([]domain.MediaItem, len(filtered))
	for i, it := range filtered {
		it.ImageURL = s.images.Resolve(it.Image, 0, 0, image.PlaceholderPath)
		items[i] = it
	}
	return &MediaResult{
		Items:      items,
		Categories: domain.MediaCategories(s.items),
		Category:   category,
	}
}
