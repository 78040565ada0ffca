package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/catalog"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/domain"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/image"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/listing"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/service"
)

// --- Response DTOs ---

// ProductResponse is a product card.
type ProductResponse struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Slug           string           `json:"slug"`
	Description    string           `json:"description"`
	Price          *decimal.Decimal `json:"price"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price,omitempty"`
	Category       string           `json:"category"`
	Tags           []string         `json:"tags,omitempty"`
	Featured       bool             `json:"featured"`
	InStock        bool             `json:"in_stock"`
	ImageURL       string           `json:"image_url"`
	ImageAlt       string           `json:"image_alt"`
	Image          image.Responsive `json:"image"`
}

// SpecificationResponse is a localized specification row.
type SpecificationResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ImageResponse is a resolved gallery image.
type ImageResponse struct {
	URL     string `json:"url"`
	Alt     string `json:"alt"`
	Caption string `json:"caption,omitempty"`
}

// ProductDetailResponse is the product page payload.
type ProductDetailResponse struct {
	ProductResponse
	Lang                string                  `json:"lang"`
	DetailedDescription string                  `json:"detailed_description,omitempty"`
	Images              []ImageResponse         `json:"images"`
	Specifications      []SpecificationResponse `json:"specifications"`
	Features            []string                `json:"features"`
	Applications        []string                `json:"applications,omitempty"`
	VideoURL            string                  `json:"video_url,omitempty"`
	Recommended         []ProductResponse       `json:"recommended"`
	InquiryURL          string                  `json:"inquiry_url"`
	Source              string                  `json:"source"`
}

// CatalogMeta tells the client where the listed products came from. Error
// is set whenever the data is not live.
type CatalogMeta struct {
	Source     domain.Source   `json:"source"`
	Strategy   domain.Strategy `json:"strategy,omitempty"`
	Error      string          `json:"error,omitempty"`
	FetchedAt  *time.Time      `json:"fetched_at,omitempty"`
	Generation uint64          `json:"generation"`
}

// ListMeta accompanies a product page.
type ListMeta struct {
	Catalog    CatalogMeta         `json:"catalog"`
	Filters    listing.FilterState `json:"filters"`
	Layout     listing.Layout      `json:"layout"`
	Categories []string            `json:"categories"`
	Sorts      []SortOption        `json:"sorts"`
}

// SortOption is a sort dropdown entry.
type SortOption struct {
	Value listing.Sort `json:"value"`
	Label string       `json:"label"`
}

// RefreshResponse reports the outcome of a forced refresh.
type RefreshResponse struct {
	Catalog      CatalogMeta    `json:"catalog"`
	ProductCount int            `json:"product_count"`
	Status       catalog.Status `json:"status"`
}

// --- Mappers ---

func toProductResponse(s service.ProductSummary, lang string) ProductResponse {
	p := s.Product
	return ProductResponse{
		ID:             p.ID,
		Title:          domain.Localized(p.Title, p.TitleUrdu, lang),
		Slug:           p.Slug,
		Description:    domain.Localized(p.Description, p.DescriptionUrdu, lang),
		Price:          p.Price,
		CompareAtPrice: p.CompareAtPrice,
		Category:       p.Category,
		Tags:           p.Tags,
		Featured:       p.Featured,
		InStock:        p.InStockOrDefault(),
		ImageURL:       s.ImageURL,
		ImageAlt:       s.ImageAlt,
		Image:          s.Image,
	}
}

func toProductResponses(items []service.ProductSummary, lang string) []ProductResponse {
	out := make([]ProductResponse, len(items))
	for i, s := range items {
		out[i] = toProductResponse(s, lang)
	}
	return out
}

func toProductDetailResponse(d *service.ProductDetail) ProductDetailResponse {
	p := d.Product
	card := service.ProductSummary{Product: p}
	if len(d.Images) > 0 {
		card.ImageURL = d.Images[0].URL
		card.ImageAlt = d.Images[0].Alt
		card.Image = image.Responsive{Src: d.Images[0].URL, Sizes: "100vw"}
	}

	resp := ProductDetailResponse{
		ProductResponse:     toProductResponse(card, d.Lang),
		Lang:                d.Lang,
		DetailedDescription: domain.Localized(p.DetailedDescription, p.DetailedDescriptionUrdu, d.Lang),
		Images:              make([]ImageResponse, len(d.Images)),
		Specifications:      make([]SpecificationResponse, len(p.Specifications)),
		Features:            make([]string, len(p.Features)),
		Applications:        p.Applications,
		VideoURL:            p.VideoURL,
		Recommended:         toProductResponses(d.Recommended, d.Lang),
		InquiryURL:          d.InquiryURL,
		Source:              d.Source,
	}
	for i, img := range d.Images {
		resp.Images[i] = ImageResponse(img)
	}
	for i, s := range p.Specifications {
		resp.Specifications[i] = SpecificationResponse{
			Name:  domain.Localized(s.Name, s.NameUrdu, d.Lang),
			Value: domain.Localized(s.Value, s.ValueUrdu, d.Lang),
		}
	}
	for i, f := range p.Features {
		resp.Features[i] = domain.Localized(f.Text, f.TextUrdu, d.Lang)
	}
	return resp
}

func toCatalogMeta(res *domain.CatalogResult) CatalogMeta {
	m := CatalogMeta{
		Source:     res.Source,
		Strategy:   res.Strategy,
		Error:      res.Error,
		Generation: res.Generation,
	}
	if !res.FetchedAt.IsZero() {
		t := res.FetchedAt
		m.FetchedAt = &t
	}
	return m
}

func sortOptions() []SortOption {
	out := make([]SortOption, len(listing.Sorts))
	for i, s := range listing.Sorts {
		out[i] = SortOption{Value: s, Label: s.Label()}
	}
	return out
}
