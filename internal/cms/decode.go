package cms

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/domain"
	"github.com/MaazSiddiqui25/Baqir-Sons/pkg/slug"
)

// ErrEmptyResult is returned when a list query answers null.
var ErrEmptyResult = errors.New("cms returned an empty result")

// slugField accepts {"current": "..."} or a bare string.
type slugField string

func (s *slugField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = slugField(v)
		return nil
	}
	var obj struct {
		Current string `json:"current"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}
	*s = slugField(obj.Current)
	return nil
}

type wireImage struct {
	Image   domain.ImageRef `json:"image"`
	Alt     string          `json:"alt"`
	Caption string          `json:"caption"`
}

type wireSpec struct {
	Name      string `json:"name"`
	NameUrdu  string `json:"nameUrdu"`
	Value     string `json:"value"`
	ValueUrdu string `json:"valueUrdu"`
}

// wireProduct is a product as projected by the queries in this package.
type wireProduct struct {
	ID                      string           `json:"_id"`
	Title                   string           `json:"title"`
	TitleUrdu               string           `json:"titleUrdu"`
	Slug                    slugField        `json:"slug"`
	Description             string           `json:"description"`
	DescriptionUrdu         string           `json:"descriptionUrdu"`
	DetailedDescription     string           `json:"detailedDescription"`
	DetailedDescriptionUrdu string           `json:"detailedDescriptionUrdu"`
	Price                   *decimal.Decimal `json:"price"`
	CompareAtPrice          *decimal.Decimal `json:"compareAtPrice"`
	MainImage               *wireImage       `json:"mainImage"`
	Gallery                 []wireImage      `json:"gallery"`
	Category                string           `json:"category"`
	Tags                    []string         `json:"tags"`
	Featured                bool             `json:"featured"`
	InStock                 *bool            `json:"inStock"`
	Specifications          []wireSpec       `json:"specifications"`
	Features                []domain.Feature `json:"features"`
	Applications            domain.RichText  `json:"applications"`
	VideoURL                string           `json:"videoUrl"`
	CreatedAt               *time.Time       `json:"_createdAt"`
	UpdatedAt               *time.Time       `json:"_updatedAt"`
}

func (w *wireProduct) toDomain() domain.Product {
	p := domain.Product{
		ID:                      w.ID,
		Title:                   w.Title,
		TitleUrdu:               w.TitleUrdu,
		Slug:                    string(w.Slug),
		Description:             w.Description,
		DescriptionUrdu:         w.DescriptionUrdu,
		DetailedDescription:     w.DetailedDescription,
		DetailedDescriptionUrdu: w.DetailedDescriptionUrdu,
		Price:                   w.Price,
		CompareAtPrice:          w.CompareAtPrice,
		Category:                w.Category,
		Tags:                    w.Tags,
		Featured:                w.Featured,
		InStock:                 w.InStock,
		Features:                w.Features,
		Applications:            w.Applications,
		VideoURL:                w.VideoURL,
	}
	if p.Slug == "" {
		p.Slug = slug.Generate(p.Title)
	}
	if w.CreatedAt != nil {
		p.CreatedAt = *w.CreatedAt
	}
	if w.UpdatedAt != nil {
		p.UpdatedAt = *w.UpdatedAt
	}

	if w.MainImage != nil {
		p.Images = append(p.Images, domain.ProductImage{Ref: w.MainImage.Image, Alt: w.MainImage.Alt, Caption: w.MainImage.Caption})
	}
	for _, g := range w.Gallery {
		p.Images = append(p.Images, domain.ProductImage{Ref: g.Image, Alt: g.Alt, Caption: g.Caption})
	}

	for _, s := range w.Specifications {
		p.Specifications = append(p.Specifications, domain.Specification(s))
	}
	return p
}

// DecodeProducts decodes a product list result. A null result is
// ErrEmptyResult and anything but an array is an error. Items that do not
// decode are skipped and counted.
func DecodeProducts(raw json.RawMessage) (products []domain.Product, skipped int, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, 0, ErrEmptyResult
	}
	if raw[0] != '[' {
		return nil, 0, fmt.Errorf("decode products: result is not an array")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, 0, fmt.Errorf("decode products: %w", err)
	}

	products = make([]domain.Product, 0, len(items))
	for _, item := range items {
		var w wireProduct
		if err := json.Unmarshal(item, &w); err != nil {
			skipped++
			continue
		}
		products = append(products, w.toDomain())
	}
	return products, skipped, nil
}

// DecodeProduct decodes a single product result. A null result is (nil, nil).
func DecodeProduct(raw json.RawMessage) (*domain.Product, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var w wireProduct
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}
	p := w.toDomain()
	return &p, nil
}

// DecodeDocument decodes a singleton document result into T. A null result
// is (nil, nil).
func DecodeDocument[T any](raw json.RawMessage) (*T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	doc := new(T)
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// DecodeStrings decodes a result that is a list of strings, such as the
// category list.
func DecodeStrings(raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode strings: %w", err)
	}
	return out, nil
}
