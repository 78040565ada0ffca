package domain

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// AllProducts is the category sentinel that disables category filtering.
const AllProducts = "All Products"

// Product is a catalog entry as published in the CMS. Products are read-only
// on this side.
type Product struct {
	ID                      string           `json:"id"`
	Title                   string           `json:"title"`
	TitleUrdu               string           `json:"title_urdu,omitempty"`
	Slug                    string           `json:"slug"`
	Description             string           `json:"description"`
	DescriptionUrdu         string           `json:"description_urdu,omitempty"`
	DetailedDescription     string           `json:"detailed_description,omitempty"`
	DetailedDescriptionUrdu string           `json:"detailed_description_urdu,omitempty"`
	Price                   *decimal.Decimal `json:"price,omitempty"`
	CompareAtPrice          *decimal.Decimal `json:"compare_at_price,omitempty"`
	Category                string           `json:"category"`
	Tags                    []string         `json:"tags,omitempty"`
	Featured                bool             `json:"featured"`
	InStock                 *bool            `json:"in_stock,omitempty"`
	Images                  []ProductImage   `json:"images"`
	Specifications          []Specification  `json:"specifications,omitempty"`
	Features                []Feature        `json:"features,omitempty"`
	Applications            []string         `json:"applications,omitempty"`
	VideoURL                string           `json:"video_url,omitempty"`
	CreatedAt               time.Time        `json:"created_at,omitempty"`
	UpdatedAt               time.Time        `json:"updated_at,omitempty"`
}

// ProductImage is one entry of a product's image list. The first entry is
// the main image.
type ProductImage struct {
	Ref     ImageRef `json:"image"`
	Alt     string   `json:"alt,omitempty"`
	Caption string   `json:"caption,omitempty"`
}

// Specification is a localized name/value pair.
type Specification struct {
	Name      string `json:"name"`
	NameUrdu  string `json:"name_urdu,omitempty"`
	Value     string `json:"value"`
	ValueUrdu string `json:"value_urdu,omitempty"`
}

// Feature is a localized bullet point. The CMS sends either plain strings or
// {text, textUrdu} objects.
type Feature struct {
	Text     string `json:"text"`
	TextUrdu string `json:"text_urdu,omitempty"`
}

// UnmarshalJSON accepts both feature shapes.
func (f *Feature) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		*f = Feature{}
		return json.Unmarshal(data, &f.Text)
	}
	var obj struct {
		Text          string `json:"text"`
		TextUrdu      string `json:"textUrdu"`
		TextUrduSnake string `json:"text_urdu"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	f.Text = obj.Text
	f.TextUrdu = obj.TextUrdu
	if f.TextUrdu == "" {
		f.TextUrdu = obj.TextUrduSnake
	}
	return nil
}

// MainImage returns the first image, or the zero reference when the product
// has none.
func (p *Product) MainImage() ProductImage {
	if len(p.Images) == 0 {
		return ProductImage{}
	}
	return p.Images[0]
}

// HasPrice reports whether the product shows a price; unpriced products are
// "contact for price".
func (p *Product) HasPrice() bool {
	return p.Price != nil
}

// InStockOrDefault treats a missing flag as in stock.
func (p *Product) InStockOrDefault() bool {
	return p.InStock == nil || *p.InStock
}

// Categories returns the distinct categories of products in first-seen
// order.
func Categories(products []Product) []string {
	seen := make(map[string]struct{}, len(products))
	var out []string
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// FindBySlug returns the product with the given slug.
func FindBySlug(products []Product, slug string) (*Product, bool) {
	for i := range products {
		if products[i].Slug == slug {
			return &products[i], true
		}
	}
	return nil, false
}
