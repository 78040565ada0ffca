// Package listing turns a product list into one page of search results.
package listing

import (
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/domain"
	"github.com/MaazSiddiqui25/Baqir-Sons/pkg/pagination"
)

// Sort is a product ordering.
type Sort string

const (
	SortFeatured  Sort = "featured"
	SortPriceAsc  Sort = "price-asc"
	SortPriceDesc Sort = "price-desc"
	SortNameAsc   Sort = "name-asc"
	SortNewest    Sort = "newest"
)

// DefaultSort is used when no sort is requested.
const DefaultSort = SortFeatured

// Sorts lists the supported orderings in display order.
var Sorts = []Sort{SortFeatured, SortPriceAsc, SortPriceDesc, SortNewest, SortNameAsc}

// Label is the human-readable name of s.
func (s Sort) Label() string {
	switch s {
	case SortFeatured:
		return "Featured First"
	case SortPriceAsc:
		return "Price: Low to High"
	case SortPriceDesc:
		return "Price: High to Low"
	case SortNewest:
		return "Newest First"
	case SortNameAsc:
		return "A to Z"
	default:
		return string(s)
	}
}

// Valid reports whether s is a supported ordering.
func (s Sort) Valid() bool {
	return slices.Contains(Sorts, s)
}

// Layout hints how many columns the visible page fills.
type Layout string

const (
	LayoutSingle Layout = "single"
	LayoutPair   Layout = "pair"
	LayoutTriple Layout = "triple"
	LayoutQuad   Layout = "quad"
	LayoutGrid   Layout = "grid"
)

// LayoutFor picks the layout for n visible products.
func LayoutFor(n int) Layout {
	switch {
	case n == 1:
		return LayoutSingle
	case n == 2:
		return LayoutPair
	case n == 3:
		return LayoutTriple
	case n <= 4:
		return LayoutQuad
	default:
		return LayoutGrid
	}
}

// FilterState is what a visitor has selected.
type FilterState struct {
	Category string `json:"category"`
	Search   string `json:"search"`
	Sort     Sort   `json:"sort"`
	Page     int    `json:"page"`
}

// View is one rendered page of results.
type View struct {
	Visible     []domain.Product `json:"visible"`
	TotalCount  int              `json:"total_count"`
	PageSize    int              `json:"page_size"`
	Page        int              `json:"page"`
	TotalPages  int              `json:"total_pages"`
	Layout      Layout           `json:"layout"`
	PageNumbers []int            `json:"page_numbers"`
}

// PageSize returns the page size for n matching products: all of them up to
// four, eight up to twelve, twelve beyond that.
func PageSize(n int) int {
	switch {
	case n <= 4:
		return n
	case n <= 12:
		return 8
	default:
		return 12
	}
}

// IsAllCategories reports whether category selects every product.
func IsAllCategories(category string) bool {
	return category == "" || category == domain.AllProducts || category == domain.AllMedia
}

// Derive filters, sorts and paginates products. The input is not modified.
func Derive(products []domain.Product, st FilterState) View {
	filtered := Filter(products, st.Category, st.Search)
	SortProducts(filtered, st.Sort)

	size := PageSize(len(filtered))
	p := pagination.New(st.Page, size, len(filtered))
	visible := pagination.Slice(filtered, p)

	return View{
		Visible:     visible,
		TotalCount:  len(filtered),
		PageSize:    size,
		Page:        p.Page,
		TotalPages:  p.TotalPages,
		Layout:      LayoutFor(len(visible)),
		PageNumbers: pagination.PageNumbers(p.Page, p.TotalPages, pagination.DefaultMaxVisible),
	}
}

// Filter returns a new slice with the products in category whose title or
// description contains search, ignoring case.
func Filter(products []domain.Product, category, search string) []domain.Product {
	needle := strings.ToLower(search)
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if !IsAllCategories(category) && p.Category != category {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Title), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

var (
	collatorMu sync.Mutex
	collator   = collate.New(language.English, collate.IgnoreCase)
)

func compareTitles(a, b string) int {
	// collate.Collator keeps internal buffers and is not safe for concurrent use.
	collatorMu.Lock()
	defer collatorMu.Unlock()
	return collator.CompareString(a, b)
}

// SortProducts orders products in place. Every ordering is stable; products
// without a price sort after priced ones in both price orders. Newest and
// unknown orderings keep the CMS order.
func SortProducts(products []domain.Product, s Sort) {
	switch s {
	case SortFeatured:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return boolRank(b.Featured) - boolRank(a.Featured)
		})
	case SortPriceAsc:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return comparePrices(a, b, 1)
		})
	case SortPriceDesc:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return comparePrices(a, b, -1)
		})
	case SortNameAsc:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return compareTitles(a.Title, b.Title)
		})
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

func comparePrices(a, b domain.Product, dir int) int {
	switch {
	case !a.HasPrice() && !b.HasPrice():
		return 0
	case !a.HasPrice():
		return 1
	case !b.HasPrice():
		return -1
	}
	return dir * a.Price.Cmp(*b.Price)
}
