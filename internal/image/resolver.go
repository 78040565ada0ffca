// Package image turns CMS image references into displayable URLs.
package image

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/domain"
)

// Static asset paths served by the frontend.
const (
	PlaceholderPath        = "/placeholder-image.jpg"
	FactoryPlaceholderPath = "/placeholder-factory.jpg"
	FactoryPath            = "/factory.png"
	fallbackProductImages  = 6
)

// DefaultCDNBase is the CMS image CDN.
const DefaultCDNBase = "https://cdn.sanity.io"

// Breakpoints are the widths offered in responsive srcsets.
var Breakpoints = []int{400, 600, 800, 1200, 1600}

const responsiveSizes = "(max-width: 640px) 100vw, (max-width: 1024px) 50vw, (max-width: 1280px) 33vw, 400px"

// assetID matches image-<hash>-<W>x<H>-<ext>.
var assetID = regexp.MustCompile(`^image-([A-Za-z0-9]+)-(\d+x\d+)-([a-z0-9]+)$`)

// Resolver builds CDN URLs for one CMS project and dataset. The zero value
// is not usable; call New.
type Resolver struct {
	projectID string
	dataset   string
	cdnBase   string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCDNBase overrides the image CDN origin.
func WithCDNBase(base string) Option {
	return func(r *Resolver) {
		if base != "" {
			r.cdnBase = strings.TrimRight(base, "/")
		}
	}
}

// New returns a Resolver for projectID/dataset.
func New(projectID, dataset string, opts ...Option) *Resolver {
	r := &Resolver{projectID: projectID, dataset: dataset, cdnBase: DefaultCDNBase}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns a URL for ref, requesting width x height when either is
// positive. It always returns a non-empty string: fallback, or
// PlaceholderPath when fallback is empty.
func (r *Resolver) Resolve(ref domain.ImageRef, width, height int, fallback string) string {
	if fallback == "" {
		fallback = PlaceholderPath
	}
	if u := r.resolve(ref, width, height, true); u != "" {
		return u
	}
	return fallback
}

func (r *Resolver) resolve(ref domain.ImageRef, width, height int, descend bool) string {
	switch ref.Kind {
	case domain.ImageURL, domain.ImageLocal:
		return ref.URL
	case domain.ImageAsset:
		return r.resolveAsset(ref.Asset, width, height)
	case domain.ImageNested:
		if descend && ref.Nested != nil {
			return r.resolve(*ref.Nested, width, height, false)
		}
	}
	return ""
}

func (r *Resolver) resolveAsset(a domain.Asset, width, height int) string {
	if strings.HasPrefix(a.URL, "/") {
		return a.URL
	}
	if u, ok := r.cdnURL(a, width, height); ok {
		return u
	}
	if strings.HasPrefix(a.URL, "http://") || strings.HasPrefix(a.URL, "https://") {
		return a.URL
	}
	return ""
}

// cdnURL builds the CDN URL from the asset id, or its ref when the id does
// not follow the image id convention.
func (r *Resolver) cdnURL(a domain.Asset, width, height int) (string, bool) {
	file, ok := assetFile(a.ID)
	if !ok {
		file, ok = assetFile(a.Ref)
	}
	if !ok || r.projectID == "" || r.dataset == "" {
		return "", false
	}

	u := fmt.Sprintf("%s/images/%s/%s/%s", r.cdnBase, r.projectID, r.dataset, file)
	if width <= 0 && height <= 0 {
		return u, true
	}

	q := url.Values{}
	if width > 0 {
		q.Set("w", strconv.Itoa(width))
	}
	if height > 0 {
		q.Set("h", strconv.Itoa(height))
	}
	q.Set("fm", "webp")
	q.Set("q", "80")
	return u + "?" + q.Encode(), true
}

// assetFile maps image-<hash>-<WxH>-<ext> to <hash>-<WxH>.<ext>.
func assetFile(id string) (string, bool) {
	m := assetID.FindStringSubmatch(id)
	if m == nil {
		return "", false
	}
	return m[1] + "-" + m[2] + "." + m[3], true
}

// IsValid reports whether ref carries anything resolvable.
func IsValid(ref domain.ImageRef) bool {
	return isValid(ref, true)
}

func isValid(ref domain.ImageRef, descend bool) bool {
	switch ref.Kind {
	case domain.ImageURL, domain.ImageLocal:
		return ref.URL != ""
	case domain.ImageAsset:
		return ref.Asset.ID != "" || ref.Asset.URL != ""
	case domain.ImageNested:
		return descend && ref.Nested != nil && isValid(*ref.Nested, false)
	default:
		return false
	}
}

// FallbackPath returns the stock product image for the index-th product
// (1-based), cycling through /product-1.jpg ... /product-6.jpg.
func FallbackPath(index int) string {
	if index < 1 {
		index = 1
	}
	return fmt.Sprintf("/product-%d.jpg", (index-1)%fallbackProductImages+1)
}

// Responsive is an <img> source set.
type Responsive struct {
	Src    string `json:"src"`
	SrcSet string `json:"srcset,omitempty"`
	Sizes  string `json:"sizes"`
}

// Responsive returns srcset data for ref. Only CDN assets get a srcset;
// everything else is a single 800x600 source.
func (r *Resolver) Responsive(ref domain.ImageRef, fallback string) Responsive {
	a, ok := cdnAsset(ref)
	if !ok {
		return Responsive{Src: r.Resolve(ref, 800, 600, fallback), Sizes: "100vw"}
	}
	if _, ok := r.cdnURL(a, 800, 0); !ok {
		return Responsive{Src: r.Resolve(ref, 800, 600, fallback), Sizes: "100vw"}
	}

	set := make([]string, 0, len(Breakpoints))
	for _, w := range Breakpoints {
		u, _ := r.cdnURL(a, w, 0)
		set = append(set, u+" "+strconv.Itoa(w)+"w")
	}
	src, _ := r.cdnURL(a, 800, 0)
	return Responsive{Src: src, SrcSet: strings.Join(set, ", "), Sizes: responsiveSizes}
}

// cdnAsset finds the asset behind ref when it would be served from the CDN
// rather than a local path.
func cdnAsset(ref domain.ImageRef) (domain.Asset, bool) {
	switch ref.Kind {
	case domain.ImageAsset:
		if strings.HasPrefix(ref.Asset.URL, "/") {
			return domain.Asset{}, false
		}
		return ref.Asset, true
	case domain.ImageNested:
		if ref.Nested != nil && ref.Nested.Kind == domain.ImageAsset {
			return cdnAsset(*ref.Nested)
		}
	}
	return domain.Asset{}, false
}
