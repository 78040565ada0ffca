package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ImageKind discriminates the shapes an image reference can take in CMS
// responses.
type ImageKind int

const (
	ImageNone   ImageKind = iota
	ImageURL              // absolute http(s) URL
	ImageLocal            // root-relative static path
	ImageAsset            // CMS asset (id/ref/url)
	ImageNested           // {"image": {...}} wrapper
)

func (k ImageKind) String() string {
	switch k {
	case ImageURL:
		return "url"
	case ImageLocal:
		return "local"
	case ImageAsset:
		return "asset"
	case ImageNested:
		return "nested"
	default:
		return "none"
	}
}

// Asset is a CMS image asset as returned by an `asset->{_id,_ref,_type,url}`
// projection.
type Asset struct {
	ID   string `json:"_id,omitempty"`
	Ref  string `json:"_ref,omitempty"`
	Type string `json:"_type,omitempty"`
	URL  string `json:"url,omitempty"`
}

// ImageRef is an image reference in one of the shapes the CMS produces.
// Decoding never fails: anything unrecognised becomes ImageNone.
type ImageRef struct {
	Kind   ImageKind
	URL    string
	Asset  Asset
	Nested *ImageRef
}

// URLRef builds a reference from a plain string, classifying it as an
// absolute URL or a root-relative path.
func URLRef(s string) ImageRef {
	switch {
	case strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "https://"):
		return ImageRef{Kind: ImageURL, URL: s}
	case strings.HasPrefix(s, "/"):
		return ImageRef{Kind: ImageLocal, URL: s}
	default:
		return ImageRef{}
	}
}

// AssetRef builds a reference to a CMS asset.
func AssetRef(a Asset) ImageRef {
	return ImageRef{Kind: ImageAsset, Asset: a}
}

// NestedRef wraps inner the way `{"image": {...}}` does.
func NestedRef(inner ImageRef) ImageRef {
	return ImageRef{Kind: ImageNested, Nested: &inner}
}

// IsZero reports whether the reference carries nothing.
func (r ImageRef) IsZero() bool {
	return r.Kind == ImageNone
}

// UnmarshalJSON accepts a URL string, {"asset": {...}}, {"image": {...}} or a
// bare asset object.
func (r *ImageRef) UnmarshalJSON(data []byte) error {
	*r = parseImageRef(data)
	return nil
}

func parseImageRef(data []byte) ImageRef {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ImageRef{}
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return ImageRef{}
		}
		return URLRef(s)
	case '{':
	default:
		return ImageRef{}
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return ImageRef{}
	}

	if raw, ok := obj["asset"]; ok {
		if a, ok := parseAsset(raw); ok {
			return AssetRef(a)
		}
	}
	if raw, ok := obj["image"]; ok {
		if inner := parseImageRef(raw); !inner.IsZero() {
			return NestedRef(inner)
		}
	}
	if a, ok := parseAsset(data); ok {
		return AssetRef(a)
	}
	return ImageRef{}
}

// parseAsset reports ok only when the object names at least an id, ref or
// URL.
func parseAsset(data []byte) (Asset, bool) {
	var a Asset
	if err := json.Unmarshal(data, &a); err != nil {
		return Asset{}, false
	}
	if a.ID == "" && a.Ref == "" && a.URL == "" {
		return Asset{}, false
	}
	return a, true
}

// MarshalJSON writes the reference back in the CMS shape it was read from.
func (r ImageRef) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case ImageURL, ImageLocal:
		return json.Marshal(r.URL)
	case ImageAsset:
		return json.Marshal(struct {
			Asset Asset `json:"asset"`
		}{r.Asset})
	case ImageNested:
		if r.Nested == nil {
			return []byte("null"), nil
		}
		return json.Marshal(struct {
			Image ImageRef `json:"image"`
		}{*r.Nested})
	default:
		return []byte("null"), nil
	}
}
