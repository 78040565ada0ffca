// Package fallback holds the content served when the CMS has nothing to
// offer: the sample catalog, bilingual product details, the media gallery
// and default page documents. Everything is embedded YAML in the CMS
// projection shape and decoded through the same path as live results.
package fallback

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/cms"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/domain"
)

//go:embed *.yaml
var files embed.FS

var (
	loadOnce sync.Once
	loaded   content
	loadErr  error
)

type content struct {
	products []domain.Product
	details  []domain.Product
	media    []domain.MediaItem
	pages    map[domain.PageKind]json.RawMessage
}

func load() (content, error) {
	loadOnce.Do(func() {
		loaded, loadErr = decodeAll()
	})
	return loaded, loadErr
}

func decodeAll() (content, error) {
	var c content
	var err error

	if c.products, err = decodeProducts("products.yaml"); err != nil {
		return c, err
	}
	if c.details, err = decodeProducts("details.yaml"); err != nil {
		return c, err
	}

	data, err := files.ReadFile("media.yaml")
	if err != nil {
		return c, fmt.Errorf("read media.yaml: %w", err)
	}
	if err := yaml.Unmarshal(data, &c.media); err != nil {
		return c, fmt.Errorf("decode media.yaml: %w", err)
	}
	for i := range c.media {
		c.media[i].Image = domain.URLRef(c.media[i].ImageURL)
	}

	c.pages = make(map[domain.PageKind]json.RawMessage, 3)
	for _, kind := range []domain.PageKind{domain.PageHome, domain.PageAbout, domain.PageContact} {
		raw, err := yamlToJSON(string(kind) + ".yaml")
		if err != nil {
			return c, err
		}
		c.pages[kind] = raw
	}
	return c, nil
}

func decodeProducts(name string) ([]domain.Product, error) {
	raw, err := yamlToJSON(name)
	if err != nil {
		return nil, err
	}
	products, skipped, err := cms.DecodeProducts(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	if skipped > 0 {
		return nil, fmt.Errorf("decode %s: %d malformed documents", name, skipped)
	}
	return products, nil
}

// yamlToJSON converts an embedded YAML document to JSON so it can go through
// the CMS decoders.
func yamlToJSON(name string) (json.RawMessage, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", name, err)
	}
	return out, nil
}

func mustLoad() content {
	c, err := load()
	if err != nil {
		panic(fmt.Sprintf("fallback content is corrupt: %v", err))
	}
	return c
}

// Products returns a copy of the sample catalog.
func Products() []domain.Product {
	return append([]domain.Product(nil), mustLoad().products...)
}

// Detail returns the bilingual detail document for slug.
func Detail(slug string) (*domain.Product, bool) {
	p, ok := domain.FindBySlug(mustLoad().details, slug)
	if !ok {
		return nil, false
	}
	cp := *p
	return &cp, true
}

// Media returns a copy of the gallery.
func Media() []domain.MediaItem {
	return append([]domain.MediaItem(nil), mustLoad().media...)
}

// Page returns the default document for kind as JSON, or nil for an unknown
// kind.
func Page(kind domain.PageKind) json.RawMessage {
	raw, ok := mustLoad().pages[kind]
	if !ok {
		return nil
	}
	return append(json.RawMessage(nil), raw...)
}

// Validate decodes the embedded content and reports the first problem.
func Validate() error {
	_, err := load()
	return err
}
