package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRichText_Shapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want RichText
	}{
		{"string", `"One paragraph"`, RichText{"One paragraph"}},
		{"empty string", `""`, nil},
		{"strings", `["a","b"]`, RichText{"a", "b"}},
		{"portable text", `[{"_type":"block","children":[{"text":"Hello "},{"text":"world"}]},{"_type":"block","children":[]}]`, RichText{"Hello world"}},
		{"garbage", `{"x":1}`, nil},
		{"null", `null`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got RichText
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "a\n\nb", RichText{"a", "b"}.String())
}

func TestHomePage_DecodesCMSProjection(t *testing.T) {
	raw := `{
		"title": "Baqir & Sons",
		"heroSection": {"badge": "Since 1999", "heading": "Quality Seeds", "ctaButtons": [{"text":"Products","link":"/products","isPrimary":true}]},
		"bannerSlider": {"images": [{"image": {"asset": {"_id": "image-abc-1600x900-jpg"}}, "alt": "Field"}], "autoSlideInterval": 5000},
		"stats": [{"number": "25+", "label": "Years Experience"}],
		"aboutSection": {"description": [{"_type":"block","children":[{"text":"Family business."}]}], "factoryImage": {"asset": {"_id": "f", "url": "/factory.png"}}},
		"seo": {"metaTitle": "Baqir & Sons"}
	}`

	var page HomePage
	require.NoError(t, json.Unmarshal([]byte(raw), &page))

	assert.Equal(t, "Since 1999", page.HeroSection.Badge)
	require.Len(t, page.HeroSection.CTAButtons, 1)
	assert.True(t, page.HeroSection.CTAButtons[0].IsPrimary)
	require.Len(t, page.BannerSlider.Images, 1)
	assert.Equal(t, ImageAsset, page.BannerSlider.Images[0].Image.Kind)
	assert.Equal(t, 5000, page.BannerSlider.AutoSlideInterval)
	assert.Equal(t, RichText{"Family business."}, page.AboutSection.Description)
	assert.Equal(t, "/factory.png", page.AboutSection.FactoryImage.Asset.URL)
	assert.True(t, page.SEO.OGImage.IsZero())
}

func TestMedia_FilterAndCategories(t *testing.T) {
	items := []MediaItem{
		{ID: "1", Category: "Production"},
		{ID: "2", Category: "Production"},
		{ID: "3", Category: "Products"},
		{ID: "4", Category: "Operations"},
	}

	assert.Equal(t, []string{"All", "Production", "Products", "Operations"}, MediaCategories(items))
	assert.Len(t, FilterMedia(items, AllMedia), 4)
	assert.Len(t, FilterMedia(items, ""), 4)
	assert.Len(t, FilterMedia(items, "Production"), 2)
	assert.Empty(t, FilterMedia(items, "Unknown"))
}
