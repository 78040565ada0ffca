package fallback

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/cms"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/domain"
)

func TestValidate(t *testing.T) {
	require.NoError(t, Validate())
}

func TestProducts(t *testing.T) {
	products := Products()
	require.Len(t, products, 6)

	wantPrices := []int64{25000, 45000, 15000, 65000, 35000, 28000}
	wantFeatured := []bool{true, true, false, true, false, false}
	for i, p := range products {
		assert.Equal(t, string(rune('1'+i)), p.ID)
		require.NotNil(t, p.Price, p.ID)
		assert.True(t, p.Price.Equal(decimal.NewFromInt(wantPrices[i])), p.ID)
		assert.Equal(t, wantFeatured[i], p.Featured, p.ID)
		require.Len(t, p.Images, 1, p.ID)
		assert.Equal(t, domain.ImageAsset, p.Images[0].Ref.Kind, p.ID)
	}

	assert.Equal(t, "professional-cnc-machine-b2", products[1].Slug)
	assert.Equal(t, "Professional Series", products[1].Category)
	assert.Equal(t, "/product-4.jpg", products[3].Images[0].Ref.Asset.URL)
	assert.Equal(t, "QA Unit F6", products[5].Images[0].Alt)
}

func TestProducts_ReturnsCopy(t *testing.T) {
	first := Products()
	first[0].Title = "changed"
	assert.Equal(t, "Premium Manufacturing Unit A1", Products()[0].Title)
}

func TestDetail(t *testing.T) {
	p, ok := Detail("premium-manufacturing-unit-a1")
	require.True(t, ok)
	assert.NotEmpty(t, p.TitleUrdu)
	assert.Contains(t, p.DetailedDescription, "\n\n")
	assert.Len(t, p.Images, 3)
	require.Len(t, p.Specifications, 5)
	assert.Equal(t, "Power Output", p.Specifications[0].Name)
	assert.Equal(t, "15 kW", p.Specifications[0].Value)
	require.Len(t, p.Features, 5)
	assert.Equal(t, "Advanced automation capabilities", p.Features[0].Text)
	assert.NotEmpty(t, p.Features[0].TextUrdu)

	c3, ok := Detail("innovation-series-smart-controller-c3")
	require.True(t, ok)
	assert.Len(t, c3.Images, 1)
	assert.Equal(t, `10.1" Touchscreen`, c3.Specifications[3].Value)

	_, ok = Detail("industrial-automation-system-d4")
	assert.False(t, ok)
}

func TestMedia(t *testing.T) {
	items := Media()
	require.Len(t, items, 4)
	assert.Equal(t, "Premium Seed Production", items[0].Title)
	assert.Equal(t, "/what.jpg", items[0].ImageURL)
	assert.Equal(t, domain.ImageLocal, items[0].Image.Kind)
	assert.Equal(t, []string{"All", "Production", "Products", "Operations"}, domain.MediaCategories(items))
}

func TestPages(t *testing.T) {
	home, err := cms.DecodeDocument[domain.HomePage](Page(domain.PageHome))
	require.NoError(t, err)
	require.NotNil(t, home)
	assert.Equal(t, "Welcome to Baqir & Sons", home.HeroSection.Heading)
	assert.Len(t, home.Stats, 3)
	assert.Equal(t, 3, home.BannerSlider.AutoSlideInterval)
	assert.Len(t, home.ProductsSection.FeaturedProducts, 3)

	about, err := cms.DecodeDocument[domain.AboutPage](Page(domain.PageAbout))
	require.NoError(t, err)
	require.Len(t, about.Values, 6)
	assert.Equal(t, "Customer Focus", about.Values[5].Title)
	require.Len(t, about.Milestones, 6)
	assert.Equal(t, "2024", about.Milestones[5].Year)
	assert.Len(t, about.Mission, 2)

	contact, err := cms.DecodeDocument[domain.ContactPage](Page(domain.PageContact))
	require.NoError(t, err)
	assert.Equal(t, "+92 345 844 0115", contact.ContactInfo.Phone)
	assert.Equal(t, "Mon-Fri: 8:00 AM - 6:00 PM", contact.ContactInfo.WorkingHours)

	assert.Nil(t, Page("privacy"))
}
