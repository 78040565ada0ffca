package cms

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/domain"
)

const listResult = `[
  {
    "_id": "1",
    "title": "Premium Manufacturing Unit A1",
    "slug": {"current": "premium-manufacturing-unit-a1"},
    "description": "High-precision manufacturing unit.",
    "price": 25000,
    "mainImage": {"image": {"asset": {"_id": "image-img1", "_ref": "image-img1-jpg", "url": "/product-1.jpg"}}, "alt": "Premium Unit A1"},
    "category": "Premium Series",
    "featured": true,
    "_createdAt": "2024-03-01T10:00:00Z"
  },
  {
    "_id": "2",
    "title": "Contact For Price",
    "slug": "contact-for-price",
    "price": null,
    "category": "Custom Solutions",
    "inStock": false
  },
  {
    "_id": "3",
    "title": "Broken Price",
    "price": "not-a-number"
  },
  {
    "_id": "4",
    "title": "Crème Brûlée Seeds"
  }
]`

func TestDecodeProducts(t *testing.T) {
	products, skipped, err := DecodeProducts(json.RawMessage(listResult))
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, products, 3)

	a1 := products[0]
	assert.Equal(t, "premium-manufacturing-unit-a1", a1.Slug)
	require.NotNil(t, a1.Price)
	assert.Equal(t, "25000", a1.Price.String())
	require.Len(t, a1.Images, 1)
	assert.Equal(t, domain.ImageAsset, a1.Images[0].Ref.Kind)
	assert.Equal(t, "/product-1.jpg", a1.Images[0].Ref.Asset.URL)
	assert.Equal(t, "Premium Unit A1", a1.Images[0].Alt)
	assert.Equal(t, 2024, a1.CreatedAt.Year())

	unpriced := products[1]
	assert.Equal(t, "contact-for-price", unpriced.Slug)
	assert.False(t, unpriced.HasPrice())
	assert.False(t, unpriced.InStockOrDefault())
	assert.Empty(t, unpriced.Images)

	assert.Equal(t, "creme-brulee-seeds", products[2].Slug, "missing slug derived from title")
}

func TestDecodeProducts_Rejections(t *testing.T) {
	_, _, err := DecodeProducts(json.RawMessage(`null`))
	assert.ErrorIs(t, err, ErrEmptyResult)
	assert.True(t, IsEmptyResult(err))

	_, _, err = DecodeProducts(nil)
	assert.ErrorIs(t, err, ErrEmptyResult)

	_, _, err = DecodeProducts(json.RawMessage(`{"_id":"1"}`))
	assert.ErrorContains(t, err, "not an array")

	products, skipped, err := DecodeProducts(json.RawMessage(`[]`))
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.Zero(t, skipped)
}

func TestDecodeProduct_Detail(t *testing.T) {
	raw := `{
		"_id": "2",
		"title": "Professional CNC Machine B2",
		"titleUrdu": "پروفیشنل سی این سی مشین بی ٹو",
		"slug": {"current": "professional-cnc-machine-b2"},
		"price": 45000,
		"mainImage": {"image": {"asset": {"_id": "img2", "url": "/product-2.jpg"}}, "alt": "CNC Machine B2"},
		"gallery": [
			{"image": {"asset": {"_id": "img2-2", "url": "/product-2.jpg"}}, "alt": "Control Panel"},
			{"image": {"asset": {"_id": "img2-3", "url": "/product-3.jpg"}}, "alt": "Work Area"}
		],
		"specifications": [{"name": "Spindle Speed", "nameUrdu": "اسپنڈل کی رفتار", "value": "12,000 RPM"}],
		"features": ["Multi-axis capability", {"text": "Precision machining", "textUrdu": "درست مشینی کام"}],
		"applications": [{"_type": "block", "children": [{"text": "Aerospace"}]}]
	}`

	p, err := DecodeProduct(json.RawMessage(raw))
	require.NoError(t, err)
	require.NotNil(t, p)

	require.Len(t, p.Images, 3)
	assert.Equal(t, "CNC Machine B2", p.Images[0].Alt)
	assert.Equal(t, "Work Area", p.Images[2].Alt)
	assert.Equal(t, []domain.Specification{{Name: "Spindle Speed", NameUrdu: "اسپنڈل کی رفتار", Value: "12,000 RPM"}}, p.Specifications)
	assert.Equal(t, []domain.Feature{{Text: "Multi-axis capability"}, {Text: "Precision machining", TextUrdu: "درست مشینی کام"}}, p.Features)
	assert.Equal(t, []string{"Aerospace"}, p.Applications)

	p, err = DecodeProduct(json.RawMessage(`null`))
	assert.NoError(t, err)
	assert.Nil(t, p)

	_, err = DecodeProduct(json.RawMessage(`[1]`))
	assert.Error(t, err)
}

func TestDecodeDocument(t *testing.T) {
	page, err := DecodeDocument[domain.ContactPage](json.RawMessage(`{"title":"Contact","contactInfo":{"phone":"+92 345 844 0115"},"mapLocation":{"lat":32.58,"lng":73.48}}`))
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, "+92 345 844 0115", page.ContactInfo.Phone)
	require.NotNil(t, page.MapLocation)
	assert.InDelta(t, 73.48, page.MapLocation.Lng, 0.001)

	none, err := DecodeDocument[domain.ContactPage](json.RawMessage(`null`))
	assert.NoError(t, err)
	assert.Nil(t, none)
}

func TestDecodeStrings(t *testing.T) {
	got, err := DecodeStrings(json.RawMessage(`["Custom Solutions","Premium Series"]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Custom Solutions", "Premium Series"}, got)

	got, err = DecodeStrings(json.RawMessage(`null`))
	assert.NoError(t, err)
	assert.Nil(t, got)

	_, err = DecodeStrings(json.RawMessage(`[1]`))
	assert.Error(t, err)
}
