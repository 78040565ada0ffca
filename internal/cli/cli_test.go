package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/cms"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/domain"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/image"
	apperrors "github.com/MaazSiddiqui25/Baqir-Sons/pkg/errors"
	"github.com/MaazSiddiqui25/Baqir-Sons/pkg/middleware"
)

// ============================================================================
// Helpers
// ============================================================================

type result struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, opts *rootOptions, stdin string, args ...string) result {
	t.Helper()
	if opts == nil {
		opts = &rootOptions{}
	}
	var out, errOut bytes.Buffer
	cmd := newRoot(opts)
	cmd.SetArgs(append([]string{"--dataset", "production"}, args...))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.ExecuteContext(context.Background())
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func decode[T any](t *testing.T, r result) T {
	t.Helper()
	require.NoError(t, r.err, r.stderr)
	var v T
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &v), r.stdout)
	return v
}

const liveProducts = `[
  {"_id":"l1","title":"Seed Drill","slug":{"current":"seed-drill"},"price":12000,"category":"Farm","featured":true},
  {"_id":"l2","title":"Grain Dryer","slug":{"current":"grain-dryer"},"category":"Farm"}
]`

func staticStrategies(raw string, err error) map[domain.Strategy]cms.StrategyFunc {
	fn := func(context.Context, cms.Query) (json.RawMessage, error) {
		if err != nil {
			return nil, err
		}
		return json.RawMessage(raw), nil
	}
	return map[domain.Strategy]cms.StrategyFunc{
		domain.StrategyCached: fn,
		domain.StrategyFresh:  fn,
		domain.StrategyRaw:    fn,
	}
}

type listOutput struct {
	Products   []productRow `json:"products"`
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
	TotalCount int          `json:"total_count"`
	Source     string       `json:"source"`
}

// ============================================================================
// Root
// ============================================================================

func TestRoot_RejectsUnknownOutput(t *testing.T) {
	r := run(t, nil, "", "--offline", "-o", "xml", "catalog", "validate")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), `unknown output format: "xml"`)
}

func TestRoot_RequiresProjectUnlessOffline(t *testing.T) {
	t.Setenv("SANITY_PROJECT_ID", "")
	r := run(t, nil, "", "products", "list")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "--project")
}

// ============================================================================
// products
// ============================================================================

func TestProductsList_Offline(t *testing.T) {
	r := run(t, nil, "", "--offline", "-o", "json", "products", "list")
	out := decode[listOutput](t, r)

	assert.Len(t, out.Products, 6)
	assert.Equal(t, 6, out.TotalCount)
	assert.Equal(t, 1, out.TotalPages)
	assert.Equal(t, string(domain.SourceFallback), out.Source)
	assert.Equal(t, "Rs 25000", out.Products[0].Price)
	assert.Equal(t, "/product-1.jpg", out.Products[0].ImageURL)
	assert.Contains(t, r.stderr, "warning:")
}

func TestProductsList_SearchTable(t *testing.T) {
	r := run(t, nil, "", "--offline", "products", "list", "--search", "cnc")
	require.NoError(t, r.err)

	assert.Contains(t, r.stdout, "Professional CNC Machine B2")
	assert.NotContains(t, r.stdout, "Premium Manufacturing Unit A1")
}

func TestProductsList_LiveCatalog(t *testing.T) {
	opts := &rootOptions{strategies: staticStrategies(liveProducts, nil)}
	r := run(t, opts, "", "-o", "json", "products", "list", "--sort", "price-asc")
	out := decode[listOutput](t, r)

	require.Len(t, out.Products, 2)
	assert.Equal(t, string(domain.SourceLive), out.Source)
	assert.Equal(t, "seed-drill", out.Products[0].Slug)
	assert.Equal(t, "contact for price", out.Products[1].Price)
	assert.Empty(t, r.stderr)
}

func TestProductsList_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown sort", []string{"--sort", "cheapest"}},
		{"unknown language", []string{"--lang", "fr"}},
		{"negative page", []string{"--page", "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := run(t, nil, "", append([]string{"--offline", "products", "list"}, tt.args...)...)
			assert.Error(t, r.err)
		})
	}
}

func TestProductsList_YAML(t *testing.T) {
	r := run(t, nil, "", "--offline", "-o", "yaml", "products", "list", "--category", "Premium Series")
	require.NoError(t, r.err)

	assert.Contains(t, r.stdout, "source: fallback")
	assert.Contains(t, r.stdout, "total_count: 2")
	assert.Contains(t, r.stdout, "slug: premium-quality-assurance-unit-f6")
}

func TestProductsGet_UrduFallbackDetail(t *testing.T) {
	r := run(t, nil, "", "--offline", "-o", "json", "products", "get", "premium-manufacturing-unit-a1", "--lang", "ur")
	out := decode[struct {
		Title       string   `json:"title"`
		Images      []string `json:"images"`
		Recommended []string `json:"recommended"`
		InquiryURL  string   `json:"inquiry_url"`
		Source      string   `json:"source"`
	}](t, r)

	assert.Equal(t, "پریمیم مینوفیکچرنگ یونٹ اے ون", out.Title)
	assert.Equal(t, "fallback", out.Source)
	assert.NotEmpty(t, out.Images)
	assert.Contains(t, out.Recommended, "premium-quality-assurance-unit-f6")
	assert.True(t, strings.HasPrefix(out.InquiryURL, "https://wa.me/"))
}

func TestProductsGet_NotFound(t *testing.T) {
	r := run(t, nil, "", "--offline", "products", "get", "no-such-product")
	assert.ErrorIs(t, r.err, apperrors.ErrNotFound)
}

func TestProductsBrowse_Script(t *testing.T) {
	script := strings.Join([]string{
		"categories",
		"search cnc",
		"sort cheapest",
		"bogus",
		"clear",
		"quit",
		"search never reached",
	}, "\n")
	r := run(t, nil, script, "--offline", "products", "browse")
	require.NoError(t, r.err)

	assert.Contains(t, r.stdout, domain.AllProducts)
	assert.Contains(t, r.stdout, "Professional CNC Machine B2")
	assert.Contains(t, r.stdout, `unknown sort "cheapest"`)
	assert.Contains(t, r.stdout, `unknown command "bogus"`)
	assert.NotContains(t, r.stdout, "never reached")
}

func TestProductsBrowse_EndOfInput(t *testing.T) {
	r := run(t, nil, "next\n", "--offline", "products", "browse")
	assert.NoError(t, r.err)
}

// ============================================================================
// image
// ============================================================================

func TestImageResolve(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		kind string
		url  string
	}{
		{
			name: "asset reference",
			arg:  `{"asset":{"_ref":"image-abc123-800x600-jpg"}}`,
			kind: "asset",
			url:  "https://cdn.sanity.io/images/proj1/production/abc123-800x600.jpg?fm=webp&h=600&q=80&w=800",
		},
		{name: "local path", arg: "/product-2.jpg", kind: "local", url: "/product-2.jpg"},
		{name: "quoted url", arg: `"https://example.test/a.png"`, kind: "url", url: "https://example.test/a.png"},
		{name: "unusable", arg: "not-a-url", kind: "none", url: image.PlaceholderPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := run(t, nil, "", "--project", "proj1", "-o", "json", "image", "resolve", tt.arg)
			out := decode[resolvedImage](t, r)
			assert.Equal(t, tt.kind, out.Kind)
			assert.Equal(t, tt.url, out.URL)
			assert.Nil(t, out.Responsive)
		})
	}
}

func TestImageResolve_Responsive(t *testing.T) {
	r := run(t, nil, "", "--project", "proj1", "-o", "json", "image", "resolve", "--responsive",
		`{"asset":{"_id":"image-abc123-1600x900-png"}}`)
	out := decode[resolvedImage](t, r)

	require.NotNil(t, out.Responsive)
	assert.Contains(t, out.Responsive.SrcSet, " 400w")
	assert.Contains(t, out.Responsive.SrcSet, " 1600w")
}

func TestImageResolve_CustomFallback(t *testing.T) {
	r := run(t, nil, "", "-o", "json", "image", "resolve", "--fallback", "/custom.jpg", "{}")
	out := decode[resolvedImage](t, r)
	assert.Equal(t, "/custom.jpg", out.URL)
	assert.False(t, out.Valid)
}

func TestImageResolve_InvalidJSON(t *testing.T) {
	r := run(t, nil, "", "image", "resolve", "{bad")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "not valid JSON")
}

// ============================================================================
// catalog
// ============================================================================

func TestCatalogStatus_LocalFallback(t *testing.T) {
	opts := &rootOptions{strategies: staticStrategies("", errors.New("cms down"))}
	r := run(t, opts, "", "--retries", "0", "-o", "json", "catalog", "status")
	out := decode[statusOutput](t, r)

	assert.True(t, out.Loaded)
	assert.Equal(t, domain.SourceFallback, out.Source)
	assert.Equal(t, 6, out.ProductCount)
	require.Len(t, out.Attempts, 3)
	for _, a := range out.Attempts {
		assert.Equal(t, 0, a.Cycle)
		assert.Equal(t, "cms down", a.Error)
	}
}

func TestCatalogStatus_LocalTable(t *testing.T) {
	opts := &rootOptions{strategies: staticStrategies(liveProducts, nil)}
	r := run(t, opts, "", "catalog", "status")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "live")
	assert.Contains(t, r.stdout, "ok in")
}

func TestCatalogStatus_Remote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != statusPath {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"route not found"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"loaded":true,"source":"live","strategy":"cached","product_count":4,"generation":7}}`))
	}))
	defer srv.Close()

	r := run(t, nil, "", "-o", "json", "catalog", "status", "--server", srv.URL+"/")
	out := decode[statusOutput](t, r)
	assert.Equal(t, domain.SourceLive, out.Source)
	assert.Equal(t, uint64(7), out.Generation)
	assert.Equal(t, 4, out.ProductCount)
	assert.Empty(t, out.Attempts)

	r = run(t, nil, "", "catalog", "status", "--server", srv.URL+"/nested")
	assert.ErrorIs(t, r.err, apperrors.ErrNotFound)
}

func TestCatalogRefresh_SignsAdminToken(t *testing.T) {
	validate := middleware.HMACValidator("s3cret", "baqir-sons")
	var subject, role string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, refreshPath, r.URL.Path)
		claims, err := validate(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		subject, role = claims.Subject, claims.Role
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"catalog":{"source":"live","strategy":"fresh","generation":9},"product_count":5,"status":{"loaded":true,"source":"live","product_count":5,"generation":9}}}`))
	}))
	defer srv.Close()

	r := run(t, nil, "", "-o", "json", "catalog", "refresh", "--server", srv.URL, "--jwt-secret", "s3cret", "--jwt-issuer", "baqir-sons")
	out := decode[refreshOutput](t, r)

	assert.Equal(t, adminSubject, subject)
	assert.Equal(t, "admin", role)
	assert.Equal(t, 5, out.ProductCount)
	assert.Equal(t, domain.StrategyFresh, out.Catalog.Strategy)
	assert.Equal(t, uint64(9), out.Status.Generation)
}

func TestCatalogRefresh_ForbiddenIsReported(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "Bearer viewer-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":"FORBIDDEN","message":"insufficient role"}}`))
	}))
	defer srv.Close()

	r := run(t, nil, "", "catalog", "refresh", "--server", srv.URL, "--admin-token", "viewer-token")
	require.ErrorIs(t, r.err, apperrors.ErrForbidden)
	assert.Contains(t, r.err.Error(), "insufficient role")
	assert.Equal(t, 1, calls)
}

func TestCatalogRefresh_FlagErrors(t *testing.T) {
	r := run(t, nil, "", "catalog", "refresh")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "--server is required")

	r = run(t, nil, "", "catalog", "refresh", "--server", "http://127.0.0.1:1")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "--admin-token or --jwt-secret")

	r = run(t, nil, "", "catalog", "refresh", "--server", "http://127.0.0.1:1", "--admin-token", "a", "--jwt-secret", "b")
	assert.Error(t, r.err)
}

func TestCatalogValidate(t *testing.T) {
	r := run(t, nil, "", "-o", "json", "catalog", "validate")
	out := decode[struct {
		Products   int      `json:"products"`
		Details    int      `json:"details"`
		Categories []string `json:"categories"`
		Media      int      `json:"media"`
		Pages      []string `json:"pages"`
	}](t, r)

	assert.Equal(t, 6, out.Products)
	assert.Equal(t, 3, out.Details)
	assert.Len(t, out.Categories, 5)
	assert.Equal(t, 4, out.Media)
	assert.Equal(t, []string{"home", "about", "contact"}, out.Pages)
}
