package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/catalog"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/catalog/fallback"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/domain"
	"github.com/MaazSiddiqui25/Baqir-Sons/pkg/httpclient"
	"github.com/MaazSiddiqui25/Baqir-Sons/pkg/middleware"
)

const (
	statusPath  = "/api/v1/catalog/status"
	refreshPath = "/api/v1/catalog/refresh"

	adminSubject = "catalogctl"
)

func newCatalogCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and refresh catalog load state",
	}
	cmd.AddCommand(
		newCatalogStatusCmd(opts),
		newCatalogRefreshCmd(opts),
		newCatalogValidateCmd(opts),
	)
	return cmd
}

// attemptRow is one fetch attempt as printed.
type attemptRow struct {
	Strategy domain.Strategy `json:"strategy"`
	Cycle    int             `json:"cycle"`
	Duration string          `json:"duration"`
	Error    string          `json:"error,omitempty"`
}

type statusOutput struct {
	catalog.Status
	Attempts []attemptRow `json:"attempts,omitempty"`
}

func newCatalogStatusCmd(opts *rootOptions) *cobra.Command {
	var server string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show where the catalog is served from",
		Example: `  # Ask a running storefront
  catalogctl catalog status --server http://localhost:8080

  # Load locally and show every fetch attempt
  catalogctl catalog status --project p1 --retries 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var out statusOutput
			if server != "" {
				st, err := remoteStatus(cmd.Context(), server)
				if err != nil {
					return err
				}
				out.Status = *st
			} else {
				log := opts.logger(cmd)
				l, _, err := opts.loader(log)
				if err != nil {
					return err
				}
				res := l.Load(cmd.Context(), false)
				out.Status = l.Status()
				out.Attempts = attemptRows(res.Attempts)
			}
			return render(cmd.OutOrStdout(), opts.output, out, func(t table.Writer) {
				appendStatusRows(t, out.Status)
				for _, a := range out.Attempts {
					t.AppendRow(table.Row{fmt.Sprintf("Attempt %d/%s", a.Cycle, a.Strategy), attemptSummary(a)})
				}
			})
		},
	}
	cmd.Flags().StringVar(&server, "server", "", "storefront base URL; when empty the catalog is loaded locally")
	return cmd
}

func attemptRows(attempts []domain.FetchAttempt) []attemptRow {
	rows := make([]attemptRow, len(attempts))
	for i, a := range attempts {
		rows[i] = attemptRow{Strategy: a.Strategy, Cycle: a.Cycle, Duration: a.Duration.Round(time.Millisecond).String()}
		if a.Err != nil {
			rows[i].Error = a.Err.Error()
		}
	}
	return rows
}

func attemptSummary(a attemptRow) string {
	if a.Error == "" {
		return "ok in " + a.Duration
	}
	return "failed in " + a.Duration + ": " + a.Error
}

func appendStatusRows(t table.Writer, st catalog.Status) {
	t.AppendRow(table.Row{"Loaded", st.Loaded})
	t.AppendRow(table.Row{"Source", st.Source})
	if st.Strategy != "" {
		t.AppendRow(table.Row{"Strategy", st.Strategy})
	}
	t.AppendRow(table.Row{"Products", st.ProductCount})
	t.AppendRow(table.Row{"Generation", st.Generation})
	t.AppendRow(table.Row{"Stale", st.Stale})
	if !st.FetchedAt.IsZero() {
		t.AppendRow(table.Row{"Fetched", st.FetchedAt.Format(time.RFC3339)})
	}
	if !st.LastSuccess.IsZero() {
		t.AppendRow(table.Row{"Last success", st.LastSuccess.Format(time.RFC3339)})
	}
	if st.Error != "" {
		t.AppendRow(table.Row{"Error", st.Error})
	}
}

type refreshOptions struct {
	server    string
	token     string
	jwtSecret string
	jwtIssuer string
	tokenTTL  time.Duration
	timeout   time.Duration
}

// refreshOutput mirrors the refresh endpoint's data payload.
type refreshOutput struct {
	Catalog struct {
		Source     domain.Source   `json:"source"`
		Strategy   domain.Strategy `json:"strategy,omitempty"`
		Error      string          `json:"error,omitempty"`
		Generation uint64          `json:"generation"`
	} `json:"catalog"`
	ProductCount int            `json:"product_count"`
	Status       catalog.Status `json:"status"`
}

func newCatalogRefreshCmd(opts *rootOptions) *cobra.Command {
	ro := &refreshOptions{}
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Force a running storefront to reload the catalog from the CMS",
		Example: `  # Sign an admin token with the server's secret
  catalogctl catalog refresh --server http://localhost:8080 --jwt-secret "$JWT_SECRET"

  # Use an existing token
  catalogctl catalog refresh --server https://shop.example --admin-token "$TOKEN"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if ro.server == "" {
				return fmt.Errorf("--server is required")
			}
			token, err := ro.bearer()
			if err != nil {
				return err
			}
			out, err := remoteRefresh(cmd.Context(), ro.server, token, ro.timeout)
			if err != nil {
				return err
			}
			if out.Catalog.Error != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s (source: %s)\n", out.Catalog.Error, out.Catalog.Source)
			}
			return render(cmd.OutOrStdout(), opts.output, out, func(t table.Writer) {
				t.AppendRow(table.Row{"Refreshed", out.ProductCount})
				appendStatusRows(t, out.Status)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&ro.server, "server", "", "storefront base URL")
	f.StringVar(&ro.token, "admin-token", "", "bearer token with the admin role")
	f.StringVar(&ro.jwtSecret, "jwt-secret", "", "sign a short-lived admin token with this HMAC secret")
	f.StringVar(&ro.jwtIssuer, "jwt-issuer", envOr("JWT_ISSUER", "baqir-sons"), "issuer for signed tokens")
	f.DurationVar(&ro.tokenTTL, "token-ttl", 5*time.Minute, "lifetime of signed tokens")
	f.DurationVar(&ro.timeout, "timeout", time.Minute, "request timeout; a forced load may retry several times")
	cmd.MarkFlagsMutuallyExclusive("admin-token", "jwt-secret")
	return cmd
}

func (ro *refreshOptions) bearer() (string, error) {
	if ro.token != "" {
		return ro.token, nil
	}
	if ro.jwtSecret == "" {
		return "", fmt.Errorf("one of --admin-token or --jwt-secret is required")
	}
	tok, err := middleware.SignHMAC(ro.jwtSecret, ro.jwtIssuer, adminSubject, "admin", ro.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("sign admin token: %w", err)
	}
	return tok, nil
}

func newCatalogValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the built-in sample catalog and page defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := fallback.Validate(); err != nil {
				return fmt.Errorf("embedded content: %w", err)
			}
			products := fallback.Products()
			details := 0
			for _, p := range products {
				if _, ok := fallback.Detail(p.Slug); ok {
					details++
				}
			}
			pages := []string{}
			for _, k := range []domain.PageKind{domain.PageHome, domain.PageAbout, domain.PageContact} {
				if fallback.Page(k) != nil {
					pages = append(pages, string(k))
				}
			}
			out := struct {
				Products   int      `json:"products"`
				Details    int      `json:"details"`
				Categories []string `json:"categories"`
				Media      int      `json:"media"`
				Pages      []string `json:"pages"`
			}{len(products), details, domain.Categories(products), len(fallback.Media()), pages}

			return render(cmd.OutOrStdout(), opts.output, out, func(t table.Writer) {
				t.AppendRow(table.Row{"Products", out.Products})
				t.AppendRow(table.Row{"Bilingual details", out.Details})
				t.AppendRow(table.Row{"Categories", strings.Join(out.Categories, ", ")})
				t.AppendRow(table.Row{"Media items", out.Media})
				t.AppendRow(table.Row{"Pages", strings.Join(out.Pages, ", ")})
			})
		},
	}
}

// envelope is the storefront's {"data": ...} response wrapper.
type envelope[T any] struct {
	Data T `json:"data"`
}

func remoteStatus(ctx context.Context, server string) (*catalog.Status, error) {
	client := httpclient.New(httpclient.DefaultConfig())
	resp, err := client.Get(ctx, strings.TrimRight(server, "/")+statusPath, http.Header{"Accept": {"application/json"}})
	if err != nil {
		return nil, fmt.Errorf("catalog status: %w", err)
	}
	return decodeData[catalog.Status](resp)
}

func remoteRefresh(ctx context.Context, server, token string, timeout time.Duration) (*refreshOutput, error) {
	cfg := httpclient.DefaultConfig()
	cfg.Timeout = timeout
	// A retried refresh would only spend the rate limit.
	cfg.MaxRetries = 0
	client := httpclient.New(cfg)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(server, "/")+refreshPath, nil)
	if err != nil {
		return nil, fmt.Errorf("create refresh request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("catalog refresh: %w", err)
	}
	return decodeData[refreshOutput](resp)
}

func decodeData[T any](resp *http.Response) (*T, error) {
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, httpclient.ParseResponseError(resp, "storefront")
	}
	defer resp.Body.Close()

	var env envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode storefront response: %w", err)
	}
	return &env.Data, nil
}
