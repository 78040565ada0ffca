package cli

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/domain"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/listing"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/service"
	"github.com/MaazSiddiqui25/Baqir-Sons/pkg/validator"
)

func newProductsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product", "p"},
		Short:   "List, show and browse products",
	}
	cmd.AddCommand(
		newProductsListCmd(opts),
		newProductsGetCmd(opts),
		newProductsBrowseCmd(opts),
	)
	return cmd
}

type listOptions struct {
	in service.ListInput
}

func newProductsListCmd(opts *rootOptions) *cobra.Command {
	lo := &listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of the catalog",
		Example: `  # Second page of the Premium Series, cheapest first
  catalogctl products list --category "Premium Series" --sort price-asc --page 2

  # Search in Urdu as YAML, without contacting the CMS
  catalogctl products list --search cnc --lang ur -o yaml --offline`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProductsList(cmd, opts, lo)
		},
	}
	f := cmd.Flags()
	f.StringVar(&lo.in.Category, "category", "", "category filter")
	f.StringVar(&lo.in.Search, "search", "", "search text")
	f.StringVar(&lo.in.Sort, "sort", string(listing.DefaultSort), "sort order (featured, price-asc, price-desc, name-asc, newest)")
	f.IntVar(&lo.in.Page, "page", 1, "page number")
	f.StringVar(&lo.in.Lang, "lang", domain.LangEnglish, "language (en, ur)")
	return cmd
}

func runProductsList(cmd *cobra.Command, opts *rootOptions, lo *listOptions) error {
	if err := validator.Validate(&lo.in); err != nil {
		return err
	}
	log := opts.logger(cmd)
	svc, err := opts.catalogService(log)
	if err != nil {
		return err
	}

	res := svc.List(cmd.Context(), lo.in)
	if res.Catalog.Error != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s (source: %s)\n", res.Catalog.Error, res.Catalog.Source)
	}

	rows := make([]productRow, len(res.Products))
	for i, s := range res.Products {
		rows[i] = newProductRow(s, lo.in.Lang)
	}
	out := struct {
		Products   []productRow        `json:"products"`
		Page       int                 `json:"page"`
		TotalPages int                 `json:"total_pages"`
		TotalCount int                 `json:"total_count"`
		Layout     listing.Layout      `json:"layout"`
		Filters    listing.FilterState `json:"filters"`
		Source     domain.Source       `json:"source"`
	}{rows, res.View.Page, res.View.TotalPages, res.View.TotalCount, res.View.Layout, res.State, res.Catalog.Source}

	return render(cmd.OutOrStdout(), opts.output, out, func(t table.Writer) {
		t.AppendHeader(table.Row{"#", "Title", "Category", "Price", "Featured", "Image"})
		for i, r := range rows {
			t.AppendRow(table.Row{(res.View.Page-1)*res.View.PageSize + i + 1, r.Title, r.Category, r.Price, r.Featured, r.ImageURL})
		}
		t.AppendFooter(table.Row{"", fmt.Sprintf("page %d of %d", res.View.Page, res.View.TotalPages), "", "", "", fmt.Sprintf("%d products", res.View.TotalCount)})
	})
}

// productRow is the printable form of a product card.
type productRow struct {
	ID       string `json:"id"`
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Price    string `json:"price"`
	Featured bool   `json:"featured"`
	ImageURL string `json:"image_url"`
}

func newProductRow(s service.ProductSummary, lang string) productRow {
	p := s.Product
	return productRow{
		ID:       p.ID,
		Slug:     p.Slug,
		Title:    domain.Localized(p.Title, p.TitleUrdu, lang),
		Category: p.Category,
		Price:    formatPrice(&p),
		Featured: p.Featured,
		ImageURL: s.ImageURL,
	}
}

func formatPrice(p *domain.Product) string {
	if !p.HasPrice() {
		return "contact for price"
	}
	return "Rs " + p.Price.StringFixed(0)
}

func newProductsGetCmd(opts *rootOptions) *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "get <slug>",
		Short: "Show one product with its specifications and recommendations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := opts.logger(cmd)
			svc, err := opts.catalogService(log)
			if err != nil {
				return err
			}
			d, err := svc.Detail(cmd.Context(), args[0], lang)
			if err != nil {
				return err
			}
			return renderDetail(cmd, opts.output, d)
		},
	}
	cmd.Flags().StringVar(&lang, "lang", domain.LangEnglish, "language (en, ur)")
	return cmd
}

func renderDetail(cmd *cobra.Command, format string, d *service.ProductDetail) error {
	p := d.Product
	type spec struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}
	specs := make([]spec, len(p.Specifications))
	for i, s := range p.Specifications {
		specs[i] = spec{domain.Localized(s.Name, s.NameUrdu, d.Lang), domain.Localized(s.Value, s.ValueUrdu, d.Lang)}
	}
	images := make([]string, len(d.Images))
	for i, img := range d.Images {
		images[i] = img.URL
	}
	recommended := make([]string, len(d.Recommended))
	for i, r := range d.Recommended {
		recommended[i] = r.Product.Slug
	}

	out := struct {
		ID             string   `json:"id"`
		Slug           string   `json:"slug"`
		Title          string   `json:"title"`
		Description    string   `json:"description"`
		Category       string   `json:"category"`
		Price          string   `json:"price"`
		Specifications []spec   `json:"specifications"`
		Images         []string `json:"images"`
		Recommended    []string `json:"recommended"`
		InquiryURL     string   `json:"inquiry_url"`
		Source         string   `json:"source"`
	}{
		ID:             p.ID,
		Slug:           p.Slug,
		Title:          domain.Localized(p.Title, p.TitleUrdu, d.Lang),
		Description:    domain.Localized(p.Description, p.DescriptionUrdu, d.Lang),
		Category:       p.Category,
		Price:          formatPrice(&p),
		Specifications: specs,
		Images:         images,
		Recommended:    recommended,
		InquiryURL:     d.InquiryURL,
		Source:         d.Source,
	}

	return render(cmd.OutOrStdout(), format, out, func(t table.Writer) {
		t.AppendRow(table.Row{"Title", out.Title})
		t.AppendRow(table.Row{"Slug", out.Slug})
		t.AppendRow(table.Row{"Category", out.Category})
		t.AppendRow(table.Row{"Price", out.Price})
		for _, s := range specs {
			t.AppendRow(table.Row{s.Name, s.Value})
		}
		for i, u := range images {
			t.AppendRow(table.Row{"Image " + strconv.Itoa(i+1), u})
		}
		for _, r := range recommended {
			t.AppendRow(table.Row{"See also", r})
		}
		t.AppendRow(table.Row{"Inquire", out.InquiryURL})
		t.AppendRow(table.Row{"Source", out.Source})
	})
}
