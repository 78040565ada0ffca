package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/domain"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/image"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/listing"
)

const browseHelp = `commands:
  search <text>      filter by title or description
  category <name>    filter by category ("All Products" clears it)
  sort <order>       featured, price-asc, price-desc, name-asc, newest
  page <n>           jump to a page
  next, prev         move one page
  clear              reset every filter
  categories         list the categories
  help               show this text
  quit               leave`

func newProductsBrowseCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog interactively",
		Long: `browse loads the catalog once and then reads commands from stdin, printing
the visible page after each one. It behaves like the storefront product page.

` + browseHelp,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := opts.logger(cmd)
			l, _, err := opts.loader(log)
			if err != nil {
				return err
			}
			res := l.Current(cmd.Context())
			if res.Error != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s (source: %s)\n", res.Error, res.Source)
			}
			return browse(cmd.InOrStdin(), cmd.OutOrStdout(), res.Products, opts.resolver())
		},
	}
}

// browse runs the command loop until quit or end of input.
func browse(in io.Reader, out io.Writer, products []domain.Product, images *image.Resolver) error {
	c := listing.NewController(products)
	printView(out, c, images)

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		verb, arg, _ := strings.Cut(strings.TrimSpace(sc.Text()), " ")
		arg = strings.TrimSpace(arg)

		switch strings.ToLower(verb) {
		case "":
			continue
		case "quit", "exit", "q":
			return nil
		case "help", "?":
			fmt.Fprintln(out, browseHelp)
			continue
		case "search", "s":
			c.SetSearch(arg)
		case "category", "c":
			c.SetCategory(arg)
		case "sort":
			s := listing.Sort(arg)
			if !s.Valid() {
				fmt.Fprintf(out, "unknown sort %q\n", arg)
				continue
			}
			c.SetSort(s)
		case "page":
			n, err := strconv.Atoi(arg)
			if err != nil {
				fmt.Fprintf(out, "invalid page %q\n", arg)
				continue
			}
			c.SetPage(n)
		case "next", "n":
			c.NextPage()
		case "prev", "p":
			c.PrevPage()
		case "clear":
			c.ClearFilters()
		case "categories":
			for _, cat := range append([]string{domain.AllProducts}, domain.Categories(products)...) {
				fmt.Fprintln(out, "  "+cat)
			}
			continue
		default:
			fmt.Fprintf(out, "unknown command %q, type help\n", verb)
			continue
		}
		printView(out, c, images)
	}
}

func printView(out io.Writer, c *listing.Controller, images *image.Resolver) {
	st := c.State()
	v := c.View()

	t := newTable(out)
	t.SetTitle(fmt.Sprintf("%s | %s | %q", st.Category, st.Sort.Label(), st.Search))
	t.AppendHeader(table.Row{"#", "Title", "Category", "Price", "Image"})
	offset := (v.Page - 1) * v.PageSize
	for i := range v.Visible {
		p := v.Visible[i]
		main := p.MainImage()
		t.AppendRow(table.Row{
			offset + i + 1,
			p.Title,
			p.Category,
			formatPrice(&p),
			images.Resolve(main.Ref, 400, 300, image.FallbackPath(offset+i+1)),
		})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("page %d of %d %s", v.Page, v.TotalPages, pageLinks(v)), "", "", fmt.Sprintf("%d products, %s layout", v.TotalCount, v.Layout)})
	t.Render()
}

// pageLinks renders the page selector, e.g. "[1] 2 3 … 9".
func pageLinks(v listing.View) string {
	parts := make([]string, len(v.PageNumbers))
	for i, n := range v.PageNumbers {
		switch {
		case n == 0:
			parts[i] = "…"
		case n == v.Page:
			parts[i] = "[" + strconv.Itoa(n) + "]"
		default:
			parts[i] = strconv.Itoa(n)
		}
	}
	return strings.Join(parts, " ")
}
