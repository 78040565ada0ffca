package pagination

// Ellipsis marks a gap in a page-number list.
const Ellipsis = 0

// DefaultMaxVisible is the number of page links shown before the list is
// collapsed with ellipses.
const DefaultMaxVisible = 5

// Params holds a resolved page window over a list of TotalCount items.
type Params struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
	Offset     int `json:"-"`
}

// New computes the page window for the requested page. The page is clamped
// into [1, TotalPages]; when there are no pages it stays at 1.
func New(page, perPage, totalCount int) Params {
	p := Params{Page: page, PerPage: perPage}
	if perPage > 0 {
		p.TotalPages = (totalCount + perPage - 1) / perPage
	}
	p.Page = Clamp(page, p.TotalPages)
	p.Offset = (p.Page - 1) * perPage
	return p
}

// Clamp keeps page within [1, totalPages], treating totalPages < 1 as 1.
func Clamp(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Bounds returns the half-open [start, end) slice bounds of the window over
// a list of length n.
func (p Params) Bounds(n int) (int, int) {
	start := p.Offset
	if start > n {
		start = n
	}
	end := start + p.PerPage
	if end > n {
		end = n
	}
	return start, end
}

// Slice returns the items of the current page.
func Slice[T any](items []T, p Params) []T {
	start, end := p.Bounds(len(items))
	return items[start:end]
}

// PageNumbers lists the page links to render around current, inserting
// Ellipsis where pages are skipped. With maxVisible 5 and 10 pages:
//
//	current 2 -> 1 2 3 4 … 10
//	current 5 -> 1 … 4 5 6 … 10
//	current 9 -> 1 … 7 8 9 10
//
// A single page (or none) needs no pagination and yields nil.
func PageNumbers(current, totalPages, maxVisible int) []int {
	if totalPages <= 1 {
		return nil
	}
	if maxVisible < 5 {
		maxVisible = DefaultMaxVisible
	}
	current = Clamp(current, totalPages)

	if totalPages <= maxVisible {
		return seq(1, totalPages)
	}

	switch {
	case current <= 3:
		return append(seq(1, 4), Ellipsis, totalPages)
	case current >= totalPages-2:
		return append([]int{1, Ellipsis}, seq(totalPages-3, totalPages)...)
	default:
		out := []int{1, Ellipsis}
		out = append(out, seq(current-1, current+1)...)
		return append(out, Ellipsis, totalPages)
	}
}

func seq(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}
