package listing

import (
	"sync"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/domain"
)

// Controller holds one visitor's filter state across interactions. Any
// change to the category, search, sort or product set sends the visitor
// back to page 1.
type Controller struct {
	mu       sync.Mutex
	products []domain.Product
	state    FilterState
}

// NewController creates a controller over products with default filters.
func NewController(products []domain.Product) *Controller {
	return &Controller{
		products: products,
		state:    defaultState(),
	}
}

func defaultState() FilterState {
	return FilterState{Category: domain.AllProducts, Sort: DefaultSort, Page: 1}
}

// SetProducts replaces the product set.
func (c *Controller) SetProducts(products []domain.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = products
	c.state.Page = 1
}

// SetCategory selects a category.
func (c *Controller) SetCategory(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if category != c.state.Category {
		c.state.Category = category
		c.state.Page = 1
	}
}

// SetSearch sets the search term.
func (c *Controller) SetSearch(search string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if search != c.state.Search {
		c.state.Search = search
		c.state.Page = 1
	}
}

// SetSort sets the ordering.
func (c *Controller) SetSort(s Sort) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s != c.state.Sort {
		c.state.Sort = s
		c.state.Page = 1
	}
}

// SetPage moves to page, clamped to the available pages.
func (c *Controller) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Page = page
	c.state.Page = Derive(c.products, c.state).Page
}

// NextPage advances one page if there is one.
func (c *Controller) NextPage() {
	c.mu.Lock()
	page := c.state.Page + 1
	c.mu.Unlock()
	c.SetPage(page)
}

// PrevPage goes back one page if there is one.
func (c *Controller) PrevPage() {
	c.mu.Lock()
	page := c.state.Page - 1
	c.mu.Unlock()
	c.SetPage(page)
}

// ClearFilters resets category, search and sort.
func (c *Controller) ClearFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = defaultState()
}

// State returns the current filter state.
func (c *Controller) State() FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// View renders the current page.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := Derive(c.products, c.state)
	c.state.Page = v.Page
	return v
}
