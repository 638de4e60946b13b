// Package controller owns a visitor's live FilterState and keeps it, the
// navigation location and the catalog fetch in step.
//
// User edits flow state to location: the controller updates the filter,
// resets the page and navigates. External navigation flows location to state:
// the query is decoded and applied without navigating again. Both paths end in
// a debounced settle that hands the filter to the Fetcher.
package controller

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/mrops-br/catalog-storefront/internal/app/querystate"
	"github.com/mrops-br/catalog-storefront/internal/app/service"
	"github.com/mrops-br/catalog-storefront/internal/domain"
)

// View is what the presentation layer renders. Result belongs to
// ResultFilter, which trails Filter while an edit waits out the debounce.
type View struct {
	Filter       domain.FilterState
	Location     string
	Result       service.ProductsResult
	ResultFilter domain.FilterState
	Pagination   domain.PaginationState
}

// Stale reports whether Result was fetched for a filter other than Filter
func (v View) Stale() bool {
	return v.ResultFilter != v.Filter
}

// Options tunes a Controller
type Options struct {
	// Root is the catalog location restored by Restore. Defaults to "/".
	Root string
	// Debounce delays the fetch after the filter changes; edits arriving
	// inside the window restart it.
	Debounce time.Duration
	// FallbackTotalItems sizes pagination when the catalog reports no total
	FallbackTotalItems int
}

// Controller is safe for concurrent use
type Controller struct {
	fetcher  *service.Fetcher
	nav      Navigator
	pageSize int
	opts     Options
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	state       domain.FilterState
	extra       url.Values
	location    string
	result      service.ProductsResult
	resultFor   domain.FilterState
	totalItems  int
	timer       *time.Timer
	closed      bool
	subscribers map[int]func(View)
	nextSub     int
}

// New creates a controller that publishes through fetcher. The controller
// becomes the fetcher's only listener.
func New(fetcher *service.Fetcher, pageSize int, nav Navigator, logger *slog.Logger, opts Options) *Controller {
	if opts.Root == "" {
		opts.Root = querystate.Root
	}
	if pageSize <= 0 {
		pageSize = service.DefaultPageSize
	}
	ctx, cancel := context.WithCancel(context.Background())

	c := &Controller{
		fetcher:     fetcher,
		nav:         nav,
		pageSize:    pageSize,
		opts:        opts,
		logger:      logger.With(slog.String("component", "filter_controller")),
		ctx:         ctx,
		cancel:      cancel,
		state:       domain.DefaultFilter(),
		location:    opts.Root,
		result:      domain.Loading[domain.ProductPage](),
		resultFor:   domain.DefaultFilter(),
		totalItems:  opts.FallbackTotalItems,
		subscribers: make(map[int]func(View)),
	}
	fetcher.OnResult(c.onResult)
	return c
}

// Start derives the initial state from the incoming navigation query and
// fetches it without waiting for the debounce window
func (c *Controller) Start(rawQuery string) {
	values := parse(rawQuery)
	c.mu.Lock()
	c.state = querystate.DecodeValues(values)
	c.extra = unrecognized(values)
	c.location = querystate.LocationWith(c.opts.Root, c.extra, c.state)
	c.scheduleLocked(0)
	c.mu.Unlock()
}

// SetSearch applies a search text edit
func (c *Controller) SetSearch(query string) {
	c.edit(func(f *domain.FilterState) { f.SearchQuery = query })
}

// SetCategory applies a category selection; "" clears it
func (c *Controller) SetCategory(category string) {
	c.edit(func(f *domain.FilterState) { f.Category = category })
}

// SetSort applies a sort selection. Unknown orders clear the sort.
func (c *Controller) SetSort(order domain.SortOrder) {
	if _, ok := domain.ParseSortOrder(string(order)); !ok {
		order = domain.SortNone
	}
	c.edit(func(f *domain.FilterState) { f.Sort = order })
}

// edit runs a single-field user edit: page resets to 1 and the new state is
// pushed to navigation. Edits that change nothing are ignored.
func (c *Controller) edit(apply func(*domain.FilterState)) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	next := c.state
	apply(&next)
	next.Page = 1
	next = next.Normalized()
	if next == c.state {
		c.mu.Unlock()
		return
	}
	c.state = next
	c.location = querystate.LocationWith(c.opts.Root, c.extra, next)
	location := c.location
	c.scheduleLocked(c.opts.Debounce)
	c.mu.Unlock()

	c.logger.Debug("Filter edited", slog.String("location", location))
	c.nav.Navigate(location)
}

// HandleNavigation applies an externally driven location change, such as
// back/forward or a pagination link. It accepts a query string or a full
// location and never navigates.
func (c *Controller) HandleNavigation(rawQuery string) {
	values := parse(rawQuery)
	next := querystate.DecodeValues(values)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.extra = unrecognized(values)
	c.location = querystate.LocationWith(c.opts.Root, c.extra, next)
	if next == c.state {
		return
	}
	c.state = next
	c.scheduleLocked(c.opts.Debounce)
}

// PageLocation is the location a pagination control for page links to. The
// active filters and unrecognized keys are preserved.
func (c *Controller) PageLocation(page int) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	f := c.state
	f.Page = page
	return querystate.LocationWith(c.opts.Root, c.extra, f.Normalized())
}

// GoToPage navigates to page when the pagination controls allow it. It
// reports false for a disabled move.
func (c *Controller) GoToPage(page int) bool {
	c.mu.Lock()
	p := c.paginationLocked()
	c.mu.Unlock()

	switch {
	case page < 1, page == p.CurrentPage:
		return false
	case page > p.CurrentPage && !domain.CanGoNext(page-1, p.TotalPages()):
		return false
	}

	location := c.PageLocation(page)
	c.nav.Navigate(location)
	c.HandleNavigation(location)
	return true
}

// Next moves one page forward if allowed
func (c *Controller) Next() bool {
	return c.GoToPage(c.State().Page + 1)
}

// Previous moves one page back if allowed
func (c *Controller) Previous() bool {
	return c.GoToPage(c.State().Page - 1)
}

// Restore clears every filter and navigates to the bare catalog root
func (c *Controller) Restore() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	changed := c.state != domain.DefaultFilter()
	c.state = domain.DefaultFilter()
	c.extra = nil
	c.location = c.opts.Root
	if changed {
		c.scheduleLocked(c.opts.Debounce)
	}
	c.mu.Unlock()

	c.nav.Navigate(c.opts.Root)
}

func (c *Controller) State() domain.FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// View returns a snapshot for rendering
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Subscribe registers fn to receive a View after every published fetch
// result. The returned function removes the subscription.
func (c *Controller) Subscribe(fn func(View)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

// Close stops pending settles and waits for running fetches to return
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
	}
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

func (c *Controller) scheduleLocked(delay time.Duration) {
	if c.closed {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(delay, c.settle)
}

// settle fetches whatever the filter is once the debounce window closes
func (c *Controller) settle() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	filter := c.state
	c.wg.Add(1)
	c.mu.Unlock()

	defer c.wg.Done()
	c.fetcher.Fetch(c.ctx, filter)
}

func (c *Controller) onResult(filter domain.FilterState, result service.ProductsResult) {
	c.mu.Lock()
	c.result = result
	c.resultFor = filter
	if result.IsSuccess() {
		if result.Value.TotalReported {
			c.totalItems = result.Value.Total
		} else {
			c.totalItems = c.opts.FallbackTotalItems
		}
	}
	view := c.viewLocked()
	subscribers := make([]func(View), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subscribers = append(subscribers, fn)
	}
	c.mu.Unlock()

	for _, fn := range subscribers {
		fn(view)
	}
}

func (c *Controller) viewLocked() View {
	return View{
		Filter:       c.state,
		Location:     c.location,
		Result:       c.result,
		ResultFilter: c.resultFor,
		Pagination:   c.paginationLocked(),
	}
}

func (c *Controller) paginationLocked() domain.PaginationState {
	return domain.PaginationState{
		CurrentPage:  c.state.Page,
		TotalItems:   max(c.totalItems, 0),
		ItemsPerPage: c.pageSize,
	}
}

// parse accepts a bare query ("page=2"), a query with its '?' or a full
// location ("/?page=2")
func parse(raw string) url.Values {
	if strings.HasPrefix(raw, "/") || strings.Contains(raw, "://") {
		_, raw, _ = strings.Cut(raw, "?")
	}
	values, _ := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	return values
}

func unrecognized(values url.Values) url.Values {
	var extra url.Values
	for k, v := range values {
		switch k {
		case querystate.KeySearch, querystate.KeyCategory, querystate.KeySort, querystate.KeyPage:
			continue
		}
		if extra == nil {
			extra = url.Values{}
		}
		extra[k] = append([]string(nil), v...)
	}
	return extra
}
