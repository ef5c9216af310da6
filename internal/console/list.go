// Package console holds the deduplicated page-controller engine: the
// paginated list controller, the joined detail view, the mutation dispatcher
// and the declarative view registry that the per-entity pages share.
package console

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"bot-console/internal/apiclient"
	"bot-console/internal/model"
	"bot-console/internal/view"
)

// errStaleResponse marks a load whose response arrived after a newer load
// was issued. The stale result is discarded, never rendered.
var errStaleResponse = errors.New("stale response superseded by a newer load")

// IsStale reports whether a load was discarded for arriving out of order.
// Stale loads are not failures: the newer render already won.
func IsStale(err error) bool {
	return errors.Is(err, errStaleResponse)
}

// Notifier is the sink for transient operator-facing messages.
type Notifier interface {
	Notify(text string, severity model.Severity)
}

// FetchFunc loads one page of a collection from the backend.
type FetchFunc[T any] func(ctx context.Context, sess apiclient.Session, query model.ListQuery) (model.Page[T], error)

// RowFunc converts one entity into a prepared table row.
type RowFunc[T any] func(item T) view.Row

// ListController drives one paginated, filterable table view. It owns the
// current query, discards superseded responses via a monotonic sequence
// number, and keeps its last good render untouched across failed loads.
type ListController[T any] struct {
	viewName string
	columns  []string
	fetch    FetchFunc[T]
	row      RowFunc[T]
	notifier Notifier

	seq atomic.Uint64

	mu    sync.Mutex
	query model.ListQuery
	last  *view.Table
}

func NewListController[T any](def ViewDef, pageSize int, fetch FetchFunc[T], row RowFunc[T], notifier Notifier) *ListController[T] {
	return &ListController[T]{
		viewName: def.Name,
		columns:  def.ColumnLabels(),
		fetch:    fetch,
		row:      row,
		notifier: notifier,
		query:    model.NewListQuery(pageSize),
	}
}

// Load fetches the given page with the active filters and produces a fresh
// table render. On failure the prior render is left untouched and the error
// is surfaced as a notification; on a stale response nothing changes at all.
func (c *ListController[T]) Load(ctx context.Context, sess apiclient.Session, page int) (view.Table, error) {
	c.mu.Lock()
	c.query = c.query.WithPage(page)
	query := c.query
	c.mu.Unlock()

	ticket := c.seq.Add(1)

	result, err := c.fetch(ctx, sess, query)
	if err != nil {
		if errors.Is(err, model.ErrUnauthorized) {
			return view.Table{}, err
		}
		c.notifier.Notify(fmt.Sprintf("failed to load %s", c.viewName), model.SeverityError)
		return c.Snapshot(), err
	}

	if ticket != c.seq.Load() {
		return c.Snapshot(), errStaleResponse
	}

	rows := make([]view.Row, 0, len(result.Items))
	for _, item := range result.Items {
		rows = append(rows, c.row(item))
	}

	meta := BuildMeta(query.Page, query.PageSize, result.Total)
	table := view.Table{
		View:    c.viewName,
		Columns: c.columns,
		Rows:    rows,
		Meta:    meta,
		Window:  PageWindow(meta.Page, meta.TotalPages),
	}

	c.mu.Lock()
	if ticket == c.seq.Load() {
		c.last = &table
	}
	c.mu.Unlock()

	return table, nil
}

// ApplyFilters replaces the filter map, resets to page 1 and reloads.
// Filter keys with empty values are dropped.
func (c *ListController[T]) ApplyFilters(ctx context.Context, sess apiclient.Session, filters map[string]string) (view.Table, error) {
	c.mu.Lock()
	c.query = c.query.WithFilters(filters)
	c.mu.Unlock()

	return c.Load(ctx, sess, 1)
}

// ChangePage validates the target page against the last known total before
// loading. Out-of-range targets are rejected without a request; the active
// filters are never touched.
func (c *ListController[T]) ChangePage(ctx context.Context, sess apiclient.Session, page int) (view.Table, error) {
	c.mu.Lock()
	totalPages := 1
	if c.last != nil {
		totalPages = c.last.Meta.TotalPages
	}
	c.mu.Unlock()

	if page < 1 || page > totalPages {
		return c.Snapshot(), fmt.Errorf("page %d of %d: %w", page, totalPages, model.ErrPageOutOfRange)
	}

	return c.Load(ctx, sess, page)
}

// Reload re-fetches the current page, keeping filters and position. Used by
// the auto-refresh timer and after successful mutations.
func (c *ListController[T]) Reload(ctx context.Context, sess apiclient.Session) (view.Table, error) {
	c.mu.Lock()
	page := c.query.Page
	c.mu.Unlock()

	return c.Load(ctx, sess, page)
}

// Snapshot returns the last good render, or an empty single-page table when
// nothing loaded yet.
func (c *ListController[T]) Snapshot() view.Table {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.last != nil {
		return *c.last
	}

	meta := BuildMeta(1, c.query.PageSize, 0)
	return view.Table{
		View:    c.viewName,
		Columns: c.columns,
		Meta:    meta,
		Window:  PageWindow(1, 1),
	}
}

// Query exposes the active query for tests and fragment URL building.
func (c *ListController[T]) Query() model.ListQuery {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.query
}
