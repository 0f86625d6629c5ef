package equipment

import (
	"context"
	"errors"
	"sync"

	"github.com/medinventory/medinv/internal/api"
)

// List accumulates pages of equipment records for incremental loading. It is
// one of the two UI boundaries: every error it returns carries only a
// display-ready message, and a failed fetch never disturbs the accumulated
// items.
//
// Concurrent fetches are tolerated: each carries a sequence number, and a
// completion that is no longer the latest is discarded instead of
// overwriting newer state.
type List struct {
	client   *Client
	pageSize int

	mu      sync.Mutex
	filters Filters
	page    int
	items   []Equipment
	hasMore bool
	loading bool
	seq     uint64
}

// NewList creates a paginated list over the given client. A non-positive
// pageSize falls back to DefaultPageSize.
func NewList(client *Client, pageSize int) *List {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &List{
		client:   client,
		pageSize: pageSize,
		page:     1,
	}
}

// Items returns a copy of the accumulated records in request order.
func (l *List) Items() []Equipment {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Equipment, len(l.items))
	copy(out, l.items)
	return out
}

// HasMore reports whether another page is expected.
func (l *List) HasMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasMore
}

// Page returns the 1-based cursor of the last committed page.
func (l *List) Page() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page
}

// Loading reports whether a fetch is in flight. Advisory only; callers
// should disable duplicate triggers while true.
func (l *List) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// Filters returns the active filter set.
func (l *List) Filters() Filters {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filters
}

// Fetch loads the given page with the active filters. When appending, new
// items are concatenated onto the accumulation; otherwise the accumulation
// is replaced wholesale.
func (l *List) Fetch(ctx context.Context, page int, appendItems bool) error {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	l.loading = true
	filters := l.filters
	l.mu.Unlock()

	result, err := l.client.FetchPage(ctx, filters, page, l.pageSize)

	l.mu.Lock()
	defer l.mu.Unlock()

	latest := seq == l.seq
	if latest {
		l.loading = false
	}
	if err != nil {
		return errors.New(api.ErrorMessage(err))
	}
	if !latest {
		// A newer fetch has been issued since; drop this result.
		return nil
	}

	if appendItems {
		l.items = append(l.items, result.Items...)
	} else {
		l.items = result.Items
	}
	l.page = page

	if result.Meta != nil && result.Meta.TotalPages != nil {
		l.hasMore = page < *result.Meta.TotalPages
	} else {
		l.hasMore = len(result.Items) == l.pageSize
	}
	return nil
}

// LoadMore fetches the next page and appends it. It is a no-op while a fetch
// is in flight or when no further page is expected.
func (l *List) LoadMore(ctx context.Context) error {
	l.mu.Lock()
	if l.loading || !l.hasMore {
		l.mu.Unlock()
		return nil
	}
	next := l.page + 1
	l.mu.Unlock()

	return l.Fetch(ctx, next, true)
}

// Refresh reloads the first page with the active filters, replacing the
// accumulation.
func (l *List) Refresh(ctx context.Context) error {
	return l.Fetch(ctx, 1, false)
}

// ApplyFilters replaces the filter set and reloads from the first page.
func (l *List) ApplyFilters(ctx context.Context, filters Filters) error {
	l.mu.Lock()
	l.filters = filters
	l.mu.Unlock()

	return l.Fetch(ctx, 1, false)
}
