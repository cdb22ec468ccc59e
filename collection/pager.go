package collection

import (
	"context"
	"strings"
	"sync"

	"github.com/Abitto-org/user-app/api"
)

// FetchPage fetches one page of a server-paginated resource.
type FetchPage[T any] func(ctx context.Context, page, limit int) ([]T, api.Pagination, error)

// Pager presents an unbounded server-paginated collection as an
// incrementally growing local list.
//
// A pager is keyed by (resource, active meter id, server-side filter set);
// EnsureKey discards everything and restarts at page 1 when any component
// changes. Pages are fetched in strictly increasing order — page N+1 is
// never requested before page N's result is appended — and duplicate
// concurrent fetches for the same next page are never issued.
type Pager[T any] struct {
	limit int
	fetch FetchPage[T]

	lock       sync.Mutex
	key        string
	generation uint64
	items      []T
	pagination api.Pagination
	nextPage   int
	loaded     bool
	inflight   bool
}

func NewPager[T any](limit int, fetch FetchPage[T]) *Pager[T] {
	return &Pager[T]{limit: limit, fetch: fetch, nextPage: 1}
}

// EnsureKey resets the pager when the query key changed. Results of any
// fetch still in flight for the old key are dropped on arrival.
func (p *Pager[T]) EnsureKey(key string) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.key == key {
		return
	}
	p.key = key
	p.generation++
	p.items = nil
	p.pagination = api.Pagination{}
	p.nextPage = 1
	p.loaded = false
}

// LoadMore fetches the next page if one is known to exist and no fetch is
// already in flight. It reports whether a page was appended.
func (p *Pager[T]) LoadMore(ctx context.Context) (bool, error) {
	p.lock.Lock()
	if p.inflight || (p.loaded && !p.pagination.HasNext()) {
		p.lock.Unlock()
		return false, nil
	}
	p.inflight = true
	page := p.nextPage
	generation := p.generation
	p.lock.Unlock()

	items, pagination, err := p.fetch(ctx, page, p.limit)

	p.lock.Lock()
	defer p.lock.Unlock()
	p.inflight = false

	if err != nil {
		return false, err
	}

	// The key changed while this page was in flight: the result is stale
	// and must not be applied over the newer state.
	if generation != p.generation {
		return false, nil
	}

	p.items = append(p.items, items...)
	p.pagination = pagination
	p.nextPage = page + 1
	p.loaded = true
	return true, nil
}

// Items returns a copy of the accumulated list in fetch order.
func (p *Pager[T]) Items() []T {
	p.lock.Lock()
	defer p.lock.Unlock()

	out := make([]T, len(p.items))
	copy(out, p.items)
	return out
}

// HasMore reports whether another page exists. Before the first page has
// loaded it reports true, since page 1 is always worth requesting.
func (p *Pager[T]) HasMore() bool {
	p.lock.Lock()
	defer p.lock.Unlock()

	if !p.loaded {
		return true
	}
	return p.pagination.HasNext()
}

// Pagination returns the normalized pagination record of the last page.
func (p *Pager[T]) Pagination() api.Pagination {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.pagination
}

// PagerSet keys independent pagers by query key, created on demand. Two
// views with different keys each own their accumulation outright, so a
// request for one key can never reset or be served another key's pages;
// there is no check-then-act window between selecting a key and loading.
type PagerSet[T any] struct {
	limit int
	fetch FetchPage[T]

	lock   sync.Mutex
	pagers map[string]*Pager[T]
}

func NewPagerSet[T any](limit int, fetch FetchPage[T]) *PagerSet[T] {
	return &PagerSet[T]{limit: limit, fetch: fetch, pagers: map[string]*Pager[T]{}}
}

// Get returns the pager owning key, creating an empty one on first use.
func (ps *PagerSet[T]) Get(key string) *Pager[T] {
	ps.lock.Lock()
	defer ps.lock.Unlock()

	p, ok := ps.pagers[key]
	if !ok {
		p = NewPager(ps.limit, ps.fetch)
		ps.pagers[key] = p
	}
	return p
}

// Reset discards every pager. Accumulated pages refetch on next use; a
// fetch still in flight lands in its discarded pager and is never served.
func (ps *PagerSet[T]) Reset() {
	ps.lock.Lock()
	defer ps.lock.Unlock()
	ps.pagers = map[string]*Pager[T]{}
}

// Filter narrows already-accumulated items by case-insensitive substring
// match across the display fields the extractor yields. It is a pure view:
// it never fetches and never changes the has-more signal.
func Filter[T any](items []T, query string, fields func(T) []string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, field := range fields(item) {
			if strings.Contains(strings.ToLower(field), q) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}
