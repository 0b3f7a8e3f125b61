package createsend

import (
	"context"
	"time"
)

// PageFetcher loads one page of results.
type PageFetcher[T any] func(ctx context.Context, paging PageOptions) (*PagedResult[T], error)

// PageIterator yields the results of a paged endpoint one at a time,
// fetching the next page when the current one is used up.
//
//	it := client.Lists.IterateSubscribers(listID, createsend.StateActive, time.Time{}, createsend.PageOptions{PageSize: 100})
//	defer it.Close()
//	for {
//	    sub, ok, err := it.Next(ctx)
//	    if err != nil || !ok {
//	        break
//	    }
//	    ...
//	}
type PageIterator[T any] struct {
	fetch  PageFetcher[T]
	paging PageOptions

	buf     []T
	pos     int
	fetched bool
	last    bool
	closed  bool
}

// NewPageIterator starts at paging.Page, or page 1 when unset.
func NewPageIterator[T any](fetch PageFetcher[T], paging PageOptions) *PageIterator[T] {
	if paging.Page < 1 {
		paging.Page = 1
	}
	return &PageIterator[T]{fetch: fetch, paging: paging}
}

// Next returns the next value. It returns (zero, false, nil) when the
// results are exhausted or the iterator is closed. A failed fetch may be
// retried by calling Next again.
func (it *PageIterator[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for it.pos >= len(it.buf) {
		if it.closed || it.last {
			return zero, false, nil
		}
		if it.fetched {
			it.paging.Page++
		}
		page, err := it.fetch(ctx, it.paging)
		if err != nil {
			if it.fetched {
				it.paging.Page--
			}
			return zero, false, err
		}
		it.fetched = true
		if page == nil {
			it.buf, it.pos, it.last = nil, 0, true
			continue
		}
		it.buf, it.pos = page.Results, 0
		it.last = !page.HasNextPage() || len(page.Results) == 0
	}
	v := it.buf[it.pos]
	it.pos++
	return v, true, nil
}

// Close stops the iterator. Later calls to Next report exhaustion.
func (it *PageIterator[T]) Close() error {
	it.closed = true
	it.buf = nil
	return nil
}

// IterateSubscribers walks every page of a list's subscribers in state.
func (s *ListsService) IterateSubscribers(listID, state string, since time.Time, paging PageOptions) *PageIterator[Subscriber] {
	return NewPageIterator[Subscriber](func(ctx context.Context, p PageOptions) (*PagedResult[Subscriber], error) {
		return s.Subscribers(ctx, listID, state, since, p)
	}, paging)
}
