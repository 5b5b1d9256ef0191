package sapi

import (
	"context"
	"errors"
)

// PageFetchFunc fetches one page of results for the given options. It is
// the sole integration point between the pagination engine and a concrete
// list endpoint: resource clients supply a closure with this signature.
type PageFetchFunc[T any] func(ctx context.Context, opts *ListOptions) (*PaginatedList[T], error)

// ItemsOf returns the items of a page. It is total: a nil or malformed
// page yields an empty slice, never an error.
func ItemsOf[T any](list *PaginatedList[T]) []T {
	if list == nil || list.Items == nil {
		return []T{}
	}

	return list.Items
}

// TotalOf returns the server-reported total for a page, or 0 when absent.
func TotalOf[T any](list *PaginatedList[T]) int64 {
	if list == nil || list.Total < 0 {
		return 0
	}

	return list.Total
}

// HasNextPage reports whether another page follows, i.e. offset+limit is
// still below the reported total. A page missing any of the three fields
// reports false: pagination terminates rather than looping on malformed
// data.
func HasNextPage[T any](list *PaginatedList[T]) bool {
	if list == nil || list.Limit <= 0 {
		return false
	}

	return list.Offset+list.Limit < list.Total
}

// NextPageOptions derives the options for the page after the given one, or
// nil when the listing is exhausted. Sort direction is carried over, since
// offset paging is only stable under a fixed order.
func NextPageOptions[T any](list *PaginatedList[T]) *ListOptions {
	if !HasNextPage(list) {
		return nil
	}

	return &ListOptions{
		Offset: list.Offset + list.Limit,
		Limit:  list.Limit,
		Desc:   list.Desc,
	}
}

// advancePage merges the derived next-page options onto the current ones.
// NextPageOptions carries only the paging fields, but filters such as
// Status or Fields must keep applying to every page of an iteration, or
// page offsets would be computed against a different result set.
func advancePage(current, next *ListOptions) *ListOptions {
	merged := current.clone()
	merged.Offset = next.Offset
	merged.Limit = next.Limit
	merged.Desc = next.Desc

	return merged
}

// Iterator lazily walks a paginated listing item by item. A page is fetched
// only when the buffered one is drained, so abandoning the iterator early
// never triggers further fetches. Iterators are single-use and owned by one
// goroutine; restart by constructing a new one with the same initial
// options.
type Iterator[T any] struct {
	ctx       context.Context
	fetch     PageFetchFunc[T]
	opts      *ListOptions
	buffer    []T
	pos       int
	exhausted bool
	err       error
}

// NewIterator creates an iterator over a paginated listing. A nil initial
// options value starts at offset 0 with the server's default page size.
func NewIterator[T any](ctx context.Context, fetch PageFetchFunc[T], initial *ListOptions) *Iterator[T] {
	return &Iterator[T]{
		ctx:   ctx,
		fetch: fetch,
		opts:  initial.clone(),
	}
}

// HasNext reports whether another item is available without fetching. It
// returns true when items remain buffered or when the listing has not yet
// been proven exhausted.
func (it *Iterator[T]) HasNext() bool {
	if it.err != nil {
		return false
	}

	if it.pos < len(it.buffer) {
		return true
	}

	return !it.exhausted
}

// Next returns the next item, fetching the next page on demand. Once a
// fetch fails the iterator is terminally failed: the error is returned now
// and on every later call, and no further fetching happens. Items already
// returned are never retracted.
func (it *Iterator[T]) Next() (T, error) {
	var zero T

	for it.pos >= len(it.buffer) {
		if it.err != nil {
			return zero, it.err
		}

		if it.exhausted {
			return zero, ErrNoMoreItems
		}

		page, err := it.fetch(it.ctx, it.opts)
		if err != nil {
			it.err = err
			it.exhausted = true

			return zero, err
		}

		it.buffer = ItemsOf(page)
		it.pos = 0

		next := NextPageOptions(page)
		if next == nil {
			it.exhausted = true
		} else {
			it.opts = advancePage(it.opts, next)
		}
	}

	item := it.buffer[it.pos]
	it.pos++

	return item, nil
}

// Err returns the terminal error of the iterator, if any.
func (it *Iterator[T]) Err() error {
	return it.err
}

// All drains the iterator into memory. See CollectAll for the memory
// caveat.
func (it *Iterator[T]) All() ([]T, error) {
	var items []T

	for it.HasNext() {
		item, err := it.Next()
		if errors.Is(err, ErrNoMoreItems) {
			break
		}

		if err != nil {
			return items, err
		}

		items = append(items, item)
	}

	return items, nil
}

// ForEach applies fn to every remaining item, stopping on the first fetch
// error or the first error returned by fn.
func (it *Iterator[T]) ForEach(fn func(item T) error) error {
	for it.HasNext() {
		item, err := it.Next()
		if errors.Is(err, ErrNoMoreItems) {
			return nil
		}

		if err != nil {
			return err
		}

		err = fn(item)
		if err != nil {
			return err
		}
	}

	return nil
}

// PageResult carries one page's items, or the terminal fetch error, through
// StreamPages.
type PageResult[T any] struct {
	Items []T
	Err   error
}

// StreamPages fetches pages sequentially and delivers them on the returned
// channel. The channel is unbuffered, so at most one page is in flight
// ahead of the consumer. The channel is closed after the last page, after
// a terminal error, or when ctx is cancelled; consumers abandoning the
// stream early must cancel ctx to release the producing goroutine.
func StreamPages[T any](ctx context.Context, fetch PageFetchFunc[T], initial *ListOptions) <-chan PageResult[T] {
	results := make(chan PageResult[T])

	go func() {
		defer close(results)

		opts := initial.clone()

		for {
			page, err := fetch(ctx, opts)
			if err != nil {
				select {
				case results <- PageResult[T]{Err: err}:
				case <-ctx.Done():
				}

				return
			}

			select {
			case results <- PageResult[T]{Items: ItemsOf(page)}:
			case <-ctx.Done():
				return
			}

			next := NextPageOptions(page)
			if next == nil {
				return
			}

			opts = advancePage(opts, next)
		}
	}()

	return results
}

// CollectAll materializes every item of a listing into one slice, or
// returns the first page-fetch error encountered. It fully defeats the
// laziness of the iterator: do not use it on listings that may not fit in
// memory.
func CollectAll[T any](ctx context.Context, fetch PageFetchFunc[T], initial *ListOptions) ([]T, error) {
	return NewIterator(ctx, fetch, initial).All()
}
