// Package query implements the list evaluation shared by every screen:
// structured filters, then free-text search, then a stable keyed sort.
// The pipeline never mutates its input and always returns a fresh slice.
package query

import (
	"sort"
	"strings"
)

// All is the filter value meaning "no constraint on this field".
const All = "all"

// Direction controls sort order
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Criteria is the user-chosen evaluation for one invocation. Filters map
// field names to a single accepted value or All; multiple filters compose
// by logical AND. Search is a case-insensitive substring match against the
// pipeline's search key; an empty search is a no-op.
type Criteria struct {
	Filters   map[string]string
	Search    string
	SortBy    string
	Direction Direction
}

// Pipeline evaluates criteria over slices of T. Field accessors, the search
// key and sort comparators are registered per entity kind at construction.
type Pipeline[T any] struct {
	fields    map[string]func(T) string
	searchKey func(T) string
	sortKeys  map[string]func(a, b T) int
}

// New creates an empty pipeline for entity kind T
func New[T any]() *Pipeline[T] {
	return &Pipeline[T]{
		fields:   make(map[string]func(T) string),
		sortKeys: make(map[string]func(a, b T) int),
	}
}

// Field registers a structured-filter accessor under the given name.
func (p *Pipeline[T]) Field(name string, fn func(T) string) *Pipeline[T] {
	p.fields[name] = fn
	return p
}

// SearchKey registers the single field free-text search matches against.
func (p *Pipeline[T]) SearchKey(fn func(T) string) *Pipeline[T] {
	p.searchKey = fn
	return p
}

// SortKey registers a comparator under the given name. The comparator
// returns negative, zero or positive for the ascending order; Descending
// inverts it.
func (p *Pipeline[T]) SortKey(name string, cmp func(a, b T) int) *Pipeline[T] {
	p.sortKeys[name] = cmp
	return p
}

// Apply runs filter, search and sort in that fixed order and returns a new
// slice. Filters naming unregistered fields and sort keys without a
// registered comparator are ignored. Ties preserve input order.
func (p *Pipeline[T]) Apply(items []T, c Criteria) []T {
	out := make([]T, 0, len(items))

	needle := strings.ToLower(c.Search)
	for _, item := range items {
		if !p.matchFilters(item, c.Filters) {
			continue
		}
		if needle != "" && p.searchKey != nil &&
			!strings.Contains(strings.ToLower(p.searchKey(item)), needle) {
			continue
		}
		out = append(out, item)
	}

	if cmp, ok := p.sortKeys[c.SortBy]; ok {
		sort.SliceStable(out, func(i, j int) bool {
			r := cmp(out[i], out[j])
			if c.Direction == Descending {
				return r > 0
			}
			return r < 0
		})
	}

	return out
}

func (p *Pipeline[T]) matchFilters(item T, filters map[string]string) bool {
	for name, want := range filters {
		if want == All || want == "" {
			continue
		}
		fn, ok := p.fields[name]
		if !ok {
			continue
		}
		if fn(item) != want {
			return false
		}
	}
	return true
}

// Filter returns the items matching pred, in order, as a new slice. Views
// use it for role defaults applied before the structured criteria.
func Filter[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// SortStable returns a sorted copy of items using cmp, preserving the
// relative order of equal elements.
func SortStable[T any](items []T, cmp func(a, b T) int) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return cmp(out[i], out[j]) < 0 })
	return out
}

// Truncate caps a result set for display. Presentation policy only; the
// pipeline itself has no size limit.
func Truncate[T any](items []T, max int) []T {
	if max <= 0 || len(items) <= max {
		return items
	}
	return items[:max]
}
