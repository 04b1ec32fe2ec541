package catalog

import "fmt"

// PageNumbers returns the page indices [1, 2, ..., totalPages] used to render
// navigation links. It is empty when there are no pages.
func PageNumbers(totalPages int) ([]int, error) {
	if totalPages < 0 {
		return nil, fmt.Errorf("total pages %d is negative: %w", totalPages, ErrInvalidArgument)
	}
	pages := make([]int, totalPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages, nil
}

// Pagination is the navigation view model of a listing page.
type Pagination struct {
	Current    int
	TotalPages int
	Pages      []int
	HasPrev    bool
	Prev       int
	HasNext    bool
	Next       int
}

// NewPagination builds navigation for the page the request asked for. The
// current page may lie past the last page, in which case only "previous"
// links make sense.
func NewPagination(current, totalPages int) (Pagination, error) {
	pages, err := PageNumbers(totalPages)
	if err != nil {
		return Pagination{}, err
	}
	return Pagination{
		Current:    current,
		TotalPages: totalPages,
		Pages:      pages,
		HasPrev:    current > 1 && totalPages > 0,
		Prev:       min(current-1, totalPages),
		HasNext:    current < totalPages,
		Next:       current + 1,
	}, nil
}

// IsCurrent reports whether n is the page being viewed.
func (p Pagination) IsCurrent(n int) bool {
	return n == p.Current
}
