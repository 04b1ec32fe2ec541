package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// PageQuery describes one page of a (possibly filtered) listing.
type PageQuery struct {
	Number int    // 1-based page number
	Size   int    // records per page
	Search string // optional free-text term, already trimmed
}

// NewPageQuery builds a book listing query with the default page size.
// Page numbers below 1 are rejected.
func NewPageQuery(number int, search string) (PageQuery, error) {
	return NewPageQueryWithSize(number, PageSize, search)
}

// NewPageQueryWithSize builds a listing query with an explicit page size.
func NewPageQueryWithSize(number, size int, search string) (PageQuery, error) {
	if number < 1 {
		return PageQuery{}, fmt.Errorf("page number %d must be at least 1: %w", number, ErrInvalidArgument)
	}
	if size < 1 {
		return PageQuery{}, fmt.Errorf("page size %d must be at least 1: %w", size, ErrInvalidArgument)
	}
	return PageQuery{
		Number: number,
		Size:   size,
		Search: strings.TrimSpace(search),
	}, nil
}

// ParsePageNumber converts the textual page number of a URL into an int.
func ParsePageNumber(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("page number %q is not an integer: %w", raw, ErrInvalidArgument)
	}
	if n < 1 {
		return 0, fmt.Errorf("page number %d must be at least 1: %w", n, ErrInvalidArgument)
	}
	return n, nil
}

// Offset is the number of records skipped before this page starts.
func (q PageQuery) Offset() int {
	return (q.Number - 1) * q.Size
}

// Limit is the maximum number of records on this page.
func (q PageQuery) Limit() int {
	return q.Size
}

// HasSearch reports whether the listing is filtered.
func (q PageQuery) HasSearch() bool {
	return q.Search != ""
}

// LikePattern returns the search term as a SQL LIKE pattern that matches it
// anywhere in a value. LIKE metacharacters in the term are escaped with a
// backslash, so the query must use ESCAPE '\'. Case folding is left to the
// query, which applies the same function to the pattern and the column.
func (q PageQuery) LikePattern() string {
	return "%" + EscapeLike(q.Search) + "%"
}

// EscapeLike escapes the LIKE wildcards % and _ and the escape character
// itself so that s is matched literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Page is one slice of a listing together with the totals needed for
// navigation.
type Page[T any] struct {
	Items      []T
	Number     int
	Total      int64
	TotalPages int
}

// NewPage assembles a Page for q from its items and the total match count.
func NewPage[T any](q PageQuery, items []T, total int64) Page[T] {
	return Page[T]{
		Items:      items,
		Number:     q.Number,
		Total:      total,
		TotalPages: TotalPages(total, q.Size),
	}
}

// TotalPages returns ceil(total/size). It is 0 for an empty listing.
func TotalPages(total int64, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
