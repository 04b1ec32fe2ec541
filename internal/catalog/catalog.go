// Package catalog holds the request-scoped paging and search rules of the
// book catalog.
//
// The package is storage-agnostic: repositories consume a PageQuery to build
// their LIMIT/OFFSET and LIKE clauses, and return a Page which the HTTP layer
// turns into navigation links through PageNumbers and NewPagination.
//
//	q, err := catalog.NewPageQuery(3, "tolkien")
//	// q.Offset() == 20, q.Limit() == 10
//	page, err := repo.ListPage(ctx, q)
//	nav, err := catalog.NewPagination(q.Number, page.TotalPages)
package catalog

import "errors"

// PageSize is the number of books shown on one list page.
const PageSize = 10

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidArgument is returned for inputs outside an operation's contract,
	// such as a page number below 1.
	ErrInvalidArgument = errors.New("invalid argument")
)
