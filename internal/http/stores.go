package http

import (
	"context"

	"github.com/mrlokans/library/internal/catalog"
	"github.com/mrlokans/library/internal/entities"
)

// This file consolidates the store interfaces used by HTTP controllers.

// BookStore is the catalog persistence the books controller works against.
type BookStore interface {
	ListPage(ctx context.Context, q catalog.PageQuery) (catalog.Page[entities.Book], error)
	GetBookByID(ctx context.Context, id uint) (*entities.Book, error)
	CreateBook(ctx context.Context, book *entities.Book) error
	UpdateBook(ctx context.Context, book *entities.Book) error
	DeleteBook(ctx context.Context, id uint) (*entities.Book, error)
}

// ActivityRecorder records committed catalog changes.
type ActivityRecorder interface {
	Record(ctx context.Context, action entities.ActivityAction, book *entities.Book, requestID string)
}

// ActivityReader serves the activity log and the history of single books.
type ActivityReader interface {
	GetEvents(ctx context.Context, limit, offset int) ([]entities.ActivityEvent, int64, error)
	GetEventsForBook(ctx context.Context, bookID uint) ([]entities.ActivityEvent, error)
}

// ActivityLog combines both sides of the activity log.
type ActivityLog interface {
	ActivityRecorder
	ActivityReader
}

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
