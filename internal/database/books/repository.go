// Package books provides database operations for the book catalog.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	page, err := repo.ListPage(ctx, query)
//	book, err := repo.GetBookByID(ctx, 7)
package books

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/catalog"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
)

// searchCondition matches the escaped pattern against every searchable column.
// Column and pattern are folded by the same function so case is ignored for
// any script. The year is compared through its decimal text so "19" finds
// 1937 and 1954.
func searchCondition(fold string) string {
	return fmt.Sprintf(`(%[1]s(title) LIKE %[1]s(?) ESCAPE '\'`+
		` OR %[1]s(author) LIKE %[1]s(?) ESCAPE '\'`+
		` OR %[1]s(genre) LIKE %[1]s(?) ESCAPE '\'`+
		` OR CAST(year AS TEXT) LIKE ? ESCAPE '\')`, fold)
}

// foldFunc names the SQL function that lower-cases text on the given dialect.
// Postgres LOWER follows the database locale. SQLite LOWER is ASCII only, so
// the registered Unicode function is used there.
func foldFunc(dialect string) string {
	if dialect == "sqlite" {
		return database.SQLiteFoldFunc
	}
	return "LOWER"
}

// Repository handles all book database operations.
type Repository struct {
	db     *gorm.DB
	search string
}

// NewRepository creates a new books repository. SQLite connections must be
// opened through database.Dialector so the fold function is registered.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:     db,
		search: searchCondition(foldFunc(db.Dialector.Name())),
	}
}

// ListPage returns one page of books ordered by title, optionally filtered by
// a case-insensitive substring search. Total is the number of matching books
// across all pages.
func (r *Repository) ListPage(ctx context.Context, q catalog.PageQuery) (catalog.Page[entities.Book], error) {
	query := r.db.WithContext(ctx).Model(&entities.Book{})
	if q.HasSearch() {
		pattern := q.LikePattern()
		query = query.Where(r.search, pattern, pattern, pattern, pattern)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return catalog.Page[entities.Book]{}, fmt.Errorf("failed to count books: %w", err)
	}

	books := make([]entities.Book, 0, q.Limit())
	if total > 0 {
		err := query.Order("title ASC, id ASC").
			Limit(q.Limit()).
			Offset(q.Offset()).
			Find(&books).Error
		if err != nil {
			return catalog.Page[entities.Book]{}, fmt.Errorf("failed to list books: %w", err)
		}
	}

	return catalog.NewPage(q, books, total), nil
}

// CountBooks returns the number of books in the catalog.
func (r *Repository) CountBooks(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entities.Book{}).Count(&total).Error
	return total, err
}

// GetBookByID returns the book with the given id or catalog.ErrNotFound.
func (r *Repository) GetBookByID(ctx context.Context, id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).First(&book, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("book %d: %w", id, catalog.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book %d: %w", id, err)
	}
	return &book, nil
}

// CreateBook inserts a new book. Invalid books are rejected with
// validation.Errors by the model hook and nothing is written.
func (r *Repository) CreateBook(ctx context.Context, book *entities.Book) error {
	book.ID = 0
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

// UpdateBook writes every field of book over the stored record.
func (r *Repository) UpdateBook(ctx context.Context, book *entities.Book) error {
	if book.ID == 0 {
		return fmt.Errorf("update without id: %w", catalog.ErrInvalidArgument)
	}

	var exists int64
	if err := r.db.WithContext(ctx).Model(&entities.Book{}).Where("id = ?", book.ID).Count(&exists).Error; err != nil {
		return fmt.Errorf("failed to check book %d: %w", book.ID, err)
	}
	if exists == 0 {
		return fmt.Errorf("book %d: %w", book.ID, catalog.ErrNotFound)
	}

	if err := r.db.WithContext(ctx).Save(book).Error; err != nil {
		return fmt.Errorf("failed to update book %d: %w", book.ID, err)
	}
	return nil
}

// DeleteBook removes the book with the given id and returns the deleted record.
func (r *Repository) DeleteBook(ctx context.Context, id uint) (*entities.Book, error) {
	var deleted *entities.Book
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.First(&book, id).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.Book{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		deleted = &book
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("book %d: %w", id, catalog.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete book %d: %w", id, err)
	}
	return deleted, nil
}
