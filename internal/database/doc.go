// Package database provides the data access layer for the catalog.
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup (sqlite or postgres), migrations
//	├── books/           # Book CRUD and paginated search
//	└── activity/        # Activity log of catalog changes
//
// Each sub-package provides a Repository type built on the shared *gorm.DB:
//
//	db, err := database.NewDatabase(cfg.Database, logger)
//	booksRepo := books.NewRepository(db.DB)
//	page, err := booksRepo.ListPage(ctx, query)
//
// Repositories map gorm.ErrRecordNotFound onto catalog.ErrNotFound so callers
// never depend on gorm directly.
package database
