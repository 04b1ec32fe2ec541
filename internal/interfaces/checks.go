package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/library/internal/activity"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/http"
	"github.com/mrlokans/library/internal/scheduler"
	"github.com/mrlokans/library/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// BookStore implementations
var _ http.BookStore = (*books.Repository)(nil)

// HealthChecker implementations
var _ http.HealthChecker = (*database.Database)(nil)

// =============================================================================
// Activity Log
// =============================================================================

// ActivityLog implementations
var _ http.ActivityLog = (*activity.Service)(nil)

// ActivityEventCleaner implementations
var _ tasks.ActivityEventCleaner = (*activity.Service)(nil)

// =============================================================================
// Background Tasks
// =============================================================================

// Enqueuer implementations
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
