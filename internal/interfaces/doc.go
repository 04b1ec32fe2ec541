// Package interfaces documents the core abstractions used throughout the application.
//
// This package consolidates interface documentation to help code agents understand
// extension points and how to implement new functionality.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - BookStore: Paginated listing, search and CRUD of books (internal/http/stores.go)
//   - HealthChecker: Store reachability for /health (internal/http/stores.go)
//
// ## Activity Log Interfaces
//
//   - ActivityRecorder / ActivityReader: Recording and listing catalog changes
//     (internal/http/stores.go)
//   - ActivityEventCleaner: Retention cleanup (internal/tasks/cleanup_activity.go)
//
// ## Background Task Interfaces
//
//   - Enqueuer: Hands tasks to the queue (internal/scheduler/activity_cleanup.go)
//
// # Adding a New Searchable Field
//
// Searching is a case-insensitive substring match across several columns.
// To make another book column searchable:
//
//  1. Add the field to entities.Book with its validate tag
//
//  2. Extend searchCondition in internal/database/books/repository.go
//
//     OR %[1]s(publisher) LIKE %[1]s(?) ESCAPE '\'
//
//     and pass one more pattern argument in ListPage
//
//  3. Render it in the list and view templates
//
// # Adding a New Maintenance Task
//
// To add another periodic job (e.g., purging expired sessions):
//
//  1. Define the task and its processor in internal/tasks/
//
//     type PurgeSessionsTask struct{}
//
//     func (t PurgeSessionsTask) Config() backlite.QueueConfig
//
//     func NewPurgeSessionsQueue(store SessionPurger, log logrus.FieldLogger) backlite.Queue
//
//  2. Register the queue in entrypoint.go
//
//  3. Schedule it with a cron job in internal/scheduler/
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
