// Package activity records catalog changes and serves them back as a
// paginated log.
package activity

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/mrlokans/library/internal/database/activity"
	"github.com/mrlokans/library/internal/entities"
)

// DefaultPageSize is the number of events shown per activity page.
const DefaultPageSize = 25

// Service provides high-level activity logging functionality.
type Service struct {
	repo *activity.Repository
	log  logrus.FieldLogger
}

// NewService creates a new activity service.
func NewService(repo *activity.Repository, log logrus.FieldLogger) *Service {
	return &Service{repo: repo, log: log.WithField("component", "activity")}
}

// Record stores one event for book. Failures are logged and never returned:
// the catalog change has already been committed when this is called.
func (s *Service) Record(ctx context.Context, action entities.ActivityAction, book *entities.Book, requestID string) {
	event := &entities.ActivityEvent{
		Action:      action,
		BookID:      book.ID,
		BookTitle:   truncate(book.Title, 512),
		Description: truncate(describe(action, book), 500),
		RequestID:   requestID,
	}

	if err := s.repo.LogEvent(ctx, event); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"action":     action,
			"book_id":    book.ID,
			"request_id": requestID,
		}).Error("Failed to record activity event")
	}
}

// GetEvents retrieves paginated activity events, newest first.
func (s *Service) GetEvents(ctx context.Context, limit, offset int) ([]entities.ActivityEvent, int64, error) {
	return s.repo.GetEvents(ctx, limit, offset)
}

// GetEventsForBook returns the history of one book, newest first.
func (s *Service) GetEventsForBook(ctx context.Context, bookID uint) ([]entities.ActivityEvent, error) {
	return s.repo.GetEventsForBook(ctx, bookID)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	deleted, err := s.repo.DeleteOldEvents(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete activity events before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	return deleted, nil
}

func describe(action entities.ActivityAction, book *entities.Book) string {
	switch action {
	case entities.ActivityBookCreated:
		return fmt.Sprintf("Added %q by %s", book.Title, book.Author)
	case entities.ActivityBookUpdated:
		return fmt.Sprintf("Updated %q by %s", book.Title, book.Author)
	case entities.ActivityBookDeleted:
		return fmt.Sprintf("Deleted %q by %s", book.Title, book.Author)
	default:
		return fmt.Sprintf("%s %q", action, book.Title)
	}
}

// truncate shortens s to at most maxLen bytes without splitting a UTF-8 sequence.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
