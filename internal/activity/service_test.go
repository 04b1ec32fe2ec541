package activity

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	activityRepo "github.com/mrlokans/library/internal/database/activity"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/logging"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "activity.db")), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.ActivityEvent{})
	require.NoError(t, err)

	repo := activityRepo.NewRepository(db)
	svc := NewService(repo, logging.Discard())

	return svc, db
}

func TestService_Record(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	book := &entities.Book{ID: 7, Title: "Dune", Author: "Frank Herbert"}
	svc.Record(ctx, entities.ActivityBookCreated, book, "req-1")
	svc.Record(ctx, entities.ActivityBookDeleted, book, "req-2")

	var saved []entities.ActivityEvent
	require.NoError(t, db.Order("id ASC").Find(&saved).Error)
	require.Len(t, saved, 2)

	assert.Equal(t, entities.ActivityBookCreated, saved[0].Action)
	assert.Equal(t, uint(7), saved[0].BookID)
	assert.Equal(t, "Dune", saved[0].BookTitle)
	assert.Equal(t, `Added "Dune" by Frank Herbert`, saved[0].Description)
	assert.Equal(t, "req-1", saved[0].RequestID)
	assert.Equal(t, `Deleted "Dune" by Frank Herbert`, saved[1].Description)
}

func TestService_Record_StoreFailureIsSwallowed(t *testing.T) {
	svc, db := setupTestService(t)
	require.NoError(t, db.Migrator().DropTable(&entities.ActivityEvent{}))

	assert.NotPanics(t, func() {
		svc.Record(context.Background(), entities.ActivityBookUpdated, &entities.Book{ID: 1, Title: "Emma"}, "")
	})
}

func TestService_GetEvents(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		svc.Record(ctx, entities.ActivityBookUpdated, &entities.Book{ID: uint(i + 1), Title: "Book"}, "")
	}

	events, total, err := svc.GetEvents(ctx, DefaultPageSize, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(30), total)
	assert.Len(t, events, DefaultPageSize)

	events, _, err = svc.GetEvents(ctx, DefaultPageSize, DefaultPageSize)
	require.NoError(t, err)
	assert.Len(t, events, 5)
}

func TestService_DeleteOldEvents(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	old := &entities.ActivityEvent{Action: entities.ActivityBookCreated, BookTitle: "Old", CreatedAt: time.Now().Add(-100 * 24 * time.Hour)}
	fresh := &entities.ActivityEvent{Action: entities.ActivityBookCreated, BookTitle: "Fresh", CreatedAt: time.Now()}
	require.NoError(t, db.Create(old).Error)
	require.NoError(t, db.Create(fresh).Error)

	deleted, err := svc.DeleteOldEvents(ctx, 90*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var remaining []entities.ActivityEvent
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "Fresh", remaining[0].BookTitle)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	long := strings.Repeat("a", 20)
	assert.Equal(t, "aaaaaaa...", truncate(long, 10))
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	title := strings.Repeat("é", 512)

	got := truncate(title, 512)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), 512)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, strings.Repeat("é", 254)+"...", got)

	assert.Equal(t, "日...", truncate("日本語の本", 7))
}

func TestService_Record_LongNonASCIITitle(t *testing.T) {
	svc, db := setupTestService(t)

	book := &entities.Book{ID: 3, Title: strings.Repeat("é", 512), Author: "Ödön Horváth"}
	svc.Record(context.Background(), entities.ActivityBookCreated, book, "")

	var saved entities.ActivityEvent
	require.NoError(t, db.First(&saved).Error)
	assert.True(t, utf8.ValidString(saved.BookTitle))
	assert.True(t, utf8.ValidString(saved.Description))
	assert.LessOrEqual(t, len(saved.BookTitle), 512)
	assert.LessOrEqual(t, len(saved.Description), 500)
}

func TestService_GetEventsForBook(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	dune := &entities.Book{ID: 1, Title: "Dune", Author: "Frank Herbert"}
	emma := &entities.Book{ID: 2, Title: "Emma", Author: "Jane Austen"}
	svc.Record(ctx, entities.ActivityBookCreated, dune, "")
	svc.Record(ctx, entities.ActivityBookCreated, emma, "")
	svc.Record(ctx, entities.ActivityBookUpdated, dune, "")

	events, err := svc.GetEventsForBook(ctx, dune.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, e := range events {
		assert.Equal(t, dune.ID, e.BookID)
	}

	events, err = svc.GetEventsForBook(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, events)
}
