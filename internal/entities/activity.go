package entities

import "time"

type ActivityAction string

const (
	ActivityBookCreated ActivityAction = "created"
	ActivityBookUpdated ActivityAction = "updated"
	ActivityBookDeleted ActivityAction = "deleted"
)

// ActivityEvent records one change to the catalog. Events reference books by
// id and title only, so they survive the deletion of the book.
type ActivityEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Action      ActivityAction `gorm:"index;size:20" json:"action"`
	BookID      uint           `gorm:"index" json:"book_id"`
	BookTitle   string         `gorm:"size:512" json:"book_title"`
	Description string         `gorm:"size:500" json:"description"`
	RequestID   string         `gorm:"size:64" json:"request_id,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (ActivityEvent) TableName() string {
	return "activity_events"
}
