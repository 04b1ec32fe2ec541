package entities

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/validation"
)

type Book struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"index;size:512;not null" form:"title" json:"title" validate:"required,max=512"`
	Author    string    `gorm:"index;size:256;not null" form:"author" json:"author" validate:"required,max=256"`
	Genre     string    `gorm:"size:128" form:"genre" json:"genre,omitempty" validate:"max=128"`
	Year      *int      `form:"year" json:"year,omitempty" validate:"omitempty,gte=0,lte=9999"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}

// Normalize trims surrounding whitespace from the text fields.
func (b *Book) Normalize() {
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	b.Genre = strings.TrimSpace(b.Genre)
}

// Validate checks the record invariants. It returns nil or validation.Errors.
func (b *Book) Validate() error {
	b.Normalize()
	return validation.Struct(b)
}

// BeforeSave rejects invalid books before any INSERT or UPDATE reaches the
// table, for every caller of the store.
func (b *Book) BeforeSave(tx *gorm.DB) error {
	return b.Validate()
}

// YearText renders the optional year for templates.
func (b Book) YearText() string {
	if b.Year == nil {
		return ""
	}
	return strconv.Itoa(*b.Year)
}
