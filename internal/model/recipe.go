package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recipe is the sole persisted entity. Records are append-only: they are
// created by one of the two submission pipelines and read by the listing
// pipeline, never updated or deleted.
//
// Description, Text and ImageURL use pointers so that an absent value is
// stored as SQL NULL rather than an empty string.
type Recipe struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Text        *string   `gorm:"type:text" json:"text,omitempty"`
	ImageURL    *string   `gorm:"size:512" json:"image_url,omitempty"`
}

// BeforeCreate assigns the identifier client-side so the model works on both
// Postgres and the sqlite driver used in tests.
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
