package entities

import (
	"time"

	"github.com/google/uuid"
)

// Recipe is the canonical recipe document shared by every user who
// references it. Structured sub-documents (info, ingredient groups,
// directions, ratings) are stored as JSON text.
type Recipe struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description" gorm:"type:text"`
	ImagePath   string    `json:"image_path,omitempty"`
	Visibility  string    `json:"visibility"` // "public", "private"
	Info        string    `json:"info" gorm:"type:text"`
	Ingredients string    `json:"ingredients" gorm:"type:text"`
	Directions  string    `json:"directions" gorm:"type:text"`
	Tags        string    `json:"tags" gorm:"type:text"`
	Notes       string    `json:"notes" gorm:"type:text"`
	Equipment   string    `json:"equipment" gorm:"type:text"`
	Ratings     string    `json:"ratings" gorm:"type:text"`

	// Soft-delete state. Deleted recipes stay in the table and are
	// excluded from listing queries, never removed.
	IsDeleted bool       `json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	DeletedBy *uuid.UUID `json:"deleted_by,omitempty"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
