package entities

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Email       string    `gorm:"uniqueIndex" json:"email"`
	DisplayName string    `json:"display_name"`
	Password    string    `json:"-"`
	// JSON array of superseded password hashes, newest first, capped at 3.
	PasswordHistory string `json:"-" gorm:"type:text"`
	Verified        bool   `json:"verified"`
	Role            string `json:"role"`
	Preferences     string `json:"preferences" gorm:"type:text"`

	// In-progress password-reset record.
	ResetInProgress  bool       `json:"reset_in_progress"`
	ResetAttempts    int        `json:"reset_attempts"`
	ResetExpiresAt   *time.Time `json:"reset_expires_at,omitempty"`
	ResetRequestedAt *time.Time `json:"reset_requested_at,omitempty"`

	UserRecipes []*UserRecipe `gorm:"foreignKey:UserID"`
	Timestamp
}

// UserRecipe links a user to a canonical recipe. A row exists for every
// recipe on the user's list, whether they created it or adopted it.
type UserRecipe struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID   uuid.UUID `gorm:"index" json:"user_id"`
	RecipeID uuid.UUID `gorm:"index" json:"recipe_id"`

	// Copy details, set when the row was created by adopting another
	// user's public recipe.
	OriginalUserID   *uuid.UUID `json:"original_user_id,omitempty"`
	OriginalRecipeID *uuid.UUID `json:"original_recipe_id,omitempty"`
	CopiedAt         *time.Time `json:"copied_at,omitempty"`
	LastModifiedAt   *time.Time `json:"last_modified_at,omitempty"`
	Modified         bool       `json:"modified"`

	// JSON partial recipe holding only the fields this user changed.
	// Empty when the user has no private edits.
	Alterations string `json:"alterations,omitempty" gorm:"type:text"`

	User   *User   `gorm:"foreignKey:UserID"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID"`
	Timestamp
}

type VerificationCode struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID uuid.UUID `gorm:"index" json:"user_id"`
	Code   string    `json:"code"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
