package user

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dotEthan/Recipeasy-backend-sub000/entities"
)

type (
	UserRepository interface {
		CreateUser(ctx context.Context, user *entities.User) error
		GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
		UpdateProfile(ctx context.Context, userID uuid.UUID, displayName, preferences string) error
		SetVerified(ctx context.Context, userID uuid.UUID) (int64, error)

		UpdatePassword(ctx context.Context, userID uuid.UUID, hash string) (int64, error)
		UpdatePasswordHistory(ctx context.Context, userID uuid.UUID, historyJSON string) (int64, error)
		SetPasswordReset(ctx context.Context, userID uuid.UUID, expiresAt, requestedAt time.Time) (int64, error)
		ClearPasswordReset(ctx context.Context, userID uuid.UUID) (int64, error)

		AddUserRecipe(ctx context.Context, userRecipe *entities.UserRecipe) error
		GetUserRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*entities.UserRecipe, error)
		GetUserRecipes(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.UserRecipe, int64, error)
		UpdateUserRecipeAlterations(ctx context.Context, userID, recipeID uuid.UUID, alterations string) (int64, error)
		RemoveUserRecipe(ctx context.Context, userID, recipeID uuid.UUID) (int64, error)
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, userID uuid.UUID, displayName, preferences string) error {
	updates := map[string]interface{}{}
	if displayName != "" {
		updates["display_name"] = displayName
	}
	if preferences != "" {
		updates["preferences"] = preferences
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", userID).
		Updates(updates).Error
}

func (r *userRepository) SetVerified(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", userID).
		Update("verified", true)
	return res.RowsAffected, res.Error
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, hash string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", userID).
		Update("password", hash)
	return res.RowsAffected, res.Error
}

func (r *userRepository) UpdatePasswordHistory(ctx context.Context, userID uuid.UUID, historyJSON string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", userID).
		Update("password_history", historyJSON)
	return res.RowsAffected, res.Error
}

func (r *userRepository) SetPasswordReset(ctx context.Context, userID uuid.UUID, expiresAt, requestedAt time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"reset_in_progress":  true,
			"reset_attempts":     0,
			"reset_expires_at":   expiresAt,
			"reset_requested_at": requestedAt,
		})
	return res.RowsAffected, res.Error
}

func (r *userRepository) ClearPasswordReset(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"reset_in_progress":  false,
			"reset_attempts":     0,
			"reset_expires_at":   nil,
			"reset_requested_at": nil,
		})
	return res.RowsAffected, res.Error
}

func (r *userRepository) AddUserRecipe(ctx context.Context, userRecipe *entities.UserRecipe) error {
	return r.db.WithContext(ctx).Create(userRecipe).Error
}

func (r *userRepository) GetUserRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*entities.UserRecipe, error) {
	var userRecipe entities.UserRecipe
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&userRecipe).Error; err != nil {
		return nil, err
	}
	return &userRecipe, nil
}

func (r *userRepository) GetUserRecipes(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.UserRecipe, int64, error) {
	var userRecipes []*entities.UserRecipe
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.UserRecipe{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Offset(offset).
		Limit(limit).
		Order("created_at desc").
		Find(&userRecipes).Error; err != nil {
		return nil, 0, err
	}

	return userRecipes, count, nil
}

// UpdateUserRecipeAlterations replaces the stored delta on the list
// entry matching the recipe id and flags the copy as modified.
func (r *userRepository) UpdateUserRecipeAlterations(ctx context.Context, userID, recipeID uuid.UUID, alterations string) (int64, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&entities.UserRecipe{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Updates(map[string]interface{}{
			"alterations":      alterations,
			"modified":         true,
			"last_modified_at": now,
		})
	return res.RowsAffected, res.Error
}

func (r *userRepository) RemoveUserRecipe(ctx context.Context, userID, recipeID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.UserRecipe{})
	return res.RowsAffected, res.Error
}
