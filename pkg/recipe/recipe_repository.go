package recipe

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dotEthan/Recipeasy-backend-sub000/entities"
)

type (
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe) error
		// GetRecipeByID returns the recipe whether or not it is
		// soft-deleted; callers decide what deleted means for them.
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		ReplaceRecipe(ctx context.Context, recipe *entities.Recipe) (int64, error)
		SoftDeleteRecipe(ctx context.Context, recipeID, deletedBy uuid.UUID) (int64, error)
		GetRecipes(ctx context.Context, visibility string, page, limit int) ([]*entities.Recipe, int64, error)
		GetRecipesByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Recipe, error)
		UpdateRecipeImage(ctx context.Context, recipeID uuid.UUID, imagePath string) (int64, error)
		UpdateRecipeRatings(ctx context.Context, recipeID uuid.UUID, ratingsJSON string) (int64, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// ReplaceRecipe overwrites the canonical document wholesale, identity
// and creation time excepted. Returns the number of rows matched.
func (r *recipeRepository) ReplaceRecipe(ctx context.Context, recipe *entities.Recipe) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("id = ?", recipe.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(recipe)
	return res.RowsAffected, res.Error
}

func (r *recipeRepository) SoftDeleteRecipe(ctx context.Context, recipeID, deletedBy uuid.UUID) (int64, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("id = ? AND is_deleted = ?", recipeID, false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": now,
			"deleted_by": deletedBy,
		})
	return res.RowsAffected, res.Error
}

func (r *recipeRepository) GetRecipes(ctx context.Context, visibility string, page, limit int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64
	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&entities.Recipe{}).Where("is_deleted = ?", false)
	if visibility != "" {
		query = query.Where("visibility = ?", visibility)
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Offset(offset).
		Limit(limit).
		Order("created_at desc").
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func (r *recipeRepository) GetRecipesByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	if len(ids) == 0 {
		return recipes, nil
	}
	if err := r.db.WithContext(ctx).
		Where("id IN ? AND is_deleted = ?", ids, false).
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) UpdateRecipeImage(ctx context.Context, recipeID uuid.UUID, imagePath string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("id = ?", recipeID).
		Update("image_path", imagePath)
	return res.RowsAffected, res.Error
}

func (r *recipeRepository) UpdateRecipeRatings(ctx context.Context, recipeID uuid.UUID, ratingsJSON string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("id = ?", recipeID).
		Update("ratings", ratingsJSON)
	return res.RowsAffected, res.Error
}
