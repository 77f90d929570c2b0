package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessSaveRecipe    = "recipe saved successfully"
	MessageSuccessUpdateRecipe  = "recipe updated successfully"
	MessageSuccessGetRecipes    = "success get recipes"
	MessageSuccessAdoptRecipe   = "recipe added to your list"
	MessageSuccessDeleteRecipe  = "recipe deleted successfully"
	MessageSuccessRateRecipe    = "recipe rated successfully"
	MessageSuccessUploadImage   = "recipe image uploaded successfully"

	MessageFailedSaveRecipe   = "failed to save recipe"
	MessageFailedUpdateRecipe = "failed to update recipe"
	MessageFailedGetRecipes   = "failed to get recipes"
	MessageFailedAdoptRecipe  = "failed to add recipe to your list"
	MessageFailedDeleteRecipe = "failed to delete recipe"
	MessageFailedRateRecipe   = "failed to rate recipe"
	MessageFailedUploadImage  = "failed to upload recipe image"

	ErrRecipeNotFound            = errors.New("recipe not found")
	ErrRecipeNotPublic           = errors.New("recipe is not public")
	ErrRecipeAlreadyOnList       = errors.New("recipe already on user's list")
	ErrRecipeReferenceNotFound   = errors.New("recipe not on user's list")
	ErrRecipeNotUpdated          = errors.New("recipe update was not applied")
	ErrRecipeNotDeleted          = errors.New("recipe delete was not applied")
	ErrRecipeReferenceNotSaved   = errors.New("recipe saved but user's list was not updated")
	ErrRecipeReferenceNotUpdated = errors.New("user's recipe reference was not updated")
	ErrRecipeReferenceNotRemoved = errors.New("user's recipe reference was not removed")
	ErrNotRecipeOwner            = errors.New("user does not own this recipe")
	ErrInvalidRating             = errors.New("rating must be between 1 and 5")
)

type (
	Nutrition struct {
		Calories      int `json:"calories"`
		Protein       int `json:"protein"`
		Carbohydrates int `json:"carbohydrates"`
		Fat           int `json:"fat"`
	}

	RecipeInfo struct {
		MealType        string    `json:"meal_type"`
		Cuisine         string    `json:"cuisine"`
		PrepTimeMinutes int       `json:"prep_time_minutes"`
		CookTimeMinutes int       `json:"cook_time_minutes"`
		ServingSize     int       `json:"serving_size"`
		Nutrition       Nutrition `json:"nutrition"`
	}

	IngredientGroup struct {
		Title string   `json:"title"`
		Steps []string `json:"steps"`
	}

	DirectionGroup struct {
		Title string   `json:"title"`
		Steps []string `json:"steps"`
	}

	UserRating struct {
		UserID string `json:"user_id"`
		Rating int    `json:"rating"`
	}

	RecipeRatings struct {
		Ratings       []UserRating `json:"ratings"`
		RatingsSum    int          `json:"ratings_sum"`
		TotalRatings  int          `json:"total_ratings"`
		AverageRating float64      `json:"average_rating"`
	}

	// Recipe is the full recipe shape exchanged with clients and fed to
	// the alteration delta/merge functions. Fields deliberately carry no
	// omitempty so every field serializes to a stable representation.
	Recipe struct {
		ID          string            `json:"id"`
		Name        string            `json:"name" validate:"required,min=3"`
		Description string            `json:"description" validate:"max=2000"`
		ImagePath   string            `json:"image_path"`
		Info        RecipeInfo        `json:"info"`
		Ingredients []IngredientGroup `json:"ingredients"`
		Directions  []DirectionGroup  `json:"directions"`
		Tags        []string          `json:"tags"`
		Notes       []string          `json:"notes"`
		Equipment   []string          `json:"equipment"`
		Visibility  string            `json:"visibility" validate:"omitempty,oneof=public private"`
		Ratings     RecipeRatings     `json:"ratings"`
		UserID      string            `json:"user_id"`
		CreatedAt   time.Time         `json:"created_at"`
		UpdatedAt   time.Time         `json:"updated_at"`
	}

	// CopyDetails records that a user's list entry originated from
	// another user's canonical recipe.
	CopyDetails struct {
		OriginalUserID   string     `json:"original_user_id"`
		OriginalRecipeID string     `json:"original_recipe_id"`
		CopiedAt         time.Time  `json:"copied_at"`
		LastModifiedAt   *time.Time `json:"last_modified_at,omitempty"`
		Modified         bool       `json:"modified"`
	}

	SaveRecipeRequest struct {
		Recipe Recipe `json:"recipe" validate:"required"`
	}

	UpdateRecipeRequest struct {
		Recipe Recipe `json:"recipe" validate:"required"`
	}

	RateRecipeRequest struct {
		Rating int `json:"rating" validate:"required,min=1,max=5"`
	}

	UploadRecipeImageRequest struct {
		RecipeID string `form:"recipe_id" validate:"required,uuid"`
		Image    *multipart.FileHeader
	}

	SaveRecipeResponse struct {
		Success bool   `json:"success"`
		Recipe  Recipe `json:"recipe"`
	}

	RecipeListResponse struct {
		TotalDocs int64    `json:"total_docs"`
		Data      []Recipe `json:"data"`
	}
)
