package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dotEthan/Recipeasy-backend-sub000/domain"
	"github.com/dotEthan/Recipeasy-backend-sub000/entities"
	"github.com/dotEthan/Recipeasy-backend-sub000/internal/utils/storage"
	"github.com/dotEthan/Recipeasy-backend-sub000/pkg/user"
)

type (
	RecipeService interface {
		SaveRecipe(ctx context.Context, req domain.SaveRecipeRequest, userID string) (domain.SaveRecipeResponse, error)
		UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, userID string) (domain.SaveRecipeResponse, error)
		GetRecipes(ctx context.Context, visibility string, page, limit int) (domain.RecipeListResponse, error)
		GetUserRecipes(ctx context.Context, userID string, page, limit int) (domain.RecipeListResponse, error)
		AdoptRecipe(ctx context.Context, recipeID string, userID string) error
		DeleteRecipe(ctx context.Context, userID, recipeID string) error
		RateRecipe(ctx context.Context, recipeID string, req domain.RateRecipeRequest, userID string) (domain.Recipe, error)
		UploadRecipeImage(ctx context.Context, req domain.UploadRecipeImageRequest, userID string) (string, error)
	}

	recipeService struct {
		recipeRepository RecipeRepository
		userRepository   user.UserRepository
		s3               storage.AwsS3
	}
)

func NewRecipeService(recipeRepository RecipeRepository, userRepository user.UserRepository, s3 storage.AwsS3) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		userRepository:   userRepository,
		s3:               s3,
	}
}

// SaveRecipe inserts a new canonical recipe owned by userID and appends
// a reference to the creator's list. The two writes are not wrapped in
// a transaction: a failed append is reported but the insert stays.
func (s *recipeService) SaveRecipe(ctx context.Context, req domain.SaveRecipeRequest, userID string) (domain.SaveRecipeResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.SaveRecipeResponse{}, domain.ErrParseUUID
	}

	recipe := req.Recipe
	recipe.ID = uuid.New().String()
	recipe.UserID = userID
	if recipe.Visibility == "" {
		recipe.Visibility = domain.VisibilityPrivate
	}
	now := time.Now()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now

	dbRecipe, err := toEntityRecipe(recipe)
	if err != nil {
		return domain.SaveRecipeResponse{}, err
	}

	if err := s.recipeRepository.CreateRecipe(ctx, dbRecipe); err != nil {
		return domain.SaveRecipeResponse{}, err
	}

	userRecipe := &entities.UserRecipe{
		ID:       uuid.New(),
		UserID:   userUUID,
		RecipeID: dbRecipe.ID,
	}
	if err := s.userRepository.AddUserRecipe(ctx, userRecipe); err != nil {
		log.Printf("recipe %s saved but list append failed for user %s: %v", recipe.ID, userID, err)
		return domain.SaveRecipeResponse{}, domain.ErrRecipeReferenceNotSaved
	}

	return domain.SaveRecipeResponse{Success: true, Recipe: recipe}, nil
}

// UpdateRecipe branches on ownership. The owner replaces the canonical
// document wholesale. A non-owner never touches the canonical: their
// edits are reduced to a delta against the stored canonical (not the
// caller's possibly stale copy) and saved on their list entry, and the
// merged view is returned.
func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, userID string) (domain.SaveRecipeResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.SaveRecipeResponse{}, domain.ErrParseUUID
	}

	canonical, err := s.loadActiveRecipe(ctx, recipeID)
	if err != nil {
		return domain.SaveRecipeResponse{}, err
	}

	canonicalRecipe, err := toDomainRecipe(canonical)
	if err != nil {
		return domain.SaveRecipeResponse{}, err
	}

	proposed := req.Recipe
	proposed.ID = canonicalRecipe.ID
	proposed.UserID = canonicalRecipe.UserID
	proposed.CreatedAt = canonicalRecipe.CreatedAt

	if canonical.UserID == userUUID {
		proposed.UpdatedAt = time.Now()
		dbRecipe, err := toEntityRecipe(proposed)
		if err != nil {
			return domain.SaveRecipeResponse{}, err
		}
		rows, err := s.recipeRepository.ReplaceRecipe(ctx, dbRecipe)
		if err != nil {
			return domain.SaveRecipeResponse{}, err
		}
		if rows == 0 {
			return domain.SaveRecipeResponse{}, domain.ErrRecipeNotUpdated
		}
		return domain.SaveRecipeResponse{Success: true, Recipe: proposed}, nil
	}

	// Non-owner path. The delta never includes identity, ownership or
	// creation time, so those stay the canonical's on every merge.
	proposed.UpdatedAt = canonicalRecipe.UpdatedAt
	delta, err := ComputeDelta(canonicalRecipe, proposed)
	if err != nil {
		return domain.SaveRecipeResponse{}, err
	}

	if _, err := s.userRepository.GetUserRecipe(ctx, userUUID, canonical.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.SaveRecipeResponse{}, domain.ErrRecipeReferenceNotFound
		}
		return domain.SaveRecipeResponse{}, err
	}

	encoded, err := delta.Encode()
	if err != nil {
		return domain.SaveRecipeResponse{}, err
	}
	rows, err := s.userRepository.UpdateUserRecipeAlterations(ctx, userUUID, canonical.ID, encoded)
	if err != nil {
		return domain.SaveRecipeResponse{}, err
	}
	if rows == 0 {
		return domain.SaveRecipeResponse{}, domain.ErrRecipeReferenceNotUpdated
	}

	merged, err := MergeAlterations(canonicalRecipe, delta)
	if err != nil {
		return domain.SaveRecipeResponse{}, err
	}
	return domain.SaveRecipeResponse{Success: true, Recipe: merged}, nil
}

func (s *recipeService) GetRecipes(ctx context.Context, visibility string, page, limit int) (domain.RecipeListResponse, error) {
	recipes, count, err := s.recipeRepository.GetRecipes(ctx, visibility, page, limit)
	if err != nil {
		return domain.RecipeListResponse{}, err
	}

	data := make([]domain.Recipe, 0, len(recipes))
	for _, dbRecipe := range recipes {
		recipe, err := toDomainRecipe(dbRecipe)
		if err != nil {
			return domain.RecipeListResponse{}, err
		}
		data = append(data, recipe)
	}

	return domain.RecipeListResponse{TotalDocs: count, Data: data}, nil
}

// GetUserRecipes resolves the user's list, bulk-fetches the canonical
// recipes and overlays each entry's stored alterations. References to
// soft-deleted or missing recipes are silently omitted.
func (s *recipeService) GetUserRecipes(ctx context.Context, userID string, page, limit int) (domain.RecipeListResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeListResponse{}, domain.ErrParseUUID
	}

	refs, count, err := s.userRepository.GetUserRecipes(ctx, userUUID, page, limit)
	if err != nil {
		return domain.RecipeListResponse{}, err
	}

	ids := make([]uuid.UUID, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.RecipeID)
	}
	recipes, err := s.recipeRepository.GetRecipesByIDs(ctx, ids)
	if err != nil {
		return domain.RecipeListResponse{}, err
	}
	byID := make(map[uuid.UUID]*entities.Recipe, len(recipes))
	for _, dbRecipe := range recipes {
		byID[dbRecipe.ID] = dbRecipe
	}

	data := make([]domain.Recipe, 0, len(refs))
	for _, ref := range refs {
		dbRecipe, ok := byID[ref.RecipeID]
		if !ok {
			continue
		}
		recipe, err := toDomainRecipe(dbRecipe)
		if err != nil {
			return domain.RecipeListResponse{}, err
		}
		alterations, err := DecodePartialRecipe(ref.Alterations)
		if err != nil {
			log.Printf("bad alterations on user %s recipe %s: %v", userID, ref.RecipeID, err)
			alterations = nil
		}
		merged, err := MergeAlterations(recipe, alterations)
		if err != nil {
			return domain.RecipeListResponse{}, err
		}
		data = append(data, merged)
	}

	return domain.RecipeListResponse{TotalDocs: count, Data: data}, nil
}

// AdoptRecipe copies another user's public recipe onto the caller's
// list: copy details set, alterations empty.
func (s *recipeService) AdoptRecipe(ctx context.Context, recipeID string, userID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}

	canonical, err := s.loadActiveRecipe(ctx, recipeID)
	if err != nil {
		return err
	}

	if canonical.UserID == userUUID {
		return domain.ErrRecipeAlreadyOnList
	}
	if canonical.Visibility != domain.VisibilityPublic {
		return domain.ErrRecipeNotPublic
	}

	if _, err := s.userRepository.GetUserRecipe(ctx, userUUID, canonical.ID); err == nil {
		return domain.ErrRecipeAlreadyOnList
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now()
	userRecipe := &entities.UserRecipe{
		ID:               uuid.New(),
		UserID:           userUUID,
		RecipeID:         canonical.ID,
		OriginalUserID:   &canonical.UserID,
		OriginalRecipeID: &canonical.ID,
		CopiedAt:         &now,
	}
	return s.userRepository.AddUserRecipe(ctx, userRecipe)
}

// DeleteRecipe soft-deletes the canonical document when the caller owns
// it, and always removes the caller's own list entry.
func (s *recipeService) DeleteRecipe(ctx context.Context, userID, recipeID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}

	canonical, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}

	if canonical.UserID == userUUID && !canonical.IsDeleted {
		rows, err := s.recipeRepository.SoftDeleteRecipe(ctx, canonical.ID, userUUID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return domain.ErrRecipeNotDeleted
		}
	}

	rows, err := s.userRepository.RemoveUserRecipe(ctx, userUUID, canonical.ID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrRecipeReferenceNotRemoved
	}
	return nil
}

// RateRecipe records the caller's rating on the canonical document,
// replacing any previous rating from the same user, and keeps the
// running sum/count/average consistent.
func (s *recipeService) RateRecipe(ctx context.Context, recipeID string, req domain.RateRecipeRequest, userID string) (domain.Recipe, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return domain.Recipe{}, domain.ErrInvalidRating
	}

	canonical, err := s.loadActiveRecipe(ctx, recipeID)
	if err != nil {
		return domain.Recipe{}, err
	}
	recipe, err := toDomainRecipe(canonical)
	if err != nil {
		return domain.Recipe{}, err
	}

	ratings := recipe.Ratings
	replaced := false
	for i := range ratings.Ratings {
		if ratings.Ratings[i].UserID == userID {
			ratings.RatingsSum += req.Rating - ratings.Ratings[i].Rating
			ratings.Ratings[i].Rating = req.Rating
			replaced = true
			break
		}
	}
	if !replaced {
		ratings.Ratings = append(ratings.Ratings, domain.UserRating{UserID: userID, Rating: req.Rating})
		ratings.RatingsSum += req.Rating
		ratings.TotalRatings++
	}
	ratings.AverageRating = float64(ratings.RatingsSum) / float64(ratings.TotalRatings)
	recipe.Ratings = ratings

	ratingsJSON, err := json.Marshal(ratings)
	if err != nil {
		return domain.Recipe{}, err
	}
	rows, err := s.recipeRepository.UpdateRecipeRatings(ctx, canonical.ID, string(ratingsJSON))
	if err != nil {
		return domain.Recipe{}, err
	}
	if rows == 0 {
		return domain.Recipe{}, domain.ErrRecipeNotUpdated
	}

	return recipe, nil
}

func (s *recipeService) UploadRecipeImage(ctx context.Context, req domain.UploadRecipeImageRequest, userID string) (string, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return "", domain.ErrParseUUID
	}

	canonical, err := s.loadActiveRecipe(ctx, req.RecipeID)
	if err != nil {
		return "", err
	}
	if canonical.UserID != userUUID {
		return "", domain.ErrNotRecipeOwner
	}

	var objectKey string
	fileName := fmt.Sprintf("%s%s", req.RecipeID, filepath.Ext(req.Image.Filename))
	if canonical.ImagePath != "" {
		existingKey := s.s3.GetObjectKeyFromLink(canonical.ImagePath)
		objectKey, err = s.s3.UpdateFile(existingKey, req.Image, storage.AllowImage...)
	} else {
		objectKey, err = s.s3.UploadFile(fileName, req.Image, "recipes", storage.AllowImage...)
	}
	if err != nil {
		return "", err
	}

	link := s.s3.GetPublicLinkKey(objectKey)
	rows, err := s.recipeRepository.UpdateRecipeImage(ctx, canonical.ID, link)
	if err != nil {
		return "", err
	}
	if rows == 0 {
		return "", domain.ErrRecipeNotUpdated
	}
	return link, nil
}

// loadActiveRecipe fetches a canonical recipe and treats a soft-deleted
// one as absent, matching how listing queries exclude them.
func (s *recipeService) loadActiveRecipe(ctx context.Context, recipeID string) (*entities.Recipe, error) {
	canonical, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	if canonical.IsDeleted {
		return nil, domain.ErrRecipeNotFound
	}
	return canonical, nil
}

func toEntityRecipe(r domain.Recipe) (*entities.Recipe, error) {
	recipeUUID, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	userUUID, err := uuid.Parse(r.UserID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	info, err := json.Marshal(r.Info)
	if err != nil {
		return nil, err
	}
	ingredients, err := json.Marshal(r.Ingredients)
	if err != nil {
		return nil, err
	}
	directions, err := json.Marshal(r.Directions)
	if err != nil {
		return nil, err
	}
	tags, err := json.Marshal(r.Tags)
	if err != nil {
		return nil, err
	}
	notes, err := json.Marshal(r.Notes)
	if err != nil {
		return nil, err
	}
	equipment, err := json.Marshal(r.Equipment)
	if err != nil {
		return nil, err
	}
	ratings, err := json.Marshal(r.Ratings)
	if err != nil {
		return nil, err
	}

	return &entities.Recipe{
		ID:          recipeUUID,
		UserID:      userUUID,
		Name:        r.Name,
		Description: r.Description,
		ImagePath:   r.ImagePath,
		Visibility:  r.Visibility,
		Info:        string(info),
		Ingredients: string(ingredients),
		Directions:  string(directions),
		Tags:        string(tags),
		Notes:       string(notes),
		Equipment:   string(equipment),
		Ratings:     string(ratings),
		Timestamp: entities.Timestamp{
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		},
	}, nil
}

func toDomainRecipe(e *entities.Recipe) (domain.Recipe, error) {
	recipe := domain.Recipe{
		ID:          e.ID.String(),
		UserID:      e.UserID.String(),
		Name:        e.Name,
		Description: e.Description,
		ImagePath:   e.ImagePath,
		Visibility:  e.Visibility,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}

	columns := []struct {
		raw    string
		target interface{}
	}{
		{e.Info, &recipe.Info},
		{e.Ingredients, &recipe.Ingredients},
		{e.Directions, &recipe.Directions},
		{e.Tags, &recipe.Tags},
		{e.Notes, &recipe.Notes},
		{e.Equipment, &recipe.Equipment},
		{e.Ratings, &recipe.Ratings},
	}
	for _, column := range columns {
		if column.raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(column.raw), column.target); err != nil {
			return domain.Recipe{}, err
		}
	}

	return recipe, nil
}
