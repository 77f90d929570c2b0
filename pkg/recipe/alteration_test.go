package recipe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotEthan/Recipeasy-backend-sub000/domain"
)

func sampleRecipe() domain.Recipe {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return domain.Recipe{
		ID:          "7b0d2c9e-9a1f-4f7e-9a43-8a2f25b1c001",
		Name:        "Pad Thai",
		Description: "Classic stir-fried rice noodles",
		ImagePath:   "recipes/pad-thai.jpg",
		Info: domain.RecipeInfo{
			MealType:        "dinner",
			Cuisine:         "Thai",
			PrepTimeMinutes: 20,
			CookTimeMinutes: 15,
			ServingSize:     4,
			Nutrition:       domain.Nutrition{Calories: 520, Protein: 22, Carbohydrates: 60, Fat: 18},
		},
		Ingredients: []domain.IngredientGroup{
			{Title: "Noodles", Steps: []string{"200g rice noodles", "2 tbsp oil"}},
			{Title: "Sauce", Steps: []string{"3 tbsp tamarind paste", "2 tbsp fish sauce"}},
		},
		Directions: []domain.DirectionGroup{
			{Title: "Prep", Steps: []string{"Soak the noodles", "Mix the sauce"}},
		},
		Tags:       []string{"noodles", "thai"},
		Notes:      []string{"Best served immediately"},
		Equipment:  []string{"wok"},
		Visibility: domain.VisibilityPublic,
		Ratings: domain.RecipeRatings{
			Ratings:       []domain.UserRating{{UserID: "u1", Rating: 5}},
			RatingsSum:    5,
			TotalRatings:  1,
			AverageRating: 5,
		},
		UserID:    "3f8e6d2a-1b4c-4d5e-8f9a-0b1c2d3e4f05",
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestComputeDeltaNoChanges(t *testing.T) {
	c := sampleRecipe()

	delta, err := ComputeDelta(c, c)

	require.NoError(t, err)
	assert.Empty(t, delta)
}

func TestComputeDeltaOnlyChangedFields(t *testing.T) {
	c := sampleRecipe()
	p := sampleRecipe()
	p.Description = "My spicier version"
	p.Tags = []string{"noodles", "thai", "spicy"}

	delta, err := ComputeDelta(c, p)

	require.NoError(t, err)
	assert.Len(t, delta, 2)
	assert.Contains(t, delta, "description")
	assert.Contains(t, delta, "tags")
}

func TestComputeDeltaNeverIncludesID(t *testing.T) {
	c := sampleRecipe()
	p := sampleRecipe()
	p.ID = "00000000-0000-0000-0000-000000000099"
	p.Name = "Renamed"

	delta, err := ComputeDelta(c, p)

	require.NoError(t, err)
	assert.NotContains(t, delta, "id")
	assert.Contains(t, delta, "name")
}

func TestComputeDeltaNilVersusEmptyCollection(t *testing.T) {
	c := sampleRecipe()
	c.Notes = nil
	p := sampleRecipe()
	p.Notes = []string{}

	delta, err := ComputeDelta(c, p)

	require.NoError(t, err)
	assert.Contains(t, delta, "notes")
}

func TestMergeRoundTrip(t *testing.T) {
	c := sampleRecipe()
	p := sampleRecipe()
	p.Name = "Pad Thai Deluxe"
	p.Description = "With extra peanuts"
	p.Info.ServingSize = 6
	p.Ingredients = append(p.Ingredients, domain.IngredientGroup{
		Title: "Garnish", Steps: []string{"Crushed peanuts", "Lime wedges"},
	})

	delta, err := ComputeDelta(c, p)
	require.NoError(t, err)

	merged, err := MergeAlterations(c, delta)
	require.NoError(t, err)

	// Changed fields come back as proposed, everything else as canonical.
	assert.Equal(t, p.Name, merged.Name)
	assert.Equal(t, p.Description, merged.Description)
	assert.Equal(t, p.Info, merged.Info)
	assert.Equal(t, p.Ingredients, merged.Ingredients)
	assert.Equal(t, c.ID, merged.ID)
	assert.Equal(t, c.UserID, merged.UserID)
	assert.Equal(t, c.Tags, merged.Tags)
	assert.Equal(t, c.Ratings, merged.Ratings)
}

func TestMergeIdempotent(t *testing.T) {
	c := sampleRecipe()
	p := sampleRecipe()
	p.Description = "Altered"
	p.Equipment = []string{"wok", "spider strainer"}

	delta, err := ComputeDelta(c, p)
	require.NoError(t, err)

	once, err := MergeAlterations(c, delta)
	require.NoError(t, err)
	twice, err := MergeAlterations(once, delta)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestMergeNilAlterations(t *testing.T) {
	c := sampleRecipe()

	merged, err := MergeAlterations(c, nil)

	require.NoError(t, err)
	assert.Equal(t, c, merged)
}

func TestPartialRecipeEncodeDecodeRoundTrip(t *testing.T) {
	c := sampleRecipe()
	p := sampleRecipe()
	p.Name = "Changed"

	delta, err := ComputeDelta(c, p)
	require.NoError(t, err)

	encoded, err := delta.Encode()
	require.NoError(t, err)
	decoded, err := DecodePartialRecipe(encoded)
	require.NoError(t, err)

	assert.Equal(t, delta, decoded)
}

func TestDecodePartialRecipeEmpty(t *testing.T) {
	decoded, err := DecodePartialRecipe("")

	assert.NoError(t, err)
	assert.Nil(t, decoded)

	empty := PartialRecipe{}
	encoded, err := empty.Encode()
	assert.NoError(t, err)
	assert.Equal(t, "", encoded)
}
