package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/recipe-service/internal/domain"
	"github.com/spec-kit/recipe-service/internal/repository"
)

// RecipeRepository is an in-memory repository.RecipeRepository.
type RecipeRepository struct {
	mu      sync.Mutex
	recipes map[string]domain.Recipe
	seq     int

	// CreateErr, when set, is returned by Create.
	CreateErr error
}

var _ repository.RecipeRepository = (*RecipeRepository)(nil)

// NewRecipeRepository returns an empty repository.
func NewRecipeRepository() *RecipeRepository {
	return &RecipeRepository{recipes: make(map[string]domain.Recipe)}
}

func (r *RecipeRepository) Create(_ context.Context, recipe *domain.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CreateErr != nil {
		return r.CreateErr
	}
	// publish times strictly increase so listing order is deterministic
	r.seq++
	recipe.ID = uuid.NewString()
	recipe.PublishedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(r.seq) * time.Minute)
	images := make([]domain.RecipeImage, len(recipe.Images))
	for i, image := range recipe.Images {
		image.ID = uuid.NewString()
		image.RecipeID = recipe.ID
		image.CreatedAt = recipe.PublishedAt
		images[i] = image
	}
	recipe.Images = images
	stored := *recipe
	stored.Reviews = nil
	r.recipes[recipe.ID] = stored
	return nil
}

func (r *RecipeRepository) GetByID(_ context.Context, id string) (*domain.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	recipe, ok := r.recipes[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &recipe, nil
}

func (r *RecipeRepository) List(_ context.Context, filter repository.RecipeFilter) ([]domain.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Recipe
	for _, recipe := range r.recipes {
		if filter.ChefID != nil && recipe.ChefID != *filter.ChefID {
			continue
		}
		if filter.Cuisine != nil && recipe.Cuisine != *filter.Cuisine {
			continue
		}
		if filter.Ingredient != nil && !strings.Contains(strings.ToLower(recipe.Ingredients), strings.ToLower(strings.TrimSpace(*filter.Ingredient))) {
			continue
		}
		out = append(out, recipe)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *RecipeRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.recipes[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.recipes, id)
	return nil
}

// Count returns the number of stored recipes.
func (r *RecipeRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.recipes)
}
