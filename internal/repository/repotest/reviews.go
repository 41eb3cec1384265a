package repotest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/recipe-service/internal/domain"
	"github.com/spec-kit/recipe-service/internal/repository"
)

// ReviewRepository is an in-memory repository.ReviewRepository.
type ReviewRepository struct {
	mu      sync.Mutex
	reviews []domain.Review
}

var _ repository.ReviewRepository = (*ReviewRepository)(nil)

// NewReviewRepository returns an empty repository.
func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{}
}

func (r *ReviewRepository) Create(_ context.Context, review *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reviews {
		if existing.RecipeID == review.RecipeID && existing.ChefID == review.ChefID {
			return repository.ErrDuplicate
		}
	}
	review.ID = uuid.NewString()
	review.PublishedAt = time.Now().UTC()
	r.reviews = append(r.reviews, *review)
	return nil
}

func (r *ReviewRepository) ListByRecipes(_ context.Context, recipeIDs []string) (map[string][]domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[string]bool, len(recipeIDs))
	for _, id := range recipeIDs {
		wanted[id] = true
	}
	out := make(map[string][]domain.Review, len(recipeIDs))
	for _, review := range r.reviews {
		if wanted[review.RecipeID] {
			out[review.RecipeID] = append(out[review.RecipeID], review)
		}
	}
	return out, nil
}
