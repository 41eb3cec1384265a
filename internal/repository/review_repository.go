package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/recipe-service/internal/domain"
)

// ReviewRepository persists recipe reviews. A chef may review a recipe once.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	ListByRecipes(ctx context.Context, recipeIDs []string) (map[string][]domain.Review, error)
}

type reviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository constructs repository.
func NewReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &reviewRepository{pool: pool}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	const query = `
        INSERT INTO recipe_reviews (recipe_id, chef_id, comment, rating, vote)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, published_at`
	err := r.pool.QueryRow(ctx, query,
		review.RecipeID,
		review.ChefID,
		review.Comment,
		review.Rating,
		review.Vote,
	).Scan(&review.ID, &review.PublishedAt)
	switch {
	case isPgError(err, pgUniqueViolation):
		return ErrDuplicate
	case isPgError(err, pgForeignKeyViolation):
		return pgx.ErrNoRows
	}
	return err
}

func (r *reviewRepository) ListByRecipes(ctx context.Context, recipeIDs []string) (map[string][]domain.Review, error) {
	result := make(map[string][]domain.Review, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return result, nil
	}

	const query = `
        SELECT id, recipe_id, chef_id, comment, rating, vote, published_at
        FROM recipe_reviews WHERE recipe_id = ANY($1::text[]::uuid[])
        ORDER BY published_at, id`
	rows, err := r.pool.Query(ctx, query, recipeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var review domain.Review
		if err := rows.Scan(
			&review.ID,
			&review.RecipeID,
			&review.ChefID,
			&review.Comment,
			&review.Rating,
			&review.Vote,
			&review.PublishedAt,
		); err != nil {
			return nil, err
		}
		result[review.RecipeID] = append(result[review.RecipeID], review)
	}
	return result, rows.Err()
}
