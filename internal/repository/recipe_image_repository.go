package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/recipe-service/internal/domain"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertImage(ctx context.Context, q querier, image *domain.RecipeImage) error {
	const query = `
        INSERT INTO recipe_images (recipe_id, path)
        VALUES ($1,$2)
        RETURNING id, created_at`
	return q.QueryRow(ctx, query, image.RecipeID, image.Path).Scan(&image.ID, &image.CreatedAt)
}

func listImagesByRecipes(ctx context.Context, q querier, recipeIDs []string) (map[string][]domain.RecipeImage, error) {
	const query = `
        SELECT id, recipe_id, path, created_at
        FROM recipe_images WHERE recipe_id = ANY($1::text[]::uuid[])
        ORDER BY created_at, id`
	rows, err := q.Query(ctx, query, recipeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string][]domain.RecipeImage, len(recipeIDs))
	for rows.Next() {
		var image domain.RecipeImage
		if err := rows.Scan(
			&image.ID,
			&image.RecipeID,
			&image.Path,
			&image.CreatedAt,
		); err != nil {
			return nil, err
		}
		result[image.RecipeID] = append(result[image.RecipeID], image)
	}
	return result, rows.Err()
}
