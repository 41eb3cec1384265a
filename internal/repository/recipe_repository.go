package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/recipe-service/internal/domain"
)

// RecipeFilter captures listing parameters.
type RecipeFilter struct {
	ChefID     *string
	Cuisine    *domain.Cuisine
	Ingredient *string
	Limit      int
	Offset     int
}

// RecipeRepository encapsulates recipe persistence. Recipes are returned with
// their images; reviews live in ReviewRepository.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *domain.Recipe) error
	GetByID(ctx context.Context, id string) (*domain.Recipe, error)
	List(ctx context.Context, filter RecipeFilter) ([]domain.Recipe, error)
	Delete(ctx context.Context, id string) error
}

type recipeRepository struct {
	pool *pgxpool.Pool
}

// NewRecipeRepository instantiates repository.
func NewRecipeRepository(pool *pgxpool.Pool) RecipeRepository {
	return &recipeRepository{pool: pool}
}

const recipeColumns = `id, chef_id, name, cuisine, ingredients, cooking_instructions, published_at`

// Create inserts the recipe and its images in one transaction.
func (r *recipeRepository) Create(ctx context.Context, recipe *domain.Recipe) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        INSERT INTO recipes (chef_id, name, cuisine, ingredients, cooking_instructions)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, published_at`
	if err := tx.QueryRow(ctx, query,
		recipe.ChefID,
		recipe.Name,
		recipe.Cuisine,
		recipe.Ingredients,
		recipe.CookingInstructions,
	).Scan(&recipe.ID, &recipe.PublishedAt); err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return pgx.ErrNoRows
		}
		return err
	}

	for i := range recipe.Images {
		recipe.Images[i].RecipeID = recipe.ID
		if err := insertImage(ctx, tx, &recipe.Images[i]); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *recipeRepository) GetByID(ctx context.Context, id string) (*domain.Recipe, error) {
	var recipe domain.Recipe
	if err := scanRecipe(r.pool.QueryRow(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE id=$1`, id), &recipe); err != nil {
		return nil, err
	}
	images, err := listImagesByRecipes(ctx, r.pool, []string{recipe.ID})
	if err != nil {
		return nil, err
	}
	recipe.Images = images[recipe.ID]
	return &recipe, nil
}

func (r *recipeRepository) List(ctx context.Context, filter RecipeFilter) ([]domain.Recipe, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ChefID != nil {
		args = append(args, *filter.ChefID)
		clauses = append(clauses, fmt.Sprintf("chef_id=$%d", len(args)))
	}
	if filter.Cuisine != nil {
		args = append(args, *filter.Cuisine)
		clauses = append(clauses, fmt.Sprintf("cuisine=$%d", len(args)))
	}
	if filter.Ingredient != nil && strings.TrimSpace(*filter.Ingredient) != "" {
		args = append(args, "%"+escapeLike(strings.ToLower(strings.TrimSpace(*filter.Ingredient)))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(ingredients) LIKE $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM recipes WHERE %s ORDER BY published_at DESC, id LIMIT %d OFFSET %d`,
		recipeColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []domain.Recipe
	for rows.Next() {
		var recipe domain.Recipe
		if err := scanRecipe(rows, &recipe); err != nil {
			return nil, err
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return recipes, nil
	}

	ids := make([]string, len(recipes))
	for i := range recipes {
		ids[i] = recipes[i].ID
	}
	images, err := listImagesByRecipes(ctx, r.pool, ids)
	if err != nil {
		return nil, err
	}
	for i := range recipes {
		recipes[i].Images = images[recipes[i].ID]
	}
	return recipes, nil
}

func (r *recipeRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM recipes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanRecipe(row pgx.Row, recipe *domain.Recipe) error {
	return row.Scan(
		&recipe.ID,
		&recipe.ChefID,
		&recipe.Name,
		&recipe.Cuisine,
		&recipe.Ingredients,
		&recipe.CookingInstructions,
		&recipe.PublishedAt,
	)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
