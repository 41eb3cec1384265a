package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/recipe-service/internal/domain"
)

// ChefRepository defines persistence access for chef accounts. Lookups return
// pgx.ErrNoRows when nothing matches; writes that collide on username return
// ErrDuplicate.
type ChefRepository interface {
	Create(ctx context.Context, chef *domain.Chef) error
	Update(ctx context.Context, chef *domain.Chef) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Chef, error)
	GetByUsername(ctx context.Context, username string) (*domain.Chef, error)
	List(ctx context.Context) ([]domain.Chef, error)
}

type chefRepository struct {
	pool *pgxpool.Pool
}

// NewChefRepository returns a Postgres-backed implementation.
func NewChefRepository(pool *pgxpool.Pool) ChefRepository {
	return &chefRepository{pool: pool}
}

const chefColumns = `id, username, password_hash, email, date_of_birth, photo_path, created_at, updated_at`

func (r *chefRepository) Create(ctx context.Context, chef *domain.Chef) error {
	const query = `
        INSERT INTO chefs (username, password_hash, email, date_of_birth, photo_path)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		chef.Username,
		chef.PasswordHash,
		chef.Email,
		chef.DateOfBirth,
		chef.PhotoPath,
	).Scan(&chef.ID, &chef.CreatedAt, &chef.UpdatedAt)
	if isPgError(err, pgUniqueViolation) {
		return ErrDuplicate
	}
	return err
}

func (r *chefRepository) Update(ctx context.Context, chef *domain.Chef) error {
	const query = `
        UPDATE chefs SET username=$1, password_hash=$2, email=$3, date_of_birth=$4, photo_path=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		chef.Username,
		chef.PasswordHash,
		chef.Email,
		chef.DateOfBirth,
		chef.PhotoPath,
		chef.ID,
	).Scan(&chef.UpdatedAt)
	if isPgError(err, pgUniqueViolation) {
		return ErrDuplicate
	}
	return err
}

func (r *chefRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM chefs WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *chefRepository) GetByID(ctx context.Context, id string) (*domain.Chef, error) {
	return r.fetchSingle(ctx, `SELECT `+chefColumns+` FROM chefs WHERE id=$1`, id)
}

func (r *chefRepository) GetByUsername(ctx context.Context, username string) (*domain.Chef, error) {
	return r.fetchSingle(ctx, `SELECT `+chefColumns+` FROM chefs WHERE username=$1`, username)
}

func (r *chefRepository) List(ctx context.Context) ([]domain.Chef, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+chefColumns+` FROM chefs ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Chef
	for rows.Next() {
		chef, err := scanChef(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *chef)
	}
	return result, rows.Err()
}

func (r *chefRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Chef, error) {
	return scanChef(r.pool.QueryRow(ctx, query, arg))
}

func scanChef(row pgx.Row) (*domain.Chef, error) {
	var chef domain.Chef
	if err := row.Scan(
		&chef.ID,
		&chef.Username,
		&chef.PasswordHash,
		&chef.Email,
		&chef.DateOfBirth,
		&chef.PhotoPath,
		&chef.CreatedAt,
		&chef.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &chef, nil
}
