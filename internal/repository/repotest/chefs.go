package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/recipe-service/internal/domain"
	"github.com/spec-kit/recipe-service/internal/repository"
)

// ChefRepository is an in-memory repository.ChefRepository.
type ChefRepository struct {
	mu    sync.Mutex
	chefs map[string]domain.Chef

	// Err, when set, is returned by every call.
	Err error
}

var _ repository.ChefRepository = (*ChefRepository)(nil)

// NewChefRepository returns an empty repository.
func NewChefRepository() *ChefRepository {
	return &ChefRepository{chefs: make(map[string]domain.Chef)}
}

func (r *ChefRepository) Create(_ context.Context, chef *domain.Chef) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if r.usernameTaken(chef.Username, "") {
		return repository.ErrDuplicate
	}
	now := time.Now().UTC()
	chef.ID = uuid.NewString()
	chef.CreatedAt = now
	chef.UpdatedAt = now
	r.chefs[chef.ID] = *chef
	return nil
}

func (r *ChefRepository) Update(_ context.Context, chef *domain.Chef) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.chefs[chef.ID]; !ok {
		return pgx.ErrNoRows
	}
	if r.usernameTaken(chef.Username, chef.ID) {
		return repository.ErrDuplicate
	}
	chef.UpdatedAt = time.Now().UTC()
	r.chefs[chef.ID] = *chef
	return nil
}

func (r *ChefRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.chefs[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.chefs, id)
	return nil
}

func (r *ChefRepository) GetByID(_ context.Context, id string) (*domain.Chef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	chef, ok := r.chefs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &chef, nil
}

func (r *ChefRepository) GetByUsername(_ context.Context, username string) (*domain.Chef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, chef := range r.chefs {
		if chef.Username == username {
			return &chef, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *ChefRepository) List(_ context.Context) ([]domain.Chef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]domain.Chef, 0, len(r.chefs))
	for _, chef := range r.chefs {
		out = append(out, chef)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *ChefRepository) usernameTaken(username, exceptID string) bool {
	for id, chef := range r.chefs {
		if chef.Username == username && id != exceptID {
			return true
		}
	}
	return false
}
