package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/recipe-service/internal/auth"
	"github.com/spec-kit/recipe-service/internal/config"
	"github.com/spec-kit/recipe-service/internal/domain"
	"github.com/spec-kit/recipe-service/internal/events"
	"github.com/spec-kit/recipe-service/internal/repository/repotest"
	"github.com/spec-kit/recipe-service/internal/storage"
)

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)
	jpegBytes = append([]byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, make([]byte, 64)...)
)

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) record(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *eventRecorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

type fixture struct {
	clock       *repotest.ManualClock
	tokens      *auth.TokenManager
	chefs       *repotest.ChefRepository
	revocations *repotest.RevocationRepository
	recipes     *repotest.RecipeRepository
	reviews     *repotest.ReviewRepository
	storage     *storage.MemoryStorage
	events      *eventRecorder

	auth    *AuthService
	chef    *ChefService
	recipe  *RecipeService
	authCfg config.AuthConfig
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := repotest.NewManualClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	tokens, err := auth.NewTokenManager(auth.TokenConfig{
		Algorithm:     "HS256",
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
	}, clock)
	require.NoError(t, err)

	f := &fixture{
		clock:       clock,
		tokens:      tokens,
		chefs:       repotest.NewChefRepository(),
		revocations: repotest.NewRevocationRepository(clock.Now),
		recipes:     repotest.NewRecipeRepository(),
		reviews:     repotest.NewReviewRepository(),
		storage:     storage.NewMemoryStorage(),
		events:      &eventRecorder{},
		authCfg: config.AuthConfig{
			AccessTokenTTLMinutes:  30,
			RefreshTokenTTLMinutes: 7 * 24 * 60,
		},
	}

	dispatcher := events.NewInMemoryDispatcher(nil)
	for _, eventType := range events.AllEventTypes {
		dispatcher.Subscribe(eventType, f.events.record)
	}
	hasher := auth.NewBcryptHasher(bcrypt.MinCost, 2)

	f.auth = NewAuthService(f.authCfg, AuthDependencies{
		ChefRepo:       f.chefs,
		RevocationRepo: f.revocations,
		Hasher:         hasher,
		Tokens:         tokens,
		Dispatcher:     dispatcher,
	})
	f.chef = NewChefService(ChefDependencies{
		ChefRepo:   f.chefs,
		Hasher:     hasher,
		Storage:    f.storage,
		Clock:      clock,
		Dispatcher: dispatcher,
	})
	f.recipe = NewRecipeService(RecipeDependencies{
		RecipeRepo: f.recipes,
		ReviewRepo: f.reviews,
		Storage:    f.storage,
		Clock:      clock,
		Dispatcher: dispatcher,
	})
	return f
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func signUpInput(username, password string) SignUpInput {
	return SignUpInput{
		Username:        username,
		Password:        password,
		ConfirmPassword: password,
		Email:           username + "@example.com",
		DateOfBirth:     date(2000, time.January, 1),
	}
}

// registerChef signs a chef up and returns the identity a request would carry.
func (f *fixture) registerChef(t *testing.T, username string) domain.Identity {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.auth.SignUp(ctx, signUpInput(username, "Passw0rd")))
	chef, err := f.chefs.GetByUsername(ctx, username)
	require.NoError(t, err)
	return chef.Identity()
}
