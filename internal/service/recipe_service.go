package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/recipe-service/internal/auth"
	"github.com/spec-kit/recipe-service/internal/domain"
	"github.com/spec-kit/recipe-service/internal/events"
	"github.com/spec-kit/recipe-service/internal/repository"
	"github.com/spec-kit/recipe-service/internal/storage"
	apperrors "github.com/spec-kit/recipe-service/pkg/util"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// RecipeService coordinates recipe publishing, reviews and listings.
type RecipeService struct {
	recipes    repository.RecipeRepository
	reviews    repository.ReviewRepository
	storage    storage.Storage
	clock      auth.Clock
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// RecipeDependencies bundles collaborators for the recipe service.
type RecipeDependencies struct {
	RecipeRepo repository.RecipeRepository
	ReviewRepo repository.ReviewRepository
	Storage    storage.Storage
	Clock      auth.Clock
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// CreateRecipeInput describes a recipe submission.
type CreateRecipeInput struct {
	Name                string
	Cuisine             domain.Cuisine
	Ingredients         string
	CookingInstructions string
	Images              []ImageInput
}

// ReviewInput describes a review submission.
type ReviewInput struct {
	Comment string
	Rating  domain.Rating
	Vote    domain.VoteType
}

// RecipeListFilter narrows and pages recipe listings. Page is 1-based.
type RecipeListFilter struct {
	Cuisine    *domain.Cuisine
	Ingredient string
	Page       int
	PageSize   int
}

// RecipeView is a recipe with resolved image URLs and vote totals.
type RecipeView struct {
	Recipe        domain.Recipe
	ImageURLs     []string
	TotalLikes    int
	TotalDislikes int
}

// NewRecipeService constructs the service.
func NewRecipeService(deps RecipeDependencies) *RecipeService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = auth.SystemClock{}
	}
	return &RecipeService{
		recipes:    deps.RecipeRepo,
		reviews:    deps.ReviewRepo,
		storage:    deps.Storage,
		clock:      clock,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// CreateRecipe validates and stores the images, then inserts the recipe and
// its image rows together. Stored blobs are removed if the insert fails.
func (s *RecipeService) CreateRecipe(ctx context.Context, identity domain.Identity, in CreateRecipeInput) (*RecipeView, error) {
	name := strings.TrimSpace(in.Name)
	ingredients := strings.TrimSpace(in.Ingredients)
	instructions := strings.TrimSpace(in.CookingInstructions)

	details := map[string]any{}
	checkLength(details, "name", name, maxRecipeNameLength)
	checkLength(details, "ingredients", ingredients, maxIngredientsLength)
	checkLength(details, "cooking_instructions", instructions, maxInstructionsLen)
	checkMarkup(details, "name", name)
	checkMarkup(details, "ingredients", ingredients)
	checkMarkup(details, "cooking_instructions", instructions)
	if !in.Cuisine.Valid() {
		details["cusine"] = "unknown cuisine"
	}
	if len(in.Images) > maxRecipeImages {
		details["images"] = fmt.Sprintf("you can only upload %d images", maxRecipeImages)
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid recipe", details)
	}

	images := make([]*validatedImage, 0, len(in.Images))
	for _, input := range in.Images {
		img, err := validateImage(input, maxRecipeImageBytes)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}

	recipe := &domain.Recipe{
		ChefID:              identity.ChefID,
		Name:                name,
		Cuisine:             in.Cuisine,
		Ingredients:         ingredients,
		CookingInstructions: instructions,
	}
	stored := make([]string, 0, len(images))
	for _, img := range images {
		key := storage.NewRecipeImageKey(identity.ChefID, img.ext)
		if err := s.storage.Put(ctx, key, bytes.NewReader(img.content), int64(len(img.content)), img.contentType); err != nil {
			s.deleteBlobs(ctx, stored)
			return nil, fmt.Errorf("store image: %w", err)
		}
		stored = append(stored, key)
		recipe.Images = append(recipe.Images, domain.RecipeImage{Path: key})
	}

	if err := s.recipes.Create(ctx, recipe); err != nil {
		s.deleteBlobs(ctx, stored)
		if isNoRows(err) {
			return nil, apperrors.NewNotFound("chef", map[string]any{"chef_id": identity.ChefID})
		}
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.NewEvent(
		events.EventRecipeCreated, recipe.ID, actorOf(identity), s.clock.Now(),
		events.RecipeCreatedPayload{Name: recipe.Name, Cuisine: string(recipe.Cuisine), ImageCount: len(recipe.Images)},
	))
	return s.view(ctx, *recipe)
}

// AddReview records the caller's review of a recipe. Each chef may review a
// recipe once.
func (s *RecipeService) AddReview(ctx context.Context, identity domain.Identity, recipeID string, in ReviewInput) (*domain.Review, error) {
	if !isUUID(recipeID) {
		return nil, apperrors.NewNotFound("recipe", map[string]any{"recipe_id": recipeID})
	}

	comment := strings.TrimSpace(in.Comment)
	details := map[string]any{}
	checkLength(details, "comment_description", comment, maxCommentLength)
	checkMarkup(details, "comment_description", comment)
	if !in.Rating.Valid() {
		details["ratings"] = "unknown rating"
	}
	if !in.Vote.Valid() {
		details["vote_type"] = "vote must be Like or Dislike"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid review", details)
	}

	if _, err := s.recipes.GetByID(ctx, recipeID); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewNotFound("recipe", map[string]any{"recipe_id": recipeID})
		}
		return nil, fmt.Errorf("load recipe: %w", err)
	}

	review := &domain.Review{
		RecipeID: recipeID,
		ChefID:   identity.ChefID,
		Comment:  comment,
		Rating:   in.Rating,
		Vote:     in.Vote,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, apperrors.NewConflict("recipe already reviewed", map[string]any{"recipe_id": recipeID})
		case isNoRows(err):
			return nil, apperrors.NewNotFound("recipe", map[string]any{"recipe_id": recipeID})
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.NewEvent(
		events.EventReviewAdded, recipeID, actorOf(identity), s.clock.Now(),
		events.ReviewAddedPayload{ReviewID: review.ID, Rating: string(review.Rating), Vote: string(review.Vote)},
	))
	return review, nil
}

// ListRecipes returns a page of recipes, newest first.
func (s *RecipeService) ListRecipes(ctx context.Context, filter RecipeListFilter) ([]RecipeView, error) {
	return s.list(ctx, nil, filter)
}

// ListChefRecipes returns a page of the caller's own recipes.
func (s *RecipeService) ListChefRecipes(ctx context.Context, identity domain.Identity, filter RecipeListFilter) ([]RecipeView, error) {
	return s.list(ctx, &identity.ChefID, filter)
}

// GetRecipe returns one recipe with its reviews.
func (s *RecipeService) GetRecipe(ctx context.Context, id string) (*RecipeView, error) {
	recipe, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachReviews(ctx, []*domain.Recipe{recipe}); err != nil {
		return nil, err
	}
	return s.view(ctx, *recipe)
}

// RemoveRecipe deletes one of the caller's recipes and its images.
func (s *RecipeService) RemoveRecipe(ctx context.Context, identity domain.Identity, id string) error {
	recipe, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if recipe.ChefID != identity.ChefID {
		return apperrors.NewForbidden("not allowed to remove this recipe")
	}

	if err := s.recipes.Delete(ctx, recipe.ID); err != nil {
		if isNoRows(err) {
			return apperrors.NewNotFound("recipe", map[string]any{"recipe_id": id})
		}
		return fmt.Errorf("delete recipe: %w", err)
	}

	keys := make([]string, 0, len(recipe.Images))
	for _, image := range recipe.Images {
		keys = append(keys, image.Path)
	}
	s.deleteBlobs(ctx, keys)

	publishEvent(ctx, s.dispatcher, s.logger, events.NewEvent(
		events.EventRecipeRemoved, recipe.ID, actorOf(identity), s.clock.Now(),
		events.RecipeRemovedPayload{Name: recipe.Name},
	))
	return nil
}

func (s *RecipeService) find(ctx context.Context, id string) (*domain.Recipe, error) {
	if !isUUID(id) {
		return nil, apperrors.NewNotFound("recipe", map[string]any{"recipe_id": id})
	}
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewNotFound("recipe", map[string]any{"recipe_id": id})
		}
		return nil, fmt.Errorf("load recipe: %w", err)
	}
	return recipe, nil
}

func (s *RecipeService) list(ctx context.Context, chefID *string, filter RecipeListFilter) ([]RecipeView, error) {
	page, size := normalizePage(filter.Page, filter.PageSize)
	repoFilter := repository.RecipeFilter{
		ChefID:  chefID,
		Cuisine: filter.Cuisine,
		Limit:   size,
		Offset:  (page - 1) * size,
	}
	if ingredient := strings.TrimSpace(filter.Ingredient); ingredient != "" {
		repoFilter.Ingredient = &ingredient
	}

	recipes, err := s.recipes.List(ctx, repoFilter)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	ptrs := make([]*domain.Recipe, len(recipes))
	for i := range recipes {
		ptrs[i] = &recipes[i]
	}
	if err := s.attachReviews(ctx, ptrs); err != nil {
		return nil, err
	}

	views := make([]RecipeView, 0, len(recipes))
	for _, recipe := range recipes {
		view, err := s.view(ctx, recipe)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *RecipeService) attachReviews(ctx context.Context, recipes []*domain.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	ids := make([]string, len(recipes))
	for i, recipe := range recipes {
		ids[i] = recipe.ID
	}
	reviews, err := s.reviews.ListByRecipes(ctx, ids)
	if err != nil {
		return fmt.Errorf("list reviews: %w", err)
	}
	for _, recipe := range recipes {
		recipe.Reviews = reviews[recipe.ID]
	}
	return nil
}

func (s *RecipeService) view(ctx context.Context, recipe domain.Recipe) (*RecipeView, error) {
	urls := make([]string, 0, len(recipe.Images))
	for _, image := range recipe.Images {
		url, err := s.storage.URL(ctx, image.Path)
		if err != nil {
			return nil, fmt.Errorf("image url: %w", err)
		}
		urls = append(urls, url)
	}
	likes, dislikes := recipe.VoteTotals()
	return &RecipeView{Recipe: recipe, ImageURLs: urls, TotalLikes: likes, TotalDislikes: dislikes}, nil
}

func (s *RecipeService) deleteBlobs(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			s.logger.Warn("delete image", zap.String("key", key), zap.Error(err))
		}
	}
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case size <= 0:
		size = defaultPageSize
	case size > maxPageSize:
		size = maxPageSize
	}
	return page, size
}
