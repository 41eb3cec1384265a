package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/spec-kit/recipe-service/internal/api/dto"
	"github.com/spec-kit/recipe-service/internal/domain"
	"github.com/spec-kit/recipe-service/internal/service"
	apperrors "github.com/spec-kit/recipe-service/pkg/util"
)

// RecipesHandler exposes recipe and review endpoints.
type RecipesHandler struct {
	recipes *service.RecipeService
}

// NewRecipesHandler constructs handler.
func NewRecipesHandler(recipeService *service.RecipeService) *RecipesHandler {
	return &RecipesHandler{recipes: recipeService}
}

// Create handles POST /recipe/create.
func (h *RecipesHandler) Create(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	form, err := c.MultipartForm()
	if err != nil {
		return apperrors.NewValidationError("expected multipart form", nil)
	}

	ingredients := formValue(form.Value, "ingredients")
	if ingredients == "" {
		ingredients = formValue(form.Value, "ingrediensts")
	}
	images, err := readUploads(form.File["images"])
	if err != nil {
		return err
	}

	view, err := h.recipes.CreateRecipe(c.UserContext(), identity, service.CreateRecipeInput{
		Name:                formValue(form.Value, "name"),
		Cuisine:             parseCuisine(formValue(form.Value, "cusine")),
		Ingredients:         ingredients,
		CookingInstructions: formValue(form.Value, "cooking_instructions"),
		Images:              images,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": recipeResponse(*view)})
}

// Review handles POST /recipe/review/:recipe_id.
func (h *RecipesHandler) Review(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req dto.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	rating, _ := domain.ParseRating(req.Ratings)
	vote, _ := domain.ParseVoteType(req.VoteType)
	review, err := h.recipes.AddReview(c.UserContext(), identity, utils.CopyString(c.Params("recipe_id")), service.ReviewInput{
		Comment: req.CommentDescription,
		Rating:  rating,
		Vote:    vote,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": reviewResponse(*review)})
}

// All handles GET /recipe/all.
func (h *RecipesHandler) All(c *fiber.Ctx) error {
	views, err := h.recipes.ListRecipes(c.UserContext(), listFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": recipeResponses(views)})
}

// ChefRecipes handles GET /recipe/chef_recipes.
func (h *RecipesHandler) ChefRecipes(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	views, err := h.recipes.ListChefRecipes(c.UserContext(), identity, listFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": recipeResponses(views)})
}

// One handles GET /recipe/one/:recipe_id.
func (h *RecipesHandler) One(c *fiber.Ctx) error {
	view, err := h.recipes.GetRecipe(c.UserContext(), utils.CopyString(c.Params("recipe_id")))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": recipeResponse(*view)})
}

// Remove handles DELETE /recipe/remove?recipe_id=.
func (h *RecipesHandler) Remove(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	id := strings.TrimSpace(c.Query("recipe_id"))
	if id == "" {
		return apperrors.NewValidationError("invalid payload", map[string]any{"recipe_id": "required"})
	}
	if err := h.recipes.RemoveRecipe(c.UserContext(), identity, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.MessageResponse{Message: "recipe removed"},
	})
}

func listFilter(c *fiber.Ctx) service.RecipeListFilter {
	filter := service.RecipeListFilter{
		Ingredient: c.Query("ingredients"),
		Page:       c.QueryInt("page", 1),
		PageSize:   c.QueryInt("page_size", 0),
	}
	if raw := strings.TrimSpace(c.Query("cusine")); raw != "" {
		cuisine := parseCuisine(raw)
		filter.Cuisine = &cuisine
	}
	return filter
}

// parseCuisine canonicalizes known cuisines and passes anything else through
// so the service reports it.
func parseCuisine(raw string) domain.Cuisine {
	if cuisine, ok := domain.ParseCuisine(raw); ok {
		return cuisine
	}
	return domain.Cuisine(raw)
}

func formValue(values map[string][]string, key string) string {
	if v := values[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func recipeResponses(views []service.RecipeView) []dto.RecipeResponse {
	out := make([]dto.RecipeResponse, 0, len(views))
	for _, v := range views {
		out = append(out, recipeResponse(v))
	}
	return out
}

func recipeResponse(v service.RecipeView) dto.RecipeResponse {
	images := make([]dto.ImageResponse, 0, len(v.ImageURLs))
	for _, url := range v.ImageURLs {
		images = append(images, dto.ImageResponse{ImageURL: url})
	}
	reviews := make([]dto.ReviewResponse, 0, len(v.Recipe.Reviews))
	for _, r := range v.Recipe.Reviews {
		reviews = append(reviews, reviewResponse(r))
	}
	return dto.RecipeResponse{
		RecipeID:            v.Recipe.ID,
		ChefID:              v.Recipe.ChefID,
		Name:                v.Recipe.Name,
		Cusine:              string(v.Recipe.Cuisine),
		Ingredients:         v.Recipe.Ingredients,
		CookingInstructions: v.Recipe.CookingInstructions,
		DateOfPublish:       v.Recipe.PublishedAt,
		Images:              images,
		RecipeReview:        reviews,
		TotalLikes:          v.TotalLikes,
		TotalDislikes:       v.TotalDislikes,
	}
}

func reviewResponse(r domain.Review) dto.ReviewResponse {
	return dto.ReviewResponse{
		ReviewID:           r.ID,
		RecipeID:           r.RecipeID,
		ChefID:             r.ChefID,
		CommentDescription: r.Comment,
		Ratings:            string(r.Rating),
		VoteType:           string(r.Vote),
		DateOfPublish:      r.PublishedAt,
	}
}
