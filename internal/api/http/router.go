package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/recipe-service/internal/api/http/handlers"
	"github.com/spec-kit/recipe-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Metrics        *handlers.MetricsHandler
	Chefs          *handlers.ChefsHandler
	Recipes        *handlers.RecipesHandler
	AuthMiddleware *auth.AuthMiddleware

	// StaticPrefix and StaticDir serve locally stored uploads. Both empty
	// when images live in object storage.
	StaticPrefix string
	StaticDir    string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics.Show)
	}
	if cfg.StaticPrefix != "" && cfg.StaticDir != "" {
		app.Static(cfg.StaticPrefix, cfg.StaticDir)
	}

	requireAuth := cfg.AuthMiddleware.Handle

	chef := app.Group("/chef")
	chef.Post("/sign_up", cfg.Chefs.SignUp)
	chef.Post("/sign_in", cfg.Chefs.SignIn)
	chef.Post("/new_access_token", cfg.Chefs.NewAccessToken)
	chef.Post("/logout", cfg.Chefs.Logout)
	chef.Get("/me", requireAuth, cfg.Chefs.Me)
	chef.Get("/all", requireAuth, cfg.Chefs.All)
	chef.Patch("/change_password", requireAuth, cfg.Chefs.ChangePassword)
	chef.Patch("/update_data", requireAuth, cfg.Chefs.UpdateProfile)
	chef.Patch("/update_photo", requireAuth, cfg.Chefs.UpdatePhoto)
	chef.Delete("/remove_account", requireAuth, cfg.Chefs.RemoveAccount)

	recipe := app.Group("/recipe")
	recipe.Get("/all", cfg.Recipes.All)
	recipe.Get("/one/:recipe_id", cfg.Recipes.One)
	recipe.Get("/chef_recipes", requireAuth, cfg.Recipes.ChefRecipes)
	recipe.Post("/create", requireAuth, cfg.Recipes.Create)
	recipe.Post("/review/:recipe_id", requireAuth, cfg.Recipes.Review)
	recipe.Delete("/remove", requireAuth, cfg.Recipes.Remove)
}
