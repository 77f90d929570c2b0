package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dotEthan/Recipeasy-backend-sub000/internal/api/handlers"
	"github.com/dotEthan/Recipeasy-backend-sub000/internal/middleware"
	"github.com/dotEthan/Recipeasy-backend-sub000/pkg/jwt"
)

type Config struct {
	App           *fiber.App
	UserHandler   handlers.UserHandler
	RecipeHandler handlers.RecipeHandler
	Middleware    middleware.Middleware
	JWTService    jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Recipes()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	// user routes
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Post("/send_verify", c.UserHandler.SendVerificationEmail)
		user.Post("/verify", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.VerifyEmail)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Patch("/update", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.UpdateUser)
		user.Post("/forget", c.UserHandler.ForgotPassword)
		user.Post("/reset/validate", c.UserHandler.ValidateResetToken)
		user.Patch("/reset", c.UserHandler.ResetPassword)
	}
}

func (c *Config) Recipes() {
	recipes := c.App.Group("/api/v1/recipes", c.Middleware.AuthMiddleware(c.JWTService))

	recipes.Post("", c.RecipeHandler.SaveRecipe)
	recipes.Get("", c.RecipeHandler.GetRecipes)
	recipes.Get("/mine", c.RecipeHandler.GetMyRecipes)
	recipes.Put("/:id", c.RecipeHandler.UpdateRecipe)
	recipes.Delete("/:id", c.RecipeHandler.DeleteRecipe)

	// Special operations
	recipes.Post("/:id/adopt", c.RecipeHandler.AdoptRecipe)
	recipes.Post("/:id/ratings", c.RecipeHandler.RateRecipe)
	recipes.Post("/image", c.RecipeHandler.UploadRecipeImage)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
