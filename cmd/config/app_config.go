package config

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	"github.com/dotEthan/Recipeasy-backend-sub000/internal/api/handlers"
	"github.com/dotEthan/Recipeasy-backend-sub000/internal/api/routes"
	"github.com/dotEthan/Recipeasy-backend-sub000/internal/middleware"
	"github.com/dotEthan/Recipeasy-backend-sub000/internal/utils"
	"github.com/dotEthan/Recipeasy-backend-sub000/internal/utils/mailing"
	"github.com/dotEthan/Recipeasy-backend-sub000/internal/utils/storage"
	"github.com/dotEthan/Recipeasy-backend-sub000/pkg/jwt"
	"github.com/dotEthan/Recipeasy-backend-sub000/pkg/recipe"
	"github.com/dotEthan/Recipeasy-backend-sub000/pkg/user"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	mailer := mailing.NewMailer()

	// Repository
	userRepository := user.NewUserRepository(db)
	verificationCodeRepository := user.NewVerificationCodeRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	verificationService := user.NewEmailVerificationService(verificationCodeRepository, mailer)
	passwordService := user.NewPasswordService(userRepository, jwtService, mailer)
	userService := user.NewUserService(userRepository, jwtService, verificationService, passwordService)
	recipeService := recipe.NewRecipeService(recipeRepository, userRepository, s3)

	// Handler
	userHandler := handlers.NewUserHandler(userService, passwordService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)

	// routes
	routesConfig := routes.Config{
		App:           app,
		UserHandler:   userHandler,
		RecipeHandler: recipeHandler,
		Middleware:    middlewares,
		JWTService:    jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
