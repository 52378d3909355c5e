package routes

import (
	"time"

	"github.com/akinyi-dev/chat_backend/database"
	"github.com/akinyi-dev/chat_backend/handlers"
	"github.com/akinyi-dev/chat_backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	limiter := middleware.NewRateLimiter(database.Redis, "auth", 10, time.Minute)

	auth := api.Group("/auth", limiter.ByIP())
	auth.Post("/register", handlers.RegisterUser)
	auth.Post("/login", handlers.LoginUser)
	auth.Post("/logout", middleware.Protected(), handlers.LogoutUser)
}
