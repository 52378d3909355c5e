package routes

import (
	"github.com/akinyi-dev/chat_backend/handlers"
	"github.com/akinyi-dev/chat_backend/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func ConversationRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	conversations := api.Group("/conversations", middleware.Protected())
	conversations.Post("/one-to-one", handlers.CreateOrFetchOneToOneConversation)
	conversations.Post("/group", handlers.CreateGroupConversation)
	conversations.Get("", handlers.GetUserConversations)
	conversations.Get("/:conversationId", handlers.ShowConversation)
	conversations.Post("/:conversationId/leave", handlers.LeaveConversation)
	conversations.Post("/:conversationId/members", handlers.AddMembers)
	conversations.Get("/:conversationId/members", handlers.ListMembers)
	conversations.Post("/:conversationId/messages", handlers.SendMessage)
	conversations.Get("/:conversationId/messages", handlers.GetConversationMessages)

	api.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	api.Get("/ws", websocket.New(handlers.ServeWs))
}
