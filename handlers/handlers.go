package handlers

import (
	"errors"
	"log"

	"github.com/akinyi-dev/chat_backend/services"
	"github.com/akinyi-dev/chat_backend/storage"
	ws "github.com/akinyi-dev/chat_backend/websocket"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var validate = validator.New()

var (
	Chat  *services.ChatService
	Blobs storage.BlobStore
	Hub   *ws.Hub
)

// Setup injects the service wiring once at startup.
func Setup(chat *services.ChatService, blobs storage.BlobStore, hub *ws.Hub) {
	Chat = chat
	Blobs = blobs
	Hub = hub
}

// currentUserID extracts the authenticated user from the verified JWT the
// Protected middleware stored in locals.
func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, errors.New("missing token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("missing claims")
	}
	raw, _ := claims["user_id"].(string)
	return uuid.Parse(raw)
}

// serviceError maps the service error taxonomy onto stable HTTP statuses.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	}
	log.Printf("🔥 Unexpected service error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}

func conversationParam(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("conversationId"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
