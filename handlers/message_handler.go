package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

type SendMessageRequest struct {
	Content string `json:"content"`
}

// SendMessage appends a message to a conversation. Accepts JSON with a
// content field, or multipart form data with an optional content field and an
// optional attachment file. At least one of the two must be present.
func SendMessage(c *fiber.Ctx) error {
	conversationID, ok := conversationParam(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Conversation not found"})
	}
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	content := strings.TrimSpace(c.FormValue("content"))
	if content == "" && c.Is("json") {
		var req SendMessageRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
		}
		content = strings.TrimSpace(req.Content)
	}

	var attachmentRef *string
	if fileHeader, err := c.FormFile("attachment"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot read attachment"})
		}
		defer file.Close()

		ref, err := Blobs.Upload(file, fileHeader)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store attachment"})
		}
		attachmentRef = &ref
	}

	var contentPtr *string
	if content != "" {
		contentPtr = &content
	}

	message, err := Chat.AppendMessage(conversationID, userID, contentPtr, attachmentRef)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}

func GetConversationMessages(c *fiber.Ctx) error {
	conversationID, ok := conversationParam(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Conversation not found"})
	}

	messages, err := Chat.ListMessages(conversationID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(messages)
}
