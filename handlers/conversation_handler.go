package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type OneToOneRequest struct {
	UserOneID string `json:"user_one_id" validate:"required,uuid"`
	UserTwoID string `json:"user_two_id" validate:"required,uuid"`
}

type CreateGroupRequest struct {
	Name      string   `json:"name" validate:"required"`
	MemberIDs []string `json:"member_ids" validate:"required,min=1,dive,uuid"`
}

// CreateOrFetchOneToOneConversation resolves the one-to-one conversation for
// an unordered user pair, creating it on first use.
func CreateOrFetchOneToOneConversation(c *fiber.Ctx) error {
	var req OneToOneRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	userOne, _ := uuid.Parse(req.UserOneID)
	userTwo, _ := uuid.Parse(req.UserTwoID)

	conversation, err := Chat.ResolveOrCreateOneToOne(userOne, userTwo)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(conversation)
}

func CreateGroupConversation(c *fiber.Ctx) error {
	var req CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	memberIDs := make([]uuid.UUID, 0, len(req.MemberIDs))
	for _, raw := range req.MemberIDs {
		id, _ := uuid.Parse(raw)
		memberIDs = append(memberIDs, id)
	}

	conversation, err := Chat.CreateGroup(req.Name, memberIDs)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(conversation)
}

func GetUserConversations(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	conversations, err := Chat.ListConversationsFor(userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(conversations)
}

func ShowConversation(c *fiber.Ctx) error {
	conversationID, ok := conversationParam(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Conversation not found"})
	}

	conversation, err := Chat.GetConversation(conversationID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(conversation)
}

func LeaveConversation(c *fiber.Ctx) error {
	conversationID, ok := conversationParam(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Conversation not found"})
	}
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	if err := Chat.Leave(conversationID, userID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Successfully left the conversation"})
}
