package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AddMembersRequest struct {
	MemberIDs []string `json:"member_ids" validate:"required,min=1,dive,uuid"`
}

type MemberResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// AddMembers attaches users to a group conversation. One-to-one conversations
// reject this with 403.
func AddMembers(c *fiber.Ctx) error {
	conversationID, ok := conversationParam(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Conversation not found"})
	}

	var req AddMembersRequest
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

	count, err := Chat.AddMembers(conversationID, memberIDs)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Members added successfully", "member_count": count})
}

func ListMembers(c *fiber.Ctx) error {
	conversationID, ok := conversationParam(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Conversation not found"})
	}

	members, err := Chat.ListMembers(conversationID)
	if err != nil {
		return serviceError(c, err)
	}

	response := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		response = append(response, MemberResponse{
			ID:       m.ID.String(),
			FullName: m.FullName,
			Email:    m.Email,
		})
	}
	return c.JSON(response)
}
