package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akinyi-dev/chat_backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires the conversation routes over an in-memory service, with a
// stub auth middleware injecting a seeded acting user the way the JWT
// middleware would.
func testApp(t *testing.T) (*fiber.App, *services.MemoryStore, uuid.UUID) {
	t.Helper()
	store := services.NewMemoryStore()
	acting := store.AddUser("Acting User", "acting@example.com")
	Setup(services.NewChatService(store, services.NewRecordingBroadcaster()), nil, nil)

	app := fiber.New()
	auth := func(c *fiber.Ctx) error {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": acting.String(),
		})
		c.Locals("user", token)
		return c.Next()
	}

	conversations := app.Group("/api/v1/conversations", auth)
	conversations.Post("/one-to-one", CreateOrFetchOneToOneConversation)
	conversations.Post("/group", CreateGroupConversation)
	conversations.Get("", GetUserConversations)
	conversations.Get("/:conversationId", ShowConversation)
	conversations.Post("/:conversationId/leave", LeaveConversation)
	conversations.Post("/:conversationId/members", AddMembers)
	conversations.Get("/:conversationId/members", ListMembers)
	conversations.Post("/:conversationId/messages", SendMessage)
	conversations.Get("/:conversationId/messages", GetConversationMessages)
	return app, store, acting
}

func jsonRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

func TestOneToOneEndpoint_ResolvesSameConversation(t *testing.T) {
	app, store, _ := testApp(t)
	alice := store.AddUser("Alice", "alice@example.com")
	bob := store.AddUser("Bob", "bob@example.com")

	body := fiber.Map{"user_one_id": alice.String(), "user_two_id": bob.String()}
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/conversations/one-to-one", body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var first struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	}
	decodeBody(t, resp, &first)
	assert.Equal(t, "one-to-one", first.Type)

	// Reversed order resolves to the same conversation.
	body = fiber.Map{"user_one_id": bob.String(), "user_two_id": alice.String()}
	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/v1/conversations/one-to-one", body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var second struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &second)
	assert.Equal(t, first.ID, second.ID)
}

func TestOneToOneEndpoint_Validation(t *testing.T) {
	app, store, _ := testApp(t)
	alice := store.AddUser("Alice", "alice@example.com")

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/conversations/one-to-one",
		fiber.Map{"user_one_id": alice.String()}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Self pairing is rejected.
	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/v1/conversations/one-to-one",
		fiber.Map{"user_one_id": alice.String(), "user_two_id": alice.String()}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Unknown users are a 404.
	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/v1/conversations/one-to-one",
		fiber.Map{"user_one_id": alice.String(), "user_two_id": uuid.NewString()}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAddMembersEndpoint_OneToOneForbidden(t *testing.T) {
	app, store, _ := testApp(t)
	alice := store.AddUser("Alice", "alice@example.com")
	bob := store.AddUser("Bob", "bob@example.com")
	carol := store.AddUser("Carol", "carol@example.com")

	conv, err := Chat.ResolveOrCreateOneToOne(alice, bob)
	require.NoError(t, err)

	resp, err := app.Test(jsonRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/conversations/%s/members", conv.ID),
		fiber.Map{"member_ids": []string{carol.String()}}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGroupAndMembersEndpoints(t *testing.T) {
	app, store, _ := testApp(t)
	alice := store.AddUser("Alice", "alice@example.com")
	bob := store.AddUser("Bob", "bob@example.com")
	carol := store.AddUser("Carol", "carol@example.com")

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/conversations/group",
		fiber.Map{"name": "Team", "member_ids": []string{alice.String(), bob.String()}}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Name string `json:"name"`
	}
	decodeBody(t, resp, &created)
	assert.Equal(t, "group", created.Type)
	assert.Equal(t, "Team", created.Name)

	resp, err = app.Test(jsonRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/conversations/%s/members", created.ID),
		fiber.Map{"member_ids": []string{carol.String()}}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/v1/conversations/%s/members", created.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var members []MemberResponse
	decodeBody(t, resp, &members)
	assert.Len(t, members, 3)
	for _, m := range members {
		assert.NotEmpty(t, m.FullName)
		assert.NotEmpty(t, m.Email)
	}
}

func TestMessagesEndpoint(t *testing.T) {
	app, store, acting := testApp(t)
	bob := store.AddUser("Bob", "bob@example.com")

	group, err := Chat.CreateGroup("Team", []uuid.UUID{acting, bob})
	require.NoError(t, err)

	// Neither content nor attachment.
	resp, err := app.Test(jsonRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/conversations/%s/messages", group.ID),
		fiber.Map{"content": "   "}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, err = app.Test(jsonRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/conversations/%s/messages", group.ID),
		fiber.Map{"content": "hello"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/v1/conversations/%s/messages", group.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var messages []struct {
		Content *string `json:"content"`
		UserID  string  `json:"user_id"`
	}
	decodeBody(t, resp, &messages)
	require.Len(t, messages, 1)
	require.NotNil(t, messages[0].Content)
	assert.Equal(t, "hello", *messages[0].Content)
	assert.Equal(t, acting.String(), messages[0].UserID)
}

func TestShowConversation_NotFound(t *testing.T) {
	app, _, _ := testApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/v1/conversations/%s", uuid.NewString()), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet,
		"/api/v1/conversations/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLeaveEndpoint_Idempotent(t *testing.T) {
	app, store, acting := testApp(t)
	bob := store.AddUser("Bob", "bob@example.com")

	group, err := Chat.CreateGroup("Team", []uuid.UUID{acting, bob})
	require.NoError(t, err)

	target := fmt.Sprintf("/api/v1/conversations/%s/leave", group.ID)
	resp, err := app.Test(jsonRequest(http.MethodPost, target, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Leaving again is still a 200, not an error, and the conversation
	// record survives.
	resp, err = app.Test(jsonRequest(http.MethodPost, target, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/v1/conversations/%s", group.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
