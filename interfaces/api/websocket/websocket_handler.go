package websocket

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"smart-attendance/pkg/logger"
	"smart-attendance/pkg/utils"
)

type WebSocketHandler struct {
	hub *Hub
}

func NewWebSocketHandler(hub *Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

func (h *WebSocketHandler) WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	var userID uuid.UUID

	// Try to get user from context (set by OptionalWithQueryToken middleware)
	if userContext := c.Locals("user"); userContext != nil {
		if user, ok := userContext.(*utils.UserContext); ok {
			userID = user.ID
		}
	}

	// If no user context, treat as anonymous viewer
	if userID == uuid.Nil {
		userID = uuid.New()
		logger.WebSocket("anonymous_connected", "Anonymous viewer connected", map[string]interface{}{"user_id": userID.String()})
	} else {
		logger.WebSocket("authenticated_connected", "Authenticated user connected", map[string]interface{}{"user_id": userID.String()})
	}

	h.hub.register(c, userID)
	defer h.hub.unregister(c)

	// The hub only pushes; inbound frames are drained until the client goes
	// away so pings keep the connection alive.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
