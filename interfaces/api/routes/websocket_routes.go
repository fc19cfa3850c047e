package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"smart-attendance/interfaces/api/middleware"
	websocketHandler "smart-attendance/interfaces/api/websocket"
)

func SetupWebSocketRoutes(app *fiber.App, hub *websocketHandler.Hub) {
	wsHandler := websocketHandler.NewWebSocketHandler(hub)

	// WebSocket with optional authentication (supports query token for WS connections)
	app.Use("/ws", middleware.OptionalWithQueryToken(), wsHandler.WebSocketUpgrade)
	app.Get("/ws", websocket.New(wsHandler.HandleWebSocket))
}
