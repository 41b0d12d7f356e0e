package v1

import (
	"find-usce-backend/internal/handlers"

	"github.com/gofiber/fiber/v2"
)

// registerChat mounts the streaming chat endpoint
func registerChat(r fiber.Router, chatHandler *handlers.ChatHandler) {
	r.Post("/chat", chatHandler.StreamChat)
}
