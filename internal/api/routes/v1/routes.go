package v1

import (
	"find-usce-backend/internal/handlers"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Programs *handlers.ProgramHandler
	Chat     *handlers.ChatHandler
}

func RegisterRoutes(r fiber.Router, h Handlers) {
	registerPrograms(r, h.Programs)
	registerChat(r, h.Chat)
}
