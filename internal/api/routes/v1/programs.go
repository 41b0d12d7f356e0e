package v1

import (
	"find-usce-backend/internal/handlers"

	"github.com/gofiber/fiber/v2"
)

func registerPrograms(r fiber.Router, programHandler *handlers.ProgramHandler) {
	r.Get("/health", programHandler.Health)

	r.Get("/programs", programHandler.ListPrograms)
	r.Get("/programs/:programId", programHandler.GetProgramByID)
	r.Get("/states", programHandler.GetStates)
	r.Get("/specialties", programHandler.GetSpecialties)
	r.Get("/stats", programHandler.GetStats)
}
