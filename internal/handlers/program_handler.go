package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"find-usce-backend/internal/listing"
	"find-usce-backend/internal/metrics"
	"find-usce-backend/internal/repo"
)

// for read-only listing queries a service layer is not required
type ProgramHandler struct {
	repo   repo.ProgramRepoInterface
	engine *listing.Engine
	log    *zap.Logger
}

func NewProgramHandler(repo repo.ProgramRepoInterface, log *zap.Logger) *ProgramHandler {
	return &ProgramHandler{
		repo:   repo,
		engine: listing.NewEngine(repo.GetAll()),
		log:    log,
	}
}

type listingQuery struct {
	Search    string `query:"q"`
	State     string `query:"state"`
	USMLEStep string `query:"usmle"`
	Visa      string `query:"visa"`
	Sort      string `query:"sort"`
}

// function to list programs
func (h *ProgramHandler) ListPrograms(c *fiber.Ctx) error {
	var dto listingQuery
	if err := c.QueryParser(&dto); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid query",
		})
	}

	lor, err := optionalBool(c.Query("lor"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lor flag",
		})
	}
	accepting, err := optionalBool(c.Query("accepting"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid accepting flag",
		})
	}

	q := listing.Query{
		Search:    dto.Search,
		State:     dto.State,
		USMLEStep: dto.USMLEStep,
		Visa:      dto.Visa,
		LOR:       lor,
		Accepting: accepting,
		Sort:      listing.SortKey(dto.Sort),
		Page:      c.QueryInt("page", 1),
	}

	if q.Sort == "" {
		q.Sort = listing.SortByName
	}

	result := h.engine.Query(q)
	metrics.ListingQueries.WithLabelValues(string(q.Sort)).Inc()
	metrics.ListingMatches.Observe(float64(result.Total))

	return c.Status(fiber.StatusOK).JSON(result)
}

// an absent flag means no constraint
func optionalBool(raw string) (*bool, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// function to get program by ID
func (h *ProgramHandler) GetProgramByID(c *fiber.Ctx) error {
	program, err := h.repo.GetByID(c.Params("programId"))
	if errors.Is(err, repo.ErrProgramNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Program not found",
		})
	}
	if err != nil {
		h.log.Error("Error getting program", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get program",
		})
	}

	return c.Status(fiber.StatusOK).JSON(program)
}

func (h *ProgramHandler) GetStates(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"states": h.repo.States(),
	})
}

func (h *ProgramHandler) GetSpecialties(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"specialties": h.repo.Specialties(),
	})
}

func (h *ProgramHandler) GetStats(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.repo.Stats())
}

func (h *ProgramHandler) Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":   "ok",
		"programs": len(h.repo.GetAll()),
	})
}
