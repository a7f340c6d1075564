package server

import (
	"strconv"

	"wallmirror/internal/models"
	syncengine "wallmirror/internal/sync"

	"github.com/gofiber/fiber/v2"
)

// TriggerSync handles POST /admin/sync. It runs a synchronization pass
// inline and reports the pass counters.
func (s *Server) TriggerSync(c *fiber.Ctx) error {
	var opts syncengine.Options

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("limit must be a positive integer"))
		}
		opts.Limit = limit
	}

	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("offset must be a non-negative integer"))
		}
		opts.Offset = offset
	}

	result, err := s.engine.Run(c.Context(), opts)
	if err != nil {
		return models.RespondWithError(c, models.StatusForKind(models.KindOf(err)), err)
	}

	return c.JSON(fiber.Map{
		"status": "ok",
		"result": result,
	})
}

// GetSyncState handles GET /admin/sync/state.
func (s *Server) GetSyncState(c *fiber.Ctx) error {
	state, err := s.stateRepo.Get(c.Context())
	if err != nil {
		return models.RespondWithError(c, models.StatusForKind(models.KindOf(err)), err)
	}
	if state == nil {
		return c.JSON(fiber.Map{"state": nil})
	}
	return c.JSON(fiber.Map{"state": state})
}
