package server

import (
	"strconv"

	"wallmirror/internal/cache"
	"wallmirror/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 100
)

type feedResponse struct {
	Posts []*models.Post `json:"posts"`
	Total int64          `json:"total"`
}

// ListPosts handles GET /api/posts. Results are served through the Redis
// cache when it is available.
func (s *Server) ListPosts(c *fiber.Ctx) error {
	limit, offset, err := parsePagination(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	var resp feedResponse
	cacheErr := cache.Aside(c.Context(), cache.FeedKey(limit, offset), &resp, cache.FeedTTL, func() error {
		posts, err := s.postRepo.List(c.Context(), limit, offset)
		if err != nil {
			return err
		}
		total, err := s.postRepo.Count(c.Context())
		if err != nil {
			return err
		}
		resp = feedResponse{Posts: posts, Total: total}
		if resp.Posts == nil {
			resp.Posts = []*models.Post{}
		}
		return nil
	})
	if cacheErr != nil {
		return models.RespondWithError(c, models.StatusForKind(models.KindOf(cacheErr)), cacheErr)
	}

	return c.JSON(resp)
}

// parsePagination reads limit/offset query params with defaults and caps.
func parsePagination(c *fiber.Ctx) (limit, offset int, err error) {
	limit = defaultFeedLimit
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return 0, 0, models.NewValidationError("limit must be a positive integer")
		}
		if limit > maxFeedLimit {
			limit = maxFeedLimit
		}
	}

	if raw := c.Query("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, models.NewValidationError("offset must be a non-negative integer")
		}
	}

	return limit, offset, nil
}
