package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// ReassignLayouts handles POST /api/admin/layouts/reshuffle
func (s *Server) ReassignLayouts(c *fiber.Ctx) error {
	total, dist, err := s.layoutService.ReassignAll(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":        total,
		"distribution": dist,
	})
}

// RunPublishSweep handles POST /api/admin/publish-sweep
//
// The background publisher runs on its own interval; this endpoint lets an
// operator force a sweep without waiting for it.
func (s *Server) RunPublishSweep(c *fiber.Ctx) error {
	result, err := s.publisher.PublishDuePosts(c.Context(), time.Now())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}
