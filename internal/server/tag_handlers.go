package server

import (
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetTags handles GET /api/tags
func (s *Server) GetTags(c *fiber.Ctx) error {
	tags, err := s.tagService.ListTags(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"tags": tags})
}

// SetPostTags handles PUT /api/posts/:id/tags
//
// The submitted set replaces the post's tags wholesale; missing tags are
// created on the fly.
func (s *Server) SetPostTags(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.requireAuthor(c, id); err != nil {
		return nil
	}

	var req struct {
		Tags []models.TagSpec `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("body", "Invalid request body"))
	}

	tags, err := s.tagService.SetPostTags(c.Context(), id, req.Tags)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"tags": tags})
}
