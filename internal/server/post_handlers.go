package server

import (
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/models"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
//
// The public feed only ever exposes published posts; authors browse their
// own drafts and scheduled posts through /api/posts/mine/all.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	result, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		Status: string(models.PostStatusPublished),
		Search: c.Query("search"),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// GetMyPosts handles GET /api/posts/mine/all with an optional status filter.
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	userID := c.Locals("userID").(uint)

	result, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		Status: c.Query("status"),
		UserID: &userID,
		Search: c.Query("search"),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	// Unpublished posts are invisible on the public route.
	if post.Status != models.PostStatusPublished {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post", id))
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req service.PostInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("body", "Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), userID, req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)
	isAdmin, _ := c.Locals("isAdmin").(bool)

	var req service.PostInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("body", "Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), id, userID, isAdmin, req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)
	isAdmin, _ := c.Locals("isAdmin").(bool)

	if err := s.postService.DeletePost(c.Context(), id, userID, isAdmin); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
