package server

import (
	"errors"

	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(param, "Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "imageId" -> "image ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if len(param) > 2 && param[len(param)-2:] == "Id" {
		return param[:len(param)-2] + " ID"
	}
	return param
}

// requireAuthor writes a 404/403 response and returns errResponseWritten
// unless the post exists and the caller may modify it.
func (s *Server) requireAuthor(c *fiber.Ctx, postID uint) error {
	userID := c.Locals("userID").(uint)
	isAdmin, _ := c.Locals("isAdmin").(bool)

	post, err := s.postRepo.GetByID(c.Context(), postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Post", postID))
			return errResponseWritten
		}
		_ = models.RespondWithError(c, fiber.StatusInternalServerError, err)
		return errResponseWritten
	}
	if post.UserID != userID && !isAdmin {
		_ = models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("You can only modify your own posts"))
		return errResponseWritten
	}
	return nil
}

// respondServiceError maps an application error onto its HTTP status.
func respondServiceError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusForError(err), err)
}
