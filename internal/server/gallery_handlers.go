package server

import (
	"io"
	"mime/multipart"

	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/models"
	"github.com/JevonThompsonx/jsquared-blog-sub000/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPostImages handles GET /api/posts/:id/images
func (s *Server) GetPostImages(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	images, err := s.galleryService.ListImages(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"images": images})
}

// AddPostImage handles POST /api/posts/:id/images
//
// The image bytes must already live in blob storage; this records the URL at
// the end of the gallery.
func (s *Server) AddPostImage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.requireAuthor(c, id); err != nil {
		return nil
	}

	var req struct {
		ImageURL   string `json:"image_url"`
		FocalPoint string `json:"focal_point"`
		AltText    string `json:"alt_text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("body", "Invalid request body"))
	}

	image, err := s.galleryService.AddImageRecord(c.Context(), id, req.ImageURL, req.FocalPoint, req.AltText)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(image)
}

// UploadPostImages handles POST /api/posts/:id/images/upload
//
// Accepts a multipart form with one or more "images" files. The batch is
// best-effort: files that fail are reported alongside the ones that stuck.
func (s *Server) UploadPostImages(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.requireAuthor(c, id); err != nil {
		return nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("images", "Multipart form with image files required"))
	}
	files := form.File["images"]
	if len(files) == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("images", "At least one image file is required"))
	}

	maxBytes := int64(s.config.BlobMaxUploadSizeMB) * 1024 * 1024
	uploads := make([]service.PendingUpload, 0, len(files))
	for _, fh := range files {
		if maxBytes > 0 && fh.Size > maxBytes {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("images", "Image exceeds the maximum upload size"))
		}
		data, err := readMultipartFile(fh)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("images", "Could not read uploaded file"))
		}
		uploads = append(uploads, service.PendingUpload{
			Data:        data,
			ContentType: fh.Header.Get("Content-Type"),
			AltText:     c.FormValue("alt_text"),
		})
	}

	added, failures, err := s.galleryService.UploadImages(c.Context(), id, uploads)
	if err != nil {
		return respondServiceError(c, err)
	}

	status := fiber.StatusCreated
	if len(added) == 0 && len(failures) > 0 {
		status = fiber.StatusBadGateway
	}
	return c.Status(status).JSON(fiber.Map{
		"images":   added,
		"failures": failures,
	})
}

// ReorderPostImages handles PUT /api/posts/:id/images/order
func (s *Server) ReorderPostImages(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.requireAuthor(c, id); err != nil {
		return nil
	}

	var req struct {
		Order []service.ReorderItem `json:"order"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("body", "Invalid request body"))
	}

	if err := s.galleryService.Reorder(c.Context(), id, req.Order); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeletePostImage handles DELETE /api/posts/:id/images/:imageId
func (s *Server) DeletePostImage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	imageID, err := s.parseID(c, "imageId")
	if err != nil {
		return nil
	}
	if err := s.requireAuthor(c, id); err != nil {
		return nil
	}

	if err := s.galleryService.DeleteImage(c.Context(), id, imageID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateImageFocalPoint handles PUT /api/posts/:id/images/:imageId/focal-point
func (s *Server) UpdateImageFocalPoint(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	imageID, err := s.parseID(c, "imageId")
	if err != nil {
		return nil
	}
	if err := s.requireAuthor(c, id); err != nil {
		return nil
	}

	var req struct {
		FocalPoint string `json:"focal_point"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("body", "Invalid request body"))
	}

	if err := s.galleryService.UpdateFocalPoint(c.Context(), id, imageID, req.FocalPoint); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateImageAltText handles PUT /api/posts/:id/images/:imageId/alt-text
func (s *Server) UpdateImageAltText(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	imageID, err := s.parseID(c, "imageId")
	if err != nil {
		return nil
	}
	if err := s.requireAuthor(c, id); err != nil {
		return nil
	}

	var req struct {
		AltText string `json:"alt_text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("body", "Invalid request body"))
	}

	if err := s.galleryService.UpdateAltText(c.Context(), id, imageID, req.AltText); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
