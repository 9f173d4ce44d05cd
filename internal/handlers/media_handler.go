package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/anonto42/inkwell/backend/internal/apperror"
	"github.com/anonto42/inkwell/backend/pkg/media"
	"github.com/labstack/echo/v4"
)

// UploadPresigner issues presigned direct uploads. *media.Presigner satisfies it.
type UploadPresigner interface {
	PresignUpload(ctx context.Context, contentType string) (*media.Upload, error)
}

// PresignRequest names the content type of the file the SPA is about to upload
type PresignRequest struct {
	ContentType string `json:"contentType" validate:"required"`
}

// MediaHandler hands out presigned upload URLs for post images and avatars
type MediaHandler struct {
	presigner UploadPresigner
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(presigner UploadPresigner) *MediaHandler {
	return &MediaHandler{presigner: presigner}
}

// RegisterMediaRoutes registers media routes
func (h *MediaHandler) RegisterMediaRoutes(g *echo.Group, requireToken echo.MiddlewareFunc) {
	g.POST("/presign", h.Presign, requireToken)
}

// Presign returns a presigned PUT URL and the public URL the object will have
func (h *MediaHandler) Presign(c echo.Context) error {
	if _, err := currentUser(c); err != nil {
		return err
	}

	var req PresignRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if !media.IsAllowedImageType(req.ContentType) {
		return apperror.Validation("Only JPEG, PNG, GIF and WEBP images can be uploaded")
	}

	upload, err := h.presigner.PresignUpload(c.Request().Context(), req.ContentType)
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedType) {
			return apperror.Validation("Only JPEG, PNG, GIF and WEBP images can be uploaded")
		}
		return apperror.Internal(err)
	}
	return c.JSON(http.StatusOK, upload)
}
