package handlers

import (
	"net/http"

	"github.com/anonto42/inkwell/backend/internal/apperror"
	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/anonto42/inkwell/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// ContactHandler handles the contact form and its admin inbox
type ContactHandler struct {
	contactRepository repositories.ContactRepository
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactRepo repositories.ContactRepository) *ContactHandler {
	return &ContactHandler{contactRepository: contactRepo}
}

// RegisterContactRoutes registers contact routes; all of them need a token
func (h *ContactHandler) RegisterContactRoutes(g *echo.Group, requireToken echo.MiddlewareFunc) {
	g.POST("/contact-form", h.Submit, requireToken)
	g.GET("/get-responses", h.ListResponses, requireToken)
	g.DELETE("/delete-response/:responseId", h.DeleteResponse, requireToken)
}

// Submit stores a contact form submission stamped with the caller's id
func (h *ContactHandler) Submit(c echo.Context) error {
	claims, err := currentUser(c)
	if err != nil {
		return err
	}

	var req models.ContactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	msg := &models.ContactMessage{
		UserID:  claims.UserID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	}
	if err := h.contactRepository.CreateContact(c.Request().Context(), msg); err != nil {
		return apperror.Internal(err)
	}

	return c.JSON(http.StatusCreated, MessageResponse{Message: "Form submitted successfully"})
}

// ListResponses lists contact submissions, newest first
func (h *ContactHandler) ListResponses(c echo.Context) error {
	if _, err := requireAdmin(c, "You are not allowed to see the contact responses"); err != nil {
		return err
	}

	opts := listOptions(c, 9)
	opts.Ascending = false

	msgs, err := h.contactRepository.ListContacts(c.Request().Context(), opts)
	if err != nil {
		return apperror.Internal(err)
	}
	return c.JSON(http.StatusOK, msgs)
}

// DeleteResponse deletes one contact submission
func (h *ContactHandler) DeleteResponse(c echo.Context) error {
	if _, err := requireAdmin(c, "You are not allowed to delete this response"); err != nil {
		return err
	}

	if err := h.contactRepository.DeleteContact(c.Request().Context(), c.Param("responseId")); err != nil {
		return storageError(err, "Response not found", "")
	}
	return respondMessage(c, "Response has been deleted")
}
