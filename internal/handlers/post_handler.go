package handlers

import (
	"net/http"

	"github.com/anonto42/inkwell/backend/internal/apperror"
	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/anonto42/inkwell/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

const msgDuplicatePost = "A post with this title already exists"

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository) *PostHandler {
	return &PostHandler{postRepository: postRepo}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, requireToken echo.MiddlewareFunc) {
	g.POST("/create-post", h.CreatePost, requireToken)
	g.GET("/get-posts", h.GetPosts)
	g.PUT("/update-post/:postId/:userId", h.UpdatePost, requireToken)
	g.DELETE("/delete-post/:postId/:userId", h.DeletePost, requireToken)
}

// CreatePost creates a new post. Only admins may author posts.
func (h *PostHandler) CreatePost(c echo.Context) error {
	claims, err := requireAdmin(c, "Unauthorized: Only admin can create a post")
	if err != nil {
		return err
	}

	var req models.PostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	slug, err := slugFor(req.Title)
	if err != nil {
		return err
	}

	post := &models.Post{
		UserID:      claims.UserID,
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Category:    req.Category,
		Image:       req.Image,
		Slug:        slug,
	}
	if post.Image == "" {
		post.Image = models.DefaultPostImage
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return storageError(err, "", msgDuplicatePost)
	}

	return c.JSON(http.StatusCreated, post)
}

// GetPosts lists posts with optional filters, newest update first
func (h *PostHandler) GetPosts(c echo.Context) error {
	ctx := c.Request().Context()
	filter := models.PostFilter{
		UserID:     c.QueryParam("userId"),
		Category:   c.QueryParam("category"),
		Slug:       c.QueryParam("slug"),
		PostID:     c.QueryParam("postId"),
		SearchTerm: c.QueryParam("searchTerm"),
	}

	posts, err := h.postRepository.ListPosts(ctx, filter, listOptions(c, 9))
	if err != nil {
		return apperror.Internal(err)
	}
	total, err := h.postRepository.CountPosts(ctx, allTime)
	if err != nil {
		return apperror.Internal(err)
	}
	recent, err := h.postRepository.CountPosts(ctx, lastMonth())
	if err != nil {
		return apperror.Internal(err)
	}

	return c.JSON(http.StatusOK, models.PostsPage{
		Posts:          posts,
		TotalPosts:     total,
		LastMonthPosts: recent,
	})
}

// UpdatePost rewrites the text fields of a post and recomputes its slug
func (h *PostHandler) UpdatePost(c echo.Context) error {
	if err := authorizePostOwner(c, "You are not allowed to update this post"); err != nil {
		return err
	}

	var req models.PostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	slug, err := slugFor(req.Title)
	if err != nil {
		return err
	}

	update := models.PostUpdate{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Category:    req.Category,
		Slug:        slug,
	}
	if req.Image != "" {
		update.Image = &req.Image
	}

	post, err := h.postRepository.UpdatePost(c.Request().Context(), c.Param("postId"), update)
	if err != nil {
		return storageError(err, "Post not found", msgDuplicatePost)
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post. Its comments are left in place.
func (h *PostHandler) DeletePost(c echo.Context) error {
	if err := authorizePostOwner(c, "You are not allowed to delete this post"); err != nil {
		return err
	}

	if err := h.postRepository.DeletePost(c.Request().Context(), c.Param("postId")); err != nil {
		return storageError(err, "Post not found", "")
	}
	return respondMessage(c, "Post has been deleted")
}

// authorizePostOwner requires an admin caller whose id matches the :userId
// path parameter. Admins cannot manage posts through another user's path.
func authorizePostOwner(c echo.Context, message string) error {
	claims, err := currentUser(c)
	if err != nil {
		return err
	}
	if !claims.IsAdmin || claims.UserID != c.Param("userId") {
		return apperror.Forbidden(message)
	}
	return nil
}

func slugFor(title string) (string, error) {
	slug := models.Slugify(title)
	if slug == "" {
		return "", apperror.Validation("Title must contain at least one letter or digit")
	}
	return slug, nil
}
