package handlers

import (
	"net/http"

	"github.com/anonto42/inkwell/backend/internal/apperror"
	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/anonto42/inkwell/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

const msgCommentNotFound = "Comment not found"

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository // To verify the commented post exists
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group, requireToken echo.MiddlewareFunc) {
	g.POST("/create", h.CreateComment, requireToken)
	g.GET("/get-post-comments/:postId", h.GetPostComments)
	g.PUT("/like-comment/:commentId", h.LikeComment, requireToken)
	g.PUT("/edit-comment/:commentId", h.EditComment, requireToken)
	g.DELETE("/delete-comment/:commentId", h.DeleteComment, requireToken)
	g.GET("/get-comments", h.GetAllComments, requireToken)
}

// CreateComment creates a new comment on a post as the caller
func (h *CommentHandler) CreateComment(c echo.Context) error {
	claims, err := currentUser(c)
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return apperror.Validation("Invalid request payload")
	}
	if req.UserID != claims.UserID {
		return apperror.Forbidden("You are not allowed to create a comment on this post")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	// Verify post exists
	if _, err := h.postRepository.GetPostByID(ctx, req.PostID); err != nil {
		return storageError(err, "Post not found", "")
	}

	comment := &models.Comment{
		PostID:  req.PostID,
		UserID:  claims.UserID,
		Content: req.Content,
	}
	if err := h.commentRepository.CreateComment(ctx, comment); err != nil {
		return apperror.Internal(err)
	}

	return c.JSON(http.StatusCreated, comment)
}

// GetPostComments lists the comments of one post, newest first
func (h *CommentHandler) GetPostComments(c echo.Context) error {
	opts := listOptions(c, 5)
	opts.Ascending = false

	comments, err := h.commentRepository.ListCommentsByPost(c.Request().Context(), c.Param("postId"), opts)
	if err != nil {
		return apperror.Internal(err)
	}
	return c.JSON(http.StatusOK, comments)
}

// LikeComment toggles the caller's like on a comment
func (h *CommentHandler) LikeComment(c echo.Context) error {
	claims, err := currentUser(c)
	if err != nil {
		return err
	}

	comment, err := h.commentRepository.ToggleLike(c.Request().Context(), c.Param("commentId"), claims.UserID)
	if err != nil {
		return storageError(err, msgCommentNotFound, "")
	}
	return c.JSON(http.StatusOK, comment)
}

// EditComment replaces the content of a comment
func (h *CommentHandler) EditComment(c echo.Context) error {
	comment, err := h.authorizeCommentAuthor(c, "You are not allowed to edit this comment")
	if err != nil {
		return err
	}

	var req models.UpdateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := h.commentRepository.UpdateCommentContent(c.Request().Context(), comment.ID, req.Content)
	if err != nil {
		return storageError(err, msgCommentNotFound, "")
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteComment deletes a comment
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	comment, err := h.authorizeCommentAuthor(c, "You are not allowed to delete this comment")
	if err != nil {
		return err
	}

	if err := h.commentRepository.DeleteComment(c.Request().Context(), comment.ID); err != nil {
		return storageError(err, msgCommentNotFound, "")
	}
	return respondMessage(c, "Comment has been deleted")
}

// GetAllComments lists every comment for the admin dashboard
func (h *CommentHandler) GetAllComments(c echo.Context) error {
	if _, err := requireAdmin(c, "You are not allowed to get all comments"); err != nil {
		return err
	}
	ctx := c.Request().Context()

	comments, err := h.commentRepository.ListComments(ctx, listOptions(c, 9))
	if err != nil {
		return apperror.Internal(err)
	}
	total, err := h.commentRepository.CountComments(ctx, allTime)
	if err != nil {
		return apperror.Internal(err)
	}
	recent, err := h.commentRepository.CountComments(ctx, lastMonth())
	if err != nil {
		return apperror.Internal(err)
	}

	return c.JSON(http.StatusOK, models.CommentsPage{
		Comments:          comments,
		TotalComments:     total,
		LastMonthComments: recent,
	})
}

// authorizeCommentAuthor loads the :commentId comment and requires the
// caller to be its author or an admin.
func (h *CommentHandler) authorizeCommentAuthor(c echo.Context, message string) (*models.Comment, error) {
	claims, err := currentUser(c)
	if err != nil {
		return nil, err
	}

	comment, err := h.commentRepository.GetCommentByID(c.Request().Context(), c.Param("commentId"))
	if err != nil {
		return nil, storageError(err, msgCommentNotFound, "")
	}
	if comment.UserID != claims.UserID && !claims.IsAdmin {
		return nil, apperror.Forbidden(message)
	}
	return comment, nil
}
