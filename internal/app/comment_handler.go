package app

import (
	"net/http"

	"socialapp/internal/service"
	"socialapp/internal/util"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// CreateComment handles comment and reply creation
// POST /api/v1/comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return
	}

	var req service.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	comment, err := h.commentService.CreateComment(userID.(string), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusCreated, "Comment created successfully", gin.H{"comment": comment})
}

// GetComment handles getting a comment by ID
// GET /api/v1/comments/:id
func (h *CommentHandler) GetComment(c *gin.Context) {
	commentID := c.Param("id")
	if commentID == "" {
		util.BadRequest(c, "Comment ID is required")
		return
	}

	comment, err := h.commentService.GetComment(commentID, currentUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Comment retrieved successfully", gin.H{"comment": comment})
}

// GetCommentsByPost handles listing top-level comments for a post
// GET /api/v1/posts/:id/comments
func (h *CommentHandler) GetCommentsByPost(c *gin.Context) {
	postID := c.Param("id")
	if postID == "" {
		util.BadRequest(c, "Post ID is required")
		return
	}

	page, pageSize := pageParams(c)

	comments, total, err := h.commentService.GetCommentsByPost(postID, currentUserID(c), page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Comments retrieved successfully", gin.H{
		"comments":   comments,
		"total":      total,
		"pageNumber": page,
		"pageSize":   pageSize,
	})
}

// GetReplies handles listing direct replies to a comment
// GET /api/v1/comments/:id/replies
func (h *CommentHandler) GetReplies(c *gin.Context) {
	commentID := c.Param("id")
	if commentID == "" {
		util.BadRequest(c, "Comment ID is required")
		return
	}

	page, pageSize := pageParams(c)

	replies, total, err := h.commentService.GetReplies(commentID, currentUserID(c), page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Replies retrieved successfully", gin.H{
		"replies":    replies,
		"total":      total,
		"pageNumber": page,
		"pageSize":   pageSize,
	})
}

// GetCommentCount handles counting all comments on a post
// GET /api/v1/posts/:id/comments/count
func (h *CommentHandler) GetCommentCount(c *gin.Context) {
	postID := c.Param("id")
	if postID == "" {
		util.BadRequest(c, "Post ID is required")
		return
	}

	count, err := h.commentService.GetCommentCount(postID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Comment count retrieved successfully", gin.H{"count": count})
}

// UpdateComment handles comment update
// PUT /api/v1/comments/:id
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return
	}

	commentID := c.Param("id")
	if commentID == "" {
		util.BadRequest(c, "Comment ID is required")
		return
	}

	var req service.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	comment, err := h.commentService.UpdateComment(userID.(string), commentID, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Comment updated successfully", gin.H{"comment": comment})
}

// DeleteComment handles deleting a comment and its reply subtree
// DELETE /api/v1/comments/:id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return
	}

	commentID := c.Param("id")
	if commentID == "" {
		util.BadRequest(c, "Comment ID is required")
		return
	}

	if err := h.commentService.DeleteComment(userID.(string), commentID); err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Comment deleted successfully", nil)
}
