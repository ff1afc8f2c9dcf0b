package app

import (
	"net/http"

	"socialapp/internal/model"
	"socialapp/internal/service"
	"socialapp/internal/util"

	"github.com/gin-gonic/gin"
)

type LikeHandler struct {
	likeService service.LikeService
}

func NewLikeHandler(likeService service.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

// TogglePostLike flips the caller's like on a post
// POST /api/v1/posts/:id/like
func (h *LikeHandler) TogglePostLike(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return
	}

	postID := c.Param("id")
	if postID == "" {
		util.BadRequest(c, "Post ID is required")
		return
	}

	result, err := h.likeService.TogglePostLike(userID.(string), postID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, result.Message, result)
}

// ToggleCommentLike flips the caller's like on a comment
// POST /api/v1/comments/:id/like
func (h *LikeHandler) ToggleCommentLike(c *gin.Context) {
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

	result, err := h.likeService.ToggleCommentLike(userID.(string), commentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, result.Message, result)
}

// GetPostLikers lists users actively liking a post
// GET /api/v1/posts/:id/likes
func (h *LikeHandler) GetPostLikers(c *gin.Context) {
	h.getLikers(c, model.TargetTypePost)
}

// GetCommentLikers lists users actively liking a comment
// GET /api/v1/comments/:id/likes
func (h *LikeHandler) GetCommentLikers(c *gin.Context) {
	h.getLikers(c, model.TargetTypeComment)
}

func (h *LikeHandler) getLikers(c *gin.Context, targetType string) {
	targetID := c.Param("id")
	if targetID == "" {
		util.BadRequest(c, "Target ID is required")
		return
	}

	page, pageSize := pageParams(c)

	likers, total, err := h.likeService.GetLikers(targetType, targetID, page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Likes retrieved successfully", gin.H{
		"likes":      likers,
		"total":      total,
		"pageNumber": page,
		"pageSize":   pageSize,
	})
}

// GetPostLikeCount counts active likes on a post
// GET /api/v1/posts/:id/likes/count
func (h *LikeHandler) GetPostLikeCount(c *gin.Context) {
	h.getLikeCount(c, model.TargetTypePost)
}

// GetCommentLikeCount counts active likes on a comment
// GET /api/v1/comments/:id/likes/count
func (h *LikeHandler) GetCommentLikeCount(c *gin.Context) {
	h.getLikeCount(c, model.TargetTypeComment)
}

func (h *LikeHandler) getLikeCount(c *gin.Context, targetType string) {
	targetID := c.Param("id")
	if targetID == "" {
		util.BadRequest(c, "Target ID is required")
		return
	}

	count, err := h.likeService.GetLikeCount(targetType, targetID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Like count retrieved successfully", gin.H{"count": count})
}

// GetPostLikeStatus reports whether the caller actively likes a post
// GET /api/v1/posts/:id/like/status
func (h *LikeHandler) GetPostLikeStatus(c *gin.Context) {
	h.getLikeStatus(c, model.TargetTypePost)
}

// GetCommentLikeStatus reports whether the caller actively likes a comment
// GET /api/v1/comments/:id/like/status
func (h *LikeHandler) GetCommentLikeStatus(c *gin.Context) {
	h.getLikeStatus(c, model.TargetTypeComment)
}

func (h *LikeHandler) getLikeStatus(c *gin.Context, targetType string) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return
	}

	targetID := c.Param("id")
	if targetID == "" {
		util.BadRequest(c, "Target ID is required")
		return
	}

	liked, err := h.likeService.IsLikedBy(userID.(string), targetType, targetID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Like status retrieved successfully", gin.H{"is_liked": liked})
}
