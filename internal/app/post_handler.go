package app

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"socialapp/internal/service"
	"socialapp/internal/util"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postService service.PostService
}

func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// CreatePost handles post creation with optional media attachments
// POST /api/v1/posts (multipart/form-data or JSON)
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return
	}

	var req service.CreatePostRequest
	var files []service.FileUpload

	if isMultipart(c) {
		if err := c.Request.ParseMultipartForm(32 << 20); err != nil { // 32MB max
			util.BadRequest(c, "Failed to parse form data")
			return
		}

		req.Content = c.PostForm("content")
		req.Privacy = c.PostForm("privacy")

		form, err := c.MultipartForm()
		if err != nil {
			util.BadRequest(c, "Failed to parse multipart form")
			return
		}

		files, err = readUploads(form.File["files"])
		if err != nil {
			util.BadRequest(c, "Failed to read uploaded files")
			return
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindingError(c, err)
			return
		}
	}

	post, err := h.postService.CreatePost(c.Request.Context(), userID.(string), req, files)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusCreated, "Post created successfully", gin.H{"post": post})
}

// GetPost handles getting a post by ID
// GET /api/v1/posts/:id
func (h *PostHandler) GetPost(c *gin.Context) {
	postID := c.Param("id")
	if postID == "" {
		util.BadRequest(c, "Post ID is required")
		return
	}

	post, err := h.postService.GetPost(postID, currentUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Post retrieved successfully", gin.H{"post": post})
}

// GetFeed handles the global feed, newest first
// GET /api/v1/posts/feed
func (h *PostHandler) GetFeed(c *gin.Context) {
	page, pageSize := pageParams(c)

	posts, err := h.postService.GetFeed(currentUserID(c), page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Feed retrieved successfully", gin.H{
		"posts":      posts,
		"pageNumber": page,
		"pageSize":   pageSize,
	})
}

// GetPostsByUser handles getting a user's posts
// GET /api/v1/posts/user/:userID
func (h *PostHandler) GetPostsByUser(c *gin.Context) {
	targetUserID := c.Param("userID")
	if targetUserID == "" {
		util.BadRequest(c, "User ID is required")
		return
	}

	page, pageSize := pageParams(c)

	posts, err := h.postService.GetUserPosts(targetUserID, currentUserID(c), page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Posts retrieved successfully", gin.H{
		"posts":      posts,
		"pageNumber": page,
		"pageSize":   pageSize,
	})
}

// CountPostsByUser handles counting a user's posts
// GET /api/v1/posts/user/:userID/count
func (h *PostHandler) CountPostsByUser(c *gin.Context) {
	targetUserID := c.Param("userID")
	if targetUserID == "" {
		util.BadRequest(c, "User ID is required")
		return
	}

	count, err := h.postService.CountUserPosts(targetUserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Post count retrieved successfully", gin.H{"count": count})
}

// UpdatePost handles post update, including media reconciliation
// PUT /api/v1/posts/:id (multipart/form-data or JSON)
func (h *PostHandler) UpdatePost(c *gin.Context) {
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

	var req service.UpdatePostRequest
	var files []service.FileUpload

	if isMultipart(c) {
		if err := c.Request.ParseMultipartForm(32 << 20); err != nil { // 32MB max
			util.BadRequest(c, "Failed to parse form data")
			return
		}

		if content := c.PostForm("content"); content != "" {
			req.Content = &content
		}
		if privacy := c.PostForm("privacy"); privacy != "" {
			req.Privacy = &privacy
		}
		req.KeepMediaIDs = c.PostFormArray("keep_media_ids")

		form, err := c.MultipartForm()
		if err != nil {
			util.BadRequest(c, "Failed to parse multipart form")
			return
		}

		files, err = readUploads(form.File["files"])
		if err != nil {
			util.BadRequest(c, "Failed to read uploaded files")
			return
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindingError(c, err)
			return
		}
	}

	post, err := h.postService.UpdatePost(c.Request.Context(), userID.(string), postID, req, files)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Post updated successfully", gin.H{"post": post})
}

// DeletePost handles post deletion
// DELETE /api/v1/posts/:id
func (h *PostHandler) DeletePost(c *gin.Context) {
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

	if err := h.postService.DeletePost(c.Request.Context(), userID.(string), postID); err != nil {
		handleServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Post deleted successfully", nil)
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.GetHeader("Content-Type"), "multipart/")
}

// readUploads buffers multipart files into memory for the media service.
func readUploads(headers []*multipart.FileHeader) ([]service.FileUpload, error) {
	uploads := make([]service.FileUpload, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}

		uploads = append(uploads, service.FileUpload{
			Data:     data,
			Filename: header.Filename,
			MimeType: header.Header.Get("Content-Type"),
			Size:     header.Size,
		})
	}
	return uploads, nil
}
