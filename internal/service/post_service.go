package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"socialapp/internal/model"
	"socialapp/internal/repository"
)

type PostService interface {
	CreatePost(ctx context.Context, userID string, req CreatePostRequest, files []FileUpload) (*PostResponse, error)
	GetPost(postID, viewerID string) (*PostResponse, error)
	GetFeed(viewerID string, page, pageSize int) ([]*PostResponse, error)
	GetUserPosts(userID, viewerID string, page, pageSize int) ([]*PostResponse, error)
	UpdatePost(ctx context.Context, userID, postID string, req UpdatePostRequest, files []FileUpload) (*PostResponse, error)
	DeletePost(ctx context.Context, userID, postID string) error
	CountUserPosts(userID string) (int64, error)
	IsOwner(postID, userID string) (bool, error)
}

type postService struct {
	postRepo     repository.PostRepository
	commentRepo  repository.CommentRepository
	likeRepo     repository.LikeRepository
	userRepo     repository.UserRepository
	mediaService MediaService
}

type CreatePostRequest struct {
	Content string `json:"content" binding:"required,min=3,max=5000"`
	Privacy string `json:"privacy" binding:"omitempty,oneof=public friends private"`
}

type UpdatePostRequest struct {
	Content      *string  `json:"content,omitempty"`
	Privacy      *string  `json:"privacy,omitempty"`
	KeepMediaIDs []string `json:"keep_media_ids,omitempty"`
}

type PostResponse struct {
	ID              string             `json:"id"`
	UserID          *string            `json:"user_id,omitempty"`
	Username        string             `json:"username"`
	UserAvatarURL   *string            `json:"user_avatar_url,omitempty"`
	Content         string             `json:"content"`
	Privacy         string             `json:"privacy"`
	IsEdited        bool               `json:"is_edited"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	CommentsCount   int64              `json:"comments_count"`
	LikesCount      int64              `json:"likes_count"`
	IsLikedByViewer bool               `json:"is_liked_by_viewer"`
	MediaFiles      []*model.MediaFile `json:"media_files"`
}

func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	likeRepo repository.LikeRepository,
	userRepo repository.UserRepository,
	mediaService MediaService,
) PostService {
	return &postService{
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		likeRepo:     likeRepo,
		userRepo:     userRepo,
		mediaService: mediaService,
	}
}

// CreatePost persists the post, then uploads any attached media with display
// order starting at 1.
func (s *postService) CreatePost(ctx context.Context, userID string, req CreatePostRequest, files []FileUpload) (*PostResponse, error) {
	if err := validateContent(req.Content, 3, 5000); err != nil {
		return nil, err
	}

	privacy := req.Privacy
	if privacy == "" {
		privacy = model.PrivacyPublic
	}
	if !model.ValidPrivacy(privacy) {
		return nil, fmt.Errorf("%w: invalid privacy value", ErrValidation)
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}

	post := &model.Post{
		UserID:  &userID,
		Content: req.Content,
		Privacy: privacy,
	}

	if err := s.postRepo.Create(post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	if len(files) > 0 {
		if _, err := s.mediaService.UploadFiles(ctx, userID, files, model.AttachmentTypePost, post.ID); err != nil {
			return nil, err
		}
	}

	created, err := s.postRepo.FindByID(post.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload post: %w", err)
	}
	return s.assembleOne(created, userID)
}

// GetPost returns a post with counts, viewer like state and ordered media.
func (s *postService) GetPost(postID, viewerID string) (*PostResponse, error) {
	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		return nil, fmt.Errorf("%w: post not found", ErrNotFound)
	}
	return s.assembleOne(post, viewerID)
}

// GetFeed lists all posts, newest first.
func (s *postService) GetFeed(viewerID string, page, pageSize int) ([]*PostResponse, error) {
	limit, offset := paginate(page, pageSize)
	posts, err := s.postRepo.FindFeed(limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get feed: %w", err)
	}
	return s.assembleMany(posts, viewerID)
}

// GetUserPosts lists a user's posts, newest first.
func (s *postService) GetUserPosts(userID, viewerID string, page, pageSize int) ([]*PostResponse, error) {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}

	limit, offset := paginate(page, pageSize)
	posts, err := s.postRepo.FindByUserID(userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get posts: %w", err)
	}
	return s.assembleMany(posts, viewerID)
}

// UpdatePost applies only the provided fields, reconciles media against
// KeepMediaIDs (the complement is deleted), and uploads new files.
func (s *postService) UpdatePost(ctx context.Context, userID, postID string, req UpdatePostRequest, files []FileUpload) (*PostResponse, error) {
	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		return nil, fmt.Errorf("%w: post not found", ErrNotFound)
	}

	if !s.canModify(post.UserID, userID) {
		return nil, fmt.Errorf("%w: you can only update your own posts", ErrForbidden)
	}

	// Empty content is a no-op on content; other provided fields still apply
	if req.Content != nil && *req.Content != "" {
		if err := validateContent(*req.Content, 3, 5000); err != nil {
			return nil, err
		}
		post.Content = *req.Content
	}
	if req.Privacy != nil {
		if !model.ValidPrivacy(*req.Privacy) {
			return nil, fmt.Errorf("%w: invalid privacy value", ErrValidation)
		}
		post.Privacy = *req.Privacy
	}
	post.IsEdited = true
	post.UpdatedAt = time.Now()

	if err := s.postRepo.Update(post); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	// Reconcile media: anything not in the keep list goes
	current, err := s.mediaService.GetByAttachment(model.AttachmentTypePost, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to load post media: %w", err)
	}
	keep := make(map[string]bool, len(req.KeepMediaIDs))
	for _, id := range req.KeepMediaIDs {
		keep[id] = true
	}
	var toDelete []string
	for _, m := range current {
		if !keep[m.ID] {
			toDelete = append(toDelete, m.ID)
		}
	}
	if err := s.mediaService.DeleteByIDs(ctx, toDelete); err != nil {
		return nil, err
	}

	if len(files) > 0 {
		if _, err := s.mediaService.UploadFiles(ctx, userID, files, model.AttachmentTypePost, postID); err != nil {
			return nil, err
		}
	}

	updated, err := s.postRepo.FindByID(postID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload post: %w", err)
	}
	return s.assembleOne(updated, userID)
}

// DeletePost cleans up the post's media, then removes the row; comments and
// likes cascade at the store level. Media cleanup failure fails the call even
// though the row deletion is still attempted.
func (s *postService) DeletePost(ctx context.Context, userID, postID string) error {
	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		return fmt.Errorf("%w: post not found", ErrNotFound)
	}

	if !s.canModify(post.UserID, userID) {
		return fmt.Errorf("%w: you can only delete your own posts", ErrForbidden)
	}

	mediaErr := s.mediaService.DeleteByAttachment(ctx, model.AttachmentTypePost, postID)
	if mediaErr != nil {
		log.Printf("Media cleanup failed for post %s: %v", postID, mediaErr)
	}

	if err := s.postRepo.Delete(postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	if mediaErr != nil {
		return fmt.Errorf("post deleted but media cleanup failed: %w", mediaErr)
	}
	return nil
}

// CountUserPosts counts a user's posts.
func (s *postService) CountUserPosts(userID string) (int64, error) {
	return s.postRepo.CountByUserID(userID)
}

// IsOwner reports whether the post belongs to the user.
func (s *postService) IsOwner(postID, userID string) (bool, error) {
	return s.postRepo.IsOwner(postID, userID)
}

// canModify allows the owner, or an admin otherwise.
func (s *postService) canModify(ownerID *string, userID string) bool {
	if ownerID != nil && *ownerID == userID {
		return true
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return false
	}
	return user.Role == model.RoleAdmin
}

func (s *postService) assembleOne(post *model.Post, viewerID string) (*PostResponse, error) {
	commentsCount, err := s.commentRepo.CountByPostID(post.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}

	likesCount, err := s.likeRepo.CountActiveByTarget(model.TargetTypePost, post.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}

	liked := false
	if viewerID != "" {
		liked, err = s.likeRepo.IsLikedBy(viewerID, model.TargetTypePost, post.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check like state: %w", err)
		}
	}

	media, err := s.mediaService.GetByAttachment(model.AttachmentTypePost, post.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load post media: %w", err)
	}

	resp := toPostResponse(post, commentsCount, likesCount, liked, media)
	return &resp, nil
}

func (s *postService) assembleMany(posts []*model.Post, viewerID string) ([]*PostResponse, error) {
	if len(posts) == 0 {
		return []*PostResponse{}, nil
	}

	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	commentCounts, err := s.commentRepo.CountByPostIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}

	likeCounts, err := s.likeRepo.CountActiveByTargets(model.TargetTypePost, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}

	likedByViewer := map[string]bool{}
	if viewerID != "" {
		likedByViewer, err = s.likeRepo.FindUserLikedTargets(viewerID, model.TargetTypePost, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to check like state: %w", err)
		}
	}

	mediaByPost, err := s.mediaService.GetByAttachments(model.AttachmentTypePost, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load post media: %w", err)
	}

	responses := make([]*PostResponse, 0, len(posts))
	for _, p := range posts {
		resp := toPostResponse(p, commentCounts[p.ID], likeCounts[p.ID], likedByViewer[p.ID], mediaByPost[p.ID])
		responses = append(responses, &resp)
	}
	return responses, nil
}

// toPostResponse renders a post. A removed owner leaves UserID nil and the
// username empty.
func toPostResponse(post *model.Post, commentsCount, likesCount int64, liked bool, media []*model.MediaFile) PostResponse {
	username := ""
	var avatarURL *string
	if post.User != nil {
		username = post.User.Username
		avatarURL = post.User.AvatarURL
	}
	if media == nil {
		media = []*model.MediaFile{}
	}

	return PostResponse{
		ID:              post.ID,
		UserID:          post.UserID,
		Username:        username,
		UserAvatarURL:   avatarURL,
		Content:         post.Content,
		Privacy:         post.Privacy,
		IsEdited:        post.IsEdited,
		CreatedAt:       post.CreatedAt,
		UpdatedAt:       post.UpdatedAt,
		CommentsCount:   commentsCount,
		LikesCount:      likesCount,
		IsLikedByViewer: liked,
		MediaFiles:      media,
	}
}
