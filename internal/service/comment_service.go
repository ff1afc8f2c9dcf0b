package service

import (
	"fmt"
	"time"
	"unicode/utf8"

	"socialapp/internal/model"
	"socialapp/internal/repository"
)

type CommentService interface {
	CreateComment(userID string, req CreateCommentRequest) (*CommentResponse, error)
	GetComment(commentID, viewerID string) (*CommentResponse, error)
	GetCommentsByPost(postID, viewerID string, page, pageSize int) ([]*CommentResponse, int64, error)
	GetReplies(commentID, viewerID string, page, pageSize int) ([]*CommentResponse, int64, error)
	UpdateComment(userID, commentID string, req UpdateCommentRequest) (*CommentResponse, error)
	DeleteComment(userID, commentID string) error
	GetCommentCount(postID string) (int64, error)
	IsOwner(commentID, userID string) (bool, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	likeRepo    repository.LikeRepository
	userRepo    repository.UserRepository
}

type CreateCommentRequest struct {
	PostID   string  `json:"post_id" binding:"required"`
	ParentID *string `json:"parent_id,omitempty"`
	Content  string  `json:"content" binding:"required,min=3,max=2000"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"omitempty,max=2000"`
}

type CommentResponse struct {
	ID              string    `json:"id"`
	PostID          string    `json:"post_id"`
	ParentID        *string   `json:"parent_id,omitempty"`
	UserID          *string   `json:"user_id,omitempty"`
	Username        string    `json:"username"`
	UserAvatarURL   *string   `json:"user_avatar_url,omitempty"`
	Content         string    `json:"content"`
	Level           int       `json:"level"`
	IsEdited        bool      `json:"is_edited"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	RepliesCount    int64     `json:"replies_count"`
	LikesCount      int64     `json:"likes_count"`
	IsLikedByViewer bool      `json:"is_liked_by_viewer"`
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
	userRepo repository.UserRepository,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		likeRepo:    likeRepo,
		userRepo:    userRepo,
	}
}

// CreateComment creates a top-level comment or a reply. A reply's parent must
// belong to the same post, and the reply sits one level below it.
func (s *commentService) CreateComment(userID string, req CreateCommentRequest) (*CommentResponse, error) {
	if err := validateContent(req.Content, 3, 2000); err != nil {
		return nil, err
	}

	if _, err := s.postRepo.FindByID(req.PostID); err != nil {
		return nil, fmt.Errorf("%w: post not found", ErrNotFound)
	}

	level := 0
	if req.ParentID != nil && *req.ParentID != "" {
		parent, err := s.commentRepo.FindByID(*req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("%w: parent comment not found", ErrValidation)
		}
		if parent.PostID != req.PostID {
			return nil, fmt.Errorf("%w: parent comment does not belong to this post", ErrValidation)
		}
		level = parent.Level + 1
	} else {
		req.ParentID = nil
	}

	comment := &model.Comment{
		PostID:   req.PostID,
		UserID:   &userID,
		ParentID: req.ParentID,
		Content:  req.Content,
		Level:    level,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	created, err := s.commentRepo.FindByID(comment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload comment: %w", err)
	}

	// Fresh comment: zero replies, zero likes
	resp := toCommentResponse(created, 0, 0, false)
	return &resp, nil
}

// GetComment returns a comment with denormalized counts and the viewer's
// like state. viewerID may be empty for anonymous reads.
func (s *commentService) GetComment(commentID, viewerID string) (*CommentResponse, error) {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		return nil, fmt.Errorf("%w: comment not found", ErrNotFound)
	}

	return s.assembleOne(comment, viewerID)
}

// GetCommentsByPost lists top-level comments for a post, newest first.
func (s *commentService) GetCommentsByPost(postID, viewerID string, page, pageSize int) ([]*CommentResponse, int64, error) {
	if _, err := s.postRepo.FindByID(postID); err != nil {
		return nil, 0, fmt.Errorf("%w: post not found", ErrNotFound)
	}

	limit, offset := paginate(page, pageSize)
	comments, err := s.commentRepo.FindTopLevelByPostID(postID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get comments: %w", err)
	}

	total, err := s.commentRepo.CountByPostID(postID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	responses, err := s.assembleMany(comments, viewerID)
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}

// GetReplies lists direct children of a comment, newest first.
func (s *commentService) GetReplies(commentID, viewerID string, page, pageSize int) ([]*CommentResponse, int64, error) {
	if _, err := s.commentRepo.FindByID(commentID); err != nil {
		return nil, 0, fmt.Errorf("%w: comment not found", ErrNotFound)
	}

	limit, offset := paginate(page, pageSize)
	replies, err := s.commentRepo.FindByParentID(commentID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get replies: %w", err)
	}

	total, err := s.commentRepo.CountByParentID(commentID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count replies: %w", err)
	}

	responses, err := s.assembleMany(replies, viewerID)
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}

// UpdateComment applies a new content value if one was provided. Empty
// content leaves the text alone rather than erroring, but the update still
// marks the comment edited, matching post updates.
func (s *commentService) UpdateComment(userID, commentID string, req UpdateCommentRequest) (*CommentResponse, error) {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		return nil, fmt.Errorf("%w: comment not found", ErrNotFound)
	}

	if !s.canModify(comment.UserID, userID) {
		return nil, fmt.Errorf("%w: you can only update your own comments", ErrForbidden)
	}

	if req.Content != "" {
		if err := validateContent(req.Content, 3, 2000); err != nil {
			return nil, err
		}
		comment.Content = req.Content
	}
	comment.IsEdited = true
	comment.UpdatedAt = time.Now()

	if err := s.commentRepo.Update(comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	updated, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload comment: %w", err)
	}
	return s.assembleOne(updated, userID)
}

// DeleteComment removes the comment together with its whole reply subtree.
func (s *commentService) DeleteComment(userID, commentID string) error {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		return fmt.Errorf("%w: comment not found", ErrNotFound)
	}

	if !s.canModify(comment.UserID, userID) {
		return fmt.Errorf("%w: you can only delete your own comments", ErrForbidden)
	}

	if _, err := s.commentRepo.DeleteTree(commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// GetCommentCount counts all comments on a post, replies included.
func (s *commentService) GetCommentCount(postID string) (int64, error) {
	return s.commentRepo.CountByPostID(postID)
}

// IsOwner reports whether the comment belongs to the user.
func (s *commentService) IsOwner(commentID, userID string) (bool, error) {
	return s.commentRepo.IsOwner(commentID, userID)
}

// canModify allows the owner, or an admin when the owner is gone or differs.
func (s *commentService) canModify(ownerID *string, userID string) bool {
	if ownerID != nil && *ownerID == userID {
		return true
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return false
	}
	return user.Role == model.RoleAdmin
}

func (s *commentService) assembleOne(comment *model.Comment, viewerID string) (*CommentResponse, error) {
	repliesCount, err := s.commentRepo.CountByParentID(comment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count replies: %w", err)
	}

	likesCount, err := s.likeRepo.CountActiveByTarget(model.TargetTypeComment, comment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}

	liked := false
	if viewerID != "" {
		liked, err = s.likeRepo.IsLikedBy(viewerID, model.TargetTypeComment, comment.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check like state: %w", err)
		}
	}

	resp := toCommentResponse(comment, repliesCount, likesCount, liked)
	return &resp, nil
}

func (s *commentService) assembleMany(comments []*model.Comment, viewerID string) ([]*CommentResponse, error) {
	if len(comments) == 0 {
		return []*CommentResponse{}, nil
	}

	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}

	replyCounts, err := s.commentRepo.CountByParentIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count replies: %w", err)
	}

	likeCounts, err := s.likeRepo.CountActiveByTargets(model.TargetTypeComment, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}

	likedByViewer := map[string]bool{}
	if viewerID != "" {
		likedByViewer, err = s.likeRepo.FindUserLikedTargets(viewerID, model.TargetTypeComment, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to check like state: %w", err)
		}
	}

	responses := make([]*CommentResponse, 0, len(comments))
	for _, c := range comments {
		resp := toCommentResponse(c, replyCounts[c.ID], likeCounts[c.ID], likedByViewer[c.ID])
		responses = append(responses, &resp)
	}
	return responses, nil
}

// toCommentResponse renders a comment. A removed owner leaves UserID nil and
// the username empty.
func toCommentResponse(comment *model.Comment, repliesCount, likesCount int64, liked bool) CommentResponse {
	username := ""
	var avatarURL *string
	if comment.User != nil {
		username = comment.User.Username
		avatarURL = comment.User.AvatarURL
	}

	return CommentResponse{
		ID:              comment.ID,
		PostID:          comment.PostID,
		ParentID:        comment.ParentID,
		UserID:          comment.UserID,
		Username:        username,
		UserAvatarURL:   avatarURL,
		Content:         comment.Content,
		Level:           comment.Level,
		IsEdited:        comment.IsEdited,
		CreatedAt:       comment.CreatedAt,
		UpdatedAt:       comment.UpdatedAt,
		RepliesCount:    repliesCount,
		LikesCount:      likesCount,
		IsLikedByViewer: liked,
	}
}

// validateContent enforces rune-count bounds on user text.
func validateContent(content string, min, max int) error {
	n := utf8.RuneCountInString(content)
	if n < min || n > max {
		return fmt.Errorf("%w: content must be between %d and %d characters", ErrValidation, min, max)
	}
	return nil
}
