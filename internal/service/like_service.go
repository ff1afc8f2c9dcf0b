package service

import (
	"fmt"
	"time"

	"socialapp/internal/model"
	"socialapp/internal/repository"
)

type LikeService interface {
	TogglePostLike(userID, postID string) (*LikeActionResult, error)
	ToggleCommentLike(userID, commentID string) (*LikeActionResult, error)
	GetLikers(targetType, targetID string, page, pageSize int) ([]*LikerResponse, int64, error)
	GetLikeCount(targetType, targetID string) (int64, error)
	IsLikedBy(userID, targetType, targetID string) (bool, error)
}

type likeService struct {
	likeRepo    repository.LikeRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
}

// LikeActionResult is the outcome of a toggle.
type LikeActionResult struct {
	IsLiked    bool   `json:"is_liked"`
	TotalLikes int64  `json:"total_likes"`
	Message    string `json:"message"`
}

type LikerResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Username      string    `json:"username"`
	UserAvatarURL *string   `json:"user_avatar_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewLikeService(
	likeRepo repository.LikeRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
) LikeService {
	return &likeService{
		likeRepo:    likeRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
}

// TogglePostLike flips the user's like on a post. Calling twice returns to
// the original state; that is the contract, not a bug.
func (s *likeService) TogglePostLike(userID, postID string) (*LikeActionResult, error) {
	if _, err := s.postRepo.FindByID(postID); err != nil {
		return nil, fmt.Errorf("%w: post not found", ErrNotFound)
	}

	return s.toggle(userID, model.TargetTypePost, postID, "Post liked", "Post unliked")
}

// ToggleCommentLike flips the user's like on a comment.
func (s *likeService) ToggleCommentLike(userID, commentID string) (*LikeActionResult, error) {
	if _, err := s.commentRepo.FindByID(commentID); err != nil {
		return nil, fmt.Errorf("%w: comment not found", ErrNotFound)
	}

	return s.toggle(userID, model.TargetTypeComment, commentID, "Comment liked", "Comment unliked")
}

func (s *likeService) toggle(userID, targetType, targetID, likedMsg, unlikedMsg string) (*LikeActionResult, error) {
	isLiked, err := s.likeRepo.Toggle(userID, targetType, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle like: %w", err)
	}

	total, err := s.likeRepo.CountActiveByTarget(targetType, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}

	message := unlikedMsg
	if isLiked {
		message = likedMsg
	}

	return &LikeActionResult{
		IsLiked:    isLiked,
		TotalLikes: total,
		Message:    message,
	}, nil
}

// GetLikers lists users actively liking a target, newest first.
func (s *likeService) GetLikers(targetType, targetID string, page, pageSize int) ([]*LikerResponse, int64, error) {
	if !model.ValidTargetType(targetType) {
		return nil, 0, fmt.Errorf("%w: invalid target type", ErrValidation)
	}

	limit, offset := paginate(page, pageSize)
	likes, err := s.likeRepo.FindActiveByTarget(targetType, targetID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get likes: %w", err)
	}

	total, err := s.likeRepo.CountActiveByTarget(targetType, targetID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count likes: %w", err)
	}

	likers := make([]*LikerResponse, 0, len(likes))
	for _, like := range likes {
		likers = append(likers, &LikerResponse{
			ID:            like.ID,
			UserID:        like.UserID,
			Username:      like.User.Username,
			UserAvatarURL: like.User.AvatarURL,
			CreatedAt:     like.CreatedAt,
		})
	}
	return likers, total, nil
}

// GetLikeCount counts active likes for a target.
func (s *likeService) GetLikeCount(targetType, targetID string) (int64, error) {
	if !model.ValidTargetType(targetType) {
		return 0, fmt.Errorf("%w: invalid target type", ErrValidation)
	}
	return s.likeRepo.CountActiveByTarget(targetType, targetID)
}

// IsLikedBy reports whether the user actively likes the target.
func (s *likeService) IsLikedBy(userID, targetType, targetID string) (bool, error) {
	if !model.ValidTargetType(targetType) {
		return false, fmt.Errorf("%w: invalid target type", ErrValidation)
	}
	return s.likeRepo.IsLikedBy(userID, targetType, targetID)
}
