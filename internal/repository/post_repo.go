package repository

import (
	"encoding/json"
	"time"

	"socialapp/internal/model"
	"socialapp/internal/util"

	"gorm.io/gorm"
)

type PostRepository interface {
	Create(post *model.Post) error
	FindByID(id string) (*model.Post, error)
	FindByUserID(userID string, limit, offset int) ([]*model.Post, error)
	FindFeed(limit, offset int) ([]*model.Post, error)
	Update(post *model.Post) error
	Delete(id string) error
	CountByUserID(userID string) (int64, error)
	IsOwner(postID, userID string) (bool, error)
}

type postRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

const (
	postCachePrefix     = "post:"
	postCacheExpiration = 15 * time.Minute
)

func NewPostRepository(db *gorm.DB, redis *util.RedisClient) PostRepository {
	return &postRepository{
		db:    db,
		redis: redis,
	}
}

func (r *postRepository) Create(post *model.Post) error {
	return r.db.Create(post).Error
}

func (r *postRepository) FindByID(id string) (*model.Post, error) {
	if r.redis != nil {
		cached, err := r.redis.Get(postCachePrefix + id)
		if err == nil {
			var post model.Post
			if err := json.Unmarshal([]byte(cached), &post); err == nil {
				return &post, nil
			}
		}
	}

	var post model.Post
	err := r.db.Preload("User").Where("id = ?", id).First(&post).Error
	if err != nil {
		return nil, err
	}

	if r.redis != nil {
		r.redis.Set(postCachePrefix+id, &post, postCacheExpiration)
	}

	return &post, nil
}

// FindByUserID returns a user's posts, newest first.
func (r *postRepository) FindByUserID(userID string, limit, offset int) ([]*model.Post, error) {
	var posts []*model.Post
	err := r.db.Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// FindFeed returns all posts, newest first.
func (r *postRepository) FindFeed(limit, offset int) ([]*model.Post, error) {
	var posts []*model.Post
	err := r.db.Preload("User").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Update(post *model.Post) error {
	if err := r.db.Save(post).Error; err != nil {
		return err
	}
	if r.redis != nil {
		r.redis.Delete(postCachePrefix + post.ID)
	}
	return nil
}

// Delete removes the post row together with its comments and every like row
// attached to the post or its comments, in one transaction. Store-level
// cascade for a store that cannot put a foreign key on polymorphic likes.
func (r *postRepository) Delete(id string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var commentIDs []string
		if err := tx.Model(&model.Comment{}).
			Where("post_id = ?", id).
			Pluck("id", &commentIDs).Error; err != nil {
			return err
		}

		if len(commentIDs) > 0 {
			if err := tx.Where("target_type = ? AND target_id IN ?", model.TargetTypeComment, commentIDs).
				Delete(&model.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("target_type = ? AND target_id = ?", model.TargetTypePost, id).
			Delete(&model.Like{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&model.Post{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	if r.redis != nil {
		r.redis.Delete(postCachePrefix + id)
	}
	return nil
}

func (r *postRepository) CountByUserID(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Post{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// IsOwner reports whether the post belongs to the user.
func (r *postRepository) IsOwner(postID, userID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Post{}).
		Where("id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}
