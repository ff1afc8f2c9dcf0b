package repository

import (
	"fmt"
	"time"

	"socialapp/internal/model"
	"socialapp/internal/util"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(comment *model.Comment) error
	FindByID(id string) (*model.Comment, error)
	FindTopLevelByPostID(postID string, limit, offset int) ([]*model.Comment, error)
	FindByParentID(parentID string, limit, offset int) ([]*model.Comment, error)
	Update(comment *model.Comment) error
	DeleteTree(id string) (int64, error)
	CountByPostID(postID string) (int64, error)
	CountByPostIDs(postIDs []string) (map[string]int64, error)
	CountByParentID(parentID string) (int64, error)
	CountByParentIDs(parentIDs []string) (map[string]int64, error)
	IsOwner(commentID, userID string) (bool, error)
}

type commentRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

const (
	commentCountCachePrefix = "comment:count:"
	commentCacheExpiration  = 15 * time.Minute
)

func NewCommentRepository(db *gorm.DB, redis *util.RedisClient) CommentRepository {
	return &commentRepository{
		db:    db,
		redis: redis,
	}
}

// Create persists a comment and invalidates related count caches.
func (r *commentRepository) Create(comment *model.Comment) error {
	if err := r.db.Create(comment).Error; err != nil {
		return err
	}

	if r.redis != nil {
		r.invalidatePostCountCache(comment.PostID)
		if comment.ParentID != nil {
			r.invalidateParentCountCache(*comment.ParentID)
		}
	}

	return nil
}

func (r *commentRepository) FindByID(id string) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.Preload("User").Where("id = ?", id).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// FindTopLevelByPostID returns comments with no parent, newest first.
func (r *commentRepository) FindTopLevelByPostID(postID string, limit, offset int) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := r.db.Preload("User").
		Where("post_id = ? AND parent_id IS NULL", postID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// FindByParentID returns direct children of a comment, newest first.
func (r *commentRepository) FindByParentID(parentID string, limit, offset int) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := r.db.Preload("User").
		Where("parent_id = ?", parentID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) Update(comment *model.Comment) error {
	return r.db.Save(comment).Error
}

// DeleteTree removes the comment and its entire reply subtree, plus the like
// rows attached to the removed comments, in a single transaction. Returns the
// number of comments removed.
func (r *commentRepository) DeleteTree(id string) (int64, error) {
	var root model.Comment
	if err := r.db.Where("id = ?", id).First(&root).Error; err != nil {
		return 0, err
	}

	var parentIDs []string
	if root.ParentID != nil {
		parentIDs = append(parentIDs, *root.ParentID)
	}

	var ids []string
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var collectErr error
		ids, collectErr = collectSubtreeIDs(tx, id)
		if collectErr != nil {
			return collectErr
		}

		if err := tx.Where("target_type = ? AND target_id IN ?", model.TargetTypeComment, ids).
			Delete(&model.Like{}).Error; err != nil {
			return err
		}

		return tx.Where("id IN ?", ids).Delete(&model.Comment{}).Error
	})
	if err != nil {
		return 0, err
	}

	if r.redis != nil {
		r.invalidatePostCountCache(root.PostID)
		for _, pid := range parentIDs {
			r.invalidateParentCountCache(pid)
		}
		for _, cid := range ids {
			r.invalidateParentCountCache(cid)
		}
	}

	return int64(len(ids)), nil
}

// collectSubtreeIDs walks the reply tree depth-first and returns every
// comment ID rooted at commentID, children before parents.
func collectSubtreeIDs(tx *gorm.DB, commentID string) ([]string, error) {
	var childIDs []string
	if err := tx.Model(&model.Comment{}).
		Where("parent_id = ?", commentID).
		Pluck("id", &childIDs).Error; err != nil {
		return nil, err
	}

	var ids []string
	for _, childID := range childIDs {
		sub, err := collectSubtreeIDs(tx, childID)
		if err != nil {
			return nil, err
		}
		ids = append(ids, sub...)
	}

	return append(ids, commentID), nil
}

// CountByPostID counts all comments on a post, replies included.
func (r *commentRepository) CountByPostID(postID string) (int64, error) {
	cacheKey := commentCountCachePrefix + "post:" + postID
	if r.redis != nil {
		cached, err := r.redis.Get(cacheKey)
		if err == nil {
			var count int64
			if _, err := fmt.Sscanf(cached, "%d", &count); err == nil {
				return count, nil
			}
		}
	}

	var count int64
	err := r.db.Model(&model.Comment{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	if r.redis != nil {
		r.redis.Set(cacheKey, fmt.Sprintf("%d", count), commentCacheExpiration)
	}

	return count, nil
}

// CountByPostIDs counts comments for multiple posts in one query.
func (r *commentRepository) CountByPostIDs(postIDs []string) (map[string]int64, error) {
	if len(postIDs) == 0 {
		return map[string]int64{}, nil
	}
	var results []struct {
		PostID string
		Count  int64
	}
	err := r.db.Model(&model.Comment{}).
		Select("post_id, count(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	m := make(map[string]int64)
	for _, row := range results {
		m[row.PostID] = row.Count
	}
	for _, id := range postIDs {
		if _, ok := m[id]; !ok {
			m[id] = 0
		}
	}
	return m, nil
}

// CountByParentID counts direct replies to a comment.
func (r *commentRepository) CountByParentID(parentID string) (int64, error) {
	cacheKey := commentCountCachePrefix + "parent:" + parentID
	if r.redis != nil {
		cached, err := r.redis.Get(cacheKey)
		if err == nil {
			var count int64
			if _, err := fmt.Sscanf(cached, "%d", &count); err == nil {
				return count, nil
			}
		}
	}

	var count int64
	err := r.db.Model(&model.Comment{}).
		Where("parent_id = ?", parentID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	if r.redis != nil {
		r.redis.Set(cacheKey, fmt.Sprintf("%d", count), commentCacheExpiration)
	}

	return count, nil
}

// CountByParentIDs counts direct replies for multiple comments in one query.
func (r *commentRepository) CountByParentIDs(parentIDs []string) (map[string]int64, error) {
	if len(parentIDs) == 0 {
		return map[string]int64{}, nil
	}
	var results []struct {
		ParentID string
		Count    int64
	}
	err := r.db.Model(&model.Comment{}).
		Select("parent_id, count(*) as count").
		Where("parent_id IN ?", parentIDs).
		Group("parent_id").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	m := make(map[string]int64)
	for _, row := range results {
		m[row.ParentID] = row.Count
	}
	for _, id := range parentIDs {
		if _, ok := m[id]; !ok {
			m[id] = 0
		}
	}
	return m, nil
}

// IsOwner reports whether the comment belongs to the user.
func (r *commentRepository) IsOwner(commentID, userID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).
		Where("id = ? AND user_id = ?", commentID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *commentRepository) invalidatePostCountCache(postID string) {
	if r.redis == nil {
		return
	}
	r.redis.Delete(commentCountCachePrefix + "post:" + postID)
}

func (r *commentRepository) invalidateParentCountCache(parentID string) {
	if r.redis == nil {
		return
	}
	r.redis.Delete(commentCountCachePrefix + "parent:" + parentID)
}
