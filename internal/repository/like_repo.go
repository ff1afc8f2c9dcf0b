package repository

import (
	"fmt"
	"time"

	"socialapp/internal/model"
	"socialapp/internal/util"

	"gorm.io/gorm"
)

type LikeRepository interface {
	Toggle(userID, targetType, targetID string) (bool, error)
	FindByUserAndTarget(userID, targetType, targetID string) (*model.Like, error)
	FindActiveByTarget(targetType, targetID string, limit, offset int) ([]*model.Like, error)
	CountActiveByTarget(targetType, targetID string) (int64, error)
	CountActiveByTargets(targetType string, targetIDs []string) (map[string]int64, error)
	FindUserLikedTargets(userID, targetType string, targetIDs []string) (map[string]bool, error)
	IsLikedBy(userID, targetType, targetID string) (bool, error)
}

type likeRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

const (
	likeCountCachePrefix = "like:count:"
	likeCacheExpiration  = 10 * time.Minute
)

func NewLikeRepository(db *gorm.DB, redis *util.RedisClient) LikeRepository {
	return &likeRepository{
		db:    db,
		redis: redis,
	}
}

// Toggle creates the like row active on first use, otherwise flips IsActive.
// Returns the resulting liked state. Two concurrent first-toggles race to
// insert; the loser hits the (user_id, target_type, target_id) unique
// constraint and is retried as an update of the winner's row.
func (r *likeRepository) Toggle(userID, targetType, targetID string) (bool, error) {
	isLiked, err := r.toggleOnce(userID, targetType, targetID)
	if err != nil {
		return false, err
	}

	if r.redis != nil {
		r.invalidateCountCache(targetType, targetID)
	}

	return isLiked, nil
}

func (r *likeRepository) toggleOnce(userID, targetType, targetID string) (bool, error) {
	existing, err := r.FindByUserAndTarget(userID, targetType, targetID)
	if err == nil && existing != nil {
		existing.IsActive = !existing.IsActive
		existing.UpdatedAt = time.Now()
		if err := r.db.Save(existing).Error; err != nil {
			return false, err
		}
		return existing.IsActive, nil
	}

	like := &model.Like{
		UserID:     userID,
		TargetType: targetType,
		TargetID:   targetID,
		IsActive:   true,
	}
	if err := r.db.Create(like).Error; err != nil {
		// Unique violation: somebody created the row between our read and
		// write. Flip theirs instead of failing.
		raced, findErr := r.FindByUserAndTarget(userID, targetType, targetID)
		if findErr != nil || raced == nil {
			return false, err
		}
		raced.IsActive = !raced.IsActive
		raced.UpdatedAt = time.Now()
		if saveErr := r.db.Save(raced).Error; saveErr != nil {
			return false, saveErr
		}
		return raced.IsActive, nil
	}

	return true, nil
}

// FindByUserAndTarget finds the like row regardless of active state.
func (r *likeRepository) FindByUserAndTarget(userID, targetType, targetID string) (*model.Like, error) {
	var like model.Like
	err := r.db.Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		First(&like).Error
	if err != nil {
		return nil, err
	}
	return &like, nil
}

// FindActiveByTarget returns active likes for a target, newest first.
func (r *likeRepository) FindActiveByTarget(targetType, targetID string, limit, offset int) ([]*model.Like, error) {
	var likes []*model.Like
	err := r.db.Preload("User").
		Where("target_type = ? AND target_id = ? AND is_active = ?", targetType, targetID, true).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&likes).Error
	if err != nil {
		return nil, err
	}
	return likes, nil
}

// CountActiveByTarget counts active likes for a target.
func (r *likeRepository) CountActiveByTarget(targetType, targetID string) (int64, error) {
	cacheKey := fmt.Sprintf("%s%s:%s", likeCountCachePrefix, targetType, targetID)
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
	err := r.db.Model(&model.Like{}).
		Where("target_type = ? AND target_id = ? AND is_active = ?", targetType, targetID, true).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	if r.redis != nil {
		r.redis.Set(cacheKey, fmt.Sprintf("%d", count), likeCacheExpiration)
	}

	return count, nil
}

// CountActiveByTargets counts active likes for multiple targets in one query.
func (r *likeRepository) CountActiveByTargets(targetType string, targetIDs []string) (map[string]int64, error) {
	if len(targetIDs) == 0 {
		return map[string]int64{}, nil
	}
	var results []struct {
		TargetID string
		Count    int64
	}
	err := r.db.Model(&model.Like{}).
		Select("target_id, count(*) as count").
		Where("target_type = ? AND target_id IN ? AND is_active = ?", targetType, targetIDs, true).
		Group("target_id").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	m := make(map[string]int64)
	for _, row := range results {
		m[row.TargetID] = row.Count
	}
	for _, id := range targetIDs {
		if _, ok := m[id]; !ok {
			m[id] = 0
		}
	}
	return m, nil
}

// FindUserLikedTargets returns which of the targets the user actively likes.
func (r *likeRepository) FindUserLikedTargets(userID, targetType string, targetIDs []string) (map[string]bool, error) {
	if len(targetIDs) == 0 {
		return map[string]bool{}, nil
	}
	var likes []model.Like
	err := r.db.Select("target_id").
		Where("user_id = ? AND target_type = ? AND target_id IN ? AND is_active = ?", userID, targetType, targetIDs, true).
		Find(&likes).Error
	if err != nil {
		return nil, err
	}
	m := make(map[string]bool)
	for _, like := range likes {
		m[like.TargetID] = true
	}
	return m, nil
}

// IsLikedBy reports whether the user actively likes the target.
func (r *likeRepository) IsLikedBy(userID, targetType, targetID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Like{}).
		Where("user_id = ? AND target_type = ? AND target_id = ? AND is_active = ?", userID, targetType, targetID, true).
		Count(&count).Error
	return count > 0, err
}

func (r *likeRepository) invalidateCountCache(targetType, targetID string) {
	if r.redis == nil {
		return
	}
	r.redis.Delete(fmt.Sprintf("%s%s:%s", likeCountCachePrefix, targetType, targetID))
}
