package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Constants for like target types
const (
	TargetTypePost    = "post"
	TargetTypeComment = "comment"
)

// Like is a soft-toggle row: it persists across like/unlike cycles and only
// flips IsActive. At most one row exists per (user, target_type, target_id).
type Like struct {
	ID         string    `gorm:"type:uuid;primary_key" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;index:idx_user_target,unique" json:"user_id"`
	TargetType string    `gorm:"type:varchar(20);not null;index:idx_user_target,unique" json:"target_type"` // post, comment
	TargetID   string    `gorm:"type:uuid;not null;index:idx_user_target,unique;index" json:"target_id"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

// BeforeCreate hook to generate UUID
func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Like) TableName() string {
	return "likes"
}

// ValidTargetType reports whether s is a known like target.
func ValidTargetType(s string) bool {
	return s == TargetTypePost || s == TargetTypeComment
}
