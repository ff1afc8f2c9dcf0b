package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Privacy levels for posts
const (
	PrivacyPublic  = "public"
	PrivacyFriends = "friends"
	PrivacyPrivate = "private"
)

type Post struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	UserID    *string   `gorm:"type:uuid;index" json:"user_id,omitempty"` // nullable: user deletion keeps the post
	Content   string    `gorm:"type:text;not null" json:"content"`
	Privacy   string    `gorm:"type:varchar(20);not null;default:'public'" json:"privacy"`
	IsEdited  bool      `gorm:"default:false" json:"is_edited"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User     *User     `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
	Comments []Comment `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	// Likes and media are polymorphic (target_type/attachment_type + id), no FK constraint
}

// BeforeCreate hook to generate UUID
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Post) TableName() string {
	return "posts"
}

// ValidPrivacy reports whether s is a known privacy level.
func ValidPrivacy(s string) bool {
	switch s {
	case PrivacyPublic, PrivacyFriends, PrivacyPrivate:
		return true
	}
	return false
}
