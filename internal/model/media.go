package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attachment types for the polymorphic media association. AttachmentID is an
// opaque string, not a foreign key: media can hang off entities in different
// tables.
const (
	AttachmentTypePost   = "post"
	AttachmentTypeAvatar = "avatar"
)

// Media kinds
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Processing states
const (
	ProcessingStatusPending   = "pending"
	ProcessingStatusCompleted = "completed"
	ProcessingStatusFailed    = "failed"
)

type MediaFile struct {
	ID               string    `gorm:"type:uuid;primary_key" json:"id"`
	FileName         string    `gorm:"type:text;not null" json:"file_name"` // blob key / public ID
	OriginalFileName string    `gorm:"type:text;not null" json:"original_file_name"`
	FileSize         int64     `gorm:"not null" json:"file_size"`
	MimeType         string    `gorm:"type:varchar(100);not null" json:"mime_type"`
	MediaType        string    `gorm:"type:varchar(20);not null" json:"media_type"` // image, video
	BlobURL          string    `gorm:"type:text;not null" json:"blob_url"`
	ThumbnailURL     *string   `gorm:"type:text" json:"thumbnail_url,omitempty"`
	Width            *int      `json:"width,omitempty"`
	Height           *int      `json:"height,omitempty"`
	Duration         *int      `json:"duration,omitempty"` // seconds, videos only
	UploadedBy       string    `gorm:"type:uuid;not null;index" json:"uploaded_by"`
	AttachmentType   string    `gorm:"type:varchar(20);not null;index:idx_attachment" json:"attachment_type"`
	AttachmentID     string    `gorm:"type:varchar(64);not null;index:idx_attachment" json:"attachment_id"`
	DisplayOrder     int       `gorm:"not null;default:1" json:"display_order"`
	IsProcessed      bool      `gorm:"default:false" json:"is_processed"`
	ProcessingStatus string    `gorm:"type:varchar(20);not null;default:'pending'" json:"processing_status"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate hook to generate UUID
func (m *MediaFile) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (MediaFile) TableName() string {
	return "media_files"
}
