package repository

import (
	"socialapp/internal/model"

	"gorm.io/gorm"
)

type MediaRepository interface {
	Create(media *model.MediaFile) error
	FindByID(id string) (*model.MediaFile, error)
	FindByIDs(ids []string) ([]*model.MediaFile, error)
	FindByAttachment(attachmentType, attachmentID string) ([]*model.MediaFile, error)
	FindByAttachments(attachmentType string, attachmentIDs []string) (map[string][]*model.MediaFile, error)
	DeleteByIDs(ids []string) error
	DeleteByAttachment(attachmentType, attachmentID string) error
}

type mediaRepository struct {
	db *gorm.DB
}

func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(media *model.MediaFile) error {
	return r.db.Create(media).Error
}

func (r *mediaRepository) FindByID(id string) (*model.MediaFile, error) {
	var media model.MediaFile
	err := r.db.Where("id = ?", id).First(&media).Error
	if err != nil {
		return nil, err
	}
	return &media, nil
}

func (r *mediaRepository) FindByIDs(ids []string) ([]*model.MediaFile, error) {
	if len(ids) == 0 {
		return []*model.MediaFile{}, nil
	}
	var media []*model.MediaFile
	err := r.db.Where("id IN ?", ids).Find(&media).Error
	if err != nil {
		return nil, err
	}
	return media, nil
}

// FindByAttachment returns the attachment's media ordered by display order.
func (r *mediaRepository) FindByAttachment(attachmentType, attachmentID string) ([]*model.MediaFile, error) {
	var media []*model.MediaFile
	err := r.db.Where("attachment_type = ? AND attachment_id = ?", attachmentType, attachmentID).
		Order("display_order ASC").
		Find(&media).Error
	if err != nil {
		return nil, err
	}
	return media, nil
}

// FindByAttachments returns media for multiple attachments in one query,
// keyed by attachment ID, each slice ordered by display order.
func (r *mediaRepository) FindByAttachments(attachmentType string, attachmentIDs []string) (map[string][]*model.MediaFile, error) {
	if len(attachmentIDs) == 0 {
		return map[string][]*model.MediaFile{}, nil
	}
	var media []*model.MediaFile
	err := r.db.Where("attachment_type = ? AND attachment_id IN ?", attachmentType, attachmentIDs).
		Order("display_order ASC").
		Find(&media).Error
	if err != nil {
		return nil, err
	}
	m := make(map[string][]*model.MediaFile)
	for _, file := range media {
		m[file.AttachmentID] = append(m[file.AttachmentID], file)
	}
	return m, nil
}

func (r *mediaRepository) DeleteByIDs(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Where("id IN ?", ids).Delete(&model.MediaFile{}).Error
}

func (r *mediaRepository) DeleteByAttachment(attachmentType, attachmentID string) error {
	return r.db.Where("attachment_type = ? AND attachment_id = ?", attachmentType, attachmentID).
		Delete(&model.MediaFile{}).Error
}
