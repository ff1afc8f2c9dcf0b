package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"socialapp/internal/model"
	"socialapp/internal/repository"
	"socialapp/internal/util"
)

// FileUpload is an in-memory file handed to the media service by handlers.
type FileUpload struct {
	Data     []byte
	Filename string
	MimeType string
	Size     int64
}

type MediaService interface {
	UploadFiles(ctx context.Context, userID string, files []FileUpload, attachmentType, attachmentID string) ([]*model.MediaFile, error)
	GetByAttachment(attachmentType, attachmentID string) ([]*model.MediaFile, error)
	GetByAttachments(attachmentType string, attachmentIDs []string) (map[string][]*model.MediaFile, error)
	DeleteByAttachment(ctx context.Context, attachmentType, attachmentID string) error
	DeleteByIDs(ctx context.Context, ids []string) error
	ValidateOwnership(ids []string, userID string) (bool, error)
}

type mediaService struct {
	mediaRepo  repository.MediaRepository
	cloudinary *util.CloudinaryClient
}

var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
	"video/mp4":  true,
	"video/mov":  true,
	"video/avi":  true,
}

const (
	maxImageSize = 10 * 1024 * 1024  // 10MB
	maxVideoSize = 100 * 1024 * 1024 // 100MB
)

// NewMediaService builds the media service. cloudinary may be nil, in which
// case uploads fail fast and deletes skip the blob store.
func NewMediaService(mediaRepo repository.MediaRepository, cloudinary *util.CloudinaryClient) MediaService {
	return &mediaService{
		mediaRepo:  mediaRepo,
		cloudinary: cloudinary,
	}
}

// UploadFiles validates, uploads and records every file, assigning display
// order 1..n in input order. Validation of all files happens before any
// network upload.
func (s *mediaService) UploadFiles(ctx context.Context, userID string, files []FileUpload, attachmentType, attachmentID string) ([]*model.MediaFile, error) {
	if len(files) == 0 {
		return []*model.MediaFile{}, nil
	}
	if s.cloudinary == nil {
		return nil, fmt.Errorf("%w: media uploads are not configured", ErrValidation)
	}

	for _, file := range files {
		if err := validateFile(file); err != nil {
			return nil, err
		}
	}

	// Continue numbering after media already attached
	existing, err := s.mediaRepo.FindByAttachment(attachmentType, attachmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing media: %w", err)
	}
	nextOrder := 1
	for _, m := range existing {
		if m.DisplayOrder >= nextOrder {
			nextOrder = m.DisplayOrder + 1
		}
	}

	var uploaded []*model.MediaFile
	for i, file := range files {
		result, err := s.cloudinary.UploadFile(ctx, file.Data, file.Filename, file.MimeType, userID, attachmentType, attachmentID)
		if err != nil {
			return nil, fmt.Errorf("failed to upload %s: %w", file.Filename, err)
		}

		media := &model.MediaFile{
			FileName:         result.PublicID,
			OriginalFileName: file.Filename,
			FileSize:         file.Size,
			MimeType:         file.MimeType,
			MediaType:        mediaTypeOf(file.MimeType),
			BlobURL:          result.SecureURL,
			UploadedBy:       userID,
			AttachmentType:   attachmentType,
			AttachmentID:     attachmentID,
			DisplayOrder:     nextOrder + i,
			IsProcessed:      true,
			ProcessingStatus: model.ProcessingStatusCompleted,
		}

		if err := s.mediaRepo.Create(media); err != nil {
			return nil, fmt.Errorf("failed to record media file: %w", err)
		}

		uploaded = append(uploaded, media)
	}

	return uploaded, nil
}

func (s *mediaService) GetByAttachment(attachmentType, attachmentID string) ([]*model.MediaFile, error) {
	return s.mediaRepo.FindByAttachment(attachmentType, attachmentID)
}

func (s *mediaService) GetByAttachments(attachmentType string, attachmentIDs []string) (map[string][]*model.MediaFile, error) {
	return s.mediaRepo.FindByAttachments(attachmentType, attachmentIDs)
}

// DeleteByAttachment removes the attachment's media. Blob deletion is
// best-effort per file; the database rows must go.
func (s *mediaService) DeleteByAttachment(ctx context.Context, attachmentType, attachmentID string) error {
	media, err := s.mediaRepo.FindByAttachment(attachmentType, attachmentID)
	if err != nil {
		return fmt.Errorf("failed to load media for deletion: %w", err)
	}
	if len(media) == 0 {
		return nil
	}

	s.deleteBlobs(ctx, media)

	if err := s.mediaRepo.DeleteByAttachment(attachmentType, attachmentID); err != nil {
		return fmt.Errorf("failed to delete media records: %w", err)
	}
	return nil
}

// DeleteByIDs removes specific media files, blob deletion best-effort.
func (s *mediaService) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	media, err := s.mediaRepo.FindByIDs(ids)
	if err != nil {
		return fmt.Errorf("failed to load media for deletion: %w", err)
	}

	s.deleteBlobs(ctx, media)

	if err := s.mediaRepo.DeleteByIDs(ids); err != nil {
		return fmt.Errorf("failed to delete media records: %w", err)
	}
	return nil
}

// ValidateOwnership reports whether every media file belongs to the user.
func (s *mediaService) ValidateOwnership(ids []string, userID string) (bool, error) {
	media, err := s.mediaRepo.FindByIDs(ids)
	if err != nil {
		return false, err
	}
	for _, m := range media {
		if m.UploadedBy != userID {
			return false, nil
		}
	}
	return true, nil
}

func (s *mediaService) deleteBlobs(ctx context.Context, media []*model.MediaFile) {
	if s.cloudinary == nil {
		return
	}
	for _, m := range media {
		if err := s.cloudinary.DeleteFile(ctx, m.FileName, m.MediaType); err != nil {
			log.Printf("Failed to delete blob %s: %v", m.FileName, err)
		}
	}
}

// validateFile enforces the MIME allowlist and size ceilings before any
// upload traffic.
func validateFile(file FileUpload) error {
	if !allowedMimeTypes[file.MimeType] {
		return fmt.Errorf("%w: file type %s is not supported", ErrValidation, file.MimeType)
	}
	if file.Size == 0 {
		return fmt.Errorf("%w: file %s is empty", ErrValidation, file.Filename)
	}

	maxSize := int64(maxVideoSize)
	if strings.HasPrefix(file.MimeType, "image/") {
		maxSize = maxImageSize
	}
	if file.Size > maxSize {
		return fmt.Errorf("%w: file size exceeds the maximum limit of %dMB", ErrValidation, maxSize/(1024*1024))
	}
	return nil
}

func mediaTypeOf(mimeType string) string {
	if strings.HasPrefix(mimeType, "video/") {
		return model.MediaTypeVideo
	}
	return model.MediaTypeImage
}
