package util

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"socialapp/internal/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

type CloudinaryClient struct {
	cld *cloudinary.Cloudinary
	cfg *config.Config
}

// UploadResult describes a stored blob.
type UploadResult struct {
	PublicID  string
	SecureURL string
}

func NewCloudinaryClient(cfg *config.Config) (*CloudinaryClient, error) {
	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not configured")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &CloudinaryClient{
		cld: cld,
		cfg: cfg,
	}, nil
}

// UploadFile uploads raw file bytes with custom metadata tags and returns the
// public ID and resolvable URL. attachmentType/attachmentID end up as context
// key-value pairs on the stored object.
func (c *CloudinaryClient) UploadFile(ctx context.Context, data []byte, originalFilename, mimeType, uploadedBy, attachmentType, attachmentID string) (*UploadResult, error) {
	resourceType := "image"
	if strings.HasPrefix(mimeType, "video/") {
		resourceType = "video"
	}

	ext := filepath.Ext(originalFilename)
	publicID := fmt.Sprintf("%s/%s/%s%s",
		attachmentType,
		time.Now().UTC().Format("2006/01/02"),
		uuid.New().String(),
		ext,
	)

	result, err := c.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:     publicID,
		Folder:       c.cfg.CloudinaryFolder,
		ResourceType: resourceType,
		Context: api.CldAPIMap{
			"original_filename": originalFilename,
			"uploaded_by":       uploadedBy,
			"attachment_type":   attachmentType,
			"attachment_id":     attachmentID,
			"uploaded_at":       time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("error uploading to cloudinary: %w", err)
	}

	return &UploadResult{
		PublicID:  result.PublicID,
		SecureURL: result.SecureURL,
	}, nil
}

// DeleteFile removes a stored blob by public ID.
func (c *CloudinaryClient) DeleteFile(ctx context.Context, publicID, mediaType string) error {
	resourceType := "image"
	if mediaType == "video" {
		resourceType = "video"
	}

	_, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return fmt.Errorf("error deleting from cloudinary: %w", err)
	}
	return nil
}
