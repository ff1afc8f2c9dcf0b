package service

import (
	"testing"

	"socialapp/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestValidateFile(t *testing.T) {
	tests := []struct {
		name    string
		file    FileUpload
		wantErr bool
	}{
		{"small jpeg", FileUpload{Filename: "a.jpg", MimeType: "image/jpeg", Size: 1024}, false},
		{"webp", FileUpload{Filename: "a.webp", MimeType: "image/webp", Size: 1024}, false},
		{"mp4 under ceiling", FileUpload{Filename: "a.mp4", MimeType: "video/mp4", Size: 99 * 1024 * 1024}, false},
		{"image at ceiling", FileUpload{Filename: "a.png", MimeType: "image/png", Size: 10 * 1024 * 1024}, false},
		{"image over ceiling", FileUpload{Filename: "a.png", MimeType: "image/png", Size: 10*1024*1024 + 1}, true},
		{"video over ceiling", FileUpload{Filename: "a.mp4", MimeType: "video/mp4", Size: 100*1024*1024 + 1}, true},
		{"empty file", FileUpload{Filename: "a.jpg", MimeType: "image/jpeg", Size: 0}, true},
		{"svg rejected", FileUpload{Filename: "a.svg", MimeType: "image/svg+xml", Size: 1024}, true},
		{"pdf rejected", FileUpload{Filename: "a.pdf", MimeType: "application/pdf", Size: 1024}, true},
		{"mkv rejected", FileUpload{Filename: "a.mkv", MimeType: "video/x-matroska", Size: 1024}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFile(tt.file)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMediaTypeOf(t *testing.T) {
	assert.Equal(t, model.MediaTypeImage, mediaTypeOf("image/jpeg"))
	assert.Equal(t, model.MediaTypeImage, mediaTypeOf("image/gif"))
	assert.Equal(t, model.MediaTypeVideo, mediaTypeOf("video/mp4"))
}

func TestPaginate(t *testing.T) {
	limit, offset := paginate(1, 25)
	assert.Equal(t, 25, limit)
	assert.Equal(t, 0, offset)

	limit, offset = paginate(3, 10)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 20, offset)

	// Out-of-range values fall back to the defaults and the cap
	limit, offset = paginate(0, 0)
	assert.Equal(t, 25, limit)
	assert.Equal(t, 0, offset)

	limit, _ = paginate(1, 500)
	assert.Equal(t, 100, limit)

	limit, offset = paginate(-2, -5)
	assert.Equal(t, 25, limit)
	assert.Equal(t, 0, offset)
}
