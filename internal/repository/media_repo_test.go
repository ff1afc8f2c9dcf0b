package repository_test

import (
	"testing"

	"socialapp/internal/model"
	"socialapp/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMedia(t *testing.T, repo repository.MediaRepository, attachmentID, userID string, order int) *model.MediaFile {
	t.Helper()
	media := &model.MediaFile{
		FileName:         "blob-key",
		OriginalFileName: "photo.jpg",
		FileSize:         1024,
		MimeType:         "image/jpeg",
		MediaType:        model.MediaTypeImage,
		BlobURL:          "https://cdn.test/photo.jpg",
		UploadedBy:       userID,
		AttachmentType:   model.AttachmentTypePost,
		AttachmentID:     attachmentID,
		DisplayOrder:     order,
	}
	require.NoError(t, repo.Create(media))
	return media
}

func TestFindByAttachmentOrdering(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewMediaRepository(db)

	user := seedUser(t, db, "alice")
	post := seedPost(t, db, user.ID, "gallery post")

	// Insert out of order
	seedMedia(t, repo, post.ID, user.ID, 3)
	seedMedia(t, repo, post.ID, user.ID, 1)
	seedMedia(t, repo, post.ID, user.ID, 2)

	media, err := repo.FindByAttachment(model.AttachmentTypePost, post.ID)
	require.NoError(t, err)
	require.Len(t, media, 3)
	assert.Equal(t, 1, media[0].DisplayOrder)
	assert.Equal(t, 2, media[1].DisplayOrder)
	assert.Equal(t, 3, media[2].DisplayOrder)
}

func TestFindByAttachmentsGroupsByPost(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewMediaRepository(db)

	user := seedUser(t, db, "alice")
	withMedia := seedPost(t, db, user.ID, "gallery post")
	bare := seedPost(t, db, user.ID, "text only post")

	seedMedia(t, repo, withMedia.ID, user.ID, 1)
	seedMedia(t, repo, withMedia.ID, user.ID, 2)

	grouped, err := repo.FindByAttachments(model.AttachmentTypePost, []string{withMedia.ID, bare.ID})
	require.NoError(t, err)
	assert.Len(t, grouped[withMedia.ID], 2)
	assert.Empty(t, grouped[bare.ID])
}

func TestDeleteByIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewMediaRepository(db)

	user := seedUser(t, db, "alice")
	post := seedPost(t, db, user.ID, "gallery post")

	keep := seedMedia(t, repo, post.ID, user.ID, 1)
	drop := seedMedia(t, repo, post.ID, user.ID, 2)

	require.NoError(t, repo.DeleteByIDs([]string{drop.ID}))

	media, err := repo.FindByAttachment(model.AttachmentTypePost, post.ID)
	require.NoError(t, err)
	require.Len(t, media, 1)
	assert.Equal(t, keep.ID, media[0].ID)
}

func TestDeleteByAttachment(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewMediaRepository(db)

	user := seedUser(t, db, "alice")
	post := seedPost(t, db, user.ID, "gallery post")
	other := seedPost(t, db, user.ID, "another gallery")

	seedMedia(t, repo, post.ID, user.ID, 1)
	seedMedia(t, repo, post.ID, user.ID, 2)
	survivor := seedMedia(t, repo, other.ID, user.ID, 1)

	require.NoError(t, repo.DeleteByAttachment(model.AttachmentTypePost, post.ID))

	media, err := repo.FindByAttachment(model.AttachmentTypePost, post.ID)
	require.NoError(t, err)
	assert.Empty(t, media)

	media, err = repo.FindByAttachment(model.AttachmentTypePost, other.ID)
	require.NoError(t, err)
	require.Len(t, media, 1)
	assert.Equal(t, survivor.ID, media[0].ID)
}
