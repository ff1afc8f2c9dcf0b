package repository_test

import (
	"testing"
	"time"

	"socialapp/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := database.AutoMigrate(&model.User{}, &model.Post{}, &model.Comment{}, &model.Like{}, &model.MediaFile{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        username + "@test.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedPost(t *testing.T, db *gorm.DB, userID, content string) *model.Post {
	t.Helper()
	post := &model.Post{
		UserID:  &userID,
		Content: content,
		Privacy: model.PrivacyPublic,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func seedComment(t *testing.T, db *gorm.DB, postID, userID string, parentID *string, level int, content string) *model.Comment {
	t.Helper()
	comment := &model.Comment{
		PostID:   postID,
		UserID:   &userID,
		ParentID: parentID,
		Content:  content,
		Level:    level,
	}
	require.NoError(t, db.Create(comment).Error)
	return comment
}
