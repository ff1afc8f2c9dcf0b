package repository_test

import (
	"testing"

	"socialapp/internal/model"
	"socialapp/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleReusesSingleRow(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewLikeRepository(db, nil)

	user := seedUser(t, db, "alice")
	post := seedPost(t, db, user.ID, "hello world")

	liked, err := repo.Toggle(user.ID, model.TargetTypePost, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = repo.Toggle(user.ID, model.TargetTypePost, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	liked, err = repo.Toggle(user.ID, model.TargetTypePost, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	// Three toggles, one row
	var rows int64
	require.NoError(t, db.Model(&model.Like{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	var like model.Like
	require.NoError(t, db.First(&like).Error)
	assert.True(t, like.IsActive)
}

func TestCountActiveByTargetIgnoresInactive(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewLikeRepository(db, nil)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")
	post := seedPost(t, db, alice.ID, "hello world")

	_, err := repo.Toggle(alice.ID, model.TargetTypePost, post.ID)
	require.NoError(t, err)
	_, err = repo.Toggle(bob.ID, model.TargetTypePost, post.ID)
	require.NoError(t, err)
	_, err = repo.Toggle(carol.ID, model.TargetTypePost, post.ID)
	require.NoError(t, err)

	// Bob withdraws his like; the row stays but goes inactive
	_, err = repo.Toggle(bob.ID, model.TargetTypePost, post.ID)
	require.NoError(t, err)

	count, err := repo.CountActiveByTarget(model.TargetTypePost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	likers, err := repo.FindActiveByTarget(model.TargetTypePost, post.ID, 50, 0)
	require.NoError(t, err)
	assert.Len(t, likers, 2)
	for _, like := range likers {
		assert.NotEqual(t, bob.ID, like.UserID)
	}
}

func TestIsLikedBy(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewLikeRepository(db, nil)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	post := seedPost(t, db, alice.ID, "hello world")

	_, err := repo.Toggle(alice.ID, model.TargetTypePost, post.ID)
	require.NoError(t, err)

	liked, err := repo.IsLikedBy(alice.ID, model.TargetTypePost, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = repo.IsLikedBy(bob.ID, model.TargetTypePost, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	// After unliking, the row exists but IsLikedBy reports false
	_, err = repo.Toggle(alice.ID, model.TargetTypePost, post.ID)
	require.NoError(t, err)

	liked, err = repo.IsLikedBy(alice.ID, model.TargetTypePost, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestFindUserLikedTargets(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewLikeRepository(db, nil)

	alice := seedUser(t, db, "alice")
	liked := seedPost(t, db, alice.ID, "liked post")
	unliked := seedPost(t, db, alice.ID, "unliked post")
	untouched := seedPost(t, db, alice.ID, "untouched post")

	_, err := repo.Toggle(alice.ID, model.TargetTypePost, liked.ID)
	require.NoError(t, err)
	_, err = repo.Toggle(alice.ID, model.TargetTypePost, unliked.ID)
	require.NoError(t, err)
	_, err = repo.Toggle(alice.ID, model.TargetTypePost, unliked.ID)
	require.NoError(t, err)

	targets, err := repo.FindUserLikedTargets(alice.ID, model.TargetTypePost, []string{liked.ID, unliked.ID, untouched.ID})
	require.NoError(t, err)
	assert.True(t, targets[liked.ID])
	assert.False(t, targets[unliked.ID])
	assert.False(t, targets[untouched.ID])
}

func TestLikesAreScopedToTargetType(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewLikeRepository(db, nil)

	alice := seedUser(t, db, "alice")
	post := seedPost(t, db, alice.ID, "hello world")
	comment := seedComment(t, db, post.ID, alice.ID, nil, 0, "a comment")

	_, err := repo.Toggle(alice.ID, model.TargetTypePost, post.ID)
	require.NoError(t, err)
	_, err = repo.Toggle(alice.ID, model.TargetTypeComment, comment.ID)
	require.NoError(t, err)

	postCount, err := repo.CountActiveByTarget(model.TargetTypePost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), postCount)

	commentCount, err := repo.CountActiveByTarget(model.TargetTypeComment, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), commentCount)

	liked, err := repo.IsLikedBy(alice.ID, model.TargetTypeComment, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)
}
