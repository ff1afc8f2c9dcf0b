package service_test

import (
	"testing"

	"socialapp/internal/model"
	"socialapp/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTogglePostLikeRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice")
	bob := registerUser(t, env, "bob")
	post := createPost(t, env, alice.User.ID, "a likeable post")

	result, err := env.likes.TogglePostLike(alice.User.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, result.IsLiked)
	assert.Equal(t, int64(1), result.TotalLikes)
	assert.Equal(t, "Post liked", result.Message)

	result, err = env.likes.TogglePostLike(bob.User.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, result.IsLiked)
	assert.Equal(t, int64(2), result.TotalLikes)

	// Alice withdraws; Bob's like is untouched
	result, err = env.likes.TogglePostLike(alice.User.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, result.IsLiked)
	assert.Equal(t, int64(1), result.TotalLikes)
	assert.Equal(t, "Post unliked", result.Message)

	liked, err := env.likes.IsLikedBy(bob.User.ID, model.TargetTypePost, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = env.likes.IsLikedBy(alice.User.ID, model.TargetTypePost, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestToggleCommentLike(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice")
	post := createPost(t, env, alice.User.ID, "a post worth discussing")

	comment, err := env.comments.CreateComment(alice.User.ID, service.CreateCommentRequest{
		PostID:  post.ID,
		Content: "a likeable comment",
	})
	require.NoError(t, err)

	result, err := env.likes.ToggleCommentLike(alice.User.ID, comment.ID)
	require.NoError(t, err)
	assert.True(t, result.IsLiked)
	assert.Equal(t, "Comment liked", result.Message)

	result, err = env.likes.ToggleCommentLike(alice.User.ID, comment.ID)
	require.NoError(t, err)
	assert.False(t, result.IsLiked)
	assert.Equal(t, "Comment unliked", result.Message)
	assert.Equal(t, int64(0), result.TotalLikes)
}

func TestToggleUnknownTarget(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice")

	_, err := env.likes.TogglePostLike(alice.User.ID, "does-not-exist")
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = env.likes.ToggleCommentLike(alice.User.ID, "does-not-exist")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestGetLikers(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice")
	bob := registerUser(t, env, "bob")
	post := createPost(t, env, alice.User.ID, "a likeable post")

	_, err := env.likes.TogglePostLike(alice.User.ID, post.ID)
	require.NoError(t, err)
	_, err = env.likes.TogglePostLike(bob.User.ID, post.ID)
	require.NoError(t, err)

	likers, total, err := env.likes.GetLikers(model.TargetTypePost, post.ID, 1, 25)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, likers, 2)

	names := []string{likers[0].Username, likers[1].Username}
	assert.Contains(t, names, "alice")
	assert.Contains(t, names, "bob")

	_, _, err = env.likes.GetLikers("reaction", post.ID, 1, 25)
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestGetLikeCountValidatesTargetType(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.likes.GetLikeCount("reaction", "some-id")
	assert.ErrorIs(t, err, service.ErrValidation)

	count, err := env.likes.GetLikeCount(model.TargetTypePost, "never-liked")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
