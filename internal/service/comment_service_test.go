package service_test

import (
	"context"
	"testing"

	"socialapp/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPost(t *testing.T, env *testEnv, userID, content string) *service.PostResponse {
	t.Helper()
	post, err := env.posts.CreatePost(context.Background(), userID, service.CreatePostRequest{Content: content}, nil)
	require.NoError(t, err)
	return post
}

func TestCreateCommentAndReplyLevels(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice")
	post := createPost(t, env, alice.User.ID, "a post worth discussing")

	root, err := env.comments.CreateComment(alice.User.ID, service.CreateCommentRequest{
		PostID:  post.ID,
		Content: "top level comment",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, root.Level)
	assert.Nil(t, root.ParentID)
	assert.Equal(t, int64(0), root.RepliesCount)

	reply, err := env.comments.CreateComment(alice.User.ID, service.CreateCommentRequest{
		PostID:   post.ID,
		ParentID: &root.ID,
		Content:  "a reply",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, reply.Level)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, root.ID, *reply.ParentID)

	nested, err := env.comments.CreateComment(alice.User.ID, service.CreateCommentRequest{
		PostID:   post.ID,
		ParentID: &reply.ID,
		Content:  "a nested reply",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, nested.Level)

	// The parent now reports its direct reply
	fetched, err := env.comments.GetComment(root.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), fetched.RepliesCount)
}

func TestCreateCommentRejectsForeignParent(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice")
	postA := createPost(t, env, alice.User.ID, "first post here")
	postB := createPost(t, env, alice.User.ID, "second post here")

	onA, err := env.comments.CreateComment(alice.User.ID, service.CreateCommentRequest{
		PostID:  postA.ID,
		Content: "comment on A",
	})
	require.NoError(t, err)

	_, err = env.comments.CreateComment(alice.User.ID, service.CreateCommentRequest{
		PostID:   postB.ID,
		ParentID: &onA.ID,
		Content:  "reply across posts",
	})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestCreateCommentUnknownPost(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice")

	_, err := env.comments.CreateComment(alice.User.ID, service.CreateCommentRequest{
		PostID:  "does-not-exist",
		Content: "into the void",
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCreateCommentContentBounds(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice")
	post := createPost(t, env, alice.User.ID, "a post worth discussing")

	_, err := env.comments.CreateComment(alice.User.ID, service.CreateCommentRequest{
		PostID:  post.ID,
		Content: "no",
	})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestUpdateCommentEmptyContentKeepsText(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice")
	post := createPost(t, env, alice.User.ID, "a post worth discussing")

	comment, err := env.comments.CreateComment(alice.User.ID, service.CreateCommentRequest{
		PostID:  post.ID,
		Content: "original text",
	})
	require.NoError(t, err)

	// An update with empty content keeps the text but still marks the
	// comment edited, same as post updates
	updated, err := env.comments.UpdateComment(alice.User.ID, comment.ID, service.UpdateCommentRequest{Content: ""})
	require.NoError(t, err)
	assert.Equal(t, "original text", updated.Content)
	assert.True(t, updated.IsEdited)

	updated, err = env.comments.UpdateComment(alice.User.ID, comment.ID, service.UpdateCommentRequest{Content: "revised text"})
	require.NoError(t, err)
	assert.Equal(t, "revised text", updated.Content)
	assert.True(t, updated.IsEdited)
}

func TestUpdateCommentForbiddenForNonOwner(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice")
	bob := registerUser(t, env, "bob")
	post := createPost(t, env, alice.User.ID, "a post worth discussing")

	comment, err := env.comments.CreateComment(alice.User.ID, service.CreateCommentRequest{
		PostID:  post.ID,
		Content: "alice's comment",
	})
	require.NoError(t, err)

	_, err = env.comments.UpdateComment(bob.User.ID, comment.ID, service.UpdateCommentRequest{Content: "bob's rewrite"})
	assert.ErrorIs(t, err, service.ErrForbidden)

	err = env.comments.DeleteComment(bob.User.ID, comment.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestDeleteCommentRemovesSubtree(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice")
	bob := registerUser(t, env, "bob")
	post := createPost(t, env, alice.User.ID, "a post worth discussing")

	root, err := env.comments.CreateComment(alice.User.ID, service.CreateCommentRequest{
		PostID:  post.ID,
		Content: "root comment",
	})
	require.NoError(t, err)

	// Bob's reply hangs off Alice's comment; it goes down with the subtree
	reply, err := env.comments.CreateComment(bob.User.ID, service.CreateCommentRequest{
		PostID:   post.ID,
		ParentID: &root.ID,
		Content:  "bob's reply",
	})
	require.NoError(t, err)

	survivor, err := env.comments.CreateComment(bob.User.ID, service.CreateCommentRequest{
		PostID:  post.ID,
		Content: "unrelated comment",
	})
	require.NoError(t, err)

	require.NoError(t, env.comments.DeleteComment(alice.User.ID, root.ID))

	_, err = env.comments.GetComment(reply.ID, "")
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = env.comments.GetComment(survivor.ID, "")
	assert.NoError(t, err)

	count, err := env.comments.GetCommentCount(post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAdminCanDeleteAnyComment(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice")
	admin := registerUser(t, env, "admin")
	makeAdmin(t, env, admin.User.ID)

	post := createPost(t, env, alice.User.ID, "a post worth discussing")
	comment, err := env.comments.CreateComment(alice.User.ID, service.CreateCommentRequest{
		PostID:  post.ID,
		Content: "alice's comment",
	})
	require.NoError(t, err)

	require.NoError(t, env.comments.DeleteComment(admin.User.ID, comment.ID))
}

func TestGetCommentsByPostReturnsTopLevelOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice")
	post := createPost(t, env, alice.User.ID, "a post worth discussing")

	root, err := env.comments.CreateComment(alice.User.ID, service.CreateCommentRequest{
		PostID:  post.ID,
		Content: "top level",
	})
	require.NoError(t, err)

	_, err = env.comments.CreateComment(alice.User.ID, service.CreateCommentRequest{
		PostID:   post.ID,
		ParentID: &root.ID,
		Content:  "buried reply",
	})
	require.NoError(t, err)

	comments, total, err := env.comments.GetCommentsByPost(post.ID, "", 1, 25)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
	assert.Equal(t, root.ID, comments[0].ID)
	assert.Equal(t, int64(1), comments[0].RepliesCount)
	// Total counts the whole thread, replies included
	assert.Equal(t, int64(2), total)

	replies, repliesTotal, err := env.comments.GetReplies(root.ID, "", 1, 25)
	require.NoError(t, err)
	assert.Len(t, replies, 1)
	assert.Equal(t, int64(1), repliesTotal)
	assert.Equal(t, "buried reply", replies[0].Content)
}

func TestDeletedAuthorLeavesComment(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice")
	bob := registerUser(t, env, "bob")
	post := createPost(t, env, alice.User.ID, "a post worth discussing")

	comment, err := env.comments.CreateComment(bob.User.ID, service.CreateCommentRequest{
		PostID:  post.ID,
		Content: "bob's comment",
	})
	require.NoError(t, err)

	require.NoError(t, env.userRepo.Delete(bob.User.ID))

	fetched, err := env.comments.GetComment(comment.ID, "")
	require.NoError(t, err)
	assert.Nil(t, fetched.UserID)
	assert.Empty(t, fetched.Username)
	assert.Equal(t, "bob's comment", fetched.Content)
}
