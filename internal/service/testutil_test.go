package service_test

import (
	"testing"
	"time"

	"socialapp/internal/model"
	"socialapp/internal/repository"
	"socialapp/internal/service"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnv wires the services over an in-memory database, without Redis or a
// blob store.
type testEnv struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	auth     service.AuthService
	posts    service.PostService
	comments service.CommentService
	likes    service.LikeService
	media    service.MediaService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Post{}, &model.Comment{}, &model.Like{}, &model.MediaFile{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db, nil)
	commentRepo := repository.NewCommentRepository(db, nil)
	likeRepo := repository.NewLikeRepository(db, nil)
	mediaRepo := repository.NewMediaRepository(db)

	mediaService := service.NewMediaService(mediaRepo, nil)

	return &testEnv{
		db:       db,
		userRepo: userRepo,
		auth:     service.NewAuthService(userRepo, "test-secret", 60),
		posts:    service.NewPostService(postRepo, commentRepo, likeRepo, userRepo, mediaService),
		comments: service.NewCommentService(commentRepo, postRepo, likeRepo, userRepo),
		likes:    service.NewLikeService(likeRepo, postRepo, commentRepo),
		media:    mediaService,
	}
}

// registerUser creates a user through the auth service and returns the result.
func registerUser(t *testing.T, env *testEnv, username string) *service.AuthResponse {
	t.Helper()
	auth, err := env.auth.Register(service.RegisterRequest{
		Username: username,
		Email:    username + "@test.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	return auth
}

// makeAdmin promotes a user directly in the database.
func makeAdmin(t *testing.T, env *testEnv, userID string) {
	t.Helper()
	require.NoError(t, env.db.Model(&model.User{}).Where("id = ?", userID).Update("role", model.RoleAdmin).Error)
}
