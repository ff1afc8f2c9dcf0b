package service

import (
	"fmt"
	"time"

	"socialapp/internal/model"
	"socialapp/internal/repository"
	"socialapp/internal/util"
)

type AuthService interface {
	Register(req RegisterRequest) (*AuthResponse, error)
	Login(req LoginRequest) (*AuthResponse, error)
	GetMe(userID string) (*UserResponse, error)
	GetUser(userID string) (*UserResponse, error)
	GetUserByUsername(username string) (*UserResponse, error)
}

type authService struct {
	userRepo  repository.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string, tokenTTLMinutes int) AuthService {
	if tokenTTLMinutes <= 0 {
		tokenTTLMinutes = 60
	}
	return &authService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		tokenTTL:  time.Duration(tokenTTLMinutes) * time.Minute,
	}
}

// Register creates a user with a fresh PBKDF2 credential and issues a token.
func (s *authService) Register(req RegisterRequest) (*AuthResponse, error) {
	emailTaken, err := s.userRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if emailTaken {
		return nil, fmt.Errorf("%w: email already in use", ErrConflict)
	}

	usernameTaken, err := s.userRepo.ExistsByUsername(req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if usernameTaken {
		return nil, fmt.Errorf("%w: username already in use", ErrConflict)
	}

	passwordHash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         model.RoleUser,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueToken(user)
}

// Login verifies credentials and issues a token. Unknown email and bad
// password are indistinguishable to the caller.
func (s *authService) Login(req LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	if !util.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	return s.issueToken(user)
}

// GetMe returns the authenticated user's profile.
func (s *authService) GetMe(userID string) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrUnauthorized)
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// GetUser returns a user's public profile by ID.
func (s *authService) GetUser(userID string) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// GetUserByUsername returns a user's public profile by username.
func (s *authService) GetUserByUsername(username string) (*UserResponse, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) issueToken(user *model.User) (*AuthResponse, error) {
	token, expiresAt, err := util.GenerateToken(user.ID, user.Username, user.Email, user.Role, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &AuthResponse{
		User:      toUserResponse(user),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func toUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
