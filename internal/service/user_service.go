package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "findhouse/internal/errors"
	"findhouse/internal/model"
	"findhouse/internal/repository"
)

// ErrWrongPassword is returned when a password change supplies a wrong old
// password.
var ErrWrongPassword = errors.New("old password is incorrect")

// UserStats summarizes a user's listings by moderation state.
type UserStats struct {
	TotalPosts    int64 `json:"totalPosts"`
	ApprovedPosts int64 `json:"approvedPosts"`
	PendingPosts  int64 `json:"pendingPosts"`
}

// Dashboard bundles everything the profile page needs in one payload.
type Dashboard struct {
	Profile       *model.User  `json:"profile"`
	Stats         UserStats    `json:"stats"`
	ApprovedPosts []model.Post `json:"approvedPosts"`
	PendingPosts  []model.Post `json:"pendingPosts"`
}

// UpdateProfileInput carries mutable profile fields. A password change
// requires both old and new passwords.
type UpdateProfileInput struct {
	Name        string
	Email       string
	Phone       string
	OldPassword string
	NewPassword string
}

// UserService serves the per-user profile, dashboard and stats views.
type UserService interface {
	Profile(ctx context.Context, userID uint) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*model.User, error)
	Stats(ctx context.Context, userID uint) (*UserStats, error)
	Posts(ctx context.Context, userID uint) ([]model.Post, error)
	ApprovedPosts(ctx context.Context, userID uint) ([]model.Post, error)
	PendingPosts(ctx context.Context, userID uint) ([]model.Post, error)
	GetDashboard(ctx context.Context, userID uint) (*Dashboard, error)
}

type userService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, postRepo repository.PostRepository) UserService {
	return &userService{
		userRepo: userRepo,
		postRepo: postRepo,
	}
}

// Profile returns the caller's account record.
func (s *userService) Profile(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile mutates name, email and phone, and optionally rotates the
// password after verifying the old one.
func (s *userService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*model.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Email != "" {
		user.Email = in.Email
	}
	user.Phone = in.Phone

	if in.NewPassword != "" {
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.OldPassword)) != nil {
			return nil, ErrWrongPassword
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Stats counts the caller's listings per moderation state.
func (s *userService) Stats(ctx context.Context, userID uint) (*UserStats, error) {
	total, err := s.postRepo.CountByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}
	approved, err := s.postRepo.CountByAuthorAndStatus(ctx, userID, model.PostStatusApproved)
	if err != nil {
		return nil, err
	}
	pending, err := s.postRepo.CountByAuthorAndStatus(ctx, userID, model.PostStatusPending)
	if err != nil {
		return nil, err
	}
	return &UserStats{
		TotalPosts:    total,
		ApprovedPosts: approved,
		PendingPosts:  pending,
	}, nil
}

// Posts returns all of the caller's listings, most recent first.
func (s *userService) Posts(ctx context.Context, userID uint) ([]model.Post, error) {
	return s.postRepo.ListByAuthor(ctx, userID)
}

// ApprovedPosts returns the caller's publicly visible listings.
func (s *userService) ApprovedPosts(ctx context.Context, userID uint) ([]model.Post, error) {
	return s.postRepo.ListByAuthorAndStatus(ctx, userID, model.PostStatusApproved)
}

// PendingPosts returns the caller's listings still in the moderation queue.
func (s *userService) PendingPosts(ctx context.Context, userID uint) ([]model.Post, error) {
	return s.postRepo.ListByAuthorAndStatus(ctx, userID, model.PostStatusPending)
}

// GetDashboard assembles profile, stats and both post lists.
func (s *userService) GetDashboard(ctx context.Context, userID uint) (*Dashboard, error) {
	profile, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats, err := s.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	approved, err := s.ApprovedPosts(ctx, userID)
	if err != nil {
		return nil, err
	}
	pending, err := s.PendingPosts(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Profile:       profile,
		Stats:         *stats,
		ApprovedPosts: approved,
		PendingPosts:  pending,
	}, nil
}
