package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "findhouse/internal/errors"
	"findhouse/internal/model"
)

func TestUserService_Stats(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockPostRepo := new(MockPostRepository)
	mockPostRepo.On("CountByAuthor", mock.Anything, uint(7)).Return(int64(5), nil)
	mockPostRepo.On("CountByAuthorAndStatus", mock.Anything, uint(7), model.PostStatusApproved).Return(int64(3), nil)
	mockPostRepo.On("CountByAuthorAndStatus", mock.Anything, uint(7), model.PostStatusPending).Return(int64(2), nil)

	service := NewUserService(mockUserRepo, mockPostRepo)
	stats, err := service.Stats(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, int64(5), stats.TotalPosts)
	assert.Equal(t, int64(3), stats.ApprovedPosts)
	assert.Equal(t, int64(2), stats.PendingPosts)
	mockPostRepo.AssertExpectations(t)
}

func TestUserService_UpdateProfile(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("old-password"), 10)

	tests := []struct {
		name          string
		input         UpdateProfileInput
		setupMock     func(*MockUserRepository)
		expectedError error
		check         func(*testing.T, *model.User)
	}{
		{
			name:  "update name and phone",
			input: UpdateProfileInput{Name: "New Name", Phone: "+491701234567"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(7)).Return(&model.User{ID: 7, Name: "Old Name", Email: "u@example.com", PasswordHash: string(hashed)}, nil)
				m.On("Update", mock.Anything, mock.Anything).Return(nil)
			},
			check: func(t *testing.T, u *model.User) {
				assert.Equal(t, "New Name", u.Name)
				assert.Equal(t, "+491701234567", u.Phone)
				assert.Equal(t, "u@example.com", u.Email)
			},
		},
		{
			name:  "password change verifies the old password",
			input: UpdateProfileInput{OldPassword: "old-password", NewPassword: "new-password"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(7)).Return(&model.User{ID: 7, PasswordHash: string(hashed)}, nil)
				m.On("Update", mock.Anything, mock.Anything).Return(nil)
			},
			check: func(t *testing.T, u *model.User) {
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("new-password")))
			},
		},
		{
			name:  "wrong old password",
			input: UpdateProfileInput{OldPassword: "not-it", NewPassword: "new-password"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(7)).Return(&model.User{ID: 7, PasswordHash: string(hashed)}, nil)
			},
			expectedError: ErrWrongPassword,
		},
		{
			name:  "unknown user",
			input: UpdateProfileInput{Name: "Ghost"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(7)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUserRepo := new(MockUserRepository)
			tt.setupMock(mockUserRepo)

			service := NewUserService(mockUserRepo, new(MockPostRepository))
			user, err := service.UpdateProfile(context.Background(), 7, tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				tt.check(t, user)
			}

			mockUserRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_GetDashboard(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("FindByID", mock.Anything, uint(7)).Return(&model.User{ID: 7, Name: "Alice"}, nil)

	mockPostRepo := new(MockPostRepository)
	mockPostRepo.On("CountByAuthor", mock.Anything, uint(7)).Return(int64(2), nil)
	mockPostRepo.On("CountByAuthorAndStatus", mock.Anything, uint(7), model.PostStatusApproved).Return(int64(1), nil)
	mockPostRepo.On("CountByAuthorAndStatus", mock.Anything, uint(7), model.PostStatusPending).Return(int64(1), nil)
	mockPostRepo.On("ListByAuthorAndStatus", mock.Anything, uint(7), model.PostStatusApproved).Return([]model.Post{{Title: "Live"}}, nil)
	mockPostRepo.On("ListByAuthorAndStatus", mock.Anything, uint(7), model.PostStatusPending).Return([]model.Post{{Title: "Queued"}}, nil)

	service := NewUserService(mockUserRepo, mockPostRepo)
	dashboard, err := service.GetDashboard(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, "Alice", dashboard.Profile.Name)
	assert.Equal(t, int64(2), dashboard.Stats.TotalPosts)
	assert.Len(t, dashboard.ApprovedPosts, 1)
	assert.Len(t, dashboard.PendingPosts, 1)
	mockUserRepo.AssertExpectations(t)
	mockPostRepo.AssertExpectations(t)
}
