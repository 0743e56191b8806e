package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/lms-backend/internal/lib/jwt"
	"github.com/magabrotheeeer/lms-backend/internal/lib/password"
	"github.com/magabrotheeeer/lms-backend/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *RepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *RepoMock) UpdateLastLogin(ctx context.Context, userUID string) error {
	return m.Called(ctx, userUID).Error(0)
}

const testUID = "3f2c8a4e-0000-0000-0000-000000000001"

func newTestMaker() jwt.Maker {
	return jwt.NewJWTMaker("test-secret", time.Hour)
}

func TestAuthService_Register_HashesPassword(t *testing.T) {
	repo := new(RepoMock)
	repo.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		if u.Email != "user@example.com" || u.PasswordHash == "secret-password" {
			return false
		}
		return password.CompareHash(u.PasswordHash, "secret-password") == nil
	})).Return(testUID, nil).Once()

	svc := NewAuthService(repo, newTestMaker())
	uid, err := svc.Register(context.Background(), models.DummyRegister{
		Email:    "user@example.com",
		Password: "secret-password",
	})

	assert.NoError(t, err)
	assert.Equal(t, testUID, uid)
	repo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	hash, err := password.GetHash("secret-password")
	require.NoError(t, err)

	tests := []struct {
		name      string
		setupMock func(r *RepoMock)
		password  string
		wantErr   error
	}{
		{
			name: "успешный вход обновляет last_login",
			setupMock: func(r *RepoMock) {
				r.On("GetUserByEmail", mock.Anything, "user@example.com").
					Return(&models.User{UID: testUID, Email: "user@example.com",
						PasswordHash: hash, IsActive: true}, nil).Once()
				r.On("UpdateLastLogin", mock.Anything, testUID).Return(nil).Once()
			},
			password: "secret-password",
		},
		{
			name: "неверный пароль",
			setupMock: func(r *RepoMock) {
				r.On("GetUserByEmail", mock.Anything, "user@example.com").
					Return(&models.User{UID: testUID, PasswordHash: hash, IsActive: true}, nil).Once()
			},
			password: "wrong-password",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name: "заблокированная учётная запись",
			setupMock: func(r *RepoMock) {
				r.On("GetUserByEmail", mock.Anything, "user@example.com").
					Return(&models.User{UID: testUID, PasswordHash: hash, IsActive: false}, nil).Once()
			},
			password: "secret-password",
			wantErr:  ErrUserBlocked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMock(repo)

			svc := NewAuthService(repo, newTestMaker())
			token, err := svc.Login(context.Background(), "user@example.com", tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, token)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_ValidateToken_RefreshesModeratorFromDB(t *testing.T) {
	hash, err := password.GetHash("secret-password")
	require.NoError(t, err)

	repo := new(RepoMock)
	repo.On("GetUserByEmail", mock.Anything, "user@example.com").
		Return(&models.User{UID: testUID, Email: "user@example.com",
			PasswordHash: hash, IsActive: true, IsModerator: false}, nil).Once()
	repo.On("UpdateLastLogin", mock.Anything, testUID).Return(nil).Once()
	// К моменту валидации пользователь уже включён в группу модераторов.
	repo.On("GetUser", mock.Anything, testUID).
		Return(&models.User{UID: testUID, Email: "user@example.com",
			IsActive: true, IsModerator: true}, nil).Once()

	svc := NewAuthService(repo, newTestMaker())
	token, err := svc.Login(context.Background(), "user@example.com", "secret-password")
	require.NoError(t, err)

	user, err := svc.ValidateToken(context.Background(), token)
	assert.NoError(t, err)
	assert.True(t, user.IsModerator)
	repo.AssertExpectations(t)
}

func TestAuthService_ValidateToken_RejectsBlockedUser(t *testing.T) {
	hash, err := password.GetHash("secret-password")
	require.NoError(t, err)

	repo := new(RepoMock)
	repo.On("GetUserByEmail", mock.Anything, "user@example.com").
		Return(&models.User{UID: testUID, Email: "user@example.com",
			PasswordHash: hash, IsActive: true}, nil).Once()
	repo.On("UpdateLastLogin", mock.Anything, testUID).Return(nil).Once()
	repo.On("GetUser", mock.Anything, testUID).
		Return(&models.User{UID: testUID, IsActive: false}, nil).Once()

	svc := NewAuthService(repo, newTestMaker())
	token, err := svc.Login(context.Background(), "user@example.com", "secret-password")
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrUserBlocked)
}

func TestAuthService_ValidateToken_RejectsGarbage(t *testing.T) {
	svc := NewAuthService(new(RepoMock), newTestMaker())
	_, err := svc.ValidateToken(context.Background(), "not-a-token")
	assert.Error(t, err)
}
