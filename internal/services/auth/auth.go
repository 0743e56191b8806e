// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"

	"github.com/magabrotheeeer/lms-backend/internal/lib/jwt"
	"github.com/magabrotheeeer/lms-backend/internal/lib/password"
	"github.com/magabrotheeeer/lms-backend/internal/models"
)

// Ошибки аутентификации.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserBlocked        = errors.New("user is blocked")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUser возвращает пользователя по UID вместе с признаком модератора.
	GetUser(ctx context.Context, userUID string) (*models.User, error)

	// UpdateLastLogin фиксирует время последнего входа пользователя.
	UpdateLastLogin(ctx context.Context, userUID string) error
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля и возвращает его UID.
func (s *AuthService) Register(ctx context.Context, req models.DummyRegister) (string, error) {
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", err
	}
	user := models.User{
		Email:        req.Email,
		PasswordHash: hashed,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		City:         req.City,
	}
	return s.users.RegisterUser(ctx, user)
}

// Login проверяет пароль пользователя, обновляет время последнего входа
// и генерирует JWT. Заблокированная учётная запись войти не может.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", ErrUserBlocked
	}
	if err := s.users.UpdateLastLogin(ctx, user.UID); err != nil {
		return "", err
	}
	return s.jwtMaker.GenerateToken(user.Email, user.UID)
}

// ValidateToken проверяет JWT и возвращает актуального пользователя из базы.
// Членство в группе модераторов не хранится в токене: оно вычисляется при
// каждой валидации, поэтому отзыв прав действует сразу. Заблокированный
// пользователь не проходит валидацию даже с живым токеном.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetUser(ctx, claims.UserUID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserBlocked
	}
	return user, nil
}
