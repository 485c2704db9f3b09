// Package auth реализует регистрацию, вход и проверку токена.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/atompoint/internal/lib/jwt"
	"github.com/magabrotheeeer/atompoint/internal/lib/password"
	"github.com/magabrotheeeer/atompoint/internal/models"
	"github.com/magabrotheeeer/atompoint/internal/storage"
)

// Ошибки бизнес-логики аутентификации.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrBanned             = errors.New("account is banned")
)

const welcomeNotification = "Welcome to Atom Point Web!"

// UserRepository описывает операции хранилища, нужные сервису аутентификации.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdatePassword(ctx context.Context, username, passwordHash string) error
}

// Service проверяет учётные данные и выпускает jwt-токены.
type Service struct {
	repo  UserRepository
	maker jwt.Maker
}

// New создает новый экземпляр Service.
func New(repo UserRepository, maker jwt.Maker) *Service {
	return &Service{repo: repo, maker: maker}
}

// Register создаёт нового пользователя и сразу выдаёт токен.
// Имя пользователя нормализуется: пробелы по краям убираются, регистр понижается.
func (s *Service) Register(ctx context.Context, username, pass string, securityAmount int64) (*models.User, string, error) {
	const op = "services.auth.Register"

	username = normalizeUsername(username)

	passwordHash, err := password.GetHash(pass)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.repo.CreateUser(ctx, &models.User{
		Username:       username,
		PasswordHash:   passwordHash,
		SecurityAmount: securityAmount,
		Notifications:  []string{welcomeNotification},
	})
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.maker.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return user, token, nil
}

// Login проверяет пару логин-пароль и выдаёт токен.
// Заблокированному пользователю вход запрещён.
func (s *Service) Login(ctx context.Context, username, pass string) (*models.User, string, error) {
	const op = "services.auth.Login"

	username = normalizeUsername(username)

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(pass, user.PasswordHash); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if user.Banned {
		return nil, "", ErrBanned
	}

	token, err := s.maker.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return user, token, nil
}

// VerifyToken разбирает токен и перечитывает пользователя из хранилища.
// Удалённый пользователь получает ошибку, заблокированный ErrBanned.
func (s *Service) VerifyToken(ctx context.Context, token string) (*models.User, error) {
	const op = "services.auth.VerifyToken"

	claims, err := s.maker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if user.Banned {
		return nil, ErrBanned
	}
	return user, nil
}

// ResetPassword меняет пароль существующего пользователя.
func (s *Service) ResetPassword(ctx context.Context, username, newPassword string) error {
	const op = "services.auth.ResetPassword"

	username = normalizeUsername(username)

	if _, err := s.repo.GetUserByUsername(ctx, username); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	passwordHash, err := password.GetHash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.UpdatePassword(ctx, username, passwordHash); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
