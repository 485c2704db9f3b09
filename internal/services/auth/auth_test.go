package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/atompoint/internal/lib/jwt"
	"github.com/magabrotheeeer/atompoint/internal/lib/password"
	"github.com/magabrotheeeer/atompoint/internal/models"
	"github.com/magabrotheeeer/atompoint/internal/storage"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	created, _ := args.Get(0).(*models.User)
	return created, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepositoryMock) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	args := m.Called(ctx, username, passwordHash)
	return args.Error(0)
}

func newMaker() jwt.Maker {
	return jwt.NewJWTMaker("test-secret", time.Hour)
}

func TestService_Register(t *testing.T) {
	repo := new(UserRepositoryMock)
	service := New(repo, newMaker())

	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Username == "newuser" &&
			u.SecurityAmount == int64(500) &&
			len(u.Notifications) == 1 &&
			u.Notifications[0] == welcomeNotification &&
			password.CompareHash("secret123", u.PasswordHash) == nil
	})).Return(&models.User{ID: 100001, Username: "newuser"}, nil).Once()

	user, token, err := service.Register(context.Background(), "  NewUser  ", "secret123", 500)
	require.NoError(t, err)
	assert.Equal(t, int64(100001), user.ID)
	assert.NotEmpty(t, token)

	repo.AssertExpectations(t)
}

func TestService_Register_UsernameTaken(t *testing.T) {
	repo := new(UserRepositoryMock)
	service := New(repo, newMaker())

	repo.On("CreateUser", mock.Anything, mock.Anything).
		Return(nil, storage.ErrUsernameTaken).Once()

	_, _, err := service.Register(context.Background(), "taken", "secret123", 0)
	assert.ErrorIs(t, err, storage.ErrUsernameTaken)
}

func TestService_Login(t *testing.T) {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		user     *models.User
		repoErr  error
		wantErr  error
	}{
		{
			name:     "valid credentials",
			password: "secret123",
			user:     &models.User{ID: 100001, Username: "testuser", PasswordHash: hash},
		},
		{
			name:     "wrong password",
			password: "wrong",
			user:     &models.User{ID: 100001, Username: "testuser", PasswordHash: hash},
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "unknown user",
			password: "secret123",
			repoErr:  storage.ErrUserNotFound,
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "banned user",
			password: "secret123",
			user:     &models.User{ID: 100001, Username: "testuser", PasswordHash: hash, Banned: true},
			wantErr:  ErrBanned,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepositoryMock)
			service := New(repo, newMaker())

			repo.On("GetUserByUsername", mock.Anything, "testuser").
				Return(tt.user, tt.repoErr).Once()

			user, token, err := service.Login(context.Background(), "TestUser", tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.user.ID, user.ID)
			assert.NotEmpty(t, token)
		})
	}
}

func TestService_VerifyToken(t *testing.T) {
	repo := new(UserRepositoryMock)
	maker := newMaker()
	service := New(repo, maker)

	token, err := maker.GenerateToken(100001, "testuser")
	require.NoError(t, err)

	repo.On("GetUserByID", mock.Anything, int64(100001)).
		Return(&models.User{ID: 100001, Username: "testuser"}, nil).Once()

	user, err := service.VerifyToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(100001), user.ID)
}

func TestService_VerifyToken_Banned(t *testing.T) {
	repo := new(UserRepositoryMock)
	maker := newMaker()
	service := New(repo, maker)

	token, err := maker.GenerateToken(100001, "testuser")
	require.NoError(t, err)

	repo.On("GetUserByID", mock.Anything, int64(100001)).
		Return(&models.User{ID: 100001, Username: "testuser", Banned: true}, nil).Once()

	_, err = service.VerifyToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrBanned)
}

func TestService_VerifyToken_Invalid(t *testing.T) {
	repo := new(UserRepositoryMock)
	service := New(repo, newMaker())

	_, err := service.VerifyToken(context.Background(), "garbage")
	assert.Error(t, err)
}

func TestService_ResetPassword(t *testing.T) {
	repo := new(UserRepositoryMock)
	service := New(repo, newMaker())

	repo.On("GetUserByUsername", mock.Anything, "testuser").
		Return(&models.User{ID: 100001, Username: "testuser"}, nil).Once()
	repo.On("UpdatePassword", mock.Anything, "testuser", mock.MatchedBy(func(hash string) bool {
		return password.CompareHash("newsecret", hash) == nil
	})).Return(nil).Once()

	err := service.ResetPassword(context.Background(), "TestUser", "newsecret")
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestService_ResetPassword_UnknownUser(t *testing.T) {
	repo := new(UserRepositoryMock)
	service := New(repo, newMaker())

	repo.On("GetUserByUsername", mock.Anything, "ghost").
		Return(nil, storage.ErrUserNotFound).Once()

	err := service.ResetPassword(context.Background(), "ghost", "newsecret")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}
