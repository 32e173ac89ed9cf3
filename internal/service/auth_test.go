package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkwise-backend/internal/domain"
	"parkwise-backend/internal/security"
)

type memUsers struct {
	users  map[int32]domain.User
	nextID int32
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[int32]domain.User)}
}

func (m *memUsers) Create(ctx context.Context, user *domain.User) error {
	m.nextID++
	user.ID = m.nextID
	m.users[user.ID] = *user
	return nil
}

func (m *memUsers) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func newAuthEnv(t *testing.T) (AuthService, security.TokenManager) {
	t.Helper()
	tokens := security.NewTokenManager("unit-test-secret-0123456789abcdef", 60)
	return NewAuthService(newMemUsers(), tokens), tokens
}

func TestLogin(t *testing.T) {
	svc, tokens := newAuthEnv(t)

	created, err := svc.CreateOperator(context.Background(), "Op One", "op@example.com", "s3cret-pass", domain.UserRoleOperator)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", created.PasswordHash)

	token, user, err := svc.Login(context.Background(), " Op@Example.com ", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	claims, err := tokens.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.Equal(t, string(domain.UserRoleOperator), claims.Role)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _ := newAuthEnv(t)

	_, err := svc.CreateOperator(context.Background(), "Op One", "op@example.com", "s3cret-pass", domain.UserRoleOperator)
	require.NoError(t, err)

	t.Run("Wrong password", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "op@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unknown email", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "nobody@example.com", "s3cret-pass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
