package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mednex-health/mednex-api/internal/model"
	"github.com/mednex-health/mednex-api/internal/repository"
	"github.com/mednex-health/mednex-api/pkg/auth"
	apperrors "github.com/mednex-health/mednex-api/pkg/errors"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*model.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) List(ctx context.Context, p model.Pagination) ([]model.User, error) {
	out := []model.User{}
	for _, user := range f.users {
		out = append(out, *user)
	}
	return out, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func newTestService() (*Service, *fakeUserRepo) {
	repo := newFakeUserRepo()
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	return NewService(repo, jwtSvc, nil), repo
}

func registerRequest() *model.RegisterRequest {
	return &model.RegisterRequest{
		Email:    "alice@example.com",
		FullName: "Alice Example",
		Password: "supersecret1",
	}
}

func TestRegisterForcesCustomerRole(t *testing.T) {
	svc, _ := newTestService()

	user, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	assert.Equal(t, model.RoleCustomer, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, uuid.Nil, user.ID)

	// Stored hash verifies against the original password.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("supersecret1")))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerRequest())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestLoginIssuesToken(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	tokens, err := svc.Login(context.Background(), "alice@example.com", "supersecret1")
	require.NoError(t, err)
	assert.Equal(t, "bearer", tokens.TokenType)
	assert.NotEmpty(t, tokens.AccessToken)
	require.NotNil(t, tokens.User)

	identity, err := svc.ValidateToken(context.Background(), tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tokens.User.ID, identity.UserID)
	assert.Equal(t, model.RoleCustomer, identity.Role)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, wrongPassword := svc.Login(context.Background(), "alice@example.com", "not-the-password")
	_, unknownEmail := svc.Login(context.Background(), "nobody@example.com", "supersecret1")

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.True(t, apperrors.Is(wrongPassword, apperrors.ErrUnauthorized))
	assert.True(t, apperrors.Is(unknownEmail, apperrors.ErrUnauthorized))
}

func TestLoginRejectsDeactivatedAccount(t *testing.T) {
	svc, repo := newTestService()

	user, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	stored := repo.users[user.ID]
	stored.IsActive = false

	_, err = svc.Login(context.Background(), "alice@example.com", "supersecret1")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ValidateToken(context.Background(), "not-a-token")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}

func TestUpdateProfileIgnoresRoleChanges(t *testing.T) {
	svc, _ := newTestService()

	user, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	newName := "Alice Updated"
	adminRole := model.RoleAdmin
	updated, err := svc.UpdateProfile(context.Background(), user.ID, &model.UpdateUserRequest{
		FullName: &newName,
		Role:     &adminRole,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Updated", updated.FullName)
	assert.Equal(t, model.RoleCustomer, updated.Role)
}

func TestDeleteAccount(t *testing.T) {
	svc, _ := newTestService()

	user, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(context.Background(), user.ID))

	err = svc.DeleteAccount(context.Background(), user.ID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}
