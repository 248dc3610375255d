package service

import (
	"context"
	"testing"

	"salesdesk-backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	m := make(map[uuid.UUID]*model.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserRepo{users: m}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = uuid.New()
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	u, ok := f.users[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) List(_ context.Context, page, limit int) ([]model.User, int64, error) {
	out := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return gorm.ErrRecordNotFound
	}
	delete(f.users, parsed)
	return nil
}

func seedUser(t *testing.T, repo *fakeUserRepo, username, password, role string, active bool) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := &model.User{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
		Role:     role,
		IsActive: active,
	}
	repo.users[user.ID] = user
	return user
}

func TestLoginIssuesToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "default_super_secret_key")

	repo := newFakeUserRepo()
	user := seedUser(t, repo, "alice", "secret123", model.RoleAdmin, true)
	svc := NewUserService(repo, &fakeAuditRepo{})

	res, err := svc.Login(context.Background(), LoginUserRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	require.Equal(t, "alice", res.User.Username)

	token, err := jwt.Parse(res.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("default_super_secret_key"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	require.Equal(t, user.ID.String(), claims["sub"])
	require.Equal(t, model.RoleAdmin, claims["role"])
}

func TestLoginRejectsBadPassword(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "alice", "secret123", model.RoleAdmin, true)
	svc := NewUserService(repo, &fakeAuditRepo{})

	_, err := svc.Login(context.Background(), LoginUserRequest{Username: "alice", Password: "wrong"})
	require.Error(t, err)
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "bob", "secret123", model.RoleEmployee, false)
	svc := NewUserService(repo, &fakeAuditRepo{})

	_, err := svc.Login(context.Background(), LoginUserRequest{Username: "bob", Password: "secret123"})
	require.Error(t, err)
}

func TestCreateUserHashesPasswordAndAudits(t *testing.T) {
	repo := newFakeUserRepo()
	audit := &fakeAuditRepo{}
	svc := NewUserService(repo, audit)

	res, err := svc.CreateUser(context.Background(), "", CreateUserRequest{
		Username: "carol",
		Email:    "carol@example.com",
		Password: "secret123",
		Role:     model.RoleEmployee,
	})
	require.NoError(t, err)
	require.Equal(t, model.RoleEmployee, res.Role)
	require.True(t, res.IsActive)

	stored, err := repo.GetByUsername(context.Background(), "carol")
	require.NoError(t, err)
	require.NotEqual(t, "secret123", stored.Password)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")))

	require.Len(t, audit.entries, 1)
	require.Equal(t, model.ActionCreateUser, audit.entries[0].Action)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "carol", "secret123", model.RoleEmployee, true)
	svc := NewUserService(repo, &fakeAuditRepo{})

	_, err := svc.CreateUser(context.Background(), "", CreateUserRequest{
		Username: "carol",
		Email:    "other@example.com",
		Password: "secret123",
		Role:     model.RoleEmployee,
	})
	require.ErrorIs(t, err, ErrConflict)
}

func TestUpdateUserTogglesActive(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo, "dave", "secret123", model.RoleEmployee, true)
	svc := NewUserService(repo, &fakeAuditRepo{})

	inactive := false
	res, err := svc.UpdateUser(context.Background(), "", user.ID.String(), UpdateUserRequest{IsActive: &inactive})
	require.NoError(t, err)
	require.False(t, res.IsActive)
}

func TestGetUserByIDNotFound(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), &fakeAuditRepo{})

	_, err := svc.GetUserByID(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, ErrNotFound)
}
