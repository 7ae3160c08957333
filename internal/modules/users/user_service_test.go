package users

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"xpom-logistics/internal/models"
)

type fakeUserRepo struct {
	nextID int64
	users  map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: map[string]*models.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, req models.SignupRequest, passwordHash string) (*models.User, error) {
	if _, exists := f.users[req.Email]; exists {
		return nil, models.ErrConflict
	}
	u := &models.User{
		ID:           f.nextID,
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: passwordHash,
		Role:         models.RoleEmployee,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	f.nextID++
	f.users[u.Email] = u
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, userID int64) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == userID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type fakeClaimer struct {
	calls  int
	userID int64
	phone  string
}

func (f *fakeClaimer) ClaimForCustomer(ctx context.Context, customerID int64, phone string) (int64, error) {
	f.calls++
	f.userID = customerID
	f.phone = phone
	return 2, nil
}

const jwtSecret = "test-secret"

func signupReq() models.SignupRequest {
	return models.SignupRequest{
		FullName: "Мария Ким",
		Email:    "maria@example.kz",
		Phone:    "87017778899",
		Password: "secret123",
	}
}

func TestSignup_issuesTokenAndClaimsGuestOrders(t *testing.T) {
	repo := newFakeUserRepo()
	claimer := &fakeClaimer{}
	s := NewService(repo, claimer, jwtSecret)

	resp, err := s.Signup(context.Background(), signupReq())
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.Equal(t, models.RoleEmployee, resp.User.Role)
	require.Empty(t, resp.User.PasswordHash)

	require.Equal(t, 1, claimer.calls)
	require.Equal(t, resp.User.ID, claimer.userID)
	require.Equal(t, "87017778899", claimer.phone)

	// The stored hash must not be the plaintext password.
	stored := repo.users["maria@example.kz"]
	require.NotEqual(t, "secret123", stored.PasswordHash)
	require.True(t, strings.HasPrefix(stored.PasswordHash, "$2"))
}

func TestSignup_duplicateEmail(t *testing.T) {
	s := NewService(newFakeUserRepo(), nil, jwtSecret)

	_, err := s.Signup(context.Background(), signupReq())
	require.NoError(t, err)

	_, err = s.Signup(context.Background(), signupReq())
	require.ErrorIs(t, err, models.ErrConflict)
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	s := NewService(repo, nil, jwtSecret)

	_, err := s.Signup(context.Background(), signupReq())
	require.NoError(t, err)

	resp, err := s.Login(context.Background(), models.LoginRequest{
		Email:    "MARIA@example.kz", // normalized before lookup
		Password: "secret123",
	})
	require.NoError(t, err)

	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(resp.AccessToken, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(jwtSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	require.Equal(t, resp.User.ID, claims.UserID)
	require.Equal(t, "maria@example.kz", claims.Email)
	require.Equal(t, models.RoleEmployee, claims.Role)
	require.InDelta(t, time.Now().Add(72*time.Hour).Unix(), claims.ExpiresAt.Unix(), 60)
}

func TestLogin_badCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	s := NewService(repo, nil, jwtSecret)

	_, err := s.Signup(context.Background(), signupReq())
	require.NoError(t, err)

	_, err = s.Login(context.Background(), models.LoginRequest{Email: "maria@example.kz", Password: "wrong"})
	require.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = s.Login(context.Background(), models.LoginRequest{Email: "nobody@example.kz", Password: "secret123"})
	require.ErrorIs(t, err, models.ErrInvalidCredentials)

	repo.users["maria@example.kz"].IsActive = false
	_, err = s.Login(context.Background(), models.LoginRequest{Email: "maria@example.kz", Password: "secret123"})
	require.ErrorIs(t, err, models.ErrInvalidCredentials)
}
