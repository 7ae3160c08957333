package users

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"xpom-logistics/internal/models"
)

// OrderClaimer links guest orders to a freshly registered account. The
// orders module implements it.
type OrderClaimer interface {
	ClaimForCustomer(ctx context.Context, customerID int64, phone string) (int64, error)
}

// ServiceInterface defines the contract for the user service.
type ServiceInterface interface {
	Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	GetProfile(ctx context.Context, userID int64) (*models.User, error)
}

type Service struct {
	repo      RepositoryInterface
	orders    OrderClaimer
	jwtSecret string
}

func NewService(repo RepositoryInterface, orders OrderClaimer, jwtSecret string) *Service {
	return &Service{repo: repo, orders: orders, jwtSecret: jwtSecret}
}

// Signup registers an employee account and logs it in. Guest orders placed
// earlier with the same phone number are attached to the new account.
func (s *Service) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("service.Signup: %w", err)
	}

	user, err := s.repo.Create(ctx, req, string(hash))
	if err != nil {
		return nil, err
	}

	if s.orders != nil {
		claimed, err := s.orders.ClaimForCustomer(ctx, user.ID, user.Phone)
		if err != nil {
			log.Printf("Failed to claim guest orders for user %d: %v", user.ID, err)
		} else if claimed > 0 {
			log.Printf("Attached %d guest orders to user %d", claimed, user.ID)
		}
	}

	return s.generateAuthResponse(user)
}

// Login verifies credentials and issues a JWT.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("service.Login: %w", err)
	}
	if !user.IsActive {
		return nil, models.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, models.ErrInvalidCredentials
	}

	return s.generateAuthResponse(user)
}

func (s *Service) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *Service) generateAuthResponse(user *models.User) (*models.AuthResponse, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(72 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	user.PasswordHash = ""

	return &models.AuthResponse{
		AccessToken: signed,
		User:        user,
	}, nil
}
