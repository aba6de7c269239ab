package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/Dan9191/finance-service/internal/config"
	"github.com/Dan9191/finance-service/internal/integrations/ecb"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/repository"
	"github.com/Dan9191/finance-service/internal/trading"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("user ID not found in context")
	ErrInvalidInput       = errors.New("invalid input")
)

const minPasswordLength = 8

// Store persists users and their financial documents
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	GetDocument(ctx context.Context, userID int64) (*models.FinancialData, error)
	UpdateDocument(ctx context.Context, userID int64, fn func(*models.FinancialData) (*models.FinancialData, error)) (*models.FinancialData, error)
}

// RateSource provides foreign exchange reference rates
type RateSource interface {
	Latest(ctx context.Context) (ecb.Rates, error)
}

// Service handles business logic
type Service struct {
	repo   Store
	rates  RateSource
	trades *trading.Processor
	log    *logrus.Logger
	config *config.Config
}

// NewService initializes a new service
func NewService(repo Store, rates RateSource, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{
		repo:   repo,
		rates:  rates,
		trades: trading.NewProcessor(log),
		log:    log,
		config: cfg,
	}
}

// Register creates a new user with hashed password
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email %q", ErrInvalidInput, email)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.config.TokenTTL)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

// userID reads the authenticated user's ID placed in the context by the auth middleware
func userID(ctx context.Context) (int64, error) {
	userIDStr, ok := ctx.Value(models.UserIDKey).(string)
	if !ok || userIDStr == "" {
		return 0, ErrUnauthorized
	}
	id, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid user ID %q", ErrUnauthorized, userIDStr)
	}
	return id, nil
}

// FXRates returns the latest reference exchange rates
func (s *Service) FXRates(ctx context.Context) (ecb.Rates, error) {
	rates, err := s.rates.Latest(ctx)
	if err != nil {
		return ecb.Rates{}, fmt.Errorf("failed to get exchange rates: %w", err)
	}
	return rates, nil
}
