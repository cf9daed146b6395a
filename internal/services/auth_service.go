package services

import (
	"context"
	"strings"
	"time"

	"github.com/mroshb/roommatch/internal/models"
	"github.com/mroshb/roommatch/internal/security"
	"github.com/mroshb/roommatch/pkg/errors"
	"github.com/mroshb/roommatch/pkg/logger"
)

const (
	linkCodeLength = 8
	linkCodeTTL    = 10 * time.Minute
)

type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// AuthResult is a freshly authenticated user with its access token
type AuthResult struct {
	Token string
	User  *models.User
}

type AuthService struct {
	users     UserStore
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAuthService(users UserStore, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// Register creates an account and signs the new user in
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	required := []struct {
		field string
		value string
	}{
		{"email", in.Email},
		{"password", in.Password},
		{"first_name", in.FirstName},
		{"last_name", in.LastName},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, errors.New(errors.ErrCodeValidation, r.field+" is required")
		}
	}

	email := models.NormalizeEmail(in.Email)
	if !security.ValidateEmail(email) {
		return nil, errors.New(errors.ErrCodeValidation, "invalid email address")
	}
	if len(in.Password) < security.MinPasswordLength {
		return nil, errors.New(errors.ErrCodeValidation, "password must be at least 8 characters")
	}
	if in.Phone != "" && !security.ValidatePhoneNumber(in.Phone) {
		return nil, errors.New(errors.ErrCodeValidation, "invalid phone number")
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to hash password")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    security.SanitizeText(in.FirstName, 50),
		LastName:     security.SanitizeText(in.LastName, 50),
		Phone:        strings.TrimSpace(in.Phone),
	}
	if user.FirstName == "" || user.LastName == "" {
		return nil, errors.New(errors.ErrCodeValidation, "first_name and last_name must contain text")
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.IsCode(err, errors.ErrCodeAlreadyExists) {
			return nil, errors.New(errors.ErrCodeAlreadyExists, "User already exists")
		}
		return nil, err
	}

	logger.Info("User registered", "user_id", user.ID)
	return s.issue(user)
}

// Login checks the credentials and returns a new access token
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, errors.New(errors.ErrCodeValidation, "Email and password are required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.IsCode(err, errors.ErrCodeNotFound) {
		return nil, errors.New(errors.ErrCodeUnauthorized, "Invalid credentials")
	}
	if err != nil {
		return nil, err
	}

	if !security.CheckPassword(user.PasswordHash, password) {
		logger.Warn("Failed login attempt", "user_id", user.ID)
		return nil, errors.New(errors.ErrCodeUnauthorized, "Invalid credentials")
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := security.GenerateJWT(user.ID, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to issue token")
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Authenticate resolves an access token to the user id it was issued for
func (s *AuthService) Authenticate(token string) (uint, error) {
	claims, err := security.ValidateJWT(token, s.jwtSecret)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeUnauthorized, "invalid or expired token")
	}
	return claims.UserID, nil
}

// IssueTelegramLinkCode creates a short-lived code the user sends to the
// bot to bind their Telegram account
func (s *AuthService) IssueTelegramLinkCode(ctx context.Context, userID uint) (string, time.Time, error) {
	code, err := security.GenerateSecureCode(linkCodeLength)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, errors.ErrCodeInternalError, "failed to generate link code")
	}

	expiresAt := s.now().Add(linkCodeTTL)
	if err := s.users.SetTelegramLinkCode(ctx, userID, code, expiresAt); err != nil {
		return "", time.Time{}, err
	}

	return code, expiresAt, nil
}

// LinkTelegram binds telegramID to the account that issued code
func (s *AuthService) LinkTelegram(ctx context.Context, code string, telegramID int64) (*models.User, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != linkCodeLength {
		return nil, errors.New(errors.ErrCodeValidation, "link code must be 8 characters")
	}

	user, err := s.users.LinkTelegram(ctx, code, telegramID, s.now())
	if err != nil {
		return nil, err
	}

	logger.Info("Telegram account linked", "user_id", user.ID, "telegram_id", telegramID)
	return user, nil
}

// UserByTelegramID returns the account bound to a Telegram user
func (s *AuthService) UserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	return s.users.GetUserByTelegramID(ctx, telegramID)
}
