package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hoaivu016/abc-backoffice/internal/models"
	"github.com/hoaivu016/abc-backoffice/internal/remote"
)

const minPasswordLength = 8

// ErrInvalidCredentials is returned for a wrong email or password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// UserRemote is the remote-store surface the auth service uses. Auth
// always goes to the remote store; there is no offline login.
type UserRemote interface {
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, u models.User) error
}

// AuthService issues and validates bearer tokens for back-office users.
type AuthService struct {
	users    UserRemote
	secret   []byte
	tokenTTL time.Duration
}

// NewAuthService constructs an AuthService signing tokens with secret.
func NewAuthService(users UserRemote, secret []byte, tokenTTL time.Duration) *AuthService {
	return &AuthService{users: users, secret: secret, tokenTTL: tokenTTL}
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	hasLetter, hasNumber := false, false
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			hasLetter = true
		case r >= '0' && r <= '9':
			hasNumber = true
		}
	}
	if !hasLetter || !hasNumber {
		return errors.New("password must contain at least one letter and one number")
	}
	return nil
}

// Register creates a user with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (models.User, error) {
	if email == "" {
		return models.User{}, errors.New("email is required")
	}
	if err := validatePassword(password); err != nil {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         "staff",
		Status:       "ACTIVE",
		UpdatedAt:    time.Now(),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// Login verifies credentials and returns a signed bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.UserByEmail(ctx, email)
	if errors.Is(err, remote.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"role":  u.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a bearer token and returns the user id.
func (s *AuthService) ParseToken(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.New("token has no subject")
	}
	return sub, nil
}
