package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/fakasys/fakachat-server/internal/core"
	"github.com/fakasys/fakachat-server/internal/store"
)

var (
	// ErrInvalidCredentials is returned when username/password don't match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserExists is returned when trying to register with existing username.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidUsername is returned when username doesn't meet constraints.
	ErrInvalidUsername = errors.New("invalid username")
	// ErrInvalidPassword is returned when password doesn't meet constraints.
	ErrInvalidPassword = errors.New("invalid password")
)

// Service provides authentication operations.
type Service struct {
	store     store.UserStore
	jwtConfig *JWTConfig

	// ownerUsername receives the Developer and Owner roles at signup.
	ownerUsername string
}

// NewService creates a new authentication service.
func NewService(userStore store.UserStore, jwtConfig *JWTConfig, ownerUsername string) *Service {
	return &Service{
		store:         userStore,
		jwtConfig:     jwtConfig,
		ownerUsername: ownerUsername,
	}
}

// Register creates a new user with hashed password and returns a JWT token.
func (s *Service) Register(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > 32 {
		return "", ErrInvalidUsername
	}
	if len(password) < 6 {
		return "", ErrInvalidPassword
	}

	existing, err := s.store.GetUserByUsername(ctx, username)
	if err == nil && existing != nil {
		return "", ErrUserExists
	}

	hashedPassword, err := HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	discriminator, err := generateDiscriminator()
	if err != nil {
		return "", fmt.Errorf("generate discriminator: %w", err)
	}

	roles := []string{core.RoleUser}
	if username == s.ownerUsername {
		roles = []string{core.RoleDeveloper, core.RoleOwner}
	}

	user, err := s.store.CreateUser(ctx, username, hashedPassword, discriminator, roles)
	if err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}

	token, err := GenerateToken(s.jwtConfig, user.Username)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return token, nil
}

// Login validates credentials, marks the user online, and returns a JWT token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if errPwd := ComparePassword(user.PasswordHash, password); errPwd != nil {
		return "", ErrInvalidCredentials
	}

	if err := s.store.UpdateStatus(ctx, username, store.StatusOnline, time.Now()); err != nil {
		return "", fmt.Errorf("update status: %w", err)
	}

	token, err := GenerateToken(s.jwtConfig, user.Username)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return token, nil
}

// Logout marks the user offline and records last-seen.
func (s *Service) Logout(ctx context.Context, username string) error {
	if err := s.store.UpdateStatus(ctx, username, store.StatusOffline, time.Now()); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return nil
}

// ValidateToken validates a JWT token and returns the claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	return ValidateToken(s.jwtConfig, tokenString)
}

// generateDiscriminator returns a random 4-digit tag, zero-padded.
func generateDiscriminator() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}
