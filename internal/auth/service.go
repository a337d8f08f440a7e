package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chatline/chatline-server/internal/store"
)

var (
	// ErrEmptyCredentials is returned when login or password is empty
	// or whitespace-only on registration.
	ErrEmptyCredentials = errors.New("empty username or password")
	// ErrUserExists is returned when trying to register an existing login.
	ErrUserExists = errors.New("username already exists")
	// ErrInvalidCredentials is returned when login/password don't match.
	ErrInvalidCredentials = errors.New("invalid login or password")
	// ErrNotAuthorized is returned when a presented credential is
	// missing, unknown to the registry, or undecodable.
	ErrNotAuthorized = errors.New("not authorized")
)

// Service provides account operations and the access-control gate.
type Service struct {
	store       store.UserStore
	registry    *Registry
	tokenConfig *TokenConfig
}

// NewService creates a new authentication service.
func NewService(userStore store.UserStore, registry *Registry, tokenConfig *TokenConfig) *Service {
	return &Service{
		store:       userStore,
		registry:    registry,
		tokenConfig: tokenConfig,
	}
}

// Register creates a new account with a hashed password. It does not
// mint a credential; the client logs in afterwards.
func (s *Service) Register(ctx context.Context, login, password string) error {
	login = strings.TrimSpace(login)
	if login == "" || strings.TrimSpace(password) == "" {
		return ErrEmptyCredentials
	}

	exists, err := s.store.UserExists(ctx, login)
	if err != nil {
		return fmt.Errorf("check user exists: %w", err)
	}
	if exists {
		return ErrUserExists
	}

	hashedPassword, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if _, err := s.store.CreateUser(ctx, login, hashedPassword); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// Login verifies credentials, mints a session credential, registers it
// and returns it. Unlike Register, the login is matched exactly as
// presented.
func (s *Service) Login(ctx context.Context, login, password string) (string, error) {
	user, err := s.store.GetUserByLogin(ctx, login)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if errPwd := ComparePassword(user.PasswordHash, password); errPwd != nil {
		return "", ErrInvalidCredentials
	}

	token, err := EncodeToken(s.tokenConfig, Identity{UserID: user.ID, Login: user.Login})
	if err != nil {
		return "", fmt.Errorf("encode token: %w", err)
	}

	s.registry.Add(token)
	return token, nil
}

// Authorize decides admission for a presented credential. Membership
// in the registry is the sole source of truth; the embedded identity
// is recovered only after that check passes.
func (s *Service) Authorize(token string) (*Identity, error) {
	if token == "" || !s.registry.Contains(token) {
		return nil, ErrNotAuthorized
	}

	identity, err := DecodeToken(s.tokenConfig, token)
	if err != nil {
		return nil, ErrNotAuthorized
	}

	return &identity, nil
}
