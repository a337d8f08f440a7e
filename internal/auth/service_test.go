package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/chatline/chatline-server/internal/store/sqlite"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	tokenConfig := &TokenConfig{
		Secret: []byte("test-secret-change-me"),
		Issuer: "test",
	}

	return NewService(st, NewRegistry(), tokenConfig)
}

func TestRegister_RejectsEmptyCredentials(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name            string
		login, password string
	}{
		{"empty login", "", "pw"},
		{"whitespace login", "   ", "pw"},
		{"empty password", "alice", ""},
		{"whitespace password", "alice", "   "},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := svc.Register(ctx, tc.login, tc.password); !errors.Is(err, ErrEmptyCredentials) {
				t.Fatalf("expected ErrEmptyCredentials, got %v", err)
			}
		})
	}

	// Nothing should have been created.
	if _, err := svc.Login(ctx, "alice", "pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for never-registered user, got %v", err)
	}
}

func TestRegister_RejectsDuplicateLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Register(ctx, "alice", "pw"); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if err := svc.Register(ctx, "alice", "other"); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	// The original account is intact and usable.
	if _, err := svc.Login(ctx, "alice", "pw"); err != nil {
		t.Fatalf("login after duplicate attempt failed: %v", err)
	}
}

func TestLogin_MintsRegistryBackedCredential(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Register(ctx, "alice", "pw"); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	token, err := svc.Login(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if !svc.registry.Contains(token) {
		t.Fatal("minted token is not in the registry")
	}

	identity, err := svc.Authorize(token)
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}
	if identity.Login != "alice" || identity.UserID == 0 {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestLogin_BadCredentialsMintNothing(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Register(ctx, "alice", "pw"); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	if _, err := svc.Login(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody", "pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if n := svc.registry.Len(); n != 0 {
		t.Fatalf("expected empty registry, got %d entries", n)
	}
}

func TestLogin_MatchesLoginExactly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Register(ctx, "alice", "pw"); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	// Registration trims, login does not: a padded login is a miss.
	if _, err := svc.Login(ctx, " alice ", "pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for padded login, got %v", err)
	}
	if _, err := svc.Login(ctx, "alice", "pw"); err != nil {
		t.Fatalf("exact login failed: %v", err)
	}
}

func TestAuthorize_MembershipIsSourceOfTruth(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Authorize(""); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for empty token, got %v", err)
	}
	if _, err := svc.Authorize("garbage"); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for unknown token, got %v", err)
	}

	// A well-formed credential that was never minted by this process
	// must be rejected: registry membership, not decodability, decides.
	forged, err := EncodeToken(svc.tokenConfig, Identity{UserID: 42, Login: "mallory"})
	if err != nil {
		t.Fatalf("encode forged token: %v", err)
	}
	if _, err := svc.Authorize(forged); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for unregistered token, got %v", err)
	}
}
