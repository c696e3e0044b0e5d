package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/friendfeed/internal/models"
)

type fakeRedis struct {
	values    map[string]any
	ttls      map[string]time.Duration
	existsErr error
	setErr    error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]any{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.values[key] = value
	f.ttls[key] = expiration
	return nil
}

func (f *fakeRedis) Exists(ctx context.Context, key string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.values[key]
	return ok, nil
}

type userLookupFunc func(ctx context.Context, id uuid.UUID) (*models.User, error)

func (f userLookupFunc) GetActive(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return f(ctx, id)
}

func activeUsers() UserLookup {
	return userLookupFunc(func(ctx context.Context, id uuid.UUID) (*models.User, error) {
		return &models.User{ID: id, IsActive: true}, nil
	})
}

func TestAuthService_HashAndVerify(t *testing.T) {
	svc := NewAuthService(activeUsers(), newFakeRedis(), "secret", time.Minute)
	hash, err := svc.HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !svc.VerifyPassword(hash, "correct horse") {
		t.Fatal("expected password to verify")
	}
	if svc.VerifyPassword(hash, "wrong") {
		t.Fatal("expected wrong password to fail")
	}
}

func TestAuthService_IssueAndValidate(t *testing.T) {
	svc := NewAuthService(activeUsers(), newFakeRedis(), "secret", 30*time.Minute)
	userID := uuid.New()

	token, expiresAt, err := svc.IssueToken(userID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(expiresAt) > 30*time.Minute || time.Until(expiresAt) < 29*time.Minute {
		t.Fatalf("unexpected expiry %v", expiresAt)
	}

	user, err := svc.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if user.ID != userID {
		t.Fatalf("expected user %s, got %s", userID, user.ID)
	}
}

func TestAuthService_ValidateRejectsBadTokens(t *testing.T) {
	svc := NewAuthService(activeUsers(), newFakeRedis(), "secret", time.Minute)
	other := NewAuthService(activeUsers(), newFakeRedis(), "other-secret", time.Minute)
	foreign, _, _ := other.IssueToken(uuid.New())

	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": foreign,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.ValidateToken(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestAuthService_ValidateExpired(t *testing.T) {
	svc := NewAuthService(activeUsers(), newFakeRedis(), "secret", time.Minute)
	token, _, err := svc.IssueToken(uuid.New())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	orig := timeNow
	timeNow = func() time.Time { return orig().Add(2 * time.Minute) }
	t.Cleanup(func() { timeNow = orig })

	if _, err := svc.ValidateToken(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestAuthService_Revoke(t *testing.T) {
	redis := newFakeRedis()
	svc := NewAuthService(activeUsers(), redis, "secret", time.Minute)
	token, _, _ := svc.IssueToken(uuid.New())
	ctx := context.Background()

	if err := svc.RevokeToken(ctx, token); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if len(redis.values) != 1 {
		t.Fatalf("expected one revocation entry, got %d", len(redis.values))
	}
	for key, ttl := range redis.ttls {
		if ttl <= 0 || ttl > time.Minute {
			t.Fatalf("unexpected ttl %v for %s", ttl, key)
		}
	}
	if _, err := svc.ValidateToken(ctx, token); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}
}

func TestAuthService_ValidateRedisError(t *testing.T) {
	redis := newFakeRedis()
	redis.existsErr = errors.New("redis down")
	svc := NewAuthService(activeUsers(), redis, "secret", time.Minute)
	token, _, _ := svc.IssueToken(uuid.New())

	if _, err := svc.ValidateToken(context.Background(), token); err == nil {
		t.Fatal("expected error when revocation list is unreachable")
	}
}

func TestAuthService_ValidateInactiveUser(t *testing.T) {
	users := userLookupFunc(func(ctx context.Context, id uuid.UUID) (*models.User, error) {
		return nil, ErrUserNotFound
	})
	svc := NewAuthService(users, newFakeRedis(), "secret", time.Minute)
	token, _, _ := svc.IssueToken(uuid.New())

	if _, err := svc.ValidateToken(context.Background(), token); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
