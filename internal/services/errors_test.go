package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/HammerMeetNail/friendfeed/internal/models"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrUserNotFound, "not_found"},
		{ErrUserBlocked, "not_found"},
		{fmt.Errorf("rejecting: %w", ErrRelationshipNotFound), "not_found"},
		{ErrCannotRelateSelf, "invalid_operation"},
		{ErrInvalidPagination, "invalid_operation"},
		{&RelationshipConflictError{Direction: ConflictIncoming, Existing: &models.Relationship{}}, "conflict"},
		{ErrUsernameTaken, "conflict"},
		{unavailable("querying feed", errors.New("timeout")), "unavailable"},
		{errors.New("boom"), "internal"},
	}
	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestUnavailableKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := unavailable("resolving peers", cause)
	if !errors.Is(err, ErrUnavailable) || !errors.Is(err, cause) {
		t.Fatalf("expected both kind and cause, got %v", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "relationships_pair_key"}
	if !isUniqueViolation(fmt.Errorf("insert: %w", pgErr), "relationships_pair_key") {
		t.Fatal("expected wrapped unique violation to match")
	}
	if !isUniqueViolation(pgErr, "") {
		t.Fatal("expected any-constraint match")
	}
	if isUniqueViolation(pgErr, "users_email_key") {
		t.Fatal("expected constraint mismatch")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}, "") {
		t.Fatal("expected other codes to be ignored")
	}
	if isUniqueViolation(errors.New("plain"), "") {
		t.Fatal("expected plain errors to be ignored")
	}
}
