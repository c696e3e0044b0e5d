package services

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/HammerMeetNail/friendfeed/internal/models"
)

// Error kinds. Every domain error unwraps to exactly one of these.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrConflict         = errors.New("conflict")
	ErrUnavailable      = errors.New("unavailable")
)

type kindError struct {
	kind error
	msg  string
}

func newKindError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

var (
	ErrUserNotFound         = newKindError(ErrNotFound, "user not found")
	ErrUserBlocked          = newKindError(ErrNotFound, "user is blocked")
	ErrRelationshipNotFound = newKindError(ErrNotFound, "relationship not found")
	ErrPostNotFound         = newKindError(ErrNotFound, "post not found")
	ErrBlockNotFound        = newKindError(ErrNotFound, "block not found")

	ErrCannotRelateSelf  = newKindError(ErrInvalidOperation, "cannot send a request to yourself")
	ErrCannotBlockSelf   = newKindError(ErrInvalidOperation, "cannot block yourself")
	ErrInvalidPagination = newKindError(ErrInvalidOperation, "invalid pagination parameters")
	ErrInvalidPost       = newKindError(ErrInvalidOperation, "invalid post")

	ErrRelationshipExists = newKindError(ErrConflict, "relationship already exists")
	ErrBlockExists        = newKindError(ErrConflict, "user is already blocked")
	ErrEmailAlreadyExists = newKindError(ErrConflict, "email already exists")
	ErrUsernameTaken      = newKindError(ErrConflict, "username already taken")
)

// ConflictDirection tells which side created the existing relationship.
type ConflictDirection string

const (
	// ConflictOutgoing means the caller already sent a request to the other user.
	ConflictOutgoing ConflictDirection = "outgoing"
	// ConflictIncoming means the other user already sent a request to the caller.
	ConflictIncoming ConflictDirection = "incoming"
)

// RelationshipConflictError is returned when a request is made for a pair that
// already has a relationship. It matches ErrRelationshipExists and ErrConflict.
type RelationshipConflictError struct {
	Direction ConflictDirection
	Existing  *models.Relationship
}

func (e *RelationshipConflictError) Error() string {
	return fmt.Sprintf("relationship already exists (%s, %s)", e.Direction, e.Existing.Status)
}

func (e *RelationshipConflictError) Unwrap() error { return ErrRelationshipExists }

// unavailable marks a collaborator failure.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}

// KindOf returns the name of the error kind, or "internal" for unclassified errors.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidOperation):
		return "invalid_operation"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	default:
		return "internal"
	}
}

const uniqueViolationCode = "23505"

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Code != uniqueViolationCode {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
