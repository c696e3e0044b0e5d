package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/HammerMeetNail/friendfeed/internal/models"
)

// lockUserPair takes row locks on both users in canonical order so that two
// transactions touching the same pair from opposite directions serialize.
// Both rows must exist; a missing row is reported as ErrUserNotFound.
func lockUserPair(ctx context.Context, q DBConn, userA, userB uuid.UUID) (first, second lockedUser, err error) {
	low, high := models.PairKey(userA, userB)

	lowUser, err := lockUser(ctx, q, low)
	if err != nil {
		return lockedUser{}, lockedUser{}, err
	}
	if low == high {
		return lowUser, lowUser, nil
	}
	highUser, err := lockUser(ctx, q, high)
	if err != nil {
		return lockedUser{}, lockedUser{}, err
	}

	if lowUser.ID == userA {
		return lowUser, highUser, nil
	}
	return highUser, lowUser, nil
}

type lockedUser struct {
	ID       uuid.UUID
	IsActive bool
}

func lockUser(ctx context.Context, q DBConn, userID uuid.UUID) (lockedUser, error) {
	var u lockedUser
	err := q.QueryRow(ctx,
		`SELECT id, is_active FROM users WHERE id = $1 FOR UPDATE`,
		userID,
	).Scan(&u.ID, &u.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return lockedUser{}, ErrUserNotFound
	}
	if err != nil {
		return lockedUser{}, fmt.Errorf("lock user: %w", err)
	}
	return u, nil
}
