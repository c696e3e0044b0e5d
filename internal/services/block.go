package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/friendfeed/internal/models"
)

type BlockService struct {
	db DB
}

func NewBlockService(db DB) *BlockService {
	return &BlockService{db: db}
}

// Block records that blockerID blocks blockedID and removes any relationship
// between the two in the same transaction.
func (s *BlockService) Block(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	if blockerID == blockedID {
		return ErrCannotBlockSelf
	}

	return withTx(ctx, s.db, func(tx Tx) error {
		if _, _, err := lockUserPair(ctx, tx, blockerID, blockedID); err != nil {
			return err
		}

		result, err := tx.Exec(ctx,
			`INSERT INTO user_blocks (blocker_id, blocked_id)
			 VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			blockerID, blockedID,
		)
		if err != nil {
			return fmt.Errorf("insert block: %w", err)
		}
		if result.RowsAffected() == 0 {
			return ErrBlockExists
		}

		_, err = tx.Exec(ctx,
			`DELETE FROM relationships
			 WHERE (requester_id = $1 AND addressee_id = $2)
			    OR (requester_id = $2 AND addressee_id = $1)`,
			blockerID, blockedID,
		)
		if err != nil {
			return fmt.Errorf("remove relationships: %w", err)
		}
		return nil
	})
}

func (s *BlockService) Unblock(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	result, err := s.db.Exec(ctx,
		"DELETE FROM user_blocks WHERE blocker_id = $1 AND blocked_id = $2",
		blockerID, blockedID,
	)
	if err != nil {
		return fmt.Errorf("delete block: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrBlockNotFound
	}
	return nil
}

func (s *BlockService) IsBlocked(ctx context.Context, userID, otherUserID uuid.UUID) (bool, error) {
	return pairBlocked(ctx, s.db, userID, otherUserID)
}

func (s *BlockService) ListBlocked(ctx context.Context, blockerID uuid.UUID) ([]models.BlockedUser, error) {
	rows, err := s.db.Query(ctx,
		`SELECT u.id, u.username, ub.created_at
		 FROM user_blocks ub
		 JOIN users u ON ub.blocked_id = u.id
		 WHERE ub.blocker_id = $1
		 ORDER BY u.username`,
		blockerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list blocked users: %w", err)
	}
	defer rows.Close()

	var blocked []models.BlockedUser
	for rows.Next() {
		var u models.BlockedUser
		if err := rows.Scan(&u.ID, &u.Username, &u.BlockedAt); err != nil {
			return nil, fmt.Errorf("scan blocked user: %w", err)
		}
		blocked = append(blocked, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list blocked users: %w", err)
	}
	if blocked == nil {
		blocked = []models.BlockedUser{}
	}
	return blocked, nil
}
