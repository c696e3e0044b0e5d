package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/HammerMeetNail/friendfeed/internal/models"
)

// relationshipPairConstraint is the unique index over the unordered user pair.
const relationshipPairConstraint = "relationships_pair_key"

const relationshipColumns = `id, requester_id, addressee_id, status, created_at, updated_at`

type RelationshipService struct {
	db     DB
	events EventPublisher
}

func NewRelationshipService(db DB, events EventPublisher) *RelationshipService {
	if events == nil {
		events = NopPublisher{}
	}
	return &RelationshipService{db: db, events: events}
}

// RequestRelationship creates a pending relationship from requester to addressee.
//
// The check for an existing record and the insert happen in one transaction
// holding row locks on both users, so concurrent requests for the same pair
// (from either direction) cannot both succeed. The pair unique index backs
// this up at the storage level.
func (s *RelationshipService) RequestRelationship(ctx context.Context, requesterID, addresseeID uuid.UUID) (*models.Relationship, error) {
	if requesterID == addresseeID {
		return nil, ErrCannotRelateSelf
	}

	var created *models.Relationship
	err := withTx(ctx, s.db, func(tx Tx) error {
		_, addressee, err := lockUserPair(ctx, tx, requesterID, addresseeID)
		if err != nil {
			return err
		}
		if !addressee.IsActive {
			return ErrUserNotFound
		}

		blocked, err := pairBlocked(ctx, tx, requesterID, addresseeID)
		if err != nil {
			return err
		}
		if blocked {
			return ErrUserBlocked
		}

		existing, err := relationshipBetween(ctx, tx, requesterID, addresseeID)
		if err == nil {
			return conflictFor(requesterID, existing)
		}
		if !errors.Is(err, ErrRelationshipNotFound) {
			return err
		}

		rel := &models.Relationship{}
		err = tx.QueryRow(ctx,
			`INSERT INTO relationships (requester_id, addressee_id, status)
			 VALUES ($1, $2, 'pending')
			 RETURNING `+relationshipColumns,
			requesterID, addresseeID,
		).Scan(&rel.ID, &rel.RequesterID, &rel.AddresseeID, &rel.Status, &rel.CreatedAt, &rel.UpdatedAt)
		if isUniqueViolation(err, relationshipPairConstraint) {
			return ErrRelationshipExists
		}
		if err != nil {
			return fmt.Errorf("creating relationship: %w", err)
		}
		created = rel
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, models.RelationshipEventRequested, created, requesterID)
	return created, nil
}

// AcceptRelationship moves a pending request addressed to addresseeID into the
// accepted state. Anything else, including the requester trying to accept their
// own request, is reported as ErrRelationshipNotFound.
func (s *RelationshipService) AcceptRelationship(ctx context.Context, addresseeID, relationshipID uuid.UUID) (*models.Relationship, error) {
	rel := &models.Relationship{}
	err := s.db.QueryRow(ctx,
		`UPDATE relationships
		 SET status = 'accepted', updated_at = NOW()
		 WHERE id = $1 AND addressee_id = $2 AND status = 'pending'
		 RETURNING `+relationshipColumns,
		relationshipID, addresseeID,
	).Scan(&rel.ID, &rel.RequesterID, &rel.AddresseeID, &rel.Status, &rel.CreatedAt, &rel.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRelationshipNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("accepting relationship: %w", err)
	}

	s.publish(ctx, models.RelationshipEventAccepted, rel, addresseeID)
	return rel, nil
}

// RejectRelationship deletes a pending request addressed to addresseeID.
// No record of the rejection is kept, so the requester may ask again.
func (s *RelationshipService) RejectRelationship(ctx context.Context, addresseeID, relationshipID uuid.UUID) error {
	rel, err := s.deleteWhere(ctx,
		`DELETE FROM relationships
		 WHERE id = $1 AND addressee_id = $2 AND status = 'pending'
		 RETURNING `+relationshipColumns,
		relationshipID, addresseeID,
	)
	if err != nil {
		return fmt.Errorf("rejecting relationship: %w", err)
	}

	rel.Status = models.RelationshipStatusRejected
	s.publish(ctx, models.RelationshipEventRejected, rel, addresseeID)
	return nil
}

// CancelRequest lets the requester withdraw a pending request.
func (s *RelationshipService) CancelRequest(ctx context.Context, requesterID, relationshipID uuid.UUID) error {
	rel, err := s.deleteWhere(ctx,
		`DELETE FROM relationships
		 WHERE id = $1 AND requester_id = $2 AND status = 'pending'
		 RETURNING `+relationshipColumns,
		relationshipID, requesterID,
	)
	if err != nil {
		return fmt.Errorf("canceling relationship: %w", err)
	}

	s.publish(ctx, models.RelationshipEventCanceled, rel, requesterID)
	return nil
}

// RemoveRelationship deletes a relationship of any status. Either party may remove it.
func (s *RelationshipService) RemoveRelationship(ctx context.Context, userID, relationshipID uuid.UUID) error {
	rel, err := s.deleteWhere(ctx,
		`DELETE FROM relationships
		 WHERE id = $1 AND (requester_id = $2 OR addressee_id = $2)
		 RETURNING `+relationshipColumns,
		relationshipID, userID,
	)
	if err != nil {
		return fmt.Errorf("removing relationship: %w", err)
	}

	s.publish(ctx, models.RelationshipEventRemoved, rel, userID)
	return nil
}

func (s *RelationshipService) deleteWhere(ctx context.Context, sql string, args ...any) (*models.Relationship, error) {
	rel := &models.Relationship{}
	err := s.db.QueryRow(ctx, sql, args...).
		Scan(&rel.ID, &rel.RequesterID, &rel.AddresseeID, &rel.Status, &rel.CreatedAt, &rel.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRelationshipNotFound
	}
	if err != nil {
		return nil, err
	}
	return rel, nil
}

// ListPending returns requests waiting for userID to answer, oldest first.
func (s *RelationshipService) ListPending(ctx context.Context, userID uuid.UUID) ([]models.RelationshipWithUser, error) {
	return s.listWithUser(ctx, "listing pending requests",
		`SELECT r.id, r.requester_id, r.addressee_id, r.status, r.created_at, r.updated_at, u.username
		 FROM relationships r
		 JOIN users u ON u.id = r.requester_id
		 WHERE r.addressee_id = $1 AND r.status = 'pending'
		 ORDER BY r.created_at ASC, r.id ASC`,
		userID,
	)
}

// ListSent returns requests userID has sent that are still pending, oldest first.
func (s *RelationshipService) ListSent(ctx context.Context, userID uuid.UUID) ([]models.RelationshipWithUser, error) {
	return s.listWithUser(ctx, "listing sent requests",
		`SELECT r.id, r.requester_id, r.addressee_id, r.status, r.created_at, r.updated_at, u.username
		 FROM relationships r
		 JOIN users u ON u.id = r.addressee_id
		 WHERE r.requester_id = $1 AND r.status = 'pending'
		 ORDER BY r.created_at ASC, r.id ASC`,
		userID,
	)
}

// ListAccepted returns accepted relationships where userID is on either side.
func (s *RelationshipService) ListAccepted(ctx context.Context, userID uuid.UUID) ([]models.RelationshipWithUser, error) {
	return s.listWithUser(ctx, "listing accepted relationships",
		`SELECT r.id, r.requester_id, r.addressee_id, r.status, r.created_at, r.updated_at, u.username
		 FROM relationships r
		 JOIN users u ON u.id = CASE WHEN r.requester_id = $1 THEN r.addressee_id ELSE r.requester_id END
		 WHERE (r.requester_id = $1 OR r.addressee_id = $1) AND r.status = 'accepted'
		 ORDER BY r.created_at ASC, r.id ASC`,
		userID,
	)
}

func (s *RelationshipService) listWithUser(ctx context.Context, op, sql string, userID uuid.UUID) ([]models.RelationshipWithUser, error) {
	rows, err := s.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []models.RelationshipWithUser
	for rows.Next() {
		var r models.RelationshipWithUser
		if err := rows.Scan(&r.ID, &r.RequesterID, &r.AddresseeID, &r.Status, &r.CreatedAt, &r.UpdatedAt, &r.OtherUsername); err != nil {
			return nil, fmt.Errorf("scanning relationship: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if out == nil {
		out = []models.RelationshipWithUser{}
	}
	return out, nil
}

// PeerSet returns the users with an accepted relationship to userID, in either
// direction. It is computed from current state on every call.
func (s *RelationshipService) PeerSet(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	accepted, err := s.ListAccepted(ctx, userID)
	if err != nil {
		return nil, err
	}

	peers := make([]uuid.UUID, 0, len(accepted))
	for i := range accepted {
		peers = append(peers, accepted[i].OtherID(userID))
	}
	return peers, nil
}

// AreRelated reports whether any relationship, of any status, exists between a and b.
func (s *RelationshipService) AreRelated(ctx context.Context, a, b uuid.UUID) (bool, error) {
	if a == b {
		return false, nil
	}

	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM relationships
			WHERE (requester_id = $1 AND addressee_id = $2)
			   OR (requester_id = $2 AND addressee_id = $1)
		)`,
		a, b,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking relationship existence: %w", err)
	}
	return exists, nil
}

// AreFriends reports whether an accepted relationship exists between a and b.
func (s *RelationshipService) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	if a == b {
		return false, nil
	}

	var friends bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM relationships
			WHERE ((requester_id = $1 AND addressee_id = $2) OR (requester_id = $2 AND addressee_id = $1))
			  AND status = 'accepted'
		)`,
		a, b,
	).Scan(&friends)
	if err != nil {
		return false, fmt.Errorf("checking friendship: %w", err)
	}
	return friends, nil
}

// Between returns the relationship between a and b regardless of direction.
func (s *RelationshipService) Between(ctx context.Context, a, b uuid.UUID) (*models.Relationship, error) {
	if a == b {
		return nil, ErrRelationshipNotFound
	}
	return relationshipBetween(ctx, s.db, a, b)
}

// Counts returns relationship totals for userID.
func (s *RelationshipService) Counts(ctx context.Context, userID uuid.UUID) (*models.RelationshipCounts, error) {
	counts := &models.RelationshipCounts{}
	err := s.db.QueryRow(ctx,
		`SELECT
			COUNT(*) FILTER (WHERE status = 'accepted'),
			COUNT(*) FILTER (WHERE status = 'pending' AND addressee_id = $1),
			COUNT(*) FILTER (WHERE status = 'pending' AND requester_id = $1)
		 FROM relationships
		 WHERE requester_id = $1 OR addressee_id = $1`,
		userID,
	).Scan(&counts.Accepted, &counts.PendingIncoming, &counts.PendingOutgoing)
	if err != nil {
		return nil, fmt.Errorf("counting relationships: %w", err)
	}
	return counts, nil
}

func (s *RelationshipService) publish(ctx context.Context, eventType models.RelationshipEventType, rel *models.Relationship, actorID uuid.UUID) {
	event := models.RelationshipEvent{
		Type:           eventType,
		RelationshipID: rel.ID,
		RequesterID:    rel.RequesterID,
		AddresseeID:    rel.AddresseeID,
		ActorID:        actorID,
		OccurredAt:     timeNow().UTC(),
	}
	publishRelationshipEvent(ctx, s.events, event)
}

func relationshipBetween(ctx context.Context, q DBConn, a, b uuid.UUID) (*models.Relationship, error) {
	rel := &models.Relationship{}
	err := q.QueryRow(ctx,
		`SELECT `+relationshipColumns+`
		 FROM relationships
		 WHERE (requester_id = $1 AND addressee_id = $2)
		    OR (requester_id = $2 AND addressee_id = $1)`,
		a, b,
	).Scan(&rel.ID, &rel.RequesterID, &rel.AddresseeID, &rel.Status, &rel.CreatedAt, &rel.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRelationshipNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting relationship: %w", err)
	}
	return rel, nil
}

func pairBlocked(ctx context.Context, q DBConn, a, b uuid.UUID) (bool, error) {
	var blocked bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM user_blocks
			WHERE (blocker_id = $1 AND blocked_id = $2)
			   OR (blocker_id = $2 AND blocked_id = $1)
		)`,
		a, b,
	).Scan(&blocked)
	if err != nil {
		return false, fmt.Errorf("checking block status: %w", err)
	}
	return blocked, nil
}

func conflictFor(requesterID uuid.UUID, existing *models.Relationship) error {
	direction := ConflictIncoming
	if existing.RequesterID == requesterID {
		direction = ConflictOutgoing
	}
	return &RelationshipConflictError{Direction: direction, Existing: existing}
}
