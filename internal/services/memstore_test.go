package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/HammerMeetNail/friendfeed/internal/models"
)

// memStore answers the relationship SQL issued by RelationshipService against
// in-memory tables. It is coarse: statements are recognised by fragments of
// their text, and a transaction is a snapshot restored on rollback.
type memStore struct {
	users  map[uuid.UUID]bool // id -> is_active
	rels   []*models.Relationship
	blocks map[[2]uuid.UUID]bool
	clock  time.Time

	snapshot []*models.Relationship
	inTx     bool
}

func newMemStore(users ...uuid.UUID) *memStore {
	s := &memStore{
		users:  map[uuid.UUID]bool{},
		blocks: map[[2]uuid.UUID]bool{},
		clock:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, id := range users {
		s.users[id] = true
	}
	return s
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) Begin(ctx context.Context) (Tx, error) {
	s.snapshot = make([]*models.Relationship, len(s.rels))
	for i, r := range s.rels {
		cp := *r
		s.snapshot[i] = &cp
	}
	s.inTx = true
	return &memTx{store: s}, nil
}

func (s *memStore) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return nil, fmt.Errorf("memStore: unexpected exec %q", sql)
}

func (s *memStore) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	userID := args[0].(uuid.UUID)
	var match func(r *models.Relationship) (bool, uuid.UUID)
	switch {
	case strings.Contains(sql, "r.addressee_id = $1 AND r.status = 'pending'"):
		match = func(r *models.Relationship) (bool, uuid.UUID) {
			return r.AddresseeID == userID && r.Status == models.RelationshipStatusPending, r.RequesterID
		}
	case strings.Contains(sql, "r.requester_id = $1 AND r.status = 'pending'"):
		match = func(r *models.Relationship) (bool, uuid.UUID) {
			return r.RequesterID == userID && r.Status == models.RelationshipStatusPending, r.AddresseeID
		}
	case strings.Contains(sql, "r.status = 'accepted'"):
		match = func(r *models.Relationship) (bool, uuid.UUID) {
			return r.Involves(userID) && r.Status == models.RelationshipStatusAccepted, r.OtherID(userID)
		}
	default:
		return nil, fmt.Errorf("memStore: unexpected query %q", sql)
	}

	rows := &fakeRows{}
	for _, r := range s.rels {
		if ok, other := match(r); ok {
			rows.rows = append(rows.rows, append(relValues(r), "user-"+other.String()[:8]))
		}
	}
	return rows, nil
}

func (s *memStore) QueryRow(ctx context.Context, sql string, args ...any) Row {
	switch {
	case strings.Contains(sql, "FROM users WHERE id = $1 FOR UPDATE"):
		id := args[0].(uuid.UUID)
		active, ok := s.users[id]
		if !ok {
			return errRow(pgx.ErrNoRows)
		}
		return rowFromValues(id, active)

	case strings.Contains(sql, "FROM user_blocks"):
		a, b := args[0].(uuid.UUID), args[1].(uuid.UUID)
		return rowFromValues(s.blocks[[2]uuid.UUID{a, b}] || s.blocks[[2]uuid.UUID{b, a}])

	case strings.HasPrefix(strings.TrimSpace(sql), "INSERT INTO relationships"):
		now := s.tick()
		r := &models.Relationship{
			ID:          uuid.New(),
			RequesterID: args[0].(uuid.UUID),
			AddresseeID: args[1].(uuid.UUID),
			Status:      models.RelationshipStatusPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		s.rels = append(s.rels, r)
		return rowFromValues(relValues(r)...)

	case strings.HasPrefix(strings.TrimSpace(sql), "UPDATE relationships"):
		id, addressee := args[0].(uuid.UUID), args[1].(uuid.UUID)
		for _, r := range s.rels {
			if r.ID == id && r.AddresseeID == addressee && r.Status == models.RelationshipStatusPending {
				r.Status = models.RelationshipStatusAccepted
				r.UpdatedAt = s.tick()
				return rowFromValues(relValues(r)...)
			}
		}
		return errRow(pgx.ErrNoRows)

	case strings.HasPrefix(strings.TrimSpace(sql), "DELETE FROM relationships"):
		id, caller := args[0].(uuid.UUID), args[1].(uuid.UUID)
		var match func(r *models.Relationship) bool
		switch {
		case strings.Contains(sql, "addressee_id = $2 AND status = 'pending'"):
			match = func(r *models.Relationship) bool {
				return r.AddresseeID == caller && r.Status == models.RelationshipStatusPending
			}
		case strings.Contains(sql, "requester_id = $2 AND status = 'pending'"):
			match = func(r *models.Relationship) bool {
				return r.RequesterID == caller && r.Status == models.RelationshipStatusPending
			}
		default:
			match = func(r *models.Relationship) bool { return r.Involves(caller) }
		}
		for i, r := range s.rels {
			if r.ID == id && match(r) {
				s.rels = append(s.rels[:i], s.rels[i+1:]...)
				return rowFromValues(relValues(r)...)
			}
		}
		return errRow(pgx.ErrNoRows)

	case strings.Contains(sql, "SELECT EXISTS") && strings.Contains(sql, "FROM relationships"):
		r := s.between(args[0].(uuid.UUID), args[1].(uuid.UUID))
		if strings.Contains(sql, "status = 'accepted'") {
			return rowFromValues(r != nil && r.Status == models.RelationshipStatusAccepted)
		}
		return rowFromValues(r != nil)

	case strings.Contains(sql, "COUNT(*) FILTER"):
		userID := args[0].(uuid.UUID)
		var accepted, incoming, outgoing int
		for _, r := range s.rels {
			switch {
			case !r.Involves(userID):
			case r.Status == models.RelationshipStatusAccepted:
				accepted++
			case r.AddresseeID == userID:
				incoming++
			default:
				outgoing++
			}
		}
		return rowFromValues(accepted, incoming, outgoing)

	case strings.Contains(sql, "FROM relationships"):
		r := s.between(args[0].(uuid.UUID), args[1].(uuid.UUID))
		if r == nil {
			return errRow(pgx.ErrNoRows)
		}
		return rowFromValues(relValues(r)...)
	}
	return errRow(fmt.Errorf("memStore: unexpected query row %q", sql))
}

func (s *memStore) between(a, b uuid.UUID) *models.Relationship {
	for _, r := range s.rels {
		if (r.RequesterID == a && r.AddresseeID == b) || (r.RequesterID == b && r.AddresseeID == a) {
			return r
		}
	}
	return nil
}

func (s *memStore) get(id uuid.UUID) *models.Relationship {
	for _, r := range s.rels {
		if r.ID == id {
			return r
		}
	}
	return nil
}

type memTx struct {
	store *memStore
}

func (t *memTx) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return t.store.Exec(ctx, sql, args...)
}

func (t *memTx) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return t.store.Query(ctx, sql, args...)
}

func (t *memTx) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return t.store.QueryRow(ctx, sql, args...)
}

func (t *memTx) Commit(ctx context.Context) error {
	t.store.inTx = false
	t.store.snapshot = nil
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	if t.store.inTx {
		t.store.rels = t.store.snapshot
		t.store.inTx = false
	}
	return nil
}

func relValues(r *models.Relationship) []any {
	return []any{r.ID, r.RequesterID, r.AddresseeID, r.Status, r.CreatedAt, r.UpdatedAt}
}

func errRow(err error) Row {
	return fakeRow{scanFunc: func(dest ...any) error { return err }}
}

type recordingPublisher struct {
	relationship []models.RelationshipEvent
	posts        []models.PostCreatedEvent
	err          error
}

func (p *recordingPublisher) PublishRelationshipEvent(ctx context.Context, event models.RelationshipEvent) error {
	p.relationship = append(p.relationship, event)
	return p.err
}

func (p *recordingPublisher) PublishPostCreated(ctx context.Context, event models.PostCreatedEvent) error {
	p.posts = append(p.posts, event)
	return p.err
}
