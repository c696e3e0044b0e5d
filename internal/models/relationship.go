package models

import (
	"bytes"
	"time"

	"github.com/google/uuid"
)

type RelationshipStatus string

const (
	RelationshipStatusPending  RelationshipStatus = "pending"
	RelationshipStatusAccepted RelationshipStatus = "accepted"
	// RelationshipStatusRejected is reported in events only; rejected rows are deleted.
	RelationshipStatusRejected RelationshipStatus = "rejected"
)

// Relationship is a directed edge from requester to addressee.
type Relationship struct {
	ID          uuid.UUID          `json:"id"`
	RequesterID uuid.UUID          `json:"requester_id"`
	AddresseeID uuid.UUID          `json:"addressee_id"`
	Status      RelationshipStatus `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// Involves reports whether userID is either side of the relationship.
func (r *Relationship) Involves(userID uuid.UUID) bool {
	return r.RequesterID == userID || r.AddresseeID == userID
}

// OtherID returns the side that is not userID.
func (r *Relationship) OtherID(userID uuid.UUID) uuid.UUID {
	if r.RequesterID == userID {
		return r.AddresseeID
	}
	return r.RequesterID
}

// PairKey returns the unordered pair in canonical (low, high) order.
func PairKey(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(a[:], b[:]) > 0 {
		return b, a
	}
	return a, b
}

type RelationshipWithUser struct {
	Relationship
	OtherUsername string `json:"other_username"`
}

type RelationshipCounts struct {
	Accepted        int `json:"accepted"`
	PendingIncoming int `json:"pending_incoming"`
	PendingOutgoing int `json:"pending_outgoing"`
}

type RelationshipEventType string

const (
	RelationshipEventRequested RelationshipEventType = "requested"
	RelationshipEventAccepted  RelationshipEventType = "accepted"
	RelationshipEventRejected  RelationshipEventType = "rejected"
	RelationshipEventCanceled  RelationshipEventType = "canceled"
	RelationshipEventRemoved   RelationshipEventType = "removed"
)

type RelationshipEvent struct {
	Type           RelationshipEventType `json:"type"`
	RelationshipID uuid.UUID             `json:"relationship_id"`
	RequesterID    uuid.UUID             `json:"requester_id"`
	AddresseeID    uuid.UUID             `json:"addressee_id"`
	ActorID        uuid.UUID             `json:"actor_id"`
	OccurredAt     time.Time             `json:"occurred_at"`
}
