package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/friendfeed/internal/models"
)

// UserServiceInterface defines the contract for user operations.
type UserServiceInterface interface {
	Create(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetActive(ctx context.Context, id uuid.UUID) (*models.User, error)
	Search(ctx context.Context, currentUserID uuid.UUID, query string) ([]models.UserSearchResult, error)
}

// AuthServiceInterface defines the contract for authentication operations.
type AuthServiceInterface interface {
	HashPassword(password string) (string, error)
	VerifyPassword(hash, password string) bool
	IssueToken(userID uuid.UUID) (token string, expiresAt time.Time, err error)
	ValidateToken(ctx context.Context, token string) (*models.User, error)
	RevokeToken(ctx context.Context, token string) error
}

// RelationshipServiceInterface defines the contract for relationship operations.
type RelationshipServiceInterface interface {
	RequestRelationship(ctx context.Context, requesterID, addresseeID uuid.UUID) (*models.Relationship, error)
	AcceptRelationship(ctx context.Context, addresseeID, relationshipID uuid.UUID) (*models.Relationship, error)
	RejectRelationship(ctx context.Context, addresseeID, relationshipID uuid.UUID) error
	CancelRequest(ctx context.Context, requesterID, relationshipID uuid.UUID) error
	RemoveRelationship(ctx context.Context, userID, relationshipID uuid.UUID) error
	ListPending(ctx context.Context, userID uuid.UUID) ([]models.RelationshipWithUser, error)
	ListSent(ctx context.Context, userID uuid.UUID) ([]models.RelationshipWithUser, error)
	ListAccepted(ctx context.Context, userID uuid.UUID) ([]models.RelationshipWithUser, error)
	PeerSet(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	AreRelated(ctx context.Context, a, b uuid.UUID) (bool, error)
	AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error)
	Between(ctx context.Context, a, b uuid.UUID) (*models.Relationship, error)
	Counts(ctx context.Context, userID uuid.UUID) (*models.RelationshipCounts, error)
}

// FeedServiceInterface defines the contract for feed composition.
type FeedServiceInterface interface {
	GetFeed(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Post, error)
}

// PostServiceInterface defines the contract for post operations used by handlers.
type PostServiceInterface interface {
	Create(ctx context.Context, params models.CreatePostParams) (*models.Post, error)
	Get(ctx context.Context, viewerID, postID uuid.UUID) (*models.Post, error)
	Delete(ctx context.Context, authorID, postID uuid.UUID) error
	ListByAuthor(ctx context.Context, viewerID, authorID uuid.UUID, limit, offset int) ([]models.Post, error)
}

// BlockServiceInterface defines the contract for blocking operations.
type BlockServiceInterface interface {
	Block(ctx context.Context, blockerID, blockedID uuid.UUID) error
	Unblock(ctx context.Context, blockerID, blockedID uuid.UUID) error
	IsBlocked(ctx context.Context, userID, otherUserID uuid.UUID) (bool, error)
	ListBlocked(ctx context.Context, blockerID uuid.UUID) ([]models.BlockedUser, error)
}
