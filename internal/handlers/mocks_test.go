package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/friendfeed/internal/models"
)

type mockUserService struct {
	CreateFunc     func(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	GetByIDFunc    func(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	GetActiveFunc  func(ctx context.Context, id uuid.UUID) (*models.User, error)
	SearchFunc     func(ctx context.Context, currentUserID uuid.UUID, query string) ([]models.UserSearchResult, error)
}

func (m *mockUserService) Create(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *mockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockUserService) GetActive(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.GetActiveFunc != nil {
		return m.GetActiveFunc(ctx, id)
	}
	return &models.User{ID: id, IsActive: true}, nil
}

func (m *mockUserService) Search(ctx context.Context, currentUserID uuid.UUID, query string) ([]models.UserSearchResult, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, currentUserID, query)
	}
	return []models.UserSearchResult{}, nil
}

type mockAuthService struct {
	HashPasswordFunc   func(password string) (string, error)
	VerifyPasswordFunc func(hash, password string) bool
	IssueTokenFunc     func(userID uuid.UUID) (string, time.Time, error)
	ValidateTokenFunc  func(ctx context.Context, token string) (*models.User, error)
	RevokeTokenFunc    func(ctx context.Context, token string) error
}

func (m *mockAuthService) HashPassword(password string) (string, error) {
	if m.HashPasswordFunc != nil {
		return m.HashPasswordFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *mockAuthService) VerifyPassword(hash, password string) bool {
	if m.VerifyPasswordFunc != nil {
		return m.VerifyPasswordFunc(hash, password)
	}
	return hash == "hashed_"+password
}

func (m *mockAuthService) IssueToken(userID uuid.UUID) (string, time.Time, error) {
	if m.IssueTokenFunc != nil {
		return m.IssueTokenFunc(userID)
	}
	return "token-" + userID.String(), time.Now().Add(30 * time.Minute), nil
}

func (m *mockAuthService) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, token)
	}
	return nil, nil
}

func (m *mockAuthService) RevokeToken(ctx context.Context, token string) error {
	if m.RevokeTokenFunc != nil {
		return m.RevokeTokenFunc(ctx, token)
	}
	return nil
}

type mockRelationshipService struct {
	RequestFunc      func(ctx context.Context, requesterID, addresseeID uuid.UUID) (*models.Relationship, error)
	AcceptFunc       func(ctx context.Context, addresseeID, relationshipID uuid.UUID) (*models.Relationship, error)
	RejectFunc       func(ctx context.Context, addresseeID, relationshipID uuid.UUID) error
	CancelFunc       func(ctx context.Context, requesterID, relationshipID uuid.UUID) error
	RemoveFunc       func(ctx context.Context, userID, relationshipID uuid.UUID) error
	ListPendingFunc  func(ctx context.Context, userID uuid.UUID) ([]models.RelationshipWithUser, error)
	ListSentFunc     func(ctx context.Context, userID uuid.UUID) ([]models.RelationshipWithUser, error)
	ListAcceptedFunc func(ctx context.Context, userID uuid.UUID) ([]models.RelationshipWithUser, error)
	BetweenFunc      func(ctx context.Context, a, b uuid.UUID) (*models.Relationship, error)
	CountsFunc       func(ctx context.Context, userID uuid.UUID) (*models.RelationshipCounts, error)
}

func (m *mockRelationshipService) RequestRelationship(ctx context.Context, requesterID, addresseeID uuid.UUID) (*models.Relationship, error) {
	if m.RequestFunc != nil {
		return m.RequestFunc(ctx, requesterID, addresseeID)
	}
	return &models.Relationship{ID: uuid.New(), RequesterID: requesterID, AddresseeID: addresseeID, Status: models.RelationshipStatusPending}, nil
}

func (m *mockRelationshipService) AcceptRelationship(ctx context.Context, addresseeID, relationshipID uuid.UUID) (*models.Relationship, error) {
	if m.AcceptFunc != nil {
		return m.AcceptFunc(ctx, addresseeID, relationshipID)
	}
	return &models.Relationship{ID: relationshipID, AddresseeID: addresseeID, Status: models.RelationshipStatusAccepted}, nil
}

func (m *mockRelationshipService) RejectRelationship(ctx context.Context, addresseeID, relationshipID uuid.UUID) error {
	if m.RejectFunc != nil {
		return m.RejectFunc(ctx, addresseeID, relationshipID)
	}
	return nil
}

func (m *mockRelationshipService) CancelRequest(ctx context.Context, requesterID, relationshipID uuid.UUID) error {
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, requesterID, relationshipID)
	}
	return nil
}

func (m *mockRelationshipService) RemoveRelationship(ctx context.Context, userID, relationshipID uuid.UUID) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, userID, relationshipID)
	}
	return nil
}

func (m *mockRelationshipService) ListPending(ctx context.Context, userID uuid.UUID) ([]models.RelationshipWithUser, error) {
	if m.ListPendingFunc != nil {
		return m.ListPendingFunc(ctx, userID)
	}
	return []models.RelationshipWithUser{}, nil
}

func (m *mockRelationshipService) ListSent(ctx context.Context, userID uuid.UUID) ([]models.RelationshipWithUser, error) {
	if m.ListSentFunc != nil {
		return m.ListSentFunc(ctx, userID)
	}
	return []models.RelationshipWithUser{}, nil
}

func (m *mockRelationshipService) ListAccepted(ctx context.Context, userID uuid.UUID) ([]models.RelationshipWithUser, error) {
	if m.ListAcceptedFunc != nil {
		return m.ListAcceptedFunc(ctx, userID)
	}
	return []models.RelationshipWithUser{}, nil
}

func (m *mockRelationshipService) PeerSet(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

func (m *mockRelationshipService) AreRelated(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return false, nil
}

func (m *mockRelationshipService) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return false, nil
}

func (m *mockRelationshipService) Between(ctx context.Context, a, b uuid.UUID) (*models.Relationship, error) {
	if m.BetweenFunc != nil {
		return m.BetweenFunc(ctx, a, b)
	}
	return nil, nil
}

func (m *mockRelationshipService) Counts(ctx context.Context, userID uuid.UUID) (*models.RelationshipCounts, error) {
	if m.CountsFunc != nil {
		return m.CountsFunc(ctx, userID)
	}
	return &models.RelationshipCounts{}, nil
}

type mockFeedService struct {
	GetFeedFunc func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Post, error)
}

func (m *mockFeedService) GetFeed(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Post, error) {
	if m.GetFeedFunc != nil {
		return m.GetFeedFunc(ctx, userID, limit, offset)
	}
	return []models.Post{}, nil
}

type mockPostService struct {
	CreateFunc       func(ctx context.Context, params models.CreatePostParams) (*models.Post, error)
	GetFunc          func(ctx context.Context, viewerID, postID uuid.UUID) (*models.Post, error)
	DeleteFunc       func(ctx context.Context, authorID, postID uuid.UUID) error
	ListByAuthorFunc func(ctx context.Context, viewerID, authorID uuid.UUID, limit, offset int) ([]models.Post, error)
}

func (m *mockPostService) Create(ctx context.Context, params models.CreatePostParams) (*models.Post, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return &models.Post{ID: uuid.New(), AuthorID: params.AuthorID, Content: params.Content}, nil
}

func (m *mockPostService) Get(ctx context.Context, viewerID, postID uuid.UUID) (*models.Post, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, viewerID, postID)
	}
	return nil, nil
}

func (m *mockPostService) Delete(ctx context.Context, authorID, postID uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, authorID, postID)
	}
	return nil
}

func (m *mockPostService) ListByAuthor(ctx context.Context, viewerID, authorID uuid.UUID, limit, offset int) ([]models.Post, error) {
	if m.ListByAuthorFunc != nil {
		return m.ListByAuthorFunc(ctx, viewerID, authorID, limit, offset)
	}
	return []models.Post{}, nil
}

type mockBlockService struct {
	BlockFunc       func(ctx context.Context, blockerID, blockedID uuid.UUID) error
	UnblockFunc     func(ctx context.Context, blockerID, blockedID uuid.UUID) error
	IsBlockedFunc   func(ctx context.Context, userID, otherUserID uuid.UUID) (bool, error)
	ListBlockedFunc func(ctx context.Context, blockerID uuid.UUID) ([]models.BlockedUser, error)
}

func (m *mockBlockService) Block(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	if m.BlockFunc != nil {
		return m.BlockFunc(ctx, blockerID, blockedID)
	}
	return nil
}

func (m *mockBlockService) Unblock(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	if m.UnblockFunc != nil {
		return m.UnblockFunc(ctx, blockerID, blockedID)
	}
	return nil
}

func (m *mockBlockService) IsBlocked(ctx context.Context, userID, otherUserID uuid.UUID) (bool, error) {
	if m.IsBlockedFunc != nil {
		return m.IsBlockedFunc(ctx, userID, otherUserID)
	}
	return false, nil
}

func (m *mockBlockService) ListBlocked(ctx context.Context, blockerID uuid.UUID) ([]models.BlockedUser, error) {
	if m.ListBlockedFunc != nil {
		return m.ListBlockedFunc(ctx, blockerID)
	}
	return []models.BlockedUser{}, nil
}
