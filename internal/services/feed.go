package services

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/HammerMeetNail/friendfeed/internal/models"
)

const tracerName = "github.com/HammerMeetNail/friendfeed/internal/services"

const (
	DefaultFeedLimit = 20
	MaxFeedLimit     = 100
)

// PeerSource resolves the accepted peers of a user.
type PeerSource interface {
	PeerSet(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// ContentStore returns posts by any of the given authors, newest first.
type ContentStore interface {
	QueryByAuthors(ctx context.Context, authorIDs []uuid.UUID, limit, offset int) ([]models.Post, error)
}

type FeedService struct {
	peers    PeerSource
	content  ContentStore
	maxLimit int
}

func NewFeedService(peers PeerSource, content ContentStore, maxLimit int) *FeedService {
	if maxLimit <= 0 {
		maxLimit = MaxFeedLimit
	}
	return &FeedService{peers: peers, content: content, maxLimit: maxLimit}
}

// GetFeed returns posts written by userID or by any accepted peer, ordered by
// creation time descending with ties broken by id descending. limit is capped
// at the configured maximum.
func (s *FeedService) GetFeed(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Post, error) {
	if limit <= 0 || offset < 0 {
		return nil, ErrInvalidPagination
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "FeedService.GetFeed")
	defer span.End()
	span.SetAttributes(
		attribute.String("user.id", userID.String()),
		attribute.Int("feed.limit", limit),
		attribute.Int("feed.offset", offset),
	)

	peers, err := s.peers.PeerSet(ctx, userID)
	if err != nil {
		span.SetStatus(codes.Error, "resolving peers")
		return nil, unavailable("resolving peers", err)
	}
	span.SetAttributes(attribute.Int("feed.peers", len(peers)))

	authors := make([]uuid.UUID, 0, len(peers)+1)
	seen := make(map[uuid.UUID]struct{}, len(peers)+1)
	for _, id := range append([]uuid.UUID{userID}, peers...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		authors = append(authors, id)
	}

	posts, err := s.content.QueryByAuthors(ctx, authors, limit, offset)
	if err != nil {
		span.SetStatus(codes.Error, "querying feed")
		return nil, unavailable("querying feed", err)
	}
	span.SetAttributes(attribute.Int("feed.items", len(posts)))
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}
