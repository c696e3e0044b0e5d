package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/HammerMeetNail/friendfeed/internal/models"
)

const postColumns = `id, author_id, content, post_type, media_type, media_url, privacy, created_at, updated_at`

// FriendChecker is the narrow view of the relationship service used for post visibility.
type FriendChecker interface {
	AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error)
}

type PostService struct {
	db      DB
	friends FriendChecker
	events  EventPublisher
}

func NewPostService(db DB, friends FriendChecker, events EventPublisher) *PostService {
	if events == nil {
		events = NopPublisher{}
	}
	return &PostService{db: db, friends: friends, events: events}
}

func (s *PostService) Create(ctx context.Context, params models.CreatePostParams) (*models.Post, error) {
	params.Content = strings.TrimSpace(params.Content)
	if params.Content == "" || utf8.RuneCountInString(params.Content) > models.MaxPostContentLength {
		return nil, ErrInvalidPost
	}
	if params.Privacy == "" {
		params.Privacy = models.PostPrivacyPublic
	}
	if !params.Privacy.Valid() {
		return nil, ErrInvalidPost
	}
	switch params.PostType {
	case "":
		params.PostType = models.PostTypePost
	case models.PostTypePost, models.PostTypeTestimonial:
	default:
		return nil, ErrInvalidPost
	}

	post := &models.Post{}
	err := s.db.QueryRow(ctx,
		`INSERT INTO posts (author_id, content, post_type, media_type, media_url, privacy)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+postColumns,
		params.AuthorID, params.Content, params.PostType, params.MediaType, params.MediaURL, params.Privacy,
	).Scan(postDest(post)...)
	if err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	publishPostCreated(ctx, s.events, models.PostCreatedEvent{
		PostID:    post.ID,
		AuthorID:  post.AuthorID,
		PostType:  post.PostType,
		CreatedAt: post.CreatedAt,
	})
	return post, nil
}

// Get returns a post if viewerID is allowed to see it. Posts hidden from the
// viewer are reported as not found.
func (s *PostService) Get(ctx context.Context, viewerID, postID uuid.UUID) (*models.Post, error) {
	post := &models.Post{}
	err := s.db.QueryRow(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = $1`,
		postID,
	).Scan(postDest(post)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting post: %w", err)
	}

	visible, err := s.visibleTo(ctx, viewerID, post.AuthorID)
	if err != nil {
		return nil, err
	}
	for _, p := range visible {
		if p == post.Privacy {
			return post, nil
		}
	}
	return nil, ErrPostNotFound
}

func (s *PostService) Delete(ctx context.Context, authorID, postID uuid.UUID) error {
	result, err := s.db.Exec(ctx,
		`DELETE FROM posts WHERE id = $1 AND author_id = $2`,
		postID, authorID,
	)
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

// ListByAuthor returns the author's posts that viewerID may see, newest first.
func (s *PostService) ListByAuthor(ctx context.Context, viewerID, authorID uuid.UUID, limit, offset int) ([]models.Post, error) {
	if limit <= 0 || offset < 0 {
		return nil, ErrInvalidPagination
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}

	visible, err := s.visibleTo(ctx, viewerID, authorID)
	if err != nil {
		return nil, err
	}
	privacies := make([]string, len(visible))
	for i, p := range visible {
		privacies[i] = string(p)
	}

	return s.queryPosts(ctx, "listing posts",
		`SELECT `+postColumns+`
		 FROM posts
		 WHERE author_id = $1 AND privacy = ANY($2)
		 ORDER BY created_at DESC, id DESC
		 LIMIT $3 OFFSET $4`,
		authorID, privacies, limit, offset,
	)
}

// QueryByAuthors returns posts written by any of authorIDs, newest first with
// ties broken by id descending.
func (s *PostService) QueryByAuthors(ctx context.Context, authorIDs []uuid.UUID, limit, offset int) ([]models.Post, error) {
	if len(authorIDs) == 0 {
		return []models.Post{}, nil
	}
	return s.queryPosts(ctx, "querying posts by authors",
		`SELECT `+postColumns+`
		 FROM posts
		 WHERE author_id = ANY($1)
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		authorIDs, limit, offset,
	)
}

func (s *PostService) queryPosts(ctx context.Context, op, sql string, args ...any) ([]models.Post, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(postDest(&p)...); err != nil {
			return nil, fmt.Errorf("scanning post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

func (s *PostService) visibleTo(ctx context.Context, viewerID, authorID uuid.UUID) ([]models.PostPrivacy, error) {
	if viewerID == authorID {
		return []models.PostPrivacy{models.PostPrivacyPublic, models.PostPrivacyFriends, models.PostPrivacyPrivate}, nil
	}
	friends, err := s.friends.AreFriends(ctx, viewerID, authorID)
	if err != nil {
		return nil, err
	}
	if friends {
		return []models.PostPrivacy{models.PostPrivacyPublic, models.PostPrivacyFriends}, nil
	}
	return []models.PostPrivacy{models.PostPrivacyPublic}, nil
}

func postDest(p *models.Post) []any {
	return []any{&p.ID, &p.AuthorID, &p.Content, &p.PostType, &p.MediaType, &p.MediaURL, &p.Privacy, &p.CreatedAt, &p.UpdatedAt}
}
