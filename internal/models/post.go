package models

import (
	"time"

	"github.com/google/uuid"
)

type PostPrivacy string

const (
	PostPrivacyPublic  PostPrivacy = "public"
	PostPrivacyFriends PostPrivacy = "friends"
	PostPrivacyPrivate PostPrivacy = "private"
)

func (p PostPrivacy) Valid() bool {
	switch p {
	case PostPrivacyPublic, PostPrivacyFriends, PostPrivacyPrivate:
		return true
	}
	return false
}

const (
	PostTypePost        = "post"
	PostTypeTestimonial = "testimonial"

	MaxPostContentLength = 5000
)

// Post is a content item authored by a single user.
type Post struct {
	ID        uuid.UUID   `json:"id"`
	AuthorID  uuid.UUID   `json:"author_id"`
	Content   string      `json:"content"`
	PostType  string      `json:"post_type"`
	MediaType *string     `json:"media_type,omitempty"`
	MediaURL  *string     `json:"media_url,omitempty"`
	Privacy   PostPrivacy `json:"privacy"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type CreatePostParams struct {
	AuthorID  uuid.UUID
	Content   string
	PostType  string
	MediaType *string
	MediaURL  *string
	Privacy   PostPrivacy
}

type PostCreatedEvent struct {
	PostID    uuid.UUID `json:"post_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	PostType  string    `json:"post_type"`
	CreatedAt time.Time `json:"created_at"`
}
