package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/HammerMeetNail/friendfeed/internal/models"
	"github.com/HammerMeetNail/friendfeed/internal/services"
)

type PostHandler struct {
	postService services.PostServiceInterface
}

func NewPostHandler(postService services.PostServiceInterface) *PostHandler {
	return &PostHandler{postService: postService}
}

type CreatePostRequest struct {
	Content   string  `json:"content"`
	PostType  string  `json:"post_type"`
	Privacy   string  `json:"privacy"`
	MediaType *string `json:"media_type"`
	MediaURL  *string `json:"media_url"`
}

type PostResponse struct {
	Post    *models.Post `json:"post,omitempty"`
	Message string       `json:"message,omitempty"`
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.postService.Create(r.Context(), models.CreatePostParams{
		AuthorID:  user.ID,
		Content:   req.Content,
		PostType:  req.PostType,
		Privacy:   models.PostPrivacy(req.Privacy),
		MediaType: req.MediaType,
		MediaURL:  req.MediaURL,
	})
	if err != nil {
		writeServiceError(w, "creating post", err)
		return
	}

	writeJSON(w, http.StatusCreated, PostResponse{Post: post})
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	postID, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	post, err := h.postService.Get(r.Context(), user.ID, postID)
	if err != nil {
		writeServiceError(w, "getting post", err)
		return
	}

	writeJSON(w, http.StatusOK, PostResponse{Post: post})
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	postID, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	if err := h.postService.Delete(r.Context(), user.ID, postID); err != nil {
		writeServiceError(w, "deleting post", err)
		return
	}

	writeJSON(w, http.StatusOK, PostResponse{Message: "Post deleted"})
}
