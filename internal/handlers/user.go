package handlers

import (
	"net/http"
	"strings"

	"github.com/HammerMeetNail/friendfeed/internal/models"
	"github.com/HammerMeetNail/friendfeed/internal/services"
)

type UserHandler struct {
	userService  services.UserServiceInterface
	postService  services.PostServiceInterface
	blockService services.BlockServiceInterface
	defaultLimit int
}

func NewUserHandler(userService services.UserServiceInterface, postService services.PostServiceInterface, blockService services.BlockServiceInterface, defaultLimit int) *UserHandler {
	if defaultLimit <= 0 {
		defaultLimit = services.DefaultFeedLimit
	}
	return &UserHandler{
		userService:  userService,
		postService:  postService,
		blockService: blockService,
		defaultLimit: defaultLimit,
	}
}

type UserSearchResponse struct {
	Users []models.UserSearchResult `json:"users"`
}

type ProfileResponse struct {
	User models.PublicUser `json:"user"`
}

type UserPostsResponse struct {
	Posts []models.Post `json:"posts"`
}

func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	query := r.URL.Query().Get("q")
	if len(strings.TrimSpace(query)) < 2 {
		writeJSON(w, http.StatusOK, UserSearchResponse{Users: []models.UserSearchResult{}})
		return
	}

	users, err := h.userService.Search(r.Context(), user.ID, query)
	if err != nil {
		writeServiceError(w, "searching users", err)
		return
	}

	writeJSON(w, http.StatusOK, UserSearchResponse{Users: users})
}

// Get returns another user's public profile. Blocked or inactive users are
// reported as not found.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	targetID, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if targetID != user.ID {
		blocked, err := h.blockService.IsBlocked(r.Context(), user.ID, targetID)
		if err != nil {
			writeServiceError(w, "checking block", err)
			return
		}
		if blocked {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
	}

	target, err := h.userService.GetActive(r.Context(), targetID)
	if err != nil {
		writeServiceError(w, "getting user", err)
		return
	}

	writeJSON(w, http.StatusOK, ProfileResponse{User: target.Public()})
}

// Posts lists a user's posts visible to the caller, newest first.
func (h *UserHandler) Posts(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	authorID, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	limit, offset, ok := parsePagination(r, h.defaultLimit)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid pagination parameters")
		return
	}

	if authorID != user.ID {
		blocked, err := h.blockService.IsBlocked(r.Context(), user.ID, authorID)
		if err != nil {
			writeServiceError(w, "checking block", err)
			return
		}
		if blocked {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
	}

	posts, err := h.postService.ListByAuthor(r.Context(), user.ID, authorID, limit, offset)
	if err != nil {
		writeServiceError(w, "listing user posts", err)
		return
	}

	writeJSON(w, http.StatusOK, UserPostsResponse{Posts: posts})
}
