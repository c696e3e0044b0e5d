package handlers

import (
	"net/http"

	"github.com/HammerMeetNail/friendfeed/internal/models"
	"github.com/HammerMeetNail/friendfeed/internal/services"
)

type FeedHandler struct {
	feedService  services.FeedServiceInterface
	defaultLimit int
}

func NewFeedHandler(feedService services.FeedServiceInterface, defaultLimit int) *FeedHandler {
	if defaultLimit <= 0 {
		defaultLimit = services.DefaultFeedLimit
	}
	return &FeedHandler{feedService: feedService, defaultLimit: defaultLimit}
}

type FeedResponse struct {
	Posts  []models.Post `json:"posts"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

func (h *FeedHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit, offset, ok := parsePagination(r, h.defaultLimit)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid pagination parameters")
		return
	}

	posts, err := h.feedService.GetFeed(r.Context(), user.ID, limit, offset)
	if err != nil {
		writeServiceError(w, "building feed", err)
		return
	}

	writeJSON(w, http.StatusOK, FeedResponse{Posts: posts, Limit: limit, Offset: offset})
}
