package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/friendfeed/internal/models"
	"github.com/HammerMeetNail/friendfeed/internal/services"
)

type BlockHandler struct {
	blockService services.BlockServiceInterface
}

func NewBlockHandler(blockService services.BlockServiceInterface) *BlockHandler {
	return &BlockHandler{blockService: blockService}
}

type BlockRequest struct {
	UserID string `json:"user_id"`
}

type BlockListResponse struct {
	Blocked []models.BlockedUser `json:"blocked"`
	Message string               `json:"message,omitempty"`
}

func (h *BlockHandler) Block(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req BlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	blockedID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.blockService.Block(r.Context(), user.ID, blockedID); err != nil {
		writeServiceError(w, "blocking user", err)
		return
	}

	writeJSON(w, http.StatusCreated, BlockListResponse{Message: "User blocked"})
}

func (h *BlockHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	blockedID, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.blockService.Unblock(r.Context(), user.ID, blockedID); err != nil {
		writeServiceError(w, "unblocking user", err)
		return
	}

	writeJSON(w, http.StatusOK, BlockListResponse{Message: "User unblocked"})
}

func (h *BlockHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	blocked, err := h.blockService.ListBlocked(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, "listing blocked users", err)
		return
	}

	writeJSON(w, http.StatusOK, BlockListResponse{Blocked: blocked})
}
