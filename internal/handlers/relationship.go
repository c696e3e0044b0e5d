package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/friendfeed/internal/models"
	"github.com/HammerMeetNail/friendfeed/internal/services"
)

type RelationshipHandler struct {
	relationshipService services.RelationshipServiceInterface
}

func NewRelationshipHandler(relationshipService services.RelationshipServiceInterface) *RelationshipHandler {
	return &RelationshipHandler{relationshipService: relationshipService}
}

type RelationshipRequest struct {
	AddresseeID string `json:"addressee_id"`
}

type RelationshipResponse struct {
	Relationship *models.Relationship `json:"relationship,omitempty"`
	Message      string               `json:"message,omitempty"`
}

type RelationshipListResponse struct {
	Relationships []models.RelationshipWithUser `json:"relationships"`
}

func (h *RelationshipHandler) Request(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req RelationshipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	addresseeID, err := uuid.Parse(req.AddresseeID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	rel, err := h.relationshipService.RequestRelationship(r.Context(), user.ID, addresseeID)
	if err != nil {
		writeServiceError(w, "requesting relationship", err)
		return
	}

	writeJSON(w, http.StatusCreated, RelationshipResponse{Relationship: rel, Message: "Request sent"})
}

func (h *RelationshipHandler) Accept(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid relationship ID")
		return
	}

	rel, err := h.relationshipService.AcceptRelationship(r.Context(), user.ID, id)
	if err != nil {
		writeServiceError(w, "accepting relationship", err)
		return
	}

	writeJSON(w, http.StatusOK, RelationshipResponse{Relationship: rel, Message: "Request accepted"})
}

func (h *RelationshipHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.deleteAction(w, r, "rejecting relationship", "Request rejected", h.relationshipService.RejectRelationship)
}

func (h *RelationshipHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.deleteAction(w, r, "canceling relationship", "Request canceled", h.relationshipService.CancelRequest)
}

func (h *RelationshipHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.deleteAction(w, r, "removing relationship", "Relationship removed", h.relationshipService.RemoveRelationship)
}

type relationshipAction func(ctx context.Context, userID, relationshipID uuid.UUID) error

func (h *RelationshipHandler) deleteAction(w http.ResponseWriter, r *http.Request, op, message string, action relationshipAction) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid relationship ID")
		return
	}

	if err := action(r.Context(), user.ID, id); err != nil {
		writeServiceError(w, op, err)
		return
	}

	writeJSON(w, http.StatusOK, RelationshipResponse{Message: message})
}

// List returns accepted relationships for the current user.
func (h *RelationshipHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "listing relationships", h.relationshipService.ListAccepted)
}

func (h *RelationshipHandler) Pending(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "listing pending requests", h.relationshipService.ListPending)
}

func (h *RelationshipHandler) Sent(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "listing sent requests", h.relationshipService.ListSent)
}

type relationshipLister func(ctx context.Context, userID uuid.UUID) ([]models.RelationshipWithUser, error)

func (h *RelationshipHandler) list(w http.ResponseWriter, r *http.Request, op string, lister relationshipLister) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	rels, err := lister(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}

	writeJSON(w, http.StatusOK, RelationshipListResponse{Relationships: rels})
}

func (h *RelationshipHandler) Counts(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	counts, err := h.relationshipService.Counts(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, "counting relationships", err)
		return
	}

	writeJSON(w, http.StatusOK, counts)
}

// With returns the relationship between the current user and another user.
func (h *RelationshipHandler) With(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	otherID, err := parsePathID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	rel, err := h.relationshipService.Between(r.Context(), user.ID, otherID)
	if err != nil {
		writeServiceError(w, "getting relationship", err)
		return
	}

	writeJSON(w, http.StatusOK, RelationshipResponse{Relationship: rel})
}
