package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/friendfeed/internal/services"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// ConflictResponse is returned for duplicate relationship requests.
type ConflictResponse struct {
	Error     string `json:"error"`
	Direction string `json:"direction"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps a service error to its HTTP status. Unclassified
// errors are logged and reported as 500 without detail.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	var conflict *services.RelationshipConflictError
	if errors.As(err, &conflict) {
		writeJSON(w, http.StatusConflict, ConflictResponse{
			Error:     "Relationship already exists",
			Direction: string(conflict.Direction),
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, capitalize(rootMessage(err)))
	case errors.Is(err, services.ErrInvalidOperation):
		writeError(w, http.StatusBadRequest, capitalize(rootMessage(err)))
	case errors.Is(err, services.ErrConflict):
		writeError(w, http.StatusConflict, capitalize(rootMessage(err)))
	case errors.Is(err, services.ErrUnavailable):
		log.Printf("Error %s: %v", op, err)
		writeError(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
	default:
		log.Printf("Error %s: %v", op, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// rootMessage returns the message of the domain sentinel wrapped in err,
// dropping the operation context added by services.
func rootMessage(err error) string {
	for _, sentinel := range []error{
		services.ErrUserNotFound,
		services.ErrUserBlocked,
		services.ErrRelationshipNotFound,
		services.ErrPostNotFound,
		services.ErrBlockNotFound,
		services.ErrCannotRelateSelf,
		services.ErrCannotBlockSelf,
		services.ErrInvalidPagination,
		services.ErrInvalidPost,
		services.ErrRelationshipExists,
		services.ErrBlockExists,
		services.ErrEmailAlreadyExists,
		services.ErrUsernameTaken,
	} {
		if errors.Is(err, sentinel) {
			if sentinel == services.ErrUserBlocked {
				return services.ErrUserNotFound.Error()
			}
			return sentinel.Error()
		}
	}
	return err.Error()
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// parsePagination reads limit and offset query parameters. Missing values use
// defaultLimit and 0; malformed values are reported as ok=false.
func parsePagination(r *http.Request, defaultLimit int) (limit, offset int, ok bool) {
	limit, offset = defaultLimit, 0
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, false
		}
		limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, false
		}
		offset = n
	}
	return limit, offset, true
}

func parsePathID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue(name))
}
