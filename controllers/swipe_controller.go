package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"ember_server/middleware"
	"ember_server/services"
)

// SwipeController handles swipe decisions and match queries.
type SwipeController struct {
	MatchService *services.MatchService
}

// NewSwipeController creates a new SwipeController instance.
func NewSwipeController(matchService *services.MatchService) *SwipeController {
	return &SwipeController{MatchService: matchService}
}

// Swipe records the caller's decision about another user. The response
// reports whether the swipe completed a reciprocal match.
func (sc *SwipeController) Swipe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "user not set on request", http.StatusBadRequest)
		return
	}

	var request struct {
		Swiped string `json:"swiped"`
		Status bool   `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.Swiped == "" {
		http.Error(w, "swiped username is required", http.StatusBadRequest)
		return
	}

	matched, err := sc.MatchService.RecordSwipe(r.Context(), user.Username, request.Swiped, request.Status)
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"matched": matched})
}

// Available lists every user the caller can still swipe on.
func (sc *SwipeController) Available(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "user not set on request", http.StatusBadRequest)
		return
	}

	users, err := sc.MatchService.ListAvailable(r.Context(), user.Username)
	if err != nil {
		writeError(w, err, "could not list available users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Matches lists the caller's matches as the other participant's name.
func (sc *SwipeController) Matches(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "user not set on request", http.StatusBadRequest)
		return
	}

	matches, err := sc.MatchService.ListMatches(r.Context(), user.Username)
	if err != nil {
		writeError(w, err, "could not list matches")
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

// DeleteMatch removes the match between the caller and the named user.
func (sc *SwipeController) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "user not set on request", http.StatusBadRequest)
		return
	}

	other := mux.Vars(r)["username"]
	if err := sc.MatchService.DeleteMatch(r.Context(), user.Username, other); err != nil {
		writeError(w, err, "match not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "match deleted"})
}
