// Package middleware provides the HTTP middleware chain: session
// authentication, request logging and metrics.
package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"ember_server/apperr"
	"ember_server/services"
	"ember_server/storage"
)

// SessionCookie is the name of the signed session cookie.
const SessionCookie = "session"

// SessionAuthenticator gates every protected request. It extracts the
// session cookie, verifies the signature, re-resolves the embedded
// username against the live user store and attaches the full user record
// to the request context. On any failure the chain short-circuits before
// business logic runs.
type SessionAuthenticator struct {
	Sessions *services.SessionService
	Users    storage.UserStore
	Log      *logrus.Logger
}

// NewSessionAuthenticator creates a new SessionAuthenticator instance.
func NewSessionAuthenticator(sessions *services.SessionService, users storage.UserStore, log *logrus.Logger) *SessionAuthenticator {
	return &SessionAuthenticator{Sessions: sessions, Users: users, Log: log}
}

// Middleware returns the mux middleware performing the check.
func (a *SessionAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil {
			a.reject(w, r, apperr.ErrMissingCredential, "missing session cookie")
			return
		}

		username, err := a.Sessions.Verify(cookie.Value)
		if err != nil {
			a.reject(w, r, err, "invalid session cookie")
			return
		}

		user, err := a.Users.GetUser(r.Context(), username)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				// The account behind the credential is gone: invalidate
				// the cookie so the client is forced to log in again.
				ClearSessionCookie(w)
				a.reject(w, r, apperr.ErrStaleCredential, "session references unknown account")
				return
			}
			a.reject(w, r, err, "could not resolve session")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), &user)))
	})
}

func (a *SessionAuthenticator) reject(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := apperr.Status(err)
	a.Log.WithError(err).WithFields(logrus.Fields{
		"path":   r.URL.Path,
		"method": r.Method,
		"status": status,
	}).Warn("authentication failed")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// SetSessionCookie attaches a freshly issued session token to the
// response.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie in the response.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
