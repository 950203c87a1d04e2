package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"ember_server/middleware"
	"ember_server/services"
)

// UserController handles registration, login and profile management.
type UserController struct {
	UserService    *services.UserService
	SessionService *services.SessionService
	Log            *logrus.Logger
}

// NewUserController creates a new UserController instance.
func NewUserController(userService *services.UserService, sessionService *services.SessionService, log *logrus.Logger) *UserController {
	return &UserController{UserService: userService, SessionService: sessionService, Log: log}
}

// Register creates an account and logs the new user in by setting the
// session cookie.
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	user, err := uc.UserService.Register(r.Context(), request.Username, request.Password)
	if err != nil {
		uc.Log.WithError(err).WithField("username", request.Username).Warn("registration failed")
		writeError(w, err, "could not register user")
		return
	}

	uc.setSession(w, user.Username)
	writeJSON(w, http.StatusCreated, user.Public())
}

// Login verifies the credentials and sets the session cookie.
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	user, err := uc.UserService.Login(r.Context(), request.Username, request.Password)
	if err != nil {
		writeError(w, err, "")
		return
	}

	uc.setSession(w, user.Username)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged in"})
}

// Logout clears the session cookie.
func (uc *UserController) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// List returns the public fields of every user.
func (uc *UserController) List(w http.ResponseWriter, r *http.Request) {
	users, err := uc.UserService.List(r.Context())
	if err != nil {
		writeError(w, err, "could not list users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Get returns the public fields of one user.
func (uc *UserController) Get(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	user, err := uc.UserService.Get(r.Context(), username)
	if err != nil {
		writeError(w, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user.Public())
}

// CheckLogin confirms the current session and returns its username.
func (uc *UserController) CheckLogin(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "user not set on request", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"username": user.Username})
}

// SetLocation updates the caller's coordinates. Both are required.
func (uc *UserController) SetLocation(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "user not set on request", http.StatusBadRequest)
		return
	}

	var request struct {
		Lat  *float64 `json:"lat"`
		Long *float64 `json:"long"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.Lat == nil || request.Long == nil {
		http.Error(w, "lat and long are required", http.StatusBadRequest)
		return
	}

	if err := uc.UserService.SetLocation(r.Context(), user.Username, *request.Lat, *request.Long); err != nil {
		writeError(w, err, "could not update location")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "location updated"})
}

// SetBio updates the caller's bio text.
func (uc *UserController) SetBio(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "user not set on request", http.StatusBadRequest)
		return
	}

	var request struct {
		Bio string `json:"bio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	if err := uc.UserService.SetBio(r.Context(), user.Username, request.Bio); err != nil {
		writeError(w, err, "could not update bio")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "bio updated"})
}

func (uc *UserController) setSession(w http.ResponseWriter, username string) {
	token, err := uc.SessionService.Issue(username)
	if err != nil {
		// The account exists either way; the client just has to log in.
		uc.Log.WithError(err).WithField("username", username).Error("could not issue session token")
		return
	}
	middleware.SetSessionCookie(w, token)
}
