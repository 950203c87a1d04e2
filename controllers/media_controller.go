package controllers

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"ember_server/middleware"
	"ember_server/services"
)

// maxUploadBytes caps a profile picture upload at 10 MiB.
const maxUploadBytes = 10 << 20

// MediaController handles profile picture upload and retrieval.
type MediaController struct {
	MediaService *services.MediaService
	Log          *logrus.Logger
}

// NewMediaController creates a new MediaController instance.
func NewMediaController(mediaService *services.MediaService, log *logrus.Logger) *MediaController {
	return &MediaController{MediaService: mediaService, Log: log}
}

// Upload stores the caller's new profile picture from a multipart form
// field named "file".
func (mc *MediaController) Upload(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "user not set on request", http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart payload", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		mc.Log.WithError(err).Warn("reading upload failed")
		http.Error(w, "could not read upload", http.StatusInternalServerError)
		return
	}

	if err := mc.MediaService.UploadProfilePicture(r.Context(), user.Username, data); err != nil {
		mc.Log.WithError(err).WithField("username", user.Username).Error("profile picture upload failed")
		writeError(w, err, "could not store picture")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "profile picture updated"})
}

// Picture streams the named user's current profile picture bytes.
func (mc *MediaController) Picture(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	data, err := mc.MediaService.GetProfilePicture(r.Context(), username)
	if err != nil {
		writeError(w, err, "picture not found")
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(data)
}
