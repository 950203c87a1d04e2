package routes

import (
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"ember_server/controllers"
	"ember_server/middleware"
	"ember_server/services"
)

// RegisterUserRoutes sets up the public account endpoints under /user and
// the authenticated profile-management endpoints under /user/manage.
func RegisterUserRoutes(r *mux.Router, userService *services.UserService, mediaService *services.MediaService, sessionService *services.SessionService, auth *middleware.SessionAuthenticator, log *logrus.Logger) {
	userController := controllers.NewUserController(userService, sessionService, log)
	mediaController := controllers.NewMediaController(mediaService, log)

	userRouter := r.PathPrefix("/user").Subrouter()
	userRouter.HandleFunc("", userController.Register).Methods("POST")
	userRouter.HandleFunc("", userController.List).Methods("GET")
	userRouter.HandleFunc("/login", userController.Login).Methods("POST")
	userRouter.HandleFunc("/logout", userController.Logout).Methods("GET")
	userRouter.HandleFunc("/u/{username}", userController.Get).Methods("GET")
	userRouter.HandleFunc("/u/{username}/pic", mediaController.Picture).Methods("GET")

	// Everything under /user/manage requires a live session.
	manageRouter := userRouter.PathPrefix("/manage").Subrouter()
	manageRouter.Use(auth.Middleware)
	manageRouter.HandleFunc("/li", userController.CheckLogin).Methods("GET")
	manageRouter.HandleFunc("/location", userController.SetLocation).Methods("POST")
	manageRouter.HandleFunc("/bio", userController.SetBio).Methods("POST")
	manageRouter.HandleFunc("/profile_pic", mediaController.Upload).Methods("POST")
}
