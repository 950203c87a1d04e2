package routes

import (
	"github.com/gorilla/mux"

	"ember_server/controllers"
	"ember_server/middleware"
	"ember_server/services"
)

// RegisterSwipeRoutes sets up the authenticated swipe and match endpoints
// under /swipe.
func RegisterSwipeRoutes(r *mux.Router, matchService *services.MatchService, auth *middleware.SessionAuthenticator) {
	controller := controllers.NewSwipeController(matchService)

	swipeRouter := r.PathPrefix("/swipe").Subrouter()
	swipeRouter.Use(auth.Middleware)
	swipeRouter.HandleFunc("", controller.Swipe).Methods("POST")
	swipeRouter.HandleFunc("/available", controller.Available).Methods("GET")
	swipeRouter.HandleFunc("/matches", controller.Matches).Methods("GET")
	swipeRouter.HandleFunc("/match/{username}", controller.DeleteMatch).Methods("DELETE")
}
