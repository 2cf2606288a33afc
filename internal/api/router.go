package api

import (
	"github.com/gorilla/mux"

	"github.com/pulsetrack/pulsetrack/internal/api/recovery"
	"github.com/pulsetrack/pulsetrack/internal/auth"
	"github.com/pulsetrack/pulsetrack/internal/services"
	"github.com/pulsetrack/pulsetrack/internal/token"
)

// RouterDeps carries everything the HTTP surface needs.
type RouterDeps struct {
	Auth       *auth.Service
	Activities *services.ActivityService
	Issuer     *token.Issuer
	// IsHealthy is the service-level health probe; nil reports healthy.
	IsHealthy func() bool
}

// NewRouter wires all routes. Everything under the protected subrouter runs
// behind the session middleware and answers a bare 401 without a session.
func NewRouter(d RouterDeps) *mux.Router {
	root := mux.NewRouter()
	root.Use(recovery.Middleware)

	authHandler := NewAuthHandler(d.Auth)
	root.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	root.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	root.HandleFunc("/api/auth/logout", authHandler.Logout).Methods("POST")

	healthHandler := NewHealthHandler(d.IsHealthy)
	root.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	protected := root.PathPrefix("/api").Subrouter()
	protected.Use(d.Auth.Middleware)

	tokenHandler := NewTokenHandler(d.Issuer)
	protected.HandleFunc("/auth/token", tokenHandler.GetToken).Methods("GET")

	activityHandler := NewActivityHandler(d.Activities)
	protected.HandleFunc("/activities", activityHandler.ListActivities).Methods("GET")
	protected.HandleFunc("/activities", activityHandler.CreateActivity).Methods("POST")
	protected.HandleFunc("/activities/{activityId}", activityHandler.UpdateActivity).Methods("PATCH")
	protected.HandleFunc("/activities/{activityId}", activityHandler.DeleteActivity).Methods("DELETE")

	gridHandler := NewGridHandler(d.Activities)
	protected.HandleFunc("/activities/summary", gridHandler.GetSummary).Methods("GET")
	protected.HandleFunc("/grid", gridHandler.GetGrid).Methods("GET")

	return root
}
