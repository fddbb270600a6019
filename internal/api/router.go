package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"delivery-mitra-service/internal/api/handlers"
	"delivery-mitra-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. Each route maps to one dashboard action (handlers stay
// unaware of concrete adapters).
func NewRouter(registry *services.Registry) http.Handler {
	r := mux.NewRouter()

	sessions := &handlers.SessionHandler{Registry: registry}

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)

	r.HandleFunc("/sessions", sessions.Login).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}", sessions.Logout).Methods(http.MethodDelete)
	r.HandleFunc("/sessions/{id}/task", sessions.Task).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}/task/refresh", sessions.Refresh).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/navigation", sessions.StartNavigation).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/closure", sessions.OpenClosure).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/closure", sessions.CancelClosure).Methods(http.MethodDelete)
	r.HandleFunc("/sessions/{id}/closure/strokes", sessions.Stroke).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/closure/finalize", sessions.Finalize).Methods(http.MethodPost)

	return loggingMiddleware(r)
}
