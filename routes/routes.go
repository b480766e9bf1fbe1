package routes

import (
	"github.com/gorilla/mux"

	"invtrack/handlers"
	"invtrack/middleware"
	"invtrack/websocket"
)

// HTTP method constants for better maintainability
var (
	MethodsGetOnly    = []string{"GET", "OPTIONS"}
	MethodsPostOnly   = []string{"POST", "OPTIONS"}
	MethodsPutOnly    = []string{"PUT", "OPTIONS"}
	MethodsDeleteOnly = []string{"DELETE", "OPTIONS"}
)

const (
	PathAPI    = "/api"
	PathHealth = "/health"
)

func Register(r *mux.Router, h *handlers.Handler, hub *websocket.Hub) {
	// ====================
	// HEALTH CHECK (Public)
	// ====================
	r.HandleFunc(PathHealth, h.HealthCheck).Methods(MethodsGetOnly...)

	// ====================
	// AUTHENTICATION (Public)
	// ====================
	r.HandleFunc("/api/auth/register", h.Register).Methods(MethodsPostOnly...)
	r.HandleFunc("/api/auth/login", h.Login).Methods(MethodsPostOnly...)

	// ====================
	// PROTECTED API ROUTES
	// ====================
	api := r.PathPrefix(PathAPI).Subrouter()
	api.Use(middleware.Auth(h.Store.Users()))

	api.HandleFunc("/auth/logout", h.Logout).Methods(MethodsPostOnly...)
	api.HandleFunc("/auth/me", h.CurrentUser).Methods(MethodsGetOnly...)

	// Live activity feed
	api.Handle("/ws/events", hub)

	// ====================
	// ASSET TYPES (admin)
	// ====================
	api.HandleFunc("/asset-types", h.ListAssetTypes).Methods(MethodsGetOnly...)
	api.HandleFunc("/asset-types", h.CreateAssetType).Methods(MethodsPostOnly...)
	api.HandleFunc("/asset-types/{id}", h.GetAssetType).Methods(MethodsGetOnly...)
	api.HandleFunc("/asset-types/{id}", h.UpdateAssetType).Methods(MethodsPutOnly...)
	api.HandleFunc("/asset-types/{id}", h.DeleteAssetType).Methods(MethodsDeleteOnly...)

	// ====================
	// ASSETS
	// ====================
	api.HandleFunc("/assets", h.ListAssets).Methods(MethodsGetOnly...)
	api.HandleFunc("/assets", h.CreateAsset).Methods(MethodsPostOnly...)
	api.HandleFunc("/assets/{id}", h.GetAsset).Methods(MethodsGetOnly...)
	api.HandleFunc("/assets/{id}", h.UpdateAsset).Methods(MethodsPutOnly...)
	api.HandleFunc("/assets/{id}", h.DeleteAsset).Methods(MethodsDeleteOnly...)

	// ====================
	// USERS (admin)
	// ====================
	api.HandleFunc("/users", h.ListUsers).Methods(MethodsGetOnly...)
	api.HandleFunc("/users", h.CreateUser).Methods(MethodsPostOnly...)
	api.HandleFunc("/users/{id}", h.GetUser).Methods(MethodsGetOnly...)
	api.HandleFunc("/users/{id}", h.UpdateUser).Methods(MethodsPutOnly...)
	api.HandleFunc("/users/{id}", h.DeleteUser).Methods(MethodsDeleteOnly...)

	// ====================
	// ASSIGNMENTS
	// ====================
	api.HandleFunc("/assignments", h.ListAssignments).Methods(MethodsGetOnly...)
	api.HandleFunc("/assignments", h.CreateAssignment).Methods(MethodsPostOnly...)
	api.HandleFunc("/assignments/{id}", h.GetAssignment).Methods(MethodsGetOnly...)
	api.HandleFunc("/assignments/{id}", h.UpdateAssignment).Methods(MethodsPutOnly...)
	api.HandleFunc("/assignments/{id}", h.DeleteAssignment).Methods(MethodsDeleteOnly...)

	// ====================
	// AUDIT LOGS (admin)
	// ====================
	api.HandleFunc("/audit", h.ListAuditLogs).Methods(MethodsGetOnly...)
}
