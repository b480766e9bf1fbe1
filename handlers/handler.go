// Package handlers implements the JSON HTTP API. Every mutating handler
// follows the same sequence: decode, field validation, invariant rules,
// write, audit.
package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"invtrack/models"
	"invtrack/pagination"
	"invtrack/rules"
	"invtrack/store"
	"invtrack/utils"
	"invtrack/websocket"
)

// Handler bundles the dependencies shared by all entity handlers.
type Handler struct {
	Store  store.Store
	Events *websocket.Hub
}

func New(s store.Store, events *websocket.Hub) *Handler {
	return &Handler{Store: s, Events: events}
}

// actingUser pulls the authenticated identity out of the request context,
// where the auth middleware placed it.
func actingUser(r *http.Request) (primitive.ObjectID, string, bool) {
	idStr, ok := r.Context().Value("userID").(string)
	if !ok || idStr == "" {
		return primitive.NilObjectID, "", false
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		return primitive.NilObjectID, "", false
	}
	role, _ := r.Context().Value("userRole").(string)
	return id, role, true
}

func requireAuth(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, string, bool) {
	id, role, ok := actingUser(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "authentication required")
		return primitive.NilObjectID, "", false
	}
	return id, role, true
}

func requireAdmin(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, role, ok := requireAuth(w, r)
	if !ok {
		return primitive.NilObjectID, false
	}
	if role != models.RoleAdmin {
		utils.RespondWithError(w, http.StatusForbidden, "admin access required")
		return primitive.NilObjectID, false
	}
	return id, true
}

func pathID(r *http.Request) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(mux.Vars(r)["id"])
}

// respondRuleError maps a failed invariant check onto its HTTP status and
// reports whether err was non-nil. Rule failures always abort the write.
func respondRuleError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	var (
		conflict *rules.Conflict
		notFound *rules.NotFound
		blocked  *rules.Blocked
		refused  *rules.Refused
	)
	switch {
	case errors.As(err, &conflict):
		utils.RespondWithError(w, http.StatusConflict, conflict.Error())
	case errors.As(err, &notFound):
		utils.RespondWithError(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &blocked):
		utils.RespondWithError(w, http.StatusConflict, blocked.Error())
	case errors.As(err, &refused):
		utils.RespondWithError(w, http.StatusForbidden, refused.Error())
	default:
		log.Printf("validation read failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
	}
	return true
}

// respondWriteError handles a failed store write. A duplicate-key rejection
// means a concurrent request won the race the advisory checks could not see.
func respondWriteError(w http.ResponseWriter, err error, entity string) {
	if errors.Is(err, store.ErrDuplicate) {
		utils.RespondWithError(w, http.StatusConflict, entity+" already exists")
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, entity+" not found")
		return
	}
	log.Printf("store write failed: %v", err)
	utils.RespondWithError(w, http.StatusInternalServerError, "failed to save "+entity)
}

// audit records a successful mutation and broadcasts it on the event feed.
// Audit failures are logged, never surfaced; the mutation already happened.
func (h *Handler) audit(ctx context.Context, userID primitive.ObjectID, action, entityType string, entityID primitive.ObjectID, details map[string]any) {
	entry := models.AuditLog{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		CreatedAt:  time.Now().UTC(),
	}
	if err := h.Store.AuditLogs().Insert(ctx, entry); err != nil {
		log.Printf("audit write failed: %v", err)
	}

	h.Events.Broadcast(websocket.Event{
		Type:      strings.ToUpper(action),
		Entity:    entityType,
		EntityID:  entityID.Hex(),
		Actor:     userID.Hex(),
		Timestamp: entry.CreatedAt,
		Details:   details,
	})
}

// respondList writes one page of records with the resolved sort parameters
// echoed back for link generation.
func respondList[T store.Entity](w http.ResponseWriter, res pagination.Result[T]) {
	items := res.Items
	if items == nil {
		items = []T{}
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"items":         items,
		"page":          res.Meta.Page,
		"perPage":       res.Meta.PerPage,
		"total":         res.Meta.Total,
		"totalPages":    res.Meta.TotalPages,
		"hasPrev":       res.Meta.HasPrev,
		"hasNext":       res.Meta.HasNext,
		"sortBy":        res.SortBy,
		"sortDirection": res.Direction,
	})
}
