package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"invtrack/models"
	"invtrack/pagination"
	"invtrack/rules"
	"invtrack/store"
	"invtrack/utils"
)

// Assignments record which asset is handed to which user. Any logged-in
// user may create and edit them; deletion is admin-only.

var assignmentList = pagination.Config{
	Columns: map[string]pagination.Column{
		"date":     {Field: "assignedAt"},
		"asset_id": {Field: "assetId"},
		"user_id":  {Field: "userId"},
	},
	DefaultSortBy:    "date",
	DefaultDirection: pagination.Desc,
}

type assignmentRequest struct {
	AssetID string `json:"assetId"`
	UserID  string `json:"userId"`
}

func (req *assignmentRequest) decode(w http.ResponseWriter) (primitive.ObjectID, primitive.ObjectID, bool) {
	assetID, err := primitive.ObjectIDFromHex(req.AssetID)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid asset id")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	return assetID, userID, true
}

// checkReferences verifies both ends of the assignment exist.
func (h *Handler) checkReferences(ctx context.Context, w http.ResponseWriter, assetID, userID primitive.ObjectID) bool {
	if respondRuleError(w, rules.ReferenceExists(ctx, h.Store.Assets(), "asset", assetID)) {
		return false
	}
	if respondRuleError(w, rules.ReferenceExists(ctx, h.Store.Users(), "user", userID)) {
		return false
	}
	return true
}

func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := requireAuth(w, r); !ok {
		return
	}

	res, err := pagination.List(r.Context(), h.Store.Assignments(), nil, assignmentList, pagination.ParseRequest(r.URL.Query()))
	if err != nil {
		log.Printf("list assignments failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	respondList(w, res)
}

func (h *Handler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := requireAuth(w, r); !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid assignment id")
		return
	}

	assignment, err := h.Store.Assignments().FindOne(r.Context(), store.Filter{"_id": id})
	if err != nil {
		respondWriteError(w, err, "assignment")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, assignment)
}

func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := requireAuth(w, r)
	if !ok {
		return
	}

	var req assignmentRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	assetID, userID, ok := req.decode(w)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if !h.checkReferences(ctx, w, assetID, userID) {
		return
	}

	assignment := models.Assignment{
		ID:         primitive.NewObjectID(),
		AssetID:    assetID,
		UserID:     userID,
		AssignedAt: time.Now().UTC(),
	}
	if err := h.Store.Assignments().Insert(ctx, assignment); err != nil {
		respondWriteError(w, err, "assignment")
		return
	}

	h.audit(ctx, actorID, "assignment_create", "assignment", assignment.ID, map[string]any{
		"assetId": assetID.Hex(),
		"userId":  userID.Hex(),
	})
	utils.RespondWithJSON(w, http.StatusCreated, assignment)
}

func (h *Handler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := requireAuth(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid assignment id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	assignment, err := h.Store.Assignments().FindOne(ctx, store.Filter{"_id": id})
	if err != nil {
		respondWriteError(w, err, "assignment")
		return
	}

	var req assignmentRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	assetID, userID, ok := req.decode(w)
	if !ok {
		return
	}

	if !h.checkReferences(ctx, w, assetID, userID) {
		return
	}

	fields := store.Fields{
		"assetId": assetID,
		"userId":  userID,
	}
	if err := h.Store.Assignments().UpdateByID(ctx, id, fields); err != nil {
		respondWriteError(w, err, "assignment")
		return
	}
	assignment.AssetID = assetID
	assignment.UserID = userID

	h.audit(ctx, actorID, "assignment_update", "assignment", id, map[string]any{
		"assetId": assetID.Hex(),
		"userId":  userID.Hex(),
	})
	utils.RespondWithJSON(w, http.StatusOK, assignment)
}

func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	adminID, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid assignment id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.Store.Assignments().DeleteByID(ctx, id); err != nil {
		respondWriteError(w, err, "assignment")
		return
	}

	h.audit(ctx, adminID, "assignment_delete", "assignment", id, nil)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "assignment deleted successfully"})
}
