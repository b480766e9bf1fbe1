package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"invtrack/models"
	"invtrack/pagination"
	"invtrack/rules"
	"invtrack/store"
	"invtrack/utils"
)

// Assets are visible and editable by every logged-in user; deletion is
// admin-only.

var assetList = pagination.Config{
	Columns: map[string]pagination.Column{
		"name":          {Field: "name", Text: true},
		"serial_number": {Field: "serialNumber", Text: true},
		"asset_type_id": {Field: "assetTypeId"},
	},
	DefaultSortBy:    "name",
	DefaultDirection: pagination.Asc,
}

type assetRequest struct {
	Name         string `json:"name"`
	SerialNumber string `json:"serialNumber"`
	AssetTypeID  string `json:"assetTypeId"`
}

// decode validates field constraints and resolves the asset type reference.
func (req *assetRequest) decode(w http.ResponseWriter) (primitive.ObjectID, bool) {
	req.Name = strings.TrimSpace(req.Name)
	req.SerialNumber = strings.TrimSpace(req.SerialNumber)
	if req.Name == "" || len(req.Name) > 100 {
		utils.RespondWithError(w, http.StatusBadRequest, "name must be 1-100 characters")
		return primitive.NilObjectID, false
	}
	if req.SerialNumber == "" || len(req.SerialNumber) > 50 {
		utils.RespondWithError(w, http.StatusBadRequest, "serial number must be 1-50 characters")
		return primitive.NilObjectID, false
	}
	typeID, err := primitive.ObjectIDFromHex(req.AssetTypeID)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid asset type id")
		return primitive.NilObjectID, false
	}
	return typeID, true
}

func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := requireAuth(w, r); !ok {
		return
	}

	res, err := pagination.List(r.Context(), h.Store.Assets(), nil, assetList, pagination.ParseRequest(r.URL.Query()))
	if err != nil {
		log.Printf("list assets failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	respondList(w, res)
}

func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := requireAuth(w, r); !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid asset id")
		return
	}

	asset, err := h.Store.Assets().FindOne(r.Context(), store.Filter{"_id": id})
	if err != nil {
		respondWriteError(w, err, "asset")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, asset)
}

func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireAuth(w, r)
	if !ok {
		return
	}

	var req assetRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	typeID, ok := req.decode(w)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if respondRuleError(w, rules.Unique(ctx, h.Store.Assets(), "asset", "serialNumber", req.SerialNumber, primitive.NilObjectID)) {
		return
	}
	if respondRuleError(w, rules.ReferenceExists(ctx, h.Store.AssetTypes(), "asset type", typeID)) {
		return
	}

	now := time.Now().UTC()
	asset := models.Asset{
		ID:           primitive.NewObjectID(),
		Name:         req.Name,
		SerialNumber: req.SerialNumber,
		AssetTypeID:  typeID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.Store.Assets().Insert(ctx, asset); err != nil {
		respondWriteError(w, err, "asset")
		return
	}

	h.audit(ctx, userID, "asset_create", "asset", asset.ID, map[string]any{
		"name":         asset.Name,
		"serialNumber": asset.SerialNumber,
	})
	utils.RespondWithJSON(w, http.StatusCreated, asset)
}

func (h *Handler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireAuth(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid asset id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	asset, err := h.Store.Assets().FindOne(ctx, store.Filter{"_id": id})
	if err != nil {
		respondWriteError(w, err, "asset")
		return
	}

	var req assetRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	typeID, ok := req.decode(w)
	if !ok {
		return
	}

	if respondRuleError(w, rules.Unique(ctx, h.Store.Assets(), "asset", "serialNumber", req.SerialNumber, id)) {
		return
	}
	if respondRuleError(w, rules.ReferenceExists(ctx, h.Store.AssetTypes(), "asset type", typeID)) {
		return
	}

	now := time.Now().UTC()
	fields := store.Fields{
		"name":         req.Name,
		"serialNumber": req.SerialNumber,
		"assetTypeId":  typeID,
		"updatedAt":    now,
	}
	if err := h.Store.Assets().UpdateByID(ctx, id, fields); err != nil {
		respondWriteError(w, err, "asset")
		return
	}
	asset.Name = req.Name
	asset.SerialNumber = req.SerialNumber
	asset.AssetTypeID = typeID
	asset.UpdatedAt = now

	h.audit(ctx, userID, "asset_update", "asset", id, map[string]any{
		"name":         req.Name,
		"serialNumber": req.SerialNumber,
	})
	utils.RespondWithJSON(w, http.StatusOK, asset)
}

func (h *Handler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	adminID, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid asset id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	asset, err := h.Store.Assets().FindOne(ctx, store.Filter{"_id": id})
	if err != nil {
		respondWriteError(w, err, "asset")
		return
	}

	// An asset still handed out through assignments cannot be removed.
	if respondRuleError(w, rules.NoDependents(ctx, h.Store.Assignments(), "asset", asset.Name, "assignments", "assetId", id)) {
		return
	}

	if err := h.Store.Assets().DeleteByID(ctx, id); err != nil {
		respondWriteError(w, err, "asset")
		return
	}

	h.audit(ctx, adminID, "asset_delete", "asset", id, map[string]any{"name": asset.Name})
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "asset deleted successfully"})
}
