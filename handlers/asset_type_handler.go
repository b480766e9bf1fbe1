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

// Asset type management is admin-only.

var assetTypeList = pagination.Config{
	Columns: map[string]pagination.Column{
		"name": {Field: "name", Text: true},
	},
	DefaultSortBy:    "name",
	DefaultDirection: pagination.Asc,
}

type assetTypeRequest struct {
	Name string `json:"name"`
}

func (h *Handler) ListAssetTypes(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	res, err := pagination.List(r.Context(), h.Store.AssetTypes(), nil, assetTypeList, pagination.ParseRequest(r.URL.Query()))
	if err != nil {
		log.Printf("list asset types failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	respondList(w, res)
}

func (h *Handler) GetAssetType(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid asset type id")
		return
	}

	assetType, err := h.Store.AssetTypes().FindOne(r.Context(), store.Filter{"_id": id})
	if err != nil {
		respondWriteError(w, err, "asset type")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, assetType)
}

func (h *Handler) CreateAssetType(w http.ResponseWriter, r *http.Request) {
	adminID, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	var req assetTypeRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || len(req.Name) > 50 {
		utils.RespondWithError(w, http.StatusBadRequest, "name must be 1-50 characters")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if respondRuleError(w, rules.Unique(ctx, h.Store.AssetTypes(), "asset type", "name", req.Name, primitive.NilObjectID)) {
		return
	}

	assetType := models.AssetType{
		ID:        primitive.NewObjectID(),
		Name:      req.Name,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Store.AssetTypes().Insert(ctx, assetType); err != nil {
		respondWriteError(w, err, "asset type")
		return
	}

	h.audit(ctx, adminID, "asset_type_create", "asset_type", assetType.ID, map[string]any{"name": assetType.Name})
	utils.RespondWithJSON(w, http.StatusCreated, assetType)
}

func (h *Handler) UpdateAssetType(w http.ResponseWriter, r *http.Request) {
	adminID, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid asset type id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	assetType, err := h.Store.AssetTypes().FindOne(ctx, store.Filter{"_id": id})
	if err != nil {
		respondWriteError(w, err, "asset type")
		return
	}

	var req assetTypeRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || len(req.Name) > 50 {
		utils.RespondWithError(w, http.StatusBadRequest, "name must be 1-50 characters")
		return
	}

	// The record being edited must not conflict with itself.
	if respondRuleError(w, rules.Unique(ctx, h.Store.AssetTypes(), "asset type", "name", req.Name, id)) {
		return
	}

	if err := h.Store.AssetTypes().UpdateByID(ctx, id, store.Fields{"name": req.Name}); err != nil {
		respondWriteError(w, err, "asset type")
		return
	}
	assetType.Name = req.Name

	h.audit(ctx, adminID, "asset_type_update", "asset_type", id, map[string]any{"name": req.Name})
	utils.RespondWithJSON(w, http.StatusOK, assetType)
}

func (h *Handler) DeleteAssetType(w http.ResponseWriter, r *http.Request) {
	adminID, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid asset type id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	assetType, err := h.Store.AssetTypes().FindOne(ctx, store.Filter{"_id": id})
	if err != nil {
		respondWriteError(w, err, "asset type")
		return
	}

	// An asset type still referenced by assets cannot be removed.
	if respondRuleError(w, rules.NoDependents(ctx, h.Store.Assets(), "asset type", assetType.Name, "assets", "assetTypeId", id)) {
		return
	}

	if err := h.Store.AssetTypes().DeleteByID(ctx, id); err != nil {
		respondWriteError(w, err, "asset type")
		return
	}

	h.audit(ctx, adminID, "asset_type_delete", "asset_type", id, map[string]any{"name": assetType.Name})
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "asset type deleted successfully"})
}
