package handlers

import (
	"log"
	"net/http"

	"invtrack/pagination"
	"invtrack/store"
	"invtrack/utils"
)

var auditListConfig = pagination.Config{
	Columns: map[string]pagination.Column{
		"date":        {Field: "createdAt"},
		"action":      {Field: "action", Text: true},
		"entity_type": {Field: "entityType", Text: true},
	},
	DefaultSortBy:    "date",
	DefaultDirection: pagination.Desc,
}

// ListAuditLogs returns the change history, newest first. Admin-only.
// An entity_type query parameter narrows the view to one entity kind.
func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	var filter store.Filter
	if entityType := r.URL.Query().Get("entity_type"); entityType != "" {
		filter = store.Filter{"entityType": entityType}
	}

	res, err := pagination.List(r.Context(), h.Store.AuditLogs(), filter, auditListConfig, pagination.ParseRequest(r.URL.Query()))
	if err != nil {
		log.Printf("list audit logs failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	respondList(w, res)
}
