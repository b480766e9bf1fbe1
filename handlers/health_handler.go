package handlers

import (
	"context"
	"net/http"
	"time"

	"invtrack/utils"
)

type HealthCheckResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resp := HealthCheckResponse{
		Status:    "ok",
		Database:  "up",
		Timestamp: time.Now().UTC(),
	}
	code := http.StatusOK
	if err := h.Store.Ping(ctx); err != nil {
		resp.Status = "degraded"
		resp.Database = "down"
		code = http.StatusServiceUnavailable
	}
	utils.RespondWithJSON(w, code, resp)
}
