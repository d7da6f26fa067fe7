package handlers

import (
	"context"
	"net/http"
	"time"

	applog "backbar/internal/log"
)

type healthResponse struct {
	Status   string    `json:"status"`
	Database string    `json:"database"`
	AI       bool      `json:"ai"`
	Time     time.Time `json:"time"`
}

// Health reports readiness. A configured database that does not answer a
// ping degrades the status and returns 503.
func Health(w http.ResponseWriter, r *http.Request) {
	applog.Debug(r.Context(), "health check requested", "method", r.Method)
	resp := healthResponse{
		Status:   "ok",
		Database: "unconfigured",
		AI:       assistant != nil,
		Time:     time.Now().UTC(),
	}

	status := http.StatusOK
	if database != nil {
		resp.Database = "ok"
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		sqlDB, err := database.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			applog.Error(r.Context(), "database ping failed", "error", err)
			resp.Status = "degraded"
			resp.Database = "down"
			status = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, status, resp)
}
