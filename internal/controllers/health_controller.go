package controllers

import (
	"fmt"
	"net/http"
	"time"
)

type SyncStatus interface {
	IsDirty() bool
}

type HealthController struct {
	state     StateView
	store     SyncStatus
	startTime time.Time
}

type healthResponse struct {
	Status        string    `json:"status"`
	Uptime        string    `json:"uptime"`
	UptimeSeconds float64   `json:"uptime_seconds"`
	Version       int       `json:"version"`
	Revision      int64     `json:"revision"`
	Dirty         bool      `json:"dirty"`
	LastSyncAt    time.Time `json:"last_sync_at"`
}

func NewHealthController(state StateView, store SyncStatus) *HealthController {
	return &HealthController{
		state:     state,
		store:     store,
		startTime: time.Now(),
	}
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	snap := hc.state.Snapshot()
	uptime := time.Since(hc.startTime)
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Version:       snap.Version,
		Revision:      hc.state.Revision(),
		Dirty:         hc.store.IsDirty(),
		LastSyncAt:    snap.LastSyncAt,
	})
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}
