package http

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/hoaivu016/abc-backoffice/internal/store"
	"github.com/hoaivu016/abc-backoffice/internal/sync"
)

// SyncHandler exposes sync status and a manual sync trigger.
type SyncHandler struct {
	Syncer  *sync.Syncer
	Monitor *sync.Monitor
	Store   *store.Store
	Queue   *store.Queue
}

// StatusResponse reports the current sync state.
type StatusResponse struct {
	Online         bool                 `json:"online"`
	PendingActions int                  `json:"pendingActions"`
	LastSyncDevice string               `json:"lastSyncDevice,omitempty"`
	Logs           []store.SyncLogEntry `json:"logs"`
}

// Status returns connectivity, queue depth and recent sync history.
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, StatusResponse{
		Online:         h.Monitor.Online(),
		PendingActions: h.Queue.Len(),
		LastSyncDevice: h.Store.LastSyncDevice(),
		Logs:           h.Store.SyncLogs(),
	})
}

// Trigger re-probes connectivity and, when reachable, runs a full
// synchronization cycle.
func (h *SyncHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	if !h.Monitor.Check(r.Context()) {
		respondError(w, r, http.StatusServiceUnavailable, "remote store unreachable")
		return
	}
	if err := h.Syncer.Synchronize(r.Context()); err != nil {
		respondError(w, r, http.StatusBadGateway, err.Error())
		return
	}
	h.Status(w, r)
}
