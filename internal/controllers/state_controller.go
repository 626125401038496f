package controllers

import (
	"net/http"
	"statekeeper/internal/models"
	"statekeeper/internal/providers"
	"strconv"

	json "github.com/goccy/go-json"
)

type StateView interface {
	Snapshot() *models.PersistedState
	Checkpoint() (*models.PersistedState, int64)
	Revision() int64
	ApplyDelta(delta *models.Delta)
}

type StateController struct {
	logger providers.Logger
	state  StateView
	cache  providers.CacheProviderInterface
}

func NewStateController(logger providers.Logger, state StateView, cache providers.CacheProviderInterface) *StateController {
	return &StateController{logger: logger, state: state, cache: cache}
}

type deltaResponse struct {
	Revision int64 `json:"revision"`
}

// GetState serves the current record. Responses are cached under the
// revision they were encoded at, so a delta or a recorded save never
// serves a stale body.
func (sc *StateController) GetState(w http.ResponseWriter, r *http.Request) {
	cacheKey := "state:" + strconv.FormatInt(sc.state.Revision(), 10)
	if data, ok := sc.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	snap, revision := sc.state.Checkpoint()
	gson, err := json.Marshal(snap)
	if err != nil {
		sc.logger.Errorf(providers.TypeHTTP, "Encode state: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	sc.cache.Set("state:"+strconv.FormatInt(revision, 10), gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (sc *StateController) ApplyDelta(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var delta models.Delta
	if err := json.NewDecoder(r.Body).Decode(&delta); err != nil {
		sc.logger.Warnf(providers.TypeHTTP, "Rejected delta: %s", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed delta"})
		return
	}
	sc.state.ApplyDelta(&delta)
	writeJSON(w, http.StatusAccepted, deltaResponse{Revision: sc.state.Revision()})
}
