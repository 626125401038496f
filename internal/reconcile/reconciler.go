package reconcile

import (
	"slices"
	"statekeeper/internal/models"
	"statekeeper/internal/providers"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// ChangeListener is notified after every applied delta with the new
// revision.
type ChangeListener func(revision int64)

// Reconciler holds the live in-memory projection of the persisted record.
// Readers get copies; the record only changes through ApplyDelta, Update,
// Hydrate and MarkSynced. The revision is bumped under the write lock, so a
// copy taken with Checkpoint always matches the revision it reports.
type Reconciler struct {
	mu       sync.RWMutex
	state    *models.PersistedState
	revision atomic.Int64

	clock   providers.TimeSource
	logger  providers.Logger
	metrics providers.MetricsProviderInterface

	listenersMu sync.Mutex
	listeners   map[int]ChangeListener
	nextID      int
}

func NewReconciler(clock providers.TimeSource, logger providers.Logger, metrics providers.MetricsProviderInterface) *Reconciler {
	return &Reconciler{
		state:     models.NewPersistedState(),
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
		listeners: make(map[int]ChangeListener),
	}
}

// Subscribe registers fn and returns a function that removes it.
func (r *Reconciler) Subscribe(fn ChangeListener) func() {
	r.listenersMu.Lock()
	defer r.listenersMu.Unlock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn
	return func() {
		r.listenersMu.Lock()
		defer r.listenersMu.Unlock()
		delete(r.listeners, id)
	}
}

func (r *Reconciler) notify(revision int64) {
	r.listenersMu.Lock()
	ids := make([]int, 0, len(r.listeners))
	for id := range r.listeners {
		ids = append(ids, id)
	}
	r.listenersMu.Unlock()

	slices.Sort(ids)
	for _, id := range ids {
		r.listenersMu.Lock()
		fn, ok := r.listeners[id]
		r.listenersMu.Unlock()
		if ok {
			fn(revision)
		}
	}
}

// Hydrate replaces the whole record, typically with the result of a load.
// Listeners are not notified: the record matches what is stored.
func (r *Reconciler) Hydrate(state *models.PersistedState) {
	if state == nil {
		return
	}
	next := state.Clone()
	next.Repair()

	r.mu.Lock()
	r.state = next
	rev := r.revision.Inc()
	r.mu.Unlock()

	r.metrics.SetStateRevision(rev)
	r.logger.Infof(providers.TypeSync, "Hydrated state v%d (%d characters, %d items)", next.Version, len(next.Characters), len(next.Items))
}

// ApplyDelta merges an authoritative delta. It never fails: references to
// unknown ids are ignored. Field groups are applied in a fixed order so a
// delta that adds and removes the same id ends with it removed.
func (r *Reconciler) ApplyDelta(delta *models.Delta) {
	if !delta.HasChanges() {
		return
	}
	r.mu.Lock()
	rev := r.applyLocked(delta)
	r.mu.Unlock()
	r.applied(rev)
}

// Update derives a delta from the current record and applies it under the
// same write lock, so no other delta can land between the read and the
// write. fn gets a copy and must not call back into the Reconciler. A nil
// or empty delta changes nothing; Update reports whether one was applied.
func (r *Reconciler) Update(fn func(current *models.PersistedState) *models.Delta) bool {
	r.mu.Lock()
	delta := fn(r.state.Clone())
	if !delta.HasChanges() {
		r.mu.Unlock()
		return false
	}
	rev := r.applyLocked(delta)
	r.mu.Unlock()
	r.applied(rev)
	return true
}

func (r *Reconciler) applyLocked(delta *models.Delta) int64 {
	s := r.state
	if delta.Profile != nil {
		s.Profile = *delta.Profile
	}
	if delta.Currency != nil {
		s.Currency = *delta.Currency
	}
	for _, c := range delta.AddedCharacters {
		s.Characters = upsertCharacter(s.Characters, c)
	}
	if len(delta.RemovedCharacterIDs) > 0 {
		s.Characters = removeCharacters(s.Characters, delta.RemovedCharacterIDs)
	}
	for _, item := range delta.AddedItems {
		var ok bool
		s.Items, ok = upsertItem(s.Items, item)
		if !ok {
			r.logger.Warnf(providers.TypeSync, "Ignoring equipment %q without instance id", item.ItemID)
		}
	}
	if len(delta.RemovedItemIDs) > 0 {
		s.Items = removeItems(s.Items, delta.RemovedItemIDs)
	}
	if delta.StageProgress != nil {
		s.StageProgress = delta.StageProgress.Clone()
	}
	if delta.GachaPity != nil {
		s.GachaPity = delta.GachaPity.Clone()
	}
	if delta.QuestProgress != nil {
		s.QuestProgress = delta.QuestProgress.Clone()
	}
	if delta.EventCurrency != nil {
		s.EventCurrency = delta.EventCurrency.Clone()
	}
	upsertRecords(s.PurchaseRecords, delta.PurchaseRecords)
	upsertRecords(s.StageEntryRecords, delta.StageEntryRecords)
	s.LastSyncAt = r.clock.Now()
	return r.revision.Inc()
}

func (r *Reconciler) applied(rev int64) {
	r.metrics.IncDeltasApplied()
	r.metrics.SetStateRevision(rev)
	r.logger.Debugf(providers.TypeSync, "Applied delta, revision %d", rev)
	r.notify(rev)
}

// MarkSynced records a successful save of the record taken at revision.
// It is a no-op returning false when the record has moved on since, so a
// save never overwrites the sync stamp of a later delta. A recorded save
// bumps the revision without notifying listeners.
func (r *Reconciler) MarkSynced(at time.Time, saveID string, revision int64) bool {
	r.mu.Lock()
	if r.revision.Load() != revision {
		r.mu.Unlock()
		return false
	}
	r.state.LastSyncAt = at
	r.state.SaveID = saveID
	rev := r.revision.Inc()
	r.mu.Unlock()

	r.metrics.SetStateRevision(rev)
	return true
}

func upsertCharacter(list []models.OwnedCharacter, c models.OwnedCharacter) []models.OwnedCharacter {
	for i := range list {
		if list[i].InstanceID == c.InstanceID {
			list[i] = c
			return list
		}
	}
	return append(list, c)
}

func removeCharacters(list []models.OwnedCharacter, ids []string) []models.OwnedCharacter {
	drop := idSet(ids)
	out := list[:0]
	for _, c := range list {
		if _, ok := drop[c.InstanceID]; !ok {
			out = append(out, c)
		}
	}
	return out
}

// upsertItem merges one item. Equipment is keyed by instance id; anything
// else is keyed by item id among non-equipment entries and takes the
// delta's count as the new total.
// TODO: revisit if the server starts sending additive stack counts.
func upsertItem(list []models.OwnedItem, item models.OwnedItem) ([]models.OwnedItem, bool) {
	if item.IsEquipment() {
		if item.InstanceID == "" {
			return list, false
		}
		for i := range list {
			if list[i].IsEquipment() && list[i].InstanceID == item.InstanceID {
				list[i] = item
				return list, true
			}
		}
		return append(list, item), true
	}

	for i := range list {
		if !list[i].IsEquipment() && list[i].ItemID == item.ItemID {
			list[i].Count = item.Count
			return list, true
		}
	}
	return append(list, item), true
}

// removeItems drops every entry whose instance id or item id is listed.
func removeItems(list []models.OwnedItem, ids []string) []models.OwnedItem {
	drop := idSet(ids)
	out := list[:0]
	for _, item := range list {
		_, byInstance := drop[item.InstanceID]
		_, byItem := drop[item.ItemID]
		if !byInstance && !byItem {
			out = append(out, item)
		}
	}
	return out
}

func upsertRecords(into map[string]models.LimitRecord, records []models.LimitRecord) {
	for _, rec := range records {
		if rec.SubjectID == "" {
			continue
		}
		into[rec.SubjectID] = rec
	}
}

// idSet drops empty ids so they never match entries without an id.
func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}
