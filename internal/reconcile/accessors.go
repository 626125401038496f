package reconcile

import (
	"statekeeper/internal/models"
	"time"
)

// Snapshot returns a deep copy of the current record.
func (r *Reconciler) Snapshot() *models.PersistedState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Clone()
}

// Checkpoint returns a deep copy of the record with the revision it
// reflects.
func (r *Reconciler) Checkpoint() (*models.PersistedState, int64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Clone(), r.revision.Load()
}

// Revision increases by one for every applied delta, hydration or recorded
// save.
func (r *Reconciler) Revision() int64 {
	return r.revision.Load()
}

func (r *Reconciler) Version() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Version
}

func (r *Reconciler) LastSyncAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.LastSyncAt
}

func (r *Reconciler) Profile() models.Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Profile
}

func (r *Reconciler) Currency() models.Currency {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Currency
}

func (r *Reconciler) Characters() []models.OwnedCharacter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.OwnedCharacter{}, r.state.Characters...)
}

// Character looks up an owned character by instance id.
func (r *Reconciler) Character(instanceID string) (models.OwnedCharacter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.state.Characters {
		if c.InstanceID == instanceID {
			return c, true
		}
	}
	return models.OwnedCharacter{}, false
}

func (r *Reconciler) Items() []models.OwnedItem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.OwnedItem{}, r.state.Items...)
}

func (r *Reconciler) EventCurrency() models.EventCurrency {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.EventCurrency.Clone()
}

func (r *Reconciler) PurchaseRecord(productID string) (models.LimitRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.state.PurchaseRecords[productID]
	return rec, ok
}

func (r *Reconciler) StageEntryRecord(stageID string) (models.LimitRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.state.StageEntryRecords[stageID]
	return rec, ok
}
