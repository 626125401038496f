package store

import (
	"context"
	"errors"
	"fmt"
	"statekeeper/internal/migration"
	"statekeeper/internal/models"
	"statekeeper/internal/providers"
	"statekeeper/internal/storage"
	"statekeeper/internal/structures"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/roylee0704/gron"
	"go.uber.org/atomic"
)

// StateSource is the live record the store persists on auto-save.
// Checkpoint pairs a copy with its revision; MarkSynced applies the save
// stamp only if the record is still at that revision.
type StateSource interface {
	Checkpoint() (*models.PersistedState, int64)
	MarkSynced(at time.Time, saveID string, revision int64) bool
}

// StateStore owns load and save of the persisted record. It is not
// reentrant: save, load and delete are serialized on one mutex.
type StateStore struct {
	mu      sync.Mutex
	backend storage.Backend
	codec   *Codec
	chain   *migration.Chain
	clock   providers.TimeSource
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	key     string

	// pending counts MarkDirty calls not yet covered by a successful save.
	pending atomic.Int64

	cronMu sync.Mutex
	cron   *gron.Cron
	source StateSource
}

func NewStateStore(backend storage.Backend, codec *Codec, chain *migration.Chain, clock providers.TimeSource, logger providers.Logger, metrics providers.MetricsProviderInterface, key string) *StateStore {
	return &StateStore{
		backend: backend,
		codec:   codec,
		chain:   chain,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
		key:     key,
	}
}

func NewStateStoreProvider(conf *structures.Config, backend storage.Backend, codec *Codec, chain *migration.Chain, clock providers.TimeSource, logger providers.Logger, metrics providers.MetricsProviderInterface) *StateStore {
	return NewStateStore(backend, codec, chain, clock, logger, metrics, conf.Storage.Key)
}

func (s *StateStore) configured() error {
	if s.backend == nil || s.codec == nil || s.chain == nil || s.key == "" {
		return models.ErrConfigMissing
	}
	return nil
}

func (s *StateStore) MarkDirty() {
	s.pending.Inc()
}

func (s *StateStore) IsDirty() bool {
	return s.pending.Load() > 0
}

// Save writes state and, on success, stamps its LastSyncAt and SaveID and
// clears the dirty flag.
func (s *StateStore) Save(ctx context.Context, state *models.PersistedState) error {
	if err := s.configured(); err != nil {
		return err
	}
	if state == nil {
		return fmt.Errorf("%w: nil state", models.ErrSaveFailed)
	}
	marks := s.pending.Load()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx, state, marks)
}

func (s *StateStore) saveLocked(ctx context.Context, state *models.PersistedState, marks int64) error {
	if state.Version > models.CurrentVersion {
		return fmt.Errorf("%w: v%d, this build writes v%d", models.ErrVersionTooNew, state.Version, models.CurrentVersion)
	}
	start := time.Now()
	now := s.clock.Now()
	saveID := uuid.NewString()

	candidate := state.Clone()
	candidate.LastSyncAt = now
	candidate.SaveID = saveID

	blob, err := s.codec.Encode(candidate)
	if err != nil {
		s.metrics.IncPersistenceFailures("save")
		return fmt.Errorf("%w: encode: %v", models.ErrSaveFailed, err)
	}
	if err := s.backend.Save(ctx, s.key, blob); err != nil {
		s.metrics.IncPersistenceFailures("save")
		return fmt.Errorf("%w: %v", models.ErrSaveFailed, err)
	}

	state.LastSyncAt = now
	state.SaveID = saveID
	s.settle(marks)
	s.metrics.ObservePersistenceDuration("save", time.Since(start))
	s.logger.Debugf(providers.TypeStore, "Saved %s v%d (%d bytes, save %s)", s.key, state.Version, len(blob), saveID)
	return nil
}

// settle clears the marks observed before a save, leaving any made while
// it was running.
func (s *StateStore) settle(marks int64) {
	for {
		cur := s.pending.Load()
		next := cur - marks
		if next < 0 {
			next = 0
		}
		if s.pending.CompareAndSwap(cur, next) {
			return
		}
	}
}

// Load reads, migrates and repairs the stored record. A record found at a
// stale version is re-saved at the current version before it is returned.
// ErrNoData means nothing has been saved yet.
func (s *StateStore) Load(ctx context.Context) (*models.PersistedState, error) {
	if err := s.configured(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	if !s.backend.Exists(ctx, s.key) {
		return nil, models.ErrNoData
	}
	blob, err := s.backend.Load(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, models.ErrNoData
		}
		s.metrics.IncPersistenceFailures("load")
		return nil, fmt.Errorf("%w: %v", models.ErrLoadFailed, err)
	}

	doc, err := s.codec.DecodeDocument(blob)
	if err != nil {
		s.metrics.IncPersistenceFailures("load")
		return nil, fmt.Errorf("%w: %v", models.ErrLoadFailed, err)
	}

	fromVersion := doc.Version()
	migrated := s.chain.NeedsMigration(fromVersion, models.CurrentVersion)
	if migrated {
		doc = s.chain.Migrate(doc, models.CurrentVersion)
		s.logger.Infof(providers.TypeStore, "Migrated %s from v%d to v%d", s.key, fromVersion, doc.Version())
	} else if fromVersion > models.CurrentVersion {
		s.logger.Warnf(providers.TypeStore, "Save %s is v%d, newer than this build (v%d); it will not be overwritten", s.key, fromVersion, models.CurrentVersion)
	}

	state, err := s.codec.Bind(doc)
	if err != nil {
		s.metrics.IncPersistenceFailures("load")
		if migrated {
			return nil, fmt.Errorf("%w: v%d->v%d: %v", models.ErrMigrationFailed, fromVersion, models.CurrentVersion, err)
		}
		return nil, fmt.Errorf("%w: %v", models.ErrLoadFailed, err)
	}
	if state.Repair() {
		s.logger.Debugf(providers.TypeStore, "Repaired empty collections in %s", s.key)
	}

	if migrated {
		if err := s.saveLocked(ctx, state, 0); err != nil {
			s.logger.Warnf(providers.TypeStore, "Failed to persist migrated %s, will retry on next save: %s", s.key, err)
			s.MarkDirty()
		}
	}

	s.metrics.ObservePersistenceDuration("load", time.Since(start))
	return state, nil
}

func (s *StateStore) Delete(ctx context.Context) error {
	if err := s.configured(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(ctx, s.key); err != nil {
		s.metrics.IncPersistenceFailures("delete")
		return fmt.Errorf("%w: delete: %v", models.ErrSaveFailed, err)
	}
	s.pending.Store(0)
	s.logger.Infof(providers.TypeStore, "Deleted %s", s.key)
	return nil
}

// Track sets the record auto-save and Flush persist.
func (s *StateStore) Track(source StateSource) {
	s.cronMu.Lock()
	defer s.cronMu.Unlock()
	s.source = source
}

// EnableAutoSave persists the tracked record every interval while it is
// dirty. gron rounds intervals below one second up to one second.
func (s *StateStore) EnableAutoSave(interval time.Duration) error {
	if err := s.configured(); err != nil {
		return err
	}
	s.cronMu.Lock()
	defer s.cronMu.Unlock()
	if s.source == nil {
		return fmt.Errorf("%w: auto-save needs a tracked state", models.ErrConfigMissing)
	}
	if s.cron != nil {
		s.cron.Stop()
	}

	s.cron = gron.New()
	s.cron.AddFunc(gron.Every(interval), s.autoSave)
	s.cron.Start()
	s.logger.Infof(providers.TypeStore, "Auto-save enabled every %s", interval)
	return nil
}

// DisableAutoSave stops the timer and flushes one final save if dirty.
func (s *StateStore) DisableAutoSave(ctx context.Context) error {
	s.cronMu.Lock()
	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
		s.logger.Infof(providers.TypeStore, "Auto-save disabled")
	}
	s.cronMu.Unlock()
	return s.Flush(ctx)
}

func (s *StateStore) autoSave() {
	if err := s.Flush(context.Background()); err != nil {
		s.logger.Errorf(providers.TypeStore, "Auto-save failed: %s", err)
	}
}

// Flush saves the tracked record if it is dirty and has been saved at
// least once (Version > 0). A record newer than this build is left dirty
// and unsaved so the stored save keeps the fields this build cannot read.
func (s *StateStore) Flush(ctx context.Context) error {
	if !s.IsDirty() {
		return nil
	}
	s.cronMu.Lock()
	source := s.source
	s.cronMu.Unlock()
	if source == nil {
		return nil
	}

	marks := s.pending.Load()
	state, revision := source.Checkpoint()
	if state == nil || state.Version <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.saveLocked(ctx, state, marks); err != nil {
		if errors.Is(err, models.ErrVersionTooNew) {
			s.logger.Warnf(providers.TypeStore, "Not saving %s: %s", s.key, err)
			return nil
		}
		return err
	}
	if !source.MarkSynced(state.LastSyncAt, state.SaveID, revision) {
		s.logger.Debugf(providers.TypeStore, "Record changed during save %s; sync stamp left to the next save", state.SaveID)
	}
	return nil
}

// Close stops auto-save and flushes pending changes.
func (s *StateStore) Close(ctx context.Context) error {
	return s.DisableAutoSave(ctx)
}
