package store

import (
	"context"
	"errors"
	"statekeeper/internal/migration"
	"statekeeper/internal/models"
	"statekeeper/internal/providers"
	"statekeeper/internal/storage"
	"statekeeper/internal/testutil"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "player-1"

var epoch = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

type fixture struct {
	store   *StateStore
	backend *testutil.MockBackend
	logger  *testutil.MockLogger
	metrics *testutil.MockMetrics
	clock   *providers.ManualClock
}

func newFixture(t *testing.T, compress bool) *fixture {
	t.Helper()
	f := &fixture{
		backend: testutil.NewMockBackend(),
		logger:  &testutil.MockLogger{},
		metrics: &testutil.MockMetrics{},
		clock:   providers.NewManualClock(epoch),
	}
	var codec *Codec
	if compress {
		comp, err := storage.NewZstdCompressor()
		require.NoError(t, err)
		codec = NewCodec(comp, true)
	} else {
		codec = NewCodec(nil, false)
	}
	chain := migration.NewDefaultChain(f.logger, f.metrics)
	f.store = NewStateStore(f.backend, codec, chain, f.clock, f.logger, f.metrics, testKey)
	return f
}

type fakeSource struct {
	mu       sync.Mutex
	state    *models.PersistedState
	revision int64
	syncedAt time.Time
	saveID   string
}

func (s *fakeSource) Checkpoint() (*models.PersistedState, int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone(), s.revision
}

func (s *fakeSource) MarkSynced(at time.Time, saveID string, revision int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if revision != s.revision {
		return false
	}
	s.syncedAt = at
	s.saveID = saveID
	return true
}

func (s *fakeSource) bump() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revision++
}

// hookBackend runs onSave before each write reaches the mock backend.
type hookBackend struct {
	*testutil.MockBackend
	onSave func()
}

func (h *hookBackend) Save(ctx context.Context, key string, blob []byte) error {
	if h.onSave != nil {
		h.onSave()
	}
	return h.MockBackend.Save(ctx, key, blob)
}

func sampleState() *models.PersistedState {
	s := models.NewPersistedState()
	s.Profile.PlayerID = "p1"
	s.Currency.Gold = 1200
	s.Currency.Gem = 30
	s.Characters = append(s.Characters, models.OwnedCharacter{InstanceID: "c1", CharacterID: "knight", Level: 5})
	s.Items = append(s.Items, models.OwnedItem{ItemID: "potion", Kind: models.ItemKindStackable, Count: 3})
	s.EventCurrency.Set("spring", "petal", 40)
	return s
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	for _, compress := range []bool{false, true} {
		f := newFixture(t, compress)
		ctx := context.Background()
		state := sampleState()

		require.NoError(t, f.store.Save(ctx, state))
		assert.Equal(t, epoch, state.LastSyncAt)
		assert.NotEmpty(t, state.SaveID)
		assert.Equal(t, compress, storage.IsCompressed(f.backend.LastSave))

		loaded, err := f.store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, state.Currency, loaded.Currency)
		assert.Equal(t, state.Characters, loaded.Characters)
		assert.Equal(t, state.Items, loaded.Items)
		assert.Equal(t, int64(40), loaded.EventCurrency.Get("spring", "petal"))
		assert.Equal(t, state.SaveID, loaded.SaveID)
		assert.True(t, loaded.LastSyncAt.Equal(epoch))
		assert.Equal(t, models.CurrentVersion, loaded.Version)
	}
}

func TestSave_DoesNotStampOnFailure(t *testing.T) {
	f := newFixture(t, false)
	f.backend.SaveErr = errors.New("disk full")
	state := sampleState()

	err := f.store.Save(context.Background(), state)
	assert.ErrorIs(t, err, models.ErrSaveFailed)
	assert.True(t, state.LastSyncAt.IsZero())
	assert.Empty(t, state.SaveID)
	assert.Equal(t, 1, f.metrics.Failures["save"])
}

func TestLoad_NoData(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.store.Load(context.Background())
	assert.ErrorIs(t, err, models.ErrNoData)
	assert.ErrorIs(t, err, models.ErrLoadFailed)
}

func TestLoad_BackendError(t *testing.T) {
	f := newFixture(t, false)
	f.backend.Data[testKey] = []byte(`{}`)
	f.backend.LoadErr = errors.New("io")

	_, err := f.store.Load(context.Background())
	assert.ErrorIs(t, err, models.ErrLoadFailed)
	assert.NotErrorIs(t, err, models.ErrNoData)
}

func TestLoad_CorruptBlob(t *testing.T) {
	f := newFixture(t, false)
	f.backend.Data[testKey] = []byte("not json")

	_, err := f.store.Load(context.Background())
	assert.ErrorIs(t, err, models.ErrLoadFailed)
}

func TestLoad_MigratesV1AndResaves(t *testing.T) {
	f := newFixture(t, false)
	f.backend.Data[testKey] = []byte(`{"version":1,"gold":5000}`)

	loaded, err := f.store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5000), loaded.Currency.Gold)
	assert.Equal(t, models.CurrentVersion, loaded.Version)
	assert.NotNil(t, loaded.Characters)
	assert.NotNil(t, loaded.PurchaseRecords)
	assert.Equal(t, 1, f.backend.SaveCount())

	var stored map[string]any
	require.NoError(t, json.Unmarshal(f.backend.Data[testKey], &stored))
	assert.EqualValues(t, models.CurrentVersion, stored["version"])
	assert.NotContains(t, stored, "gold")

	// A second load finds the current version and does not write.
	_, err = f.store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, f.backend.SaveCount())
}

func TestLoad_MigratesV2EventCurrency(t *testing.T) {
	f := newFixture(t, false)
	f.backend.Data[testKey] = []byte(`{"version":2,"currency":{"gold":10},"eventCurrency":{"spring:petal":7}}`)

	loaded, err := f.store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), loaded.EventCurrency.Get("spring", "petal"))
	assert.Equal(t, int64(10), loaded.Currency.Gold)
}

func TestLoad_ResaveFailureMarksDirty(t *testing.T) {
	f := newFixture(t, false)
	f.backend.Data[testKey] = []byte(`{"version":1,"gold":5}`)
	f.backend.SaveErr = errors.New("read-only")

	loaded, err := f.store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), loaded.Currency.Gold)
	assert.True(t, f.store.IsDirty())
	assert.Equal(t, 1, f.logger.Count("warn"))
}

func TestLoad_NewerVersionWarns(t *testing.T) {
	f := newFixture(t, false)
	f.backend.Data[testKey] = []byte(`{"version":99,"currency":{"gem":3}}`)

	loaded, err := f.store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), loaded.Currency.Gem)
	assert.Equal(t, 1, f.logger.Count("warn"))
	assert.Equal(t, 0, f.backend.SaveCount())
}

func TestSave_RefusesNewerVersion(t *testing.T) {
	f := newFixture(t, false)
	state := sampleState()
	state.Version = models.CurrentVersion + 1

	err := f.store.Save(context.Background(), state)
	assert.ErrorIs(t, err, models.ErrVersionTooNew)
	assert.ErrorIs(t, err, models.ErrSaveFailed)
	assert.Equal(t, 0, f.backend.SaveCount())
	assert.Empty(t, state.SaveID)
}

func TestFlush_KeepsNewerSaveIntact(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	original := []byte(`{"version":99,"currency":{"gem":3},"guild":{"id":"g1"}}`)
	f.backend.Data[testKey] = original

	loaded, err := f.store.Load(ctx)
	require.NoError(t, err)
	f.store.Track(&fakeSource{state: loaded})
	f.store.MarkDirty()

	require.NoError(t, f.store.Flush(ctx))
	assert.Equal(t, 0, f.backend.SaveCount())
	assert.Equal(t, original, f.backend.Data[testKey])
	assert.True(t, f.store.IsDirty())
	assert.Equal(t, 2, f.logger.Count("warn"))
}

func TestLoad_RepairsNullCollections(t *testing.T) {
	f := newFixture(t, false)
	f.backend.Data[testKey] = []byte(`{"version":3,"characters":null,"items":null,"eventCurrency":null}`)

	loaded, err := f.store.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, loaded.Characters)
	assert.NotNil(t, loaded.Items)
	assert.NotNil(t, loaded.EventCurrency)
	assert.NotNil(t, loaded.StageEntryRecords)
}

func TestLoad_ReadsPlainBlobWithCompressionOn(t *testing.T) {
	f := newFixture(t, true)
	f.backend.Data[testKey] = []byte(`{"version":3,"currency":{"gold":77}}`)

	loaded, err := f.store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(77), loaded.Currency.Gold)
}

func TestStore_NotConfigured(t *testing.T) {
	s := NewStateStore(nil, nil, nil, providers.NewTimeProvider(), &testutil.MockLogger{}, &testutil.MockMetrics{}, "")
	ctx := context.Background()

	assert.ErrorIs(t, s.Save(ctx, models.NewPersistedState()), models.ErrConfigMissing)
	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, models.ErrConfigMissing)
	assert.ErrorIs(t, s.Delete(ctx), models.ErrConfigMissing)
	assert.ErrorIs(t, s.EnableAutoSave(time.Second), models.ErrConfigMissing)
}

func TestDelete(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	require.NoError(t, f.store.Save(ctx, sampleState()))
	f.store.MarkDirty()

	require.NoError(t, f.store.Delete(ctx))
	assert.False(t, f.store.IsDirty())
	_, err := f.store.Load(ctx)
	assert.ErrorIs(t, err, models.ErrNoData)
}

func TestDirty_ClearedBySave(t *testing.T) {
	f := newFixture(t, false)
	assert.False(t, f.store.IsDirty())
	f.store.MarkDirty()
	f.store.MarkDirty()
	assert.True(t, f.store.IsDirty())

	require.NoError(t, f.store.Save(context.Background(), sampleState()))
	assert.False(t, f.store.IsDirty())
}

func TestDirty_KeptWhenSaveFails(t *testing.T) {
	f := newFixture(t, false)
	f.store.MarkDirty()
	f.backend.SaveErr = errors.New("boom")

	assert.Error(t, f.store.Save(context.Background(), sampleState()))
	assert.True(t, f.store.IsDirty())
}

func TestFlush(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	src := &fakeSource{state: sampleState()}
	f.store.Track(src)

	require.NoError(t, f.store.Flush(ctx))
	assert.Equal(t, 0, f.backend.SaveCount(), "clean store must not write")

	f.store.MarkDirty()
	require.NoError(t, f.store.Flush(ctx))
	assert.Equal(t, 1, f.backend.SaveCount())
	assert.False(t, f.store.IsDirty())
	assert.Equal(t, epoch, src.syncedAt)
	assert.NotEmpty(t, src.saveID)
}

func TestFlush_LeavesSyncStampWhenRecordMovesDuringSave(t *testing.T) {
	f := newFixture(t, false)
	src := &fakeSource{state: sampleState()}
	backend := &hookBackend{MockBackend: f.backend, onSave: src.bump}
	f.store = NewStateStore(backend, NewCodec(nil, false), migration.NewDefaultChain(f.logger, f.metrics), f.clock, f.logger, f.metrics, testKey)
	f.store.Track(src)
	f.store.MarkDirty()

	require.NoError(t, f.store.Flush(context.Background()))
	assert.Equal(t, 1, f.backend.SaveCount())
	assert.True(t, src.syncedAt.IsZero())
	assert.Empty(t, src.saveID)
}

func TestFlush_SkipsUnversionedState(t *testing.T) {
	f := newFixture(t, false)
	state := sampleState()
	state.Version = 0
	f.store.Track(&fakeSource{state: state})
	f.store.MarkDirty()

	require.NoError(t, f.store.Flush(context.Background()))
	assert.Equal(t, 0, f.backend.SaveCount())
	assert.True(t, f.store.IsDirty())
}

func TestEnableAutoSave_NeedsSource(t *testing.T) {
	f := newFixture(t, false)
	assert.ErrorIs(t, f.store.EnableAutoSave(time.Second), models.ErrConfigMissing)
}

func TestDisableAutoSave_FlushesPending(t *testing.T) {
	f := newFixture(t, false)
	f.store.Track(&fakeSource{state: sampleState()})
	require.NoError(t, f.store.EnableAutoSave(time.Hour))

	f.store.MarkDirty()
	require.NoError(t, f.store.DisableAutoSave(context.Background()))
	assert.Equal(t, 1, f.backend.SaveCount())
	assert.False(t, f.store.IsDirty())
}

func TestAutoSave_Fires(t *testing.T) {
	f := newFixture(t, false)
	f.store.Track(&fakeSource{state: sampleState()})
	f.store.MarkDirty()
	require.NoError(t, f.store.EnableAutoSave(time.Second))
	defer f.store.Close(context.Background())

	assert.Eventually(t, func() bool {
		return f.backend.SaveCount() >= 1
	}, 5*time.Second, 50*time.Millisecond)
}
