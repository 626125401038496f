package internal

import (
	"context"
	"statekeeper/internal/models"
	"statekeeper/internal/storage"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deltaWithGold(gold int64) *models.Delta {
	return &models.Delta{Currency: &models.Currency{Gold: gold}}
}

func TestRestore_NewPlayerMarksDirty(t *testing.T) {
	h := newHarness(t, storage.NewMemoryBackend())
	app := h.app()

	require.NoError(t, app.Restore(context.Background()))

	assert.True(t, h.store.IsDirty())
	assert.Equal(t, models.CurrentVersion, h.state.Version())
	assert.Equal(t, int64(0), h.state.Currency().Gold)
}

func TestRestore_HydratesExistingSave(t *testing.T) {
	backend := storage.NewMemoryBackend()
	seed := newHarness(t, backend)
	saved := models.NewPersistedState()
	saved.Currency.Gold = 700
	saved.Characters = []models.OwnedCharacter{{InstanceID: "c1", CharacterID: "knight", Level: 12}}
	require.NoError(t, seed.store.Save(context.Background(), saved))

	h := newHarness(t, backend)
	app := h.app()
	require.NoError(t, app.Restore(context.Background()))

	assert.Equal(t, int64(700), h.state.Currency().Gold)
	c, ok := h.state.Character("c1")
	require.True(t, ok)
	assert.Equal(t, 12, c.Level)
	assert.False(t, h.store.IsDirty())
}

func seedWinterBalance(t *testing.T, backend storage.Backend) {
	t.Helper()
	saved := models.NewPersistedState()
	saved.EventCurrency = models.EventCurrency{"winter": {"snowflake": 137}}
	require.NoError(t, newHarness(t, backend).store.Save(context.Background(), saved))
}

func TestRun_ConvertsExpiredEventsAndFlushesOnShutdown(t *testing.T) {
	backend := storage.NewMemoryBackend()
	seedWinterBalance(t, backend)

	h := newHarness(t, backend)
	app := h.app()

	// Shut down as soon as the startup conversion has been applied.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.state.Subscribe(func(int64) { cancel() })

	require.NoError(t, app.Run(ctx))

	reloaded, err := newHarness(t, backend).store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1370), reloaded.Currency.Gold)
	assert.Equal(t, int64(0), reloaded.EventCurrency.Get("winter", "snowflake"))
	assert.False(t, h.store.IsDirty())
}

func TestRun_CanceledBeforeStartSkipsConversion(t *testing.T) {
	backend := storage.NewMemoryBackend()
	seedWinterBalance(t, backend)

	h := newHarness(t, backend)
	app := h.app()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, app.Run(ctx))

	assert.Equal(t, int64(0), h.state.Currency().Gold)
	assert.Equal(t, int64(137), h.state.EventCurrency().Get("winter", "snowflake"))
	assert.Equal(t, 1, h.logger.Count("error"))
}
