package providers

import (
	"os"
	"path/filepath"
	"statekeeper/internal/structures"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logConfig(dir, level string) *structures.Config {
	return &structures.Config{
		Logger: structures.LoggerConfig{Level: level, Mode: 0644, Dir: dir},
	}
}

func TestTypeEnum_String(t *testing.T) {
	assert.Equal(t, "store", TypeStore.String())
	assert.Equal(t, "http", TypeHTTP.String())
	assert.Equal(t, "app", TypeEnum(99).String())
}

func TestNewLogProvider_WritesPerCategoryFiles(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogProvider(logConfig(dir, "debug"))
	require.NoError(t, err)

	logger.Infof(TypeStore, "saved %s", "player")
	logger.Debugf(TypeSync, "applied delta %d", 4)
	logger.Warnf(TypeEnum(42), "falls back to app")
	logger.Close()

	for name := range map[string]struct{}{"app": {}, "store": {}, "sync": {}, "limit": {}, "event": {}, "http": {}} {
		assert.FileExists(t, filepath.Join(dir, name+".log"))
	}

	store, err := os.ReadFile(filepath.Join(dir, "store.log"))
	require.NoError(t, err)
	assert.Contains(t, string(store), "saved player")
	assert.Contains(t, string(store), `"type":"store"`)

	app, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(app), "falls back to app")
}

func TestNewLogProvider_RespectsLevel(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogProvider(logConfig(dir, "warn"))
	require.NoError(t, err)

	logger.Infof(TypeLimit, "hidden")
	logger.Errorf(TypeLimit, "shown")
	logger.Close()

	data, err := os.ReadFile(filepath.Join(dir, "limit.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestNewLogProvider_InvalidLevel(t *testing.T) {
	_, err := NewLogProvider(logConfig(t.TempDir(), "verbose"))
	assert.Error(t, err)
}

func TestNewLogProvider_InvalidDir(t *testing.T) {
	_, err := NewLogProvider(logConfig("/nonexistent/directory/path", "info"))
	assert.Error(t, err)
}
