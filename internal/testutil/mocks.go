package testutil

import (
	"context"
	"errors"
	"fmt"
	"statekeeper/internal/providers"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (e LogEntry) Message() string {
	return fmt.Sprintf(e.Format, e.Args...)
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu            sync.Mutex
	Migrations    map[string]int
	Failures      map[string]int
	Persisted     map[string]int
	DeltasApplied int
	Revision      int64
	LimitChecks   map[string]int
	Conversions   int
	CacheHits     int
	CacheMisses   int
}

func (m *MockMetrics) bump(target *map[string]int, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if *target == nil {
		*target = make(map[string]int)
	}
	(*target)[key]++
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) ObservePersistenceDuration(op string, _ time.Duration) {
	m.bump(&m.Persisted, op)
}
func (m *MockMetrics) IncPersistenceFailures(op string) { m.bump(&m.Failures, op) }
func (m *MockMetrics) IncMigrations(path string)        { m.bump(&m.Migrations, path) }
func (m *MockMetrics) IncDeltasApplied() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeltasApplied++
}
func (m *MockMetrics) SetStateRevision(revision int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Revision = revision
}
func (m *MockMetrics) IncLimitChecks(scope string, allowed bool) {
	m.bump(&m.LimitChecks, fmt.Sprintf("%s:%t", scope, allowed))
}
func (m *MockMetrics) AddConversions(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Conversions += count
}

// MockCompressor implements storage.Compressor with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

// ErrMockNotFound is returned by MockBackend.Load for unknown keys.
var ErrMockNotFound = errors.New("mock backend: key not found")

// MockBackend implements storage.Backend in memory with injectable failures.
type MockBackend struct {
	mu       sync.Mutex
	Data     map[string][]byte
	SaveErr  error
	LoadErr  error
	DelErr   error
	Saves    int
	Loads    int
	LastSave []byte
}

func NewMockBackend() *MockBackend {
	return &MockBackend{Data: make(map[string][]byte)}
}

func (m *MockBackend) Save(_ context.Context, key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saves++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Data[key] = append([]byte(nil), blob...)
	m.LastSave = m.Data[key]
	return nil
}

func (m *MockBackend) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Loads++
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	blob, ok := m.Data[key]
	if !ok {
		return nil, ErrMockNotFound
	}
	return append([]byte(nil), blob...), nil
}

func (m *MockBackend) Exists(_ context.Context, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Data[key]
	return ok
}

func (m *MockBackend) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DelErr != nil {
		return m.DelErr
	}
	delete(m.Data, key)
	return nil
}

func (m *MockBackend) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Saves
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}
