package providers

import (
	"fmt"
	"sync"
	"time"
)

// Local doubles; testutil imports this package.

type recordingLogger struct {
	mu      sync.Mutex
	entries []string
}

func (l *recordingLogger) add(level string, t TypeEnum, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, level+" "+t.String()+" "+fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Errorf(t TypeEnum, f string, a ...interface{}) { l.add("error", t, f, a...) }
func (l *recordingLogger) Warnf(t TypeEnum, f string, a ...interface{})  { l.add("warn", t, f, a...) }
func (l *recordingLogger) Debugf(t TypeEnum, f string, a ...interface{}) { l.add("debug", t, f, a...) }
func (l *recordingLogger) Infof(t TypeEnum, f string, a ...interface{})  { l.add("info", t, f, a...) }
func (l *recordingLogger) Fatalf(t TypeEnum, f string, a ...interface{}) { l.add("fatal", t, f, a...) }
func (l *recordingLogger) Close()                                        {}

type recordingMetrics struct {
	noopMetrics
	requestEndpoint string
	requestStatus   int
	requestCalls    int
	durationCalls   int
	hits            int
	misses          int
}

func (m *recordingMetrics) IncRequestsTotal(endpoint string, status int) {
	m.requestEndpoint = endpoint
	m.requestStatus = status
	m.requestCalls++
}
func (m *recordingMetrics) ObserveRequestDuration(_ string, _ time.Duration) { m.durationCalls++ }
func (m *recordingMetrics) IncCacheHits()                                    { m.hits++ }
func (m *recordingMetrics) IncCacheMisses()                                  { m.misses++ }

type mapCache map[string][]byte

func (c mapCache) Get(key string) ([]byte, bool) {
	v, ok := c[key]
	return v, ok
}
func (c mapCache) Set(key string, value []byte) { c[key] = value }
func (c mapCache) Del(key string)               { delete(c, key) }
