package limits

import (
	"statekeeper/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanConsume_NoLimit(t *testing.T) {
	var tr PurchaseLimiter
	ok, remaining := tr.CanConsume(models.LimitPolicy{Kind: models.LimitNone}, &models.LimitRecord{Count: 1000}, time.Now())
	assert.True(t, ok)
	assert.Equal(t, Unlimited, remaining)
}

func TestCanConsume_NoRecord(t *testing.T) {
	var tr PurchaseLimiter
	ok, remaining := tr.CanConsume(models.LimitPolicy{Kind: models.LimitDaily, LimitCount: 3}, nil, time.Now())
	assert.True(t, ok)
	assert.Equal(t, 3, remaining)

	ok, remaining = tr.CanConsume(models.LimitPolicy{Kind: models.LimitDaily, LimitCount: 0}, nil, time.Now())
	assert.False(t, ok)
	assert.Equal(t, 0, remaining)
}

func TestDailyLimitScenario(t *testing.T) {
	var tr PurchaseLimiter
	policy := models.LimitPolicy{Kind: models.LimitDaily, LimitCount: 3}
	now := at("2026-03-04T09:00:00Z")

	var record *models.LimitRecord
	for i := 0; i < 3; i++ {
		ok, _ := tr.CanConsume(policy, record, now)
		require.True(t, ok)
		next := tr.RecordConsumption("starter-pack", policy, record, now)
		record = &next
		now = now.Add(time.Minute)
	}
	assert.Equal(t, 3, record.Count)
	assert.Equal(t, "starter-pack", record.SubjectID)

	ok, remaining := tr.CanConsume(policy, record, now)
	assert.False(t, ok)
	assert.Equal(t, 0, remaining)

	ok, remaining = tr.CanConsume(policy, record, now.Add(24*time.Hour))
	assert.True(t, ok)
	assert.Equal(t, 3, remaining)
}

func TestRecordConsumption_ReflectedImmediately(t *testing.T) {
	var tr StageEntryLimiter
	policy := models.LimitPolicy{Kind: models.LimitWeekly, LimitCount: 2}
	now := at("2026-03-04T09:00:00Z")

	rec := tr.RecordConsumption("boss-1", policy, nil, now)
	ok, remaining := tr.CanConsume(policy, &rec, now)
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)
	assert.Equal(t, at("2026-03-09T00:00:00Z"), rec.NextResetAt)
}

func TestRecordConsumption_KeepsResetWhileInWindow(t *testing.T) {
	var tr PurchaseLimiter
	policy := models.LimitPolicy{Kind: models.LimitMonthly, LimitCount: 5}
	first := tr.RecordConsumption("gem-box", policy, nil, at("2026-03-04T09:00:00Z"))
	second := tr.RecordConsumption("gem-box", policy, &first, at("2026-03-20T09:00:00Z"))

	assert.Equal(t, 2, second.Count)
	assert.Equal(t, first.NextResetAt, second.NextResetAt)
	assert.Equal(t, at("2026-03-20T09:00:00Z"), second.LastActionAt)
	assert.Equal(t, 1, first.Count, "input record must not be modified")
}

func TestRecordConsumption_ResetsPastBoundary(t *testing.T) {
	var tr PurchaseLimiter
	policy := models.LimitPolicy{Kind: models.LimitMonthly, LimitCount: 5}
	old := models.LimitRecord{SubjectID: "gem-box", Count: 5, NextResetAt: at("2026-04-01T00:00:00Z")}

	rec := tr.RecordConsumption("gem-box", policy, &old, at("2026-04-01T00:00:00Z"))
	assert.Equal(t, 1, rec.Count)
	assert.Equal(t, at("2026-05-01T00:00:00Z"), rec.NextResetAt)
}

func TestPermanentLimit(t *testing.T) {
	var tr PurchaseLimiter
	policy := models.LimitPolicy{Kind: models.LimitPermanent, LimitCount: 1}
	rec := tr.RecordConsumption("founder", policy, nil, at("2026-03-04T09:00:00Z"))
	assert.Equal(t, NeverResets, rec.NextResetAt)

	ok, remaining := tr.CanConsume(policy, &rec, at("2040-01-01T00:00:00Z"))
	assert.False(t, ok)
	assert.Equal(t, 0, remaining)
}

func TestIsAvailableToday(t *testing.T) {
	var tr StageEntryLimiter
	wednesday := at("2026-03-04T09:00:00Z")

	assert.True(t, tr.IsAvailableToday(nil, wednesday))
	assert.True(t, tr.IsAvailableToday([]string{"Monday", "wednesday"}, wednesday))
	assert.True(t, tr.IsAvailableToday([]string{"WED"}, wednesday))
	assert.False(t, tr.IsAvailableToday([]string{"Tuesday", "sat"}, wednesday))
}
