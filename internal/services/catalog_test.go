package services

import (
	"statekeeper/internal/models"
	"statekeeper/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *structures.Config {
	return &structures.Config{
		Catalog: structures.CatalogConfig{
			Products: []structures.ProductConfig{
				{ID: "starter-pack", LimitKind: "daily", LimitCount: 3},
				{ID: "founder", LimitKind: "permanent", LimitCount: 1},
				{ID: "gold-bag", LimitKind: "none"},
			},
			Stages: []structures.StageConfig{
				{ID: "boss-raid", LimitKind: "weekly", LimitCount: 2},
				{ID: "gold-dungeon", LimitKind: "daily", LimitCount: 5, AllowedDays: []string{"Saturday", "Sunday"}},
			},
			Events: []structures.EventConfig{
				{
					ID:                  "spring",
					StartAt:             time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
					EndAt:               time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC),
					CurrencyID:          "petal",
					GracePeriodDays:     3,
					ConvertToCurrencyID: "gold",
					ConversionRate:      10,
				},
			},
		},
	}
}

func TestNewStaticCatalog(t *testing.T) {
	c, err := NewStaticCatalog(testConfig())
	require.NoError(t, err)

	p, ok := c.Product("starter-pack")
	require.True(t, ok)
	assert.Equal(t, models.LimitPolicy{Kind: models.LimitDaily, LimitCount: 3}, p)

	s, ok := c.Stage("gold-dungeon")
	require.True(t, ok)
	assert.Equal(t, []string{"Saturday", "Sunday"}, s.AllowedDays)

	e, ok := c.Event("spring")
	require.True(t, ok)
	assert.Equal(t, 3, e.Policy.GracePeriodDays)
	assert.Len(t, c.Events(), 1)

	_, ok = c.Product("nope")
	assert.False(t, ok)
	_, ok = c.Event("nope")
	assert.False(t, ok)
}

func TestNewStaticCatalog_BadLimitKind(t *testing.T) {
	conf := testConfig()
	conf.Catalog.Stages[0].LimitKind = "hourly"
	_, err := NewStaticCatalog(conf)
	assert.ErrorContains(t, err, "boss-raid")
}

func TestNewStaticCatalog_DuplicateEvent(t *testing.T) {
	conf := testConfig()
	conf.Catalog.Events = append(conf.Catalog.Events, conf.Catalog.Events[0])
	_, err := NewStaticCatalog(conf)
	assert.Error(t, err)
}

func TestNewStaticCatalog_BadWeekday(t *testing.T) {
	conf := testConfig()
	conf.Catalog.Stages[1].AllowedDays = []string{"Saturday", "Caturday"}
	_, err := NewStaticCatalog(conf)
	assert.ErrorContains(t, err, "Caturday")
}
