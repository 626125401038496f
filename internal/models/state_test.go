package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPersistedState_EmptyCollections(t *testing.T) {
	s := NewPersistedState()

	assert.Equal(t, CurrentVersion, s.Version)
	assert.NotNil(t, s.Characters)
	assert.NotNil(t, s.Items)
	assert.NotNil(t, s.EventCurrency)
	assert.NotNil(t, s.PurchaseRecords)
	assert.NotNil(t, s.StageEntryRecords)
	assert.False(t, s.Repair())
}

func TestRepair_ReportsReplacement(t *testing.T) {
	s := &PersistedState{Version: CurrentVersion, Characters: []OwnedCharacter{}}

	assert.True(t, s.Repair())
	assert.NotNil(t, s.Items)
	assert.False(t, s.Repair())
}

func TestClone_IsDeep(t *testing.T) {
	s := NewPersistedState()
	s.Characters = append(s.Characters, OwnedCharacter{InstanceID: "c1", Level: 5})
	s.EventCurrency.Set("spring", "petal", 10)
	s.PurchaseRecords["starter-pack"] = LimitRecord{SubjectID: "starter-pack", Count: 1}
	s.StageProgress.ClearedStages = map[string]int{"1-1": 3}

	c := s.Clone()
	c.Characters[0].Level = 99
	c.EventCurrency.Set("spring", "petal", 0)
	c.PurchaseRecords["starter-pack"] = LimitRecord{SubjectID: "starter-pack", Count: 2}
	c.StageProgress.ClearedStages["1-1"] = 1

	assert.Equal(t, 5, s.Characters[0].Level)
	assert.Equal(t, int64(10), s.EventCurrency.Get("spring", "petal"))
	assert.Equal(t, 1, s.PurchaseRecords["starter-pack"].Count)
	assert.Equal(t, 3, s.StageProgress.ClearedStages["1-1"])
	assert.Nil(t, (*PersistedState)(nil).Clone())
}

func TestEventCurrency_GetOnNil(t *testing.T) {
	var e EventCurrency
	assert.Zero(t, e.Get("spring", "petal"))
}

func TestDelta_HasChanges(t *testing.T) {
	assert.False(t, (*Delta)(nil).HasChanges())
	assert.False(t, (&Delta{}).HasChanges())
	assert.True(t, (&Delta{Currency: &Currency{}}).HasChanges())
	assert.True(t, (&Delta{RemovedItemIDs: []string{"potion"}}).HasChanges())
	assert.True(t, (&Delta{StageEntryRecords: []LimitRecord{{SubjectID: "boss"}}}).HasChanges())
}
