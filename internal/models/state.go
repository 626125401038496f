package models

import "time"

// CurrentVersion is the schema version PersistedState conforms to.
const CurrentVersion = 3

type Profile struct {
	PlayerID  string    `json:"playerId"`
	Nickname  string    `json:"nickname"`
	Level     int       `json:"level"`
	Exp       int64     `json:"exp"`
	CreatedAt time.Time `json:"createdAt"`
}

type StageProgress struct {
	ClearedStages map[string]int `json:"clearedStages"`
	LastStageID   string         `json:"lastStageId"`
}

type GachaPity struct {
	Counters map[string]int `json:"counters"`
}

type QuestProgress struct {
	Completed []string       `json:"completed"`
	Counters  map[string]int `json:"counters"`
}

type OwnedCharacter struct {
	InstanceID  string    `json:"instanceId"`
	CharacterID string    `json:"characterId"`
	Level       int       `json:"level"`
	Exp         int64     `json:"exp"`
	Rank        int       `json:"rank"`
	AcquiredAt  time.Time `json:"acquiredAt"`
}

type ItemKind string

const (
	ItemKindEquipment  ItemKind = "equipment"
	ItemKindStackable  ItemKind = "stackable"
	ItemKindConsumable ItemKind = "consumable"
)

type OwnedItem struct {
	InstanceID string   `json:"instanceId,omitempty"`
	ItemID     string   `json:"itemId"`
	Kind       ItemKind `json:"kind"`
	Count      int64    `json:"count"`
	Level      int      `json:"level,omitempty"`
}

// IsEquipment reports whether the item is tracked per instance rather than
// stacked by item id.
func (i OwnedItem) IsEquipment() bool {
	return i.Kind == ItemKindEquipment
}

// EventCurrency maps eventID → currencyID → amount.
type EventCurrency map[string]map[string]int64

func (e EventCurrency) Get(eventID, currencyID string) int64 {
	if e == nil {
		return 0
	}
	return e[eventID][currencyID]
}

func (e EventCurrency) Set(eventID, currencyID string, amount int64) {
	byCurrency, ok := e[eventID]
	if !ok {
		byCurrency = make(map[string]int64)
		e[eventID] = byCurrency
	}
	byCurrency[currencyID] = amount
}

// PersistedState is the single saved record per player.
type PersistedState struct {
	Version           int                    `json:"version"`
	Profile           Profile                `json:"profile"`
	Currency          Currency               `json:"currency"`
	StageProgress     StageProgress          `json:"stageProgress"`
	GachaPity         GachaPity              `json:"gachaPity"`
	QuestProgress     QuestProgress          `json:"questProgress"`
	Characters        []OwnedCharacter       `json:"characters"`
	Items             []OwnedItem            `json:"items"`
	EventCurrency     EventCurrency          `json:"eventCurrency"`
	PurchaseRecords   map[string]LimitRecord `json:"purchaseRecords"`
	StageEntryRecords map[string]LimitRecord `json:"stageEntryRecords"`
	LastSyncAt        time.Time              `json:"lastSyncAt"`
	SaveID            string                 `json:"saveId,omitempty"`
}

// NewPersistedState returns an empty record at the current schema version.
func NewPersistedState() *PersistedState {
	s := &PersistedState{Version: CurrentVersion}
	s.Repair()
	return s
}

// Repair replaces collections that decoded as nil with empty defaults.
// It reports whether anything was replaced.
func (s *PersistedState) Repair() bool {
	repaired := false
	if s.Characters == nil {
		s.Characters = []OwnedCharacter{}
		repaired = true
	}
	if s.Items == nil {
		s.Items = []OwnedItem{}
		repaired = true
	}
	if s.EventCurrency == nil {
		s.EventCurrency = EventCurrency{}
		repaired = true
	}
	if s.PurchaseRecords == nil {
		s.PurchaseRecords = map[string]LimitRecord{}
		repaired = true
	}
	if s.StageEntryRecords == nil {
		s.StageEntryRecords = map[string]LimitRecord{}
		repaired = true
	}
	return repaired
}

// Clone returns a deep copy.
func (s *PersistedState) Clone() *PersistedState {
	if s == nil {
		return nil
	}
	c := *s
	c.StageProgress = s.StageProgress.Clone()
	c.GachaPity = s.GachaPity.Clone()
	c.QuestProgress = s.QuestProgress.Clone()
	c.Characters = cloneSlice(s.Characters)
	c.Items = cloneSlice(s.Items)
	c.EventCurrency = s.EventCurrency.Clone()
	c.PurchaseRecords = cloneRecords(s.PurchaseRecords)
	c.StageEntryRecords = cloneRecords(s.StageEntryRecords)
	return &c
}

func (p StageProgress) Clone() StageProgress {
	return StageProgress{ClearedStages: cloneIntMap(p.ClearedStages), LastStageID: p.LastStageID}
}

func (g GachaPity) Clone() GachaPity {
	return GachaPity{Counters: cloneIntMap(g.Counters)}
}

func (q QuestProgress) Clone() QuestProgress {
	out := QuestProgress{Counters: cloneIntMap(q.Counters)}
	if q.Completed != nil {
		out.Completed = append([]string{}, q.Completed...)
	}
	return out
}

func (e EventCurrency) Clone() EventCurrency {
	if e == nil {
		return nil
	}
	out := make(EventCurrency, len(e))
	for eventID, byCurrency := range e {
		inner := make(map[string]int64, len(byCurrency))
		for currencyID, amount := range byCurrency {
			inner[currencyID] = amount
		}
		out[eventID] = inner
	}
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func cloneIntMap(m map[string]int) map[string]int {
	if m == nil {
		return nil
	}
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneRecords(m map[string]LimitRecord) map[string]LimitRecord {
	if m == nil {
		return nil
	}
	out := make(map[string]LimitRecord, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
