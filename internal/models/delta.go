package models

// Delta is a sparse, authoritative change set. Nil pointer fields and empty
// slices are absent.
type Delta struct {
	Profile       *Profile       `json:"profile,omitempty"`
	Currency      *Currency      `json:"currency,omitempty"`
	StageProgress *StageProgress `json:"stageProgress,omitempty"`
	GachaPity     *GachaPity     `json:"gachaPity,omitempty"`
	QuestProgress *QuestProgress `json:"questProgress,omitempty"`
	EventCurrency EventCurrency  `json:"eventCurrency,omitempty"`

	AddedCharacters     []OwnedCharacter `json:"addedCharacters,omitempty"`
	RemovedCharacterIDs []string         `json:"removedCharacterIds,omitempty"`
	AddedItems          []OwnedItem      `json:"addedItems,omitempty"`
	RemovedItemIDs      []string         `json:"removedItemIds,omitempty"`

	PurchaseRecords   []LimitRecord `json:"purchaseRecords,omitempty"`
	StageEntryRecords []LimitRecord `json:"stageEntryRecords,omitempty"`
}

func (d *Delta) HasChanges() bool {
	if d == nil {
		return false
	}
	return d.Profile != nil ||
		d.Currency != nil ||
		d.StageProgress != nil ||
		d.GachaPity != nil ||
		d.QuestProgress != nil ||
		d.EventCurrency != nil ||
		len(d.AddedCharacters) > 0 ||
		len(d.RemovedCharacterIDs) > 0 ||
		len(d.AddedItems) > 0 ||
		len(d.RemovedItemIDs) > 0 ||
		len(d.PurchaseRecords) > 0 ||
		len(d.StageEntryRecords) > 0
}
