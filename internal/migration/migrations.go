package migration

import (
	"statekeeper/internal/providers"
	"strings"
)

// Builtin returns the migrations for every save format this build has
// shipped, oldest first.
func Builtin() []Migration {
	return []Migration{
		{From: 1, To: 2, Name: "currency block", Transform: currencyBlock},
		{From: 2, To: 3, Name: "nested event currency and limit records", Transform: nestedEventCurrency},
	}
}

// NewDefaultChain returns a chain with the built-in migrations registered.
func NewDefaultChain(logger providers.Logger, metrics providers.MetricsProviderInterface) *Chain {
	c := NewChain(logger, metrics)
	for _, m := range Builtin() {
		c.Register(m)
	}
	return c
}

// v1 kept gold and gems at the top level.
func currencyBlock(doc Document) Document {
	currency := doc.Map("currency")
	moves := map[string]string{
		"gold":    "gold",
		"gems":    "gem",
		"stamina": "stamina",
	}
	for from, to := range moves {
		v, ok := doc[from]
		if !ok {
			continue
		}
		if _, exists := currency[to]; !exists {
			currency[to] = v
		}
		delete(doc, from)
	}
	return doc
}

// v2 stored event currency flat as "eventId:currencyId" → amount.
func nestedEventCurrency(doc Document) Document {
	nested := make(map[string]any)
	if flat, ok := doc["eventCurrency"].(map[string]any); ok {
		for key, amount := range flat {
			if inner, isMap := amount.(map[string]any); isMap {
				nested[key] = inner
				continue
			}
			eventID, currencyID, found := strings.Cut(key, ":")
			if !found || eventID == "" || currencyID == "" {
				continue
			}
			byCurrency, _ := nested[eventID].(map[string]any)
			if byCurrency == nil {
				byCurrency = make(map[string]any)
				nested[eventID] = byCurrency
			}
			byCurrency[currencyID] = amount
		}
	}
	doc["eventCurrency"] = nested
	doc.Map("purchaseRecords")
	doc.Map("stageEntryRecords")
	return doc
}
