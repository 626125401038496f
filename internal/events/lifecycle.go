package events

import (
	"statekeeper/internal/models"
	"statekeeper/internal/providers"
	"time"

	"github.com/shopspring/decimal"
)

// PhaseAt places now within the event's lifecycle. The event is active
// before EndAt, in grace until EndAt plus the grace period, and expired
// from then on. A zero grace period has no grace phase.
func PhaseAt(window models.EventWindow, policy models.EventCurrencyPolicy, now time.Time) models.EventPhase {
	if now.Before(window.EndAt) {
		return models.PhaseActive
	}
	if now.Before(policy.GraceEndsAt(window)) {
		return models.PhaseGrace
	}
	return models.PhaseExpired
}

// ConvertedAmount is floor(amount * rate), computed exactly.
func ConvertedAmount(amount int64, rate float64) int64 {
	if amount <= 0 || rate <= 0 {
		return 0
	}
	return decimal.NewFromInt(amount).Mul(decimal.NewFromFloat(rate)).Floor().IntPart()
}

// Ledger is the mutable pair of balances a conversion moves value between.
type Ledger struct {
	Currency      *models.Currency
	EventCurrency models.EventCurrency
}

type Lifecycle struct {
	logger providers.Logger
}

func NewLifecycle(logger providers.Logger) *Lifecycle {
	return &Lifecycle{logger: logger}
}

// ConvertIfExpired moves an expired event's balance into its target
// currency. It returns nil when the event is not expired or holds nothing.
func (l *Lifecycle) ConvertIfExpired(ledger Ledger, event models.TrackedEvent, now time.Time) *models.ConversionResult {
	if PhaseAt(event.Window, event.Policy, now) != models.PhaseExpired {
		return nil
	}
	source := event.Policy.CurrencyID
	amount := ledger.EventCurrency.Get(event.EventID, source)
	if amount <= 0 {
		return nil
	}

	converted := ConvertedAmount(amount, event.Policy.ConversionRate)
	ledger.EventCurrency.Set(event.EventID, source, 0)
	credited, known := ledger.Currency.Credit(event.Policy.ConvertToCurrencyID, converted)
	if !known {
		l.logger.Warnf(providers.TypeEvent, "Event %s converts into unknown currency %q, credited %s instead", event.EventID, event.Policy.ConvertToCurrencyID, credited)
	}
	l.logger.Infof(providers.TypeEvent, "Converted %d %s from event %s into %d %s", amount, source, event.EventID, converted, credited)

	return &models.ConversionResult{
		EventID:          event.EventID,
		SourceCurrencyID: source,
		SourceAmount:     amount,
		TargetCurrencyID: credited,
		TargetAmount:     converted,
	}
}

// ConvertAllExpired runs ConvertIfExpired over events in order and returns
// the conversions that happened.
func (l *Lifecycle) ConvertAllExpired(ledger Ledger, events []models.TrackedEvent, now time.Time) []models.ConversionResult {
	var results []models.ConversionResult
	for _, event := range events {
		if res := l.ConvertIfExpired(ledger, event, now); res != nil {
			results = append(results, *res)
		}
	}
	return results
}
