package models

import "time"

type EventWindow struct {
	StartAt time.Time `json:"startAt"`
	EndAt   time.Time `json:"endAt"`
}

type EventCurrencyPolicy struct {
	CurrencyID          string  `json:"currencyId"`
	GracePeriodDays     int     `json:"gracePeriodDays"`
	ConvertToCurrencyID string  `json:"convertToCurrencyId"`
	ConversionRate      float64 `json:"conversionRate"`
}

// GraceEndsAt is the instant the event currency expires.
func (p EventCurrencyPolicy) GraceEndsAt(w EventWindow) time.Time {
	return w.EndAt.AddDate(0, 0, max(p.GracePeriodDays, 0))
}

type EventPhase int

const (
	PhaseActive EventPhase = iota
	PhaseGrace
	PhaseExpired
)

func (p EventPhase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseGrace:
		return "grace"
	case PhaseExpired:
		return "expired"
	}
	return "unknown"
}

func (p EventPhase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// TrackedEvent couples an event's window with its currency policy.
type TrackedEvent struct {
	EventID string              `json:"eventId"`
	Window  EventWindow         `json:"window"`
	Policy  EventCurrencyPolicy `json:"policy"`
}

type ConversionResult struct {
	EventID          string `json:"eventId"`
	SourceCurrencyID string `json:"sourceCurrencyId"`
	SourceAmount     int64  `json:"sourceAmount"`
	TargetCurrencyID string `json:"targetCurrencyId"`
	TargetAmount     int64  `json:"targetAmount"`
}
