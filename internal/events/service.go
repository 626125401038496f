package events

import (
	"context"
	"errors"
	"fmt"
	"statekeeper/internal/models"
	"statekeeper/internal/providers"
	"sync"
	"time"
)

var ErrUnknownEvent = errors.New("unknown event")

type Catalog interface {
	Event(eventID string) (models.TrackedEvent, bool)
	Events() []models.TrackedEvent
}

// State is the part of the live record conversions read and write.
// Update runs its read-modify-write atomically against other deltas.
type State interface {
	EventCurrency() models.EventCurrency
	Update(fn func(current *models.PersistedState) *models.Delta) bool
}

type PhaseInfo struct {
	EventID     string            `json:"eventId"`
	Phase       models.EventPhase `json:"phase"`
	Balance     int64             `json:"balance"`
	GraceEndsAt time.Time         `json:"graceEndsAt"`
}

type ServiceInterface interface {
	Phase(eventID string) (PhaseInfo, error)
	ConvertExpired(ctx context.Context) ([]models.ConversionResult, error)
}

type Service struct {
	mu        sync.Mutex
	catalog   Catalog
	state     State
	lifecycle *Lifecycle
	clock     providers.TimeSource
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
}

func NewService(catalog Catalog, state State, lifecycle *Lifecycle, clock providers.TimeSource, logger providers.Logger, metrics providers.MetricsProviderInterface) *Service {
	return &Service{catalog: catalog, state: state, lifecycle: lifecycle, clock: clock, logger: logger, metrics: metrics}
}

func (s *Service) Phase(eventID string) (PhaseInfo, error) {
	event, ok := s.catalog.Event(eventID)
	if !ok {
		return PhaseInfo{}, fmt.Errorf("%w: %s", ErrUnknownEvent, eventID)
	}
	balance := s.state.EventCurrency().Get(eventID, event.Policy.CurrencyID)
	return PhaseInfo{
		EventID:     eventID,
		Phase:       PhaseAt(event.Window, event.Policy, s.clock.Now()),
		Balance:     balance,
		GraceEndsAt: event.Policy.GraceEndsAt(event.Window),
	}, nil
}

// ConvertExpired converts every expired event balance and applies the
// outcome as one delta carrying the new currency block and event balances.
// Balances are read and written under the live record's write lock.
func (s *Service) ConvertExpired(ctx context.Context) ([]models.ConversionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.catalog.Events()
	now := s.clock.Now()

	var results []models.ConversionResult
	s.state.Update(func(current *models.PersistedState) *models.Delta {
		currency := current.Currency
		ledger := Ledger{Currency: &currency, EventCurrency: current.EventCurrency}
		if ledger.EventCurrency == nil {
			ledger.EventCurrency = models.EventCurrency{}
		}
		results = s.lifecycle.ConvertAllExpired(ledger, events, now)
		if len(results) == 0 {
			return nil
		}
		return &models.Delta{Currency: &currency, EventCurrency: ledger.EventCurrency}
	})
	if len(results) == 0 {
		return results, nil
	}

	s.metrics.AddConversions(len(results))
	s.logger.Infof(providers.TypeEvent, "Converted %d expired event balances", len(results))
	return results, nil
}
