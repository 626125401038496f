package services

import (
	"errors"
	"fmt"
	"statekeeper/internal/limits"
	"statekeeper/internal/models"
	"statekeeper/internal/providers"
	"sync"
	"time"
)

var (
	ErrUnknownProduct        = errors.New("unknown product")
	ErrUnknownStage          = errors.New("unknown stage")
	ErrLimitReached          = errors.New("limit reached")
	ErrStageUnavailableToday = errors.New("stage is not open today")
)

// StateAccessor is the slice of the live record the limit services read
// and write. Writes go through Update only, so a record is counted against
// its latest value even when a server delta lands concurrently.
type StateAccessor interface {
	PurchaseRecord(productID string) (models.LimitRecord, bool)
	StageEntryRecord(stageID string) (models.LimitRecord, bool)
	Update(fn func(current *models.PersistedState) *models.Delta) bool
}

type CheckResult struct {
	Allowed     bool      `json:"allowed"`
	Remaining   int       `json:"remaining"`
	OpenToday   bool      `json:"openToday"`
	NextResetAt time.Time `json:"nextResetAt"`
}

func lookup(records map[string]models.LimitRecord, id string) (models.LimitRecord, bool) {
	rec, ok := records[id]
	return rec, ok
}

func recordPtr(rec models.LimitRecord, ok bool) *models.LimitRecord {
	if !ok {
		return nil
	}
	return &rec
}

type PurchaseServiceInterface interface {
	Check(productID string) (CheckResult, error)
	Record(productID string) (models.LimitRecord, error)
}

type PurchaseService struct {
	mu      sync.Mutex
	catalog ProductCatalog
	state   StateAccessor
	clock   providers.TimeSource
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	tracker limits.PurchaseLimiter
}

func NewPurchaseService(catalog ProductCatalog, state StateAccessor, clock providers.TimeSource, logger providers.Logger, metrics providers.MetricsProviderInterface) *PurchaseService {
	return &PurchaseService{catalog: catalog, state: state, clock: clock, logger: logger, metrics: metrics}
}

func (ps *PurchaseService) Check(productID string) (CheckResult, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	res, _, err := ps.check(productID, ps.clock.Now())
	return res, err
}

func (ps *PurchaseService) check(productID string, now time.Time) (CheckResult, models.LimitPolicy, error) {
	policy, ok := ps.catalog.Product(productID)
	if !ok {
		return CheckResult{}, policy, fmt.Errorf("%w: %s", ErrUnknownProduct, productID)
	}
	record := recordPtr(ps.state.PurchaseRecord(productID))
	allowed, remaining := ps.tracker.CanConsume(policy, record, now)
	ps.metrics.IncLimitChecks("purchase", allowed)

	res := CheckResult{Allowed: allowed, Remaining: remaining, OpenToday: true}
	if record != nil && now.Before(record.NextResetAt) && record.NextResetAt != limits.NeverResets {
		res.NextResetAt = record.NextResetAt
	}
	return res, policy, nil
}

// Record counts one purchase of productID, refusing it once the limit is
// reached.
func (ps *PurchaseService) Record(productID string) (models.LimitRecord, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	now := ps.clock.Now()
	res, policy, err := ps.check(productID, now)
	if err != nil {
		return models.LimitRecord{}, err
	}
	if !res.Allowed {
		ps.logger.Debugf(providers.TypeLimit, "Purchase of %s refused: limit reached", productID)
		return models.LimitRecord{}, fmt.Errorf("%w: %s", ErrLimitReached, productID)
	}

	var next models.LimitRecord
	recorded := ps.state.Update(func(current *models.PersistedState) *models.Delta {
		record := recordPtr(lookup(current.PurchaseRecords, productID))
		if allowed, _ := ps.tracker.CanConsume(policy, record, now); !allowed {
			return nil
		}
		next = ps.tracker.RecordConsumption(limits.ProductID(productID), policy, record, now)
		return &models.Delta{PurchaseRecords: []models.LimitRecord{next}}
	})
	if !recorded {
		return models.LimitRecord{}, fmt.Errorf("%w: %s", ErrLimitReached, productID)
	}
	ps.logger.Infof(providers.TypeLimit, "Purchase of %s recorded (%d this window)", productID, next.Count)
	return next, nil
}

type StageEntryServiceInterface interface {
	Check(stageID string) (CheckResult, error)
	Enter(stageID string) (models.LimitRecord, error)
}

type StageEntryService struct {
	mu      sync.Mutex
	catalog StageCatalog
	state   StateAccessor
	clock   providers.TimeSource
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	tracker limits.StageEntryLimiter
}

func NewStageEntryService(catalog StageCatalog, state StateAccessor, clock providers.TimeSource, logger providers.Logger, metrics providers.MetricsProviderInterface) *StageEntryService {
	return &StageEntryService{catalog: catalog, state: state, clock: clock, logger: logger, metrics: metrics}
}

// Check reports the entry allowance. The weekday allow-list is evaluated
// apart from the counter: a closed stage reports Allowed false with its
// remaining count intact.
func (ss *StageEntryService) Check(stageID string) (CheckResult, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	res, _, err := ss.check(stageID, ss.clock.Now())
	return res, err
}

func (ss *StageEntryService) check(stageID string, now time.Time) (CheckResult, StageRule, error) {
	rule, ok := ss.catalog.Stage(stageID)
	if !ok {
		return CheckResult{}, rule, fmt.Errorf("%w: %s", ErrUnknownStage, stageID)
	}
	record := recordPtr(ss.state.StageEntryRecord(stageID))
	allowed, remaining := ss.tracker.CanConsume(rule.Policy, record, now)
	open := ss.tracker.IsAvailableToday(rule.AllowedDays, now)
	ss.metrics.IncLimitChecks("stage", allowed && open)

	res := CheckResult{Allowed: allowed && open, Remaining: remaining, OpenToday: open}
	if record != nil && now.Before(record.NextResetAt) && record.NextResetAt != limits.NeverResets {
		res.NextResetAt = record.NextResetAt
	}
	return res, rule, nil
}

func (ss *StageEntryService) Enter(stageID string) (models.LimitRecord, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	now := ss.clock.Now()
	res, rule, err := ss.check(stageID, now)
	if err != nil {
		return models.LimitRecord{}, err
	}
	if !res.OpenToday {
		return models.LimitRecord{}, fmt.Errorf("%w: %s", ErrStageUnavailableToday, stageID)
	}
	if !res.Allowed {
		ss.logger.Debugf(providers.TypeLimit, "Entry to %s refused: limit reached", stageID)
		return models.LimitRecord{}, fmt.Errorf("%w: %s", ErrLimitReached, stageID)
	}

	var next models.LimitRecord
	recorded := ss.state.Update(func(current *models.PersistedState) *models.Delta {
		record := recordPtr(lookup(current.StageEntryRecords, stageID))
		if allowed, _ := ss.tracker.CanConsume(rule.Policy, record, now); !allowed {
			return nil
		}
		next = ss.tracker.RecordConsumption(limits.StageID(stageID), rule.Policy, record, now)
		return &models.Delta{StageEntryRecords: []models.LimitRecord{next}}
	})
	if !recorded {
		return models.LimitRecord{}, fmt.Errorf("%w: %s", ErrLimitReached, stageID)
	}
	ss.logger.Infof(providers.TypeLimit, "Entry to %s recorded (%d this window)", stageID, next.Count)
	return next, nil
}
