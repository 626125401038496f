package controllers

import (
	"context"
	"statekeeper/internal/events"
	"statekeeper/internal/models"
	"statekeeper/internal/providers"
	"statekeeper/internal/reconcile"
	"statekeeper/internal/services"
	"statekeeper/internal/testutil"
	"time"
)

var testNow = time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

func newState() *reconcile.Reconciler {
	return reconcile.NewReconciler(providers.NewManualClock(testNow), &testutil.MockLogger{}, &testutil.MockMetrics{})
}

type stubPurchases struct {
	check  services.CheckResult
	record models.LimitRecord
	err    error
}

func (s *stubPurchases) Check(string) (services.CheckResult, error) { return s.check, s.err }
func (s *stubPurchases) Record(string) (models.LimitRecord, error)  { return s.record, s.err }

type stubStages struct {
	check services.CheckResult
	enter models.LimitRecord
	err   error
}

func (s *stubStages) Check(string) (services.CheckResult, error) { return s.check, s.err }
func (s *stubStages) Enter(string) (models.LimitRecord, error)   { return s.enter, s.err }

type stubEvents struct {
	info    events.PhaseInfo
	results []models.ConversionResult
	err     error
}

func (s *stubEvents) Phase(string) (events.PhaseInfo, error) { return s.info, s.err }
func (s *stubEvents) ConvertExpired(context.Context) ([]models.ConversionResult, error) {
	return s.results, s.err
}

type stubStore struct{ dirty bool }

func (s stubStore) IsDirty() bool { return s.dirty }
