package limits

import (
	"math"
	"statekeeper/internal/models"
	"time"
)

// Unlimited is the remaining count reported for policies without a limit.
const Unlimited = math.MaxInt32

type (
	ProductID string
	StageID   string
)

// Tracker evaluates and advances limit records for one kind of subject.
type Tracker[S ~string] struct{}

type (
	PurchaseLimiter   = Tracker[ProductID]
	StageEntryLimiter = Tracker[StageID]
)

// CanConsume reports whether one more action is allowed under policy and
// how many remain. A nil record, or one whose reset has passed, counts as
// unused.
func (Tracker[S]) CanConsume(policy models.LimitPolicy, record *models.LimitRecord, now time.Time) (bool, int) {
	if policy.Kind == models.LimitNone {
		return true, Unlimited
	}
	if record == nil || !now.Before(record.NextResetAt) {
		return policy.LimitCount > 0, max(policy.LimitCount, 0)
	}
	remaining := max(policy.LimitCount-record.Count, 0)
	return remaining > 0, remaining
}

// RecordConsumption returns the record after one more action at now. It
// does not check the limit; call CanConsume first.
func (Tracker[S]) RecordConsumption(subject S, policy models.LimitPolicy, record *models.LimitRecord, now time.Time) models.LimitRecord {
	if record == nil || !now.Before(record.NextResetAt) {
		return models.LimitRecord{
			SubjectID:    string(subject),
			Count:        1,
			LastActionAt: now,
			NextResetAt:  NextResetAfter(policy.Kind, now),
		}
	}
	next := *record
	next.SubjectID = string(subject)
	next.Count++
	next.LastActionAt = now
	return next
}

// IsAvailableToday reports whether now falls on one of allowedDays. An
// empty list allows every day. Days are matched by English weekday name,
// case-insensitively, and may be abbreviated to three letters.
func (Tracker[S]) IsAvailableToday(allowedDays []string, now time.Time) bool {
	if len(allowedDays) == 0 {
		return true
	}
	return lenientDays(allowedDays).Contains(now.UTC().Weekday())
}
