package models

import (
	"fmt"
	"strings"
	"time"
)

type LimitKind int

const (
	LimitNone LimitKind = iota
	LimitDaily
	LimitWeekly
	LimitMonthly
	LimitPermanent
)

var limitKindNames = map[LimitKind]string{
	LimitNone:      "none",
	LimitDaily:     "daily",
	LimitWeekly:    "weekly",
	LimitMonthly:   "monthly",
	LimitPermanent: "permanent",
}

func (k LimitKind) String() string {
	if name, ok := limitKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("LimitKind(%d)", int(k))
}

func ParseLimitKind(s string) (LimitKind, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "" {
		return LimitNone, nil
	}
	for kind, name := range limitKindNames {
		if name == normalized {
			return kind, nil
		}
	}
	return LimitNone, fmt.Errorf("unknown limit kind %q", s)
}

// LimitPolicy bounds how often a resettable action may happen. LimitCount
// is ignored for LimitNone; LimitCount <= 0 otherwise means always exhausted.
type LimitPolicy struct {
	Kind       LimitKind `json:"kind"`
	LimitCount int       `json:"limitCount"`
}

// LimitRecord counts consumptions of one subject until NextResetAt.
type LimitRecord struct {
	SubjectID    string    `json:"subjectId"`
	Count        int       `json:"count"`
	LastActionAt time.Time `json:"lastActionAt"`
	NextResetAt  time.Time `json:"nextResetAt"`
}
