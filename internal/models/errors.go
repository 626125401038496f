package models

import (
	"errors"
	"fmt"
)

var (
	ErrSaveFailed      = errors.New("save failed")
	ErrLoadFailed      = errors.New("load failed")
	ErrMigrationFailed = errors.New("migration failed")
	ErrConfigMissing   = errors.New("state store is not configured")

	// ErrNoData is a load failure: nothing has been saved under the key yet.
	ErrNoData = fmt.Errorf("%w: no saved data", ErrLoadFailed)

	// ErrVersionTooNew is a save failure: the record was written by a newer
	// build and saving it here would drop the fields this build cannot read.
	ErrVersionTooNew = fmt.Errorf("%w: version newer than this build", ErrSaveFailed)
)
