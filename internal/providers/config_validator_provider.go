package providers

import (
	"errors"
	"fmt"
	"statekeeper/internal/structures"
	"time"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

// Validate runs the struct tag rules on every section and then the
// cross-field rules the tags cannot express.
func (cv *CnfValidator) Validate() error {
	sections := []interface{}{
		&cv.conf.WebServer,
		&cv.conf.Storage,
		&cv.conf.Logger,
	}
	for _, section := range sections {
		v := validate.Struct(section)
		if !v.Validate() {
			return fmt.Errorf("invalid config: %s", v.Errors.One())
		}
	}

	if cv.conf.Storage.Backend != "memory" && cv.conf.Storage.Path == "" {
		return errors.New("invalid config: storage.path is required for persistent backends")
	}
	if cv.conf.AutoSave.Enabled && cv.conf.AutoSave.Interval < time.Second {
		return errors.New("invalid config: autoSave.interval must be at least 1s")
	}
	if cv.conf.Cache.Enabled && cv.conf.Cache.Size <= 0 {
		return errors.New("invalid config: cache.size must be positive when cache is enabled")
	}
	return nil
}
