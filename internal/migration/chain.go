package migration

import (
	"sort"
	"statekeeper/internal/providers"
)

// Migration upgrades a document from one schema version to a later one.
// Transform must be pure with respect to anything outside the document.
type Migration struct {
	From      int
	To        int
	Name      string
	Transform func(Document) Document
}

// Chain is an ordered set of migrations composed into "migrate from any
// known version to target".
type Chain struct {
	migrations []Migration
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewChain(logger providers.Logger, metrics providers.MetricsProviderInterface) *Chain {
	return &Chain{
		logger:  logger,
		metrics: metrics,
	}
}

// Register appends m, keeping the chain sorted by From. Entries sharing a
// From stay in registration order.
func (c *Chain) Register(m Migration) {
	if m.To <= m.From || m.Transform == nil {
		c.logger.Warnf(providers.TypeStore, "Ignoring migration %q v%d->v%d: it does not advance the version", m.Name, m.From, m.To)
		return
	}
	c.migrations = append(c.migrations, m)
	sort.SliceStable(c.migrations, func(i, j int) bool {
		return c.migrations[i].From < c.migrations[j].From
	})
}

func (c *Chain) Len() int {
	return len(c.migrations)
}

func (c *Chain) NeedsMigration(version, target int) bool {
	return version < target
}

// next picks the migration to run from version. When several are
// registered for the same From, the last registered applicable one wins.
// TODO: confirm with the save-format owners whether duplicate From
// registrations should be rejected instead.
func (c *Chain) next(version, target int) (Migration, bool) {
	var (
		found Migration
		ok    bool
	)
	for _, m := range c.migrations {
		if m.From == version && m.To <= target {
			found, ok = m, true
		}
	}
	return found, ok
}

// Migrate upgrades a copy of doc towards target. It never fails and never
// lowers the version: when no registered migration covers the remaining
// gap, the document is stamped with target as-is and the gap is logged.
func (c *Chain) Migrate(doc Document, target int) Document {
	out := doc.Clone()
	if out == nil {
		out = Document{}
	}

	for {
		version := out.Version()
		if !c.NeedsMigration(version, target) {
			return out
		}
		m, ok := c.next(version, target)
		if !ok {
			break
		}
		c.logger.Infof(providers.TypeStore, "Migrating save v%d->v%d (%s)", m.From, m.To, m.Name)
		if next := m.Transform(out); next != nil {
			out = next
		}
		out.SetVersion(m.To)
		c.metrics.IncMigrations("explicit")
	}

	c.logger.Warnf(providers.TypeStore, "No migration registered from v%d; stamping v%d without transforming fields", out.Version(), target)
	c.metrics.IncMigrations("fallback")
	out.SetVersion(target)
	return out
}
