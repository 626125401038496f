package services

import (
	"fmt"
	"statekeeper/internal/limits"
	"statekeeper/internal/models"
	"statekeeper/internal/structures"
)

type ProductCatalog interface {
	Product(productID string) (models.LimitPolicy, bool)
}

// StageRule is a stage's entry limit plus the weekdays it is open on.
type StageRule struct {
	Policy      models.LimitPolicy
	AllowedDays []string
}

type StageCatalog interface {
	Stage(stageID string) (StageRule, bool)
}

// StaticCatalog serves products, stages and events read from config.
type StaticCatalog struct {
	products map[string]models.LimitPolicy
	stages   map[string]StageRule
	events   []models.TrackedEvent
}

func NewStaticCatalog(conf *structures.Config) (*StaticCatalog, error) {
	c := &StaticCatalog{
		products: make(map[string]models.LimitPolicy, len(conf.Catalog.Products)),
		stages:   make(map[string]StageRule, len(conf.Catalog.Stages)),
	}

	for _, p := range conf.Catalog.Products {
		kind, err := models.ParseLimitKind(p.LimitKind)
		if err != nil {
			return nil, fmt.Errorf("product %q: %w", p.ID, err)
		}
		c.products[p.ID] = models.LimitPolicy{Kind: kind, LimitCount: p.LimitCount}
	}
	for _, s := range conf.Catalog.Stages {
		kind, err := models.ParseLimitKind(s.LimitKind)
		if err != nil {
			return nil, fmt.Errorf("stage %q: %w", s.ID, err)
		}
		if _, err := limits.ParseDays(s.AllowedDays); err != nil {
			return nil, fmt.Errorf("stage %q: %w", s.ID, err)
		}
		c.stages[s.ID] = StageRule{
			Policy:      models.LimitPolicy{Kind: kind, LimitCount: s.LimitCount},
			AllowedDays: append([]string(nil), s.AllowedDays...),
		}
	}
	seen := make(map[string]struct{}, len(conf.Catalog.Events))
	for _, e := range conf.Catalog.Events {
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("event %q is declared twice", e.ID)
		}
		seen[e.ID] = struct{}{}
		c.events = append(c.events, models.TrackedEvent{
			EventID: e.ID,
			Window:  models.EventWindow{StartAt: e.StartAt.UTC(), EndAt: e.EndAt.UTC()},
			Policy: models.EventCurrencyPolicy{
				CurrencyID:          e.CurrencyID,
				GracePeriodDays:     e.GracePeriodDays,
				ConvertToCurrencyID: e.ConvertToCurrencyID,
				ConversionRate:      e.ConversionRate,
			},
		})
	}
	return c, nil
}

func (c *StaticCatalog) Product(productID string) (models.LimitPolicy, bool) {
	p, ok := c.products[productID]
	return p, ok
}

func (c *StaticCatalog) Stage(stageID string) (StageRule, bool) {
	s, ok := c.stages[stageID]
	return s, ok
}

func (c *StaticCatalog) Event(eventID string) (models.TrackedEvent, bool) {
	for _, e := range c.events {
		if e.EventID == eventID {
			return e, true
		}
	}
	return models.TrackedEvent{}, false
}

func (c *StaticCatalog) Events() []models.TrackedEvent {
	return append([]models.TrackedEvent(nil), c.events...)
}
