package models

const (
	CurrencyGold        = "gold"
	CurrencyGem         = "gem"
	CurrencyStamina     = "stamina"
	CurrencyFriendPoint = "friend_point"

	PrimaryCurrency = CurrencyGold
)

type Currency struct {
	Gold        int64 `json:"gold"`
	Gem         int64 `json:"gem"`
	Stamina     int64 `json:"stamina"`
	FriendPoint int64 `json:"friendPoint"`
}

func (c *Currency) slot(currencyID string) *int64 {
	switch currencyID {
	case CurrencyGold:
		return &c.Gold
	case CurrencyGem:
		return &c.Gem
	case CurrencyStamina:
		return &c.Stamina
	case CurrencyFriendPoint:
		return &c.FriendPoint
	}
	return nil
}

// IsKnownCurrency reports whether currencyID names a fungible currency slot.
func IsKnownCurrency(currencyID string) bool {
	var c Currency
	return c.slot(currencyID) != nil
}

// Credit adds amount to the named currency. Unknown identifiers are routed
// to the primary currency; the returned id is the one actually credited and
// known is false when the fallback was taken.
func (c *Currency) Credit(currencyID string, amount int64) (credited string, known bool) {
	slot := c.slot(currencyID)
	credited, known = currencyID, true
	if slot == nil {
		slot = c.slot(PrimaryCurrency)
		credited, known = PrimaryCurrency, false
	}
	*slot += amount
	return credited, known
}

func (c Currency) Balance(currencyID string) (int64, bool) {
	slot := c.slot(currencyID)
	if slot == nil {
		return 0, false
	}
	return *slot, true
}
