package strategy

import (
	"sort"

	"strategy-builder/pkg/utils"
)

// IndexSpec holds exchange contract details of an underlying.
type IndexSpec struct {
	LotSize        int // contract multiplier
	FreezeQuantity int // largest quantity accepted in a single order
}

// Rules holds the thresholds the validator checks against.
type Rules struct {
	MarketOpen         utils.Clock
	MarketClose        utils.Clock
	MinDurationMinutes int

	MaxLegsWarning            int
	MaxLotsWarning            int
	MaxPremiumWarning         float64
	MaxStraddlePercentWarning float64
	MaxReEntryCountWarning    int

	LegImbalanceWarning  int
	HighTotalLotsWarning int
	SlippageLegsWarning  int

	Indices map[string]IndexSpec
}

// DefaultRules returns the NSE/BSE index option conventions.
func DefaultRules() Rules {
	return Rules{
		MarketOpen:         utils.MarketOpen(),
		MarketClose:        utils.MarketClose(),
		MinDurationMinutes: 15,

		MaxLegsWarning:            6,
		MaxLotsWarning:            100,
		MaxPremiumWarning:         1000,
		MaxStraddlePercentWarning: 80,
		MaxReEntryCountWarning:    2,

		LegImbalanceWarning:  2,
		HighTotalLotsWarning: 50,
		SlippageLegsWarning:  5,

		Indices: DefaultIndices(),
	}
}

// DefaultIndices returns lot sizes and freeze quantities of the supported
// index derivatives.
func DefaultIndices() map[string]IndexSpec {
	return map[string]IndexSpec{
		"NIFTY":      {LotSize: 75, FreezeQuantity: 1800},
		"BANKNIFTY":  {LotSize: 35, FreezeQuantity: 900},
		"FINNIFTY":   {LotSize: 65, FreezeQuantity: 1800},
		"MIDCPNIFTY": {LotSize: 140, FreezeQuantity: 2800},
		"SENSEX":     {LotSize: 20, FreezeQuantity: 1000},
		"BANKEX":     {LotSize: 30, FreezeQuantity: 900},
	}
}

// IndexNames returns the supported underlyings in sorted order.
func (r Rules) IndexNames() []string {
	names := make([]string, 0, len(r.Indices))
	for name := range r.Indices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
