package models

// MTMConfig is a strategy level mark-to-market target or stop-loss.
// A zero Value means the level is not set.
type MTMConfig struct {
	Type  MTMType `json:"type"`
	Value float64 `json:"value"`
}

// StrategyConfig holds the settings shared by every leg of a strategy.
// Times are kept as the two-digit hour and minute strings the form edits.
type StrategyConfig struct {
	EntryTimeHour   string `json:"entryTimeHour"`
	EntryTimeMinute string `json:"entryTimeMinute"`
	ExitTimeHour    string `json:"exitTimeHour"`
	ExitTimeMinute  string `json:"exitTimeMinute"`

	RangeBreakout           bool   `json:"rangeBreakout"`
	RangeBreakoutTimeHour   string `json:"rangeBreakoutTimeHour"`
	RangeBreakoutTimeMinute string `json:"rangeBreakoutTimeMinute"`
	MoveSLToCost            bool   `json:"moveSlToCost"`

	TradingType      TradingType      `json:"tradingType"`
	IntradayExitMode IntradayExitMode `json:"intradayExitMode,omitempty"`

	// Only meaningful for positional strategies.
	EntryTradingDaysBeforeExpiry int `json:"entryTradingDaysBeforeExpiry"`
	ExitTradingDaysBeforeExpiry  int `json:"exitTradingDaysBeforeExpiry"`

	ExpiryType  ExpiryType  `json:"expiryType"`
	ProductType ProductType `json:"productType"`

	TargetProfit MTMConfig `json:"targetProfit"`
	MTMStopLoss  MTMConfig `json:"mtmStopLoss"`
}

// StrategyFormData is the complete strategy as edited in the form.
type StrategyFormData struct {
	BasketID     string         `json:"basketId"`
	StrategyName string         `json:"strategyName"`
	Index        string         `json:"index"`
	Config       StrategyConfig `json:"config"`
	Legs         []StrategyLeg  `json:"legs"`
}

// DefaultStrategyConfig returns the settings a new strategy starts with.
func DefaultStrategyConfig() StrategyConfig {
	return StrategyConfig{
		EntryTimeHour:           "09",
		EntryTimeMinute:         "15",
		ExitTimeHour:            "15",
		ExitTimeMinute:          "30",
		RangeBreakoutTimeHour:   "09",
		RangeBreakoutTimeMinute: "30",
		TradingType:             TradingIntraday,
		IntradayExitMode:        ExitSameDay,
		ExpiryType:              ExpiryWeekly,
		ProductType:             ProductNRML,
		TargetProfit:            MTMConfig{Type: MTMTotal},
		MTMStopLoss:             MTMConfig{Type: MTMTotal},
	}
}
