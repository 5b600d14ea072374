// Package models provides the strategy domain models shared by the codec,
// transformer, validator and API client.
package models

// OptionType represents the option contract type.
type OptionType string

const (
	OptionCE OptionType = "CE" // Call
	OptionPE OptionType = "PE" // Put
)

// ActionType represents the side of a leg.
type ActionType string

const (
	ActionBuy  ActionType = "BUY"
	ActionSell ActionType = "SELL"
)

// SelectionMethod represents how a leg's strike is chosen.
type SelectionMethod string

const (
	SelectionATMPoints       SelectionMethod = "ATM_POINTS"
	SelectionATMPercent      SelectionMethod = "ATM_PERCENT"
	SelectionPremium         SelectionMethod = "PREMIUM"
	SelectionStraddlePremium SelectionMethod = "PERCENTAGE_OF_STRADDLE_PREMIUM"
)

// IsPremiumBased returns true for methods whose strike is resolved at entry
// time from live premiums rather than from a fixed offset.
func (m SelectionMethod) IsPremiumBased() bool {
	return m == SelectionPremium || m == SelectionStraddlePremium
}

// Valid reports whether m is a known selection method.
func (m SelectionMethod) Valid() bool {
	switch m {
	case SelectionATMPoints, SelectionATMPercent, SelectionPremium, SelectionStraddlePremium:
		return true
	}
	return false
}

// PremiumOperator compares a candidate premium with the configured value.
type PremiumOperator string

const (
	PremiumClosest PremiumOperator = "CLOSEST"
	PremiumGTE     PremiumOperator = "GTE"
	PremiumLTE     PremiumOperator = "LTE"
)

// RiskValueType is the unit of a leg level stop-loss, target or trail.
type RiskValueType string

const (
	RiskPoints     RiskValueType = "POINTS"
	RiskPercentage RiskValueType = "PERCENTAGE"
)

// WaitAndTradeType is the direction and unit of a wait-and-trade trigger.
type WaitAndTradeType string

const (
	WaitPercentageUp   WaitAndTradeType = "PERCENTAGE_UP"
	WaitPercentageDown WaitAndTradeType = "PERCENTAGE_DOWN"
	WaitPointsUp       WaitAndTradeType = "POINTS_UP"
	WaitPointsDown     WaitAndTradeType = "POINTS_DOWN"
)

// ReEntryType represents how a leg re-enters after its stop-loss hits.
type ReEntryType string

const (
	ReEntryASAP            ReEntryType = "RE_ASAP"
	ReEntryASAPReverse     ReEntryType = "RE_ASAP_REVERSE"
	ReEntryMomentum        ReEntryType = "RE_MOMENTUM"
	ReEntryMomentumReverse ReEntryType = "RE_MOMENTUM_REVERSE"
	ReEntryCost            ReEntryType = "RE_COST"
	ReEntryCostReverse     ReEntryType = "RE_COST_REVERSE"
)

// ReExecuteType represents how a leg is re-executed after its target hits.
type ReExecuteType string

const (
	ReExecuteASAP     ReExecuteType = "RE_ASAP"
	ReExecuteMomentum ReExecuteType = "RE_MOMENTUM"
)

// TradingType represents whether a strategy is squared off within the day.
type TradingType string

const (
	TradingIntraday   TradingType = "INTRADAY"
	TradingPositional TradingType = "POSITIONAL"
)

// IntradayExitMode represents when an intraday strategy exits.
type IntradayExitMode string

const (
	ExitSameDay     IntradayExitMode = "SAME_DAY"
	ExitNextDayBTST IntradayExitMode = "NEXT_DAY_BTST"
)

// ExpiryType represents the contract expiry series.
type ExpiryType string

const (
	ExpiryWeekly  ExpiryType = "weekly"
	ExpiryMonthly ExpiryType = "monthly"
)

// ProductType represents the product type of the strategy's orders.
type ProductType string

const (
	ProductMIS  ProductType = "MIS"  // Intraday
	ProductNRML ProductType = "NRML" // F&O Normal
)

// MTMType is the unit of the strategy level target and stop-loss.
type MTMType string

const (
	MTMTotal                  MTMType = "TOTAL_MTM"
	MTMCombinedPremiumPercent MTMType = "COMBINED_PREMIUM_PERCENT"
)

// IsPercentage returns true for percentage-style MTM types.
func (t MTMType) IsPercentage() bool {
	return t == MTMCombinedPremiumPercent
}

// Weekday codes used for the entry and exit trading-day sets.
const (
	DayMonday    = "MON"
	DayTuesday   = "TUE"
	DayWednesday = "WED"
	DayThursday  = "THU"
	DayFriday    = "FRI"
)

// DefaultTradingDays returns the Monday to Friday trading-day set.
func DefaultTradingDays() []string {
	return []string{DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday}
}

// DynamicStrike is the sentinel sent in place of a strike offset when the
// strike is resolved from premiums at entry time.
const DynamicStrike = "DYNAMIC"
