package models

import (
	"encoding/json"
	"fmt"
)

// StrikeSelection describes how a leg's strike is chosen. Exactly one variant
// is held per leg, so fields belonging to another method cannot linger.
type StrikeSelection interface {
	Method() SelectionMethod
	isStrikeSelection()
}

// ATMPointsStrike selects a strike a number of strikes away from ATM,
// written as "ATM", "OTM{n}" or "ITM{n}".
type ATMPointsStrike struct {
	Strike string
}

// ATMPercentStrike selects a strike a percentage away from ATM, written as
// "ATM", "ATM+{p}%" or "ATM-{p}%".
type ATMPercentStrike struct {
	Strike string
}

// PremiumStrike selects the strike whose premium satisfies Operator against Value.
type PremiumStrike struct {
	Operator PremiumOperator
	Value    float64
}

// StraddlePremiumStrike selects the strike whose premium satisfies Operator
// against Percentage of the ATM straddle premium.
type StraddlePremiumStrike struct {
	Operator   PremiumOperator
	Percentage float64
}

func (ATMPointsStrike) Method() SelectionMethod       { return SelectionATMPoints }
func (ATMPercentStrike) Method() SelectionMethod      { return SelectionATMPercent }
func (PremiumStrike) Method() SelectionMethod         { return SelectionPremium }
func (StraddlePremiumStrike) Method() SelectionMethod { return SelectionStraddlePremium }

func (ATMPointsStrike) isStrikeSelection()       {}
func (ATMPercentStrike) isStrikeSelection()      {}
func (PremiumStrike) isStrikeSelection()         {}
func (StraddlePremiumStrike) isStrikeSelection() {}

// StrikeDisplay returns the display strike of an ATM based selection, or ""
// for premium based selections.
func StrikeDisplay(s StrikeSelection) string {
	switch v := s.(type) {
	case ATMPointsStrike:
		return v.Strike
	case ATMPercentStrike:
		return v.Strike
	}
	return ""
}

// StopLossConfig is a leg level stop-loss.
type StopLossConfig struct {
	Enabled bool          `json:"enabled"`
	Type    RiskValueType `json:"type"`
	Value   float64       `json:"value"`
}

// Valid returns true when the stop-loss is enabled with a usable value.
func (c StopLossConfig) Valid() bool {
	if !c.Enabled || c.Value <= 0 {
		return false
	}
	return c.Type != RiskPercentage || c.Value <= 100
}

// TargetProfitConfig is a leg level profit target.
type TargetProfitConfig struct {
	Enabled bool          `json:"enabled"`
	Type    RiskValueType `json:"type"`
	Value   float64       `json:"value"`
}

// Valid returns true when the target is enabled with a positive value.
func (c TargetProfitConfig) Valid() bool {
	return c.Enabled && c.Value > 0
}

// TrailingStopLossConfig moves the stop-loss by StopLossMove every time the
// instrument moves InstrumentMove in favour.
type TrailingStopLossConfig struct {
	Enabled        bool          `json:"enabled"`
	Type           RiskValueType `json:"type"`
	InstrumentMove float64       `json:"instrumentMove"`
	StopLossMove   float64       `json:"stopLossMove"`
}

// WaitAndTradeConfig delays entry until the premium moves by Value.
type WaitAndTradeConfig struct {
	Enabled bool             `json:"enabled"`
	Type    WaitAndTradeType `json:"type"`
	Value   float64          `json:"value"`
}

// ReEntryConfig re-enters a leg up to Count times after its stop-loss.
type ReEntryConfig struct {
	Enabled bool        `json:"enabled"`
	Type    ReEntryType `json:"type"`
	Count   int         `json:"count"`
}

// ReExecuteConfig re-executes a leg up to Count times after its target.
type ReExecuteConfig struct {
	Enabled bool          `json:"enabled"`
	Type    ReExecuteType `json:"type"`
	Count   int           `json:"count"`
}

// StrategyLeg is one option position within a strategy.
type StrategyLeg struct {
	ID         string
	OptionType OptionType
	ActionType ActionType
	TotalLots  int
	Selection  StrikeSelection

	StopLoss         StopLossConfig
	TargetProfit     TargetProfitConfig
	TrailingStopLoss TrailingStopLossConfig
	WaitAndTrade     WaitAndTradeConfig
	ReEntry          ReEntryConfig
	ReExecute        ReExecuteConfig
}

// NewStrategyLeg returns an ATM call buy of one lot with every risk
// sub-config disabled.
func NewStrategyLeg(id string) StrategyLeg {
	return StrategyLeg{
		ID:               id,
		OptionType:       OptionCE,
		ActionType:       ActionBuy,
		TotalLots:        1,
		Selection:        ATMPointsStrike{Strike: "ATM"},
		StopLoss:         StopLossConfig{Type: RiskPercentage},
		TargetProfit:     TargetProfitConfig{Type: RiskPercentage},
		TrailingStopLoss: TrailingStopLossConfig{Type: RiskPoints},
		WaitAndTrade:     WaitAndTradeConfig{Type: WaitPercentageUp},
		ReEntry:          ReEntryConfig{Type: ReEntryASAP, Count: 1},
		ReExecute:        ReExecuteConfig{Type: ReExecuteASAP, Count: 1},
	}
}

// SelectionMethod returns the leg's selection method, or "" when unset.
func (l StrategyLeg) SelectionMethod() SelectionMethod {
	if l.Selection == nil {
		return ""
	}
	return l.Selection.Method()
}

// legJSON is the flat form-state encoding of a leg.
type legJSON struct {
	ID                        string                 `json:"id"`
	OptionType                OptionType             `json:"optionType"`
	ActionType                ActionType             `json:"actionType"`
	TotalLots                 int                    `json:"totalLots"`
	SelectionMethod           SelectionMethod        `json:"selectionMethod"`
	StrikePrice               string                 `json:"strikePrice,omitempty"`
	PremiumOperator           PremiumOperator        `json:"premiumOperator,omitempty"`
	PremiumValue              float64                `json:"premiumValue,omitempty"`
	StraddlePremiumOperator   PremiumOperator        `json:"straddlePremiumOperator,omitempty"`
	StraddlePremiumPercentage float64                `json:"straddlePremiumPercentage,omitempty"`
	StopLoss                  StopLossConfig         `json:"stopLoss"`
	TargetProfit              TargetProfitConfig     `json:"targetProfit"`
	TrailingStopLoss          TrailingStopLossConfig `json:"trailingStopLoss"`
	WaitAndTrade              WaitAndTradeConfig     `json:"waitAndTrade"`
	ReEntry                   ReEntryConfig          `json:"reEntry"`
	ReExecute                 ReExecuteConfig        `json:"reExecute"`
}

// MarshalJSON flattens the selection into the form-state field names.
func (l StrategyLeg) MarshalJSON() ([]byte, error) {
	out := legJSON{
		ID:               l.ID,
		OptionType:       l.OptionType,
		ActionType:       l.ActionType,
		TotalLots:        l.TotalLots,
		SelectionMethod:  l.SelectionMethod(),
		StopLoss:         l.StopLoss,
		TargetProfit:     l.TargetProfit,
		TrailingStopLoss: l.TrailingStopLoss,
		WaitAndTrade:     l.WaitAndTrade,
		ReEntry:          l.ReEntry,
		ReExecute:        l.ReExecute,
	}

	switch s := l.Selection.(type) {
	case ATMPointsStrike:
		out.StrikePrice = s.Strike
	case ATMPercentStrike:
		out.StrikePrice = s.Strike
	case PremiumStrike:
		out.PremiumOperator = s.Operator
		out.PremiumValue = s.Value
	case StraddlePremiumStrike:
		out.StraddlePremiumOperator = s.Operator
		out.StraddlePremiumPercentage = s.Percentage
	}

	return json.Marshal(out)
}

// UnmarshalJSON keeps only the selection fields of the active method.
func (l *StrategyLeg) UnmarshalJSON(data []byte) error {
	var in legJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	selection, err := selectionFromForm(in)
	if err != nil {
		return err
	}

	*l = StrategyLeg{
		ID:               in.ID,
		OptionType:       in.OptionType,
		ActionType:       in.ActionType,
		TotalLots:        in.TotalLots,
		Selection:        selection,
		StopLoss:         in.StopLoss,
		TargetProfit:     in.TargetProfit,
		TrailingStopLoss: in.TrailingStopLoss,
		WaitAndTrade:     in.WaitAndTrade,
		ReEntry:          in.ReEntry,
		ReExecute:        in.ReExecute,
	}
	return nil
}

func selectionFromForm(in legJSON) (StrikeSelection, error) {
	switch in.SelectionMethod {
	case "":
		return nil, nil
	case SelectionATMPoints:
		return ATMPointsStrike{Strike: in.StrikePrice}, nil
	case SelectionATMPercent:
		return ATMPercentStrike{Strike: in.StrikePrice}, nil
	case SelectionPremium:
		return PremiumStrike{Operator: in.PremiumOperator, Value: in.PremiumValue}, nil
	case SelectionStraddlePremium:
		return StraddlePremiumStrike{Operator: in.StraddlePremiumOperator, Percentage: in.StraddlePremiumPercentage}, nil
	}
	return nil, fmt.Errorf("unknown selection method %q", in.SelectionMethod)
}
