package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// SelectionValue is the wire selection_value: a number, or the DYNAMIC
// sentinel for strikes resolved from premiums.
type SelectionValue struct {
	Number   float64
	Sentinel string
}

// NumberValue returns a numeric selection value.
func NumberValue(n float64) SelectionValue {
	return SelectionValue{Number: n}
}

// SentinelValue returns a sentinel selection value.
func SentinelValue(s string) SelectionValue {
	return SelectionValue{Sentinel: s}
}

// IsSentinel returns true when the value carries a string instead of a number.
func (v SelectionValue) IsSentinel() bool {
	return v.Sentinel != ""
}

// String returns the value as it would be displayed in a log line.
func (v SelectionValue) String() string {
	if v.IsSentinel() {
		return v.Sentinel
	}
	return strconv.FormatFloat(v.Number, 'f', -1, 64)
}

// MarshalJSON writes a JSON number or string.
func (v SelectionValue) MarshalJSON() ([]byte, error) {
	if v.IsSentinel() {
		return json.Marshal(v.Sentinel)
	}
	return json.Marshal(v.Number)
}

// UnmarshalJSON accepts a JSON number, a string or null. Numeric strings
// are read as numbers.
func (v *SelectionValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = SelectionValue{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			*v = NumberValue(n)
			return nil
		}
		*v = SentinelValue(s)
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("selection_value: %w", err)
	}
	*v = NumberValue(n)
	return nil
}

// BackendRiskValue is the wire form of an enabled stop-loss, target or
// wait-and-trade sub-config.
type BackendRiskValue struct {
	Type  string  `json:"type" validate:"required"`
	Value float64 `json:"value" validate:"gt=0"`
}

// BackendTrailingStopLoss is the wire form of an enabled trailing stop-loss.
type BackendTrailingStopLoss struct {
	Type           RiskValueType `json:"type" validate:"required"`
	InstrumentMove float64       `json:"instrument_move" validate:"gt=0"`
	StopLossMove   float64       `json:"stop_loss_move" validate:"gt=0"`
}

// BackendRepeat is the wire form of an enabled re-entry or re-execute.
type BackendRepeat struct {
	Type  string `json:"type" validate:"required"`
	Count int    `json:"count" validate:"min=1,max=5"`
}

// BackendMTM is the wire form of a strategy level target or stop-loss.
type BackendMTM struct {
	Type  MTMType `json:"type" validate:"required"`
	Value float64 `json:"value" validate:"gt=0"`
}

// BackendLeg is one leg of the backend strategy schema. Risk sub-configs
// are present only when enabled.
type BackendLeg struct {
	ID                string          `json:"id,omitempty"`
	OptionType        OptionType      `json:"option_type" validate:"oneof=CE PE"`
	Action            ActionType      `json:"action" validate:"oneof=BUY SELL"`
	SelectionMethod   SelectionMethod `json:"selection_method" validate:"oneof=ATM_POINTS ATM_PERCENT PREMIUM PERCENTAGE_OF_STRADDLE_PREMIUM"`
	SelectionValue    SelectionValue  `json:"selection_value"`
	SelectionOperator PremiumOperator `json:"selection_operator,omitempty"`
	Lots              int             `json:"lots" validate:"gt=0"`

	StopLoss         *BackendRiskValue        `json:"stop_loss,omitempty" validate:"omitempty"`
	TargetProfit     *BackendRiskValue        `json:"target_profit,omitempty" validate:"omitempty"`
	TrailingStopLoss *BackendTrailingStopLoss `json:"trailing_stop_loss,omitempty" validate:"omitempty"`
	WaitAndTrade     *BackendRiskValue        `json:"wait_and_trade,omitempty" validate:"omitempty"`
	ReEntry          *BackendRepeat           `json:"re_entry,omitempty" validate:"omitempty"`
	ReExecute        *BackendRepeat           `json:"re_execute,omitempty" validate:"omitempty"`
}

// BackendStrategy is the strategy schema the backend stores.
type BackendStrategy struct {
	ID          string      `json:"id,omitempty"`
	BasketID    string      `json:"basket_id" validate:"required"`
	Name        string      `json:"name" validate:"required"`
	Index       string      `json:"index" validate:"required"`
	ExpiryType  ExpiryType  `json:"expiry_type" validate:"oneof=weekly monthly"`
	ProductType ProductType `json:"product_type" validate:"oneof=MIS NRML"`

	EntryTime string   `json:"entry_time" validate:"required"`
	ExitTime  string   `json:"exit_time" validate:"required"`
	EntryDays []string `json:"entry_days" validate:"required,min=1"`
	ExitDays  []string `json:"exit_days" validate:"required,min=1"`

	TradingType                  TradingType      `json:"trading_type" validate:"oneof=INTRADAY POSITIONAL"`
	IntradayExitMode             IntradayExitMode `json:"intraday_exit_mode,omitempty"`
	EntryTradingDaysBeforeExpiry *int             `json:"entry_trading_days_before_expiry,omitempty"`
	ExitTradingDaysBeforeExpiry  *int             `json:"exit_trading_days_before_expiry,omitempty"`

	RangeBreakout     bool        `json:"range_breakout"`
	RangeBreakoutTime string      `json:"range_breakout_time,omitempty"`
	MoveSLToCost      bool        `json:"move_sl_to_cost"`
	TargetProfit      *BackendMTM `json:"target_profit,omitempty" validate:"omitempty"`
	MTMStopLoss       *BackendMTM `json:"mtm_stop_loss,omitempty" validate:"omitempty"`

	Legs []BackendLeg `json:"legs" validate:"required,min=1,dive"`
}
