package strategy

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"strategy-builder/internal/logging"
	"strategy-builder/internal/models"
	"strategy-builder/internal/strike"
	"strategy-builder/pkg/utils"
)

// ValidationResult holds the outcome of validating a strategy. Warnings never
// affect IsValid.
type ValidationResult struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Validator checks a strategy form against structural, business and market
// convention rules. It never mutates its input.
type Validator struct {
	rules  Rules
	logger zerolog.Logger
}

// NewValidator creates a new validator.
func NewValidator(rules Rules, logger zerolog.Logger) *Validator {
	if rules.Indices == nil {
		rules.Indices = DefaultIndices()
	}
	return &Validator{
		rules:  rules,
		logger: logging.WithComponent(logger, "validator"),
	}
}

// Rules returns the thresholds in use.
func (v *Validator) Rules() Rules {
	return v.rules
}

// report collects messages in insertion order without duplicates.
type report struct {
	errors   []string
	warnings []string
	seen     map[string]bool
}

func newReport() *report {
	return &report{seen: make(map[string]bool)}
}

func (r *report) errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if r.seen["E"+msg] {
		return
	}
	r.seen["E"+msg] = true
	r.errors = append(r.errors, msg)
}

func (r *report) warnf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if r.seen["W"+msg] {
		return
	}
	r.seen["W"+msg] = true
	r.warnings = append(r.warnings, msg)
}

// Validate runs every validation pass over data.
func (v *Validator) Validate(data *models.StrategyFormData) ValidationResult {
	r := newReport()
	if data == nil {
		r.errorf("Strategy data is required")
		return r.result()
	}

	v.validateBasics(data, r)
	for i, leg := range data.Legs {
		v.validateLeg(i+1, leg, r)
		v.validateLegRisk(i+1, leg, r)
	}
	v.validateConfig(data.Config, r)
	v.validatePatterns(data, r)

	res := r.result()
	logger := logging.WithStrategy(v.logger, data.StrategyName, data.Index)
	logging.LogValidation(logger, res.IsValid, len(res.Errors), len(res.Warnings))
	return res
}

// ValidateContext is Validate for asynchronous call sites. It only checks
// for cancellation before delegating; no I/O is performed.
func (v *Validator) ValidateContext(ctx context.Context, data *models.StrategyFormData) (ValidationResult, error) {
	if err := ctx.Err(); err != nil {
		return ValidationResult{}, err
	}
	return v.Validate(data), nil
}

func (r *report) result() ValidationResult {
	errs := r.errors
	if errs == nil {
		errs = []string{}
	}
	warnings := r.warnings
	if warnings == nil {
		warnings = []string{}
	}
	return ValidationResult{
		IsValid:  len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
	}
}

func (v *Validator) validateBasics(data *models.StrategyFormData, r *report) {
	name := strings.TrimSpace(data.StrategyName)
	if name == "" {
		r.errorf("Strategy name is required")
	} else if len(name) < 3 {
		r.warnf("Strategy name is very short")
	}

	if strings.TrimSpace(data.BasketID) == "" {
		r.errorf("Basket ID is required")
	}

	if data.Index == "" {
		r.errorf("Index is required")
	} else if _, ok := v.rules.Indices[data.Index]; !ok {
		r.errorf("Unsupported index: %s (supported: %s)", data.Index, strings.Join(v.rules.IndexNames(), ", "))
	}

	if len(data.Legs) == 0 {
		r.errorf("At least one position is required")
	} else if len(data.Legs) > v.rules.MaxLegsWarning {
		r.warnf("Strategy has %d positions; more than %d makes it hard to manage", len(data.Legs), v.rules.MaxLegsWarning)
	}
}

func (v *Validator) validateLeg(pos int, leg models.StrategyLeg, r *report) {
	if leg.OptionType != models.OptionCE && leg.OptionType != models.OptionPE {
		r.errorf("Position %d: option type must be CE or PE", pos)
	}
	if leg.ActionType != models.ActionBuy && leg.ActionType != models.ActionSell {
		r.errorf("Position %d: action must be BUY or SELL", pos)
	}

	if leg.TotalLots <= 0 {
		r.errorf("Position %d: total lots must be greater than 0", pos)
	} else if leg.TotalLots > v.rules.MaxLotsWarning {
		r.warnf("Position %d: %d lots is unusually large", pos, leg.TotalLots)
	}

	switch s := leg.Selection.(type) {
	case nil:
		r.errorf("Position %d: selection method is required", pos)
	case models.ATMPointsStrike, models.ATMPercentStrike:
		display := models.StrikeDisplay(s)
		if display == "" {
			r.errorf("Position %d: strike price is required", pos)
		} else if !strike.ValidFormat(display, s.Method()) {
			r.errorf("Position %d: invalid strike %q for %s", pos, display, s.Method())
		}
	case models.PremiumStrike:
		if !validOperator(s.Operator) {
			r.errorf("Position %d: premium operator is required", pos)
		}
		if s.Value < 0 {
			r.errorf("Position %d: premium value cannot be negative", pos)
		} else if s.Value > v.rules.MaxPremiumWarning {
			r.warnf("Position %d: premium value %.2f is unusually high", pos, s.Value)
		}
	case models.StraddlePremiumStrike:
		if !validOperator(s.Operator) {
			r.errorf("Position %d: straddle premium operator is required", pos)
		}
		if s.Percentage <= 0 {
			r.errorf("Position %d: straddle premium percentage must be greater than 0", pos)
		} else if s.Percentage > v.rules.MaxStraddlePercentWarning {
			r.warnf("Position %d: straddle premium percentage %.2f%% is unusually high", pos, s.Percentage)
		}
	}
}

func validOperator(op models.PremiumOperator) bool {
	switch op {
	case models.PremiumClosest, models.PremiumGTE, models.PremiumLTE:
		return true
	}
	return false
}

func (v *Validator) validateLegRisk(pos int, leg models.StrategyLeg, r *report) {
	sl := leg.StopLoss
	if sl.Enabled {
		if sl.Value <= 0 {
			r.errorf("Position %d: stop loss value must be greater than 0", pos)
		} else if sl.Type == models.RiskPercentage && sl.Value > 100 {
			r.errorf("Position %d: stop loss percentage cannot exceed 100", pos)
		}
	}

	if leg.TargetProfit.Enabled && leg.TargetProfit.Value <= 0 {
		r.errorf("Position %d: target profit value must be greater than 0", pos)
	}

	if tsl := leg.TrailingStopLoss; tsl.Enabled {
		if !sl.Enabled {
			r.errorf("Position %d: trailing stop loss requires stop loss to be enabled", pos)
		} else if !sl.Valid() {
			r.errorf("Position %d: trailing stop loss requires a valid stop loss", pos)
		}
		if tsl.InstrumentMove <= 0 {
			r.errorf("Position %d: trailing stop loss instrument move must be greater than 0", pos)
		}
		if tsl.StopLossMove <= 0 {
			r.errorf("Position %d: trailing stop loss stop loss move must be greater than 0", pos)
		}
		if tsl.InstrumentMove > 0 && tsl.StopLossMove > 0 && tsl.InstrumentMove < tsl.StopLossMove {
			r.warnf("Position %d: trailing stop loss moves the stop further than the instrument moved", pos)
		}
	}

	if leg.WaitAndTrade.Enabled && leg.WaitAndTrade.Value <= 0 {
		r.errorf("Position %d: wait and trade value must be greater than 0", pos)
	}

	if re := leg.ReEntry; re.Enabled {
		if re.Count < 1 || re.Count > 5 {
			r.errorf("Position %d: re-entry count must be between 1 and 5", pos)
		} else if re.Count > v.rules.MaxReEntryCountWarning {
			r.warnf("Position %d: %d re-entries can multiply losses on a trending day", pos, re.Count)
		}
		if !sl.Valid() {
			r.errorf("Position %d: re-entry requires a valid stop loss", pos)
		}
	}

	if rx := leg.ReExecute; rx.Enabled {
		if rx.Count < 1 || rx.Count > 5 {
			r.errorf("Position %d: re-execute count must be between 1 and 5", pos)
		}
		if !leg.TargetProfit.Enabled {
			r.warnf("Position %d: re-execute has no effect without target profit", pos)
		}
	}
}

func (v *Validator) validateConfig(cfg models.StrategyConfig, r *report) {
	entry, entryOK := utils.ClockFromParts(cfg.EntryTimeHour, cfg.EntryTimeMinute)
	exit, exitOK := utils.ClockFromParts(cfg.ExitTimeHour, cfg.ExitTimeMinute)
	hours := fmt.Sprintf("%s - %s", v.rules.MarketOpen, v.rules.MarketClose)

	if !entryOK {
		r.errorf("Invalid entry time")
	} else if !v.inSession(entry) {
		r.errorf("Entry time must be within market hours (%s)", hours)
	}
	if !exitOK {
		r.errorf("Invalid exit time")
	} else if !v.inSession(exit) {
		r.errorf("Exit time must be within market hours (%s)", hours)
	}

	if entryOK && exitOK && exitsSameDay(cfg) {
		if entry.Minutes() >= exit.Minutes() {
			r.errorf("Entry time must be before exit time")
		} else if exit.Minutes()-entry.Minutes() < v.rules.MinDurationMinutes {
			r.warnf("Strategy runs for less than %d minutes", v.rules.MinDurationMinutes)
		}
	}

	if cfg.RangeBreakout {
		rb, ok := utils.ClockFromParts(cfg.RangeBreakoutTimeHour, cfg.RangeBreakoutTimeMinute)
		switch {
		case !ok:
			r.errorf("Invalid range breakout time")
		case entryOK && exitOK && !v.rangeBreakoutInWindow(cfg, rb, entry, exit):
			r.errorf("Range breakout time must be between entry and exit time")
		}
	}

	switch cfg.TradingType {
	case models.TradingIntraday:
		if cfg.IntradayExitMode != models.ExitSameDay && cfg.IntradayExitMode != models.ExitNextDayBTST {
			r.errorf("Intraday exit mode must be SAME_DAY or NEXT_DAY_BTST")
		}
	case models.TradingPositional:
		if cfg.EntryTradingDaysBeforeExpiry < 0 || cfg.ExitTradingDaysBeforeExpiry < 0 {
			r.errorf("Trading days before expiry cannot be negative")
		} else if cfg.ExitTradingDaysBeforeExpiry > cfg.EntryTradingDaysBeforeExpiry {
			r.errorf("Exit trading days before expiry cannot exceed entry trading days before expiry")
		}
	default:
		r.errorf("Trading type must be INTRADAY or POSITIONAL")
	}

	if cfg.ExpiryType != models.ExpiryWeekly && cfg.ExpiryType != models.ExpiryMonthly {
		r.errorf("Expiry type must be weekly or monthly")
	}

	if cfg.ProductType != models.ProductMIS && cfg.ProductType != models.ProductNRML {
		r.errorf("Product type must be MIS or NRML")
	} else if !IsProductTypeAllowed(cfg.ProductType, cfg.TradingType, cfg.IntradayExitMode) {
		r.errorf("MIS product type is only allowed for INTRADAY trading with SAME_DAY exit mode.")
	}

	tp, sl := cfg.TargetProfit, cfg.MTMStopLoss
	if tp.Value < 0 {
		r.errorf("Strategy target profit cannot be negative")
	}
	if sl.Value < 0 {
		r.errorf("Strategy stop loss cannot be negative")
	}
	if tp.Value > 0 && sl.Value > 0 && tp.Type == sl.Type && tp.Type.IsPercentage() && tp.Value <= sl.Value {
		r.warnf("Strategy target profit (%.2f%%) is not above stop loss (%.2f%%); risk/reward is unfavourable", tp.Value, sl.Value)
	}
}

// rangeBreakoutInWindow reports whether the range is formed after entry and
// before the position can exit. Overnight runs exit in a later session, so
// the range only has to close by the end of the entry session.
func (v *Validator) rangeBreakoutInWindow(cfg models.StrategyConfig, rb, entry, exit utils.Clock) bool {
	if rb.Minutes() <= entry.Minutes() {
		return false
	}
	if exitsSameDay(cfg) {
		return rb.Minutes() < exit.Minutes()
	}
	return rb.Minutes() <= v.rules.MarketClose.Minutes()
}

func (v *Validator) inSession(c utils.Clock) bool {
	m := c.Minutes()
	return m >= v.rules.MarketOpen.Minutes() && m <= v.rules.MarketClose.Minutes()
}

// exitsSameDay reports whether entry and exit fall on the same session, which
// is when their clock times can be compared.
func exitsSameDay(cfg models.StrategyConfig) bool {
	switch cfg.TradingType {
	case models.TradingIntraday:
		return cfg.IntradayExitMode != models.ExitNextDayBTST
	case models.TradingPositional:
		return cfg.EntryTradingDaysBeforeExpiry == cfg.ExitTradingDaysBeforeExpiry
	}
	return true
}

func (v *Validator) validatePatterns(data *models.StrategyFormData, r *report) {
	legs := data.Legs
	if len(legs) == 0 {
		return
	}

	switch DetectPattern(legs) {
	case PatternStraddle:
		if legs[0].ActionType == models.ActionSell {
			r.warnf("Short straddle detected: losses are unlimited if the index moves sharply either way")
		} else {
			r.warnf("Long straddle detected: needs a large move to overcome time decay")
		}
	case PatternStrangle:
		if legs[0].ActionType == models.ActionSell {
			r.warnf("Short strangle detected: losses are unlimited beyond the sold strikes")
		}
	case PatternIronCondor:
		r.warnf("Iron condor detected: profit is capped and a move beyond the short strikes loses up to the wing width")
	}

	var buys, sells, totalLots int
	for _, leg := range legs {
		switch leg.ActionType {
		case models.ActionBuy:
			buys++
		case models.ActionSell:
			sells++
		}
		if leg.TotalLots > 0 {
			totalLots += leg.TotalLots
		}
	}
	if int(math.Abs(float64(buys-sells))) > v.rules.LegImbalanceWarning {
		r.warnf("Unbalanced strategy: %d buy and %d sell positions", buys, sells)
	}

	if spec, ok := v.rules.Indices[data.Index]; ok && spec.LotSize > 0 {
		for i, leg := range legs {
			qty := leg.TotalLots * spec.LotSize
			if spec.FreezeQuantity > 0 && qty > spec.FreezeQuantity {
				r.warnf("Position %d: quantity %d exceeds the %s freeze limit of %d; the order will be sliced", i+1, qty, data.Index, spec.FreezeQuantity)
			}
		}
	}

	if totalLots > v.rules.HighTotalLotsWarning {
		r.warnf("High cumulative lots (%d) increase execution slippage risk", totalLots)
	}
	if len(legs) >= v.rules.SlippageLegsWarning {
		r.warnf("%d positions are filled one after another; expect slippage between legs", len(legs))
	}
}
