package strategy

import (
	"fmt"
	"strings"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"strategy-builder/internal/errors"
	"strategy-builder/internal/logging"
	"strategy-builder/internal/models"
	"strategy-builder/internal/strike"
	"strategy-builder/pkg/utils"
)

// TimeDefaults are used when a backend time string is missing or malformed.
type TimeDefaults struct {
	Entry         utils.Clock
	Exit          utils.Clock
	RangeBreakout utils.Clock
}

// DefaultTimeDefaults returns session open, session close and 09:30.
func DefaultTimeDefaults() TimeDefaults {
	return TimeDefaults{
		Entry:         utils.MarketOpen(),
		Exit:          utils.MarketClose(),
		RangeBreakout: utils.Clock{Hour: 9, Minute: 30},
	}
}

// Transformer converts strategies between the form shape and the backend
// wire schema.
type Transformer struct {
	codec     *strike.Codec
	validator *Validator
	schema    *govalidator.Validate
	ids       IDGenerator
	defaults  TimeDefaults
	logger    zerolog.Logger
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithIDGenerator sets the generator used for legs that arrive without an ID.
func WithIDGenerator(ids IDGenerator) Option {
	return func(t *Transformer) {
		t.ids = ids
	}
}

// WithTimeDefaults overrides the fallback times used by ToFrontend.
func WithTimeDefaults(d TimeDefaults) Option {
	return func(t *Transformer) {
		t.defaults = d
	}
}

// NewTransformer creates a new transformer. CreateAPIPayload validates with v.
func NewTransformer(v *Validator, logger zerolog.Logger, opts ...Option) *Transformer {
	t := &Transformer{
		codec:     strike.NewCodec(logger),
		validator: v,
		schema:    govalidator.New(),
		ids:       UUIDGenerator{},
		defaults:  DefaultTimeDefaults(),
		logger:    logging.WithComponent(logger, "transformer"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Codec returns the strike codec used by the transformer.
func (t *Transformer) Codec() *strike.Codec {
	return t.codec
}

// ToBackend converts a strategy form into the backend schema. An empty index
// or expiry type falls back to the form's own values. The product type is
// checked against the trading type even if the strategy was never validated.
func (t *Transformer) ToBackend(data *models.StrategyFormData, index string, expiryType models.ExpiryType) (*models.BackendStrategy, error) {
	if data == nil {
		return nil, errors.Wrap(errors.ErrInvalidStrategy, "strategy data is required")
	}

	cfg := data.Config
	if cfg.ProductType == "" {
		cfg.ProductType = models.ProductNRML
	}
	if err := ValidateProductType(cfg); err != nil {
		logging.LogTransform(t.logger, "to_backend", data.StrategyName, len(data.Legs), err)
		return nil, err
	}

	if index == "" {
		index = data.Index
	}
	if expiryType == "" {
		expiryType = cfg.ExpiryType
	}

	out := &models.BackendStrategy{
		BasketID:      data.BasketID,
		Name:          strings.TrimSpace(data.StrategyName),
		Index:         index,
		ExpiryType:    expiryType,
		ProductType:   cfg.ProductType,
		EntryTime:     utils.FormatClock(cfg.EntryTimeHour, cfg.EntryTimeMinute),
		ExitTime:      utils.FormatClock(cfg.ExitTimeHour, cfg.ExitTimeMinute),
		EntryDays:     models.DefaultTradingDays(),
		ExitDays:      models.DefaultTradingDays(),
		TradingType:   cfg.TradingType,
		RangeBreakout: cfg.RangeBreakout,
		MoveSLToCost:  cfg.MoveSLToCost,
		Legs:          make([]models.BackendLeg, 0, len(data.Legs)),
	}

	switch cfg.TradingType {
	case models.TradingIntraday:
		out.IntradayExitMode = cfg.IntradayExitMode
	case models.TradingPositional:
		entryDays := cfg.EntryTradingDaysBeforeExpiry
		exitDays := cfg.ExitTradingDaysBeforeExpiry
		out.EntryTradingDaysBeforeExpiry = &entryDays
		out.ExitTradingDaysBeforeExpiry = &exitDays
	}

	if cfg.RangeBreakout {
		out.RangeBreakoutTime = utils.FormatClock(cfg.RangeBreakoutTimeHour, cfg.RangeBreakoutTimeMinute)
	}
	if cfg.TargetProfit.Value > 0 {
		out.TargetProfit = &models.BackendMTM{Type: cfg.TargetProfit.Type, Value: cfg.TargetProfit.Value}
	}
	if cfg.MTMStopLoss.Value > 0 {
		out.MTMStopLoss = &models.BackendMTM{Type: cfg.MTMStopLoss.Type, Value: cfg.MTMStopLoss.Value}
	}

	for _, leg := range data.Legs {
		out.Legs = append(out.Legs, t.legToBackend(leg))
	}

	logging.LogTransform(t.logger, "to_backend", out.Name, len(out.Legs), nil)
	return out, nil
}

func (t *Transformer) legToBackend(leg models.StrategyLeg) models.BackendLeg {
	out := models.BackendLeg{
		ID:              leg.ID,
		OptionType:      leg.OptionType,
		Action:          leg.ActionType,
		SelectionMethod: leg.SelectionMethod(),
		Lots:            leg.TotalLots,
	}

	switch s := leg.Selection.(type) {
	case models.ATMPointsStrike:
		out.SelectionValue = t.codec.Parse(s.Strike, s.Method())
	case models.ATMPercentStrike:
		out.SelectionValue = t.codec.Parse(s.Strike, s.Method())
	case models.PremiumStrike:
		out.SelectionValue = models.NumberValue(s.Value)
		out.SelectionOperator = s.Operator
	case models.StraddlePremiumStrike:
		out.SelectionValue = models.NumberValue(s.Percentage)
		out.SelectionOperator = s.Operator
	}

	if c := leg.StopLoss; c.Enabled {
		out.StopLoss = &models.BackendRiskValue{Type: string(c.Type), Value: c.Value}
	}
	if c := leg.TargetProfit; c.Enabled {
		out.TargetProfit = &models.BackendRiskValue{Type: string(c.Type), Value: c.Value}
	}
	if c := leg.TrailingStopLoss; c.Enabled {
		out.TrailingStopLoss = &models.BackendTrailingStopLoss{
			Type:           c.Type,
			InstrumentMove: c.InstrumentMove,
			StopLossMove:   c.StopLossMove,
		}
	}
	if c := leg.WaitAndTrade; c.Enabled {
		out.WaitAndTrade = &models.BackendRiskValue{Type: string(c.Type), Value: c.Value}
	}
	if c := leg.ReEntry; c.Enabled {
		out.ReEntry = &models.BackendRepeat{Type: string(c.Type), Count: c.Count}
	}
	if c := leg.ReExecute; c.Enabled {
		out.ReExecute = &models.BackendRepeat{Type: string(c.Type), Count: c.Count}
	}

	return out
}

// ParseTimeString splits "H:MM" or "HH:MM" into zero-padded hour and minute
// strings. Anything else, including out of range values, yields def.
func ParseTimeString(s string, def utils.Clock) (hour, minute string) {
	c, ok := utils.ParseClock(strings.TrimSpace(s))
	if !ok {
		c = def
	}
	return c.HourString(), c.MinuteString()
}

// ToFrontend converts a backend strategy into the form shape. Every backend
// field is optional. Legs whose strike travelled as DYNAMIC keep the
// sentinel as their display strike.
func (t *Transformer) ToFrontend(b *models.BackendStrategy, basketID string) *models.StrategyFormData {
	out := &models.StrategyFormData{
		BasketID: basketID,
		Config:   models.DefaultStrategyConfig(),
		Legs:     []models.StrategyLeg{},
	}
	if b == nil {
		return out
	}

	if out.BasketID == "" {
		out.BasketID = b.BasketID
	}
	out.StrategyName = b.Name
	out.Index = b.Index

	cfg := &out.Config
	cfg.EntryTimeHour, cfg.EntryTimeMinute = ParseTimeString(b.EntryTime, t.defaults.Entry)
	cfg.ExitTimeHour, cfg.ExitTimeMinute = ParseTimeString(b.ExitTime, t.defaults.Exit)
	cfg.RangeBreakoutTimeHour, cfg.RangeBreakoutTimeMinute = ParseTimeString(b.RangeBreakoutTime, t.defaults.RangeBreakout)
	cfg.RangeBreakout = b.RangeBreakout
	cfg.MoveSLToCost = b.MoveSLToCost

	if b.TradingType != "" {
		cfg.TradingType = b.TradingType
	}
	switch cfg.TradingType {
	case models.TradingIntraday:
		if b.IntradayExitMode != "" {
			cfg.IntradayExitMode = b.IntradayExitMode
		}
	case models.TradingPositional:
		cfg.IntradayExitMode = ""
		if b.EntryTradingDaysBeforeExpiry != nil {
			cfg.EntryTradingDaysBeforeExpiry = *b.EntryTradingDaysBeforeExpiry
		}
		if b.ExitTradingDaysBeforeExpiry != nil {
			cfg.ExitTradingDaysBeforeExpiry = *b.ExitTradingDaysBeforeExpiry
		}
	}

	if b.ExpiryType != "" {
		cfg.ExpiryType = b.ExpiryType
	}
	if b.ProductType != "" {
		cfg.ProductType = b.ProductType
	}
	if b.TargetProfit != nil {
		cfg.TargetProfit = mtmFromBackend(b.TargetProfit)
	}
	if b.MTMStopLoss != nil {
		cfg.MTMStopLoss = mtmFromBackend(b.MTMStopLoss)
	}

	for i, bl := range b.Legs {
		out.Legs = append(out.Legs, t.legToFrontend(i+1, bl))
	}

	logging.LogTransform(t.logger, "to_frontend", out.StrategyName, len(out.Legs), nil)
	return out
}

func mtmFromBackend(m *models.BackendMTM) models.MTMConfig {
	c := models.MTMConfig{Type: m.Type, Value: m.Value}
	if c.Type == "" {
		c.Type = models.MTMTotal
	}
	return c
}

func (t *Transformer) legToFrontend(pos int, bl models.BackendLeg) models.StrategyLeg {
	id := bl.ID
	if id == "" {
		id = t.ids.NextID()
	}
	leg := models.NewStrategyLeg(id)

	if bl.OptionType != "" {
		leg.OptionType = bl.OptionType
	}
	if bl.Action != "" {
		leg.ActionType = bl.Action
	}
	if bl.Lots > 0 {
		leg.TotalLots = bl.Lots
	}

	method := bl.SelectionMethod
	if method == "" {
		method = models.SelectionATMPoints
	}
	switch method {
	case models.SelectionATMPoints:
		leg.Selection = models.ATMPointsStrike{Strike: t.codec.Format(bl.SelectionValue, method)}
	case models.SelectionATMPercent:
		leg.Selection = models.ATMPercentStrike{Strike: t.codec.Format(bl.SelectionValue, method)}
	case models.SelectionPremium:
		leg.Selection = models.PremiumStrike{Operator: operatorOrClosest(bl.SelectionOperator), Value: numberOrZero(bl.SelectionValue)}
	case models.SelectionStraddlePremium:
		leg.Selection = models.StraddlePremiumStrike{Operator: operatorOrClosest(bl.SelectionOperator), Percentage: numberOrZero(bl.SelectionValue)}
	default:
		legLogger := logging.WithLeg(t.logger, id, pos)
		legLogger.Warn().
			Str("method", string(method)).
			Msg("Unknown selection method from backend, using ATM_POINTS")
		leg.Selection = models.ATMPointsStrike{Strike: t.codec.Format(bl.SelectionValue, models.SelectionATMPoints)}
	}

	if c := bl.StopLoss; c != nil {
		leg.StopLoss = models.StopLossConfig{Enabled: true, Type: riskTypeOr(c.Type, leg.StopLoss.Type), Value: c.Value}
	}
	if c := bl.TargetProfit; c != nil {
		leg.TargetProfit = models.TargetProfitConfig{Enabled: true, Type: riskTypeOr(c.Type, leg.TargetProfit.Type), Value: c.Value}
	}
	if c := bl.TrailingStopLoss; c != nil {
		leg.TrailingStopLoss = models.TrailingStopLossConfig{
			Enabled:        true,
			Type:           riskTypeOr(string(c.Type), leg.TrailingStopLoss.Type),
			InstrumentMove: c.InstrumentMove,
			StopLossMove:   c.StopLossMove,
		}
	}
	if c := bl.WaitAndTrade; c != nil {
		leg.WaitAndTrade = models.WaitAndTradeConfig{Enabled: true, Type: leg.WaitAndTrade.Type, Value: c.Value}
		if c.Type != "" {
			leg.WaitAndTrade.Type = models.WaitAndTradeType(c.Type)
		}
	}
	if c := bl.ReEntry; c != nil {
		leg.ReEntry = models.ReEntryConfig{Enabled: true, Type: leg.ReEntry.Type, Count: c.Count}
		if c.Type != "" {
			leg.ReEntry.Type = models.ReEntryType(c.Type)
		}
	}
	if c := bl.ReExecute; c != nil {
		leg.ReExecute = models.ReExecuteConfig{Enabled: true, Type: leg.ReExecute.Type, Count: c.Count}
		if c.Type != "" {
			leg.ReExecute.Type = models.ReExecuteType(c.Type)
		}
	}

	return leg
}

func operatorOrClosest(op models.PremiumOperator) models.PremiumOperator {
	if op == "" {
		return models.PremiumClosest
	}
	return op
}

func numberOrZero(v models.SelectionValue) float64 {
	if v.IsSentinel() {
		return 0
	}
	return v.Number
}

func riskTypeOr(s string, def models.RiskValueType) models.RiskValueType {
	if s == "" {
		return def
	}
	return models.RiskValueType(s)
}

// CreateAPIPayload validates data, converts it and checks the result against
// the backend schema. This is the entry point for anything about to be sent
// to the backend. basketID and index override the form's values when set.
func (t *Transformer) CreateAPIPayload(basketID string, data *models.StrategyFormData, index string, expiryType models.ExpiryType) (*models.BackendStrategy, error) {
	if data == nil {
		return nil, errors.NewStrategyValidationError([]string{"Strategy data is required"}, nil)
	}

	form := *data
	if basketID != "" {
		form.BasketID = basketID
	}
	if index != "" {
		form.Index = index
	}
	if expiryType != "" {
		form.Config.ExpiryType = expiryType
	}

	res := t.validator.Validate(&form)
	if !res.IsValid {
		return nil, errors.NewStrategyValidationError(res.Errors, res.Warnings)
	}

	payload, err := t.ToBackend(&form, form.Index, form.Config.ExpiryType)
	if err != nil {
		return nil, err
	}

	if err := t.schema.Struct(payload); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrPayloadSchema, err)
	}
	return payload, nil
}
