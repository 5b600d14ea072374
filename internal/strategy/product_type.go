// Package strategy validates option strategies and converts them between the
// form shape and the backend wire schema.
package strategy

import (
	"strategy-builder/internal/errors"
	"strategy-builder/internal/models"
)

// IsProductTypeAllowed reports whether productType may be used with the
// given trading type and intraday exit mode. MIS positions are squared off by
// the broker the same day, so they are only allowed for same-day intraday
// strategies.
func IsProductTypeAllowed(productType models.ProductType, tradingType models.TradingType, exitMode models.IntradayExitMode) bool {
	switch productType {
	case models.ProductNRML:
		return true
	case models.ProductMIS:
		return tradingType == models.TradingIntraday && exitMode == models.ExitSameDay
	}
	return false
}

// AllowedProductTypes returns the product types selectable for a trading
// type and exit mode, most permissive last.
func AllowedProductTypes(tradingType models.TradingType, exitMode models.IntradayExitMode) []models.ProductType {
	if IsProductTypeAllowed(models.ProductMIS, tradingType, exitMode) {
		return []models.ProductType{models.ProductMIS, models.ProductNRML}
	}
	return []models.ProductType{models.ProductNRML}
}

// ValidateProductType returns a ProductTypeValidationError when the config
// uses MIS with a trading type or exit mode that carries the position past
// the session. Other unknown product types are reported by the Validator and
// the wire schema check, not here.
func ValidateProductType(cfg models.StrategyConfig) error {
	if cfg.ProductType != models.ProductMIS || IsProductTypeAllowed(cfg.ProductType, cfg.TradingType, cfg.IntradayExitMode) {
		return nil
	}
	return errors.NewProductTypeValidationError(
		string(cfg.ProductType),
		string(cfg.TradingType),
		string(cfg.IntradayExitMode),
		errors.MISNotAllowedMessage,
	)
}

// CorrectProductType downgrades a disallowed MIS to NRML. It reports whether
// the config was changed so the caller can tell the user. The transformer
// never applies this on its own.
func CorrectProductType(cfg models.StrategyConfig) (models.StrategyConfig, bool) {
	if cfg.ProductType == models.ProductMIS && !IsProductTypeAllowed(cfg.ProductType, cfg.TradingType, cfg.IntradayExitMode) {
		cfg.ProductType = models.ProductNRML
		return cfg, true
	}
	return cfg, false
}
