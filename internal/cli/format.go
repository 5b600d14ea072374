package cli

import (
	"fmt"
	"strings"

	"strategy-builder/internal/models"
)

// FormatIndianCurrency formats a number in Indian currency format (lakhs, crores).
func FormatIndianCurrency(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	str := fmt.Sprintf("%.2f", amount)
	parts := strings.Split(str, ".")

	result := "₹" + formatIndianNumber(parts[0]) + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

// formatIndianNumber formats an integer string in Indian numbering system.
// Indian system: 1,00,00,000 (1 crore) vs Western: 10,000,000
func formatIndianNumber(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	// First group of 3 from right (hundreds)
	result := s[n-3:]
	s = s[:n-3]

	// Then groups of 2 (thousands, lakhs, crores)
	for len(s) > 0 {
		if len(s) >= 2 {
			result = s[len(s)-2:] + "," + result
			s = s[:len(s)-2]
		} else {
			result = s + "," + result
			s = ""
		}
	}

	return result
}

// FormatQuantity formats a lot or share count with Indian grouping.
func FormatQuantity(qty int) string {
	if qty < 0 {
		return "-" + formatIndianNumber(fmt.Sprintf("%d", -qty))
	}
	return formatIndianNumber(fmt.Sprintf("%d", qty))
}

// FormatRiskValue formats a stop-loss or target amount by its type.
func FormatRiskValue(t models.RiskValueType, value float64) string {
	if t == models.RiskPercentage {
		return fmt.Sprintf("%.2f%%", value)
	}
	return fmt.Sprintf("%.2f pts", value)
}

// FormatMTM formats a strategy level target or stop-loss.
func FormatMTM(m models.MTMConfig) string {
	if m.Value <= 0 {
		return "-"
	}
	if m.Type.IsPercentage() {
		return fmt.Sprintf("%.2f%% of premium", m.Value)
	}
	return FormatIndianCurrency(m.Value)
}

// FormatSelection describes how a leg's strike is picked.
func FormatSelection(s models.StrikeSelection) string {
	switch v := s.(type) {
	case models.ATMPointsStrike:
		return v.Strike
	case models.ATMPercentStrike:
		return v.Strike
	case models.PremiumStrike:
		return fmt.Sprintf("premium %s %s", v.Operator, FormatIndianCurrency(v.Value))
	case models.StraddlePremiumStrike:
		return fmt.Sprintf("%.2f%% of straddle (%s)", v.Percentage, v.Operator)
	}
	return "-"
}

// FormatLegRisk lists the enabled risk settings of a leg.
func FormatLegRisk(leg models.StrategyLeg) string {
	var parts []string
	if sl := leg.StopLoss; sl.Enabled {
		parts = append(parts, "SL "+FormatRiskValue(sl.Type, sl.Value))
	}
	if tp := leg.TargetProfit; tp.Enabled {
		parts = append(parts, "TP "+FormatRiskValue(tp.Type, tp.Value))
	}
	if tsl := leg.TrailingStopLoss; tsl.Enabled {
		parts = append(parts, fmt.Sprintf("TSL %g/%g", tsl.InstrumentMove, tsl.StopLossMove))
	}
	if w := leg.WaitAndTrade; w.Enabled {
		parts = append(parts, fmt.Sprintf("W&T %s %g", w.Type, w.Value))
	}
	if re := leg.ReEntry; re.Enabled {
		parts = append(parts, fmt.Sprintf("%s x%d", re.Type, re.Count))
	}
	if rx := leg.ReExecute; rx.Enabled {
		parts = append(parts, fmt.Sprintf("RX %s x%d", rx.Type, rx.Count))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

// TruncateString truncates a string to max length with ellipsis.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
