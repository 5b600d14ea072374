// Package strike converts strike-selection display strings to the values the
// backend expects and back.
package strike

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"strategy-builder/internal/models"
)

// ATM is the display string of the at-the-money strike.
const ATM = "ATM"

// Strike grammars per selection method.
var (
	pointsFormat  = regexp.MustCompile(`^(ATM|OTM\d+|ITM\d+)$`)
	percentFormat = regexp.MustCompile(`^ATM([+-]\d+(\.\d{1,2})?%)?$`)

	otmPattern       = regexp.MustCompile(`^OTM(\d+)$`)
	itmPattern       = regexp.MustCompile(`^ITM(\d+)$`)
	atmOffsetPattern = regexp.MustCompile(`^ATM([+-])(\d+(?:\.\d+)?)%$`)
)

// Codec maps display strikes to wire selection values. It never fails:
// unparseable input degrades to a safe value and is logged.
type Codec struct {
	logger zerolog.Logger
}

// NewCodec creates a new codec logging through logger.
func NewCodec(logger zerolog.Logger) *Codec {
	return &Codec{logger: logger.With().Str("component", "strike_codec").Logger()}
}

// Parse encodes a display strike for the given method.
//
//	ATM_POINTS:  "ATM" -> 0, "OTM2" -> 2, "ITM3" -> -3
//	ATM_PERCENT: "ATM" -> 0, "ATM+1.50%" -> 1.5, "ATM-2%" -> -2
//	PREMIUM, PERCENTAGE_OF_STRADDLE_PREMIUM: always "DYNAMIC"
//
// Unknown methods return the input unchanged as a sentinel.
func (c *Codec) Parse(display string, method models.SelectionMethod) models.SelectionValue {
	s := strings.TrimSpace(display)

	switch method {
	case models.SelectionATMPoints:
		return models.NumberValue(c.parsePoints(s))
	case models.SelectionATMPercent:
		return models.NumberValue(c.parsePercent(s))
	case models.SelectionPremium, models.SelectionStraddlePremium:
		return models.SentinelValue(models.DynamicStrike)
	}

	c.logger.Warn().
		Str("strike", display).
		Str("method", string(method)).
		Msg("Unknown selection method, passing strike through")
	return models.SentinelValue(display)
}

func (c *Codec) parsePoints(s string) float64 {
	if s == ATM {
		return 0
	}
	if m := otmPattern.FindStringSubmatch(s); m != nil {
		return c.strikeCount(s, m[1])
	}
	if m := itmPattern.FindStringSubmatch(s); m != nil {
		return -c.strikeCount(s, m[1])
	}
	return c.parseNumber(s, models.SelectionATMPoints)
}

func (c *Codec) strikeCount(s, digits string) float64 {
	n, err := strconv.Atoi(digits)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("strike", s).
			Msg("Strike offset out of range, falling back to ATM")
		return 0
	}
	return float64(n)
}

func (c *Codec) parsePercent(s string) float64 {
	if s == ATM {
		return 0
	}
	if m := atmOffsetPattern.FindStringSubmatch(s); m != nil {
		p, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return c.parseNumber(s, models.SelectionATMPercent)
		}
		if m[1] == "-" {
			return -p
		}
		return p
	}
	return c.parseNumber(s, models.SelectionATMPercent)
}

func (c *Codec) parseNumber(s string, method models.SelectionMethod) float64 {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		c.logger.Debug().
			Err(err).
			Str("strike", s).
			Str("method", string(method)).
			Msg("Unparseable strike, falling back to ATM")
		return 0
	}
	return n
}

// Format decodes a wire selection value into its display strike. Sentinels
// are returned unchanged.
func (c *Codec) Format(v models.SelectionValue, method models.SelectionMethod) string {
	if v.IsSentinel() {
		return v.Sentinel
	}

	n := v.Number
	switch method {
	case models.SelectionATMPoints:
		if n != math.Trunc(n) {
			c.logger.Warn().
				Float64("value", n).
				Msg("Fractional strike offset, rounding to the nearest strike")
			n = math.Round(n)
		}
		switch {
		case n == 0:
			return ATM
		case n > 0:
			return "OTM" + strconv.FormatFloat(n, 'f', -1, 64)
		default:
			return "ITM" + strconv.FormatFloat(-n, 'f', -1, 64)
		}
	case models.SelectionATMPercent:
		switch {
		case n == 0:
			return ATM
		case n > 0:
			return fmt.Sprintf("ATM+%.2f%%", n)
		default:
			return fmt.Sprintf("ATM%.2f%%", n)
		}
	}
	return v.String()
}

// ValidFormat reports whether display matches the strike grammar of method.
// Premium based methods carry no display strike and always pass.
func ValidFormat(display string, method models.SelectionMethod) bool {
	switch method {
	case models.SelectionATMPoints:
		return pointsFormat.MatchString(display) && offsetInRange(display)
	case models.SelectionATMPercent:
		return percentFormat.MatchString(display)
	case models.SelectionPremium, models.SelectionStraddlePremium:
		return true
	}
	return false
}

// offsetInRange reports whether an OTM/ITM strike count fits an int.
func offsetInRange(display string) bool {
	if len(display) <= len(ATM) {
		return true
	}
	_, err := strconv.Atoi(display[len(ATM):])
	return err == nil
}

// Describe returns a short human description of a display strike, used in
// CLI summaries.
func Describe(display string, method models.SelectionMethod) string {
	switch method {
	case models.SelectionPremium:
		return "premium based"
	case models.SelectionStraddlePremium:
		return "straddle premium based"
	}
	if display == ATM {
		return "at the money"
	}
	if m := otmPattern.FindStringSubmatch(display); m != nil {
		return m[1] + " strikes out of the money"
	}
	if m := itmPattern.FindStringSubmatch(display); m != nil {
		return m[1] + " strikes in the money"
	}
	if m := atmOffsetPattern.FindStringSubmatch(display); m != nil {
		if m[1] == "+" {
			return m[2] + "% above ATM"
		}
		return m[2] + "% below ATM"
	}
	return display
}
