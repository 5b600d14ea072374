package strike

import (
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"strategy-builder/internal/models"
)

func pointsDisplay(n int) string {
	switch {
	case n == 0:
		return "ATM"
	case n > 0:
		return fmt.Sprintf("OTM%d", n)
	default:
		return fmt.Sprintf("ITM%d", -n)
	}
}

func percentDisplay(p float64) string {
	switch {
	case p == 0:
		return "ATM"
	case p > 0:
		return fmt.Sprintf("ATM+%.2f%%", p)
	default:
		return fmt.Sprintf("ATM%.2f%%", p)
	}
}

func newTestParameters() *gopter.TestParameters {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())
	return parameters
}

// Property: points strikes survive a parse/format round trip.
func TestProperty_PointsRoundTrip(t *testing.T) {
	codec := NewCodec(zerolog.Nop())
	properties := gopter.NewProperties(newTestParameters())

	properties.Property("format(parse(s)) == s for ATM_POINTS", prop.ForAll(
		func(n int) bool {
			display := pointsDisplay(n)
			value := codec.Parse(display, models.SelectionATMPoints)
			return value.Number == float64(n) &&
				codec.Format(value, models.SelectionATMPoints) == display &&
				ValidFormat(display, models.SelectionATMPoints)
		},
		gen.IntRange(-10, 10),
	))

	properties.TestingRun(t)
}

// Property: percent strikes in quarter steps survive a round trip.
func TestProperty_PercentRoundTrip(t *testing.T) {
	codec := NewCodec(zerolog.Nop())
	properties := gopter.NewProperties(newTestParameters())

	properties.Property("format(parse(s)) == s for ATM_PERCENT", prop.ForAll(
		func(steps int) bool {
			display := percentDisplay(float64(steps) * 0.25)
			value := codec.Parse(display, models.SelectionATMPercent)
			return codec.Format(value, models.SelectionATMPercent) == display &&
				ValidFormat(display, models.SelectionATMPercent)
		},
		gen.IntRange(-40, 40),
	))

	properties.TestingRun(t)
}

// Property: premium based methods always encode to the DYNAMIC sentinel.
func TestProperty_PremiumMethodsAreDynamic(t *testing.T) {
	codec := NewCodec(zerolog.Nop())
	properties := gopter.NewProperties(newTestParameters())

	methods := gen.OneConstOf(models.SelectionPremium, models.SelectionStraddlePremium)

	properties.Property("parse is DYNAMIC and format passes it through", prop.ForAll(
		func(display string, method models.SelectionMethod) bool {
			value := codec.Parse(display, method)
			return value.IsSentinel() &&
				value.Sentinel == models.DynamicStrike &&
				codec.Format(value, method) == models.DynamicStrike &&
				ValidFormat(display, method)
		},
		gen.AnyString(),
		methods,
	))

	properties.TestingRun(t)
}

func TestParse(t *testing.T) {
	codec := NewCodec(zerolog.Nop())

	tests := []struct {
		name    string
		display string
		method  models.SelectionMethod
		want    float64
	}{
		{"atm points", "ATM", models.SelectionATMPoints, 0},
		{"otm", "OTM3", models.SelectionATMPoints, 3},
		{"itm", "ITM2", models.SelectionATMPoints, -2},
		{"numeric points", "4", models.SelectionATMPoints, 4},
		{"garbage points", "far away", models.SelectionATMPoints, 0},
		{"atm percent", "ATM", models.SelectionATMPercent, 0},
		{"above", "ATM+3.00%", models.SelectionATMPercent, 3},
		{"below", "ATM-1.25%", models.SelectionATMPercent, -1.25},
		{"integer percent", "ATM+2%", models.SelectionATMPercent, 2},
		{"numeric percent", "-0.5", models.SelectionATMPercent, -0.5},
		{"garbage percent", "ATM+x%", models.SelectionATMPercent, 0},
		{"surrounding space", " OTM1 ", models.SelectionATMPoints, 1},
		{"overflowing otm", "OTM99999999999999999999", models.SelectionATMPoints, 0},
		{"overflowing itm", "ITM99999999999999999999", models.SelectionATMPoints, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := codec.Parse(tt.display, tt.method)
			assert.False(t, got.IsSentinel())
			assert.Equal(t, tt.want, got.Number)
		})
	}
}

func TestParse_UnknownMethodPassesThrough(t *testing.T) {
	codec := NewCodec(zerolog.Nop())

	got := codec.Parse("OTM1", models.SelectionMethod("CLOSEST_PREMIUM"))
	assert.True(t, got.IsSentinel())
	assert.Equal(t, "OTM1", got.Sentinel)
}

func TestFormat(t *testing.T) {
	codec := NewCodec(zerolog.Nop())

	assert.Equal(t, "ATM+3.00%", codec.Format(codec.Parse("ATM+3.00%", models.SelectionATMPercent), models.SelectionATMPercent))
	assert.Equal(t, "ATM-0.50%", codec.Format(models.NumberValue(-0.5), models.SelectionATMPercent))
	assert.Equal(t, "ATM+1.33%", codec.Format(models.NumberValue(1.333), models.SelectionATMPercent))
	assert.Equal(t, "OTM5", codec.Format(models.NumberValue(5), models.SelectionATMPoints))
	assert.Equal(t, "ITM1", codec.Format(models.NumberValue(-1), models.SelectionATMPoints))
	assert.Equal(t, "ATM", codec.Format(models.NumberValue(0), models.SelectionATMPoints))
	assert.Equal(t, models.DynamicStrike, codec.Format(models.SentinelValue(models.DynamicStrike), models.SelectionATMPoints))
	assert.Equal(t, "120", codec.Format(models.NumberValue(120), models.SelectionPremium))
}

func TestFormat_FractionalPointsRound(t *testing.T) {
	codec := NewCodec(zerolog.Nop())

	tests := []struct {
		value float64
		want  string
	}{
		{2.5, "OTM3"},
		{2.4, "OTM2"},
		{-1.6, "ITM2"},
		{0.3, "ATM"},
		{-0.3, "ATM"},
	}
	for _, tt := range tests {
		got := codec.Format(models.NumberValue(tt.value), models.SelectionATMPoints)
		assert.Equal(t, tt.want, got)
		assert.True(t, ValidFormat(got, models.SelectionATMPoints), got)
	}
}

func TestValidFormat(t *testing.T) {
	tests := []struct {
		display string
		method  models.SelectionMethod
		want    bool
	}{
		{"ATM", models.SelectionATMPoints, true},
		{"OTM12", models.SelectionATMPoints, true},
		{"ITM1", models.SelectionATMPoints, true},
		{"OTM", models.SelectionATMPoints, false},
		{"OTM99999999999999999999", models.SelectionATMPoints, false},
		{"otm1", models.SelectionATMPoints, false},
		{"ATM+1%", models.SelectionATMPoints, false},
		{"ATM", models.SelectionATMPercent, true},
		{"ATM+1.5%", models.SelectionATMPercent, true},
		{"ATM-10.25%", models.SelectionATMPercent, true},
		{"ATM+1.255%", models.SelectionATMPercent, false},
		{"ATM+1", models.SelectionATMPercent, false},
		{"OTM2", models.SelectionATMPercent, false},
		{"", models.SelectionPremium, true},
		{"anything", models.SelectionStraddlePremium, true},
		{"ATM", models.SelectionMethod("UNKNOWN"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.method)+"/"+tt.display, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidFormat(tt.display, tt.method))
		})
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "at the money", Describe("ATM", models.SelectionATMPoints))
	assert.Equal(t, "2 strikes out of the money", Describe("OTM2", models.SelectionATMPoints))
	assert.Equal(t, "1.5% below ATM", Describe("ATM-1.5%", models.SelectionATMPercent))
	assert.Equal(t, "premium based", Describe("", models.SelectionPremium))
}
