package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategyLeg_UnmarshalDropsInactiveSelectionFields(t *testing.T) {
	raw := `{
		"id": "leg-1",
		"optionType": "PE",
		"actionType": "SELL",
		"totalLots": 2,
		"selectionMethod": "PREMIUM",
		"strikePrice": "OTM3",
		"premiumOperator": "GTE",
		"premiumValue": 85.5,
		"straddlePremiumOperator": "LTE",
		"straddlePremiumPercentage": 30,
		"stopLoss": {"enabled": true, "type": "POINTS", "value": 20}
	}`

	var leg StrategyLeg
	require.NoError(t, json.Unmarshal([]byte(raw), &leg))

	assert.Equal(t, PremiumStrike{Operator: PremiumGTE, Value: 85.5}, leg.Selection)
	assert.Equal(t, SelectionPremium, leg.SelectionMethod())
	assert.Equal(t, StopLossConfig{Enabled: true, Type: RiskPoints, Value: 20}, leg.StopLoss)

	out, err := json.Marshal(leg)
	require.NoError(t, err)

	var flat map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &flat))
	assert.NotContains(t, flat, "strikePrice")
	assert.NotContains(t, flat, "straddlePremiumOperator")
	assert.NotContains(t, flat, "straddlePremiumPercentage")
	assert.Equal(t, "GTE", flat["premiumOperator"])
}

func TestStrategyLeg_UnmarshalUnknownMethod(t *testing.T) {
	var leg StrategyLeg
	err := json.Unmarshal([]byte(`{"selectionMethod": "DELTA"}`), &leg)
	assert.EqualError(t, err, `unknown selection method "DELTA"`)
}

func TestStrategyLeg_UnmarshalWithoutMethod(t *testing.T) {
	var leg StrategyLeg
	require.NoError(t, json.Unmarshal([]byte(`{"id": "x", "totalLots": 1}`), &leg))
	assert.Nil(t, leg.Selection)
	assert.Equal(t, SelectionMethod(""), leg.SelectionMethod())
}

func TestNewStrategyLeg(t *testing.T) {
	leg := NewStrategyLeg("leg-9")

	assert.Equal(t, "leg-9", leg.ID)
	assert.Equal(t, OptionCE, leg.OptionType)
	assert.Equal(t, ActionBuy, leg.ActionType)
	assert.Equal(t, 1, leg.TotalLots)
	assert.Equal(t, ATMPointsStrike{Strike: "ATM"}, leg.Selection)
	assert.False(t, leg.StopLoss.Enabled)
	assert.False(t, leg.TargetProfit.Enabled)
	assert.False(t, leg.TrailingStopLoss.Enabled)
	assert.False(t, leg.WaitAndTrade.Enabled)
	assert.False(t, leg.ReEntry.Enabled)
	assert.False(t, leg.ReExecute.Enabled)
}

func TestRiskConfigValid(t *testing.T) {
	assert.False(t, StopLossConfig{Type: RiskPoints, Value: 10}.Valid())
	assert.True(t, StopLossConfig{Enabled: true, Type: RiskPoints, Value: 150}.Valid())
	assert.False(t, StopLossConfig{Enabled: true, Type: RiskPercentage, Value: 150}.Valid())
	assert.False(t, StopLossConfig{Enabled: true, Type: RiskPercentage, Value: 0}.Valid())
	assert.True(t, TargetProfitConfig{Enabled: true, Type: RiskPercentage, Value: 150}.Valid())
	assert.False(t, TargetProfitConfig{Enabled: true, Value: -1}.Valid())
}

func TestSelectionValue_JSON(t *testing.T) {
	tests := []struct {
		raw  string
		want SelectionValue
	}{
		{`2`, NumberValue(2)},
		{`-1.5`, NumberValue(-1.5)},
		{`"3"`, NumberValue(3)},
		{`"DYNAMIC"`, SentinelValue(DynamicStrike)},
		{`null`, SelectionValue{}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var v SelectionValue
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &v))
			assert.Equal(t, tt.want, v)
		})
	}

	out, err := json.Marshal(BackendLeg{SelectionValue: SentinelValue(DynamicStrike)})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"selection_value":"DYNAMIC"`)

	var v SelectionValue
	assert.Error(t, json.Unmarshal([]byte(`true`), &v))
}
