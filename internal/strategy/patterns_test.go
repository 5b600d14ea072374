package strategy

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"strategy-builder/internal/models"
)

func TestDetectPattern(t *testing.T) {
	ceSellATM := legWith("a", models.OptionCE, models.ActionSell, "ATM")
	peSellATM := legWith("b", models.OptionPE, models.ActionSell, "ATM")
	peSellOTM := legWith("c", models.OptionPE, models.ActionSell, "OTM2")
	ceBuyOTM := legWith("d", models.OptionCE, models.ActionBuy, "OTM4")
	peBuyOTM := legWith("e", models.OptionPE, models.ActionBuy, "OTM4")
	cePremium := models.NewStrategyLeg("f")
	cePremium.ActionType = models.ActionSell
	cePremium.Selection = models.PremiumStrike{Operator: models.PremiumClosest, Value: 100}

	tests := []struct {
		name string
		legs []models.StrategyLeg
		want Pattern
	}{
		{"empty", nil, PatternCustom},
		{"single", []models.StrategyLeg{ceSellATM}, PatternSingle},
		{"straddle", []models.StrategyLeg{ceSellATM, peSellATM}, PatternStraddle},
		{"strangle", []models.StrategyLeg{ceSellATM, peSellOTM}, PatternStrangle},
		{"mixed actions", []models.StrategyLeg{ceSellATM, peBuyOTM}, PatternCustom},
		{"same option type", []models.StrategyLeg{ceSellATM, ceBuyOTM}, PatternCustom},
		{"premium strike never matches", []models.StrategyLeg{cePremium, peSellATM}, PatternCustom},
		{"iron condor", []models.StrategyLeg{ceSellATM, ceBuyOTM, peSellOTM, peBuyOTM}, PatternIronCondor},
		{"four legs without wings", []models.StrategyLeg{ceSellATM, ceSellATM, peSellATM, peBuyOTM}, PatternCustom},
		{"three legs", []models.StrategyLeg{ceSellATM, peSellATM, ceBuyOTM}, PatternCustom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPattern(tt.legs))
		})
	}
}

func TestProductTypeHelpers(t *testing.T) {
	assert.True(t, IsProductTypeAllowed(models.ProductNRML, models.TradingPositional, ""))
	assert.True(t, IsProductTypeAllowed(models.ProductMIS, models.TradingIntraday, models.ExitSameDay))
	assert.False(t, IsProductTypeAllowed(models.ProductMIS, models.TradingIntraday, models.ExitNextDayBTST))
	assert.False(t, IsProductTypeAllowed("CNC", models.TradingIntraday, models.ExitSameDay))

	assert.Equal(t, []models.ProductType{models.ProductMIS, models.ProductNRML},
		AllowedProductTypes(models.TradingIntraday, models.ExitSameDay))
	assert.Equal(t, []models.ProductType{models.ProductNRML},
		AllowedProductTypes(models.TradingPositional, ""))
}

func TestCorrectProductType(t *testing.T) {
	cfg := models.DefaultStrategyConfig()
	cfg.ProductType = models.ProductMIS
	cfg.TradingType = models.TradingPositional

	fixed, changed := CorrectProductType(cfg)
	assert.True(t, changed)
	assert.Equal(t, models.ProductNRML, fixed.ProductType)
	assert.Equal(t, models.ProductMIS, cfg.ProductType)
	assert.NoError(t, ValidateProductType(fixed))

	cfg.TradingType = models.TradingIntraday
	same, changed := CorrectProductType(cfg)
	assert.False(t, changed)
	assert.Equal(t, cfg, same)
}

func TestSequentialIDs(t *testing.T) {
	ids := NewSequentialIDs("leg")
	assert.Equal(t, "leg-1", ids.NextID())
	assert.Equal(t, "leg-2", NewLeg(ids).ID)

	other := NewSequentialIDs("leg")
	assert.Equal(t, "leg-1", other.NextID())
}

func TestSequentialIDs_Concurrent(t *testing.T) {
	ids := NewSequentialIDs("p")
	seen := sync.Map{}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := ids.NextID()
			_, dup := seen.LoadOrStore(id, true)
			assert.False(t, dup, id)
		}()
	}
	wg.Wait()
	assert.Equal(t, "p-51", ids.NextID())
}

func TestUUIDGenerator(t *testing.T) {
	g := UUIDGenerator{}
	a, b := g.NextID(), g.NextID()
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^leg-[0-9a-f-]{36}$`, a)
}
