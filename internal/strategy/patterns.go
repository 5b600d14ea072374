package strategy

import (
	"strategy-builder/internal/models"
)

// Pattern is a recognised multi-leg structure.
type Pattern string

const (
	PatternSingle     Pattern = "SINGLE"
	PatternStraddle   Pattern = "STRADDLE"
	PatternStrangle   Pattern = "STRANGLE"
	PatternIronCondor Pattern = "IRON_CONDOR"
	PatternCustom     Pattern = "CUSTOM"
)

// strikeKey identifies a leg's strike for shape comparison. Premium based
// strikes are only known at entry, so they never compare equal.
func strikeKey(leg models.StrategyLeg) (string, bool) {
	switch s := leg.Selection.(type) {
	case models.ATMPointsStrike:
		return string(s.Method()) + ":" + s.Strike, true
	case models.ATMPercentStrike:
		return string(s.Method()) + ":" + s.Strike, true
	}
	return "", false
}

// DetectPattern classifies legs by shape.
//
//	STRADDLE:    CE + PE, same strike, same action
//	STRANGLE:    CE + PE, different strikes, same action
//	IRON_CONDOR: two CE and two PE; per option type one BUY and one SELL at
//	             different strikes
func DetectPattern(legs []models.StrategyLeg) Pattern {
	switch len(legs) {
	case 0:
		return PatternCustom
	case 1:
		return PatternSingle
	case 2:
		return detectPair(legs[0], legs[1])
	case 4:
		if isIronCondor(legs) {
			return PatternIronCondor
		}
	}
	return PatternCustom
}

func detectPair(a, b models.StrategyLeg) Pattern {
	if a.OptionType == b.OptionType || a.ActionType != b.ActionType {
		return PatternCustom
	}
	ka, okA := strikeKey(a)
	kb, okB := strikeKey(b)
	if !okA || !okB {
		return PatternCustom
	}
	if ka == kb {
		return PatternStraddle
	}
	return PatternStrangle
}

func isIronCondor(legs []models.StrategyLeg) bool {
	byType := map[models.OptionType][]models.StrategyLeg{}
	for _, leg := range legs {
		byType[leg.OptionType] = append(byType[leg.OptionType], leg)
	}
	if len(byType[models.OptionCE]) != 2 || len(byType[models.OptionPE]) != 2 {
		return false
	}

	for _, pair := range byType {
		if pair[0].ActionType == pair[1].ActionType {
			return false
		}
		k0, ok0 := strikeKey(pair[0])
		k1, ok1 := strikeKey(pair[1])
		if !ok0 || !ok1 || k0 == k1 {
			return false
		}
	}
	return true
}
