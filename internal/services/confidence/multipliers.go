package confidence

import "OptEdge/internal/domain/models"

// RegimeMultiplier scales confidence by how the regime favors the contract direction.
func RegimeMultiplier(label models.RegimeLabel, ct models.ContractType) float64 {
	bullish, bearish := 1.0, 1.0
	switch label {
	case models.RegimeBull:
		bullish, bearish = 1.2, 0.8
	case models.RegimeBear:
		bullish, bearish = 0.8, 1.2
	case models.RegimeSideways:
		bullish, bearish = 0.9, 0.9
	case models.RegimeVolatile:
		bullish, bearish = 1.1, 1.1
	case models.RegimeNeutralBull:
		bullish, bearish = 1.1, 0.9
	case models.RegimeNeutralBear:
		bullish, bearish = 0.9, 1.1
	case models.RegimeNeutral:
	}
	switch ct {
	case models.Call:
		return bullish
	case models.Put:
		return bearish
	default:
		return 1.0
	}
}

// HorizonFor maps days to expiry onto the analog horizon bin.
func HorizonFor(dte int) int {
	switch {
	case dte <= 7:
		return 3
	case dte <= 14:
		return 5
	case dte <= 30:
		return 10
	default:
		return 15
	}
}

// SelectOutcome picks the outcome for dte's bin, falling back to the shortest available horizon.
func SelectOutcome(outcomes models.Outcomes, dte int) (models.TimeframeOutcome, bool) {
	if o, ok := outcomes.Lookup(HorizonFor(dte)); ok {
		return o, true
	}
	return outcomes.First()
}
