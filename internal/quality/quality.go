package quality

// Gate decides whether a donation batch is fit for human consumption.
// Pure decision, no side effects.
type Gate struct {
	// MinShelfLifeHours is the rejection threshold: batches with a remaining
	// shelf life at or below it are diverted to waste processing.
	MinShelfLifeHours float64
}

// DefaultMinShelfLifeHours is the policy default for the rejection threshold.
const DefaultMinShelfLifeHours = 2.0

func NewGate(minShelfLifeHours float64) Gate {
	if minShelfLifeHours <= 0 {
		minShelfLifeHours = DefaultMinShelfLifeHours
	}
	return Gate{MinShelfLifeHours: minShelfLifeHours}
}

// FitForConsumption reports whether the batch passes the quality gate.
// The food type is accepted for future policy use; today the decision is
// purely shelf-life based.
func (g Gate) FitForConsumption(foodType string, shelfLifeHours float64) bool {
	return shelfLifeHours > g.MinShelfLifeHours
}
