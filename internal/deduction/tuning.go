package deduction

// Tuning holds the soft-update constants shared by the belief models.
type Tuning struct {
	HandIncreaseFactor     float64
	EnvelopeDecreaseFactor float64
	RefutationBaseIncrease float64
	RefutationGrowthFactor float64
	ConfidenceThreshold    float64
}

// DefaultTuning returns the constants the models were calibrated with.
func DefaultTuning() Tuning {
	return Tuning{
		HandIncreaseFactor:     1.5,
		EnvelopeDecreaseFactor: 0.5,
		RefutationBaseIncrease: 0.05,
		RefutationGrowthFactor: 1.5,
		ConfidenceThreshold:    0.9,
	}
}
