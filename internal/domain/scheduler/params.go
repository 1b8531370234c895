package scheduler

// Params defines the configurable constants of the scheduling algorithm.
// Ease values are integer percentages: 250 means intervals grow 2.5x.
type Params struct {
	// MinEase is the floor below which ease never drops.
	MinEase int

	// LapseEasePenalty is subtracted from ease on a lapse (grade < Good).
	LapseEasePenalty int

	// EasyEaseBonus is added to ease per grade step above Good.
	EasyEaseBonus int

	// FirstInterval is the interval in days after the first success.
	FirstInterval int

	// SecondInterval is the interval in days after the second consecutive
	// success.
	SecondInterval int
}

// NewDefaultParams returns the standard parameters.
func NewDefaultParams() *Params {
	return &Params{
		MinEase:          130,
		LapseEasePenalty: 20,
		EasyEaseBonus:    10,
		FirstInterval:    1,
		SecondInterval:   3,
	}
}
