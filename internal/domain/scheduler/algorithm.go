package scheduler

import (
	"math"
	"time"

	"github.com/jmlarson/deckard/internal/domain"
)

// Result carries the scheduling values produced by a single grading event.
type Result struct {
	Ease         int
	IntervalDays int
	Repetitions  int
}

// gradeAnswer computes the next ease, interval, and repetition count from
// the prior state and the grade. It is pure and total over the typed
// domain: any integer inputs yield a result, and grade validation is the
// caller's job (see Service).
//
// A lapse (Again or Hard) resets progress: repetitions drop to zero, the
// interval returns to one day, and ease is penalized down to the floor.
// Hard deliberately behaves exactly like Again here; classic SM-2 would
// differentiate them, but this variant does not.
//
// A success increments repetitions and rewards ease by EasyEaseBonus per
// grade step above Good. The first two successes use fixed intervals;
// afterwards the prior interval is multiplied by the new ease ratio.
func gradeAnswer(ease, intervalDays, repetitions int, grade domain.Grade, params *Params) Result {
	if grade < domain.GradeGood {
		return Result{
			Ease:         maxInt(params.MinEase, ease-params.LapseEasePenalty),
			IntervalDays: 1,
			Repetitions:  0,
		}
	}

	delta := int(grade - domain.GradeGood)
	nextEase := maxInt(params.MinEase, ease+delta*params.EasyEaseBonus)
	nextRepetitions := repetitions + 1

	var nextInterval int
	switch nextRepetitions {
	case 1:
		nextInterval = params.FirstInterval
	case 2:
		nextInterval = params.SecondInterval
	default:
		// Grows from the prior interval, not the fixed steps, with ease
		// interpreted as a percentage.
		grown := math.Round(float64(intervalDays) * float64(nextEase) / 100)
		nextInterval = maxInt(1, int(grown))
	}

	return Result{
		Ease:         nextEase,
		IntervalDays: nextInterval,
		Repetitions:  nextRepetitions,
	}
}

// nextDueAt returns the timestamp at which a card with the given interval
// becomes due, counted in whole UTC days from the given time. Negative
// intervals clamp to zero so the result is never before from.
func nextDueAt(intervalDays int, from time.Time) time.Time {
	if intervalDays < 0 {
		intervalDays = 0
	}
	return from.UTC().AddDate(0, 0, intervalDays)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
