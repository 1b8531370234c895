package scheduler

import (
	"testing"
	"time"

	"github.com/jmlarson/deckard/internal/domain"
)

func TestGradeAnswerLapse(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name        string
		ease        int
		interval    int
		repetitions int
		grade       domain.Grade
		expected    Result
	}{
		{
			name:        "Again resets a mature card",
			ease:        250,
			interval:    10,
			repetitions: 5,
			grade:       domain.GradeAgain,
			expected:    Result{Ease: 230, IntervalDays: 1, Repetitions: 0},
		},
		{
			name:        "Hard resets a mature card identically",
			ease:        250,
			interval:    10,
			repetitions: 5,
			grade:       domain.GradeHard,
			expected:    Result{Ease: 230, IntervalDays: 1, Repetitions: 0},
		},
		{
			name:        "Again at the ease floor stays at the floor",
			ease:        130,
			interval:    5,
			repetitions: 3,
			grade:       domain.GradeAgain,
			expected:    Result{Ease: 130, IntervalDays: 1, Repetitions: 0},
		},
		{
			name:        "Again just above the floor clamps to it",
			ease:        140,
			interval:    2,
			repetitions: 1,
			grade:       domain.GradeAgain,
			expected:    Result{Ease: 130, IntervalDays: 1, Repetitions: 0},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := gradeAnswer(tc.ease, tc.interval, tc.repetitions, tc.grade, params)
			if got != tc.expected {
				t.Errorf("Expected %+v, got %+v", tc.expected, got)
			}
		})
	}
}

func TestGradeAnswerSuccess(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name        string
		ease        int
		interval    int
		repetitions int
		grade       domain.Grade
		expected    Result
	}{
		{
			name:        "first Good uses the fixed one-day interval",
			ease:        250,
			interval:    0,
			repetitions: 0,
			grade:       domain.GradeGood,
			expected:    Result{Ease: 250, IntervalDays: 1, Repetitions: 1},
		},
		{
			name:        "second Good uses the fixed three-day interval",
			ease:        250,
			interval:    1,
			repetitions: 1,
			grade:       domain.GradeGood,
			expected:    Result{Ease: 250, IntervalDays: 3, Repetitions: 2},
		},
		{
			name:        "third Good multiplies the prior interval by ease",
			ease:        250,
			interval:    3,
			repetitions: 2,
			grade:       domain.GradeGood,
			expected:    Result{Ease: 250, IntervalDays: 8, Repetitions: 3}, // round(3 * 2.5)
		},
		{
			name:        "Easy on a mature card grows interval and ease",
			ease:        250,
			interval:    10,
			repetitions: 5,
			grade:       domain.GradeEasy,
			expected:    Result{Ease: 260, IntervalDays: 26, Repetitions: 6}, // round(10 * 2.6)
		},
		{
			name:        "interval never drops below one day on success",
			ease:        130,
			interval:    0,
			repetitions: 2,
			grade:       domain.GradeGood,
			expected:    Result{Ease: 130, IntervalDays: 1, Repetitions: 3}, // round(0 * 1.3) clamps to 1
		},
		{
			name:        "Easy bonus applies even at the ease floor",
			ease:        130,
			interval:    4,
			repetitions: 2,
			grade:       domain.GradeEasy,
			expected:    Result{Ease: 140, IntervalDays: 6, Repetitions: 3}, // round(4 * 1.4)
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := gradeAnswer(tc.ease, tc.interval, tc.repetitions, tc.grade, params)
			if got != tc.expected {
				t.Errorf("Expected %+v, got %+v", tc.expected, got)
			}
		})
	}
}

// TestGradeAnswerAgainHardEquivalence locks in the current behavior:
// Hard and Again produce identical outcomes across the state space.
func TestGradeAnswerAgainHardEquivalence(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	for _, ease := range []int{130, 140, 200, 250, 400} {
		for _, interval := range []int{0, 1, 3, 10, 365} {
			for _, repetitions := range []int{0, 1, 2, 5, 20} {
				again := gradeAnswer(ease, interval, repetitions, domain.GradeAgain, params)
				hard := gradeAnswer(ease, interval, repetitions, domain.GradeHard, params)
				if again != hard {
					t.Fatalf("Again and Hard diverged for ease=%d interval=%d reps=%d: %+v vs %+v",
						ease, interval, repetitions, again, hard)
				}
			}
		}
	}
}

// TestGradeAnswerInvariants sweeps a grid of states and checks the
// floor invariants and ease monotonicity for every grade.
func TestGradeAnswerInvariants(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	for _, ease := range []int{130, 135, 150, 250, 310, 500} {
		for _, interval := range []int{0, 1, 2, 3, 7, 30, 400} {
			for _, repetitions := range []int{0, 1, 2, 3, 10} {
				for grade := domain.GradeAgain; grade <= domain.GradeEasy; grade++ {
					got := gradeAnswer(ease, interval, repetitions, grade, params)

					if got.Ease < params.MinEase {
						t.Fatalf("ease %d below floor for grade %v (ease=%d interval=%d reps=%d)",
							got.Ease, grade, ease, interval, repetitions)
					}
					if got.IntervalDays < 1 {
						t.Fatalf("interval %d below 1 for grade %v (ease=%d interval=%d reps=%d)",
							got.IntervalDays, grade, ease, interval, repetitions)
					}
					if got.Repetitions < 0 {
						t.Fatalf("negative repetitions for grade %v", grade)
					}
				}

				good := gradeAnswer(ease, interval, repetitions, domain.GradeGood, params)
				easy := gradeAnswer(ease, interval, repetitions, domain.GradeEasy, params)
				if easy.Ease < good.Ease {
					t.Fatalf("Easy produced lower ease than Good (ease=%d interval=%d reps=%d)",
						ease, interval, repetitions)
				}

				if repetitions > 0 {
					lapse := gradeAnswer(ease, interval, repetitions, domain.GradeHard, params)
					if lapse.Repetitions != 0 {
						t.Fatalf("lapse did not reset repetitions (reps=%d)", repetitions)
					}
				}
			}
		}
	}
}

// TestGradeAnswerFixedEarlyIntervals checks that the first two successes
// always land on the 1- and 3-day steps regardless of starting ease.
func TestGradeAnswerFixedEarlyIntervals(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	for _, ease := range []int{130, 180, 250, 350} {
		first := gradeAnswer(ease, 0, 0, domain.GradeGood, params)
		if first.IntervalDays != 1 || first.Repetitions != 1 {
			t.Fatalf("first Good from ease=%d: got interval=%d reps=%d",
				ease, first.IntervalDays, first.Repetitions)
		}

		second := gradeAnswer(first.Ease, first.IntervalDays, first.Repetitions, domain.GradeGood, params)
		if second.IntervalDays != 3 || second.Repetitions != 2 {
			t.Fatalf("second Good from ease=%d: got interval=%d reps=%d",
				ease, second.IntervalDays, second.Repetitions)
		}
	}
}

func TestNextDueAt(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		interval int
		from     time.Time
		expected time.Time
	}{
		{
			name:     "three days forward",
			interval: 3,
			from:     base,
			expected: time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "zero interval is due immediately",
			interval: 0,
			from:     base,
			expected: base,
		},
		{
			name:     "negative interval clamps to zero",
			interval: -5,
			from:     base,
			expected: base,
		},
		{
			name:     "crosses a month boundary",
			interval: 31,
			from:     base,
			expected: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "non-UTC input is normalized to UTC",
			interval: 1,
			from:     time.Date(2025, 6, 15, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600)),
			expected: time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := nextDueAt(tc.interval, tc.from)
			if !got.Equal(tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}
