package bench

import "time"

// Reference constants. A workload scores REF divided by its milliseconds,
// so each constant is 100 times the time a mid-range device needs: random
// ~50 ms, matrix ~500 ms, hash ~100 ms and multi-thread ~200 ms all score 100.
const (
	RefRandomMs int64 = 5_000
	RefMatrixMs int64 = 50_000
	RefHashMs   int64 = 10_000
	RefMultiMs  int64 = 20_000
)

// Weights of the single-thread workloads and of the overall mix.
const (
	weightRandom = 2
	weightMatrix = 5
	weightHash   = 3
	weightSingle = 7
	weightMulti  = 3
	weightTotal  = 10
)

// Tier names, highest first.
const (
	TierFlagship   = "Flagship"
	TierHighEnd    = "High-end"
	TierMidRange   = "Mid-range"
	TierBudget     = "Budget"
	TierEntryLevel = "Entry-level"
)

type tierBand struct {
	min        int64
	name       string
	comparison string
}

var tiers = []tierBand{
	{800, TierFlagship, "iPhone 15 Pro, Galaxy S24 Ultra"},
	{600, TierHighEnd, "Pixel 8, OnePlus 12"},
	{400, TierMidRange, "Pixel 7a, Galaxy A54"},
	{250, TierBudget, "Galaxy A14, Redmi Note 12"},
	{0, TierEntryLevel, "Basic Android phones"},
}

// Timings are the measured wall-clock durations of one run.
type Timings struct {
	Random time.Duration
	Matrix time.Duration
	Hash   time.Duration
	Multi  time.Duration
}

// Normalize maps an elapsed time to a score: max(1, ref/max(1, ms)).
// Faster runs score higher.
func Normalize(ref, elapsedMs int64) int64 {
	if elapsedMs < 1 {
		elapsedMs = 1
	}
	score := ref / elapsedMs
	if score < 1 {
		return 1
	}
	return score
}

// SingleThreadScore combines the three single-thread timings.
func SingleThreadScore(randomMs, matrixMs, hashMs int64) int64 {
	r := Normalize(RefRandomMs, randomMs)
	m := Normalize(RefMatrixMs, matrixMs)
	h := Normalize(RefHashMs, hashMs)
	return (r*weightRandom + m*weightMatrix + h*weightHash) / weightTotal
}

// OverallScore combines the single-thread score with the multi-thread
// timing and returns both the overall and the multi-thread score.
func OverallScore(single, multiMs int64) (overall, multi int64) {
	multi = Normalize(RefMultiMs, multiMs)
	overall = (single*weightSingle + multi*weightMulti) / weightTotal
	return overall, multi
}

// Tier classifies an overall score.
func Tier(score int64) string {
	name, _ := tierOf(score)
	return name
}

// Comparison returns example devices for the tier a score falls in.
func Comparison(score int64) string {
	_, comparison := tierOf(score)
	return comparison
}

func tierOf(score int64) (string, string) {
	for _, t := range tiers {
		if score >= t.min {
			return t.name, t.comparison
		}
	}
	last := tiers[len(tiers)-1]
	return last.name, last.comparison
}
