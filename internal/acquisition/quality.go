package acquisition

import (
	"math"
	"math/rand"
)

const (
	// DefaultBaseScore applies to quality labels missing from the score table.
	DefaultBaseScore = 75.0

	// sampleWeight scales the mean absolute amplitude subtracted from the base score.
	sampleWeight = 0.4

	// JitterAmplitude bounds the visual jitter added to every electrode score.
	JitterAmplitude = 5.0

	minScore = 0.0
	maxScore = 100.0
)

var baseScores = map[string]float64{
	"Good": 85,
	"Fair": 60,
	"Poor": 35,
}

// BaseScore maps a frame quality label to its numeric base score.
func BaseScore(label string) float64 {
	if v, ok := baseScores[label]; ok {
		return v
	}
	return DefaultBaseScore
}

// ScoreFromSamples lowers the base score by 0.4 times the mean absolute sample
// value. Without samples the base score is returned unchanged.
func ScoreFromSamples(samples []float64, base float64) float64 {
	if len(samples) == 0 {
		return base
	}
	var sum float64
	for _, v := range samples {
		sum += math.Abs(v)
	}
	meanAbs := sum / float64(len(samples))
	return Clamp(base-meanAbs*sampleWeight, minScore, maxScore)
}

// Clamp bounds v to [lo, hi]. NaN collapses to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(hi, math.Max(lo, v))
}

// Jitter supplies the smoothing term added to electrode scores.
type Jitter interface {
	// Next returns a value in [-JitterAmplitude, JitterAmplitude].
	Next() float64
}

// JitterFunc adapts a function to the Jitter interface.
type JitterFunc func() float64

// Next calls f.
func (f JitterFunc) Next() float64 { return f() }

// RandomJitter draws uniformly from [-JitterAmplitude, JitterAmplitude].
var RandomJitter Jitter = JitterFunc(func() float64 {
	return (rand.Float64() - 0.5) * 2 * JitterAmplitude
})

// NoJitter always returns zero.
var NoJitter Jitter = JitterFunc(func() float64 { return 0 })

// electrodeScore is the full per-electrode derivation: sample penalty, jitter, clamp.
func electrodeScore(samples []float64, base, jitter float64) float64 {
	return Clamp(ScoreFromSamples(samples, base)+jitter, minScore, maxScore)
}
