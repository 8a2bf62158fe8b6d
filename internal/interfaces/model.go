package interfaces

// MarketModel is the fitted market classifier, consumed as an opaque
// function: an ordered feature vector in, a scalar roughly in [0,1] out.
// The range is a training convention, not a hard guarantee.
type MarketModel interface {
	Predict(features []float64) float64
}
