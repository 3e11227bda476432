package mutils

import (
	"math"

	"golang.org/x/exp/constraints"
)

type number interface {
	constraints.Integer | constraints.Float
}

// Clamp limits x to [min, max]. NaN passes through unchanged.
func Clamp[T number](x, minV, maxV T) T {
	return min(maxV, max(x, minV))
}

// PowerMean combines values as (Σ v^p)^(1/p).
func PowerMean(p float64, values ...float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += math.Pow(v, p)
	}

	return math.Pow(sum, 1.0/p)
}
