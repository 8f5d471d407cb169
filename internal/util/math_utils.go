package util

import "math"

// RoundHalfUp rounds to the nearest integer, halves toward +Inf.
func RoundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// RoundTo rounds v to the given number of decimal places, halves toward +Inf.
func RoundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return RoundHalfUp(v*scale) / scale
}

// ClampFloat limits v to [lo, hi].
func ClampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
