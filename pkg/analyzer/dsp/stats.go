// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package dsp implements the signal processing primitives used by the
// recording analyzer: spectral estimation, octave banding, filtering and
// shock response.
package dsp

import "math"

// RMS returns the root mean square of the samples.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

// L2Norm returns the Euclidean norm of the values.
func L2Norm(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// MaxAbs returns the index and value of the sample with the largest
// absolute value. The value keeps its sign.
func MaxAbs(x []float64) (int, float64) {
	idx := -1
	max := math.Inf(-1)
	for i, v := range x {
		if a := math.Abs(v); a > max {
			max = a
			idx = i
		}
	}
	if idx < 0 {
		return -1, 0
	}
	return idx, x[idx]
}

// Mean returns the arithmetic mean of the samples.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}
