// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

package dsp

import (
	"fmt"
	"math"
)

// Highpass applies a second order Butterworth highpass filter with the
// given cutoff frequency to the samples and returns the filtered signal.
// The cutoff must lie strictly between 0 and the Nyquist frequency.
func Highpass(x []float64, cutoff, fs float64) ([]float64, error) {
	if cutoff <= 0 || cutoff >= fs/2 {
		return nil, fmt.Errorf("highpass cutoff %g Hz outside of (0, %g)", cutoff, fs/2)
	}

	// Bilinear transform with frequency prewarping.
	wc := math.Tan(math.Pi * cutoff / fs)
	k1 := math.Sqrt2 * wc
	k2 := wc * wc
	norm := 1 / (1 + k1 + k2)

	b0 := norm
	b1 := -2 * norm
	b2 := norm
	a1 := 2 * norm * (k2 - 1)
	a2 := norm * (1 - k1 + k2)

	y := make([]float64, len(x))
	var z1, z2 float64
	for i, v := range x {
		// Direct form II transposed.
		out := b0*v + z1
		z1 = b1*v - a1*out + z2
		z2 = b2*v - a2*out
		y[i] = out
	}
	return y, nil
}
