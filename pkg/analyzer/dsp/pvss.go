// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

package dsp

import (
	"fmt"
	"math"
)

// DefaultDamping is the fraction of critical damping used for shock
// response calculations (Q ~ 10).
const DefaultDamping = 0.05

// LogFrequencies returns natural frequencies log-spaced with the given
// number of bins per octave, starting at fstart and not exceeding fmax.
func LogFrequencies(fstart, fmax float64, binsPerOctave int) []float64 {
	var freqs []float64
	for k := 0; ; k++ {
		f := fstart * math.Pow(2, float64(k)/float64(binsPerOctave))
		if f > fmax {
			break
		}
		freqs = append(freqs, f)
	}
	return freqs
}

// PVSS computes the pseudo velocity shock spectrum of a base acceleration
// signal at the given natural frequencies. For each frequency a single
// degree of freedom system response is evaluated with the Smallwood ramp
// invariant recursive filter; the pseudo velocity is the maximax absolute
// acceleration divided by the natural angular frequency. Result units are
// the input units times seconds (m/s for m/s^2 input).
func PVSS(accel []float64, fs float64, freqs []float64, damp float64) ([]float64, error) {
	if len(accel) < 2 {
		return nil, fmt.Errorf("shock spectrum needs at least 2 samples, got %d", len(accel))
	}
	if damp <= 0 || damp >= 1 {
		return nil, fmt.Errorf("damping ratio %g outside of (0, 1)", damp)
	}

	dt := 1 / fs
	out := make([]float64, len(freqs))
	for i, fn := range freqs {
		if fn <= 0 || fn >= fs/2 {
			return nil, fmt.Errorf("natural frequency %g Hz outside of (0, %g)", fn, fs/2)
		}

		omega := 2 * math.Pi * fn
		omegaD := omega * math.Sqrt(1-damp*damp)

		e := math.Exp(-damp * omega * dt)
		k := omegaD * dt
		c := e * math.Cos(k)
		s := e * math.Sin(k)
		sp := s / k

		b0 := 1 - sp
		b1 := 2 * (sp - c)
		b2 := e*e - sp
		a1 := -2 * c
		a2 := e * e

		var x1, x2, y1, y2, peak float64
		for _, x := range accel {
			y := b0*x + b1*x1 + b2*x2 - a1*y1 - a2*y2
			if a := math.Abs(y); a > peak {
				peak = a
			}
			x2, x1 = x1, x
			y2, y1 = y1, y
		}
		out[i] = peak / omega
	}
	return out, nil
}
