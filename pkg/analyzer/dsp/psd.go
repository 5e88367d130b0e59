// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

package dsp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Window identifies the tapering window used for spectral estimation.
type Window string

const (
	// WindowHann is the Hann (raised cosine) window.
	WindowHann Window = "hann"
	// WindowBoxcar is the rectangular window.
	WindowBoxcar Window = "boxcar"
)

// Windows returns all supported windows.
func Windows() []Window {
	return []Window{WindowHann, WindowBoxcar}
}

func windowValues(kind Window, n int) ([]float64, error) {
	w := make([]float64, n)
	switch kind {
	case WindowBoxcar:
		for i := range w {
			w[i] = 1
		}
	case WindowHann, "":
		// Periodic form, suitable for spectral estimation.
		for i := range w {
			w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
		}
	default:
		return nil, fmt.Errorf("unsupported window: %s", kind)
	}
	return w, nil
}

// Welch estimates the one-sided power spectral density of the samples using
// Welch's method: mean-detrended segments of the given length with 50%
// overlap, tapered by the window, density scaling. The returned frequencies
// are uniformly spaced by fs/nperseg.
func Welch(x []float64, fs float64, nperseg int, window Window) ([]float64, []float64, error) {
	if len(x) < 2 {
		return nil, nil, fmt.Errorf("cannot estimate PSD of signals shorter than 2 samples, got %d", len(x))
	}
	if nperseg < 2 {
		return nil, nil, fmt.Errorf("segment length must be at least 2, got %d", nperseg)
	}
	if nperseg > len(x) {
		nperseg = len(x)
	}

	w, err := windowValues(window, nperseg)
	if err != nil {
		return nil, nil, err
	}
	var winSumSq float64
	for _, v := range w {
		winSumSq += v * v
	}

	nfreq := nperseg/2 + 1
	step := nperseg - nperseg/2

	fft := fourier.NewFFT(nperseg)
	psd := make([]float64, nfreq)
	seg := make([]float64, nperseg)
	var coeffs []complex128

	nseg := 0
	for start := 0; start+nperseg <= len(x); start += step {
		copy(seg, x[start:start+nperseg])
		mean := Mean(seg)
		for i := range seg {
			seg[i] = (seg[i] - mean) * w[i]
		}
		coeffs = fft.Coefficients(coeffs, seg)
		for k := 0; k < nfreq; k++ {
			c := coeffs[k]
			psd[k] += real(c)*real(c) + imag(c)*imag(c)
		}
		nseg++
	}

	scale := 1 / (fs * winSumSq * float64(nseg))
	for k := range psd {
		psd[k] *= scale
		// One-sided spectrum, DC and Nyquist appear once.
		if k != 0 && !(nperseg%2 == 0 && k == nfreq-1) {
			psd[k] *= 2
		}
	}

	freqs := make([]float64, nfreq)
	for k := range freqs {
		freqs[k] = float64(k) * fs / float64(nperseg)
	}
	return freqs, psd, nil
}

// OctaveMode selects how linear-spaced bins are combined into an octave band.
type OctaveMode string

const (
	// OctaveMean averages the bins of a band.
	OctaveMean OctaveMode = "mean"
	// OctaveSum sums the bins of a band.
	OctaveSum OctaveMode = "sum"
)

// ToOctave resamples linear-spaced spectral values onto a log-spaced
// frequency grid with the given number of bins per octave, starting at
// fstart. Band edges lie half a bin width (in log space) around each center
// frequency.
func ToOctave(freqs, values []float64, fstart float64, binsPerOctave int, mode OctaveMode) ([]float64, []float64, error) {
	if len(freqs) != len(values) {
		return nil, nil, fmt.Errorf("frequency and value counts differ: %d vs %d", len(freqs), len(values))
	}
	if fstart <= 0 {
		return nil, nil, fmt.Errorf("octave start frequency must be positive, got %g", fstart)
	}
	if binsPerOctave <= 0 {
		return nil, nil, fmt.Errorf("bins per octave must be positive, got %d", binsPerOctave)
	}
	if len(freqs) == 0 {
		return nil, nil, nil
	}

	fmax := freqs[len(freqs)-1]
	halfBand := math.Pow(2, 1/(2*float64(binsPerOctave)))

	var (
		centers []float64
		banded  []float64
	)
	for k := 0; ; k++ {
		fc := fstart * math.Pow(2, float64(k)/float64(binsPerOctave))
		if fc > fmax {
			break
		}
		lo, hi := fc/halfBand, fc*halfBand

		var sum float64
		n := 0
		for i, f := range freqs {
			if f >= lo && f < hi {
				sum += values[i]
				n++
			}
		}
		v := sum
		if mode == OctaveMean && n > 0 {
			v = sum / float64(n)
		}
		centers = append(centers, fc)
		banded = append(banded, v)
	}
	return centers, banded, nil
}

// IntegratePSD returns the area under the uniformly spaced PSD for
// frequencies at or above fmin.
func IntegratePSD(freqs, psd []float64, fmin float64) float64 {
	if len(freqs) < 2 {
		return 0
	}
	df := freqs[1] - freqs[0]
	var sum float64
	for i, f := range freqs {
		if f >= fmin {
			sum += psd[i] * df
		}
	}
	return sum
}
