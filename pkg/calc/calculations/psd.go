// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package calculations implements the standard vibration analysis
// calculations: PSD, pseudo velocity shock spectrum, channel metrics, peak
// windows and vibration criteria curves.
package calculations

import (
	"context"

	"github.com/vibelab/vibebatch/pkg/analyzer"
	"github.com/vibelab/vibebatch/pkg/analyzer/dsp"
	"github.com/vibelab/vibebatch/pkg/calc"
)

// Calculation ids.
const (
	IDPSD      = "psd"
	IDPVSS     = "pvss"
	IDMetrics  = "metrics"
	IDPeaks    = "peaks"
	IDVCCurves = "vc-curves"
)

var _ calc.Calculation = &PSD{}

// PSD formats the power spectral density of the main acceleration channel,
// scaled to g^2/Hz, optionally downsampled onto an octave-spaced grid.
type PSD struct {
	// FreqStartOctave is the first octave band center frequency.
	FreqStartOctave float64
	// BinsPerOctave enables log-spacing of the output when positive.
	BinsPerOctave int
}

// ID returns the id of the Calculation.
func (c *PSD) ID() string { return IDPSD }

// Name returns the name of the Calculation.
func (c *PSD) Name() string { return "Acceleration PSD" }

// Run computes the PSD table. The Resultant axis is the sum of the per-axis
// densities.
func (c *PSD) Run(_ context.Context, a *analyzer.Analyzer) (calc.Result, error) {
	table := calc.NewTable("axis", "frequency", "value")
	if !a.HasAccel() {
		return calc.NewResult(c, *table), nil
	}

	freqs, psds, err := a.PSD()
	if err != nil {
		return calc.Result{}, err
	}

	if c.BinsPerOctave > 0 {
		fstart := c.FreqStartOctave
		if fstart <= 0 {
			fstart = 1
		}
		banded := make([][]float64, len(psds))
		var bandFreqs []float64
		for i, psd := range psds {
			bf, bv, err := dsp.ToOctave(freqs, psd, fstart, c.BinsPerOctave, dsp.OctaveMean)
			if err != nil {
				return calc.Result{}, err
			}
			bandFreqs = bf
			banded[i] = bv
		}
		freqs, psds = bandFreqs, banded
	}

	const scale = analyzer.MPS2ToG * analyzer.MPS2ToG
	axes := a.AccelChannel().AxisNames
	for i, name := range axes {
		for k, f := range freqs {
			if err := table.Append(name, calc.FormatFloat(f), calc.FormatFloat(psds[i][k]*scale)); err != nil {
				return calc.Result{}, err
			}
		}
	}
	for k, f := range freqs {
		var sum float64
		for i := range psds {
			sum += psds[i][k]
		}
		if err := table.Append(analyzer.ResultantAxis, calc.FormatFloat(f), calc.FormatFloat(sum*scale)); err != nil {
			return calc.Result{}, err
		}
	}

	return calc.NewResult(c, *table), nil
}
