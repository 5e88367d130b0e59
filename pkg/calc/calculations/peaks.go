// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

package calculations

import (
	"context"

	"github.com/vibelab/vibebatch/pkg/analyzer"
	"github.com/vibelab/vibebatch/pkg/analyzer/dsp"
	"github.com/vibelab/vibebatch/pkg/calc"
)

var _ calc.Calculation = &Peaks{}

// Peaks stores windows of the main acceleration channel about its absolute
// peaks, scaled to g. Peak times are seconds relative to the session start,
// peak offsets are seconds relative to the peak.
type Peaks struct {
	// MarginLen is the number of samples included on each side of a peak.
	MarginLen int
}

// ID returns the id of the Calculation.
func (c *Peaks) ID() string { return IDPeaks }

// Name returns the name of the Calculation.
func (c *Peaks) Name() string { return "Acceleration Peak Windows" }

// Run computes the peak window table for each axis and the resultant.
// Window positions outside of the recorded data are omitted.
func (c *Peaks) Run(_ context.Context, a *analyzer.Analyzer) (calc.Result, error) {
	table := calc.NewTable("axis", "peak time", "peak offset", "value")
	if !a.HasAccel() {
		return calc.NewResult(c, *table), nil
	}

	data, err := a.AccelData()
	if err != nil {
		return calc.Result{}, err
	}
	res, err := a.AccelResultant()
	if err != nil {
		return calc.Result{}, err
	}
	offset, err := a.AccelOffset()
	if err != nil {
		return calc.Result{}, err
	}

	ch := a.AccelChannel()
	fs := ch.SampleRate
	times := ch.SampleTimes()
	axes := append(append([]string{}, ch.AxisNames...), analyzer.ResultantAxis)
	series := append(append([][]float64{}, data...), res)

	for i, name := range axes {
		iMax, _ := dsp.MaxAbs(series[i])
		if iMax < 0 {
			continue
		}
		peakTime := float64(times[offset+iMax]) / 1e6

		for k := -c.MarginLen; k <= c.MarginLen; k++ {
			j := iMax + k
			if j < 0 || j >= len(series[i]) {
				continue
			}
			err := table.Append(
				name,
				calc.FormatFloat(peakTime),
				calc.FormatFloat(float64(k)/fs),
				calc.FormatFloat(series[i][j]*analyzer.MPS2ToG),
			)
			if err != nil {
				return calc.Result{}, err
			}
		}
	}

	return calc.NewResult(c, *table), nil
}
