// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

package calculations

import (
	"context"
	"math"

	"github.com/vibelab/vibebatch/pkg/analyzer"
	"github.com/vibelab/vibebatch/pkg/calc"
)

var _ calc.Calculation = &VCCurves{}

// VCCurves formats the vibration criteria curves of the main acceleration
// channel: octave-band RMS velocities scaled to micrometers/s.
type VCCurves struct{}

// ID returns the id of the Calculation.
func (c *VCCurves) ID() string { return IDVCCurves }

// Name returns the name of the Calculation.
func (c *VCCurves) Name() string { return "Vibration Criteria Curves" }

// Run computes the VC curve table. The Resultant axis is the L2 norm across
// the per-axis curves.
func (c *VCCurves) Run(_ context.Context, a *analyzer.Analyzer) (calc.Result, error) {
	table := calc.NewTable("axis", "frequency", "value")
	if !a.HasAccel() {
		return calc.NewResult(c, *table), nil
	}

	freqs, curves, err := a.VCCurves()
	if err != nil {
		return calc.Result{}, err
	}

	axes := a.AccelChannel().AxisNames
	for i, name := range axes {
		for k, f := range freqs {
			if err := table.Append(name, calc.FormatFloat(f), calc.FormatFloat(curves[i][k]*analyzer.MPSToUMPS)); err != nil {
				return calc.Result{}, err
			}
		}
	}
	for k, f := range freqs {
		var sum float64
		for i := range curves {
			sum += curves[i][k] * curves[i][k]
		}
		if err := table.Append(analyzer.ResultantAxis, calc.FormatFloat(f), calc.FormatFloat(math.Sqrt(sum)*analyzer.MPSToUMPS)); err != nil {
			return calc.Result{}, err
		}
	}

	return calc.NewResult(c, *table), nil
}
