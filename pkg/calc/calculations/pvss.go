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

var _ calc.Calculation = &PVSS{}

// PVSS formats the pseudo velocity shock spectrum of the main acceleration
// channel, scaled to mm/s.
type PVSS struct{}

// ID returns the id of the Calculation.
func (c *PVSS) ID() string { return IDPVSS }

// Name returns the name of the Calculation.
func (c *PVSS) Name() string { return "Pseudo Velocity Shock Spectrum" }

// Run computes the PVSS table. The Resultant axis is the L2 norm across the
// per-axis spectra.
func (c *PVSS) Run(_ context.Context, a *analyzer.Analyzer) (calc.Result, error) {
	table := calc.NewTable("axis", "frequency", "value")
	if !a.HasAccel() {
		return calc.NewResult(c, *table), nil
	}

	freqs, pvss, err := a.PVSS()
	if err != nil {
		return calc.Result{}, err
	}

	axes := a.AccelChannel().AxisNames
	for i, name := range axes {
		for k, f := range freqs {
			if err := table.Append(name, calc.FormatFloat(f), calc.FormatFloat(pvss[i][k]*analyzer.MPSToMMPS)); err != nil {
				return calc.Result{}, err
			}
		}
	}
	for k, f := range freqs {
		var sum float64
		for i := range pvss {
			sum += pvss[i][k] * pvss[i][k]
		}
		if err := table.Append(analyzer.ResultantAxis, calc.FormatFloat(f), calc.FormatFloat(math.Sqrt(sum)*analyzer.MPSToMMPS)); err != nil {
			return calc.Result{}, err
		}
	}

	return calc.NewResult(c, *table), nil
}
