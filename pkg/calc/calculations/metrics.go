// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

package calculations

import (
	"context"

	"github.com/vibelab/vibebatch/pkg/analyzer"
	"github.com/vibelab/vibebatch/pkg/calc"
)

var _ calc.Calculation = &Metrics{}

// Metrics formats the scalar channel metrics of a recording.
type Metrics struct{}

// ID returns the id of the Calculation.
func (c *Metrics) ID() string { return IDMetrics }

// Name returns the name of the Calculation.
func (c *Metrics) Name() string { return "Channel Metrics" }

// Run computes the metrics table.
func (c *Metrics) Run(_ context.Context, a *analyzer.Analyzer) (calc.Result, error) {
	table := calc.NewTable("calculation", "axis", "value")

	metrics, err := a.Metrics()
	if err != nil {
		return calc.Result{}, err
	}
	for _, m := range metrics {
		if err := table.Append(m.Calculation, m.Axis, calc.FormatFloat(m.Value)); err != nil {
			return calc.Result{}, err
		}
	}

	return calc.NewResult(c, *table), nil
}
