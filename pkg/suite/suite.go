// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

package suite

import (
	"context"

	"github.com/vibelab/vibebatch/pkg/analyzer"
	"github.com/vibelab/vibebatch/pkg/calc"
)

// SuiteResult contains the results of Calculation runs belonging to the
// same Suite over a single recording.
type SuiteResult struct {
	SuiteID      string
	SuiteName    string
	SuiteVersion string
	CalcResults  []calc.Result
}

// Suite is a configured set of Calculations.
type Suite interface {
	ID() string
	Name() string
	Version() string
	// AnalyzerOptions returns the analyzer configuration the suite's
	// calculations expect. Sources complete it with source-level options
	// before building per-recording analyzers.
	AnalyzerOptions() analyzer.Options
	Run(ctx context.Context, a *analyzer.Analyzer) (SuiteResult, error)
	RunCalculation(ctx context.Context, id string, a *analyzer.Analyzer) (calc.Result, error)
}
