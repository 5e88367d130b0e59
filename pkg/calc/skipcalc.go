// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

package calc

import (
	"context"

	"github.com/vibelab/vibebatch/pkg/analyzer"
)

var _ Calculation = &SkipCalculation{}

// SkipCalculation is a Calculation that is not executed and always reports
// a predefined justification.
type SkipCalculation struct {
	id            string
	name          string
	justification string
}

// NewSkipCalculation returns a new skipped Calculation.
func NewSkipCalculation(id, name, justification string) *SkipCalculation {
	return &SkipCalculation{
		id:            id,
		name:          name,
		justification: justification,
	}
}

// ID returns the id of the Calculation.
func (s *SkipCalculation) ID() string {
	return s.id
}

// Name returns the name of the Calculation.
func (s *SkipCalculation) Name() string {
	return s.name
}

// Run immediately returns a skipped Result with the predefined justification.
func (s *SkipCalculation) Run(context.Context, *analyzer.Analyzer) (Result, error) {
	return Result{
		CalcID:        s.id,
		CalcName:      s.name,
		Skipped:       true,
		Justification: s.justification,
	}, nil
}
