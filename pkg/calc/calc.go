// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

package calc

import (
	"context"
	"fmt"
	"strconv"

	"github.com/vibelab/vibebatch/pkg/analyzer"
)

// Calculation defines what is considered a calculation in the context of
// vibebatch: a named computation over a single analyzed recording that
// produces a long-format table.
type Calculation interface {
	ID() string
	Name() string
	Run(ctx context.Context, a *analyzer.Analyzer) (Result, error)
}

// Result contains a Calculation identification and the table produced by a
// Calculation run. A skipped calculation carries its justification and an
// empty table.
type Result struct {
	CalcID, CalcName string
	Skipped          bool   `json:"skipped,omitempty"`
	Justification    string `json:"justification,omitempty"`
	Table            Table
}

// Table is a long-format data table. Values are held as strings so that
// tables round-trip losslessly through JSON and CSV; use FormatFloat and
// ParseFloat for numeric cells.
type Table struct {
	Columns []string   `json:"columns"`
	Records [][]string `json:"records"`
}

// NewTable creates an empty Table with the given columns.
func NewTable(columns ...string) *Table {
	return &Table{Columns: columns}
}

// Append adds a record to the table.
// Returns an error when the field count does not match the columns.
func (t *Table) Append(record ...string) error {
	if len(record) != len(t.Columns) {
		return fmt.Errorf("record has %d fields, table has %d columns", len(record), len(t.Columns))
	}
	t.Records = append(t.Records, record)
	return nil
}

// Empty reports whether the table has no records.
func (t Table) Empty() bool {
	return len(t.Records) == 0
}

// FormatFloat renders a numeric cell losslessly.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ParseFloat parses a numeric cell.
func ParseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// NewResult returns a Result for the given calculation and table.
func NewResult(c Calculation, t Table) Result {
	return Result{
		CalcID:   c.ID(),
		CalcName: c.Name(),
		Table:    t,
	}
}
