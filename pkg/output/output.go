// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package output assembles the calculation results of an analysis run into a
// bundle of long-format tables and renders it to files.
package output

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/vibelab/vibebatch/pkg/calc"
	"github.com/vibelab/vibebatch/pkg/source"
	"github.com/vibelab/vibebatch/pkg/version"
)

// Bundle contains the results of a vibebatch run in a suitable for
// reporting format: one long-format table per calculation, spanning all
// analyzed recordings.
type Bundle struct {
	Time             time.Time      `json:"time"`
	RunID            string         `json:"runId"`
	VibebatchVersion string         `json:"vibebatchVersion"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	Recordings       []Recording    `json:"recordings"`
	Tables           []BundleTable  `json:"tables"`
	Skipped          []SkippedCalc  `json:"skipped,omitempty"`
}

// Recording identifies an analyzed recording within a Bundle.
type Recording struct {
	Filename     string    `json:"filename"`
	SerialNumber int       `json:"serialNumber"`
	StartTime    time.Time `json:"startTime"`
}

// BundleTable is the merged long-format table of a single calculation over
// all analyzed recordings.
type BundleTable struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	calc.Table
}

// SkippedCalc records a calculation that was configured to be skipped.
type SkippedCalc struct {
	CalcID        string `json:"calcId"`
	CalcName      string `json:"calcName"`
	Justification string `json:"justification,omitempty"`
}

// BundleOptions are options that can be applied to a Bundle.
type BundleOptions struct {
	Metadata map[string]any
}

// BundleOption defines a single option that can be applied to a Bundle.
type BundleOption interface {
	ApplyToBundle(*BundleOptions)
}

// Metadata is additional bundle values.
type Metadata map[string]any

// ApplyToBundle implements BundleOption.
func (md Metadata) ApplyToBundle(opts *BundleOptions) {
	opts.Metadata = maps.Clone(md)
}

// Columns every merged table carries around the calculation's own columns.
const (
	ColFilename     = "filename"
	ColSerialNumber = "serial number"
	ColStartTime    = "start time"
)

// FromSourceResults returns a Bundle from SourceResults. Each calculation
// record gains the recording's filename, serial number and start time;
// empty per-recording tables are dropped.
func FromSourceResults(results []source.SourceResult, options ...BundleOption) (*Bundle, error) {
	opts := &BundleOptions{}
	for _, o := range options {
		o.ApplyToBundle(opts)
	}
	bundle := &Bundle{
		Time:             time.Now().UTC(),
		RunID:            uuid.New().String(),
		VibebatchVersion: version.Version,
		Metadata:         opts.Metadata,
	}

	for _, sourceResult := range results {
		for _, fileResult := range sourceResult.FileResults {
			meta := fileResult.Meta
			bundle.Recordings = append(bundle.Recordings, Recording{
				Filename:     meta.Filename,
				SerialNumber: meta.SerialNumber,
				StartTime:    meta.StartTime,
			})
			for _, suiteResult := range fileResult.SuiteResults {
				for _, calcResult := range suiteResult.CalcResults {
					if calcResult.Skipped {
						bundle.addSkipped(calcResult)
						continue
					}
					if calcResult.Table.Empty() {
						continue
					}
					if err := bundle.appendResult(meta, calcResult); err != nil {
						return nil, err
					}
				}
			}
		}
	}
	return bundle, nil
}

func (b *Bundle) addSkipped(res calc.Result) {
	for _, s := range b.Skipped {
		if s.CalcID == res.CalcID {
			return
		}
	}
	b.Skipped = append(b.Skipped, SkippedCalc{
		CalcID:        res.CalcID,
		CalcName:      res.CalcName,
		Justification: res.Justification,
	})
}

func (b *Bundle) appendResult(meta source.FileMeta, res calc.Result) error {
	columns := make([]string, 0, len(res.Table.Columns)+3)
	columns = append(columns, ColFilename)
	columns = append(columns, res.Table.Columns...)
	columns = append(columns, ColSerialNumber, ColStartTime)

	idx := slices.IndexFunc(b.Tables, func(t BundleTable) bool {
		return t.ID == res.CalcID
	})
	if idx < 0 {
		b.Tables = append(b.Tables, BundleTable{
			ID:    res.CalcID,
			Name:  res.CalcName,
			Table: calc.Table{Columns: columns},
		})
		idx = len(b.Tables) - 1
	} else if !slices.Equal(b.Tables[idx].Columns, columns) {
		return fmt.Errorf("calculation %s produced columns %v, bundle table has %v", res.CalcID, columns, b.Tables[idx].Columns)
	}

	serial := fmt.Sprintf("%d", meta.SerialNumber)
	start := meta.StartTime.Format(time.RFC3339Nano)
	for _, rec := range res.Table.Records {
		merged := make([]string, 0, len(columns))
		merged = append(merged, meta.Filename)
		merged = append(merged, rec...)
		merged = append(merged, serial, start)
		if err := b.Tables[idx].Append(merged...); err != nil {
			return err
		}
	}
	return nil
}

// Table returns the merged table of the given calculation, or nil.
func (b *Bundle) Table(calcID string) *BundleTable {
	idx := slices.IndexFunc(b.Tables, func(t BundleTable) bool {
		return t.ID == calcID
	})
	if idx < 0 {
		return nil
	}
	return &b.Tables[idx]
}

// WriteToFile writes a Bundle to a file.
func (b *Bundle) WriteToFile(filePath string) error {
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}

	return os.WriteFile(filePath, data, 0600)
}

// Load reads a Bundle from a file.
func Load(filePath string) (*Bundle, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	bundle := &Bundle{}
	if err := json.Unmarshal(data, bundle); err != nil {
		return nil, fmt.Errorf("parsing bundle %s: %w", filePath, err)
	}
	return bundle, nil
}
