// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package source defines how batches of recordings are located and analyzed.
package source

import (
	"context"
	"time"

	"github.com/vibelab/vibebatch/pkg/config"
	"github.com/vibelab/vibebatch/pkg/suite"
)

// FileMeta identifies a single analyzed recording.
type FileMeta struct {
	// Filename is the path of the recording as the source found it.
	Filename string
	// SerialNumber is the serial number of the recorder that made the recording.
	SerialNumber int
	// StartTime is the UTC start time of the recording.
	StartTime time.Time
}

// FileResult contains the results of all Suite runs over a single recording.
type FileResult struct {
	Meta         FileMeta
	SuiteResults []suite.SuiteResult
}

// SourceResult contains the results of Suite runs over all recordings of a
// Source.
type SourceResult struct {
	SourceID    string
	SourceName  string
	Metadata    map[string]string
	FileResults []FileResult
}

// Source locates recordings and runs the registered Suites against them.
type Source interface {
	ID() string
	Name() string
	Metadata() map[string]string
	// RunAll analyzes every recording of the Source with every registered
	// Suite.
	RunAll(ctx context.Context) (SourceResult, error)
	// RunSuite analyzes every recording of the Source with a single known
	// Suite.
	RunSuite(ctx context.Context, suiteID, suiteVersion string) (SourceResult, error)
	// RunCalculation executes a specific Calculation of a known Suite over
	// every recording of the Source.
	RunCalculation(ctx context.Context, suiteID, suiteVersion, calcID string) (SourceResult, error)
}

// SourceFromConfigFunc constructs a Source from its SourceConfig.
type SourceFromConfigFunc func(conf config.SourceConfig) (Source, error)
