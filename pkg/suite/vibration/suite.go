// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package vibration implements the standard shock and vibration analysis
// calculation suite.
package vibration

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/vibelab/vibebatch/pkg/analyzer"
	"github.com/vibelab/vibebatch/pkg/calc"
	"github.com/vibelab/vibebatch/pkg/config"
	"github.com/vibelab/vibebatch/pkg/suite"
)

const (
	// SuiteID is a constant containing the id of the vibration analysis suite.
	SuiteID = "vibration-analysis"
	// SuiteName is a constant containing the user-friendly name of the vibration analysis suite.
	SuiteName = "Shock & Vibration Analysis"
)

var (
	_ suite.Suite = &Suite{}
	// SupportedVersions is a list of available versions for the vibration
	// analysis suite. Versions are sorted from newest to oldest.
	SupportedVersions = []string{"v1"}
)

// Suite implements the standard shock and vibration analysis calculations.
type Suite struct {
	version      string
	calcs        map[string]calc.Calculation
	order        []string
	analyzerOpts analyzer.Options
	numWorkers   int
	logger       *slog.Logger
}

// Args are Suite specific arguments.
type Args struct {
	// AccelHighpassCutoff is the cutoff frequency in Hz used when
	// pre-filtering acceleration data; 0 disables the filter.
	AccelHighpassCutoff float64 `json:"accelHighpassCutoff" yaml:"accelHighpassCutoff"`
	// AccelStartTime/AccelEndTime restrict the acceleration data to a time
	// window, in seconds relative to the first sample.
	AccelStartTime *float64 `json:"accelStartTime" yaml:"accelStartTime"`
	AccelEndTime   *float64 `json:"accelEndTime" yaml:"accelEndTime"`
	// AccelStartMargin/AccelEndMargin discard a number of samples at the
	// edges of the acceleration data.
	AccelStartMargin *int `json:"accelStartMargin" yaml:"accelStartMargin"`
	AccelEndMargin   *int `json:"accelEndMargin" yaml:"accelEndMargin"`
}

// New creates a new Suite.
func New(options ...CreateOption) (*Suite, error) {
	s := &Suite{
		calcs:      map[string]calc.Calculation{},
		numWorkers: 5,
	}

	for _, o := range options {
		o(s)
	}

	return s, nil
}

// ID returns the id of the Suite.
func (s *Suite) ID() string {
	return SuiteID
}

// Name returns the name of the Suite.
func (s *Suite) Name() string {
	return SuiteName
}

// Version returns the version of the Suite.
func (s *Suite) Version() string {
	return s.version
}

// AnalyzerOptions returns the analyzer configuration derived from the
// suite's arguments and calculation options.
func (s *Suite) AnalyzerOptions() analyzer.Options {
	return s.analyzerOpts
}

// FromGenericConfig creates a Suite from a SuiteConfig.
func FromGenericConfig(suiteConfig config.SuiteConfig) (*Suite, error) {
	suiteArgsByte, err := json.Marshal(suiteConfig.Args)
	if err != nil {
		return nil, err
	}

	var suiteArgs Args
	if err := json.Unmarshal(suiteArgsByte, &suiteArgs); err != nil {
		return nil, err
	}

	opts := analyzer.Options{
		AccelHighpassCutoff: suiteArgs.AccelHighpassCutoff,
		AccelStartTime:      suiteArgs.AccelStartTime,
		AccelEndTime:        suiteArgs.AccelEndTime,
		AccelStartMargin:    suiteArgs.AccelStartMargin,
		AccelEndMargin:      suiteArgs.AccelEndMargin,
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	s, err := New(WithVersion(suiteConfig.Version), WithAnalyzerOptions(opts))
	if err != nil {
		return nil, err
	}

	switch suiteConfig.Version {
	case "v1":
		if err := s.registerV1Calculations(suiteConfig.CalcOptions); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown suite %s version: %s - use 'vibebatch show' to see the supported suites", suiteConfig.ID, suiteConfig.Version)
	}

	return s, nil
}

// RunCalculation executes a specific known Calculation of the Suite.
func (s *Suite) RunCalculation(ctx context.Context, id string, a *analyzer.Analyzer) (calc.Result, error) {
	c, ok := s.calcs[id]
	if !ok {
		return calc.Result{}, fmt.Errorf("calculation with id %s is not registered in the suite", id)
	}

	return c.Run(ctx, a)
}

// Run executes all known Calculations of the Suite over a single recording.
func (s *Suite) Run(ctx context.Context, a *analyzer.Analyzer) (suite.SuiteResult, error) {
	return suite.Run(ctx, s, s.calcs, s.order, s.numWorkers, s.Logger(), a)
}

// AddCalculations adds Calculations to the Suite.
func (s *Suite) AddCalculations(calcs ...calc.Calculation) error {
	for _, c := range calcs {
		if _, ok := s.calcs[c.ID()]; ok {
			return fmt.Errorf("calculation with id %s already exists", c.ID())
		}
		s.calcs[c.ID()] = c
		s.order = append(s.order, c.ID())
	}
	return nil
}

// Logger returns the Suite's logger.
// If not set it will default to slog.Default().With("suite", s.ID(), "version", s.Version()).
func (s *Suite) Logger() *slog.Logger {
	if s.logger == nil {
		s.logger = slog.Default().With("suite", s.ID(), "version", s.Version())
	}
	return s.logger
}
