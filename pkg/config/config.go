// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

package config

// BatchConfig is used to represent a vibebatch configuration file.
type BatchConfig struct {
	// Sources is a list of all known recording sources.
	Sources []SourceConfig `yaml:"sources"`
	// Output describes options related to vibebatch's output configuration.
	Output *OutputConfig `yaml:"output,omitempty"`
}

// SourceConfig is used to describe and configure a recording source.
type SourceConfig struct {
	// ID is the unique identifier of a source.
	ID string `yaml:"id"`
	// Name is the user friendly name of a source.
	Name string `yaml:"name"`
	// Metadata represents additional values used to describe a source.
	Metadata map[string]string `yaml:"metadata"`
	// Suites represents calculation suite specific configurations.
	Suites []SuiteConfig `yaml:"suites"`
	// Args are source specific arguments that each source should be able to parse.
	Args any `yaml:"args"`
}

// SuiteConfig is used to describe and configure a calculation suite.
type SuiteConfig struct {
	// ID is the unique identifier of a suite.
	ID string `yaml:"id"`
	// Name is the user friendly name of a suite.
	Name string `yaml:"name"`
	// Version is the suite's version.
	Version string `yaml:"version"`
	// CalcOptions is used to provide per calculation configurations.
	CalcOptions []CalcOptionsConfig `yaml:"calcOptions"`
	// Args are suite specific arguments that each suite should be able to parse.
	Args any `yaml:"args,omitempty"`
}

// CalcOptionsConfig represents per calculation options.
type CalcOptionsConfig struct {
	// CalcID is the id of the calculation.
	CalcID string `yaml:"calcID"`
	// Skip is the calculation's skip configuration.
	Skip *CalcOptionSkipConfig `yaml:"skip,omitempty"`
	// Args are calculation specific arguments that each calculation should be able to parse.
	Args any `yaml:"args,omitempty"`
}

// CalcOptionSkipConfig represents options allowing a calculation skip.
type CalcOptionSkipConfig struct {
	// Enabled determines if a calculation should be skipped or not.
	Enabled bool `yaml:"enabled"`
	// Justification represents the reason why a calculation is skipped.
	Justification string `yaml:"justification"`
}

// OutputConfig represents output configurations.
type OutputConfig struct {
	// Path is the location which will be used to write the output bundle.
	Path string `yaml:"path"`
	// CSVDir is the folder which will be used to write per-table CSV files.
	CSVDir string `yaml:"csvDir,omitempty"`
	// PlotsDir is the folder which will be used to write HTML plots.
	PlotsDir string `yaml:"plotsDir,omitempty"`
}
