// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

package vibration

import (
	"log/slog"

	"github.com/vibelab/vibebatch/pkg/analyzer"
)

// CreateOption is a function that acts on a [Suite] and is used to construct
// such objects.
type CreateOption func(*Suite)

// WithVersion sets the version of a [Suite].
func WithVersion(version string) CreateOption {
	return func(s *Suite) {
		s.version = version
	}
}

// WithAnalyzerOptions sets the analyzer options of a [Suite].
func WithAnalyzerOptions(opts analyzer.Options) CreateOption {
	return func(s *Suite) {
		s.analyzerOpts = opts
	}
}

// WithNumWorkers sets the number of concurrent workers of a [Suite].
func WithNumWorkers(numWorkers int) CreateOption {
	return func(s *Suite) {
		s.numWorkers = numWorkers
	}
}

// WithLogger sets the logger of a [Suite].
func WithLogger(logger *slog.Logger) CreateOption {
	return func(s *Suite) {
		s.logger = logger
	}
}
