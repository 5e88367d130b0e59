// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

package local

import (
	"log/slog"
)

// CreateOption is a function that acts on a [Source] and is used to construct
// such objects.
type CreateOption func(*Source)

// WithID sets the id of a [Source].
func WithID(id string) CreateOption {
	return func(s *Source) {
		s.id = id
	}
}

// WithName sets the name of a [Source].
func WithName(name string) CreateOption {
	return func(s *Source) {
		s.name = name
	}
}

// WithPaths sets the recording paths of a [Source].
func WithPaths(paths ...string) CreateOption {
	return func(s *Source) {
		s.Paths = paths
	}
}

// WithPreferredChannels sets the preferred channel names of a [Source].
func WithPreferredChannels(names ...string) CreateOption {
	return func(s *Source) {
		s.PreferredChannels = names
	}
}

// WithMetadata sets the metadata of a [Source].
func WithMetadata(metadata map[string]string) CreateOption {
	return func(s *Source) {
		s.metadata = metadata
	}
}

// WithMaxWorkers sets the number of concurrently analyzed recordings of a [Source].
func WithMaxWorkers(maxWorkers int) CreateOption {
	return func(s *Source) {
		s.maxWorkers = maxWorkers
	}
}

// WithLogger sets the logger of a [Source].
func WithLogger(logger *slog.Logger) CreateOption {
	return func(s *Source) {
		s.logger = logger
	}
}
