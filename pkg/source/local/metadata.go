// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

package local

import (
	"slices"

	"github.com/Masterminds/semver/v3"

	"github.com/vibelab/vibebatch/pkg/metadata"
	"github.com/vibelab/vibebatch/pkg/suite/vibration"
)

// Metadata describes the local filesystem source and the suites it can run.
func Metadata() metadata.SourceDetailed {
	return metadata.SourceDetailed{
		Source: metadata.Source{
			ID:   SourceID,
			Name: SourceName,
		},
		Suites: []metadata.Suite{
			{
				ID:       vibration.SuiteID,
				Name:     vibration.SuiteName,
				Versions: suiteVersions(vibration.SupportedVersions),
			},
		},
	}
}

// suiteVersions sorts the versions from newest to oldest and flags the
// newest one.
func suiteVersions(supported []string) []metadata.Version {
	sorted := slices.Clone(supported)
	slices.SortFunc(sorted, func(x, y string) int {
		vx, errX := semver.NewVersion(x)
		vy, errY := semver.NewVersion(y)
		if errX != nil || errY != nil {
			return 0
		}
		return vy.Compare(vx)
	})

	versions := make([]metadata.Version, 0, len(sorted))
	for i, v := range sorted {
		versions = append(versions, metadata.Version{Version: v, Latest: i == 0})
	}
	return versions
}
