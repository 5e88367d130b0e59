// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

package metadata

// Version is used to represent a specific version of a suite.
type Version struct {
	// Version is the name of the suite release.
	Version string `json:"version"`
	// Latest shows if the specific version is the latest one.
	Latest bool `json:"latest"`
}

// Suite is used to represent a specific calculation suite and it's metadata.
type Suite struct {
	// ID is the unique identifier of the suite.
	ID string `json:"id"`
	// Name is the user-friendly name of the suite.
	Name string `json:"name"`
	// Versions is used to showcase the supported versions of the specific suite.
	Versions []Version `json:"versions"`
}

// Source is used to represent an available source by it's name and unique identifier.
type Source struct {
	// ID is the unique identifier of the source.
	ID string `json:"id"`
	// Name is the user-friendly name of the source.
	Name string `json:"name"`
}

// SourceDetailed is used to represent a specific source and it's metadata.
type SourceDetailed struct {
	Source
	Suites []Suite `json:"suites"`
}

// MetadataFunc constructs a detailed Source metadata object.
type MetadataFunc func() SourceDetailed
