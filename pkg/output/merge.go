// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/vibelab/vibebatch/pkg/calc"
	"github.com/vibelab/vibebatch/pkg/version"
)

// MergeBundles combines the results of multiple runs into a single Bundle.
// A recording may appear in at most one of the merged bundles.
func MergeBundles(bundles ...*Bundle) (*Bundle, error) {
	if len(bundles) == 0 {
		return nil, errors.New("no bundles provided for merging")
	}

	merged := &Bundle{
		Time:             time.Now().UTC(),
		RunID:            uuid.New().String(),
		VibebatchVersion: version.Version,
	}

	seen := map[string]struct{}{}
	for _, b := range bundles {
		for _, rec := range b.Recordings {
			if _, ok := seen[rec.Filename]; ok {
				return nil, fmt.Errorf("recording %s is present in more than one bundle", rec.Filename)
			}
			seen[rec.Filename] = struct{}{}
			merged.Recordings = append(merged.Recordings, rec)
		}

		for _, t := range b.Tables {
			idx := slices.IndexFunc(merged.Tables, func(mt BundleTable) bool {
				return mt.ID == t.ID
			})
			if idx < 0 {
				merged.Tables = append(merged.Tables, BundleTable{
					ID:   t.ID,
					Name: t.Name,
					Table: calc.Table{
						Columns: slices.Clone(t.Columns),
						Records: slices.Clone(t.Records),
					},
				})
				continue
			}
			if !slices.Equal(merged.Tables[idx].Columns, t.Columns) {
				return nil, fmt.Errorf("table %s has columns %v in one bundle and %v in another", t.ID, merged.Tables[idx].Columns, t.Columns)
			}
			merged.Tables[idx].Records = append(merged.Tables[idx].Records, t.Records...)
		}

		for _, s := range b.Skipped {
			if !slices.ContainsFunc(merged.Skipped, func(ms SkippedCalc) bool { return ms.CalcID == s.CalcID }) {
				merged.Skipped = append(merged.Skipped, s)
			}
		}
	}

	return merged, nil
}
