// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

package recording

import "slices"

// BestChannel selects the most suitable channel of the given unit type.
// Channels whose name appears in the preferred list take priority, in the
// order of the list. Otherwise the channel with the most axes wins, ties
// resolved by declaration order. Returns nil when the recording has no
// channel of the requested unit type.
func (d *Dataset) BestChannel(unitType string, preferred ...string) *Channel {
	var candidates []*Channel
	for i := range d.Channels {
		if d.Channels[i].UnitType == unitType {
			candidates = append(candidates, &d.Channels[i])
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	for _, name := range preferred {
		if idx := slices.IndexFunc(candidates, func(c *Channel) bool { return c.Name == name }); idx >= 0 {
			return candidates[idx]
		}
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if len(c.AxisNames) > len(best.AxisNames) {
			best = c
		}
	}
	return best
}
