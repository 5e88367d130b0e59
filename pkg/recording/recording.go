// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

package recording

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Ext is the file extension of vibebatch recording containers.
const Ext = ".vbr"

// Unit types of recording channels.
const (
	// UnitAcceleration is the unit type of acceleration channels (m/s^2).
	UnitAcceleration = "acc"
	// UnitGPSPosition is the unit type of GPS position channels (degrees latitude/longitude).
	UnitGPSPosition = "gps"
	// UnitGPSSpeed is the unit type of GPS ground speed channels (m/s).
	UnitGPSSpeed = "spd"
	// UnitRotation is the unit type of gyroscope channels (degrees/s).
	UnitRotation = "gyr"
	// UnitAudio is the unit type of microphone channels (unitless).
	UnitAudio = "mic"
	// UnitTemperature is the unit type of temperature channels (degrees Celsius).
	UnitTemperature = "tmp"
	// UnitPressure is the unit type of pressure channels (Pa).
	UnitPressure = "pre"
)

// RecorderInfo describes the device that produced a recording.
type RecorderInfo struct {
	RecorderSerial int    `cbor:"recorderSerial" json:"recorderSerial"`
	PartNumber     string `cbor:"partNumber,omitempty" json:"partNumber,omitempty"`
}

// Session describes the time frame of a recording.
type Session struct {
	// UTCStartTime is the session start in seconds since the Unix epoch.
	UTCStartTime int64 `cbor:"utcStartTime" json:"utcStartTime"`
	// FirstTime is the offset of the first sample relative to
	// UTCStartTime in microseconds.
	FirstTime int64 `cbor:"firstTime" json:"firstTime"`
}

// Channel is a single measurement channel of a recording.
type Channel struct {
	Name     string `cbor:"name" json:"name"`
	UnitType string `cbor:"unitType" json:"unitType"`
	// AxisNames are the names of the channel's axes, e.g. X, Y, Z.
	AxisNames []string `cbor:"axisNames" json:"axisNames"`
	// SampleRate is the nominal sample rate in Hz.
	SampleRate float64 `cbor:"sampleRate" json:"sampleRate"`
	// Times are optional per-sample times in microseconds relative to the
	// session start. When omitted they are derived from the sample rate.
	Times []int64 `cbor:"times,omitempty" json:"times,omitempty"`
	// Data holds the samples per axis (axis-major).
	Data [][]float64 `cbor:"data" json:"data"`
}

// Dataset is a decoded recording container.
type Dataset struct {
	Filename     string       `cbor:"-" json:"-"`
	RecorderInfo RecorderInfo `cbor:"recorderInfo" json:"recorderInfo"`
	Session      Session      `cbor:"session" json:"session"`
	Channels     []Channel    `cbor:"channels" json:"channels"`
}

// Open decodes the recording container at the given path.
func Open(path string) (*Dataset, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	ds := &Dataset{}
	if err := cbor.Unmarshal(data, ds); err != nil {
		return nil, fmt.Errorf("failed to decode recording %s: %w", path, err)
	}
	ds.Filename = path

	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recording %s: %w", path, err)
	}
	return ds, nil
}

// Write encodes the dataset into a recording container file.
func (d *Dataset) Write(path string) error {
	data, err := cbor.Marshal(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Validate checks the structural consistency of the dataset.
func (d *Dataset) Validate() error {
	var err error
	for i, ch := range d.Channels {
		if ch.SampleRate <= 0 {
			err = errors.Join(err, fmt.Errorf("channel %q (index %d): sample rate must be positive", ch.Name, i))
		}
		if len(ch.AxisNames) == 0 {
			err = errors.Join(err, fmt.Errorf("channel %q (index %d): no axes", ch.Name, i))
		}
		if len(ch.Data) != len(ch.AxisNames) {
			err = errors.Join(err, fmt.Errorf("channel %q (index %d): %d axes but %d data rows", ch.Name, i, len(ch.AxisNames), len(ch.Data)))
			continue
		}
		for j := 1; j < len(ch.Data); j++ {
			if len(ch.Data[j]) != len(ch.Data[0]) {
				err = errors.Join(err, fmt.Errorf("channel %q (index %d): axes have differing sample counts", ch.Name, i))
				break
			}
		}
		if len(ch.Data) > 0 && len(ch.Data[0]) == 0 {
			err = errors.Join(err, fmt.Errorf("channel %q (index %d): no samples", ch.Name, i))
		}
		if len(ch.Times) > 0 && len(ch.Data) > 0 && len(ch.Times) != len(ch.Data[0]) {
			err = errors.Join(err, fmt.Errorf("channel %q (index %d): %d sample times but %d samples", ch.Name, i, len(ch.Times), len(ch.Data[0])))
		}
	}
	return err
}

// StartTime returns the UTC time of the first sample of the recording.
func (d *Dataset) StartTime() time.Time {
	return time.Unix(d.Session.UTCStartTime, 0).
		Add(time.Duration(d.Session.FirstTime) * time.Microsecond).
		UTC()
}

// SampleCount returns the number of samples per axis.
func (c *Channel) SampleCount() int {
	if len(c.Data) == 0 {
		return 0
	}
	return len(c.Data[0])
}

// SampleTimes returns the per-sample times in microseconds relative to the
// session start, deriving them from the sample rate when not recorded.
func (c *Channel) SampleTimes() []int64 {
	if len(c.Times) > 0 {
		return c.Times
	}
	times := make([]int64, c.SampleCount())
	for i := range times {
		times[i] = int64(float64(i) * 1e6 / c.SampleRate)
	}
	return times
}
