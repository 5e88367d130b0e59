// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package fake provides synthetic recording datasets for tests.
package fake

import (
	"math"

	"github.com/vibelab/vibebatch/pkg/recording"
)

// NewDataset returns a dataset with the given channels, using a fixed
// recorder identity and session start.
func NewDataset(channels ...recording.Channel) *recording.Dataset {
	return &recording.Dataset{
		Filename: "fake.vbr",
		RecorderInfo: recording.RecorderInfo{
			RecorderSerial: 12345,
			PartNumber:     "S4-E25D40",
		},
		Session: recording.Session{
			UTCStartTime: 1700000000,
			FirstTime:    250000,
		},
		Channels: channels,
	}
}

// SineChannel returns a channel whose axes hold phase-shifted sines of the
// given amplitude and frequency, sampled at fs for n samples.
func SineChannel(name, unitType string, fs, amp, freq float64, n int, axisNames ...string) recording.Channel {
	data := make([][]float64, len(axisNames))
	for i := range axisNames {
		phase := float64(i) * math.Pi / 2
		axis := make([]float64, n)
		for j := range axis {
			axis[j] = amp * math.Sin(2*math.Pi*freq*float64(j)/fs+phase)
		}
		data[i] = axis
	}
	return recording.Channel{
		Name:       name,
		UnitType:   unitType,
		AxisNames:  axisNames,
		SampleRate: fs,
		Data:       data,
	}
}

// ConstantChannel returns a single-axis channel holding a constant value.
func ConstantChannel(name, unitType string, fs, value float64, n int) recording.Channel {
	axis := make([]float64, n)
	for i := range axis {
		axis[i] = value
	}
	return recording.Channel{
		Name:       name,
		UnitType:   unitType,
		AxisNames:  []string{name},
		SampleRate: fs,
		Data:       [][]float64{axis},
	}
}

// AccelWithSpike returns a single-axis acceleration channel holding a low
// amplitude sine with a single large spike at the given sample.
func AccelWithSpike(fs, amp float64, n, spikeAt int, spike float64) recording.Channel {
	ch := SineChannel("Main Accelerometer", recording.UnitAcceleration, fs, amp, 10, n, "X")
	ch.Data[0][spikeAt] = spike
	return ch
}
