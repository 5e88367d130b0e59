// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

package analyzer

import (
	"math"

	"github.com/vibelab/vibebatch/pkg/analyzer/dsp"
	"github.com/vibelab/vibebatch/pkg/recording"
)

// Metric names. The units listed by type are:
// acceleration - g, velocity - mm/s, displacement - mm,
// rotation speed - degrees/s, GPS position - degrees latitude/longitude,
// GPS speed - km/h, audio - unitless, temperature - degrees Celsius,
// pressure - kPa.
const (
	MetricRMSAcceleration = "RMS Acceleration"
	MetricRMSVelocity     = "RMS Velocity"
	MetricRMSDisplacement = "RMS Displacement"
	MetricPeakAccel       = "Peak Absolute Acceleration"
	MetricPeakPseudoVel   = "Peak Pseudo Velocity Shock Spectrum"
	MetricGPSPosition     = "GPS Position"
	MetricRMSGPSSpeed     = "RMS GPS Speed"
	MetricRMSAngularVel   = "RMS Angular Velocity"
	MetricRMSMicrophone   = "RMS Microphone"
	MetricAvgTemperature  = "Average Temperature"
	MetricAvgPressure     = "Average Pressure"
)

// Metric is a single scalar channel metric.
type Metric struct {
	Calculation string
	Axis        string
	Value       float64
}

// Metrics computes the scalar channel metrics of the recording. Metrics of
// missing channels are omitted.
func (a *Analyzer) Metrics() ([]Metric, error) {
	var metrics []Metric

	accel, err := a.accelMetrics()
	if err != nil && !ErrNoAccel(err) {
		return nil, err
	}
	metrics = append(metrics, accel...)

	if gps := a.Channel(recording.UnitGPSPosition); gps != nil {
		metrics = append(metrics, gpsPositionMetrics(gps)...)
	}
	if spd := a.Channel(recording.UnitGPSSpeed); spd != nil {
		for i, name := range spd.AxisNames {
			metrics = append(metrics, Metric{MetricRMSGPSSpeed, name, dsp.RMS(spd.Data[i]) * MPSToKMPH})
		}
	}
	if gyr := a.Channel(recording.UnitRotation); gyr != nil {
		rms := make([]float64, len(gyr.Data))
		for i, name := range gyr.AxisNames {
			rms[i] = dsp.RMS(gyr.Data[i])
			metrics = append(metrics, Metric{MetricRMSAngularVel, name, rms[i]})
		}
		metrics = append(metrics, Metric{MetricRMSAngularVel, ResultantAxis, dsp.L2Norm(rms)})
	}
	if mic := a.Channel(recording.UnitAudio); mic != nil {
		for i, name := range mic.AxisNames {
			metrics = append(metrics, Metric{MetricRMSMicrophone, name, dsp.RMS(mic.Data[i])})
		}
	}
	if tmp := a.Channel(recording.UnitTemperature); tmp != nil {
		for i, name := range tmp.AxisNames {
			metrics = append(metrics, Metric{MetricAvgTemperature, name, dsp.Mean(tmp.Data[i])})
		}
	}
	if pre := a.Channel(recording.UnitPressure); pre != nil {
		for i, name := range pre.AxisNames {
			metrics = append(metrics, Metric{MetricAvgPressure, name, dsp.Mean(pre.Data[i]) * PaToKPa})
		}
	}

	return metrics, nil
}

func (a *Analyzer) accelMetrics() ([]Metric, error) {
	freqs, psds, err := a.PSD()
	if err != nil {
		return nil, err
	}
	data, err := a.AccelData()
	if err != nil {
		return nil, err
	}
	res, err := a.AccelResultant()
	if err != nil {
		return nil, err
	}

	fmin := a.opts.AccelHighpassCutoff
	axes := a.accelCh.AxisNames

	var metrics []Metric

	// RMS family from the PSD integral above the highpass cutoff.
	accRMS := make([]float64, len(psds))
	velRMS := make([]float64, len(psds))
	disRMS := make([]float64, len(psds))
	for i, psd := range psds {
		accRMS[i] = math.Sqrt(dsp.IntegratePSD(freqs, psd, fmin)) * MPS2ToG
		velRMS[i] = math.Sqrt(integrateWeighted(freqs, psd, fmin, 2)) * MPSToMMPS
		disRMS[i] = math.Sqrt(integrateWeighted(freqs, psd, fmin, 4)) * MPSToMMPS
	}
	for _, m := range []struct {
		name   string
		values []float64
	}{
		{MetricRMSAcceleration, accRMS},
		{MetricRMSVelocity, velRMS},
		{MetricRMSDisplacement, disRMS},
	} {
		for i, name := range axes {
			metrics = append(metrics, Metric{m.name, name, m.values[i]})
		}
		metrics = append(metrics, Metric{m.name, ResultantAxis, dsp.L2Norm(m.values)})
	}

	for i, name := range axes {
		_, peak := dsp.MaxAbs(data[i])
		metrics = append(metrics, Metric{MetricPeakAccel, name, math.Abs(peak) * MPS2ToG})
	}
	_, resPeak := dsp.MaxAbs(res)
	metrics = append(metrics, Metric{MetricPeakAccel, ResultantAxis, math.Abs(resPeak) * MPS2ToG})

	pvFreqs, pvss, err := a.PVSS()
	if err != nil {
		return nil, err
	}
	for i, name := range axes {
		_, peak := dsp.MaxAbs(pvss[i])
		metrics = append(metrics, Metric{MetricPeakPseudoVel, name, math.Abs(peak) * MPSToMMPS})
	}
	var pvResPeak float64
	for k := range pvFreqs {
		var sum float64
		for i := range pvss {
			sum += pvss[i][k] * pvss[i][k]
		}
		if v := math.Sqrt(sum); v > pvResPeak {
			pvResPeak = v
		}
	}
	metrics = append(metrics, Metric{MetricPeakPseudoVel, ResultantAxis, pvResPeak * MPSToMMPS})

	return metrics, nil
}

// gpsPositionMetrics reports the last valid fix of the position channel.
func gpsPositionMetrics(gps *recording.Channel) []Metric {
	n := gps.SampleCount()
	for j := n - 1; j >= 0; j-- {
		valid := false
		for i := range gps.Data {
			v := gps.Data[i][j]
			if v != 0 && !math.IsNaN(v) {
				valid = true
				break
			}
		}
		if !valid {
			continue
		}
		metrics := make([]Metric, 0, len(gps.AxisNames))
		for i, name := range gps.AxisNames {
			metrics = append(metrics, Metric{MetricGPSPosition, name, gps.Data[i][j]})
		}
		return metrics
	}
	return nil
}

// integrateWeighted integrates psd/(2*pi*f)^pow over the uniform grid for
// f >= fmin, skipping the DC bin.
func integrateWeighted(freqs, psd []float64, fmin float64, pow int) float64 {
	if len(freqs) < 2 {
		return 0
	}
	df := freqs[1] - freqs[0]
	var sum float64
	for i, f := range freqs {
		if f == 0 || f < fmin {
			continue
		}
		sum += psd[i] / math.Pow(2*math.Pi*f, float64(pow)) * df
	}
	return sum
}
