// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package analyzer prepares recording data for the calculations: it selects
// the main channels, pre-filters and clips the acceleration signal and
// computes the shared spectra exactly once per recording.
package analyzer

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/vibelab/vibebatch/pkg/analyzer/dsp"
	"github.com/vibelab/vibebatch/pkg/recording"
)

// Unit conversion constants.
const (
	// GravityMPS2 is standard gravity in m/s^2.
	GravityMPS2 = 9.80665
	// MPS2ToG converts m/s^2 to g.
	MPS2ToG = 1 / GravityMPS2
	// MPSToMMPS converts m/s to mm/s.
	MPSToMMPS = 1e3
	// MPSToUMPS converts m/s to micrometers/s.
	MPSToUMPS = 1e6
	// MPSToKMPH converts m/s to km/h.
	MPSToKMPH = 3.6
	// PaToKPa converts Pa to kPa.
	PaToKPa = 1e-3
)

// ResultantAxis is the name of the synthetic cross-axis row emitted by the
// calculations.
const ResultantAxis = "Resultant"

// Options configure an Analyzer.
type Options struct {
	// PreferredChannels get priority over other channels of their unit type.
	PreferredChannels []string
	// AccelHighpassCutoff is the pre-filter cutoff in Hz; 0 disables filtering.
	AccelHighpassCutoff float64
	// AccelStartTime/AccelEndTime restrict the acceleration data to a time
	// window, in seconds relative to the first sample. Mutually exclusive
	// with the margin option of the same side.
	AccelStartTime *float64
	AccelEndTime   *float64
	// AccelStartMargin/AccelEndMargin discard a number of samples at the
	// edges of the acceleration data.
	AccelStartMargin *int
	AccelEndMargin   *int

	// PSDFreqBinWidth is the spacing of the Welch PSD grid in Hz.
	PSDFreqBinWidth float64
	// PSDWindow is the PSD tapering window.
	PSDWindow dsp.Window

	// PVSSInitFreq and PVSSBinsPerOctave define the shock spectrum grid.
	PVSSInitFreq      float64
	PVSSBinsPerOctave int

	// VCInitFreq and VCBinsPerOctave define the vibration criteria grid.
	VCInitFreq      float64
	VCBinsPerOctave int
}

// Validate checks option consistency.
func (o *Options) Validate() error {
	var err error
	if o.AccelStartTime != nil && o.AccelStartMargin != nil {
		err = errors.Join(err, errors.New("only one of accelStartTime and accelStartMargin may be set at once"))
	}
	if o.AccelEndTime != nil && o.AccelEndMargin != nil {
		err = errors.Join(err, errors.New("only one of accelEndTime and accelEndMargin may be set at once"))
	}
	return err
}

// Analyzer computes derived data of a single recording. Results are cached;
// the methods are safe for concurrent use.
type Analyzer struct {
	ds   *recording.Dataset
	opts Options

	accelCh *recording.Channel

	accelOnce   sync.Once
	accelErr    error
	accelData   [][]float64
	accelRes    []float64
	accelOffset int

	psdOnce  sync.Once
	psdErr   error
	psdFreqs []float64
	psdData  [][]float64

	pvssOnce  sync.Once
	pvssErr   error
	pvssFreqs []float64
	pvssData  [][]float64
}

// New creates an Analyzer for the dataset. A missing acceleration channel is
// not an error; the dependent accessors report it when used.
func New(ds *recording.Dataset, opts Options) (*Analyzer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.PSDFreqBinWidth <= 0 {
		opts.PSDFreqBinWidth = 1
	}
	if opts.PSDWindow == "" {
		opts.PSDWindow = dsp.WindowHann
	}
	if opts.PVSSInitFreq <= 0 {
		opts.PVSSInitFreq = 1
	}
	if opts.PVSSBinsPerOctave <= 0 {
		opts.PVSSBinsPerOctave = 12
	}
	if opts.VCInitFreq <= 0 {
		opts.VCInitFreq = 1
	}
	if opts.VCBinsPerOctave <= 0 {
		opts.VCBinsPerOctave = 3
	}

	return &Analyzer{
		ds:      ds,
		opts:    opts,
		accelCh: ds.BestChannel(recording.UnitAcceleration, opts.PreferredChannels...),
	}, nil
}

// Dataset returns the analyzed recording.
func (a *Analyzer) Dataset() *recording.Dataset { return a.ds }

// Channel returns the selected channel of the given unit type, honoring the
// preferred channel configuration. Returns nil when absent.
func (a *Analyzer) Channel(unitType string) *recording.Channel {
	if unitType == recording.UnitAcceleration {
		return a.accelCh
	}
	return a.ds.BestChannel(unitType, a.opts.PreferredChannels...)
}

// HasAccel reports whether the recording has an acceleration channel.
func (a *Analyzer) HasAccel() bool { return a.accelCh != nil }

// AccelChannel returns the main acceleration channel, or nil.
func (a *Analyzer) AccelChannel() *recording.Channel { return a.accelCh }

// AccelFs returns the acceleration sample rate in Hz.
func (a *Analyzer) AccelFs() float64 {
	if a.accelCh == nil {
		return 0
	}
	return a.accelCh.SampleRate
}

var errNoAccel = errors.New("recording has no acceleration channel")

// ErrNoAccel reports whether the error indicates a missing acceleration channel.
func ErrNoAccel(err error) bool { return errors.Is(err, errNoAccel) }

func (a *Analyzer) prepareAccel() {
	if a.accelCh == nil {
		a.accelErr = errNoAccel
		return
	}

	fs := a.accelCh.SampleRate
	n := a.accelCh.SampleCount()

	start, end := 0, n
	switch {
	case a.opts.AccelStartMargin != nil:
		start = *a.opts.AccelStartMargin
	case a.opts.AccelStartTime != nil:
		start = int(*a.opts.AccelStartTime * fs)
	}
	switch {
	case a.opts.AccelEndMargin != nil:
		end = n - *a.opts.AccelEndMargin
	case a.opts.AccelEndTime != nil:
		end = int(*a.opts.AccelEndTime * fs)
	}
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start >= end {
		a.accelErr = fmt.Errorf("empty acceleration window: samples [%d, %d)", start, end)
		return
	}

	data := make([][]float64, len(a.accelCh.Data))
	for i, axis := range a.accelCh.Data {
		clipped := axis[start:end]
		if a.opts.AccelHighpassCutoff > 0 {
			filtered, err := dsp.Highpass(clipped, a.opts.AccelHighpassCutoff, fs)
			if err != nil {
				a.accelErr = fmt.Errorf("acceleration pre-filter: %w", err)
				return
			}
			data[i] = filtered
		} else {
			data[i] = append([]float64(nil), clipped...)
		}
	}

	res := make([]float64, end-start)
	for j := range res {
		var sum float64
		for i := range data {
			sum += data[i][j] * data[i][j]
		}
		res[j] = math.Sqrt(sum)
	}

	a.accelData = data
	a.accelRes = res
	a.accelOffset = start
}

// AccelData returns the pre-filtered, clipped acceleration samples per axis
// in m/s^2.
func (a *Analyzer) AccelData() ([][]float64, error) {
	a.accelOnce.Do(a.prepareAccel)
	return a.accelData, a.accelErr
}

// AccelResultant returns the per-sample L2 norm across the acceleration axes.
func (a *Analyzer) AccelResultant() ([]float64, error) {
	a.accelOnce.Do(a.prepareAccel)
	return a.accelRes, a.accelErr
}

// AccelOffset returns the index of the first sample of the clipped
// acceleration window within the full channel.
func (a *Analyzer) AccelOffset() (int, error) {
	a.accelOnce.Do(a.prepareAccel)
	return a.accelOffset, a.accelErr
}

// PSD returns the Welch PSD of the acceleration channel: the frequency grid
// and one spectrum per axis, in (m/s^2)^2/Hz.
func (a *Analyzer) PSD() ([]float64, [][]float64, error) {
	a.psdOnce.Do(func() {
		data, err := a.AccelData()
		if err != nil {
			a.psdErr = err
			return
		}
		fs := a.accelCh.SampleRate
		nperseg := int(math.Round(fs / a.opts.PSDFreqBinWidth))
		if nperseg < 2 {
			nperseg = 2
		}

		a.psdData = make([][]float64, len(data))
		for i, axis := range data {
			freqs, psd, err := dsp.Welch(axis, fs, nperseg, a.opts.PSDWindow)
			if err != nil {
				a.psdErr = err
				return
			}
			a.psdFreqs = freqs
			a.psdData[i] = psd
		}
	})
	return a.psdFreqs, a.psdData, a.psdErr
}

// PVSS returns the pseudo velocity shock spectrum of the acceleration
// channel: the natural frequency grid and one spectrum per axis, in m/s.
func (a *Analyzer) PVSS() ([]float64, [][]float64, error) {
	a.pvssOnce.Do(func() {
		data, err := a.AccelData()
		if err != nil {
			a.pvssErr = err
			return
		}
		fs := a.accelCh.SampleRate
		freqs := dsp.LogFrequencies(a.opts.PVSSInitFreq, fs/2.5, a.opts.PVSSBinsPerOctave)
		if len(freqs) == 0 {
			a.pvssErr = fmt.Errorf("no shock spectrum frequencies between %g Hz and %g Hz", a.opts.PVSSInitFreq, fs/2.5)
			return
		}

		a.pvssData = make([][]float64, len(data))
		for i, axis := range data {
			pv, err := dsp.PVSS(axis, fs, freqs, dsp.DefaultDamping)
			if err != nil {
				a.pvssErr = err
				return
			}
			a.pvssData[i] = pv
		}
		a.pvssFreqs = freqs
	})
	return a.pvssFreqs, a.pvssData, a.pvssErr
}

// VCCurves returns the vibration criteria curves of the acceleration
// channel: octave-band RMS velocities per axis in m/s, on the configured
// octave grid.
func (a *Analyzer) VCCurves() ([]float64, [][]float64, error) {
	freqs, psds, err := a.PSD()
	if err != nil {
		return nil, nil, err
	}
	if len(freqs) < 2 {
		return nil, nil, errors.New("PSD grid too small for octave banding")
	}
	df := freqs[1] - freqs[0]

	var (
		bandFreqs []float64
		curves    = make([][]float64, len(psds))
	)
	for i, psd := range psds {
		// Velocity PSD scaled to band mean square per bin.
		ms := make([]float64, len(psd))
		for k, f := range freqs {
			if f == 0 {
				continue
			}
			omega := 2 * math.Pi * f
			ms[k] = psd[k] / (omega * omega) * df
		}
		bf, banded, err := dsp.ToOctave(freqs, ms, a.opts.VCInitFreq, a.opts.VCBinsPerOctave, dsp.OctaveSum)
		if err != nil {
			return nil, nil, err
		}
		for k := range banded {
			banded[k] = math.Sqrt(banded[k])
		}
		bandFreqs = bf
		curves[i] = banded
	}
	return bandFreqs, curves, nil
}
