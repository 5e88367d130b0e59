// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

package vibration

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/vibelab/vibebatch/pkg/analyzer/dsp"
	"github.com/vibelab/vibebatch/pkg/calc"
	"github.com/vibelab/vibebatch/pkg/calc/calculations"
	"github.com/vibelab/vibebatch/pkg/config"
)

// PSDArgs configure the psd calculation.
type PSDArgs struct {
	// FreqBinWidth is the desired spacing between adjacent PSD samples in
	// Hz; a default is derived only when BinsPerOctave is set.
	FreqBinWidth *float64 `json:"freqBinWidth" yaml:"freqBinWidth"`
	// FreqStartOctave is the first frequency used in octave-spacing.
	FreqStartOctave *float64 `json:"freqStartOctave" yaml:"freqStartOctave"`
	// BinsPerOctave enables a log-spaced PSD with the given number of
	// frequency bins per octave.
	BinsPerOctave *int `json:"binsPerOctave" yaml:"binsPerOctave"`
	// Window is the tapering window used in the PSD estimation.
	Window string `json:"window" yaml:"window"`
}

// PVSSArgs configure the pvss calculation.
type PVSSArgs struct {
	// InitFreq is the first frequency sample in the spectrum, in Hz.
	InitFreq *float64 `json:"initFreq" yaml:"initFreq"`
	// BinsPerOctave is the number of samples per frequency octave.
	BinsPerOctave *int `json:"binsPerOctave" yaml:"binsPerOctave"`
}

// PeaksArgs configure the peaks calculation.
type PeaksArgs struct {
	// MarginLen is the number of samples on each side of a peak to include
	// in the windows.
	MarginLen *int `json:"marginLen" yaml:"marginLen"`
}

// VCCurvesArgs configure the vc-curves calculation.
type VCCurvesArgs struct {
	// InitFreq is the first band center frequency, in Hz.
	InitFreq *float64 `json:"initFreq" yaml:"initFreq"`
	// BinsPerOctave is the number of bands per frequency octave.
	BinsPerOctave *int `json:"binsPerOctave" yaml:"binsPerOctave"`
}

var v1CalculationNames = map[string]string{
	calculations.IDPSD:      (&calculations.PSD{}).Name(),
	calculations.IDPVSS:     (&calculations.PVSS{}).Name(),
	calculations.IDMetrics:  (&calculations.Metrics{}).Name(),
	calculations.IDPeaks:    (&calculations.Peaks{}).Name(),
	calculations.IDVCCurves: (&calculations.VCCurves{}).Name(),
}

// registerV1Calculations registers the calculations of the v1 suite from
// the per calculation configurations, deriving the shared analyzer options
// along the way.
func (s *Suite) registerV1Calculations(calcOptions []config.CalcOptionsConfig) error {
	seen := map[string]struct{}{}
	configured := map[string]struct{}{}

	for _, opt := range calcOptions {
		if _, ok := seen[opt.CalcID]; ok {
			return fmt.Errorf("calculation option for calculation id: %s is already registered", opt.CalcID)
		}
		seen[opt.CalcID] = struct{}{}

		name, known := v1CalculationNames[opt.CalcID]
		if !known {
			return fmt.Errorf("unknown calculation id: %s", opt.CalcID)
		}

		if opt.Skip != nil && opt.Skip.Enabled {
			if err := s.AddCalculations(calc.NewSkipCalculation(opt.CalcID, name, opt.Skip.Justification)); err != nil {
				return err
			}
			continue
		}

		var c calc.Calculation
		var err error
		switch opt.CalcID {
		case calculations.IDPSD:
			c, err = s.configurePSD(opt)
		case calculations.IDPVSS:
			c, err = s.configurePVSS(opt)
		case calculations.IDMetrics:
			c = &calculations.Metrics{}
		case calculations.IDPeaks:
			c, err = s.configurePeaks(opt)
		case calculations.IDVCCurves:
			c, err = s.configureVCCurves(opt)
		}
		if err != nil {
			return fmt.Errorf("calculation %s: %w", opt.CalcID, err)
		}
		if err := s.AddCalculations(c); err != nil {
			return err
		}
		configured[opt.CalcID] = struct{}{}
	}

	// metrics needs a shock spectrum; fall back to the standard grid when
	// pvss is not itself configured.
	if _, ok := configured[calculations.IDMetrics]; ok {
		if _, ok := configured[calculations.IDPVSS]; !ok && s.analyzerOpts.PVSSInitFreq == 0 {
			s.analyzerOpts.PVSSInitFreq = 1
			s.analyzerOpts.PVSSBinsPerOctave = 12
		}
	}
	// vc-curves derive from the PSD; fall back to a fine grid when psd is
	// not itself configured.
	if _, ok := configured[calculations.IDVCCurves]; ok {
		if _, ok := configured[calculations.IDPSD]; !ok && s.analyzerOpts.PSDFreqBinWidth == 0 {
			s.analyzerOpts.PSDFreqBinWidth = 0.2
			s.analyzerOpts.PSDWindow = dsp.WindowHann
		}
	}

	return nil
}

func parseCalcArgs(opt config.CalcOptionsConfig, into any) error {
	argsByte, err := json.Marshal(opt.Args)
	if err != nil {
		return err
	}
	return json.Unmarshal(argsByte, into)
}

func (s *Suite) configurePSD(opt config.CalcOptionsConfig) (calc.Calculation, error) {
	var args PSDArgs
	if err := parseCalcArgs(opt, &args); err != nil {
		return nil, err
	}
	if args.FreqBinWidth == nil && args.BinsPerOctave == nil {
		return nil, errors.New("must at least provide parameters for one of linear and log-spaced modes")
	}
	if args.Window != "" && !slices.Contains(dsp.Windows(), dsp.Window(args.Window)) {
		return nil, fmt.Errorf("unsupported window: %s", args.Window)
	}

	c := &calculations.PSD{}
	if args.BinsPerOctave != nil {
		c.BinsPerOctave = *args.BinsPerOctave
		if *args.BinsPerOctave <= 0 {
			return nil, fmt.Errorf("bins per octave must be positive, got %d", *args.BinsPerOctave)
		}
	}

	freqStartOctave := 0.0
	if args.FreqStartOctave != nil {
		freqStartOctave = *args.FreqStartOctave
	}

	binWidth := 0.0
	switch {
	case args.FreqBinWidth != nil:
		binWidth = *args.FreqBinWidth
	default:
		// Derive a bin width fine enough to give the first octave band at
		// least five linear bins.
		if freqStartOctave == 0 {
			freqStartOctave = 1
		}
		b := float64(*args.BinsPerOctave)
		fstartBreadth := math.Pow(2, 1/(2*b)) - math.Pow(2, -1/(2*b))
		binWidth = freqStartOctave / float64(int(5/fstartBreadth))
	}
	if binWidth <= 0 {
		return nil, fmt.Errorf("frequency bin width must be positive, got %g", binWidth)
	}

	c.FreqStartOctave = freqStartOctave
	s.analyzerOpts.PSDFreqBinWidth = binWidth
	s.analyzerOpts.PSDWindow = dsp.Window(args.Window)

	return c, nil
}

func (s *Suite) configurePVSS(opt config.CalcOptionsConfig) (calc.Calculation, error) {
	var args PVSSArgs
	if err := parseCalcArgs(opt, &args); err != nil {
		return nil, err
	}
	if args.InitFreq == nil || args.BinsPerOctave == nil {
		return nil, errors.New("initFreq and binsPerOctave are required")
	}
	if *args.InitFreq <= 0 || *args.BinsPerOctave <= 0 {
		return nil, fmt.Errorf("initFreq and binsPerOctave must be positive, got %g and %d", *args.InitFreq, *args.BinsPerOctave)
	}

	s.analyzerOpts.PVSSInitFreq = *args.InitFreq
	s.analyzerOpts.PVSSBinsPerOctave = *args.BinsPerOctave

	return &calculations.PVSS{}, nil
}

func (s *Suite) configurePeaks(opt config.CalcOptionsConfig) (calc.Calculation, error) {
	var args PeaksArgs
	if err := parseCalcArgs(opt, &args); err != nil {
		return nil, err
	}
	if args.MarginLen == nil || *args.MarginLen <= 0 {
		return nil, errors.New("marginLen is required and must be positive")
	}

	return &calculations.Peaks{MarginLen: *args.MarginLen}, nil
}

func (s *Suite) configureVCCurves(opt config.CalcOptionsConfig) (calc.Calculation, error) {
	var args VCCurvesArgs
	if err := parseCalcArgs(opt, &args); err != nil {
		return nil, err
	}
	if args.InitFreq == nil || args.BinsPerOctave == nil {
		return nil, errors.New("initFreq and binsPerOctave are required")
	}
	if *args.InitFreq <= 0 || *args.BinsPerOctave <= 0 {
		return nil, fmt.Errorf("initFreq and binsPerOctave must be positive, got %g and %d", *args.InitFreq, *args.BinsPerOctave)
	}

	s.analyzerOpts.VCInitFreq = *args.InitFreq
	s.analyzerOpts.VCBinsPerOctave = *args.BinsPerOctave

	return &calculations.VCCurves{}, nil
}
