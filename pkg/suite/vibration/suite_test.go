// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

package vibration_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vibelab/vibebatch/pkg/analyzer"
	"github.com/vibelab/vibebatch/pkg/analyzer/dsp"
	"github.com/vibelab/vibebatch/pkg/config"
	"github.com/vibelab/vibebatch/pkg/recording"
	"github.com/vibelab/vibebatch/pkg/recording/fake"
	"github.com/vibelab/vibebatch/pkg/suite/vibration"
)

var _ = Describe("vibration", func() {
	var suiteConfig config.SuiteConfig

	BeforeEach(func() {
		suiteConfig = config.SuiteConfig{
			ID:      vibration.SuiteID,
			Name:    vibration.SuiteName,
			Version: "v1",
		}
	})

	Describe("#FromGenericConfig", func() {
		It("should reject unknown versions", func() {
			suiteConfig.Version = "v0"

			_, err := vibration.FromGenericConfig(suiteConfig)

			Expect(err).To(MatchError(ContainSubstring("unknown suite")))
		})

		It("should reject unknown calculation ids", func() {
			suiteConfig.CalcOptions = []config.CalcOptionsConfig{{CalcID: "wavelet"}}

			_, err := vibration.FromGenericConfig(suiteConfig)

			Expect(err).To(MatchError("unknown calculation id: wavelet"))
		})

		It("should reject duplicated calculation options", func() {
			suiteConfig.CalcOptions = []config.CalcOptionsConfig{
				{CalcID: "metrics"},
				{CalcID: "metrics"},
			}

			_, err := vibration.FromGenericConfig(suiteConfig)

			Expect(err).To(MatchError(ContainSubstring("already registered")))
		})

		It("should reject contradicting clipping arguments", func() {
			suiteConfig.Args = map[string]any{
				"accelStartTime":   1.5,
				"accelStartMargin": 100,
			}
			suiteConfig.CalcOptions = []config.CalcOptionsConfig{{CalcID: "metrics"}}

			_, err := vibration.FromGenericConfig(suiteConfig)

			Expect(err).To(MatchError(ContainSubstring("only one of accelStartTime and accelStartMargin")))
		})

		It("should register skipped calculations", func() {
			suiteConfig.CalcOptions = []config.CalcOptionsConfig{
				{
					CalcID: "psd",
					Skip: &config.CalcOptionSkipConfig{
						Enabled:       true,
						Justification: "spectral data not required",
					},
				},
			}

			s, err := vibration.FromGenericConfig(suiteConfig)
			Expect(err).To(Not(HaveOccurred()))

			res, err := s.RunCalculation(context.TODO(), "psd", nil)
			Expect(err).To(Not(HaveOccurred()))
			Expect(res.Skipped).To(BeTrue())
			Expect(res.Justification).To(Equal("spectral data not required"))
		})

		Context("psd", func() {
			It("should require at least one spacing mode", func() {
				suiteConfig.CalcOptions = []config.CalcOptionsConfig{{CalcID: "psd"}}

				_, err := vibration.FromGenericConfig(suiteConfig)

				Expect(err).To(MatchError(ContainSubstring("must at least provide parameters for one of linear and log-spaced modes")))
			})

			It("should take an explicit frequency bin width", func() {
				suiteConfig.CalcOptions = []config.CalcOptionsConfig{
					{CalcID: "psd", Args: map[string]any{"freqBinWidth": 0.5}},
				}

				s, err := vibration.FromGenericConfig(suiteConfig)

				Expect(err).To(Not(HaveOccurred()))
				Expect(s.AnalyzerOptions().PSDFreqBinWidth).To(Equal(0.5))
			})

			It("should derive the bin width from the octave spacing", func() {
				suiteConfig.CalcOptions = []config.CalcOptionsConfig{
					{CalcID: "psd", Args: map[string]any{"binsPerOctave": 12}},
				}

				s, err := vibration.FromGenericConfig(suiteConfig)

				Expect(err).To(Not(HaveOccurred()))
				// At least 5 linear bins under the first octave band.
				Expect(s.AnalyzerOptions().PSDFreqBinWidth).To(BeNumerically("~", 1.0/86.0, 1e-12))
			})

			It("should reject unsupported windows", func() {
				suiteConfig.CalcOptions = []config.CalcOptionsConfig{
					{CalcID: "psd", Args: map[string]any{"freqBinWidth": 1.0, "window": "flattop"}},
				}

				_, err := vibration.FromGenericConfig(suiteConfig)

				Expect(err).To(MatchError(ContainSubstring("unsupported window: flattop")))
			})
		})

		Context("pvss", func() {
			It("should require its grid arguments", func() {
				suiteConfig.CalcOptions = []config.CalcOptionsConfig{{CalcID: "pvss"}}

				_, err := vibration.FromGenericConfig(suiteConfig)

				Expect(err).To(MatchError(ContainSubstring("initFreq and binsPerOctave are required")))
			})

			It("should configure the shock spectrum grid", func() {
				suiteConfig.CalcOptions = []config.CalcOptionsConfig{
					{CalcID: "pvss", Args: map[string]any{"initFreq": 2.0, "binsPerOctave": 6}},
				}

				s, err := vibration.FromGenericConfig(suiteConfig)

				Expect(err).To(Not(HaveOccurred()))
				Expect(s.AnalyzerOptions().PVSSInitFreq).To(Equal(2.0))
				Expect(s.AnalyzerOptions().PVSSBinsPerOctave).To(Equal(6))
			})
		})

		Context("peaks", func() {
			It("should require a positive margin length", func() {
				suiteConfig.CalcOptions = []config.CalcOptionsConfig{{CalcID: "peaks"}}

				_, err := vibration.FromGenericConfig(suiteConfig)

				Expect(err).To(MatchError(ContainSubstring("marginLen is required and must be positive")))
			})
		})

		Context("implied defaults", func() {
			It("should default the shock spectrum grid for metrics", func() {
				suiteConfig.CalcOptions = []config.CalcOptionsConfig{{CalcID: "metrics"}}

				s, err := vibration.FromGenericConfig(suiteConfig)

				Expect(err).To(Not(HaveOccurred()))
				Expect(s.AnalyzerOptions().PVSSInitFreq).To(Equal(1.0))
				Expect(s.AnalyzerOptions().PVSSBinsPerOctave).To(Equal(12))
			})

			It("should default the spectrum grid for vc-curves", func() {
				suiteConfig.CalcOptions = []config.CalcOptionsConfig{
					{CalcID: "vc-curves", Args: map[string]any{"initFreq": 1.0, "binsPerOctave": 3}},
				}

				s, err := vibration.FromGenericConfig(suiteConfig)

				Expect(err).To(Not(HaveOccurred()))
				Expect(s.AnalyzerOptions().PSDFreqBinWidth).To(Equal(0.2))
				Expect(s.AnalyzerOptions().PSDWindow).To(Equal(dsp.WindowHann))
			})

			It("should not override an explicitly configured grid", func() {
				suiteConfig.CalcOptions = []config.CalcOptionsConfig{
					{CalcID: "psd", Args: map[string]any{"freqBinWidth": 1.0}},
					{CalcID: "vc-curves", Args: map[string]any{"initFreq": 1.0, "binsPerOctave": 3}},
				}

				s, err := vibration.FromGenericConfig(suiteConfig)

				Expect(err).To(Not(HaveOccurred()))
				Expect(s.AnalyzerOptions().PSDFreqBinWidth).To(Equal(1.0))
			})
		})
	})

	Describe("#Run", func() {
		It("should keep the calculation results in configuration order", func() {
			suiteConfig.CalcOptions = []config.CalcOptionsConfig{
				{CalcID: "metrics"},
				{CalcID: "psd", Args: map[string]any{"freqBinWidth": 1.0}},
				{CalcID: "peaks", Args: map[string]any{"marginLen": 10}},
			}

			s, err := vibration.FromGenericConfig(suiteConfig)
			Expect(err).To(Not(HaveOccurred()))

			ds := fake.NewDataset(fake.SineChannel("Main Accelerometer", recording.UnitAcceleration, 1000, 10, 50, 4096, "X"))
			a, err := analyzer.New(ds, s.AnalyzerOptions())
			Expect(err).To(Not(HaveOccurred()))

			result, err := s.Run(context.TODO(), a)

			Expect(err).To(Not(HaveOccurred()))
			Expect(result.SuiteID).To(Equal(vibration.SuiteID))
			Expect(result.CalcResults).To(HaveLen(3))
			Expect(result.CalcResults[0].CalcID).To(Equal("metrics"))
			Expect(result.CalcResults[1].CalcID).To(Equal("psd"))
			Expect(result.CalcResults[2].CalcID).To(Equal("peaks"))
		})
	})

	Describe("#RunCalculation", func() {
		It("should fail for unregistered calculations", func() {
			s, err := vibration.New(vibration.WithVersion("v1"))
			Expect(err).To(Not(HaveOccurred()))

			_, err = s.RunCalculation(context.TODO(), "psd", nil)

			Expect(err).To(MatchError("calculation with id psd is not registered in the suite"))
		})
	})
})
