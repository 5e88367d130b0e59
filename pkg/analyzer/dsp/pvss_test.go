// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

package dsp_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vibelab/vibebatch/pkg/analyzer/dsp"
)

// halfSine returns a half-sine pulse of the given amplitude and duration
// followed by silence.
func halfSine(fs, amp, duration float64, n int) []float64 {
	x := make([]float64, n)
	pulse := int(duration * fs)
	for i := 0; i < pulse && i < n; i++ {
		x[i] = amp * math.Sin(math.Pi*float64(i)/float64(pulse))
	}
	return x
}

var _ = Describe("pvss", func() {
	const fs = 10000.0

	Describe("#LogFrequencies", func() {
		It("should space the frequencies by octave fractions", func() {
			Expect(dsp.LogFrequencies(1, 4, 1)).To(Equal([]float64{1, 2, 4}))
		})

		It("should not exceed the maximum frequency", func() {
			freqs := dsp.LogFrequencies(1, 100, 12)

			Expect(freqs).To(Not(BeEmpty()))
			Expect(freqs[len(freqs)-1]).To(BeNumerically("<=", 100))
		})

		It("should return nothing when fstart exceeds fmax", func() {
			Expect(dsp.LogFrequencies(200, 100, 12)).To(BeEmpty())
		})
	})

	Describe("#PVSS", func() {
		It("should approach the velocity change of a short pulse at low frequencies", func() {
			// 100 m/s^2 half-sine over 10 ms; velocity change 2*A*T/pi.
			x := halfSine(fs, 100, 0.01, 10000)

			pv, err := dsp.PVSS(x, fs, []float64{5}, dsp.DefaultDamping)

			Expect(err).To(Not(HaveOccurred()))
			Expect(pv[0]).To(BeNumerically("~", 2*100*0.01/math.Pi, 0.1))
		})

		It("should return one value per frequency", func() {
			freqs := dsp.LogFrequencies(1, 1000, 3)
			pv, err := dsp.PVSS(halfSine(fs, 50, 0.005, 5000), fs, freqs, dsp.DefaultDamping)

			Expect(err).To(Not(HaveOccurred()))
			Expect(pv).To(HaveLen(len(freqs)))
			for _, v := range pv {
				Expect(v).To(BeNumerically(">", 0))
			}
		})

		It("should fail for frequencies at or above the Nyquist frequency", func() {
			_, err := dsp.PVSS(halfSine(fs, 50, 0.005, 5000), fs, []float64{fs / 2}, dsp.DefaultDamping)

			Expect(err).To(HaveOccurred())
		})

		It("should fail for damping ratios outside of (0, 1)", func() {
			_, err := dsp.PVSS(halfSine(fs, 50, 0.005, 5000), fs, []float64{10}, 1)

			Expect(err).To(MatchError("damping ratio 1 outside of (0, 1)"))
		})

		It("should fail for too short signals", func() {
			_, err := dsp.PVSS([]float64{1}, fs, []float64{10}, dsp.DefaultDamping)

			Expect(err).To(MatchError("shock spectrum needs at least 2 samples, got 1"))
		})
	})
})
