// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

package dsp_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vibelab/vibebatch/pkg/analyzer/dsp"
)

var _ = Describe("stats", func() {
	Describe("#RMS", func() {
		It("should return the root mean square", func() {
			Expect(dsp.RMS([]float64{3, -3, 3, -3})).To(BeNumerically("~", 3, 1e-12))
			Expect(dsp.RMS([]float64{1, 7})).To(BeNumerically("~", 5, 1e-12))
		})

		It("should return zero for empty input", func() {
			Expect(dsp.RMS(nil)).To(Equal(0.0))
		})
	})

	Describe("#L2Norm", func() {
		It("should return the Euclidean norm", func() {
			Expect(dsp.L2Norm([]float64{3, 4})).To(BeNumerically("~", 5, 1e-12))
		})
	})

	Describe("#MaxAbs", func() {
		It("should keep the sign of the extreme value", func() {
			idx, v := dsp.MaxAbs([]float64{1, -9, 4})

			Expect(idx).To(Equal(1))
			Expect(v).To(Equal(-9.0))
		})

		It("should report empty input", func() {
			idx, v := dsp.MaxAbs(nil)

			Expect(idx).To(Equal(-1))
			Expect(v).To(Equal(0.0))
		})
	})

	Describe("#Mean", func() {
		It("should return the arithmetic mean", func() {
			Expect(dsp.Mean([]float64{1, 2, 3, 4})).To(Equal(2.5))
		})

		It("should return zero for empty input", func() {
			Expect(dsp.Mean(nil)).To(Equal(0.0))
		})
	})
})
