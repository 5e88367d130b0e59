// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

package calc_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vibelab/vibebatch/pkg/calc"
)

var _ = Describe("calc", func() {
	Describe("#Table", func() {
		It("should append matching records", func() {
			t := calc.NewTable("axis", "frequency", "value")

			Expect(t.Append("X", "1", "0.5")).To(Succeed())
			Expect(t.Append("Y", "1", "0.7")).To(Succeed())
			Expect(t.Records).To(HaveLen(2))
			Expect(t.Empty()).To(BeFalse())
		})

		It("should reject records with a wrong field count", func() {
			t := calc.NewTable("axis", "value")

			Expect(t.Append("X")).To(MatchError("record has 1 fields, table has 2 columns"))
		})

		It("should report empty tables", func() {
			Expect(calc.NewTable("axis").Empty()).To(BeTrue())
		})
	})

	DescribeTable("#FormatFloat and #ParseFloat",
		func(v float64) {
			parsed, err := calc.ParseFloat(calc.FormatFloat(v))

			Expect(err).To(Not(HaveOccurred()))
			Expect(parsed).To(Equal(v))
		},
		Entry("integer value", 42.0),
		Entry("small value", 6.25e-9),
		Entry("negative value", -9.80665),
	)

	Describe("#SkipCalculation", func() {
		It("should return a skipped result with the justification", func() {
			s := calc.NewSkipCalculation("psd", "Acceleration PSD", "operator request")

			Expect(s.ID()).To(Equal("psd"))
			Expect(s.Name()).To(Equal("Acceleration PSD"))

			res, err := s.Run(context.TODO(), nil)
			Expect(err).To(Not(HaveOccurred()))
			Expect(res).To(Equal(calc.Result{
				CalcID:        "psd",
				CalcName:      "Acceleration PSD",
				Skipped:       true,
				Justification: "operator request",
			}))
		})
	})
})
