// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

package calculations_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vibelab/vibebatch/pkg/analyzer"
	"github.com/vibelab/vibebatch/pkg/calc"
	"github.com/vibelab/vibebatch/pkg/calc/calculations"
	"github.com/vibelab/vibebatch/pkg/recording"
	"github.com/vibelab/vibebatch/pkg/recording/fake"
)

func records(t calc.Table, axis string) [][]string {
	var out [][]string
	for _, rec := range t.Records {
		if rec[0] == axis {
			out = append(out, rec)
		}
	}
	return out
}

var _ = Describe("calculations", func() {
	const (
		fs = 1000.0
		n  = 4096
	)

	var (
		ctx      context.Context
		a        *analyzer.Analyzer
		noAccelA *analyzer.Analyzer
	)

	BeforeEach(func() {
		ctx = context.TODO()
		ds := fake.NewDataset(fake.SineChannel("Main Accelerometer", recording.UnitAcceleration, fs, 10, 50, n, "X", "Y"))

		var err error
		a, err = analyzer.New(ds, analyzer.Options{PSDFreqBinWidth: 1})
		Expect(err).To(Not(HaveOccurred()))

		noAccelA, err = analyzer.New(fake.NewDataset(fake.ConstantChannel("Mic", recording.UnitAudio, fs, 0.5, 128)), analyzer.Options{})
		Expect(err).To(Not(HaveOccurred()))
	})

	Describe("#PSD", func() {
		It("should produce a long-format table per axis plus the resultant", func() {
			res, err := (&calculations.PSD{}).Run(ctx, a)

			Expect(err).To(Not(HaveOccurred()))
			Expect(res.Table.Columns).To(Equal([]string{"axis", "frequency", "value"}))
			x := records(res.Table, "X")
			resultant := records(res.Table, analyzer.ResultantAxis)
			Expect(x).To(Not(BeEmpty()))
			Expect(resultant).To(HaveLen(len(x)))
		})

		It("should sum the axes into the resultant", func() {
			res, err := (&calculations.PSD{}).Run(ctx, a)
			Expect(err).To(Not(HaveOccurred()))

			x := records(res.Table, "X")
			y := records(res.Table, "Y")
			resultant := records(res.Table, analyzer.ResultantAxis)
			for i := range resultant {
				vx, err := calc.ParseFloat(x[i][2])
				Expect(err).To(Not(HaveOccurred()))
				vy, err := calc.ParseFloat(y[i][2])
				Expect(err).To(Not(HaveOccurred()))
				vr, err := calc.ParseFloat(resultant[i][2])
				Expect(err).To(Not(HaveOccurred()))
				Expect(vr).To(BeNumerically("~", vx+vy, math.Max(1e-12, (vx+vy)*1e-9)))
			}
		})

		It("should band the spectrum when bins per octave are set", func() {
			res, err := (&calculations.PSD{FreqStartOctave: 1, BinsPerOctave: 3}).Run(ctx, a)
			Expect(err).To(Not(HaveOccurred()))

			x := records(res.Table, "X")
			Expect(x).To(Not(BeEmpty()))
			first, err := calc.ParseFloat(x[0][1])
			Expect(err).To(Not(HaveOccurred()))
			Expect(first).To(Equal(1.0))
			// Band centers double every binsPerOctave entries.
			fourth, err := calc.ParseFloat(x[3][1])
			Expect(err).To(Not(HaveOccurred()))
			Expect(fourth).To(BeNumerically("~", 2, 1e-9))
		})

		It("should return an empty table without an acceleration channel", func() {
			res, err := (&calculations.PSD{}).Run(ctx, noAccelA)

			Expect(err).To(Not(HaveOccurred()))
			Expect(res.Table.Empty()).To(BeTrue())
		})
	})

	Describe("#PVSS", func() {
		It("should combine the axes into an L2 resultant", func() {
			res, err := (&calculations.PVSS{}).Run(ctx, a)
			Expect(err).To(Not(HaveOccurred()))

			x := records(res.Table, "X")
			y := records(res.Table, "Y")
			resultant := records(res.Table, analyzer.ResultantAxis)
			Expect(resultant).To(HaveLen(len(x)))
			for i := range resultant {
				vx, err := calc.ParseFloat(x[i][2])
				Expect(err).To(Not(HaveOccurred()))
				vy, err := calc.ParseFloat(y[i][2])
				Expect(err).To(Not(HaveOccurred()))
				vr, err := calc.ParseFloat(resultant[i][2])
				Expect(err).To(Not(HaveOccurred()))
				Expect(vr).To(BeNumerically("~", math.Sqrt(vx*vx+vy*vy), 1e-6))
			}
		})

		It("should return an empty table without an acceleration channel", func() {
			res, err := (&calculations.PVSS{}).Run(ctx, noAccelA)

			Expect(err).To(Not(HaveOccurred()))
			Expect(res.Table.Empty()).To(BeTrue())
		})
	})

	Describe("#Metrics", func() {
		It("should produce one record per metric", func() {
			res, err := (&calculations.Metrics{}).Run(ctx, a)

			Expect(err).To(Not(HaveOccurred()))
			Expect(res.Table.Columns).To(Equal([]string{"calculation", "axis", "value"}))
			Expect(records(res.Table, analyzer.MetricRMSAcceleration)).To(HaveLen(3))
			Expect(records(res.Table, analyzer.MetricPeakAccel)).To(HaveLen(3))
		})
	})

	Describe("#Peaks", func() {
		It("should center the window on the absolute peak", func() {
			ds := fake.NewDataset(fake.AccelWithSpike(fs, 1, n, 2000, 50))
			spikeA, err := analyzer.New(ds, analyzer.Options{})
			Expect(err).To(Not(HaveOccurred()))

			res, err := (&calculations.Peaks{MarginLen: 10}).Run(ctx, spikeA)
			Expect(err).To(Not(HaveOccurred()))

			Expect(res.Table.Columns).To(Equal([]string{"axis", "peak time", "peak offset", "value"}))
			x := records(res.Table, "X")
			Expect(x).To(HaveLen(21))

			// The middle of the window holds the spike.
			center := x[10]
			Expect(center[2]).To(Equal("0"))
			v, err := calc.ParseFloat(center[3])
			Expect(err).To(Not(HaveOccurred()))
			Expect(v).To(BeNumerically("~", 50*analyzer.MPS2ToG, 1e-9))

			peakTime, err := calc.ParseFloat(center[1])
			Expect(err).To(Not(HaveOccurred()))
			Expect(peakTime).To(BeNumerically("~", 2, 1e-9))
		})

		It("should omit window positions outside of the data", func() {
			ds := fake.NewDataset(fake.AccelWithSpike(fs, 1, n, 0, 50))
			spikeA, err := analyzer.New(ds, analyzer.Options{})
			Expect(err).To(Not(HaveOccurred()))

			res, err := (&calculations.Peaks{MarginLen: 10}).Run(ctx, spikeA)
			Expect(err).To(Not(HaveOccurred()))

			// The peak sits at the first sample, the left half is missing.
			Expect(records(res.Table, "X")).To(HaveLen(11))
		})

		It("should return an empty table without an acceleration channel", func() {
			res, err := (&calculations.Peaks{MarginLen: 10}).Run(ctx, noAccelA)

			Expect(err).To(Not(HaveOccurred()))
			Expect(res.Table.Empty()).To(BeTrue())
		})
	})

	Describe("#VCCurves", func() {
		It("should produce octave band records per axis plus the resultant", func() {
			res, err := (&calculations.VCCurves{}).Run(ctx, a)
			Expect(err).To(Not(HaveOccurred()))

			x := records(res.Table, "X")
			resultant := records(res.Table, analyzer.ResultantAxis)
			Expect(x).To(Not(BeEmpty()))
			Expect(resultant).To(HaveLen(len(x)))
			first, err := calc.ParseFloat(x[0][1])
			Expect(err).To(Not(HaveOccurred()))
			Expect(first).To(Equal(1.0))
		})
	})
})
