// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/vibelab/vibebatch/pkg/calc"
	"github.com/vibelab/vibebatch/pkg/calc/calculations"
)

type plotSpec struct {
	xColumn, yColumn string
	xName, yName     string
	logAxes          bool
}

var plotSpecs = map[string]plotSpec{
	calculations.IDPSD: {
		xColumn: "frequency", yColumn: "value",
		xName: "frequency (Hz)", yName: "PSD (g^2/Hz)",
		logAxes: true,
	},
	calculations.IDPVSS: {
		xColumn: "frequency", yColumn: "value",
		xName: "natural frequency (Hz)", yName: "pseudo velocity (mm/s)",
		logAxes: true,
	},
	calculations.IDVCCurves: {
		xColumn: "frequency", yColumn: "value",
		xName: "frequency (Hz)", yName: "RMS velocity (um/s)",
		logAxes: true,
	},
	calculations.IDPeaks: {
		xColumn: "peak offset", yColumn: "value",
		xName: "time relative to peak (s)", yName: "acceleration (g)",
	},
}

// WriteHTMLPlots renders the plottable tables of a Bundle as one
// self-contained HTML chart per calculation. Tables without a known plot
// layout, such as the channel metrics, are left out. The directory is
// created when missing.
func (b *Bundle) WriteHTMLPlots(dir string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	for _, t := range b.Tables {
		spec, ok := plotSpecs[t.ID]
		if !ok {
			continue
		}
		if err := writePlot(filepath.Join(dir, t.ID+".html"), t, spec); err != nil {
			return fmt.Errorf("plotting table %s: %w", t.ID, err)
		}
	}
	return nil
}

func writePlot(path string, t BundleTable, spec plotSpec) error {
	fileIdx := slices.Index(t.Columns, ColFilename)
	axisIdx := slices.Index(t.Columns, "axis")
	xIdx := slices.Index(t.Columns, spec.xColumn)
	yIdx := slices.Index(t.Columns, spec.yColumn)
	if fileIdx < 0 || axisIdx < 0 || xIdx < 0 || yIdx < 0 {
		return fmt.Errorf("table is missing one of the columns %q, %q, %q, %q",
			ColFilename, "axis", spec.xColumn, spec.yColumn)
	}

	// One series per recording and axis, in record order.
	var order []string
	seriesData := map[string][]opts.LineData{}
	for _, rec := range t.Records {
		name := fmt.Sprintf("%s [%s]", filepath.Base(rec[fileIdx]), rec[axisIdx])
		x, err := calc.ParseFloat(rec[xIdx])
		if err != nil {
			return err
		}
		y, err := calc.ParseFloat(rec[yIdx])
		if err != nil {
			return err
		}
		if spec.logAxes && (x <= 0 || y <= 0) {
			continue
		}
		if _, ok := seriesData[name]; !ok {
			order = append(order, name)
		}
		seriesData[name] = append(seriesData[name], opts.LineData{Value: []any{x, y}})
	}

	axisType := "value"
	if spec.logAxes {
		axisType = "log"
	}
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: t.Name}),
		charts.WithXAxisOpts(opts.XAxis{Name: spec.xName, Type: axisType}),
		charts.WithYAxisOpts(opts.YAxis{Name: spec.yName, Type: axisType}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	for _, name := range order {
		line.AddSeries(name, seriesData[name])
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := line.Render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
