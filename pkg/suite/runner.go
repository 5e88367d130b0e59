// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

package suite

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/vibelab/vibebatch/pkg/analyzer"
	"github.com/vibelab/vibebatch/pkg/calc"
)

// Logger is a minimalistic logger interface.
type Logger interface {
	Info(string, ...any)
	Error(string, ...any)
}

// Run is a sample implementation for a [Suite]: it fans the calculations
// out over a bounded number of workers and collects the results in the
// given order.
func Run(
	ctx context.Context,
	s Suite,
	calcs map[string]calc.Calculation,
	order []string,
	numWorkers int,
	log Logger,
	a *analyzer.Analyzer,
) (SuiteResult, error) {
	if len(calcs) == 0 {
		return SuiteResult{}, fmt.Errorf("no calculations are registered in the suite")
	}

	workers := 1
	if numWorkers > 0 {
		workers = numWorkers
	}

	result := SuiteResult{
		SuiteName:    s.Name(),
		SuiteID:      s.ID(),
		SuiteVersion: s.Version(),
		CalcResults:  make([]calc.Result, 0, len(calcs)),
	}

	type run struct {
		result calc.Result
		err    error
	}

	calcsCh := make(chan calc.Calculation)
	resultCh := make(chan run)
	wg := sync.WaitGroup{}
	log.Info(fmt.Sprintf("suite will run %d calculations with %d concurrent workers", len(calcs), workers))
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			for c := range calcsCh {
				res, err := c.Run(ctx, a)
				res.CalcID = c.ID()
				res.CalcName = c.Name()
				resultCh <- run{result: res, err: err}
			}
			wg.Done()
		}()
	}

	go func() {
		for _, c := range calcs {
			calcsCh <- c
		}
		close(calcsCh)
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	var err error
	for run := range resultCh {
		if run.err != nil {
			log.Error(fmt.Sprintf("finished calculation %s run", run.result.CalcID), "error", run.err)
			err = errors.Join(err, fmt.Errorf("calculation with id %s errored: %w", run.result.CalcID, run.err))
		} else {
			result.CalcResults = append(result.CalcResults, run.result)
		}
	}
	if err != nil {
		return SuiteResult{}, err
	}

	// Restore the configured calculation order.
	slices.SortFunc(result.CalcResults, func(x, y calc.Result) int {
		return slices.Index(order, x.CalcID) - slices.Index(order, y.CalcID)
	})
	return result, nil
}
