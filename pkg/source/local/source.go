// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package local implements a Source reading recordings from the local
// filesystem.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/gammazero/workerpool"

	"github.com/vibelab/vibebatch/pkg/analyzer"
	"github.com/vibelab/vibebatch/pkg/calc"
	"github.com/vibelab/vibebatch/pkg/config"
	"github.com/vibelab/vibebatch/pkg/recording"
	"github.com/vibelab/vibebatch/pkg/source"
	"github.com/vibelab/vibebatch/pkg/suite"
	"github.com/vibelab/vibebatch/pkg/suite/vibration"
)

const (
	// SourceID is a constant containing the id of the local filesystem source.
	SourceID = "local"
	// SourceName is a constant containing the user-friendly name of the local filesystem source.
	SourceName = "Local Filesystem"
)

// Source is a local filesystem Source that analyzes recording files found
// under the configured paths.
type Source struct {
	id, name          string
	Paths             []string
	PreferredChannels []string
	suites            map[string]suite.Suite
	metadata          map[string]string
	maxWorkers        int
	logger            *slog.Logger
}

type sourceArgs struct {
	Paths             []string `json:"paths" yaml:"paths"`
	PreferredChannels []string `json:"preferredChannels" yaml:"preferredChannels"`
	MaxWorkers        int      `json:"maxWorkers" yaml:"maxWorkers"`
}

var _ source.Source = &Source{}

// New creates a new Source.
func New(options ...CreateOption) (*Source, error) {
	s := &Source{
		suites:     make(map[string]suite.Suite),
		maxWorkers: 4,
	}
	for _, o := range options {
		o(s)
	}

	if len(s.Paths) == 0 {
		return nil, errors.New("at least one path must be set")
	}

	return s, nil
}

// ID returns the id of the Source.
func (s *Source) ID() string {
	return s.id
}

// Name returns the name of the Source.
func (s *Source) Name() string {
	return s.name
}

// Metadata returns the metadata of the Source.
func (s *Source) Metadata() map[string]string {
	if s.metadata == nil {
		s.metadata = map[string]string{}
	}
	return s.metadata
}

func suiteKey(suiteID, suiteVersion string) string {
	return suiteID + "--" + suiteVersion
}

// AddSuites adds Suites to the Source.
func (s *Source) AddSuites(suites ...suite.Suite) error {
	for _, st := range suites {
		key := suiteKey(st.ID(), st.Version())
		if _, ok := s.suites[key]; ok {
			return fmt.Errorf("suite with id %s and version %s already exists", st.ID(), st.Version())
		}
		s.suites[key] = st
	}
	return nil
}

// Suites returns the registered Suites of the Source.
func (s *Source) Suites() map[string]suite.Suite {
	return s.suites
}

// Files returns the paths of all recording files under the configured paths,
// sorted and deduplicated.
func (s *Source) Files() ([]string, error) {
	seen := map[string]struct{}{}
	var files []string

	for _, p := range s.Paths {
		err := filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.EqualFold(filepath.Ext(path), recording.Ext) {
				return nil
			}
			if _, ok := seen[path]; !ok {
				seen[path] = struct{}{}
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", p, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// RunAll analyzes every recording file of the Source with every registered
// Suite. Recordings are processed concurrently; a failing recording does not
// stop the others.
func (s *Source) RunAll(ctx context.Context) (source.SourceResult, error) {
	return s.run(ctx, s.suites, "")
}

// RunSuite analyzes every recording file of the Source with a single known
// Suite.
func (s *Source) RunSuite(ctx context.Context, suiteID, suiteVersion string) (source.SourceResult, error) {
	key := suiteKey(suiteID, suiteVersion)
	st, ok := s.suites[key]
	if !ok {
		return source.SourceResult{}, fmt.Errorf("suite with id %s and version %s does not exist", suiteID, suiteVersion)
	}
	return s.run(ctx, map[string]suite.Suite{key: st}, "")
}

// RunCalculation executes a specific Calculation of a known Suite over every
// recording file of the Source.
func (s *Source) RunCalculation(ctx context.Context, suiteID, suiteVersion, calcID string) (source.SourceResult, error) {
	key := suiteKey(suiteID, suiteVersion)
	st, ok := s.suites[key]
	if !ok {
		return source.SourceResult{}, fmt.Errorf("suite with id %s and version %s does not exist", suiteID, suiteVersion)
	}
	return s.run(ctx, map[string]suite.Suite{key: st}, calcID)
}

func (s *Source) run(ctx context.Context, suites map[string]suite.Suite, calcID string) (source.SourceResult, error) {
	if len(suites) == 0 {
		return source.SourceResult{}, errors.New("no suites are registered with the source")
	}

	files, err := s.Files()
	if err != nil {
		return source.SourceResult{}, err
	}
	if len(files) == 0 {
		return source.SourceResult{}, fmt.Errorf("no %s files found under the configured paths", recording.Ext)
	}

	result := source.SourceResult{
		SourceID:    s.ID(),
		SourceName:  s.Name(),
		Metadata:    s.Metadata(),
		FileResults: make([]source.FileResult, 0, len(files)),
	}

	log := s.Logger()
	var totalSize uint64
	for _, file := range files {
		if info, err := os.Stat(file); err == nil {
			totalSize += uint64(info.Size())
		}
	}
	log.Info(fmt.Sprintf("source will analyze %d recordings (%s) with %d concurrent workers", len(files), humanize.Bytes(totalSize), s.maxWorkers))

	var (
		mu     sync.Mutex
		runErr error
	)
	wp := workerpool.New(s.maxWorkers)
	for _, file := range files {
		wp.Submit(func() {
			fr, err := s.runFile(ctx, file, suites, calcID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Error(fmt.Sprintf("finished recording %s run", file), "error", err)
				runErr = errors.Join(runErr, fmt.Errorf("recording %s errored: %w", file, err))
				return
			}
			result.FileResults = append(result.FileResults, fr)
		})
	}
	wp.StopWait()

	// Restore the scan order lost to the concurrent runs.
	sort.Slice(result.FileResults, func(i, j int) bool {
		return result.FileResults[i].Meta.Filename < result.FileResults[j].Meta.Filename
	})
	return result, runErr
}

func (s *Source) runFile(ctx context.Context, file string, suites map[string]suite.Suite, calcID string) (source.FileResult, error) {
	ds, err := recording.Open(file)
	if err != nil {
		return source.FileResult{}, err
	}

	fr := source.FileResult{
		Meta: source.FileMeta{
			Filename:     ds.Filename,
			SerialNumber: ds.RecorderInfo.RecorderSerial,
			StartTime:    ds.StartTime(),
		},
	}

	for _, st := range suites {
		opts := st.AnalyzerOptions()
		opts.PreferredChannels = s.PreferredChannels
		a, err := analyzer.New(ds, opts)
		if err != nil {
			return source.FileResult{}, err
		}

		var sr suite.SuiteResult
		if calcID == "" {
			sr, err = st.Run(ctx, a)
		} else {
			var cr calc.Result
			cr, err = st.RunCalculation(ctx, calcID, a)
			sr = suite.SuiteResult{
				SuiteID:      st.ID(),
				SuiteName:    st.Name(),
				SuiteVersion: st.Version(),
				CalcResults:  []calc.Result{cr},
			}
		}
		if err != nil {
			return source.FileResult{}, err
		}
		fr.SuiteResults = append(fr.SuiteResults, sr)
	}

	return fr, nil
}

// FromGenericConfig creates a Source from a SourceConfig.
func FromGenericConfig(sourceConf config.SourceConfig) (source.Source, error) {
	sourceArgsByte, err := json.Marshal(sourceConf.Args)
	if err != nil {
		return nil, err
	}

	var args sourceArgs
	if err := json.Unmarshal(sourceArgsByte, &args); err != nil {
		return nil, err
	}

	opts := []CreateOption{
		WithID(sourceConf.ID),
		WithName(sourceConf.Name),
		WithPaths(args.Paths...),
		WithPreferredChannels(args.PreferredChannels...),
		WithMetadata(sourceConf.Metadata),
	}
	if args.MaxWorkers > 0 {
		opts = append(opts, WithMaxWorkers(args.MaxWorkers))
	}

	s, err := New(opts...)
	if err != nil {
		return nil, err
	}

	for _, suiteConf := range sourceConf.Suites {
		switch suiteConf.ID {
		case vibration.SuiteID:
			vs, err := vibration.FromGenericConfig(suiteConf)
			if err != nil {
				return nil, err
			}
			if err := s.AddSuites(vs); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unknown suite identifier: %s", suiteConf.ID)
		}
	}

	return s, nil
}

// Logger returns the Source's logger.
// If not set it will default to slog.Default().With("source", s.ID()).
func (s *Source) Logger() *slog.Logger {
	if s.logger == nil {
		s.logger = slog.Default().With("source", s.ID())
	}
	return s.logger
}
