// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vibelab/vibebatch/pkg/config"
	"github.com/vibelab/vibebatch/pkg/metadata"
	"github.com/vibelab/vibebatch/pkg/output"
	"github.com/vibelab/vibebatch/pkg/recording"
	"github.com/vibelab/vibebatch/pkg/source"
)

// NewVibebatchCommand creates a new command that is used to start vibebatch.
func NewVibebatchCommand(sourceCreateFuncs map[string]source.SourceFromConfigFunc, metadataFuncs []metadata.MetadataFunc) *cobra.Command {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	rootCmd := &cobra.Command{
		Use:   "vibebatch",
		Short: "Vibebatch is a batch analysis tool for shock and vibration recordings.",
		Long: `Vibebatch analyzes batches of shock and vibration recordings.
It computes power spectral densities, shock spectra, channel metrics, peak windows
and vibration criteria curves over whole directories of recordings and bundles the
results into long-format tables suitable for further processing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var opts runOptions
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run some suites and calculations.",
		Long:  `Run allows running calculation suites and single calculations for the given source(s).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), sourceCreateFuncs, opts)
		},
	}

	addRunFlags(runCmd, &opts)
	rootCmd.AddCommand(runCmd)

	var reportOpts reportOptions
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Report converts output files.",
		Long:  `Report renders one or more result bundles as CSV tables or HTML plots. Multiple bundles are merged first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return report(args, reportOpts)
		},
	}

	addReportFlags(reportCmd, &reportOpts)
	rootCmd.AddCommand(reportCmd)

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the available sources and suites.",
		Long:  `Show prints the known sources together with their supported suites and versions.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(metadataFuncs)
		},
	}

	rootCmd.AddCommand(showCmd)

	var watchOpts watchOptions
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch source paths and rerun on new recordings.",
		Long:  `Watch observes the configured source paths and reruns all suites whenever a new recording file appears.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return watch(cmd.Context(), sourceCreateFuncs, watchOpts)
		},
	}

	addWatchFlags(watchCmd, &watchOpts)
	rootCmd.AddCommand(watchCmd)

	return rootCmd
}

func addRunFlags(cmd *cobra.Command, opts *runOptions) {
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Configuration file for vibebatch containing info about sources and suites.")
	cmd.PersistentFlags().BoolVar(&opts.all, "all", false, "If set to true vibebatch will run all suites for all known sources.")
	cmd.PersistentFlags().StringVar(&opts.source, "source", "", "The source that should be used to locate recordings.")
	cmd.PersistentFlags().StringVar(&opts.suiteID, "suite-id", "", "The id of the suite that should be run. If provided --suite-version should also be set. If both flags are empty all suites for the source will be run.")
	cmd.PersistentFlags().StringVar(&opts.suiteVersion, "suite-version", "", "The version of the suite that should be run. If provided --suite-id should also be set. If both flags are empty all suites for the source will be run.")
	cmd.PersistentFlags().StringVar(&opts.calcID, "calc-id", "", "If set only the calculation with the provided id will be run.")
}

func addReportFlags(cmd *cobra.Command, opts *reportOptions) {
	cmd.PersistentFlags().StringVar(&opts.format, "format", "csv", "Output format. One of csv, html.")
	cmd.PersistentFlags().StringVar(&opts.outputDir, "output-dir", ".", "Directory the rendered files are written to.")
}

func addWatchFlags(cmd *cobra.Command, opts *watchOptions) {
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Configuration file for vibebatch containing info about sources and suites.")
}

func report(args []string, opts reportOptions) error {
	if len(args) == 0 {
		return errors.New("report requires at least one bundle filepath argument")
	}

	bundles := make([]*output.Bundle, 0, len(args))
	for _, arg := range args {
		b, err := output.Load(arg)
		if err != nil {
			return err
		}
		bundles = append(bundles, b)
	}

	bundle := bundles[0]
	if len(bundles) > 1 {
		var err error
		bundle, err = output.MergeBundles(bundles...)
		if err != nil {
			return err
		}
	}

	switch opts.format {
	case "csv":
		return bundle.WriteCSVDir(opts.outputDir)
	case "html":
		return bundle.WriteHTMLPlots(opts.outputDir)
	default:
		return fmt.Errorf("unsupported output format: %s", opts.format)
	}
}

func show(metadataFuncs []metadata.MetadataFunc) error {
	sources := make([]metadata.SourceDetailed, 0, len(metadataFuncs))
	for _, f := range metadataFuncs {
		sources = append(sources, f())
	}

	data, err := yaml.Marshal(map[string]any{"sources": sources})
	if err != nil {
		return err
	}

	fmt.Print(string(data))
	return nil
}

func run(ctx context.Context, sourceCreateFuncs map[string]source.SourceFromConfigFunc, opts runOptions) error {
	batchConfig, err := readConfig(opts.configFile)
	if err != nil {
		return err
	}

	sources, err := getSourcesFromConfig(batchConfig, sourceCreateFuncs)
	if err != nil {
		return err
	}

	if opts.all {
		sourceResults := []source.SourceResult{}
		for _, s := range sources {
			res, err := s.RunAll(ctx)
			if err != nil {
				return err
			}
			sourceResults = append(sourceResults, res)
		}

		return writeOutputs(batchConfig, sourceResults)
	}

	s, ok := sources[opts.source]
	if !ok {
		return fmt.Errorf("unknown source: %s", opts.source)
	}

	switch {
	case opts.suiteID == "" && opts.suiteVersion == "":
		// run all suites for the source
		res, err := s.RunAll(ctx)
		if err != nil {
			return err
		}

		return writeOutputs(batchConfig, []source.SourceResult{res})
	case opts.suiteID != "" && opts.suiteVersion == "":
		return errors.New("--suite-version should be set along with --suite-id")
	case opts.suiteID == "" && opts.suiteVersion != "":
		return errors.New("--suite-id should be set along with --suite-version")
	}

	if opts.calcID == "" {
		// run the whole suite
		res, err := s.RunSuite(ctx, opts.suiteID, opts.suiteVersion)
		if err != nil {
			return err
		}

		return writeOutputs(batchConfig, []source.SourceResult{res})
	}

	return runCalculation(ctx, s, opts.suiteID, opts.suiteVersion, opts.calcID)
}

func runCalculation(ctx context.Context, s source.Source, suiteID, suiteVersion, calcID string) error {
	res, err := s.RunCalculation(ctx, suiteID, suiteVersion, calcID)
	if err != nil {
		return err
	}

	for _, fr := range res.FileResults {
		fmt.Printf("Recording: %s\n", fr.Meta.Filename)
		for _, sr := range fr.SuiteResults {
			for _, cr := range sr.CalcResults {
				if cr.Skipped {
					fmt.Printf("- Calculation: %s skipped: %s\n", cr.CalcName, cr.Justification)
					continue
				}
				fmt.Printf("- Calculation: %s\n", cr.CalcName)
				fmt.Printf("  %s\n", strings.Join(cr.Table.Columns, ", "))
				for _, rec := range cr.Table.Records {
					fmt.Printf("  %s\n", strings.Join(rec, ", "))
				}
			}
		}
	}

	return nil
}

func writeOutputs(c *config.BatchConfig, results []source.SourceResult) error {
	if c.Output == nil {
		return nil
	}

	bundle, err := output.FromSourceResults(results)
	if err != nil {
		return err
	}

	if c.Output.Path != "" {
		if err := bundle.WriteToFile(c.Output.Path); err != nil {
			return err
		}
	}
	if c.Output.CSVDir != "" {
		if err := bundle.WriteCSVDir(c.Output.CSVDir); err != nil {
			return err
		}
	}
	if c.Output.PlotsDir != "" {
		if err := bundle.WriteHTMLPlots(c.Output.PlotsDir); err != nil {
			return err
		}
	}
	return nil
}

func watch(ctx context.Context, sourceCreateFuncs map[string]source.SourceFromConfigFunc, opts watchOptions) error {
	batchConfig, err := readConfig(opts.configFile)
	if err != nil {
		return err
	}

	paths, err := sourcePaths(batchConfig)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.New("no source paths to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// fsnotify watches are not recursive while Source.Files scans recursively,
	// so every directory below the configured paths needs its own watch.
	targets, err := watchTargets(paths)
	if err != nil {
		return err
	}
	for _, p := range targets {
		if err := watcher.Add(p); err != nil {
			return fmt.Errorf("watching %s: %w", p, err)
		}
	}

	log := slog.Default()
	log.Info(fmt.Sprintf("watching %d paths for new recordings", len(targets)))

	rerun := func() {
		sources, err := getSourcesFromConfig(batchConfig, sourceCreateFuncs)
		if err != nil {
			log.Error("failed to create sources", "error", err)
			return
		}
		sourceResults := []source.SourceResult{}
		for _, s := range sources {
			res, err := s.RunAll(ctx)
			if err != nil {
				log.Error("source run errored", "source", s.ID(), "error", err)
				continue
			}
			sourceResults = append(sourceResults, res)
		}
		if err := writeOutputs(batchConfig, sourceResults); err != nil {
			log.Error("failed to write outputs", "error", err)
		}
	}
	rerun()

	// Recordings may still be written when the create event fires; give the
	// recorder a moment and coalesce bursts of files into a single run.
	debounce := time.NewTimer(time.Hour)
	if !debounce.Stop() {
		<-debounce.C
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				if err := watcher.Add(event.Name); err != nil {
					log.Error("failed to watch new directory", "dir", event.Name, "error", err)
				}
				continue
			}
			if strings.EqualFold(filepath.Ext(event.Name), recording.Ext) {
				log.Info("new recording detected", "file", event.Name)
				debounce.Reset(2 * time.Second)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("watch error", "error", err)
		case <-debounce.C:
			rerun()
		}
	}
}

// watchTargets expands the configured source paths to every directory below
// them. Plain files are kept as-is.
func watchTargets(paths []string) ([]string, error) {
	seen := map[string]struct{}{}
	var targets []string
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			targets = append(targets, p)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return targets, nil
}

func sourcePaths(c *config.BatchConfig) ([]string, error) {
	var paths []string
	for _, sourceConfig := range c.Sources {
		argsByte, err := json.Marshal(sourceConfig.Args)
		if err != nil {
			return nil, err
		}
		var args struct {
			Paths []string `json:"paths"`
		}
		if err := json.Unmarshal(argsByte, &args); err != nil {
			return nil, err
		}
		paths = append(paths, args.Paths...)
	}
	return paths, nil
}

type runOptions struct {
	configFile   string
	all          bool
	source       string
	suiteID      string
	suiteVersion string
	calcID       string
}

type reportOptions struct {
	format    string
	outputDir string
}

type watchOptions struct {
	configFile string
}

func readConfig(filePath string) (*config.BatchConfig, error) {
	data, err := os.ReadFile(filepath.Clean(filePath))
	if err != nil {
		return nil, err
	}

	c := &config.BatchConfig{}
	err = yaml.Unmarshal(data, c)

	if err != nil {
		return nil, err
	}

	return c, nil
}

func getSourcesFromConfig(c *config.BatchConfig, sourceCreateFuncs map[string]source.SourceFromConfigFunc) (map[string]source.Source, error) {
	sources := map[string]source.Source{}
	for _, sourceConfig := range c.Sources {
		if sourceFunc, ok := sourceCreateFuncs[sourceConfig.ID]; ok {
			s, err := sourceFunc(sourceConfig)
			if err != nil {
				return nil, err
			}
			if _, ok := sources[s.ID()]; ok {
				return nil, fmt.Errorf("source with id %s was already registered", s.ID())
			}
			sources[s.ID()] = s
		} else {
			return nil, fmt.Errorf("unknown source identifier: %s", sourceConfig.ID)
		}
	}

	return sources, nil
}
