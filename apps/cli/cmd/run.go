package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/unitspec/packages/core/callsite"
	"github.com/abdul-hamid-achik/unitspec/packages/core/config"
	"github.com/abdul-hamid-achik/unitspec/packages/core/runner"
	"github.com/abdul-hamid-achik/unitspec/packages/export/metrics"
	"github.com/abdul-hamid-achik/unitspec/packages/history"
	"github.com/abdul-hamid-achik/unitspec/packages/output"
)

type runFlags struct {
	failFast    bool
	output      string
	outputFile  string
	noColor     bool
	verbose     bool
	configPath  string
	history     string
	metricsFile string
	root        string
	watch       bool
}

func newRunCmd(register Register) *cobra.Command {
	f := &runFlags{}
	runCmd := &cobra.Command{
		Use:   "run [suite...]",
		Short: "Run registered test suites",
		Long: `Run the registered test suites, all of them or only the named ones.

Examples:
  mytests run
  mytests run math strings
  mytests run --fail-fast -o junit --output-file report.xml
  mytests run --history runs.db --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd, args, f, register)
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return suiteNames(register), cobra.ShellCompDirectiveNoFileComp
		},
	}

	flags := runCmd.Flags()
	flags.BoolVar(&f.failFast, "fail-fast", getEnvBool("UNITSPEC_FAIL_FAST", false), "Stop the run at the first failed test (env: UNITSPEC_FAIL_FAST)")
	flags.StringVarP(&f.output, "output", "o", getEnvString("UNITSPEC_OUTPUT", "console"), "Output format: "+strings.Join(output.Formats, ", ")+" (env: UNITSPEC_OUTPUT)")
	flags.StringVar(&f.outputFile, "output-file", getEnvString("UNITSPEC_OUTPUT_FILE", ""), "Write output to file (default: stdout) (env: UNITSPEC_OUTPUT_FILE)")
	flags.BoolVar(&f.noColor, "no-color", getEnvBool("UNITSPEC_NO_COLOR", false), "Disable colored output (env: UNITSPEC_NO_COLOR)")
	flags.BoolVarP(&f.verbose, "verbose", "v", getEnvBool("UNITSPEC_VERBOSE", false), "Show test durations and timing percentiles (env: UNITSPEC_VERBOSE)")
	flags.StringVar(&f.configPath, "config", getEnvString("UNITSPEC_CONFIG", ""), "Path to config file (env: UNITSPEC_CONFIG)")
	flags.StringVar(&f.history, "history", getEnvString("UNITSPEC_HISTORY", ""), "Record runs in this SQLite database (env: UNITSPEC_HISTORY)")
	flags.StringVar(&f.metricsFile, "metrics-file", getEnvString("UNITSPEC_METRICS_FILE", ""), "Write Prometheus metrics to this file after each run (env: UNITSPEC_METRICS_FILE)")
	flags.StringVar(&f.root, "root", getEnvString("UNITSPEC_ROOT", ""), "Print source paths relative to this directory (env: UNITSPEC_ROOT)")
	flags.BoolVarP(&f.watch, "watch", "w", false, "Re-run when files under the watch paths change")

	return runCmd
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
		return val == "yes"
	}
	return defaultVal
}

// overrides returns the settings given on the command line or through the
// environment. Settings left at their defaults do not override the config
// file.
func (f *runFlags) overrides(cmd *cobra.Command) *config.Config {
	set := func(flag, env string) bool {
		return cmd.Flags().Changed(flag) || os.Getenv(env) != ""
	}

	o := &config.Config{}
	if set("fail-fast", "UNITSPEC_FAIL_FAST") {
		o.FailFast = config.BoolPtr(f.failFast)
	}
	if set("verbose", "UNITSPEC_VERBOSE") {
		o.Verbose = config.BoolPtr(f.verbose)
	}
	if set("no-color", "UNITSPEC_NO_COLOR") {
		o.NoColor = config.BoolPtr(f.noColor)
	}
	if set("output", "UNITSPEC_OUTPUT") {
		o.Output = f.output
	}
	o.OutputFile = f.outputFile
	o.History = f.history
	o.Metrics = f.metricsFile
	o.Root = f.root
	return o
}

func runCommand(cmd *cobra.Command, args []string, f *runFlags, register Register) error {
	fileConfig, err := config.LoadConfig(f.configPath)
	if err != nil {
		return withCode(ExitConfigError, err)
	}
	cfg := fileConfig.Merge(f.overrides(cmd))
	if err := cfg.Validate(); err != nil {
		return withCode(ExitUsageError, err)
	}

	root := cfg.Root
	if root == "" {
		root, _ = os.Getwd()
	}
	callsite.SetRoot(root)

	suites := args
	if len(suites) == 0 {
		suites = cfg.Suites
	}

	s := &session{
		cfg:      cfg,
		register: register,
		suites:   suites,
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
	}
	if cfg.History != "" {
		store, err := history.Open(cmd.Context(), cfg.History)
		if err != nil {
			return withCode(ExitConfigError, err)
		}
		defer store.Close()
		s.store = store
	}

	failures, err := s.run()
	if err != nil {
		return err
	}

	if !f.watch {
		if failures > 0 {
			return withCode(ExitTestFailure, nil)
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := newWatchLoop(cfg, s.out, func() {
		if _, err := s.run(); err != nil {
			fmt.Fprintf(s.errOut, "Error: %v\n", err)
		}
	})
	if err != nil {
		return withCode(ExitConfigError, err)
	}
	w.ignore(cfg.OutputFile, cfg.History, cfg.Metrics)
	return w.Run(ctx)
}

// session runs the registered suites once per call with a fresh registry.
type session struct {
	cfg      *config.Config
	register Register
	suites   []string
	out      io.Writer
	errOut   io.Writer
	store    *history.Store
}

func (s *session) run() (int, error) {
	w := s.out
	if s.cfg.OutputFile != "" {
		file, err := os.Create(s.cfg.OutputFile)
		if err != nil {
			return 0, withCode(ExitConfigError, fmt.Errorf("cannot create output file: %w", err))
		}
		defer file.Close()
		w = file
	}

	formatter, err := output.New(s.cfg.Output, output.Options{
		Writer:  w,
		Verbose: s.cfg.GetVerbose(),
		NoColor: s.cfg.GetNoColor(),
	})
	if err != nil {
		return 0, withCode(ExitUsageError, err)
	}
	formatter.FormatHeader(version)

	listeners := []runner.Listener{formatter}
	var recorder *history.Recorder
	if s.store != nil {
		recorder = history.NewRecorder(s.store)
		listeners = append(listeners, recorder)
	}
	if s.cfg.Metrics != "" {
		listeners = append(listeners, metrics.NewCollector(
			metrics.NewPrometheusExporter(metrics.WithPrometheusFile(s.cfg.Metrics)),
		))
	}
	listener := output.Multi(listeners...)

	reg := runner.New(runner.WithListener(listener), runner.WithLogWriter(s.out))
	reg.Init()
	if s.cfg.GetFailFast() {
		reg.SetErrorMode(runner.FailFast)
	}
	s.register(reg)

	failures, err := runSuites(reg, s.suites)
	if err != nil {
		formatter.FormatError(err)
		return 0, withCode(ExitUsageError, err)
	}

	if err := output.Flush(listener); err != nil {
		return failures, fmt.Errorf("error writing output: %w", err)
	}
	if recorder != nil {
		if err := recorder.Err(); err != nil {
			fmt.Fprintf(s.errOut, "warning: failed to record history: %v\n", err)
		}
	}
	return failures, nil
}

var errUnknownSuite = errors.New("unknown suite")

// runSuites runs the named suites in order, or every suite when names is
// empty. Unknown names are rejected before anything runs.
func runSuites(reg *runner.Registry, names []string) (int, error) {
	if len(names) == 0 {
		return reg.Run(), nil
	}
	for _, name := range names {
		if reg.Suite(name) == nil {
			return 0, fmt.Errorf("%w %q", errUnknownSuite, name)
		}
	}

	failures := 0
	for _, name := range names {
		failures += reg.RunSuite(name)
		if last := reg.LastResult(); last != nil && last.Aborted {
			break
		}
	}
	reg.Cleanup()
	return failures, nil
}

// suiteNames registers the program's suites on a scratch registry and
// returns their names.
func suiteNames(register Register) []string {
	reg := runner.New()
	register(reg)
	var names []string
	for _, s := range reg.Suites() {
		names = append(names, s.Name)
	}
	return names
}

func absPath(p string) string {
	if p == "" {
		return ""
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
