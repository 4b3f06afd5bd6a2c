package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	rforecast "github.com/aouyang1/go-rforecast"
	"github.com/aouyang1/go-rforecast/engine"
	"github.com/goccy/go-json"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

var ErrUnknownFormat = errors.New("unknown output format")

const (
	formatTable = "table"
	formatCSV   = "csv"
	formatJSON  = "json"
)

type engineFactory func(*engine.Config) (engine.Engine, error)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	ConfigFile string
	LogLevel   string
	CPUProfile string

	Input      string
	Column     string
	TimeColumn string
	Frequency  float64
	Start      string
}

// app carries the state a command needs once the root has been set up.
type app struct {
	flags     rootFlags
	newEngine engineFactory

	stdin  io.Reader
	stdout io.Writer
	out    *printer

	client  *rforecast.Client
	profile interface{ Stop() }
}

// run executes the command line in args.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, newEngine engineFactory) error {
	a := &app{
		newEngine: newEngine,
		stdin:     stdin,
		stdout:    stdout,
		out:       newPrinter(stderr),
	}
	defer a.stopProfile()

	cmd := newRootCmd(a, stderr)
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}

func newRootCmd(a *app, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rforecast",
		Short: "Forecast and decompose time series with R's forecast package",
		Long: `rforecast reads a series from a CSV column and evaluates forecasting methods and
seasonal decompositions in R, through a local Rscript or a remote R evaluation service.

Results are printed as tables and can be rendered as interactive html charts.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(stderr)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&a.flags.ConfigFile, "config", "c", "", "Path to engine configuration file")
	pf.StringVar(&a.flags.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&a.flags.CPUProfile, "cpuprofile", "", "Directory to write a cpu profile to")
	pf.StringVarP(&a.flags.Input, "input", "i", "-", "CSV file holding the series, - for stdin")
	pf.StringVar(&a.flags.Column, "column", "", "Column holding the series, defaults to the last column")
	pf.StringVar(&a.flags.TimeColumn, "time-column", "", "Column holding daily dates (2006-01-02)")
	pf.Float64VarP(&a.flags.Frequency, "frequency", "f", 1, "Number of observations per period")
	pf.StringVar(&a.flags.Start, "start", "", "Start of the series, a time value or period,step")

	cmd.AddCommand(newForecastCmd(a))
	cmd.AddCommand(newDecomposeCmd(a))
	cmd.AddCommand(newCompareCmd(a))
	return cmd
}

// setup configures logging, profiling and the engine before any subcommand runs.
func (a *app) setup(stderr io.Writer) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(a.flags.LogLevel))); err != nil {
		return fmt.Errorf("invalid log level %q, %w", a.flags.LogLevel, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	if a.flags.CPUProfile != "" {
		a.profile = profile.Start(profile.CPUProfile, profile.ProfilePath(a.flags.CPUProfile), profile.Quiet)
	}

	cfg := engine.NewDefaultConfig()
	if a.flags.ConfigFile != "" {
		var err error
		if cfg, err = engine.LoadConfig(a.flags.ConfigFile); err != nil {
			return err
		}
	}
	eng, err := a.newEngine(cfg)
	if err != nil {
		return fmt.Errorf("unable to initialize engine, %w", err)
	}
	if a.client, err = rforecast.New(eng); err != nil {
		return err
	}
	slog.Debug("engine initialized", "backend", cfg.Backend, "config", a.flags.ConfigFile)
	return nil
}

func (a *app) stopProfile() {
	if a.profile != nil {
		a.profile.Stop()
		a.profile = nil
	}
}

// readInput loads the configured CSV column.
func (a *app) readInput() (*input, error) {
	r := a.stdin
	if a.flags.Input != "-" {
		f, err := os.Open(a.flags.Input)
		if err != nil {
			return nil, fmt.Errorf("unable to open input, %w", err)
		}
		defer f.Close()
		r = f
	}
	return readInput(r, a.flags.Column, a.flags.TimeColumn)
}

// series builds the series to forecast from the input values.
func (a *app) series(values []float64) (*rforecast.Series, error) {
	start, err := parseStart(a.flags.Start)
	if err != nil {
		return nil, err
	}
	return rforecast.TS(values, start, a.flags.Frequency), nil
}

func writeTable(w io.Writer, tbl *rforecast.Table, format string) error {
	switch format {
	case formatTable, "":
		return tbl.TablePrint(w)
	case formatCSV:
		return tbl.WriteCSV(w)
	case formatJSON:
		return writeJSON(w, tbl)
	}
	return fmt.Errorf("%s, %w", format, ErrUnknownFormat)
}

func writeJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// writePlot renders a chart into the file at path.
func writePlot(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create plot file, %w", err)
	}
	if err := render(f); err != nil {
		f.Close()
		return fmt.Errorf("unable to render plot, %w", err)
	}
	return f.Close()
}
