package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"text/tabwriter"
	"time"

	rforecast "github.com/aouyang1/go-rforecast"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var ErrHoldoutTooLong = errors.New("holdout leaves no observations to fit")

// comparison is the holdout score of one method.
type comparison struct {
	Method   string            `json:"method"`
	Model    string            `json:"model,omitempty"`
	Scores   *rforecast.Scores `json:"scores,omitempty"`
	Error    string            `json:"error,omitempty"`
	Duration time.Duration     `json:"duration_ns"`
}

// compareMethods fits every method on x and scores each point forecast against test. A method
// that fails is reported in its comparison without stopping the others.
func compareMethods(ctx context.Context, c *rforecast.Client, x *rforecast.Series, test []float64, names []string, parallel int) ([]comparison, error) {
	results := make([]comparison, len(names))

	g := new(errgroup.Group)
	g.SetLimit(parallel)
	for i, method := range names {
		g.Go(func() error {
			start := time.Now()
			res := comparison{Method: method}
			defer func() {
				res.Duration = time.Since(start)
				results[i] = res
			}()

			fc, err := forecastWith(ctx, c, method, x, methodFlags{H: len(test)}, nil)
			if err == nil {
				res.Model = fc.Method()
				var tbl *rforecast.Table
				if tbl, err = rforecast.PredictionIntervals(fc); err == nil {
					res.Scores, err = rforecast.Accuracy(tbl, test)
				}
			}
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				slog.Warn("method failed", "method", method, "error", err)
				res.Error = err.Error()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return mseOf(results[i]) < mseOf(results[j])
	})
	return results, nil
}

// mseOf sorts failed and unscored methods last.
func mseOf(c comparison) float64 {
	if c.Scores == nil || math.IsNaN(c.Scores.MSE) {
		return math.Inf(1)
	}
	return c.Scores.MSE
}

func printComparison(w io.Writer, results []comparison) error {
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintln(tbl, "method\tmodel\tmse\tmape\t"); err != nil {
		return err
	}
	for _, res := range results {
		if res.Scores == nil {
			if _, err := fmt.Fprintf(tbl, "%s\t%s\t-\t-\t\n", res.Method, res.Error); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(tbl, "%s\t%s\t%.3f\t%.3f\t\n", res.Method, res.Model, res.Scores.MSE, res.Scores.MAPE); err != nil {
			return err
		}
	}
	return tbl.Flush()
}

func newCompareCmd(a *app) *cobra.Command {
	var (
		holdout  int
		parallel int
		format   string
	)

	cmd := &cobra.Command{
		Use:   "compare [methods...]",
		Short: "Score several methods on a held out tail of the series",
		Long: `Fit each method on the series without its last observations and score the point
forecast against them with mean squared error and mean absolute percent error.

All methods are compared when none are named.`,
		Example: `  # Compare every method on the last year of monthly data
  rforecast compare -i sales.csv -f 12 --holdout 12 --parallel 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args
			if len(names) == 0 {
				names = methods
			}

			in, err := a.readInput()
			if err != nil {
				return err
			}
			h := holdout
			if h <= 0 {
				h = rforecast.SeasonalHorizon(a.flags.Frequency)
			}
			n := len(in.values) - h
			if n <= 0 {
				return fmt.Errorf("holdout of %d with %d observations, %w", h, len(in.values), ErrHoldoutTooLong)
			}
			x, err := a.series(in.values[:n])
			if err != nil {
				return err
			}

			results, err := compareMethods(cmd.Context(), a.client, x, in.values[n:], names, max(parallel, 1))
			if err != nil {
				return err
			}

			switch format {
			case formatJSON:
				if err := writeJSON(a.stdout, results); err != nil {
					return err
				}
			case formatTable, "":
				if err := printComparison(a.stdout, results); err != nil {
					return err
				}
			default:
				return fmt.Errorf("%s, %w", format, ErrUnknownFormat)
			}

			if best := results[0]; best.Scores != nil {
				a.out.Successf("best method: %s (mse %.3f)", best.Method, best.Scores.MSE)
			} else {
				a.out.Warnf("no method produced a score")
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&holdout, "holdout", 0, "Number of trailing observations to score against, 0 for two periods")
	f.IntVar(&parallel, "parallel", 4, "Maximum number of methods evaluated at once")
	f.StringVar(&format, "format", formatTable, "Output format (table, json)")
	return cmd
}
