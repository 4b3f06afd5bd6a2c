package main

import (
	"errors"
	"fmt"
	"io"

	rforecast "github.com/aouyang1/go-rforecast"
	"github.com/spf13/cobra"
)

var ErrUnknownDecomposition = errors.New("unknown decomposition, expected stl or classical")

func newDecomposeCmd(a *app) *cobra.Command {
	var (
		stlOpt   = rforecast.NewDefaultSTLOptions()
		decOpt   = rforecast.NewDefaultDecomposeOptions()
		plotPath string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "decompose <stl|classical>",
		Short: "Split the series into seasonal, trend and remainder",
		Example: `  # Robust STL of a monthly series
  rforecast decompose stl -i co2.csv -f 12 --start 1959,1 --robust`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"stl", "classical"},
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.readInput()
			if err != nil {
				return err
			}
			x, err := a.series(in.values)
			if err != nil {
				return err
			}

			var d *rforecast.Decomposed
			switch args[0] {
			case "stl":
				d, err = a.client.STL(cmd.Context(), x, stlOpt)
			case "classical":
				d, err = a.client.Decompose(cmd.Context(), x, decOpt)
			default:
				return fmt.Errorf("%s, %w", args[0], ErrUnknownDecomposition)
			}
			if err != nil {
				return err
			}

			tbl, err := rforecast.Decomposition(d)
			if err != nil {
				return err
			}
			if err := writeTable(a.stdout, tbl, format); err != nil {
				return err
			}

			if plotPath == "" {
				return nil
			}
			err = writePlot(plotPath, func(w io.Writer) error {
				return rforecast.PlotDecomposition(w, tbl, &rforecast.PlotOpts{Title: args[0]})
			})
			if err != nil {
				return err
			}
			a.out.Successf("wrote decomposition plot to %s", plotPath)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&stlOpt.SWindow, "s-window", stlOpt.SWindow, "STL seasonal window, periodic or an odd number of lags")
	f.BoolVar(&stlOpt.Robust, "robust", false, "Use robust STL fitting")
	f.StringVar(&decOpt.Type, "type", decOpt.Type, "Classical decomposition type (additive, multiplicative)")
	f.StringVar(&plotPath, "plot", "", "Write an html chart of the components to this file")
	f.StringVar(&format, "format", formatTable, "Output format (table, csv, json)")
	return cmd
}
