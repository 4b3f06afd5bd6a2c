package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	rforecast "github.com/aouyang1/go-rforecast"
	"github.com/aouyang1/go-rforecast/regressor"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrUnknownMethod = errors.New("unknown forecasting method")
	ErrNoTimeColumn  = errors.New("holiday regressors require --time-column")
)

// Method names accepted on the command line.
const (
	methodMeanf  = "meanf"
	methodNaive  = "naive"
	methodSnaive = "snaive"
	methodRwf    = "rwf"
	methodThetaf = "thetaf"
	methodETS    = "ets"
	methodArima  = "arima"
)

var methods = []string{methodMeanf, methodNaive, methodSnaive, methodRwf, methodThetaf, methodETS, methodArima}

// methodFlags are the options shared by every forecasting method. Lambda is nil unless set.
type methodFlags struct {
	H      int
	Drift  bool
	Lambda *float64
}

// regressors are the ARIMA external regressors for the history and the forecast period.
type regressors struct {
	xreg    mat.Matrix
	newXreg mat.Matrix
}

func forecastWith(ctx context.Context, c *rforecast.Client, method string, x *rforecast.Series, mf methodFlags, reg *regressors) (*rforecast.Forecast, error) {
	switch method {
	case methodMeanf:
		return c.Meanf(ctx, x, &rforecast.MeanfOptions{H: mf.H, Lambda: mf.Lambda})
	case methodNaive:
		return c.Naive(ctx, x, &rforecast.NaiveOptions{H: mf.H, Lambda: mf.Lambda})
	case methodSnaive:
		return c.Snaive(ctx, x, &rforecast.NaiveOptions{H: mf.H, Lambda: mf.Lambda})
	case methodRwf:
		return c.Rwf(ctx, x, &rforecast.RwfOptions{H: mf.H, Drift: mf.Drift, Lambda: mf.Lambda})
	case methodThetaf:
		return c.Thetaf(ctx, x, &rforecast.ThetafOptions{H: mf.H})
	case methodETS:
		opt := rforecast.NewDefaultETSOptions()
		opt.H = mf.H
		opt.Lambda = mf.Lambda
		return c.ETS(ctx, x, opt)
	case methodArima:
		opt := rforecast.NewDefaultAutoArimaOptions()
		opt.H = mf.H
		opt.Lambda = mf.Lambda
		if reg != nil {
			opt.Xreg = reg.xreg
			opt.NewXreg = reg.newXreg
		}
		return c.AutoArima(ctx, x, opt)
	}
	return nil, fmt.Errorf("%s, expected one of %s, %w", method, strings.Join(methods, ", "), ErrUnknownMethod)
}

// holidayRegressors builds US holiday indicators for daily history and the h days after it.
func holidayRegressors(times []time.Time, h int) (*regressors, error) {
	if len(times) == 0 {
		return nil, ErrNoTimeColumn
	}
	holidays := regressor.USHolidays()
	xreg, _, err := regressor.Holidays(times, holidays...)
	if err != nil {
		return nil, err
	}
	future, err := regressor.Future(times[len(times)-1], 24*time.Hour, h)
	if err != nil {
		return nil, err
	}
	newXreg, _, err := regressor.Holidays(future, holidays...)
	if err != nil {
		return nil, err
	}
	return &regressors{xreg: xreg, newXreg: newXreg}, nil
}

func newForecastCmd(a *app) *cobra.Command {
	var (
		mf       methodFlags
		lambda   float64
		holidays bool
		plotPath string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "forecast <method>",
		Short: "Forecast the series with one method",
		Long: `Forecast the series and print the point forecast with its prediction intervals.

Methods: meanf, naive, snaive, rwf, thetaf, ets and arima.`,
		Example: `  # Forecast two years of monthly data with ets
  rforecast forecast ets --input sales.csv --column sales --frequency 12 --start 2010,1 --h 24

  # Daily arima with US holiday regressors and an html chart
  rforecast forecast arima -i visits.csv --time-column date -f 7 --holidays --plot visits.html`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: methods,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("lambda") {
				mf.Lambda = &lambda
			}

			in, err := a.readInput()
			if err != nil {
				return err
			}
			x, err := a.series(in.values)
			if err != nil {
				return err
			}

			var reg *regressors
			if holidays {
				h := mf.H
				if h <= 0 {
					h = rforecast.SeasonalHorizon(x.Frequency())
					mf.H = h
				}
				if reg, err = holidayRegressors(in.times, h); err != nil {
					return err
				}
			}

			fc, err := forecastWith(cmd.Context(), a.client, args[0], x, mf, reg)
			if err != nil {
				return err
			}
			a.out.Infof("%s, %d steps ahead", fc.Method(), fc.Horizon())

			tbl, err := rforecast.PredictionIntervals(fc)
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
				return rforecast.PlotForecast(w, tbl, x, nil, &rforecast.PlotOpts{Title: fc.Method()})
			})
			if err != nil {
				return err
			}
			a.out.Successf("wrote forecast plot to %s", plotPath)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&mf.H, "h", 0, "Forecast horizon, 0 for the method default")
	f.BoolVar(&mf.Drift, "drift", false, "Add drift to the random walk (rwf only)")
	f.Float64Var(&lambda, "lambda", 0, "Box-Cox transformation parameter")
	f.BoolVar(&holidays, "holidays", false, "Add US holiday regressors (arima only, needs --time-column)")
	f.StringVar(&plotPath, "plot", "", "Write an html chart of the forecast to this file")
	f.StringVar(&format, "format", formatTable, "Output format (table, csv, json)")
	return cmd
}
