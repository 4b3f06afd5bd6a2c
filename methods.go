package rforecast

import (
	"context"
	"fmt"
	"math"

	"github.com/aouyang1/go-rforecast/rcall"
)

// Meanf forecasts every future value as the mean of the series.
func (c *Client) Meanf(ctx context.Context, x *Series, opt *MeanfOptions) (*Forecast, error) {
	if opt == nil {
		opt = NewDefaultMeanfOptions()
	}
	p, err := c.program(x, rcall.NewCall("forecast::meanf",
		rcall.Pos(rcall.Symbol(seriesVar)),
		rcall.Pos(rcall.Int(horizon(opt.H, DefaultHorizon))),
		named("lambda", optFloat(opt.Lambda)),
	))
	if err != nil {
		return nil, err
	}
	fc, err := c.forecast(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean forecast, %w", err)
	}
	return fc, nil
}

// Naive forecasts every future value as the last observed value.
func (c *Client) Naive(ctx context.Context, x *Series, opt *NaiveOptions) (*Forecast, error) {
	if opt == nil {
		opt = NewDefaultNaiveOptions()
	}
	p, err := c.program(x, rcall.NewCall("forecast::naive",
		rcall.Pos(rcall.Symbol(seriesVar)),
		rcall.Pos(rcall.Int(horizon(opt.H, DefaultHorizon))),
		named("lambda", optFloat(opt.Lambda)),
	))
	if err != nil {
		return nil, err
	}
	fc, err := c.forecast(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("unable to compute naive forecast, %w", err)
	}
	return fc, nil
}

// Snaive forecasts every future value as the observation one full period earlier. The
// default horizon is two full periods.
func (c *Client) Snaive(ctx context.Context, x *Series, opt *NaiveOptions) (*Forecast, error) {
	if opt == nil {
		opt = NewDefaultNaiveOptions()
	}
	if x == nil {
		return nil, ErrNoSeries
	}
	p, err := c.program(x, rcall.NewCall("forecast::snaive",
		rcall.Pos(rcall.Symbol(seriesVar)),
		rcall.Pos(rcall.Int(horizon(opt.H, periods(x.Frequency(), 2)))),
		named("lambda", optFloat(opt.Lambda)),
	))
	if err != nil {
		return nil, err
	}
	fc, err := c.forecast(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("unable to compute seasonal naive forecast, %w", err)
	}
	return fc, nil
}

// Rwf forecasts with a random walk, optionally with drift.
func (c *Client) Rwf(ctx context.Context, x *Series, opt *RwfOptions) (*Forecast, error) {
	if opt == nil {
		opt = NewDefaultRwfOptions()
	}
	p, err := c.program(x, rcall.NewCall("forecast::rwf",
		rcall.Pos(rcall.Symbol(seriesVar)),
		rcall.Pos(rcall.Int(horizon(opt.H, DefaultHorizon))),
		rcall.Pos(rcall.Bool(opt.Drift)),
		named("lambda", optFloat(opt.Lambda)),
	))
	if err != nil {
		return nil, err
	}
	fc, err := c.forecast(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("unable to compute random walk forecast, %w", err)
	}
	return fc, nil
}

// Thetaf forecasts with the theta method, a random walk with drift equal to half the slope of
// a linear trend.
func (c *Client) Thetaf(ctx context.Context, x *Series, opt *ThetafOptions) (*Forecast, error) {
	if opt == nil {
		opt = NewDefaultThetafOptions()
	}
	p, err := c.program(x, rcall.NewCall("forecast::thetaf",
		rcall.Pos(rcall.Symbol(seriesVar)),
		rcall.Pos(rcall.Int(horizon(opt.H, DefaultHorizon))),
	))
	if err != nil {
		return nil, err
	}
	fc, err := c.forecast(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("unable to compute theta forecast, %w", err)
	}
	return fc, nil
}

// ETS selects and fits an exponential smoothing state space model and forecasts from it. The
// default horizon is two full periods for seasonal series and 10 steps otherwise. The Box-Cox
// parameter used for the forecast is taken from the fitted model.
func (c *Client) ETS(ctx context.Context, x *Series, opt *ETSOptions) (*Forecast, error) {
	if opt == nil {
		opt = NewDefaultETSOptions()
	}
	if x == nil {
		return nil, ErrNoSeries
	}
	fit := rcall.NewCall("forecast::ets",
		rcall.Pos(rcall.Symbol(seriesVar)),
		named("model", rcall.Str(opt.Model)),
		named("damped", optBool(opt.Damped)),
		named("alpha", optFloat(opt.Alpha)),
		named("beta", optFloat(opt.Beta)),
		named("gamma", optFloat(opt.Gamma)),
		named("phi", optFloat(opt.Phi)),
		named("additive_only", rcall.Bool(opt.AdditiveOnly)),
		named("lambda", optFloat(opt.Lambda)),
		named("opt_crit", rcall.Str(opt.OptCrit)),
		named("nmse", rcall.Int(opt.NMSE)),
		named("ic", rcall.Str(opt.IC)),
		named("allow_multiplicative_trend", rcall.Bool(opt.AllowMultiplicativeTrend)),
	)
	p, err := c.program(x, rcall.NewCall("forecast::forecast",
		rcall.Pos(rcall.Symbol(modelVar)),
		named("h", rcall.Int(horizon(opt.H, SeasonalHorizon(x.Frequency())))),
	))
	if err != nil {
		return nil, err
	}
	p.Let(modelVar, fit)

	fc, err := c.forecast(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("unable to compute ets forecast, %w", err)
	}
	return fc, nil
}

// AutoArima selects an ARIMA order, fits the model and forecasts from it. The default horizon
// is two full periods for seasonal series and 10 steps otherwise.
func (c *Client) AutoArima(ctx context.Context, x *Series, opt *AutoArimaOptions) (*Forecast, error) {
	if opt == nil {
		opt = NewDefaultAutoArimaOptions()
	}
	if x == nil {
		return nil, ErrNoSeries
	}
	fit := rcall.NewCall("forecast::auto.arima",
		rcall.Pos(rcall.Symbol(seriesVar)),
		named("d", optInt(opt.D)),
		named("D", optInt(opt.SeasonalD)),
		named("max_p", rcall.Int(opt.MaxP)),
		named("max_q", rcall.Int(opt.MaxQ)),
		named("max_P", rcall.Int(opt.MaxSeasonalP)),
		named("max_Q", rcall.Int(opt.MaxSeasonalQ)),
		named("max_order", rcall.Int(opt.MaxOrder)),
		named("max_d", rcall.Int(opt.MaxD)),
		named("max_D", rcall.Int(opt.MaxSeasonalD)),
		named("start_p", rcall.Int(opt.StartP)),
		named("start_q", rcall.Int(opt.StartQ)),
		named("start_P", rcall.Int(opt.StartSeasonalP)),
		named("start_Q", rcall.Int(opt.StartSeasonalQ)),
		named("stationary", rcall.Bool(opt.Stationary)),
		named("seasonal", rcall.Bool(opt.Seasonal)),
		named("ic", rcall.Str(opt.IC)),
		named("xreg", rcall.Matrix{M: opt.Xreg}),
		named("test", rcall.Str(opt.Test)),
		named("seasonal_test", rcall.Str(opt.SeasonalTest)),
		named("lambda", optFloat(opt.Lambda)),
	)
	p, err := c.program(x, rcall.NewCall("forecast::forecast",
		rcall.Pos(rcall.Symbol(modelVar)),
		named("h", rcall.Int(horizon(opt.H, SeasonalHorizon(x.Frequency())))),
		named("xreg", rcall.Matrix{M: opt.NewXreg}),
	))
	if err != nil {
		return nil, err
	}
	p.Let(modelVar, fit)

	fc, err := c.forecast(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("unable to compute arima forecast, %w", err)
	}
	return fc, nil
}

// named relabels a snake_case option name to R's dotted argument name.
func named(opt string, v rcall.Value) rcall.Arg {
	return rcall.Named(rcall.DotName(opt), v)
}

func optFloat(v *float64) rcall.Value {
	if v == nil {
		return rcall.Null
	}
	return rcall.Num(*v)
}

func optBool(v *bool) rcall.Value {
	if v == nil {
		return rcall.Null
	}
	return rcall.Bool(*v)
}

// optInt passes unset integer options as NA, which R treats as "select automatically".
func optInt(v *int) rcall.Value {
	if v == nil {
		return rcall.NA
	}
	return rcall.Int(*v)
}

func horizon(h, def int) int {
	if h <= 0 {
		return def
	}
	return h
}

// periods returns the number of observations in n full periods.
func periods(frequency float64, n int) int {
	return int(math.Round(float64(n) * frequency))
}

// SeasonalHorizon is the default horizon of ets and auto.arima: two full periods for seasonal
// series and DefaultHorizon otherwise.
func SeasonalHorizon(frequency float64) int {
	if frequency > 1 {
		return periods(frequency, 2)
	}
	return DefaultHorizon
}
