// Package rforecast is a Go client for R's forecast package. Series are built with TS,
// forecasts and decompositions are computed in R through an engine, and results are
// flattened into tables and echarts plots. No forecasting mathematics happens in Go: model
// selection, estimation and interval computation all stay in R.
package rforecast

import (
	"context"
	"errors"
	"fmt"

	"github.com/aouyang1/go-rforecast/engine"
	"github.com/aouyang1/go-rforecast/rcall"
	"github.com/aouyang1/go-rforecast/robject"
)

var (
	ErrNoEngine    = errors.New("no engine provided")
	ErrNoSeries    = errors.New("no series provided")
	ErrNotForecast = errors.New("r object is not a forecast")
)

const (
	seriesVar = "x"
	modelVar  = "model"
)

// Client invokes forecasting routines through an engine.
type Client struct {
	eng engine.Engine
}

// New creates a Client evaluating every call with eng.
func New(eng engine.Engine) (*Client, error) {
	if eng == nil {
		return nil, ErrNoEngine
	}
	return &Client{eng: eng}, nil
}

// NewFromConfig creates a Client with the engine described by cfg. A nil config uses a
// local Rscript.
func NewFromConfig(cfg *engine.Config) (*Client, error) {
	eng, err := engine.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize engine, %w", err)
	}
	return New(eng)
}

// program binds the series to x and evaluates result against it.
func (c *Client) program(x *Series, result rcall.Value) (*rcall.Program, error) {
	if x == nil {
		return nil, ErrNoSeries
	}
	return rcall.NewProgram(result).Let(seriesVar, x.Expr()), nil
}

func (c *Client) forecast(ctx context.Context, p *rcall.Program) (*Forecast, error) {
	obj, err := c.eng.Eval(ctx, p)
	if err != nil {
		return nil, err
	}
	return NewForecast(obj)
}

// Forecast is the opaque result of a forecasting call. Its named slots, such as mean, lower,
// upper and level, are read by the extraction functions.
type Forecast struct {
	obj *robject.Object
}

// NewForecast wraps an R object of class forecast.
func NewForecast(obj *robject.Object) (*Forecast, error) {
	if !obj.Is("forecast") {
		return nil, fmt.Errorf("got class %v, %w", classOf(obj), ErrNotForecast)
	}
	return &Forecast{obj: obj}, nil
}

// Object returns the underlying R object.
func (f *Forecast) Object() *robject.Object {
	return f.obj
}

// Field returns a named slot of the forecast.
func (f *Forecast) Field(name string) (*robject.Object, error) {
	return f.obj.Field(name)
}

// Method returns the forecasting method description reported by R, e.g. "ETS(A,N,N)".
func (f *Forecast) Method() string {
	m, err := f.obj.Field("method")
	if err != nil {
		return ""
	}
	return m.String()
}

// Horizon returns the number of forecast steps.
func (f *Forecast) Horizon() int {
	mean, err := f.obj.Field("mean")
	if err != nil {
		return 0
	}
	return mean.Len()
}

// Levels returns the confidence levels of the prediction intervals in the order R reports them.
func (f *Forecast) Levels() ([]float64, error) {
	level, err := f.obj.Field("level")
	if err != nil {
		return nil, err
	}
	return level.Vector()
}

func classOf(obj *robject.Object) []string {
	if obj == nil {
		return nil
	}
	return obj.Class
}
