package rforecast

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/aouyang1/go-rforecast/robject"
	"gonum.org/v1/gonum/floats"
)

// Column names of extracted tables.
const (
	ColPointForecast = "point_fc"
	ColLowerPrefix   = "lower"
	ColUpperPrefix   = "upper"

	ColData      = "data"
	ColSeasonal  = "seasonal"
	ColTrend     = "trend"
	ColRemainder = "remainder"
)

var (
	ErrMalformedForecast      = errors.New("malformed forecast")
	ErrNotDecomposition       = errors.New("argument must be an r seasonal decomposition")
	ErrMalformedDecomposition = errors.New("malformed seasonal decomposition")
)

// MeanPrediction returns the point forecast.
func MeanPrediction(fc *Forecast) ([]float64, error) {
	mean, err := fc.Field("mean")
	if err != nil {
		return nil, err
	}
	v, err := mean.Vector()
	if err != nil {
		return nil, fmt.Errorf("mean, %w", err)
	}
	return v, nil
}

// PredictionIntervals tabulates the point forecast followed by a lower and upper bound column
// per confidence level, in the order R reports the levels. Columns are named by the level,
// e.g. lower80 and upper80.
func PredictionIntervals(fc *Forecast) (*Table, error) {
	mean, err := fc.Field("mean")
	if err != nil {
		return nil, err
	}
	point, err := mean.Vector()
	if err != nil {
		return nil, fmt.Errorf("mean, %w", err)
	}
	levels, err := fc.Levels()
	if err != nil {
		return nil, err
	}
	lower, err := fc.Field("lower")
	if err != nil {
		return nil, err
	}
	upper, err := fc.Field("upper")
	if err != nil {
		return nil, err
	}

	tbl := NewTable(mean.Times(), frequencyOf(mean))
	if err := tbl.AddColumn(ColPointForecast, point); err != nil {
		return nil, err
	}
	for k, level := range levels {
		label := LevelLabel(level)
		lo, err := lower.Column(k)
		if err != nil {
			return nil, fmt.Errorf("lower bound for level %s, %w, %w", label, ErrMalformedForecast, err)
		}
		if err := tbl.AddColumn(ColLowerPrefix+label, lo); err != nil {
			return nil, fmt.Errorf("%w, %w", ErrMalformedForecast, err)
		}
		up, err := upper.Column(k)
		if err != nil {
			return nil, fmt.Errorf("upper bound for level %s, %w, %w", label, ErrMalformedForecast, err)
		}
		if err := tbl.AddColumn(ColUpperPrefix+label, up); err != nil {
			return nil, fmt.Errorf("%w, %w", ErrMalformedForecast, err)
		}
	}
	return tbl, nil
}

// LevelLabel formats a confidence level for column names, 80 as "80" and 97.5 as "97.5".
func LevelLabel(level float64) string {
	return strconv.FormatFloat(level, 'f', -1, 64)
}

// Decomposition tabulates a seasonal decomposition as data, seasonal, trend and remainder
// columns. For STL the data column is the sum of the three components, for a classical
// decomposition all four columns are read from the result.
func Decomposition(d *Decomposed) (*Table, error) {
	if d == nil {
		return nil, ErrNotDecomposition
	}
	switch d.Kind() {
	case ClassSTL:
		return stlTable(d.obj)
	case ClassDecomposedTS:
		return decomposedTSTable(d.obj)
	}
	return nil, fmt.Errorf("got class %q, %w", d.Kind(), ErrNotDecomposition)
}

func stlTable(obj *robject.Object) (*Table, error) {
	ts, err := obj.Field("time.series")
	if err != nil {
		return nil, fmt.Errorf("%w, %w", ErrMalformedDecomposition, err)
	}
	if ts.Cols() != 3 {
		return nil, fmt.Errorf("time.series has %d columns, expected 3, %w", ts.Cols(), ErrMalformedDecomposition)
	}

	components := make([][]float64, 3)
	for j := range components {
		components[j], err = ts.Column(j)
		if err != nil {
			return nil, fmt.Errorf("%w, %w", ErrMalformedDecomposition, err)
		}
	}
	seasonal, trend, remainder := components[0], components[1], components[2]

	data := make([]float64, len(seasonal))
	copy(data, seasonal)
	floats.Add(data, trend)
	floats.Add(data, remainder)

	return decompositionTable(ts.Times(), frequencyOf(ts), data, seasonal, trend, remainder)
}

func decomposedTSTable(obj *robject.Object) (*Table, error) {
	cols := make([][]float64, 4)
	for i, field := range []string{"x", "seasonal", "trend", "random"} {
		f, err := obj.Field(field)
		if err != nil {
			return nil, fmt.Errorf("%w, %w", ErrMalformedDecomposition, err)
		}
		cols[i], err = f.Vector()
		if err != nil {
			return nil, fmt.Errorf("%s, %w, %w", field, ErrMalformedDecomposition, err)
		}
	}
	x, _ := obj.Field("x")
	return decompositionTable(x.Times(), frequencyOf(x), cols[0], cols[1], cols[2], cols[3])
}

func decompositionTable(index []float64, frequency float64, data, seasonal, trend, remainder []float64) (*Table, error) {
	tbl := NewTable(index, frequency)
	for _, col := range []struct {
		name   string
		values []float64
	}{
		{ColData, data},
		{ColSeasonal, seasonal},
		{ColTrend, trend},
		{ColRemainder, remainder},
	} {
		if err := tbl.AddColumn(col.name, col.values); err != nil {
			return nil, fmt.Errorf("%w, %w", ErrMalformedDecomposition, err)
		}
	}
	return tbl, nil
}

func frequencyOf(obj *robject.Object) float64 {
	if obj == nil || len(obj.Tsp) != 3 {
		return 0
	}
	return obj.Tsp[2]
}
