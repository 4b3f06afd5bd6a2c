package rforecast

import (
	"context"
	"testing"

	"github.com/aouyang1/go-rforecast/rcall"
	"github.com/aouyang1/go-rforecast/robject"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// fakeEngine records every program and answers with a canned object.
type fakeEngine struct {
	programs []*rcall.Program
	obj      *robject.Object
	err      error
}

func (f *fakeEngine) Eval(ctx context.Context, p *rcall.Program) (*robject.Object, error) {
	f.programs = append(f.programs, p)
	if f.err != nil {
		return nil, f.err
	}
	return f.obj, nil
}

func (f *fakeEngine) last() *rcall.Program {
	if len(f.programs) == 0 {
		return nil
	}
	return f.programs[len(f.programs)-1]
}

func newFakeClient(t *testing.T, obj *robject.Object) (*Client, *fakeEngine) {
	t.Helper()
	eng := &fakeEngine{obj: obj}
	c, err := New(eng)
	require.Nil(t, err)
	return c, eng
}

func tsObject(values []float64, start, frequency float64) *robject.Object {
	obj := robject.NewDoubles(values, "ts")
	obj.Tsp = []float64{start, start + float64(len(values)-1)/frequency, frequency}
	return obj
}

func columnsMatrix(cols [][]float64) *mat.Dense {
	if len(cols) == 0 {
		return &mat.Dense{}
	}
	m := mat.NewDense(len(cols[0]), len(cols), nil)
	for j, col := range cols {
		m.SetCol(j, col)
	}
	return m
}

// forecastObject mimics an R forecast object with one lower and upper column per level.
func forecastObject(method string, point, levels []float64, lower, upper [][]float64, start, frequency float64) *robject.Object {
	lo := robject.NewMatrix(columnsMatrix(lower))
	lo.Tsp = []float64{start, start + float64(len(point)-1)/frequency, frequency}
	up := robject.NewMatrix(columnsMatrix(upper))
	up.Tsp = lo.Tsp
	return robject.NewList(map[string]*robject.Object{
		"method": robject.NewStrings(method),
		"mean":   tsObject(point, start, frequency),
		"level":  robject.NewDoubles(levels),
		"lower":  lo,
		"upper":  up,
	}, "forecast")
}

func sampleForecastObject() *robject.Object {
	return forecastObject("Mean",
		[]float64{5, 5, 5},
		[]float64{80, 95},
		[][]float64{{3, 3, 3}, {2, 2, 2}},
		[][]float64{{7, 7, 7}, {8, 8, 8}},
		11, 1,
	)
}
