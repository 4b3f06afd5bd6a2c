package rforecast

import (
	"math"
	"testing"

	"github.com/aouyang1/go-rforecast/robject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeanPrediction(t *testing.T) {
	fc, err := NewForecast(sampleForecastObject())
	require.Nil(t, err)

	mean, err := MeanPrediction(fc)
	require.Nil(t, err)
	assert.Equal(t, []float64{5, 5, 5}, mean)
	assert.Len(t, mean, fc.Horizon())
}

func TestPredictionIntervals(t *testing.T) {
	testData := map[string]struct {
		obj      *robject.Object
		columns  []string
		rows     [][]float64
		labels   []string
		err      error
	}{
		"two levels": {
			obj:     sampleForecastObject(),
			columns: []string{"point_fc", "lower80", "upper80", "lower95", "upper95"},
			rows: [][]float64{
				{5, 3, 7, 2, 8},
				{5, 3, 7, 2, 8},
				{5, 3, 7, 2, 8},
			},
			labels: []string{"11", "12", "13"},
		},
		"fractional level and monthly index": {
			obj: forecastObject("ETS(A,N,N)",
				[]float64{10, 11},
				[]float64{97.5},
				[][]float64{{8, 9}},
				[][]float64{{12, 13}},
				2011+11.0/12, 12,
			),
			columns: []string{"point_fc", "lower97.5", "upper97.5"},
			rows: [][]float64{
				{10, 8, 12},
				{11, 9, 13},
			},
			labels: []string{"2011-12", "2012-01"},
		},
		"missing bound column": {
			obj: forecastObject("Mean",
				[]float64{5, 5},
				[]float64{80, 95},
				[][]float64{{3, 3}},
				[][]float64{{7, 7}},
				1, 1,
			),
			err: ErrMalformedForecast,
		},
		"missing level": {
			obj: robject.NewList(map[string]*robject.Object{
				"mean": tsObject([]float64{1}, 1, 1),
			}, "forecast"),
			err: robject.ErrMissingField,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			fc, err := NewForecast(td.obj)
			require.Nil(t, err)

			tbl, err := PredictionIntervals(fc)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)

			assert.Equal(t, td.columns, tbl.Columns())
			require.Equal(t, len(td.rows), tbl.Rows())
			for i, row := range td.rows {
				assert.Equal(t, row, tbl.Row(i))
			}
			assert.Equal(t, td.labels, tbl.Labels())
		})
	}
}

func TestLevelLabel(t *testing.T) {
	assert.Equal(t, "80", LevelLabel(80))
	assert.Equal(t, "97.5", LevelLabel(97.5))
}

func stlObject(seasonal, trend, remainder []float64, start, frequency float64) *robject.Object {
	ts := robject.NewMatrix(columnsMatrix([][]float64{seasonal, trend, remainder}))
	ts.Class = []string{"mts", "ts", "matrix", "array"}
	ts.Tsp = []float64{start, start + float64(len(seasonal)-1)/frequency, frequency}
	ts.ColNames = []string{"seasonal", "trend", "remainder"}
	return robject.NewList(map[string]*robject.Object{
		"time.series": ts,
		"win":         robject.NewDoubles([]float64{41, 7, 5}),
	}, "stl")
}

func classicalObject(x, seasonal, trend, random []float64, start, frequency float64) *robject.Object {
	return robject.NewList(map[string]*robject.Object{
		"x":        tsObject(x, start, frequency),
		"seasonal": tsObject(seasonal, start, frequency),
		"trend":    tsObject(trend, start, frequency),
		"random":   tsObject(random, start, frequency),
		"figure":   robject.NewDoubles([]float64{1, -1}),
		"type":     robject.NewStrings("additive"),
	}, "decomposed.ts")
}

func TestDecomposition(t *testing.T) {
	nan := math.NaN()

	testData := map[string]struct {
		decomp   *Decomposed
		expected map[string][]float64
		labels   []string
		err      error
	}{
		"stl sums components": {
			decomp: NewDecomposed(stlObject(
				[]float64{1, -1, 1, -1},
				[]float64{10, 10.5, 11, 11.5},
				[]float64{0.1, -0.2, 0, 0.3},
				2020, 4,
			)),
			expected: map[string][]float64{
				ColData:      {11.1, 9.3, 12, 10.8},
				ColSeasonal:  {1, -1, 1, -1},
				ColTrend:     {10, 10.5, 11, 11.5},
				ColRemainder: {0.1, -0.2, 0, 0.3},
			},
			labels: []string{"2020 Q1", "2020 Q2", "2020 Q3", "2020 Q4"},
		},
		"classical reads slots": {
			decomp: NewDecomposed(classicalObject(
				[]float64{11, 9, 12, 10},
				[]float64{1, -1, 1, -1},
				[]float64{nan, 10.5, 11, nan},
				[]float64{nan, -0.5, 0, nan},
				1, 2,
			)),
			expected: map[string][]float64{
				ColData:      {11, 9, 12, 10},
				ColSeasonal:  {1, -1, 1, -1},
				ColTrend:     {nan, 10.5, 11, nan},
				ColRemainder: {nan, -0.5, 0, nan},
			},
			labels: []string{"1:1", "1:2", "2:1", "2:2"},
		},
		"nil decomposition": {
			err: ErrNotDecomposition,
		},
		"unknown class": {
			decomp: NewDecomposed(sampleForecastObject()),
			err:    ErrNotDecomposition,
		},
		"stl without time series": {
			decomp: NewDecomposed(robject.NewList(map[string]*robject.Object{}, "stl")),
			err:    ErrMalformedDecomposition,
		},
		"stl with two components": {
			decomp: NewDecomposed(robject.NewList(map[string]*robject.Object{
				"time.series": robject.NewMatrix(columnsMatrix([][]float64{{1, 2}, {3, 4}})),
			}, "stl")),
			err: ErrMalformedDecomposition,
		},
		"classical without random": {
			decomp: NewDecomposed(robject.NewList(map[string]*robject.Object{
				"x":        tsObject([]float64{1, 2}, 1, 2),
				"seasonal": tsObject([]float64{1, 2}, 1, 2),
				"trend":    tsObject([]float64{1, 2}, 1, 2),
			}, "decomposed.ts")),
			err: ErrMalformedDecomposition,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			tbl, err := Decomposition(td.decomp)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)

			assert.Equal(t, []string{ColData, ColSeasonal, ColTrend, ColRemainder}, tbl.Columns())
			for name, expected := range td.expected {
				actual, err := tbl.Column(name)
				require.Nil(t, err)
				assertFloatsInDeltaWithNaN(t, expected, actual, 1e-9)
			}
			assert.Equal(t, td.labels, tbl.Labels())
		})
	}
}

func assertFloatsInDeltaWithNaN(t *testing.T, expected, actual []float64, delta float64) {
	t.Helper()
	if len(expected) != len(actual) {
		assert.Failf(t, "length mismatch", "expected len=%d, got len=%d", len(expected), len(actual))
		return
	}
	for i := range expected {
		e, a := expected[i], actual[i]
		if math.IsNaN(e) && math.IsNaN(a) {
			continue
		}
		assert.InDeltaf(t, e, a, delta, "index %d mismatch", i)
	}
}
