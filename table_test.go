package rforecast

import (
	"bytes"
	"math"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(t *testing.T) *Table {
	t.Helper()
	tbl := NewTable([]float64{2020, 2020.25}, 4)
	require.Nil(t, tbl.AddColumn(ColPointForecast, []float64{1.5, 2}))
	require.Nil(t, tbl.AddColumn("lower80", []float64{math.NaN(), 1}))
	return tbl
}

func TestTableAddColumn(t *testing.T) {
	testData := map[string]struct {
		index  []float64
		first  []float64
		name   string
		values []float64
		err    error
	}{
		"valid": {
			first:  []float64{1, 2},
			name:   "b",
			values: []float64{3, 4},
		},
		"duplicate": {
			first:  []float64{1, 2},
			name:   "a",
			values: []float64{3, 4},
			err:    ErrColumnExists,
		},
		"length mismatch": {
			first:  []float64{1, 2},
			name:   "b",
			values: []float64{3},
			err:    ErrColumnLenMismatch,
		},
		"index mismatch": {
			index:  []float64{1, 2, 3},
			name:   "b",
			values: []float64{3},
			err:    ErrColumnLenMismatch,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			tbl := NewTable(td.index, 1)
			if td.first != nil {
				require.Nil(t, tbl.AddColumn("a", td.first))
			}
			err := tbl.AddColumn(td.name, td.values)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, []string{"a", "b"}, tbl.Columns())
			assert.Equal(t, []float64{1, 3}, tbl.Row(0))
		})
	}
}

func TestTableColumn(t *testing.T) {
	tbl := sampleTable(t)

	col, err := tbl.Column(ColPointForecast)
	require.Nil(t, err)
	col[0] = 100

	col, err = tbl.Column(ColPointForecast)
	require.Nil(t, err)
	assert.Equal(t, []float64{1.5, 2}, col)

	_, err = tbl.Column("upper80")
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestTableLabelsWithoutIndex(t *testing.T) {
	tbl := NewTable(nil, 0)
	require.Nil(t, tbl.AddColumn("a", []float64{1, 2}))
	assert.Equal(t, []string{"1", "2"}, tbl.Labels())
}

func TestTablePrint(t *testing.T) {
	var buf bytes.Buffer
	require.Nil(t, sampleTable(t).TablePrint(&buf))

	expected := "" +
		"         point_fc lower80\n" +
		" 2020 Q1    1.500     NaN\n" +
		" 2020 Q2    2.000   1.000\n"
	assert.Equal(t, expected, buf.String())
}

func TestTableWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.Nil(t, sampleTable(t).WriteCSV(&buf))

	expected := "index,point_fc,lower80\n" +
		"2020 Q1,1.5,NA\n" +
		"2020 Q2,2,1\n"
	assert.Equal(t, expected, buf.String())
}

func TestTableJSON(t *testing.T) {
	tbl := sampleTable(t)

	b, err := json.Marshal(tbl)
	require.Nil(t, err)
	assert.JSONEq(t, `{
		"index": [2020, 2020.25],
		"frequency": 4,
		"columns": [
			{"name": "point_fc", "values": [1.5, 2]},
			{"name": "lower80", "values": [null, 1]}
		]
	}`, string(b))

	var decoded Table
	require.Nil(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, tbl.Columns(), decoded.Columns())
	assert.Equal(t, tbl.Labels(), decoded.Labels())

	lower, err := decoded.Column("lower80")
	require.Nil(t, err)
	assert.True(t, math.IsNaN(lower[0]))
	assert.Equal(t, 1.0, lower[1])
}
