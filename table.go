package rforecast

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"

	"github.com/aouyang1/go-rforecast/robject"
	"github.com/goccy/go-json"
)

var (
	ErrColumnExists      = errors.New("column already exists in table")
	ErrColumnLenMismatch = errors.New("column has different length than table")
	ErrUnknownColumn     = errors.New("unknown column")
)

// Table is a set of equal length, named float columns kept in insertion order. Index holds
// the ts time value of each row when known and Frequency the number of rows per period.
type Table struct {
	Index     []float64
	Frequency float64

	names   []string
	columns map[string][]float64
}

// NewTable creates an empty table. Index may be nil.
func NewTable(index []float64, frequency float64) *Table {
	var idx []float64
	if index != nil {
		idx = make([]float64, len(index))
		copy(idx, index)
	}
	return &Table{
		Index:     idx,
		Frequency: frequency,
		columns:   make(map[string][]float64),
	}
}

// AddColumn appends a column. Its length must match the existing columns and the index.
func (t *Table) AddColumn(name string, values []float64) error {
	if _, exists := t.columns[name]; exists {
		return fmt.Errorf("%s, %w", name, ErrColumnExists)
	}
	n := len(values)
	if len(t.names) > 0 && n != t.Rows() {
		return fmt.Errorf("%s has %d rows, table has %d, %w", name, n, t.Rows(), ErrColumnLenMismatch)
	}
	if t.Index != nil && n != len(t.Index) {
		return fmt.Errorf("%s has %d rows, index has %d, %w", name, n, len(t.Index), ErrColumnLenMismatch)
	}
	col := make([]float64, n)
	copy(col, values)
	t.names = append(t.names, name)
	t.columns[name] = col
	return nil
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]float64, error) {
	col, exists := t.columns[name]
	if !exists {
		return nil, fmt.Errorf("%s, %w", name, ErrUnknownColumn)
	}
	out := make([]float64, len(col))
	copy(out, col)
	return out, nil
}

// Rows returns the number of rows.
func (t *Table) Rows() int {
	if len(t.names) == 0 {
		return len(t.Index)
	}
	return len(t.columns[t.names[0]])
}

// Row returns the values of row i in column order.
func (t *Table) Row(i int) []float64 {
	row := make([]float64, len(t.names))
	for j, name := range t.names {
		row[j] = t.columns[name][i]
	}
	return row
}

// Label returns a readable index for row i, falling back to its 1-based position.
func (t *Table) Label(i int) string {
	if i < len(t.Index) {
		return TimeLabel(t.Index[i], t.Frequency)
	}
	return strconv.Itoa(i + 1)
}

// Labels returns readable indexes for every row.
func (t *Table) Labels() []string {
	labels := make([]string, t.Rows())
	for i := range labels {
		labels[i] = t.Label(i)
	}
	return labels
}

// TablePrint writes the table right aligned with three decimals.
func (t *Table) TablePrint(w io.Writer) error {
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprint(tbl, "\t"); err != nil {
		return err
	}
	for _, name := range t.names {
		if _, err := fmt.Fprintf(tbl, "%s\t", name); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(tbl); err != nil {
		return err
	}
	for i := 0; i < t.Rows(); i++ {
		if _, err := fmt.Fprintf(tbl, "%s\t", t.Label(i)); err != nil {
			return err
		}
		for _, v := range t.Row(i) {
			if _, err := fmt.Fprintf(tbl, "%.3f\t", v); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(tbl); err != nil {
			return err
		}
	}
	return tbl.Flush()
}

// WriteCSV writes a header of "index" and the column names followed by one record per row.
// Missing values are written as NA.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"index"}, t.names...)); err != nil {
		return err
	}
	record := make([]string, len(t.names)+1)
	for i := 0; i < t.Rows(); i++ {
		record[0] = t.Label(i)
		for j, v := range t.Row(i) {
			record[j+1] = formatCSV(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCSV(v float64) string {
	if math.IsNaN(v) {
		return "NA"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

type tableColumn struct {
	Name   string          `json:"name"`
	Values robject.Doubles `json:"values"`
}

type tableJSON struct {
	Index     robject.Doubles `json:"index,omitempty"`
	Frequency float64         `json:"frequency,omitempty"`
	Columns   []tableColumn   `json:"columns"`
}

// MarshalJSON encodes the table keeping column order. Missing values are encoded as null.
func (t *Table) MarshalJSON() ([]byte, error) {
	out := tableJSON{
		Index:     t.Index,
		Frequency: t.Frequency,
		Columns:   make([]tableColumn, 0, len(t.names)),
	}
	for _, name := range t.names {
		out.Columns = append(out.Columns, tableColumn{Name: name, Values: t.columns[name]})
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a table written by MarshalJSON.
func (t *Table) UnmarshalJSON(b []byte) error {
	var in tableJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	decoded := NewTable(in.Index, in.Frequency)
	for _, col := range in.Columns {
		if err := decoded.AddColumn(col.Name, col.Values); err != nil {
			return err
		}
	}
	*t = *decoded
	return nil
}
