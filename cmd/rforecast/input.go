package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	rforecast "github.com/aouyang1/go-rforecast"
)

var (
	ErrNoRows        = errors.New("input has no rows")
	ErrUnknownColumn = errors.New("column not found in input header")
	ErrInvalidStart  = errors.New("start must be a number or a period,step pair")
)

// input is a value column read from CSV, with the matching dates when a time column is named.
type input struct {
	values []float64
	times  []time.Time
}

// readInput reads a CSV with a header row. An empty column selects the last column. Empty,
// NA and NaN cells are read as missing values. Time cells use the 2006-01-02 layout.
func readInput(r io.Reader, column, timeColumn string) (*input, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unable to read csv, %w", err)
	}
	if len(records) < 2 {
		return nil, ErrNoRows
	}

	header := records[0]
	col := len(header) - 1
	if column != "" {
		if col, err = columnIndex(header, column); err != nil {
			return nil, err
		}
	}
	tcol := -1
	if timeColumn != "" {
		if tcol, err = columnIndex(header, timeColumn); err != nil {
			return nil, err
		}
	}

	in := &input{values: make([]float64, 0, len(records)-1)}
	for i, rec := range records[1:] {
		v, err := parseValue(rec[col])
		if err != nil {
			return nil, fmt.Errorf("row %d, %w", i+2, err)
		}
		in.values = append(in.values, v)

		if tcol < 0 {
			continue
		}
		t, err := time.Parse(time.DateOnly, strings.TrimSpace(rec[tcol]))
		if err != nil {
			return nil, fmt.Errorf("row %d, %w", i+2, err)
		}
		in.times = append(in.times, t)
	}
	return in, nil
}

func columnIndex(header []string, name string) (int, error) {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%s, %w", name, ErrUnknownColumn)
}

func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "NA", "NaN":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// parseStart reads "2010" as a single time value and "2010,3" as a (period, step) pair.
func parseStart(s string) (rforecast.Start, error) {
	if s == "" {
		return rforecast.Start{}, nil
	}
	parts := strings.Split(s, ",")
	nums := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return rforecast.Start{}, fmt.Errorf("%s, %w", s, ErrInvalidStart)
		}
		nums[i] = v
	}
	switch len(nums) {
	case 1:
		return rforecast.StartAt(nums[0]), nil
	case 2:
		return rforecast.StartPeriod(nums[0], nums[1]), nil
	}
	return rforecast.Start{}, fmt.Errorf("%s, %w", s, ErrInvalidStart)
}
