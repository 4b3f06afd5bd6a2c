package rforecast

import (
	"fmt"
	"math"
	"strconv"

	"github.com/aouyang1/go-rforecast/rcall"
)

// Start is the index of the first observation of a series, either a single time value or a
// (period, step) pair such as (2010, 3) for March 2010 in a monthly series. The zero value
// is R's default start of 1.
type Start struct {
	Period float64
	Step   float64

	pair bool
	set  bool
}

// StartAt starts a series at a single time value.
func StartAt(t float64) Start {
	return Start{Period: t, set: true}
}

// StartPeriod starts a series at the step-th observation of period.
func StartPeriod(period, step float64) Start {
	return Start{Period: period, Step: step, pair: true, set: true}
}

// IsPair reports whether the start was given as a (period, step) pair.
func (s Start) IsPair() bool {
	return s.pair
}

func (s Start) value() rcall.Value {
	switch {
	case !s.set:
		return rcall.Num(1)
	case s.pair:
		return rcall.Nums{s.Period, s.Step}
	}
	return rcall.Num(s.Period)
}

// Time converts the start to a single time value for the given frequency, the same way R
// does for ts objects.
func (s Start) Time(frequency float64) float64 {
	switch {
	case !s.set:
		return 1
	case s.pair:
		return s.Period + (s.Step-1)/indexFrequency(frequency)
	}
	return s.Period
}

// Series is a regularly sampled time series handle. It is immutable after creation and is
// passed to R as a ts object on every call that uses it.
type Series struct {
	values    []float64
	start     Start
	frequency float64
}

// TS creates a series from data. Frequency is the number of observations per period, e.g.
// 12 for monthly data with an annual period, and 0 means R's default of 1. No further
// validation happens here: malformed input is rejected by R when the series is used.
func TS(data []float64, start Start, frequency float64) *Series {
	values := make([]float64, len(data))
	copy(values, data)
	if frequency == 0 {
		frequency = 1
	}
	return &Series{
		values:    values,
		start:     start,
		frequency: frequency,
	}
}

// Len returns the number of observations.
func (s *Series) Len() int {
	return len(s.values)
}

// Values returns a copy of the observations.
func (s *Series) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// Frequency returns the number of observations per period.
func (s *Series) Frequency() float64 {
	return s.frequency
}

// Start returns the start index of the series.
func (s *Series) Start() Start {
	return s.start
}

// Time returns the time value of the i-th observation, start + i/frequency.
func (s *Series) Time(i int) float64 {
	return s.start.Time(s.frequency) + float64(i)/indexFrequency(s.frequency)
}

// Times returns the time values of all observations.
func (s *Series) Times() []float64 {
	t := make([]float64, len(s.values))
	for i := range t {
		t[i] = s.Time(i)
	}
	return t
}

// End returns the time value of the last observation.
func (s *Series) End() float64 {
	return s.Time(len(s.values) - 1)
}

// Label returns a readable index for the i-th observation.
func (s *Series) Label(i int) string {
	return TimeLabel(s.Time(i), s.frequency)
}

// Labels returns readable indexes for every observation.
func (s *Series) Labels() []string {
	labels := make([]string, len(s.values))
	for i := range labels {
		labels[i] = s.Label(i)
	}
	return labels
}

// Expr returns the R expression constructing the series.
func (s *Series) Expr() *rcall.Call {
	return rcall.NewCall("stats::ts",
		rcall.Pos(rcall.Nums(s.values)),
		rcall.Named("start", s.start.value()),
		rcall.Named("frequency", rcall.Num(s.frequency)),
	)
}

// TimeLabel formats a ts time value: 2010-03 for monthly data, 2010 Q1 for quarterly,
// period:step for other seasonal frequencies and the plain value otherwise.
func TimeLabel(t, frequency float64) string {
	if frequency <= 1 {
		return strconv.FormatFloat(roundIndex(t), 'f', -1, 64)
	}
	period := math.Floor(t + 1e-8)
	step := int(math.Round((t-period)*frequency)) + 1
	if float64(step) > math.Ceil(frequency) {
		period++
		step = 1
	}
	switch frequency {
	case 12:
		return fmt.Sprintf("%d-%02d", int(period), step)
	case 4:
		return fmt.Sprintf("%d Q%d", int(period), step)
	}
	return fmt.Sprintf("%d:%d", int(period), step)
}

func indexFrequency(frequency float64) float64 {
	if frequency <= 0 {
		return 1
	}
	return frequency
}

// roundIndex trims accumulated float error from start + i/frequency.
func roundIndex(t float64) float64 {
	return math.Round(t*1e8) / 1e8
}
