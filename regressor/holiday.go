// Package regressor builds external regressor matrices for ARIMA models, such as holiday
// indicators for daily series.
package regressor

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrNoTimes    = errors.New("no time points")
	ErrNoHolidays = errors.New("no holidays")
	ErrBadStep    = errors.New("step must be positive")
)

// USHolidays returns the federal holidays most likely to move daily activity.
func USHolidays() []*cal.Holiday {
	return []*cal.Holiday{
		us.NewYear,
		us.MemorialDay,
		us.IndependenceDay,
		us.LaborDay,
		us.ThanksgivingDay,
		us.ChristmasDay,
	}
}

// Holidays returns one indicator column per holiday, 1 on rows whose calendar date is the
// observed date of the holiday and 0 otherwise, along with the column names. Dates are
// compared in the location of each time point.
func Holidays(t []time.Time, holidays ...*cal.Holiday) (*mat.Dense, []string, error) {
	if len(t) == 0 {
		return nil, nil, ErrNoTimes
	}
	if len(holidays) == 0 {
		return nil, nil, ErrNoHolidays
	}

	m := mat.NewDense(len(t), len(holidays), nil)
	names := make([]string, len(holidays))
	for j, hol := range holidays {
		names[j] = Name(hol)
		observed := observedDates(hol, t[0].Year()-1, t[len(t)-1].Year()+1)
		for i, ti := range t {
			y, mo, d := ti.Date()
			if _, exists := observed[date{y, mo, d}]; exists {
				m.Set(i, j, 1)
			}
		}
	}
	return m, names, nil
}

// Name is the regressor column name of a holiday.
func Name(hol *cal.Holiday) string {
	return strings.ReplaceAll(strings.ToLower(hol.Name), " ", "_")
}

// Future returns h time points following last at the given step, for building the regressor
// rows of a forecast period.
func Future(last time.Time, step time.Duration, h int) ([]time.Time, error) {
	if step <= 0 {
		return nil, ErrBadStep
	}
	t := make([]time.Time, h)
	for i := range t {
		t[i] = last.Add(time.Duration(i+1) * step)
	}
	return t, nil
}

// ColumnNames labels the columns of a regressor matrix for display, falling back to xreg1,
// xreg2 and so on when names are missing.
func ColumnNames(m mat.Matrix, names []string) []string {
	_, c := m.Dims()
	out := make([]string, c)
	for j := range out {
		if j < len(names) && names[j] != "" {
			out[j] = names[j]
			continue
		}
		out[j] = "xreg" + strconv.Itoa(j+1)
	}
	return out
}

type date struct {
	year  int
	month time.Month
	day   int
}

func observedDates(hol *cal.Holiday, from, to int) map[date]struct{} {
	dates := make(map[date]struct{})
	for year := from; year <= to; year++ {
		_, observed := hol.Calc(year)
		if observed.IsZero() {
			continue
		}
		y, m, d := observed.Date()
		dates[date{y, m, d}] = struct{}{}
	}
	return dates
}
