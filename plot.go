package rforecast

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// missing is the echarts marker for an absent data point.
const missing = "-"

const (
	colorData     = "black"
	colorForecast = "blue"
	colorBand     = "grey"
	colorTest     = "green"
	colorHidden   = "transparent"

	// DefaultLegend places the legend away from series that trend up and to the right.
	DefaultLegend = "upper left"
)

var ErrNoPointForecast = errors.New("forecast table has no point forecast column")

// PlotOpts configures chart titles and the legend location. Legend accepts locations such as
// "upper left", "lower right" or "center".
type PlotOpts struct {
	Title  string
	Legend string
}

func (o *PlotOpts) title(def string) string {
	if o == nil || o.Title == "" {
		return def
	}
	return o.Title
}

func (o *PlotOpts) legend() string {
	if o == nil || o.Legend == "" {
		return DefaultLegend
	}
	return o.Legend
}

// PlotTS renders a line chart of the series as an html page.
func PlotTS(w io.Writer, x *Series, opt *PlotOpts) error {
	if x == nil {
		return ErrNoSeries
	}
	page := components.NewPage()
	page.AddCharts(
		LineTSeries(opt.title("Time Series"), []string{"data"}, x.Labels(), [][]float64{x.Values()}),
	)
	return page.Render(w)
}

// PlotDecomposition renders one chart per column of a decomposition table, stacked on a page.
func PlotDecomposition(w io.Writer, decomp *Table, opt *PlotOpts) error {
	labels := decomp.Labels()
	title := opt.title("Decomposition")

	page := components.NewPage()
	for _, name := range decomp.Columns() {
		col, err := decomp.Column(name)
		if err != nil {
			return err
		}
		page.AddCharts(LineTSeries(title+": "+name, []string{name}, labels, [][]float64{col}))
	}
	return page.Render(w)
}

// PlotForecast renders the history, the point forecast and a shaded band per prediction
// interval, narrowest band darkest. A test segment, when given, is overlaid on the forecast
// period and truncated to the shorter of the horizon and the test length.
func PlotForecast(w io.Writer, fc *Table, data *Series, test []float64, opt *PlotOpts) error {
	line, err := LineForecast(opt.title("Forecast"), fc, data, test, opt.legend())
	if err != nil {
		return err
	}
	page := components.NewPage()
	page.AddCharts(line)
	return page.Render(w)
}

// LineTSeries generates an echart multi-line chart over a shared axis. Each entry of y must
// have the same length as labels and missing values are left as gaps.
func LineTSeries(title string, seriesName []string, labels []string, y [][]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	line = line.SetXAxis(labels)
	for i, series := range seriesName {
		line = line.AddSeries(series, lineData(y[i], 0))
	}
	return line
}

// forecastLayout is the series data of a forecast chart aligned on a shared axis made of the
// history followed by the forecast period. Every value is drawn shifted up by offset so that
// the stacked lower and width series of a band are never of opposite sign, which echarts
// would otherwise stack from zero.
type forecastLayout struct {
	labels   []string
	offset   float64
	data     []opts.LineData
	forecast []opts.LineData
	bands    []forecastBand
	test     []opts.LineData
}

// forecastBand is drawn as an invisible lower series with the band width stacked on top.
type forecastBand struct {
	level   string
	lower   []opts.LineData
	width   []opts.LineData
	opacity float64
}

func newForecastLayout(fc *Table, data *Series, test []float64) (*forecastLayout, error) {
	if data == nil {
		return nil, ErrNoSeries
	}
	cols := fc.Columns()
	if len(cols) == 0 || cols[0] != ColPointForecast {
		return nil, ErrNoPointForecast
	}
	n, h := data.Len(), fc.Rows()

	point, err := fc.Column(cols[0])
	if err != nil {
		return nil, err
	}

	lowerNames, upperNames := everyOther(cols[1:], 0), everyOther(cols[1:], 1)
	k := min(len(lowerNames), len(upperNames))
	lowers, uppers := make([][]float64, k), make([][]float64, k)
	for i := 0; i < k; i++ {
		if lowers[i], err = fc.Column(lowerNames[i]); err != nil {
			return nil, err
		}
		if uppers[i], err = fc.Column(upperNames[i]); err != nil {
			return nil, err
		}
	}

	l := &forecastLayout{
		labels: append(data.Labels(), forecastLabels(fc, data)...),
		offset: stackOffset(lowers),
	}
	l.data = lineData(data.Values(), l.offset)
	l.forecast = append(padding(n), lineData(point, l.offset)...)

	for i := range lowers {
		width := make([]float64, h)
		for j := range width {
			width[j] = uppers[i][j] - lowers[i][j]
		}
		l.bands = append(l.bands, forecastBand{
			level:   strings.TrimPrefix(lowerNames[i], ColLowerPrefix),
			lower:   append(padding(n), lineData(lowers[i], l.offset)...),
			width:   append(padding(n), lineData(width, 0)...),
			opacity: 0.5 / float64(i+1),
		})
	}

	if test != nil {
		m := min(h, len(test))
		l.test = append(padding(n), lineData(test[:m], l.offset)...)
	}
	return l, nil
}

// stackOffset lifts the lowest band bound to zero when it is negative.
func stackOffset(lowers [][]float64) float64 {
	lowest := math.Inf(1)
	for _, lo := range lowers {
		for _, v := range lo {
			if !math.IsNaN(v) {
				lowest = math.Min(lowest, v)
			}
		}
	}
	if math.IsInf(lowest, 1) || lowest >= 0 {
		return 0
	}
	return -lowest
}

// forecastLabels continues the series labels over the forecast period, preferring the time
// index reported with the forecast.
func forecastLabels(fc *Table, data *Series) []string {
	if len(fc.Index) == fc.Rows() && fc.Rows() > 0 {
		return fc.Labels()
	}
	labels := make([]string, fc.Rows())
	for i := range labels {
		labels[i] = data.Label(data.Len() + i)
	}
	return labels
}

// LineForecast generates the forecast chart drawn by PlotForecast.
func LineForecast(title string, fc *Table, data *Series, test []float64, legend string) (*charts.Line, error) {
	l, err := newForecastLayout(fc, data, test)
	if err != nil {
		return nil, fmt.Errorf("unable to lay out forecast chart, %w", err)
	}

	legendNames := []string{"data", "forecast"}
	if l.test != nil {
		legendNames = append(legendNames, "test")
	}
	top, left := legendPosition(legend)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "axis",
			Formatter: opts.FuncOpts(tooltipFormatter(l.offset)),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			AxisLabel: &opts.AxisLabel{Formatter: opts.FuncOpts(axisFormatter(l.offset))},
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: top, Left: left, Data: legendNames}),
	)
	line.SetXAxis(l.labels).
		AddSeries("data", l.data,
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorData}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colorData}),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		).
		AddSeries("forecast", l.forecast,
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorForecast}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colorForecast}),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		)

	for k, band := range l.bands {
		stack := fmt.Sprintf("band%d", k+1)
		line.AddSeries(ColLowerPrefix+band.level, band.lower,
			charts.WithLineChartOpts(opts.LineChart{Stack: stack, ShowSymbol: opts.Bool(false)}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorHidden}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colorHidden}),
		)
		line.AddSeries(ColUpperPrefix+band.level, band.width,
			charts.WithLineChartOpts(opts.LineChart{Stack: stack, ShowSymbol: opts.Bool(false)}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorHidden}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colorHidden}),
			charts.WithAreaStyleOpts(opts.AreaStyle{Color: colorBand, Opacity: float32(band.opacity)}),
		)
	}

	if l.test != nil {
		line.AddSeries("test", l.test,
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorTest}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colorTest}),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		)
	}
	return line, nil
}

// legendPosition maps locations like "upper left" onto echarts top and left offsets.
func legendPosition(loc string) (top, left string) {
	top, left = "top", "left"
	parts := strings.Fields(strings.ToLower(loc))
	if len(parts) == 1 {
		switch parts[0] {
		case "center":
			return "middle", "center"
		case "right":
			return "middle", "right"
		case "best":
			return top, left
		}
	}
	for _, p := range parts {
		switch p {
		case "upper":
			top = "top"
		case "lower":
			top = "bottom"
		case "left":
			left = "left"
		case "right":
			left = "right"
		case "center":
			if len(parts) == 2 && p == parts[0] {
				top = "middle"
			} else {
				left = "center"
			}
		}
	}
	return top, left
}

// axisFormatter labels the value axis with unshifted values.
func axisFormatter(offset float64) string {
	return fmt.Sprintf(`function (v) { return +(v - %s).toFixed(6); }`, formatJS(offset))
}

// tooltipFormatter lists unshifted values. A band's upper bound is recovered from the width
// stacked on its lower series, which always precedes it.
func tooltipFormatter(offset float64) string {
	return fmt.Sprintf(`function (params) {
	var off = %s, lower = {}, out = params[0].axisValueLabel;
	params.forEach(function (p) {
		var v = Number(p.value);
		if (isNaN(v)) { return; }
		if (p.seriesName.indexOf('%s') === 0) {
			v -= off;
			lower[p.seriesName.slice(%d)] = v;
		} else if (p.seriesName.indexOf('%s') === 0) {
			v += lower[p.seriesName.slice(%d)];
		} else {
			v -= off;
		}
		out += '<br/>' + p.marker + p.seriesName + ': ' + v.toFixed(3);
	});
	return out;
}`, formatJS(offset), ColLowerPrefix, len(ColLowerPrefix), ColUpperPrefix, len(ColUpperPrefix))
}

func formatJS(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// lineData converts y to chart points shifted by offset, leaving gaps for missing values.
func lineData(y []float64, offset float64) []opts.LineData {
	data := make([]opts.LineData, len(y))
	for i, v := range y {
		if math.IsNaN(v) {
			data[i] = opts.LineData{Value: missing}
			continue
		}
		data[i] = opts.LineData{Value: v + offset}
	}
	return data
}

func padding(n int) []opts.LineData {
	data := make([]opts.LineData, n)
	for i := range data {
		data[i] = opts.LineData{Value: missing}
	}
	return data
}

func everyOther(s []string, offset int) []string {
	var out []string
	for i := offset; i < len(s); i += 2 {
		out = append(out, s[i])
	}
	return out
}
