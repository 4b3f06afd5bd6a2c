package rforecast

import (
	"gonum.org/v1/gonum/mat"
)

// DefaultHorizon is the forecast horizon of non-seasonal methods when none is given.
const DefaultHorizon = 10

// Options passed as nil use the NewDefault...Options values. Non-nil options are passed to R
// verbatim, except that an H of zero or less selects the method's default horizon. Pointer
// fields left nil are passed as NULL so that R estimates or chooses the value.

// MeanfOptions configures a mean forecast.
type MeanfOptions struct {
	H      int      `json:"h" yaml:"h"`
	Lambda *float64 `json:"lambda" yaml:"lambda"`
}

// NewDefaultMeanfOptions forecasts 10 steps without a Box-Cox transformation.
func NewDefaultMeanfOptions() *MeanfOptions {
	return &MeanfOptions{H: DefaultHorizon}
}

// NaiveOptions configures naive and seasonal naive forecasts.
type NaiveOptions struct {
	H      int      `json:"h" yaml:"h"`
	Lambda *float64 `json:"lambda" yaml:"lambda"`
}

// NewDefaultNaiveOptions leaves the horizon to the method default.
func NewDefaultNaiveOptions() *NaiveOptions {
	return &NaiveOptions{}
}

// RwfOptions configures a random walk forecast.
type RwfOptions struct {
	H      int      `json:"h" yaml:"h"`
	Drift  bool     `json:"drift" yaml:"drift"`
	Lambda *float64 `json:"lambda" yaml:"lambda"`
}

// NewDefaultRwfOptions forecasts 10 steps of a random walk without drift.
func NewDefaultRwfOptions() *RwfOptions {
	return &RwfOptions{H: DefaultHorizon}
}

// ThetafOptions configures a theta forecast.
type ThetafOptions struct {
	H int `json:"h" yaml:"h"`
}

// NewDefaultThetafOptions forecasts 10 steps.
func NewDefaultThetafOptions() *ThetafOptions {
	return &ThetafOptions{H: DefaultHorizon}
}

// Information criteria and optimization criteria understood by ets and auto.arima.
const (
	ICAICc = "aicc"
	ICAIC  = "aic"
	ICBIC  = "bic"

	OptCritLik   = "lik"
	OptCritMSE   = "mse"
	OptCritAMSE  = "amse"
	OptCritSigma = "sigma"
	OptCritMAE   = "mae"
)

// ETSOptions configures automatic exponential smoothing. Model is a three letter code for the
// error, trend and seasonal components where A is additive, M multiplicative, N none and Z
// automatically selected.
type ETSOptions struct {
	H int `json:"h" yaml:"h"`

	Model  string   `json:"model" yaml:"model"`
	Damped *bool    `json:"damped" yaml:"damped"`
	Alpha  *float64 `json:"alpha" yaml:"alpha"`
	Beta   *float64 `json:"beta" yaml:"beta"`
	Gamma  *float64 `json:"gamma" yaml:"gamma"`
	Phi    *float64 `json:"phi" yaml:"phi"`

	AdditiveOnly             bool     `json:"additive_only" yaml:"additive_only"`
	Lambda                   *float64 `json:"lambda" yaml:"lambda"`
	OptCrit                  string   `json:"opt_crit" yaml:"opt_crit"`
	NMSE                     int      `json:"nmse" yaml:"nmse"`
	IC                       string   `json:"ic" yaml:"ic"`
	AllowMultiplicativeTrend bool     `json:"allow_multiplicative_trend" yaml:"allow_multiplicative_trend"`
}

// NewDefaultETSOptions selects the model automatically by AICc using the likelihood.
func NewDefaultETSOptions() *ETSOptions {
	return &ETSOptions{
		Model:   "ZZZ",
		OptCrit: OptCritLik,
		NMSE:    3,
		IC:      ICAICc,
	}
}

// Unit root tests used by auto.arima to choose the differencing orders.
const (
	TestKPSS = "kpss"
	TestADF  = "adf"
	TestPP   = "pp"

	SeasonalTestOCSB = "ocsb"
	SeasonalTestCH   = "ch"
)

// AutoArimaOptions configures automatic ARIMA order selection. D and SeasonalD left nil are
// passed as NA so that they are chosen by Test and SeasonalTest. Xreg holds one row per
// observation of the series and NewXreg one row per forecast step.
type AutoArimaOptions struct {
	H int `json:"h" yaml:"h"`

	D         *int `json:"d" yaml:"d"`
	SeasonalD *int `json:"seasonal_d" yaml:"seasonal_d"`

	MaxP         int `json:"max_p" yaml:"max_p"`
	MaxQ         int `json:"max_q" yaml:"max_q"`
	MaxSeasonalP int `json:"max_seasonal_p" yaml:"max_seasonal_p"`
	MaxSeasonalQ int `json:"max_seasonal_q" yaml:"max_seasonal_q"`
	MaxOrder     int `json:"max_order" yaml:"max_order"`
	MaxD         int `json:"max_d" yaml:"max_d"`
	MaxSeasonalD int `json:"max_seasonal_d" yaml:"max_seasonal_d"`

	StartP         int `json:"start_p" yaml:"start_p"`
	StartQ         int `json:"start_q" yaml:"start_q"`
	StartSeasonalP int `json:"start_seasonal_p" yaml:"start_seasonal_p"`
	StartSeasonalQ int `json:"start_seasonal_q" yaml:"start_seasonal_q"`

	Stationary   bool     `json:"stationary" yaml:"stationary"`
	Seasonal     bool     `json:"seasonal" yaml:"seasonal"`
	IC           string   `json:"ic" yaml:"ic"`
	Test         string   `json:"test" yaml:"test"`
	SeasonalTest string   `json:"seasonal_test" yaml:"seasonal_test"`
	Lambda       *float64 `json:"lambda" yaml:"lambda"`

	Xreg    mat.Matrix `json:"-" yaml:"-"`
	NewXreg mat.Matrix `json:"-" yaml:"-"`
}

// NewDefaultAutoArimaOptions mirrors the defaults of auto.arima.
func NewDefaultAutoArimaOptions() *AutoArimaOptions {
	return &AutoArimaOptions{
		MaxP:           5,
		MaxQ:           5,
		MaxSeasonalP:   2,
		MaxSeasonalQ:   2,
		MaxOrder:       5,
		MaxD:           2,
		MaxSeasonalD:   1,
		StartP:         2,
		StartQ:         2,
		StartSeasonalP: 1,
		StartSeasonalQ: 1,
		Seasonal:       true,
		IC:             ICAICc,
		Test:           TestKPSS,
		SeasonalTest:   SeasonalTestOCSB,
	}
}

// STLOptions configures a seasonal and trend decomposition using loess. SWindow is either
// "periodic" or an odd number of lags given as a string, e.g. "13".
type STLOptions struct {
	SWindow string `json:"s_window" yaml:"s_window"`
	Robust  bool   `json:"robust" yaml:"robust"`
}

// NewDefaultSTLOptions uses a periodic seasonal window.
func NewDefaultSTLOptions() *STLOptions {
	return &STLOptions{SWindow: "periodic"}
}

// Classical decomposition types.
const (
	DecomposeAdditive       = "additive"
	DecomposeMultiplicative = "multiplicative"
)

// DecomposeOptions configures a classical decomposition by moving averages.
type DecomposeOptions struct {
	Type string `json:"type" yaml:"type"`
}

// NewDefaultDecomposeOptions uses an additive decomposition.
func NewDefaultDecomposeOptions() *DecomposeOptions {
	return &DecomposeOptions{Type: DecomposeAdditive}
}

// Ptr returns a pointer to v, for setting optional fields.
func Ptr[T any](v T) *T {
	return &v
}
