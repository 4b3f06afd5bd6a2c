package rforecast

import (
	"errors"
	"fmt"
	"math"
)

var ErrResLenMismatch = errors.New("predicted and actual have different lengths")

// Scores measures a point forecast against held out observations.
type Scores struct {
	MSE  float64 `json:"mse"`  // mean squared error
	MAPE float64 `json:"mape"` // mean absolute percent error
}

// NewScores computes all scores for equal length predicted and actual values.
func NewScores(predicted, actual []float64) (*Scores, error) {
	mse, err := MSE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean squared error, %w", err)
	}
	mape, err := MAPE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean absolute percent error, %w", err)
	}
	return &Scores{
		MSE:  mse,
		MAPE: mape,
	}, nil
}

// Accuracy scores the point forecast column of a prediction interval table against a test
// segment. Only the overlapping prefix of the two is scored.
func Accuracy(fc *Table, test []float64) (*Scores, error) {
	point, err := fc.Column(ColPointForecast)
	if err != nil {
		return nil, err
	}
	n := min(len(point), len(test))
	return NewScores(point[:n], test[:n])
}

// MSE skips pairs where either value is missing.
func MSE(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, ErrResLenMismatch
	}

	var mse float64
	var n int
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		mse += math.Pow(actual[i]-predicted[i], 2.0)
		n++
	}
	if n == 0 {
		return math.NaN(), nil
	}
	return mse / float64(n), nil
}

// MAPE skips pairs where either value is missing or the actual value is zero.
func MAPE(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, ErrResLenMismatch
	}

	var mape float64
	var n int
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) || actual[i] == 0 {
			continue
		}
		mape += math.Abs((actual[i] - predicted[i]) / actual[i])
		n++
	}
	if n == 0 {
		return math.NaN(), nil
	}
	return mape / float64(n), nil
}
