package rforecast

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecomposePrograms(t *testing.T) {
	x := TS([]float64{1, 2, 3, 4}, StartAt(2000), 4)
	xExpr := "x <- stats::ts(c(1, 2, 3, 4), start = 2000, frequency = 4)\n"

	testData := map[string]struct {
		run      func(c *Client) (*Decomposed, error)
		expected string
	}{
		"stl default": {
			run: func(c *Client) (*Decomposed, error) {
				return c.STL(context.Background(), x, nil)
			},
			expected: xExpr + `.rf_result <- stats::stl(x, s.window = "periodic", robust = FALSE)` + "\n",
		},
		"stl numeric window": {
			run: func(c *Client) (*Decomposed, error) {
				return c.STL(context.Background(), x, &STLOptions{SWindow: "13", Robust: true})
			},
			expected: xExpr + ".rf_result <- stats::stl(x, s.window = 13, robust = TRUE)\n",
		},
		"classical default": {
			run: func(c *Client) (*Decomposed, error) {
				return c.Decompose(context.Background(), x, nil)
			},
			expected: xExpr + `.rf_result <- stats::decompose(x, type = "additive")` + "\n",
		},
		"classical multiplicative": {
			run: func(c *Client) (*Decomposed, error) {
				return c.Decompose(context.Background(), x, &DecomposeOptions{Type: DecomposeMultiplicative})
			},
			expected: xExpr + `.rf_result <- stats::decompose(x, type = "multiplicative")` + "\n",
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			c, eng := newFakeClient(t, stlObject([]float64{1}, []float64{2}, []float64{3}, 2000, 4))
			d, err := td.run(c)
			require.Nil(t, err)
			assert.Equal(t, ClassSTL, d.Kind())
			assert.Equal(t, td.expected, eng.last().String())
		})
	}
}

func TestDecomposeNoSeries(t *testing.T) {
	c, _ := newFakeClient(t, nil)
	_, err := c.STL(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrNoSeries)

	_, err = c.Decompose(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrNoSeries)
}
