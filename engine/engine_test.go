package engine

import (
	"math"
	"strings"
	"testing"

	"github.com/aouyang1/go-rforecast/rcall"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const okOutput = `Registered S3 method overwritten by 'quantmod'
@@RFORECAST@@
{"ok":true,"result":{"class":["forecast"],"type":"list","fields":{"mean":{"class":["ts"],"type":"double","values":[1,2,null],"tsp":[11,13,1]}}}}
`

func TestScript(t *testing.T) {
	p := rcall.NewProgram(rcall.NewCall("forecast::meanf", rcall.Pos(rcall.Symbol("x")), rcall.Pos(rcall.Int(10)))).
		Let("x", rcall.NewCall("ts", rcall.Pos(rcall.Nums{1, 2, 3})))

	script := Script(p, nil)
	assert.True(t, strings.HasPrefix(script, "suppressPackageStartupMessages"))
	assert.Contains(t, script, "library(forecast)")
	assert.Contains(t, script, "x <- ts(c(1, 2, 3))\n.rf_result <- forecast::meanf(x, 10)\n.rf_ok(.rf_result)\n}, error = .rf_fail))")
	assert.NotContains(t, script, ".libPaths(c(")

	script = Script(p, []string{"/opt/R/library"})
	assert.True(t, strings.HasPrefix(script, `.libPaths(c(c("/opt/R/library"), .libPaths()))`))
}

func TestParseOutput(t *testing.T) {
	testData := map[string]struct {
		out     string
		err     error
		rErrMsg string
	}{
		"ok with noise": {
			out: okOutput,
		},
		"envelope only": {
			out: `{"ok":true,"result":{"class":["numeric"],"type":"double","values":[1]}}`,
		},
		"empty": {
			out: "",
			err: ErrEmptyOutput,
		},
		"marker without payload": {
			out: "@@RFORECAST@@\n",
			err: ErrEmptyOutput,
		},
		"no envelope": {
			out: "Error in library(forecast) : there is no package called 'forecast'",
			err: ErrEmptyOutput,
		},
		"bad json": {
			out: "@@RFORECAST@@\n{\"ok\":tru",
			err: ErrMalformedResult,
		},
		"ok without result": {
			out: "@@RFORECAST@@\n{\"ok\":true}",
			err: ErrMalformedResult,
		},
		"r condition": {
			out:     "@@RFORECAST@@\n{\"ok\":false,\"error\":\"non-numeric argument to mathematical function\"}",
			rErrMsg: "non-numeric argument to mathematical function",
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			obj, err := ParseOutput([]byte(td.out))
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			if td.rErrMsg != "" {
				var rErr *RError
				require.ErrorAs(t, err, &rErr)
				assert.Equal(t, td.rErrMsg, rErr.Message)
				return
			}
			require.Nil(t, err)
			require.NotNil(t, obj)
		})
	}
}

func TestParseOutputValues(t *testing.T) {
	obj, err := ParseOutput([]byte(okOutput))
	require.Nil(t, err)
	assert.True(t, obj.Is("forecast"))

	mean, err := obj.Field("mean")
	require.Nil(t, err)
	require.Len(t, mean.Values, 3)
	assert.Equal(t, 1.0, mean.Values[0])
	assert.True(t, math.IsNaN(mean.Values[2]))
}

func TestRErrorMessage(t *testing.T) {
	testData := map[string]struct {
		err      *RError
		expected string
	}{
		"condition": {
			err:      &RError{Message: "boom"},
			expected: "r error: boom",
		},
		"exit code uses last stderr line": {
			err:      &RError{Stderr: "Loading\nError: could not find function \"ets\"\n", ExitCode: 1},
			expected: "r exited with code 1: Error: could not find function \"ets\"",
		},
		"http status": {
			err:      &RError{Message: "bad gateway", StatusCode: 502},
			expected: "r evaluation failed with status 502: bad gateway",
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, td.err.Error())
		})
	}
}
