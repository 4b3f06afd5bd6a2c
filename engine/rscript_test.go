package engine

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/aouyang1/go-rforecast/rcall"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRscript writes a shell script standing in for Rscript that prints body to stdout,
// errBody to stderr and exits with code.
func fakeRscript(t *testing.T, body, errBody string, code int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	errOut := filepath.Join(dir, "err.txt")
	require.Nil(t, os.WriteFile(out, []byte(body), 0o644))
	require.Nil(t, os.WriteFile(errOut, []byte(errBody), 0o644))

	path := filepath.Join(dir, "Rscript")
	script := "#!/bin/sh\ncat '" + out + "'\ncat '" + errOut + "' >&2\nexit " + string(rune('0'+code)) + "\n"
	require.Nil(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func meanfProgram() *rcall.Program {
	return rcall.NewProgram(rcall.NewCall("forecast::meanf", rcall.Pos(rcall.Symbol("x")))).
		Let("x", rcall.NewCall("ts", rcall.Pos(rcall.Nums{1, 2, 3})))
}

func TestRscriptEval(t *testing.T) {
	testData := map[string]struct {
		stdout   string
		stderr   string
		code     int
		exitCode int
		rErrMsg  string
		err      error
	}{
		"success": {
			stdout: okOutput,
		},
		"r condition": {
			stdout:  "@@RFORECAST@@\n{\"ok\":false,\"error\":\"invalid model\"}\n",
			stderr:  "Warning message\n",
			code:    0,
			rErrMsg: "invalid model",
		},
		"interpreter crash": {
			stderr:   "Error in library(forecast) : there is no package called 'forecast'\nExecution halted\n",
			code:     1,
			exitCode: 1,
		},
		"exit zero without envelope": {
			stdout: "nothing useful",
			err:    ErrEmptyOutput,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			path := fakeRscript(t, td.stdout, td.stderr, td.code)
			eng := NewRscript(RscriptConfig{Path: path, Timeout: 10 * time.Second})

			obj, err := eng.Eval(context.Background(), meanfProgram())
			switch {
			case td.err != nil:
				assert.ErrorIs(t, err, td.err)
			case td.rErrMsg != "":
				var rErr *RError
				require.ErrorAs(t, err, &rErr)
				assert.Equal(t, td.rErrMsg, rErr.Message)
				assert.Equal(t, td.stderr, rErr.Stderr)
			case td.exitCode != 0:
				var rErr *RError
				require.ErrorAs(t, err, &rErr)
				assert.Equal(t, td.exitCode, rErr.ExitCode)
				assert.Contains(t, rErr.Error(), "Execution halted")
			default:
				require.Nil(t, err)
				assert.True(t, obj.Is("forecast"))
			}
		})
	}
}

func TestRscriptMissingBinary(t *testing.T) {
	eng := NewRscript(RscriptConfig{Path: filepath.Join(t.TempDir(), "no-such-rscript")})
	_, err := eng.Eval(context.Background(), meanfProgram())
	assert.NotNil(t, err)
}

func TestRscriptCanceled(t *testing.T) {
	path := fakeRscript(t, okOutput, "", 0)
	eng := NewRscript(RscriptConfig{Path: path})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := eng.Eval(ctx, meanfProgram())
	assert.ErrorIs(t, err, context.Canceled)
}

// TestRscriptIntegration evaluates a real meanf call. It needs Rscript with the forecast and
// jsonlite packages installed and is opt-in through RFORECAST_INTEGRATION.
func TestRscriptIntegration(t *testing.T) {
	if os.Getenv("RFORECAST_INTEGRATION") == "" {
		t.Skip("set RFORECAST_INTEGRATION to run against a local R installation")
	}
	if _, err := exec.LookPath(DefaultRscriptPath); err != nil {
		t.Skip("Rscript is not available")
	}

	p := rcall.NewProgram(rcall.NewCall("forecast::meanf",
		rcall.Pos(rcall.Symbol("x")),
		rcall.Pos(rcall.Int(5)),
		rcall.Named("lambda", rcall.Null),
	)).Let("x", rcall.NewCall("ts", rcall.Pos(rcall.Nums{1, 2, 3, 4, 5, 6}), rcall.Named("frequency", rcall.Num(1))))

	obj, err := NewRscript(NewDefaultRscriptConfig()).Eval(context.Background(), p)
	require.Nil(t, err)
	mean, err := obj.Field("mean")
	require.Nil(t, err)
	assert.Equal(t, []float64{3.5, 3.5, 3.5, 3.5, 3.5}, []float64(mean.Values))
}
