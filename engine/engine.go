// Package engine evaluates rendered R programs against an R installation and decodes the
// exported result. Engines hold no per-call state and are safe for concurrent use.
package engine

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aouyang1/go-rforecast/rcall"
	"github.com/aouyang1/go-rforecast/robject"
	"github.com/goccy/go-json"
)

// Marker separates anything R printed on stdout from the JSON envelope that follows it.
const Marker = "@@RFORECAST@@"

var (
	ErrEmptyOutput     = errors.New("no result envelope in r output")
	ErrUnknownBackend  = errors.New("unknown engine backend")
	ErrNoEndpoint      = errors.New("no endpoint configured for http engine")
	ErrMalformedResult = errors.New("malformed result envelope")
)

//go:embed prelude.R
var prelude string

// Engine evaluates an R program and returns its exported result.
type Engine interface {
	Eval(ctx context.Context, p *rcall.Program) (*robject.Object, error)
}

// RError is a failure reported by R itself, either a condition caught while evaluating the
// program or a crashed interpreter. The message is kept exactly as R produced it.
type RError struct {
	Message    string
	Stderr     string
	ExitCode   int
	StatusCode int
}

func (e *RError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = lastLine(e.Stderr)
	}
	switch {
	case e.StatusCode != 0:
		return "r evaluation failed with status " + strconv.Itoa(e.StatusCode) + ": " + msg
	case e.ExitCode != 0:
		return "r exited with code " + strconv.Itoa(e.ExitCode) + ": " + msg
	}
	return "r error: " + msg
}

// Script returns the full R source evaluated for p: the exporter prelude, optional library
// paths and the program wrapped so that any R condition becomes an error envelope.
func Script(p *rcall.Program, libPaths []string) string {
	var sb strings.Builder
	if len(libPaths) > 0 {
		sb.WriteString(".libPaths(")
		sb.WriteString(rcall.Render(rcall.NewCall("c", rcall.Pos(rcall.Strs(libPaths)), rcall.Pos(rcall.NewCall(".libPaths")))))
		sb.WriteString(")\n")
	}
	sb.WriteString(prelude)
	sb.WriteString("\n.rf_emit(tryCatch({\n")
	sb.WriteString(p.String())
	sb.WriteString(".rf_ok(")
	sb.WriteString(rcall.ResultName)
	sb.WriteString(")\n}, error = .rf_fail))\n")
	return sb.String()
}

type envelope struct {
	OK     bool            `json:"ok"`
	Error  string          `json:"error"`
	Result json.RawMessage `json:"result"`
}

// ParseOutput extracts and decodes the result envelope from the output of a script built
// by Script. Output that is only an envelope, without the marker, is accepted as well.
func ParseOutput(out []byte) (*robject.Object, error) {
	payload := out
	if idx := bytes.LastIndex(out, []byte(Marker)); idx >= 0 {
		payload = out[idx+len(Marker):]
	}
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || payload[0] != '{' {
		return nil, ErrEmptyOutput
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("%w, %w", ErrMalformedResult, err)
	}
	if !env.OK {
		return nil, &RError{Message: env.Error}
	}
	if len(env.Result) == 0 {
		return nil, fmt.Errorf("missing result, %w", ErrMalformedResult)
	}
	return robject.Decode(env.Result)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
