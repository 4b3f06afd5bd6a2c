package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/aouyang1/go-rforecast/rcall"
	"github.com/aouyang1/go-rforecast/robject"
)

const DefaultRscriptPath = "Rscript"

// RscriptConfig configures a local Rscript engine.
type RscriptConfig struct {
	Path     string        `yaml:"path"`
	LibPaths []string      `yaml:"lib_paths"`
	Timeout  time.Duration `yaml:"timeout"`
}

// NewDefaultRscriptConfig uses Rscript from PATH with no timeout.
func NewDefaultRscriptConfig() RscriptConfig {
	return RscriptConfig{Path: DefaultRscriptPath}
}

// Rscript runs every program in a fresh Rscript process.
type Rscript struct {
	cfg RscriptConfig
}

// NewRscript returns an engine backed by a local Rscript binary.
func NewRscript(cfg RscriptConfig) *Rscript {
	if cfg.Path == "" {
		cfg.Path = DefaultRscriptPath
	}
	return &Rscript{cfg: cfg}
}

// Eval writes the program to a temporary file and evaluates it with Rscript --vanilla.
func (r *Rscript) Eval(ctx context.Context, p *rcall.Program) (*robject.Object, error) {
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	f, err := os.CreateTemp("", "rforecast-*.R")
	if err != nil {
		return nil, fmt.Errorf("unable to create script file, %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.WriteString(Script(p, r.cfg.LibPaths)); err != nil {
		f.Close()
		return nil, fmt.Errorf("unable to write script file, %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("unable to close script file, %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.cfg.Path, "--vanilla", f.Name()) //nolint:gosec // G204: binary comes from engine configuration
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	slog.Debug("evaluated r program",
		"engine", "rscript",
		"duration", time.Since(start),
		"stdout_bytes", stdout.Len(),
		"stderr_bytes", stderr.Len(),
	)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("rscript interrupted, %w", ctxErr)
	}

	// R conditions are reported through the envelope; only fall back to the exit status
	// when the interpreter died before emitting one.
	obj, parseErr := ParseOutput(stdout.Bytes())
	var rErr *RError
	if errors.As(parseErr, &rErr) {
		rErr.Stderr = stderr.String()
		return nil, rErr
	}
	if runErr == nil {
		return obj, parseErr
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return nil, &RError{Stderr: stderr.String(), ExitCode: exitErr.ExitCode()}
	}
	return nil, fmt.Errorf("unable to run %s, %w", r.cfg.Path, runErr)
}
