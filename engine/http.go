package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aouyang1/go-rforecast/rcall"
	"github.com/aouyang1/go-rforecast/robject"
	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

const (
	DefaultHTTPTimeout = 60 * time.Second
	maxResponseBytes   = 64 << 20
)

// HTTPConfig configures an engine that ships scripts to a remote R evaluation service.
type HTTPConfig struct {
	URL               string            `yaml:"url"`
	Timeout           time.Duration     `yaml:"timeout"`
	RequestsPerSecond float64           `yaml:"requests_per_second"`
	Burst             int               `yaml:"burst"`
	Headers           map[string]string `yaml:"headers"`
	LibPaths          []string          `yaml:"lib_paths"`
}

// HTTP posts {"script": ...} to a service that evaluates it with Rscript and responds with
// the script output.
type HTTP struct {
	cfg     HTTPConfig
	client  *http.Client
	limiter *rate.Limiter
}

type httpRequest struct {
	Script string `json:"script"`
}

// NewHTTP returns an HTTP engine. Requests are unthrottled when RequestsPerSecond is 0.
func NewHTTP(cfg HTTPConfig) (*HTTP, error) {
	if cfg.URL == "" {
		return nil, ErrNoEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultHTTPTimeout
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return &HTTP{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
	}, nil
}

// Eval sends the program to the remote service and decodes the returned envelope.
func (h *HTTP) Eval(ctx context.Context, p *rcall.Program) (*robject.Object, error) {
	if err := h.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("unable to acquire request slot, %w", err)
	}

	body, err := json.Marshal(httpRequest{Script: Script(p, h.cfg.LibPaths)})
	if err != nil {
		return nil, fmt.Errorf("unable to encode request, %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("unable to create request, %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range h.cfg.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to reach r service, %w", err)
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("unable to read r service response, %w", err)
	}
	slog.Debug("evaluated r program",
		"engine", "http",
		"url", h.cfg.URL,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"response_bytes", len(out),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, parseErr := ParseOutput(out)
		var rErr *RError
		if errors.As(parseErr, &rErr) {
			rErr.StatusCode = resp.StatusCode
			return nil, rErr
		}
		return nil, &RError{Message: strings.TrimSpace(string(out)), StatusCode: resp.StatusCode}
	}
	return ParseOutput(out)
}
