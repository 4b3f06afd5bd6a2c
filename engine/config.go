package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	BackendRscript = "rscript"
	BackendHTTP    = "http"
)

// Config selects and configures an engine backend.
type Config struct {
	Backend string        `yaml:"backend"`
	Rscript RscriptConfig `yaml:"rscript"`
	HTTP    HTTPConfig    `yaml:"http"`
}

// NewDefaultConfig evaluates programs with a local Rscript.
func NewDefaultConfig() *Config {
	return &Config{
		Backend: BackendRscript,
		Rscript: NewDefaultRscriptConfig(),
	}
}

// LoadConfig reads a YAML engine configuration. Unset fields keep their defaults.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read engine config, %w", err)
	}
	return ParseConfig(b)
}

// ParseConfig decodes a YAML engine configuration on top of the defaults.
func ParseConfig(b []byte) (*Config, error) {
	cfg := NewDefaultConfig()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("unable to parse engine config, %w", err)
	}
	return cfg, nil
}

// New builds the engine named by cfg.Backend. A nil config uses the defaults.
func New(cfg *Config) (Engine, error) {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	switch cfg.Backend {
	case "", BackendRscript:
		return NewRscript(cfg.Rscript), nil
	case BackendHTTP:
		return NewHTTP(cfg.HTTP)
	}
	return nil, fmt.Errorf("%s, %w", cfg.Backend, ErrUnknownBackend)
}
