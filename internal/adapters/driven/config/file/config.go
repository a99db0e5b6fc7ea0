// Package file loads the search configuration from a TOML file.
// Missing files and missing keys fall back to the shipped defaults,
// so kbsearch works with no configuration at all.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/orbistack/kbsearch/internal/core/domain"
	"github.com/orbistack/kbsearch/internal/logger"
)

var configLog = logger.Scope("config")

// fileConfig is the TOML schema.
type fileConfig struct {
	Search struct {
		ResultCap   int                `toml:"result_cap"`
		HistoryCap  int                `toml:"history_cap"`
		HistoryDays int                `toml:"history_days"`
		DebounceMs  int                `toml:"debounce_ms"`
		Threshold   float64            `toml:"threshold"`
		Weights     map[string]float64 `toml:"weights"`
	} `toml:"search"`
}

// DefaultPath returns the default config file location,
// ~/.kbsearch/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".kbsearch", "config.toml"), nil
}

// Load reads the configuration at path, merging it onto the defaults.
// A missing file yields the defaults with no error; an unreadable or
// unparseable file yields the defaults and the error, so callers can
// log and keep going.
func Load(path string) (domain.SearchConfig, error) {
	cfg := domain.DefaultSearchConfig()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %q: %w", path, err)
	}

	var parsed fileConfig
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return cfg, fmt.Errorf("parsing config %q: %w", path, err)
	}

	s := parsed.Search
	if s.ResultCap > 0 {
		cfg.ResultCap = s.ResultCap
	}
	if s.HistoryCap > 0 {
		cfg.HistoryCap = s.HistoryCap
	}
	if s.HistoryDays > 0 {
		cfg.HistoryMaxAge = time.Duration(s.HistoryDays) * 24 * time.Hour
	}
	if s.DebounceMs > 0 {
		cfg.DebounceWindow = time.Duration(s.DebounceMs) * time.Millisecond
	}
	if s.Threshold > 0 && s.Threshold < 1 {
		cfg.MatchThreshold = s.Threshold
	}

	for name, weight := range s.Weights {
		field := domain.FieldName(name)
		if _, known := cfg.FieldWeights[field]; !known {
			configLog.Warn("unknown search field %q ignored", name)
			continue
		}
		if weight <= 0 || weight > 1 {
			configLog.Warn("weight for %q out of (0,1], keeping default", name)
			continue
		}
		cfg.FieldWeights[field] = weight
	}

	return cfg, nil
}
