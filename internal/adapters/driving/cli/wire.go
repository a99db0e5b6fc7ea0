package cli

import (
	"fmt"
	"os"
	"path/filepath"

	configfile "github.com/orbistack/kbsearch/internal/adapters/driven/config/file"
	"github.com/orbistack/kbsearch/internal/adapters/driven/storage/memory"
	"github.com/orbistack/kbsearch/internal/adapters/driven/storage/sqlite"
	"github.com/orbistack/kbsearch/internal/core/domain"
	"github.com/orbistack/kbsearch/internal/core/ports/driven"
	"github.com/orbistack/kbsearch/internal/logger"
)

// loadConfig reads the search configuration. A broken config file is
// logged and replaced by the defaults rather than aborting the run.
func loadConfig() domain.SearchConfig {
	cfg, err := configfile.Load(flagConfig)
	if err != nil {
		logger.Warn("using default configuration: %v", err)
	}
	return cfg
}

// openHistoryStore opens the durable key-value store for query
// history. If the database cannot be opened the history degrades to
// an in-memory store for this run; search itself is unaffected.
func openHistoryStore() (driven.KVStore, func()) {
	kv, err := sqlite.NewKVStore(flagData)
	if err != nil {
		logger.Warn("history database unavailable, keeping history in memory: %v", err)
		return memory.NewKVStore(), func() {}
	}
	logger.Debug("history database at %s", kv.Path())
	return kv, func() {
		if err := kv.Close(); err != nil {
			logger.Debug("closing history database: %v", err)
		}
	}
}

// articlesDir resolves the article directory from the flag or the
// default location.
func articlesDir() (string, error) {
	if flagDocs != "" {
		return flagDocs, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".kbsearch", "articles"), nil
}
