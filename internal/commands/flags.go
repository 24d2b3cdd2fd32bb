// Package commands wires the CLI commands: the reader itself and the
// reading-history listing.
package commands

import (
	"os"
	"path/filepath"

	"github.com/calmops/folio/internal/core/config"
	"github.com/calmops/folio/internal/data/db"
	"github.com/calmops/folio/internal/data/stores"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// App holds the shared services created in the Before hook.
type App struct {
	Config  *config.Config
	DB      *db.DB
	History *stores.HistoryStore
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "folio", "folio.yml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "folio")
}
