// Package cli implements the confusionctl commands.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/config"
	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/engine"
	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/session"
)

var (
	configPath string
	dbPath     string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "confusionctl",
	Short: "Confusion state engine control",
	Long:  "Drive, inspect, and replay the confusion state engine. Sessions are SQLite-backed.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Engine config file (YAML)")
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Session database path (default: $CONFUSION_DB or ~/.confusion-engine/sessions.db)")
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("CONFUSION_DB"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".confusion-engine", "sessions.db")
}

func loadConfig() (engine.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return engine.Config{}, err
	}
	cfg.DBPath = getDBPath()
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return engine.Config{}, fmt.Errorf("create db directory: %w", err)
	}
	return cfg, nil
}

func openStore() (*session.Store, error) {
	return session.NewStore(getDBPath())
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
