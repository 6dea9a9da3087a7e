// Package cli implements the companionctl operator surface: inspection and
// manual-override commands for the relationship engine (set-level, set-status,
// promote, cleanup, notes, traits) plus chat history tooling.
//
// The CLI is a thin shell: it wires configuration, stores, and services
// together and maps service errors to exit codes. All behavior lives in the
// internal packages it calls.
package cli

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-companion-core/internal/config"
	"github.com/tbourn/go-companion-core/internal/services"
	"github.com/tbourn/go-companion-core/internal/store"
	"github.com/tbourn/go-companion-core/internal/sysutil"
)

var rootCmd = &cobra.Command{
	Use:   "companionctl",
	Short: "Operator tooling for the companion relationship engine",
	Long: "companionctl inspects and adjusts the per-user relationship state " +
		"and chat histories kept by the companion engine. Overrides bypass the " +
		"natural progression rules; use them for administrative correction.",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(setLevelCmd)
	rootCmd.AddCommand(setStatusCmd)
	rootCmd.AddCommand(promoteCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(traitCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(versionCmd)
}

// app bundles the wired engine for one command invocation.
type app struct {
	cfg           config.Config
	relationships *store.RelationshipStore
	history       *store.ChatHistoryStore
	engine        *services.RelationshipService
	context       *services.ContextService
}

// newApp loads .env and the environment configuration, configures logging,
// and opens both snapshot stores.
func newApp() (*app, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	sysutil.SetupLogging(cfg.LogLevel, cfg.LogPretty)

	// Snapshot writes land in a temp file next to the target, so the parent
	// directories must exist before the first persist.
	for _, p := range []string{cfg.RelationshipsPath, cfg.ChatHistoryPath} {
		if dir := filepath.Dir(p); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
	}

	rs := store.NewRelationshipStore(cfg.RelationshipsPath, cfg.TrustedPlatforms)
	hs := store.NewChatHistoryStore(cfg.ChatHistoryPath, cfg.HistoryLimit)

	return &app{
		cfg:           cfg,
		relationships: rs,
		history:       hs,
		engine:        services.NewRelationshipService(rs, hs, nil),
		context:       services.NewContextService(nil),
	}, nil
}

// close flushes both stores. Mutations persist write-through, so this only
// matters after load-time recovery from a corrupt snapshot.
func (a *app) close() {
	_ = a.relationships.Flush()
	_ = a.history.Flush()
}
