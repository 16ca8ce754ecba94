// Command bubblemigrate reformats Bubble table exports and moves the files
// they reference off bubble.io.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/bubblemigrate/internal/config"
	"github.com/JonMunkholm/bubblemigrate/internal/core"
	_ "github.com/JonMunkholm/bubblemigrate/internal/core/tables" // Register all tables
	"github.com/JonMunkholm/bubblemigrate/internal/links"
	"github.com/JonMunkholm/bubblemigrate/internal/logging"
	"github.com/spf13/cobra"
)

// app holds the state shared by all subcommands.
type app struct {
	cfg       *config.Config
	transfers *links.Limiter // Shared by every transfer of the process
	envFile   string
	logLevel  string
	logFormat string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if core.IsUserFacing(err) {
			fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "bubblemigrate",
		Short: "Reformat Bubble exports and migrate their files",
		Long: `bubblemigrate prepares tables exported from a Bubble app for import
into Postgres: it derives deterministic identifiers, normalizes dates and
yes/no columns, and moves the files referenced by bubble.io links into
object storage, a mirror, or a local directory.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVarP(&a.envFile, "env-file", "e", "", "Path to .env file (default: .env if present)")
	root.PersistentFlags().StringVarP(&a.logLevel, "log-level", "l", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format: text or json")

	root.AddCommand(
		newFormatCmd(a),
		newRewriteCmd(a),
		newDownloadCmd(a),
		newMigrateCmd(a),
		newServeCmd(a),
		newTablesCmd(a),
	)
	return root
}

// setup loads the environment and configuration and configures logging.
// Flags override the configured log settings.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.LoadEnvFile(a.envFile)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Logging.Format = a.logFormat
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Debug("configuration loaded", "env_file_loaded", loaded, "config", cfg.String())
	a.cfg = cfg
	a.transfers = links.NewLimiter(cfg.Transfer.MaxConcurrent, cfg.Transfer.MaxWait)
	return nil
}

// runContext bounds a batch command by the transfer timeout and tags its
// log lines with a fresh run ID.
func (a *app) runContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Transfer.Timeout)
	return logging.WithRunID(ctx, ""), cancel
}

func (a *app) boolTokens() core.BoolTokens {
	return core.BoolTokens{True: a.cfg.Format.TrueToken, False: a.cfg.Format.FalseToken}
}
