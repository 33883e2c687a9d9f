/* main.go
 * Entry point for the VEX shell. Runs the interactive shell on the terminal, or serves the same shell over Discord
 * with --discord, optionally alongside the results webhook
 * Usage: go run . [--config <path>] [--discord] [--verbose]
 */

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"vex-shell/api/api"
	"vex-shell/api/external"
	"vex-shell/api/store"
	"vex-shell/bot"
	"vex-shell/config"
	"vex-shell/shell"
	"vex-shell/web"
)

var (
	// Flags
	configPath  string
	discord     bool
	verbose     bool
	webhookAddr string

	logger *zap.Logger
	envErr error
)

var rootCmd = &cobra.Command{
	Use:   "vexshell",
	Short: "Interactive shell for VEX Robotics competition data",
	Long: `vexshell is a context-stack shell over the VexDB competition api.

Enter a competition, division, round, team or organization and the following commands run in
that scope. Run without flags to start the terminal shell, or with --discord to serve one shell
per channel through a Discord bot.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = newLogger(verbose, os.Getenv(config.EnvLogLevel))
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file (default: $VEXSHELL_CONFIG or vexshell.json)")
	rootCmd.PersistentFlags().BoolVar(&discord, "discord", false, "Serve the shell through Discord using $DISCORD_TOKEN")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&webhookAddr, "webhook-addr", "", "Serve the results webhook on this address (default: $WEBHOOK_ADDR)")
}

func main() {
	// .env is optional; real environment variables take precedence
	envErr = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if envErr != nil {
		logger.Debug("no .env file loaded", zap.Error(envErr))
	}

	settings := config.LoadSettings()
	if configPath != "" {
		settings.ConfigPath = configPath
	}
	if webhookAddr != "" {
		settings.WebhookAddr = webhookAddr
	}

	// SIGINT and SIGTERM cancel the session; a blocking wait returns to the prompt loop which then exits
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cache, err := newStore(ctx, settings, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := cache.Close(context.Background()); err != nil {
			logger.Warn("failed to close cache", zap.Error(err))
		}
	}()

	cfg := config.Load(settings.ConfigPath, logger)
	manager := config.NewManager(settings.ConfigPath, cfg, logger)

	client := external.NewClient(settings.VexDBURL, settings.VexDBRate, logger)
	vex, err := api.NewAPI(cache, client, settings.WaitInterval, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize API: %w", err)
	}
	services := newServices(vex, manager)

	if settings.WebhookAddr != "" {
		go func() {
			if err := web.Start(ctx, webConfig(settings, vex, logger)); err != nil {
				logger.Error("webhook server stopped", zap.Error(err))
			}
		}()
	}

	if discord {
		if settings.DiscordToken == "" {
			return fmt.Errorf("--discord requires %s to be set", config.EnvDiscordToken)
		}
		factory := func() (*shell.Dispatcher, error) {
			return shell.NewDispatcher(manager.Current(), services, logger)
		}
		b, err := bot.NewBot(settings.DiscordToken, factory, logger)
		if err != nil {
			return err
		}
		return b.Run(ctx)
	}

	d, err := shell.NewDispatcher(cfg, services, logger)
	if err != nil {
		return err
	}
	return shell.Run(ctx, d, cmd.InOrStdin(), cmd.OutOrStdout())
}

// newLogger builds a production zap logger. verbose forces debug level; otherwise level is parsed, falling back to
// info when empty or invalid
func newLogger(verbose bool, level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(verbose, level))
	return cfg.Build()
}

func parseLevel(verbose bool, level string) zapcore.Level {
	if verbose {
		return zapcore.DebugLevel
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil || level == "" {
		return zapcore.InfoLevel
	}
	return lvl
}

// newStore connects to MongoDB when a URI is configured, else returns an in-memory cache
func newStore(ctx context.Context, settings config.Settings, logger *zap.Logger) (store.Interface, error) {
	if settings.MongoURI == "" {
		logger.Info("MONGO_URI not set, using in-memory cache")
		return store.NewMemoryStore(settings.CacheTTL), nil
	}
	s, err := store.NewStore(ctx, settings.MongoDB, settings.MongoURI, settings.CacheTTL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	return s, nil
}

// webConfig builds the results webhook configuration from settings
func webConfig(settings config.Settings, refresher web.Refresher, logger *zap.Logger) web.Config {
	return web.Config{
		Addr:      settings.WebhookAddr,
		Refresher: refresher,
		Token:     settings.WebhookToken,
		SKUPrefix: settings.WebhookSKUPrefix,
		Logger:    logger,
	}
}

// newServices wires the API into every dispatcher collaborator
func newServices(vex *api.API, cfg shell.ConfigService) shell.Services {
	return shell.Services{
		Matches:       vex,
		Stats:         vex,
		History:       vex,
		Organizations: vex,
		Waiter:        vex,
		Config:        cfg,
	}
}
