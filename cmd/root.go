package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"musicvault/config"
	"musicvault/logger"
	"musicvault/services"

	"github.com/spf13/cobra"
)

var (
	dataDirFlag  string
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:           "musicvault",
	Short:         "MusicVault is a local music library backend.",
	Long:          `MusicVault imports audio files into managed storage, reads their tags and keeps a JSON catalog of the library.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data root holding music_db.json and music/ (overrides MUSICVAULT_DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
}

// Execute executes the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Sync()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the environment, applies flag overrides and starts the logger
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if dataDirFlag != "" {
		cfg.DataDir = dataDirFlag
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogFile,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	})

	return cfg, nil
}

// openLibrary builds the library for cfg. events may be nil.
func openLibrary(cfg *config.Config, events services.EventPublisher) (*services.Library, error) {
	return services.OpenLibrary(cfg.CatalogPath(), cfg.MusicDir(), cfg.FFprobe, events)
}
