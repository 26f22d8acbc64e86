package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/msomdec/o2o-admin/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "o2o-admin",
	Short: "Admin backend for shops, products and areas",
	Long: strings.TrimSpace(`
Serves the marketplace admin API: shops, product categories, products with
their thumbnail and detail images, and geographic areas.`),
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "YAML config file (optional; environment variables override it)")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// loadConfig reads the --config flag and configures the global logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log.Logger = newLogger(cfg, os.Stderr)
	return cfg, nil
}

func newLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if cfg.Log.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
