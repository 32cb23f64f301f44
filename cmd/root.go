package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/difyops/difybridge/config"
	"github.com/difyops/difybridge/dify"
)

var (
	cfgFile    string
	cfg        *config.Config
	logger     zerolog.Logger
	difyClient *dify.Client

	version   = "dev"
	buildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "difybridge",
	Short: "Manage Dify apps and datasets from the command line",
	Long: `difybridge is a client and companion REST server for the Dify console API.
It lets you log in, inspect and modify apps, manage knowledge-base datasets
and proxy chat completions without touching the web UI.`,
	PersistentPreRunE: initializeApp,
}

// SetVersion sets the version information from build flags
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

// initializeApp initializes the configuration and the Dify client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	difyClient, err = dify.NewClient(cfg.Dify.URL, logger,
		dify.WithTimeout(time.Duration(cfg.Dify.TimeoutSeconds)*time.Second))
	if err != nil {
		return fmt.Errorf("failed to create Dify client: %w", err)
	}

	return nil
}

// ensureLogin logs in with the configured credentials. Commands that hit
// console endpoints call this before their first request.
func ensureLogin(ctx context.Context) error {
	if difyClient.CurrentToken() != "" {
		return nil
	}
	if cfg.Dify.Email == "" {
		return fmt.Errorf("no credentials configured: set dify.email and dify.password")
	}
	return difyClient.Login(ctx, cfg.Dify.Email, cfg.Dify.Password)
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format; color only when attached to a terminal
	useColor := cfg.Color && isatty.IsTerminal(os.Stderr.Fd())
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !useColor,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// versionCmd prints build information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("difybridge %s (built %s)\n", version, buildTime)
	},
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
