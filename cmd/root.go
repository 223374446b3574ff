package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/restq/config"
	"github.com/s0up4200/restq/postgrest"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *postgrest.Client

	// Command flags
	dryRun bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "restq",
	Short: "A CLI for querying PostgREST APIs",
	Long: `restq is a CLI tool for querying and mutating tables exposed by a
PostgREST-compatible REST API. It supports column selection, the full
PostgREST filter vocabulary, server-side row counts, and optional
client-side filtering of results with expressions.`,
	PersistentPreRunE: initializeApp,
}

// SetVersion sets the version information for the root command
func SetVersion(version, buildTime string) {
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
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
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "d", false, "perform a dry run without making changes")

	rootCmd.AddCommand(testCmd)
}

// initializeApp initializes the configuration and the PostgREST client
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	// Override dry-run from command line if specified
	if cmd.Flags().Changed("dry-run") {
		cfg.Safety.DryRun = dryRun
	}

	// Create PostgREST client
	opts := []postgrest.Option{}
	if cfg.Server.Schema != "" {
		opts = append(opts, postgrest.WithSchema(cfg.Server.Schema))
	}
	if cfg.Server.Token != "" {
		opts = append(opts, postgrest.WithTokenAuth(cfg.Server.Token))
	}
	if len(cfg.Server.Headers) > 0 {
		opts = append(opts, postgrest.WithHeaders(cfg.Server.Headers))
	}

	client, err = postgrest.NewClient(cfg.Server.URL, logger, opts...)
	if err != nil {
		return fmt.Errorf("failed to create PostgREST client: %w", err)
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to the PostgREST server",
	Long:  `Test the connection to your PostgREST server and display basic information.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Printf("Testing connection to PostgREST at %s...\n", cfg.Server.URL)

	ctx := context.Background()
	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}

	fmt.Println("✓ Connection successful!")
	if cfg.Server.Schema != "" {
		fmt.Printf("- Schema: %s\n", cfg.Server.Schema)
	}
	fmt.Printf("- Authentication: %s\n", boolToStatus(cfg.Server.Token != ""))

	return nil
}

func boolToStatus(b bool) string {
	if b {
		return "Enabled"
	}
	return "Disabled"
}
