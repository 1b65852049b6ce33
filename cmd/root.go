package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/andrewroldugin/goodreads-client/config"
	"github.com/andrewroldugin/goodreads-client/filter"
	"github.com/andrewroldugin/goodreads-client/goodreads"
	"github.com/andrewroldugin/goodreads-client/recommend"
)

var (
	cfg        *config.Config
	logger     zerolog.Logger
	client     *goodreads.Client
	operations *recommend.Operations

	version   = "dev"
	buildTime = "unknown"

	// Command flags
	timeoutMS   int
	numberBooks int
	filterExpr  string
	preset      string
)

// SetVersion sets the build metadata shown by --version
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "goodreads-client <config-file>",
	Short: "Book recommendations from your Goodreads shelves",
	Long: `goodreads-client fetches your Goodreads shelves and prints a ranked list
of recommended books: the catalog's "similar books" for everything on your
read shelf, excluding whatever you are currently reading.

The config file holds the OAuth v1 credentials (api-key, api-secret,
oauth-token, oauth-token-secret) and optional tuning.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecommend,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().IntVarP(&timeoutMS, "timeout-ms", "t", 10000, "milliseconds to wait before aborting")
	rootCmd.Flags().IntVarP(&numberBooks, "number-books", "n", 10, "maximum number of recommendations to return")
	rootCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression for candidates")
	rootCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")

	// Add subcommands
	rootCmd.AddCommand(testCmd)
}

// initializeApp loads the configuration and builds the clients
func initializeApp(configPath string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	// Create Goodreads client
	client, err = goodreads.NewClient(goodreads.Credentials{
		APIKey:           cfg.APIKey,
		APISecret:        cfg.APISecret,
		OAuthToken:       cfg.OAuthToken,
		OAuthTokenSecret: cfg.OAuthTokenSecret,
	}, logger, goodreads.WithPerPage(cfg.Recommend.PerPage))
	if err != nil {
		return fmt.Errorf("failed to create Goodreads client: %w", err)
	}

	operations = recommend.NewOperations(client, logger)
	operations.SetConcurrency(cfg.Recommend.Concurrency)

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch cfg.Level {
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

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format, colored only on a real terminal
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func runRecommend(cmd *cobra.Command, args []string) error {
	if err := initializeApp(args[0]); err != nil {
		return err
	}

	if numberBooks <= 0 {
		return fmt.Errorf("--number-books must be positive, got %d", numberBooks)
	}
	if timeoutMS <= 0 {
		return fmt.Errorf("--timeout-ms must be positive, got %d", timeoutMS)
	}

	keep, err := buildFilter()
	if err != nil {
		return err
	}

	logger.Info().
		Str("shelf", cfg.Recommend.Shelf).
		Int("limit", numberBooks).
		Msg("Building recommendations")

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(timeoutMS)*time.Millisecond)
	defer cancel()

	books, err := operations.Recommend(ctx, recommend.Options{
		Limit:        numberBooks,
		Shelf:        cfg.Recommend.Shelf,
		ExcludeShelf: cfg.Recommend.ExcludeShelf,
		Keep:         keep,
	})

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Printf("Timed out after %dms; the API was too slow. Try a larger --timeout-ms.\n", timeoutMS)
		return nil
	case err != nil:
		logger.Warn().Err(err).Msg("Recommendation pipeline failed")
		fmt.Println("No recommendations found.")
		return nil
	case len(books) == 0:
		fmt.Println("No recommendations found.")
		return nil
	}

	fmt.Print(recommend.FormatRecommendations(books))
	return nil
}

// buildFilter compiles the effective filter expression, if any.
// Priority: command line filter > preset > config default.
func buildFilter() (filter.Predicate, error) {
	expr := filterExpr

	if expr == "" && preset != "" {
		presetExpr, ok := cfg.Filter.Presets[preset]
		if !ok {
			return nil, fmt.Errorf("preset '%s' not found in config", preset)
		}
		expr = presetExpr
	}

	if expr == "" {
		expr = cfg.Filter.Default
	}

	if expr == "" {
		return nil, nil
	}

	return filter.Compile(expr)
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test <config-file>",
	Short: "Test the Goodreads credentials",
	Long:  `Test that the configured OAuth credentials can authenticate against the Goodreads API.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	if err := initializeApp(args[0]); err != nil {
		return err
	}

	fmt.Println("Testing Goodreads credentials...")

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(timeoutMS)*time.Millisecond)
	defer cancel()

	userID, err := client.AuthUserID(ctx)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	fmt.Println("✓ Connection successful!")
	fmt.Printf("- Authenticated user ID: %d\n", userID)
	return nil
}
