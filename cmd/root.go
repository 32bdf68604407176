package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/s0up4200/moviedeck/config"
	"github.com/s0up4200/moviedeck/filter"
	"github.com/s0up4200/moviedeck/settings"
	"github.com/s0up4200/moviedeck/tmdb"
)

var (
	cfgFile    string
	cfg        *config.Config
	logger     zerolog.Logger
	logFile    *lumberjack.Logger
	tmdbClient *tmdb.Client
	prefs      *settings.Manager
	filters    *filter.Manager

	version   = "dev"
	buildTime = "unknown"
)

// offlineAnnotation marks commands that never call TMDB. They run without
// an API key and without a TMDB client.
const offlineAnnotation = "moviedeck/offline"

// needsCatalog reports whether cmd talks to TMDB
func needsCatalog(cmd *cobra.Command) bool {
	return cmd.Annotations[offlineAnnotation] != "true"
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "moviedeck",
	Short: "Browse TMDB movies with a trailer slideshow",
	Long: `moviedeck is a movie discovery tool backed by The Movie Database (TMDB).
It lists popular movies, searches the catalog, shows movie details and runs
the featured hero slideshow, either in the terminal or behind a JSON API.`,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: closeApp,
	SilenceUsage:       true,
}

// SetVersion records the build information reported by the version command
func SetVersion(v, built string) {
	version = v
	buildTime = built
	rootCmd.Version = v
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

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(trendingCmd)
	rootCmd.AddCommand(movieCmd)
	rootCmd.AddCommand(featuredCmd)
	rootCmd.AddCommand(heroCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp initializes the configuration, logger and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var loadOpts []config.LoadOption
	if !needsCatalog(cmd) {
		loadOpts = append(loadOpts, config.WithoutAPIKey())
	}

	var err error
	cfg, err = config.Load(cfgFile, loadOpts...)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	// User settings survive restarts
	prefs, err = settings.NewManager(settings.NewFileStore(afero.NewOsFs(), cfg.Settings.Path), logger)
	if err != nil {
		return err
	}

	if !needsCatalog(cmd) {
		return nil
	}

	// Create TMDB client
	tmdbClient, err = tmdb.NewClient(cfg.TMDB.URL, cfg.TMDB.APIKey, logger,
		tmdb.WithTimeout(cfg.TMDB.Timeout),
		tmdb.WithLanguage(cfg.TMDB.Language),
		tmdb.WithRetry(cfg.TMDB.Retries, time.Second),
		tmdb.WithCache(cfg.TMDB.CacheSize, cfg.TMDB.CacheTTL),
		tmdb.WithConcurrency(cfg.TMDB.Concurrency),
	)
	if err != nil {
		return fmt.Errorf("failed to create TMDB client: %w", err)
	}

	filters = filter.NewManager()
	if err := filters.RegisterFilters(cfg.Filter.Presets); err != nil {
		return fmt.Errorf("invalid filter preset: %w", err)
	}
	if len(cfg.Filter.Presets) > 0 {
		logger.Debug().Strs("presets", filters.ListFilters()).Msg("Filter presets loaded")
	}

	return nil
}

func closeApp(cmd *cobra.Command, args []string) error {
	if logFile != nil {
		return logFile.Close()
	}
	return nil
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

	var out io.Writer = os.Stderr
	if cfg.Format != "json" {
		// Console format, colored only on a terminal
		out = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
			NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
		}
	}

	// The log file always gets JSON
	if cfg.File != "" {
		logFile = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		out = zerolog.MultiLevelWriter(out, logFile)
	}

	return zerolog.New(out).With().Timestamp().Logger()
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to TMDB",
	Long:  `Test the connection to the TMDB API with the configured key.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Printf("Testing connection to TMDB at %s...\n", cfg.TMDB.URL)

	if err := tmdbClient.TestConnection(cmd.Context()); err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	fmt.Println("✓ Connection successful!")

	fmt.Printf("\nSettings file: %s\n", cfg.Settings.Path)
	fmt.Printf("- Theme: %s\n", themeName(prefs.DarkMode()))
	listing := prefs.Listing()
	fmt.Printf("- Listing: page %d", listing.Page)
	if listing.Query != "" {
		fmt.Printf(", search %q", listing.Query)
	}
	fmt.Println()

	if names := filters.ListFilters(); len(names) > 0 {
		fmt.Printf("\nFilter presets:\n")
		for _, name := range names {
			f, _ := filters.GetFilter(name)
			fmt.Printf("  • %s: %s\n", name, f.Expression())
		}
	}

	return nil
}
