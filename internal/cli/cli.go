package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pfrederiksen/kremlin-meetings/internal/config"
	"github.com/pfrederiksen/kremlin-meetings/internal/filter"
	"github.com/pfrederiksen/kremlin-meetings/internal/logger"
	"github.com/pfrederiksen/kremlin-meetings/internal/output"
	"github.com/pfrederiksen/kremlin-meetings/internal/pipeline"
	"github.com/pfrederiksen/kremlin-meetings/internal/scraper"
	"github.com/pfrederiksen/kremlin-meetings/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=..."
var Version = "dev"

var (
	flagConfig     string
	flagOutputDir  string
	flagOutput     string
	flagFormat     string
	flagColumns    string
	flagTable      bool
	flagTableRows  int
	flagMaxPages   int
	flagTargetYear int
	flagLocale     string
	flagDetails    bool
	flagRobots     bool
	flagSort       string
	flagReport     string
	flagVerbose    bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kremlin-meetings",
		Short: "Scrape presidential meetings from the Kremlin news listing",
		Long: `A CLI tool that walks the Kremlin president news listing page by page,
keeps the meetings dated on or after December 1 of the target year, and
writes them to a CSV, JSON or ICS file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runScrape,
	}

	// Define flags
	cmd.Flags().StringVar(&flagConfig, "config", "", "Config file (default $XDG_CONFIG_HOME/kremlin-meetings/config.yaml)")
	cmd.Flags().StringVar(&flagOutputDir, "output-dir", "", "Directory for the output file")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output file name (default kremlin_meetings.<format>)")
	cmd.Flags().StringVar(&flagFormat, "format", "", "Output file format: csv, json or ics")
	cmd.Flags().StringVar(&flagColumns, "columns", "", "CSV columns: full or compact")
	cmd.Flags().BoolVar(&flagTable, "table", true, "Print the meetings as a table")
	cmd.Flags().IntVar(&flagTableRows, "table-rows", 0, "Maximum rows in the table")
	cmd.Flags().IntVar(&flagMaxPages, "max-pages", 0, "Maximum listing pages to fetch (1-13)")
	cmd.Flags().IntVar(&flagTargetYear, "target-year", 0, "Keep meetings from December 1 of this year")
	cmd.Flags().StringVar(&flagLocale, "locale", "", "Site locale: en or ru")
	cmd.Flags().BoolVar(&flagDetails, "details", false, "Fetch article pages for place and participants")
	cmd.Flags().BoolVar(&flagRobots, "robots", false, "Respect robots.txt")
	cmd.Flags().StringVar(&flagSort, "sort", "page", "Table order: page, date or title")
	cmd.Flags().StringVar(&flagReport, "report", "text", "Report on stdout: text or json")
	cmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "kremlin-meetings %s\n", Version)
		},
	}
}

// loadConfig resolves the configuration and applies the flags that were set
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadEnvFile(".env"); err != nil {
		return nil, err
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfg.Output.Dir = flagOutputDir
	}
	if flags.Changed("output") {
		cfg.Output.File = flagOutput
	}
	if flags.Changed("format") {
		cfg.Output.Format = flagFormat
	}
	if flags.Changed("columns") {
		cfg.Output.Columns = flagColumns
	}
	if flags.Changed("table") {
		cfg.Output.Table = flagTable
	}
	if flags.Changed("table-rows") {
		cfg.Output.TableRows = flagTableRows
	}
	if flags.Changed("max-pages") {
		cfg.MaxPages = flagMaxPages
	}
	if flags.Changed("target-year") {
		cfg.TargetYear = flagTargetYear
	}
	if flags.Changed("locale") {
		cfg.Site.Locale = flagLocale
	}
	if flags.Changed("details") {
		cfg.Details = flagDetails
	}
	if flags.Changed("robots") {
		cfg.RespectRobots = flagRobots
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openLogger returns the run logger. An empty log file logs to stderr only.
func openLogger(cfg *config.Config) (*logger.Logger, io.Closer, error) {
	level := logger.ParseLevel(cfg.Log.Level)
	if flagVerbose {
		level = logger.LevelDebug
	}
	if cfg.Log.File == "" {
		return logger.New(level, os.Stderr), io.NopCloser(nil), nil
	}
	return logger.Open(cfg.Log.File, level)
}

// runScrape is the main command logic
func runScrape(cmd *cobra.Command, args []string) error {
	report := ReportFormat(strings.ToLower(flagReport))
	if report != ReportText && report != ReportJSON {
		return fmt.Errorf("invalid report: %s (must be 'text' or 'json')", flagReport)
	}
	order, err := ParseSortOrder(flagSort)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, closer, err := openLogger(cfg)
	if err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	defer closer.Close()
	previous := logger.Default()
	logger.SetDefault(log)
	defer logger.SetDefault(previous)

	store, err := storage.New(cfg.Output.Dir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	layout := cfg.Layout()
	fetcher := scraper.New(scraper.Options{
		BaseURL:       cfg.BaseURL(),
		Layout:        layout,
		MaxPages:      cfg.MaxPages,
		Timeout:       cfg.TimeoutDuration(),
		UserAgents:    cfg.UserAgents,
		RespectRobots: cfg.RespectRobots,
		Pacer:         scraper.NewPacer(cfg.DelayMin(), cfg.DelayMax(), nil),
	})

	driverCfg := pipeline.Config{
		Fetcher:    fetcher,
		Parser:     scraper.NewParser(layout, filter.New(cfg.Exclude, cfg.Include), cfg.Boundary(), cfg.BaseURL()),
		Writer:     output.NewWriter(store, cfg.Format(), cfg.Columns()),
		OutputName: cfg.Output.File,
		MaxPages:   cfg.MaxPages,
	}
	if cfg.Details {
		driverCfg.Enricher = scraper.NewEnricher(fetcher, layout)
	}

	log.Info("Configuration loaded", logger.Fields{
		"base_url":    cfg.BaseURL(),
		"locale":      layout.Name,
		"target_year": cfg.TargetYear,
		"max_pages":   cfg.MaxPages,
		"output_dir":  store.Dir(),
		"format":      string(cfg.Format()),
		"details":     cfg.Details,
	})

	ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := pipeline.New(driverCfg).Run(ctx)
	if err != nil {
		return err
	}

	result := newReport(summary)
	result.Meetings = sortMeetings(result.Meetings, order)

	rows := 0
	if cfg.Output.Table {
		rows = cfg.Output.TableRows
		if rows == 0 {
			rows = len(result.Meetings)
		}
	}
	if err := WriteReport(cmd.OutOrStdout(), result, report, rows); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
