package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jmylchreest/surrogate/internal/acquire"
	"github.com/jmylchreest/surrogate/internal/bootstrap"
	"github.com/jmylchreest/surrogate/internal/browser"
	"github.com/jmylchreest/surrogate/internal/document"
	"github.com/jmylchreest/surrogate/internal/harvest"
	"github.com/jmylchreest/surrogate/internal/logger"
	"github.com/jmylchreest/surrogate/internal/output"
	"github.com/jmylchreest/surrogate/internal/portal"
	"github.com/jmylchreest/surrogate/internal/search"
	"github.com/jmylchreest/surrogate/internal/store"
	"github.com/jmylchreest/surrogate/internal/version"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a search and save the results",
	Long: `Search one or more courts and write the listing, and in deep mode every
case's file history, to CSV files and a consolidated dump.

Search types:
  file_info     proceeding type and filing date range (--proceeding, --from-date)
  file_number   a single file number (--file-number)
  name_person   a person's name (--last-name, optional --first-name)
  name_org      an organization's name (--organization)

A file_info date range is split into --chunk-days windows, each searched
separately.

Examples:
  surrogate search -t file_info -c Kings --proceeding "PROBATE PETITION" \
      --from-date 2025-01-01 --to-date 2025-03-01 --chunk-days 30

  surrogate search -t file_number -c "New York" --file-number 2025-1234 --deep`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	addSearchFlags(searchCmd.Flags())
	_ = searchCmd.MarkFlagRequired("court")
	bindSearchFlags(viper.GetViper(), searchCmd.Flags())
}

// Settings that may also come from the config file or environment.
var configurableFlags = []string{"headless", "stealth", "chrome-path", "delay", "output-dir", "format", "compact", "indent", "db", "chunk-days"}

func bindSearchFlags(v *viper.Viper, flags *pflag.FlagSet) {
	for _, name := range configurableFlags {
		_ = v.BindPFlag(strings.ReplaceAll(name, "-", "_"), flags.Lookup(name))
	}
}

func addSearchFlags(flags *pflag.FlagSet) {
	// What to search
	flags.StringP("search-type", "t", string(search.FileInfo), "search type: file_info, file_number, name_person, name_org")
	flags.StringSliceP("court", "c", nil, "court (county) to search (can be repeated)")
	flags.String("proceeding", "", "proceeding type for file_info searches")
	flags.String("from-date", "", "filing date range start, YYYY-MM-DD")
	flags.String("to-date", "", "filing date range end, YYYY-MM-DD (default: from-date)")
	flags.Int("chunk-days", 30, "split file_info date ranges into windows of this many days (0=no split)")
	flags.String("file-number", "", "file number for file_number searches")
	flags.String("last-name", "", "last name for name_person searches")
	flags.String("first-name", "", "first name for name_person searches")
	flags.String("organization", "", "organization for name_org searches")
	flags.String("death-from", "", "date of death range start for name searches")
	flags.String("death-to", "", "date of death range end for name searches")
	flags.String("file-from", "", "filing date range start for name searches")
	flags.String("file-to", "", "filing date range end for name searches")

	// Harvest settings
	flags.Bool("deep", false, "follow each result into its file history")
	flags.Bool("download", false, "download each case's documents (requires --deep)")
	flags.Int("limit", 0, "max results followed per search in deep mode (0=unlimited)")

	// Browser settings
	flags.Bool("headless", false, "run Chrome without a window (the human challenge may then need to clear on its own)")
	flags.Bool("stealth", true, "mask automation signals from the edge challenge")
	flags.String("chrome-path", "", "Chrome binary (default: auto-detect)")
	flags.Duration("delay", time.Second, "settle time after each navigation")

	// Output settings
	flags.StringP("output", "o", "results", "base name of the output files")
	flags.String("output-dir", "output", "directory for output files and downloads")
	flags.String("format", string(output.FormatJSON), "dump format: json, jsonl, yaml")
	flags.Bool("compact", false, "write the JSON dump on one line")
	flags.Int("indent", 2, "spaces per level in the JSON dump")
	flags.String("db", "", "also upsert records into this SQLite database")
}

// searchOptions is everything runSearch needs, read from flags and config.
type searchOptions struct {
	Request   acquire.Request
	Download  bool
	Limit     int
	Headless  bool
	Stealth   bool
	Chrome    string
	Delay     time.Duration
	Files     output.Files
	Dump      []output.WriterOption
	Database  string
	Downloads string
}

func readSearchOptions(flags *pflag.FlagSet, v *viper.Viper) (searchOptions, error) {
	str := func(name string) string {
		s, _ := flags.GetString(name)
		return strings.TrimSpace(s)
	}

	kind := search.Kind(str("search-type"))
	if !slices.Contains(search.Kinds, kind) {
		return searchOptions{}, fmt.Errorf("unknown search type %q", kind)
	}

	deep, _ := flags.GetBool("deep")
	download, _ := flags.GetBool("download")
	if download && !deep {
		return searchOptions{}, errors.New("--download requires --deep")
	}

	format, err := output.ParseFormat(v.GetString("format"))
	if err != nil {
		return searchOptions{}, err
	}

	courts, _ := flags.GetStringSlice("court")
	limit, _ := flags.GetInt("limit")
	if limit < 0 {
		return searchOptions{}, fmt.Errorf("--limit must not be negative")
	}
	dir := v.GetString("output_dir")

	indent := v.GetInt("indent")
	if indent < 0 {
		return searchOptions{}, fmt.Errorf("--indent must not be negative")
	}
	dump := []output.WriterOption{
		output.WithPretty(!v.GetBool("compact")),
		output.WithIndent(strings.Repeat(" ", indent)),
	}

	return searchOptions{
		Request: acquire.Request{
			Template: search.Query{
				Kind:          kind,
				Proceeding:    str("proceeding"),
				FromDate:      str("from-date"),
				ToDate:        str("to-date"),
				FileNumber:    str("file-number"),
				LastName:      str("last-name"),
				FirstName:     str("first-name"),
				Organization:  str("organization"),
				DeathFromDate: str("death-from"),
				DeathToDate:   str("death-to"),
				FileFromDate:  str("file-from"),
				FileToDate:    str("file-to"),
			},
			Jurisdictions: courts,
			ChunkDays:     v.GetInt("chunk_days"),
			Deep:          deep,
		},
		Download:  download,
		Limit:     limit,
		Headless:  v.GetBool("headless"),
		Stealth:   v.GetBool("stealth"),
		Chrome:    v.GetString("chrome_path"),
		Delay:     v.GetDuration("delay"),
		Files:     output.Files{Dir: dir, Base: str("output"), Format: format},
		Dump:      dump,
		Database:  v.GetString("db"),
		Downloads: filepath.Join(dir, "downloads"),
	}, nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	opts, err := readSearchOptions(cmd.Flags(), viper.GetViper())
	if err != nil {
		return err
	}
	// Catch bad dates and empty court lists before starting a browser.
	if _, err := opts.Request.Plan(); err != nil {
		return err
	}

	collector := acquire.NewCollector()
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		JSON:  viper.GetBool("log_json"),
		Attrs: []any{"run", collector.RunID},
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	bcfg := browser.DefaultConfig()
	bcfg.Headless = opts.Headless
	bcfg.Stealth = opts.Stealth
	bcfg.Delay = opts.Delay
	bcfg.ExecPath = opts.Chrome
	if bcfg.ExecPath == "" {
		bcfg.ExecPath = browser.FindChromePath()
	}
	logger.Debug("launching chrome", "path", bcfg.ExecPath, "headless", bcfg.Headless, "stealth", bcfg.Stealth)

	chrome, err := browser.Launch(ctx, bcfg)
	if err != nil {
		logger.Error("failed to launch chrome", "error", err)
		return err
	}
	defer func() { _ = chrome.Close() }()

	state := portal.NewState(chrome.Session())
	boot := bootstrap.New(state, bootstrap.DefaultConfig())
	dispatcher := search.NewDispatcher(state, boot, search.DefaultConfig())

	var harvester acquire.Harvester
	if opts.Request.Deep {
		hcfg := harvest.DefaultConfig()
		hcfg.MaxRows = opts.Limit
		hcfg.Download = opts.Download
		hcfg.DownloadDir = opts.Downloads

		var retriever harvest.Retriever
		if opts.Download {
			retriever = document.NewRetriever(state, afero.NewOsFs(), document.DefaultConfig())
		}
		harvester = harvest.New(state, retriever, hcfg)
	}

	logger.Info("starting run",
		"type", opts.Request.Template.Kind,
		"courts", opts.Request.Jurisdictions,
		"deep", opts.Request.Deep,
		"download", opts.Download)

	runErr := acquire.NewRunner(boot, dispatcher, harvester).Run(ctx, opts.Request, collector)
	if runErr != nil {
		logger.Error("run stopped early, saving what was collected", "error", runErr)
	}

	// Save with a fresh context so an interrupted run still writes its records.
	if err := save(context.WithoutCancel(ctx), opts, collector); err != nil {
		return err
	}
	return runErr
}

func save(ctx context.Context, opts searchOptions, c *acquire.Collector) error {
	dump := output.Dump{
		Run: output.RunInfo{
			ID:            c.RunID,
			Version:       version.String(),
			Started:       c.Started,
			Finished:      time.Now().UTC(),
			SearchKind:    string(opts.Request.Template.Kind),
			Jurisdictions: opts.Request.Jurisdictions,
			Deep:          opts.Request.Deep,
			Download:      opts.Download,
		},
		SearchResults: c.Rows(),
		Cases:         c.Cases(),
	}

	written, err := opts.Files.Save(afero.NewOsFs(), dump, opts.Dump...)
	for _, p := range written {
		logInfo("wrote %s", p)
	}
	if err != nil {
		logger.Error("failed to write output", "error", err)
		return err
	}

	if opts.Database != "" {
		if err := saveDatabase(ctx, opts.Database, dump); err != nil {
			logger.Error("failed to update database", "path", opts.Database, "error", err)
			return err
		}
		logInfo("updated %s", opts.Database)
	}

	if !viper.GetBool("quiet") {
		output.WriteSummary(os.Stderr, output.Tallies(dump.SearchResults, dump.Cases, c.Failures()))
	}
	return nil
}

func saveDatabase(ctx context.Context, path string, d output.Dump) error {
	db, err := store.Open(ctx, path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.SaveRows(ctx, d.Run.ID, d.SearchResults); err != nil {
		return err
	}
	return db.SaveCases(ctx, d.Run.ID, d.Cases)
}
