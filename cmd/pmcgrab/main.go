package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/pmcgrab/internal/batch"
	"github.com/ternarybob/pmcgrab/internal/common"
	"github.com/ternarybob/pmcgrab/internal/ncbi"
	"github.com/ternarybob/pmcgrab/internal/pipeline"
)

// Exit codes per the CLI surface contract (spec §6).
const (
	exitOK              = 0
	exitGeneralError    = 1
	exitInvalidArgs     = 2
	exitAllFetchesFailed = 3
	exitOutputUnwritable = 4
)

// idList is a repeatable flag collecting one value per occurrence, used
// for --pmcid/--pmid/--doi/--file which may each be passed many times.
type idList []string

func (l *idList) String() string { return strings.Join(*l, ",") }
func (l *idList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func main() {
	common.InstallCrashHandler("./logs")
	defer common.RecoverWithCrashFile()
	os.Exit(run())
}

func run() int {
	var (
		pmcids    idList
		pmids     idList
		dois      idList
		files     idList
		idFile    = flag.String("id-file", "", "text file of identifiers, one per line, type auto-detected")
		directory = flag.String("directory", "", "directory of local JATS XML files")
		configPath = flag.String("config", "", "path to a pmcgrab.toml configuration file")
		outputDir = flag.String("output-dir", "", "directory artifacts are written to (default ./pmc_output)")
		workers   = flag.Int("workers", 0, "number of concurrent batch workers (default 10)")
		format    = flag.String("format", "", "artifact output mode: per-item or stream")
		schedule  = flag.String("schedule", "", "optional cron expression for recurring runs (min interval 1h)")
		dryRun    = flag.Bool("dry-run", false, "resolve and validate inputs without fetching or writing artifacts")
		verbose   = flag.Bool("verbose", false, "enable debug-level logging")
		quiet     = flag.Bool("quiet", false, "suppress the startup banner and send logging to the log file only")
		showVersion = flag.Bool("version", false, "print version information and exit")
	)
	flag.Var(&pmcids, "pmcid", "a PMCID-ish token (repeatable)")
	flag.Var(&pmids, "pmid", "a PMID, converted to a PMCID before processing (repeatable)")
	flag.Var(&dois, "doi", "a DOI, converted to a PMCID before processing (repeatable)")
	flag.Var(&files, "file", "a local JATS XML path (repeatable)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("pmcgrab version %s\n", common.GetVersion())
		return exitOK
	}

	mode, args, err := selectMode(pmcids, pmids, dois, files, *idFile, *directory)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitInvalidArgs
	}

	// Startup sequence (REQUIRED ORDER): load config -> apply CLI
	// overrides -> init logger -> print banner -> run.
	cfg, err := common.LoadFromFile(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "loading configuration:", err)
		return exitGeneralError
	}
	common.ApplyFlagOverrides(cfg, *workers, *outputDir, *format)
	if *schedule != "" {
		cfg.Batch.Schedule = *schedule
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}
	if *quiet {
		cfg.Logging.Output = []string{"file"}
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		return exitInvalidArgs
	}

	logger := common.SetupLogger(cfg)
	defer common.Stop()

	if !*quiet {
		common.PrintBanner(cfg, logger)
	}

	if cfg.Batch.Schedule != "" {
		return runScheduled(cfg, logger, mode, args)
	}
	return runOnce(context.Background(), cfg, logger, mode, args, *dryRun)
}

// selectMode enforces the CLI's six mutually exclusive input modes
// (spec §6): exactly one of pmcids/pmids/dois/id-file/directory/files
// may be supplied.
func selectMode(pmcids, pmids, dois, files idList, idFile, directory string) (pipeline.Mode, []string, error) {
	type candidate struct {
		mode pipeline.Mode
		args []string
	}
	var present []candidate
	if len(pmcids) > 0 {
		present = append(present, candidate{pipeline.ModePMCIDs, pmcids})
	}
	if len(pmids) > 0 {
		present = append(present, candidate{pipeline.ModePMIDs, pmids})
	}
	if len(dois) > 0 {
		present = append(present, candidate{pipeline.ModeDOIs, dois})
	}
	if idFile != "" {
		present = append(present, candidate{pipeline.ModeIDFile, []string{idFile}})
	}
	if directory != "" {
		present = append(present, candidate{pipeline.ModeDirectory, []string{directory}})
	}
	if len(files) > 0 {
		present = append(present, candidate{pipeline.ModeFiles, files})
	}

	if len(present) == 0 {
		return "", nil, fmt.Errorf("no input specified: supply one of --pmcid, --pmid, --doi, --id-file, --directory, --file")
	}
	if len(present) > 1 {
		return "", nil, fmt.Errorf("exactly one input mode is allowed, got %d", len(present))
	}
	return present[0].mode, present[0].args, nil
}

func runOnce(ctx context.Context, cfg *common.Config, logger arbor.ILogger, mode pipeline.Mode, args []string, dryRun bool) int {
	runID := common.NewRunID()
	runLogger := logger.WithContextWriter(runID)

	retryPolicy := ncbi.NewRetryPolicy()
	retryPolicy.MaxAttempts = cfg.Batch.Retries
	client := ncbi.NewClient(cfg.NCBI, ncbi.WithLogger(runLogger), ncbi.WithRetryPolicy(retryPolicy), ncbi.WithMaxAttempts(cfg.Batch.Retries))

	ctx, cancel := signalContext(ctx)
	defer cancel()

	items, err := pipeline.ResolveInputs(ctx, mode, args, client)
	if err != nil {
		runLogger.Error().Err(err).Msg("failed to resolve inputs")
		return exitInvalidArgs
	}
	if len(items) == 0 {
		runLogger.Error().Msg("no items resolved from input")
		return exitInvalidArgs
	}

	if dryRun {
		runLogger.Info().Int("items", len(items)).Msg("dry run: inputs resolved, no fetches issued")
		for _, it := range items {
			fmt.Println(it.ID)
		}
		return exitOK
	}

	fetch := fetchFuncFor(mode, client)

	batchCfg := batch.Config{
		Workers:   cfg.Batch.Workers,
		OutputDir: cfg.Batch.OutputDir,
		Format:    batch.Format(cfg.Batch.Format),
		Sink:      batch.SinkFunc(func(e batch.ProgressEvent) { logProgress(runLogger, e) }),
		Logger:    runLogger,
	}

	if batchCfg.Format == batch.FormatStream {
		if err := os.MkdirAll(cfg.Batch.OutputDir, 0o755); err != nil {
			runLogger.Error().Err(err).Msg("failed to create output directory")
			return exitOutputUnwritable
		}
		path := cfg.Batch.OutputDir + "/artifacts.jsonl"
		f, err := os.Create(path)
		if err != nil {
			runLogger.Error().Err(err).Msg("failed to open stream output file")
			return exitOutputUnwritable
		}
		defer f.Close()
		batchCfg.StreamWriter = f
	}

	_, summary, err := batch.Run(ctx, items, fetch, batchCfg)
	if err != nil {
		runLogger.Error().Err(err).Msg("batch run failed")
		return exitGeneralError
	}

	summaryPath, err := batch.WriteSummary(cfg.Batch.OutputDir, summary)
	if err != nil {
		runLogger.Error().Err(err).Msg("failed to write summary artifact")
		return exitOutputUnwritable
	}

	runLogger.Info().
		Int("total", summary.TotalRequested).
		Int("successful", summary.Successful).
		Int("failed", summary.Failed).
		Str("summary", summaryPath).
		Msg("batch run complete")

	common.PrintShutdownBanner(runLogger)

	if summary.Successful == 0 && summary.Failed > 0 {
		return exitAllFetchesFailed
	}
	return exitOK
}

func fetchFuncFor(mode pipeline.Mode, client *ncbi.Client) batch.FetchFunc {
	switch mode {
	case pipeline.ModeDirectory, pipeline.ModeFiles:
		return pipeline.LocalFetch()
	default:
		return pipeline.RemoteFetch(client, client.RetryPolicy(), nil)
	}
}

func logProgress(logger arbor.ILogger, e batch.ProgressEvent) {
	logger.Debug().
		Str("id", e.ID).
		Str("status", string(e.Status)).
		Int("completed", e.Completed).
		Int("total", e.Total).
		Msg("item complete")
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// runScheduled re-runs the batch at each firing of the configured cron
// schedule until interrupted, matching the reference stack's recurring-job
// idiom adapted to a single in-process loop rather than a persisted job
// queue (spec §12 supplemented feature: --schedule).
func runScheduled(cfg *common.Config, logger arbor.ILogger, mode pipeline.Mode, args []string) int {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(cfg.Batch.Schedule)
	if err != nil {
		logger.Error().Err(err).Str("schedule", cfg.Batch.Schedule).Msg("invalid schedule")
		return exitInvalidArgs
	}
	logger.Info().Str("schedule", cfg.Batch.Schedule).Msg("entering scheduled run loop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	runOnce(context.Background(), cfg, logger, mode, args, false)
	for {
		next := sched.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-sigCh:
			timer.Stop()
			logger.Info().Msg("scheduled run loop interrupted")
			return exitOK
		case <-timer.C:
			runOnce(context.Background(), cfg, logger, mode, args, false)
		}
	}
}
