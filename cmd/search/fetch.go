// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	relaierrors "github.com/sirseerhq/sirseer-search/internal/errors"
	"github.com/sirseerhq/sirseer-search/internal/config"
	"github.com/sirseerhq/sirseer-search/internal/github"
	"github.com/sirseerhq/sirseer-search/internal/logger"
	"github.com/sirseerhq/sirseer-search/internal/metadata"
	"github.com/sirseerhq/sirseer-search/internal/output"
	"github.com/sirseerhq/sirseer-search/internal/state"
	"github.com/sirseerhq/sirseer-search/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type fetchOptions struct {
	token         string
	configPath    string
	outputFile    string
	logLevel      string
	batchSize     int
	limit         int
	resume        bool
	writeMetadata bool
	timeout       time.Duration
}

func newFetchCommand() *cobra.Command {
	var opts fetchOptions

	cmd := &cobra.Command{
		Use:   "fetch <query|saved-search>",
		Short: "Fetch every pull request matching a GitHub search",
		Long: `Fetch every pull request matching a GitHub search and output NDJSON.

The argument is either a GitHub search expression, for example
  "repo:kubernetes/kubernetes is:pr is:open label:lgtm"
or the name of a search saved under "searches" in the config file.

Authentication is required via GitHub token:
  - Use --token flag to provide token directly
  - Or set the environment variable named by github.token_env (GITHUB_TOKEN)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if opts.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, opts.timeout)
				defer cancel()
			}

			return runFetch(ctx, os.Stdout, os.Stderr, args[0], opts)
		},
	}

	bindFetchFlags(cmd.Flags(), &opts)
	return cmd
}

func bindFetchFlags(flags *pflag.FlagSet, opts *fetchOptions) {
	flags.StringVar(&opts.token, "token", "", "GitHub personal access token (overrides the token environment variable)")
	flags.StringVar(&opts.configPath, "config", "", "Config file (default: .sirseer-search.{yaml,yml,toml} or ~/.sirseer/search.{yaml,toml})")
	flags.StringVar(&opts.outputFile, "output", "", "Output file path (default: stdout)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	flags.IntVar(&opts.batchSize, "batch-size", 0, fmt.Sprintf("Results per page, 1-%d (overrides config)", config.MaxBatchSize))
	flags.IntVar(&opts.limit, "limit", 0, "Stop after this many pull requests (0: no limit)")
	flags.BoolVar(&opts.resume, "resume", false, "Continue the last failed run of this search")
	flags.BoolVar(&opts.writeMetadata, "metadata", false, "Write run metadata to the state directory")
	flags.DurationVar(&opts.timeout, "timeout", 0, "Abort the whole run after this duration (0: no timeout)")
}

// runFetch executes the fetch command
func runFetch(ctx context.Context, stdout, stderr io.Writer, arg string, opts fetchOptions) error {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	query, batchSize, named := cfg.ResolveSearch(arg)
	if named {
		log.Debugw("using saved search", "name", arg, "query", query)
	}
	if opts.batchSize != 0 {
		batchSize = opts.batchSize
	}
	if batchSize < 1 || batchSize > config.MaxBatchSize {
		return fmt.Errorf("batch size must be between 1 and %d, got %d: %w", config.MaxBatchSize, batchSize, relaierrors.ErrInvalidArgument)
	}
	if opts.limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d: %w", opts.limit, relaierrors.ErrInvalidArgument)
	}

	token := getToken(opts.token, cfg.GitHub.TokenEnv)
	if token == "" {
		return fmt.Errorf("GitHub token not found. Set %s or use --token flag: %w", cfg.GitHub.TokenEnv, relaierrors.ErrInvalidToken)
	}

	checkpointPath := state.CheckpointPath(cfg.Defaults.StateDir, query)
	run := &searchRun{
		query:          query,
		batchSize:      batchSize,
		stateDir:       cfg.Defaults.StateDir,
		checkpointPath: checkpointPath,
		log:            log,
		stderr:         stderr,
	}

	if opts.resume {
		if err := run.loadCheckpoint(); err != nil {
			return err
		}
	} else {
		run.tracker = metadata.New()
	}

	writer, err := openWriter(stdout, opts.outputFile, opts.resume)
	if err != nil {
		return err
	}
	defer writer.Close()

	client := github.NewGraphQLClient(token, cfg.GitHub.GraphQLEndpoint)
	fetcher := github.NewFetcher(client,
		github.WithLogger(log),
		github.WithPageHook(run.onPage),
	)

	it, err := fetcher.Resume(ctx, query, run.batchSize, run.cursor)
	if err != nil {
		return err
	}

	log.Infow("starting search",
		"query", query,
		"batch_size", run.batchSize,
		"fetch_id", run.tracker.FetchID(),
		"resume_cursor", run.cursor)

	run.started = time.Now()
	written, err := output.Drain(&trackingWriter{RecordWriter: writer, run: run}, it.All(), opts.limit)
	fmt.Fprintf(stderr, "\r\033[K") // Clear progress line
	if err != nil {
		return run.fail(written, err)
	}

	return run.succeed(written, opts)
}

// searchRun carries the per-run bookkeeping shared by the page hook, the
// record sink and the checkpoint logic.
type searchRun struct {
	query          string
	batchSize      int
	stateDir       string
	checkpointPath string
	log            *zap.SugaredLogger
	stderr         io.Writer
	tracker        *metadata.Tracker

	// Set when resuming.
	cursor    string
	delivered int
	previous  *metadata.FetchRef

	started time.Time
	total   int
	pages   int
}

func (r *searchRun) loadCheckpoint() error {
	cp, err := state.LoadCheckpoint(r.checkpointPath)
	if err != nil {
		if errors.Is(err, state.ErrNoCheckpoint) {
			return fmt.Errorf("nothing to resume for %q: %w", r.query, relaierrors.ErrInvalidArgument)
		}
		return err
	}
	if cp.Query != r.query {
		return fmt.Errorf("checkpoint is for query %q, not %q: %w", cp.Query, r.query, relaierrors.ErrInvalidArgument)
	}

	r.cursor = cp.Cursor
	r.delivered = cp.Delivered
	r.batchSize = cp.BatchSize
	r.tracker = metadata.NewWithID(cp.FetchID)
	r.previous = &metadata.FetchRef{FetchID: cp.FetchID}

	r.log.Infow("resuming search", "checkpoint", r.checkpointPath, "delivered", cp.Delivered)
	return nil
}

func (r *searchRun) onPage(event github.PageEvent) {
	r.tracker.RecordPage(event)
	r.total = event.IssueCount
	r.pages = event.Page
}

func (r *searchRun) onRecord(pr github.PullRequest, count int) {
	r.tracker.UpdatePRStats(pr.Number, pr.CreatedAt)
	updateProgress(r.stderr, r.delivered+count, r.total, r.pages, r.started)
}

// fail saves a checkpoint when the failure happened while requesting a page,
// so --resume replays exactly that page.
func (r *searchRun) fail(written int, err error) error {
	var te *github.TransportError
	if !errors.As(err, &te) {
		return err
	}

	cp := &state.Checkpoint{
		Query:     r.query,
		BatchSize: r.batchSize,
		Cursor:    te.After,
		FetchID:   r.tracker.FetchID(),
		Delivered: r.delivered + written,
	}
	if saveErr := state.SaveCheckpoint(cp, r.checkpointPath); saveErr != nil {
		r.log.Warnw("could not save checkpoint", "path", r.checkpointPath, "error", saveErr)
		return err
	}

	r.log.Infow("saved checkpoint", "path", r.checkpointPath, "page", te.Page, "cursor", te.After)
	fmt.Fprintf(r.stderr, "Fetched %d pull requests before the error. Rerun with --resume to continue.\n", cp.Delivered)
	return err
}

func (r *searchRun) succeed(written int, opts fetchOptions) error {
	limited := opts.limit > 0 && written >= opts.limit
	if !limited {
		if err := state.DeleteCheckpoint(r.checkpointPath); err != nil {
			r.log.Warnw("could not remove checkpoint", "error", err)
		}
	}

	if opts.writeMetadata {
		params := metadata.FetchParams{
			Query:        r.query,
			BatchSize:    r.batchSize,
			Limit:        opts.limit,
			ResumeCursor: r.cursor,
		}
		md := r.tracker.GenerateMetadata(version.Version, params, r.previous)
		path, err := metadata.SaveMetadata(md, r.stateDir)
		if err != nil {
			return err
		}
		r.log.Infow("saved metadata", "path", path)
	}

	elapsed := time.Since(r.started).Round(time.Millisecond)
	switch {
	case r.delivered+written == 0:
		fmt.Fprintf(r.stderr, "No pull requests match %q\n", r.query)
	case limited:
		fmt.Fprintf(r.stderr, "Stopped after %d pull requests (--limit) in %s\n", written, elapsed)
	default:
		fmt.Fprintf(r.stderr, "Successfully fetched %d pull requests in %s\n", r.delivered+written, elapsed)
	}
	return nil
}

// trackingWriter feeds every written record to the run's statistics.
type trackingWriter struct {
	output.RecordWriter
	run *searchRun
}

func (w *trackingWriter) Write(pr github.PullRequest) error {
	if err := w.RecordWriter.Write(pr); err != nil {
		return err
	}
	w.run.onRecord(pr, w.RecordWriter.Count())
	return nil
}

func openWriter(stdout io.Writer, outputFile string, appendOutput bool) (output.RecordWriter, error) {
	if outputFile == "" {
		return output.NewWriter(stdout), nil
	}
	if appendOutput {
		return output.NewAppendWriter(outputFile)
	}
	return output.NewFileWriter(outputFile)
}

// getToken returns the GitHub token from flag or environment variable
func getToken(flagToken, envVar string) string {
	if flagToken != "" {
		return flagToken
	}
	if envVar == "" {
		envVar = "GITHUB_TOKEN"
	}
	return os.Getenv(envVar)
}

// updateProgress displays progress with percentage and ETA
func updateProgress(w io.Writer, current, total, pageNum int, startTime time.Time) {
	if total == 0 {
		fmt.Fprintf(w, "\rProgress: %d PRs | Page %d", current, pageNum)
		return
	}

	percent := float64(current) * 100 / float64(total)
	elapsed := time.Since(startTime)

	var eta string
	if current > 0 && current < total {
		remaining := time.Duration(float64(elapsed) * float64(total-current) / float64(current))
		if remaining > 0 {
			eta = fmt.Sprintf(" | ETA: %s", remaining.Round(time.Second))
		}
	}

	fmt.Fprintf(w, "\rProgress: %d / %d PRs [%.1f%%] | Page %d%s",
		current, total, percent, pageNum, eta)
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, relaierrors.ErrInvalidToken) ||
		errors.Is(err, relaierrors.ErrRateLimit) ||
		errors.Is(err, relaierrors.ErrInvalidQuery) {
		return 2
	}

	if errors.Is(err, relaierrors.ErrNetworkFailure) {
		return 3
	}

	if errors.Is(err, relaierrors.ErrInvalidRecord) {
		return 4
	}

	return 1
}
