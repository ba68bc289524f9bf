// Package pipeline runs one scoring pass: ingest the input files through the
// engine, build the report, write it, persist team scores and export metrics.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"goz-scoring/internal/address"
	"goz-scoring/internal/config"
	"goz-scoring/internal/ingestion"
	"goz-scoring/internal/observability"
	"goz-scoring/internal/reporting"
	"goz-scoring/internal/roster"
	"goz-scoring/internal/scoring"
	"goz-scoring/internal/storage"
)

// Phase names used for the phase duration histogram.
const (
	PhaseIngest  = "ingest"
	PhaseReport  = "report"
	PhasePersist = "persist"
)

// ResultStore is a named team score store the run persists into.
type ResultStore struct {
	Backend string // metrics label, e.g. "postgres"
	Store   storage.TeamScoreStore
}

// Options contains configuration for creating a Pipeline.
type Options struct {
	Config  *config.Config
	Inputs  []string
	Stores  []ResultStore
	Metrics *observability.RunMetrics // optional, a fresh registry is used when nil
	Stdout  io.Writer                 // Default: os.Stdout
	Logger  *log.Logger
	Verbose bool
}

// Result describes a finished run.
type Result struct {
	Report     *reporting.Report
	Ingest     *ingestion.Result
	OutputPath string // empty when the report went to Stdout
}

// Pipeline executes a single scoring run. It is not reusable.
type Pipeline struct {
	cfg     *config.Config
	inputs  []string
	stores  []ResultStore
	metrics *observability.RunMetrics
	stdout  io.Writer
	logger  *log.Logger
	verbose bool

	clock    func() time.Time
	newRunID func() string
}

// New creates a pipeline. The config is expected to be validated.
func New(opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	metrics := opts.Metrics
	if metrics == nil {
		metrics = observability.NewRunMetrics("")
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	return &Pipeline{
		cfg:      opts.Config,
		inputs:   opts.Inputs,
		stores:   opts.Stores,
		metrics:  metrics,
		stdout:   stdout,
		logger:   logger,
		verbose:  opts.Verbose,
		clock:    func() time.Time { return time.Now().UTC() },
		newRunID: func() string { return uuid.New().String() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (p *Pipeline) WithClock(clock func() time.Time) *Pipeline {
	p.clock = clock
	return p
}

// WithRunID sets a fixed run ID instead of a random UUID.
func (p *Pipeline) WithRunID(id string) *Pipeline {
	p.newRunID = func() string { return id }
	return p
}

// Run executes the pass. An existing output file fails the run before any
// input is read. Stores are written in order; the first failure stops the run.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if p.cfg == nil {
		return nil, fmt.Errorf("%w: nil config", config.ErrInvalidConfig)
	}

	out := p.cfg.Output
	if !out.WritesToStdout() {
		if err := reporting.CheckOutputPath(out.Path); err != nil {
			return nil, err
		}
	}

	runID := p.newRunID()
	p.logger.Printf("[pipeline] run %s: %d input file(s)", runID, len(p.inputs))

	// 1. Ingest
	engine := scoring.New(scoring.Options{
		Roster:      roster.New(p.cfg.DomainTeams(), address.NewNormalizer(p.cfg.Scoring.HubPrefix)),
		HubIDs:      p.cfg.HubID,
		HubMatch:    scoring.HubMatch(p.cfg.Scoring.HubMatch),
		SenderIndex: scoring.SenderIndexPolicy(p.cfg.Scoring.SenderIndex),
		Recorder:    p.metrics,
		Logger:      log.New(p.logger.Writer(), "[scoring] ", p.logger.Flags()),
		Verbose:     p.verbose,
	})
	reader := ingestion.NewReader(ingestion.ReaderOptions{
		Sink:     engine,
		Recorder: p.metrics,
		Logger:   log.New(p.logger.Writer(), "[ingest] ", p.logger.Flags()),
	})

	ingest, err := reader.ReadFiles(ctx, p.inputs)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	p.metrics.ObservePhase(PhaseIngest, ingest.Duration)
	p.logger.Printf("[pipeline] ingested %d line(s), %d envelope(s), %d decode error(s) in %v",
		ingest.Lines, ingest.Envelopes, ingest.DecodeErrors, ingest.Duration)

	// 2. Report
	reportStart := time.Now()
	stats := engine.Stats()
	report := reporting.NewGenerator().WithClock(p.clock).Generate(reporting.Input{
		RunID:          runID,
		Inputs:         p.inputs,
		Scores:         engine.Snapshot(),
		Summary:        summarize(ingest, stats),
		SourceChannels: engine.SourceChannels(),
	})

	data, err := reporting.Render(report, reporting.Format(out.Format))
	if err != nil {
		return nil, err
	}

	res := &Result{Report: report, Ingest: ingest}
	if out.WritesToStdout() {
		if _, err := p.stdout.Write(data); err != nil {
			return nil, fmt.Errorf("write report: %w", err)
		}
	} else {
		if err := reporting.WriteNewFile(out.Path, data); err != nil {
			return nil, err
		}
		res.OutputPath = out.Path
		p.logger.Printf("[pipeline] wrote %s report for %d team(s) to %s", out.Format, len(report.Teams), out.Path)
	}
	p.metrics.ObservePhase(PhaseReport, time.Since(reportStart))

	// 3. Persist
	if len(p.stores) > 0 {
		persistStart := time.Now()
		if err := p.persist(ctx, report); err != nil {
			return res, err
		}
		p.metrics.ObservePhase(PhasePersist, time.Since(persistStart))
	}

	// 4. Metrics
	p.metrics.SetResult(len(report.Teams), len(report.SourceChannels))
	p.metrics.MarkSuccess(p.clock())
	if path := p.cfg.Metrics.Textfile; path != "" {
		if err := p.metrics.WriteTextfile(path); err != nil {
			return res, err
		}
	}

	return res, nil
}

func (p *Pipeline) persist(ctx context.Context, report *reporting.Report) error {
	scores := report.TeamScores()
	if len(scores) == 0 {
		return nil
	}

	for _, rs := range p.stores {
		err := rs.Store.InsertBulk(ctx, scores)
		p.metrics.RecordStoreWrite(rs.Backend, err)
		if err != nil {
			return fmt.Errorf("persist to %s: %w", rs.Backend, err)
		}
		p.logger.Printf("[pipeline] persisted %d team score(s) to %s", len(scores), rs.Backend)
	}
	return nil
}

func summarize(ingest *ingestion.Result, stats scoring.Stats) reporting.RunSummary {
	outcomes := make(map[string]int, len(stats.Outcomes))
	for o, n := range stats.Outcomes {
		outcomes[string(o)] = n
	}

	return reporting.RunSummary{
		Files:                ingest.Files,
		Lines:                ingest.Lines,
		Envelopes:            ingest.Envelopes,
		DecodeErrors:         ingest.DecodeErrors,
		OpaquePackets:        stats.OpaquePackets,
		PacketTransfers:      stats.PacketTransfers,
		IgnoredMessages:      stats.IgnoredMessages,
		ObservedTransactions: stats.ObservedTransactions,
		Outcomes:             outcomes,
	}
}
