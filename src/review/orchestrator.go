package review

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// State is the orchestrator's position in the pipeline. A run moves
// Idle → KnowledgeLoaded → SessionPrimed → Analyzed → Reported → Cleaned;
// Failed is reachable from any non-terminal state.
type State int

const (
	StateIdle State = iota
	StateKnowledgeLoaded
	StateSessionPrimed
	StateAnalyzed
	StateReported
	StateCleaned
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateKnowledgeLoaded:
		return "knowledge-loaded"
	case StateSessionPrimed:
		return "session-primed"
	case StateAnalyzed:
		return "analyzed"
	case StateReported:
		return "reported"
	case StateCleaned:
		return "cleaned"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Config carries the run parameters for the orchestrator.
type Config struct {
	// SoWFileID is the document under review.
	SoWFileID string
	// SoWMIME is the export format requested for it.
	SoWMIME string
	// TemplateID is the report template spreadsheet.
	TemplateID string
	// Anchor is where table rows start.
	Anchor Anchor
	// Instruction is the final analysis request text.
	Instruction string
	// TitlePrefix prefixes the report name; the SoW's base name follows.
	TitlePrefix string
}

const fallbackTitleSuffix = "Analyzed SoW"

// Options wire an Orchestrator.
type Options struct {
	Knowledge KnowledgeLoader
	Sessions  SessionBuilder
	Invoker   AnalysisInvoker
	Extractor Extractor
	Reports   ReportWriter
	Reaper    *Reaper
	Source    DocumentSource
	Config    Config
	Logger    *zap.Logger
}

// Orchestrator sequences the five phases of a review run and guarantees
// cleanup on every exit path. One orchestrator serves exactly one run;
// nothing here is shared across runs.
type Orchestrator struct {
	knowledge KnowledgeLoader
	sessions  SessionBuilder
	invoker   AnalysisInvoker
	extractor Extractor
	reports   ReportWriter
	reaper    *Reaper
	source    DocumentSource
	config    Config
	logger    *zap.Logger

	state State
}

// New validates the wiring and returns an Orchestrator in state Idle.
func New(opts Options) (*Orchestrator, error) {
	switch {
	case opts.Knowledge == nil:
		return nil, errors.New("orchestrator requires a knowledge loader")
	case opts.Source == nil:
		return nil, errors.New("orchestrator requires a document source")
	case opts.Reaper == nil:
		return nil, errors.New("orchestrator requires a reaper")
	case opts.Config.SoWFileID == "":
		return nil, errors.New("orchestrator requires a SoW file ID")
	case opts.Config.TemplateID == "":
		return nil, errors.New("orchestrator requires a template ID")
	}
	cfg := opts.Config
	if cfg.SoWMIME == "" {
		cfg.SoWMIME = "application/pdf"
	}
	if cfg.Instruction == "" {
		cfg.Instruction = DefaultInstruction
	}
	if cfg.TitlePrefix == "" {
		cfg.TitlePrefix = "Checklist"
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		knowledge: opts.Knowledge,
		sessions:  opts.Sessions,
		invoker:   opts.Invoker,
		extractor: opts.Extractor,
		reports:   opts.Reports,
		reaper:    opts.Reaper,
		source:    opts.Source,
		config:    cfg,
		logger:    logger,
	}, nil
}

// State returns the current pipeline state.
func (o *Orchestrator) State() State { return o.state }

// Run executes the complete review and returns the report URL. The reaper
// runs on every exit path before the error propagates.
func (o *Orchestrator) Run(ctx context.Context) (url string, err error) {
	defer func() {
		// Cleanup must still reach the backend after a deadline expiry.
		released := o.reaper.ReleaseAll(context.WithoutCancel(ctx))
		o.logger.Info("cleanup complete", zap.Int("released", released))
		if err == nil && o.state == StateReported {
			o.setState(StateCleaned)
		}
	}()

	kb, err := o.knowledge.Load(ctx)
	if err != nil {
		return "", o.fail(PhasePrepareKnowledge, err)
	}
	o.setState(StateKnowledgeLoaded)

	session, err := o.sessions.Build(ctx, kb)
	if err != nil {
		return "", o.fail(PhaseBuildSession, err)
	}
	o.setState(StateSessionPrimed)

	asset, err := o.fetchSoW(ctx)
	if err != nil {
		return "", o.fail(PhaseAnalyze, err)
	}
	analysis, err := o.invoker.Analyze(ctx, session, asset, o.config.Instruction)
	if err != nil {
		return "", o.fail(PhaseAnalyze, err)
	}
	o.setState(StateAnalyzed)

	table, err := o.extractor.Extract(analysis)
	if err != nil {
		return "", o.fail(PhaseReport, err)
	}
	url, err = o.reports.Write(ctx, o.config.TemplateID, o.reportTitle(asset.Name), table, o.config.Anchor)
	if err != nil {
		return "", o.fail(PhaseReport, err)
	}
	o.setState(StateReported)
	return url, nil
}

func (o *Orchestrator) fetchSoW(ctx context.Context) (DocumentAsset, error) {
	data, err := o.source.Export(ctx, o.config.SoWFileID, o.config.SoWMIME)
	if err != nil {
		return DocumentAsset{}, fmt.Errorf("export SoW: %w", err)
	}

	name := "sow" + extFor(o.config.SoWMIME)
	// Best effort only: a permission problem on metadata must not kill a
	// run the export itself survived.
	if display, nerr := o.source.FileName(ctx, o.config.SoWFileID); nerr == nil {
		name = display
	} else {
		o.logger.Warn("could not read SoW name, using default", zap.Error(nerr))
	}
	return DocumentAsset{Name: name, MIME: o.config.SoWMIME, Data: data}, nil
}

func (o *Orchestrator) reportTitle(sowName string) string {
	base := strings.TrimSuffix(sowName, filepath.Ext(sowName))
	if strings.TrimSpace(base) == "" {
		base = fallbackTitleSuffix
	}
	return o.config.TitlePrefix + " - " + base
}

func (o *Orchestrator) setState(next State) {
	o.logger.Info("phase complete",
		zap.Stringer("from", o.state),
		zap.Stringer("to", next))
	o.state = next
}

func (o *Orchestrator) fail(phase Phase, err error) error {
	o.logger.Error("run failed",
		zap.String("phase", string(phase)),
		zap.Stringer("state", o.state),
		zap.Error(err))
	o.state = StateFailed
	return failPhase(phase, err)
}

func extFor(mime string) string {
	switch mime {
	case "application/pdf":
		return ".pdf"
	case "text/csv":
		return ".csv"
	default:
		return ""
	}
}
