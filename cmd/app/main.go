// Command app runs a full SoW review: primes a Gemini session with the
// configured knowledge base, analyzes the target document, and writes the
// parsed findings into a copy of the report template.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/Protocol-Lattice/sow-review/src/chunker"
	"github.com/Protocol-Lattice/sow-review/src/config"
	"github.com/Protocol-Lattice/sow-review/src/drive"
	"github.com/Protocol-Lattice/sow-review/src/gemini"
	"github.com/Protocol-Lattice/sow-review/src/knowledge"
	"github.com/Protocol-Lattice/sow-review/src/logging"
	"github.com/Protocol-Lattice/sow-review/src/retry"
	"github.com/Protocol-Lattice/sow-review/src/review"
	"github.com/Protocol-Lattice/sow-review/src/sheets"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file")
		sowURL     = flag.String("sow", "", "URL of the SoW document to review")
		verbose    = flag.Bool("verbose", false, "enable debug logging")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *sowURL != "" {
		cfg.SoWURL = *sowURL
	}
	if *verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := logging.New(cfg.Verbose, cfg.LogFile)
	defer logger.Sync()
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	url, err := run(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("review failed", zap.Error(err))
		color.Red("SoW review failed: %v", err)
		os.Exit(1)
	}
	color.Green("SoW review complete")
	fmt.Printf("Report: %s\n", url)
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) (string, error) {
	sowID, err := drive.IDFromURL(cfg.SoWURL)
	if err != nil {
		return "", err
	}
	promptID, err := drive.IDFromURL(cfg.PromptURL)
	if err != nil {
		return "", err
	}
	checklistID, err := drive.IDFromURL(cfg.ChecklistURL)
	if err != nil {
		return "", err
	}
	templateID, err := drive.IDFromURL(cfg.TemplateURL)
	if err != nil {
		return "", err
	}
	anchor, err := review.ParseAnchor(cfg.StartCell)
	if err != nil {
		return "", err
	}

	mode := gemini.DetectMode(cfg.ProjectID)
	logger.Info("ingestion mode selected",
		zap.Stringer("mode", mode),
		zap.String("project_id", cfg.ProjectID),
		zap.String("location", cfg.Location))

	base := time.Duration(cfg.BackoffBaseMillis) * time.Millisecond
	geminiPolicy := retry.Policy{
		MaxAttempts: cfg.MaxAttempts,
		BaseDelay:   base,
		Classify:    retry.TransientGemini,
		Logger:      logger,
	}
	httpPolicy := retry.Policy{
		MaxAttempts: cfg.MaxAttempts,
		BaseDelay:   base,
		Classify:    retry.TransientHTTP,
		Logger:      logger,
	}

	gem, err := gemini.NewClient(ctx, gemini.Options{
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		Logger:      logger,
	})
	if err != nil {
		return "", err
	}
	defer gem.Close()

	var clientOpts []option.ClientOption
	if cfg.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	driveSvc, err := drive.NewService(ctx, logger, httpPolicy, clientOpts...)
	if err != nil {
		return "", err
	}
	sheetSvc, err := sheets.NewService(ctx, driveSvc, logger, httpPolicy, clientOpts...)
	if err != nil {
		return "", err
	}

	split := chunker.New(logger)
	split.FragmentThreshold = cfg.FragmentThresholdMB << 20
	split.MaxDocumentSize = cfg.MaxDocumentMB << 20

	reaper := review.NewReaper(gem, logger)
	var preparer review.DocumentPreparer
	if mode == gemini.ModeInlinePayload {
		preparer = review.InlinePreparer{Splitter: split}
	} else {
		preparer = review.UploadPreparer{Backend: gem, Reaper: reaper, Retry: geminiPolicy}
	}

	orch, err := review.New(review.Options{
		Knowledge: &knowledge.Loader{
			Source:          driveSvc,
			Preparer:        preparer,
			PromptFileID:    promptID,
			ChecklistFileID: checklistID,
			Logger:          logger,
		},
		Sessions:  review.SessionBuilder{Backend: gem, Retry: geminiPolicy, Logger: logger},
		Invoker:   review.AnalysisInvoker{Preparer: preparer, Retry: geminiPolicy, Logger: logger},
		Extractor: review.Extractor{PadRagged: cfg.PadRaggedRows, Logger: logger},
		Reports:   review.ReportWriter{Backend: sheetSvc, SheetName: cfg.TargetSheetName, Logger: logger},
		Reaper:    reaper,
		Source:    driveSvc,
		Config: review.Config{
			SoWFileID:  sowID,
			TemplateID: templateID,
			Anchor:     anchor,
		},
		Logger: logger,
	})
	if err != nil {
		return "", err
	}
	return orch.Run(ctx)
}
