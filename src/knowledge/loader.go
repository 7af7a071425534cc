// Package knowledge loads and parses the priming material for a review
// run: the prompt file (system instruction plus priming sequence) and the
// validation checklist, which is attached to the first priming prompt.
package knowledge

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/Protocol-Lattice/sow-review/src/review"
)

var (
	promptSplitRe    = regexp.MustCompile(`### Prompt \d+:`)
	systemInstrRe    = regexp.MustCompile(`(?s)System Instructions\s*\n(.+)`)
	firstLineRe      = regexp.MustCompile(`^.*\n`)
	attachedMarkerRe = regexp.MustCompile(`(?i)\*\*\[Attached File:.*\]\*\*\s*\n?`)
	textMarkerRe     = regexp.MustCompile(`(?im)^\*\*Text:\*\*\s*\n?`)
)

// Loader assembles a review.KnowledgeBase from the document source. The
// checklist travels through the same ingestion path as the SoW, so in
// file-handle mode it produces a remote handle the reaper will release.
type Loader struct {
	Source          review.DocumentSource
	Preparer        review.DocumentPreparer
	PromptFileID    string
	ChecklistFileID string
	Logger          *zap.Logger
}

// Load downloads and parses the prompt file, exports the checklist as
// CSV, prepares it for submission, and attaches it to the first priming
// prompt.
func (l *Loader) Load(ctx context.Context) (*review.KnowledgeBase, error) {
	logger := l.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	raw, err := l.Source.Download(ctx, l.PromptFileID)
	if err != nil {
		return nil, fmt.Errorf("download prompt file: %w", err)
	}
	systemInstruction, promptTexts, err := ParsePromptFile(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse prompt file: %w", err)
	}
	logger.Info("prompt file parsed", zap.Int("priming_prompts", len(promptTexts)))

	checklist, err := l.Source.Export(ctx, l.ChecklistFileID, "text/csv")
	if err != nil {
		return nil, fmt.Errorf("export checklist: %w", err)
	}
	checklistParts, err := l.Preparer.Prepare(ctx, review.DocumentAsset{
		Name: "checklist.csv",
		MIME: "text/csv",
		Data: checklist,
	})
	if err != nil {
		return nil, fmt.Errorf("prepare checklist: %w", err)
	}

	prompts := make([]review.PrimingPrompt, len(promptTexts))
	for i, text := range promptTexts {
		prompts[i] = review.PrimingPrompt{Text: text}
	}
	if len(prompts) > 0 {
		prompts[0].Attachments = checklistParts
	}

	return &review.KnowledgeBase{
		SystemInstruction: systemInstruction,
		PrimingPrompts:    prompts,
	}, nil
}

// ParsePromptFile splits the prompt markdown on "### Prompt N:" headings.
// The first section carries the system instructions; the rest become the
// priming sequence with their title line and attachment markers stripped.
func ParsePromptFile(content string) (string, []string, error) {
	sections := promptSplitRe.Split(content, -1)
	if len(sections) < 2 {
		return "", nil, fmt.Errorf("no prompt sections found")
	}

	systemBlock := strings.TrimSpace(sections[1])
	var systemInstruction string
	if m := systemInstrRe.FindStringSubmatch(systemBlock); m != nil {
		systemInstruction = strings.TrimSpace(m[1])
	}
	if systemInstruction == "" {
		return "", nil, fmt.Errorf("prompt file has no system instructions")
	}

	var prompts []string
	for _, section := range sections[2:] {
		text := firstLineRe.ReplaceAllString(section, "")
		text = attachedMarkerRe.ReplaceAllString(text, "")
		text = textMarkerRe.ReplaceAllString(text, "")
		text = strings.TrimSpace(text)
		if text != "" {
			prompts = append(prompts, text)
		}
	}
	if len(prompts) == 0 {
		return "", nil, fmt.Errorf("prompt file has no priming prompts")
	}
	return systemInstruction, prompts, nil
}
