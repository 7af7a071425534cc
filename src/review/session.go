package review

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Protocol-Lattice/sow-review/src/retry"
)

// SessionBuilder establishes a primed chat session by replaying the
// knowledge base's priming prompts in order. Priming order is significant:
// later prompts presuppose context established by earlier ones, so steps
// run strictly sequentially and a failed step is fatal — a partially
// primed session is not usable.
type SessionBuilder struct {
	Backend ChatBackend
	Retry   retry.Policy
	Logger  *zap.Logger
}

// Build creates the session, applies the system instruction, and executes
// each priming exchange. Responses are discarded; only the accumulated
// session state matters.
func (b SessionBuilder) Build(ctx context.Context, kb *KnowledgeBase) (ChatSession, error) {
	logger := b.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	session, err := b.Backend.NewSession(ctx, kb.SystemInstruction)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	total := len(kb.PrimingPrompts)
	for i, prompt := range kb.PrimingPrompts {
		parts := make([]Part, 0, 1+len(prompt.Attachments))
		parts = append(parts, TextPart(prompt.Text))
		parts = append(parts, prompt.Attachments...)

		step := fmt.Sprintf("priming step %d/%d", i+1, total)
		logger.Info("executing priming step",
			zap.Int("step", i+1),
			zap.Int("total", total),
			zap.Int("attachments", len(prompt.Attachments)))
		if _, err := retry.Value(ctx, b.Retry, step, func() (string, error) {
			return session.Send(ctx, parts...)
		}); err != nil {
			return nil, fmt.Errorf("%s: %w", step, err)
		}
	}
	logger.Info("chat context primed", zap.Int("steps", total))
	return session, nil
}
