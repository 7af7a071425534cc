package review

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"

	"github.com/Protocol-Lattice/sow-review/src/retry"
)

// DefaultInstruction is the final analysis request sent with the document.
const DefaultInstruction = "Review this Document (including its images):"

// AnalysisInvoker submits the target document into a primed session and
// returns the model's free-text response. The injected preparer decides
// between upload handles and inline fragments; when the document was
// split, all fragments travel with the instruction in one request so the
// model sees the whole document in a single reasoning pass.
type AnalysisInvoker struct {
	Preparer DocumentPreparer
	Retry    retry.Policy
	Logger   *zap.Logger
}

// Analyze prepares the asset and sends instruction + document parts.
func (inv AnalysisInvoker) Analyze(ctx context.Context, session ChatSession, asset DocumentAsset, instruction string) (string, error) {
	logger := inv.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if instruction == "" {
		instruction = DefaultInstruction
	}

	docParts, err := inv.Preparer.Prepare(ctx, asset)
	if err != nil {
		return "", err
	}
	logger.Info("document prepared for analysis",
		zap.String("name", asset.Name),
		zap.Int("size_bytes", asset.Size()),
		zap.Int("parts", len(docParts)))

	message := make([]Part, 0, 1+len(docParts))
	message = append(message, TextPart(instruction))
	message = append(message, docParts...)

	text, err := retry.Value(ctx, inv.Retry, "analysis request", func() (string, error) {
		return session.Send(ctx, message...)
	})
	if err != nil {
		if isOversize(err) {
			return "", fmt.Errorf("%v: %w", err, ErrPayloadTooLarge)
		}
		return "", fmt.Errorf("analysis request: %w", err)
	}
	return text, nil
}

// isOversize detects a backend payload-size rejection. The chunker already
// enforced the configured ceiling, so this is terminal: no re-splitting.
// Only the REST transport's 413 is recognized; the gRPC transport reports
// oversize payloads as InvalidArgument, indistinguishable from a malformed
// request, and those surface as a plain analysis error.
func isOversize(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == 413
}
