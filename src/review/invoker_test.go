package review

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"google.golang.org/api/googleapi"
)

func TestAnalyzeMapsOversizeRejection(t *testing.T) {
	session := &fakeSession{
		failOn:  1,
		failErr: &googleapi.Error{Code: 413, Message: "payload too large"},
	}
	inv := AnalysisInvoker{
		Preparer: InlinePreparer{Splitter: fakeSplitter{threshold: 10}},
		Retry:    fastPolicy,
	}

	asset := DocumentAsset{Name: "sow.pdf", MIME: "application/octet-stream", Data: []byte("payload")}
	_, err := inv.Analyze(context.Background(), session, asset, "")
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
}

func TestAnalyzeWrapsOtherSendFailures(t *testing.T) {
	session := &fakeSession{
		failOn:  1,
		failErr: fmt.Errorf("gemini send: %w", &googleapi.Error{Code: 400, Message: "bad request"}),
	}
	inv := AnalysisInvoker{
		Preparer: InlinePreparer{Splitter: fakeSplitter{threshold: 10}},
		Retry:    fastPolicy,
	}

	asset := DocumentAsset{Name: "sow.pdf", MIME: "application/octet-stream", Data: []byte("payload")}
	_, err := inv.Analyze(context.Background(), session, asset, "")
	if err == nil || errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("a non-413 failure must not map to ErrPayloadTooLarge, got %v", err)
	}
}
