package chunker

import (
	"bytes"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Protocol-Lattice/sow-review/src/review"
)

func testChunker(threshold, ceiling int) *Chunker {
	c := New(nil)
	c.FragmentThreshold = threshold
	c.MaxDocumentSize = ceiling
	return c
}

func TestSplitSmallDocumentIsIdentity(t *testing.T) {
	data := []byte("well under the threshold")
	frags, err := testChunker(100, 1000).Split(review.DocumentAsset{
		Name: "small.txt", MIME: "text/plain", Data: data,
	})
	if err != nil {
		t.Fatalf("Split returned error: %v", err)
	}
	if len(frags) != 1 {
		t.Fatalf("expected 1 fragment, got %d", len(frags))
	}
	if frags[0].Index != 0 || !bytes.Equal(frags[0].Data, data) {
		t.Fatalf("fragment should be the input unchanged")
	}
}

func TestSplitLargeDocumentPreservesBytesAndOrder(t *testing.T) {
	data := make([]byte, 25)
	for i := range data {
		data[i] = byte(i)
	}
	frags, err := testChunker(10, 1000).Split(review.DocumentAsset{
		Name: "large.bin", MIME: "application/octet-stream", Data: data,
	})
	if err != nil {
		t.Fatalf("Split returned error: %v", err)
	}
	if len(frags) != 3 {
		t.Fatalf("expected 3 fragments for 25 bytes at threshold 10, got %d", len(frags))
	}

	var joined []byte
	for i, f := range frags {
		if f.Index != i {
			t.Fatalf("fragment %d has index %d", i, f.Index)
		}
		if len(f.Data) > 10 {
			t.Fatalf("fragment %d exceeds threshold: %d bytes", i, len(f.Data))
		}
		joined = append(joined, f.Data...)
	}
	if !bytes.Equal(joined, data) {
		t.Fatalf("fragments do not concatenate back to the original")
	}
}

func TestSplitRejectsDocumentOverCeiling(t *testing.T) {
	_, err := testChunker(10, 20).Split(review.DocumentAsset{
		Name: "huge.bin", MIME: "application/octet-stream", Data: make([]byte, 25),
	})
	if !errors.Is(err, review.ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
}

func TestFlagOversizeFragment(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	c := New(zap.New(core))

	c.flagOversize(review.Fragment{Index: 0, Data: make([]byte, 15)}, 10)
	c.flagOversize(review.Fragment{Index: 1, Data: make([]byte, 5)}, 10)

	if logs.Len() != 1 {
		t.Fatalf("expected 1 warning for the oversized fragment, got %d", logs.Len())
	}
	entry := logs.All()[0]
	if entry.Message != "fragment exceeds byte threshold" {
		t.Fatalf("unexpected log message: %q", entry.Message)
	}
}

func TestSplitCorruptPDFFailsRagged(t *testing.T) {
	_, err := testChunker(10, 1000).Split(review.DocumentAsset{
		Name: "broken.pdf", MIME: "application/pdf", Data: []byte("this is not a pdf, 25 b!"),
	})
	if !errors.Is(err, review.ErrRaggedDocument) {
		t.Fatalf("expected ErrRaggedDocument, got %v", err)
	}
}
