// Package chunker splits oversized documents into ordered fragments that
// fit the backend's inline-payload ceiling. Content is never re-encoded:
// opaque formats are sliced on byte boundaries, PDFs on page boundaries.
package chunker

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Protocol-Lattice/sow-review/src/review"
)

const (
	// DefaultFragmentThreshold is the size above which a document is split.
	DefaultFragmentThreshold = 10 << 20 // 10 MB
	// DefaultMaxDocumentSize is the absolute ceiling for a document; past
	// it no amount of splitting helps and the run fails fast.
	DefaultMaxDocumentSize = 30 << 20 // 30 MB
)

// Chunker implements review.Splitter.
type Chunker struct {
	FragmentThreshold int
	MaxDocumentSize   int
	logger            *zap.Logger
}

// New returns a Chunker with the default thresholds.
func New(logger *zap.Logger) *Chunker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chunker{
		FragmentThreshold: DefaultFragmentThreshold,
		MaxDocumentSize:   DefaultMaxDocumentSize,
		logger:            logger,
	}
}

// Split returns the asset as a single fragment when it fits under the
// threshold, otherwise an ordered fragment sequence. Byte order is
// preserved and fragment count is ceil(size/threshold).
func (c *Chunker) Split(asset review.DocumentAsset) ([]review.Fragment, error) {
	threshold := c.FragmentThreshold
	if threshold <= 0 {
		threshold = DefaultFragmentThreshold
	}
	ceiling := c.MaxDocumentSize
	if ceiling <= 0 {
		ceiling = DefaultMaxDocumentSize
	}

	size := asset.Size()
	if size > ceiling {
		return nil, fmt.Errorf("%q is %d bytes, ceiling is %d: %w",
			asset.Name, size, ceiling, review.ErrPayloadTooLarge)
	}
	if size <= threshold {
		return []review.Fragment{{Index: 0, MIME: asset.MIME, Data: asset.Data}}, nil
	}

	n := (size + threshold - 1) / threshold
	c.logger.Info("splitting document",
		zap.String("name", asset.Name),
		zap.Int("size_bytes", size),
		zap.Int("fragments", n))

	if asset.MIME == "application/pdf" {
		return c.splitPDF(asset, n, threshold)
	}
	return byteSplit(asset, n, threshold), nil
}

// byteSplit slices the raw bytes into n contiguous ranges, each at most
// threshold bytes, concatenating back to the original.
func byteSplit(asset review.DocumentAsset, n, threshold int) []review.Fragment {
	frags := make([]review.Fragment, 0, n)
	for i, off := 0, 0; off < len(asset.Data); i++ {
		end := off + threshold
		if end > len(asset.Data) {
			end = len(asset.Data)
		}
		frags = append(frags, review.Fragment{
			Index: i,
			MIME:  asset.MIME,
			Data:  asset.Data[off:end],
		})
		off = end
	}
	return frags
}
