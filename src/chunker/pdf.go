package chunker

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"

	"github.com/Protocol-Lattice/sow-review/src/review"
)

// splitPDF divides the document into n fragments along page boundaries so
// every fragment remains a structurally valid PDF. Page ranges are evenly
// sized; the last fragment absorbs the remainder.
func (c *Chunker) splitPDF(asset review.DocumentAsset, n, threshold int) ([]review.Fragment, error) {
	rs := bytes.NewReader(asset.Data)
	pages, err := api.PageCount(rs, nil)
	if err != nil {
		return nil, fmt.Errorf("%q: %v: %w", asset.Name, err, review.ErrRaggedDocument)
	}
	if pages < n {
		return nil, fmt.Errorf("%q has %d pages, need %d split points: %w",
			asset.Name, pages, n, review.ErrRaggedDocument)
	}

	per := pages / n
	frags := make([]review.Fragment, 0, n)
	for i := 0; i < n; i++ {
		start := i*per + 1
		end := (i + 1) * per
		if i == n-1 {
			end = pages
		}

		if _, err := rs.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		sel := []string{fmt.Sprintf("%d-%d", start, end)}
		if err := api.Trim(rs, &buf, sel, nil); err != nil {
			return nil, fmt.Errorf("%q pages %d-%d: %v: %w",
				asset.Name, start, end, err, review.ErrRaggedDocument)
		}
		c.logger.Debug("created pdf fragment",
			zap.Int("index", i),
			zap.Int("first_page", start),
			zap.Int("last_page", end),
			zap.Int("size_bytes", buf.Len()))
		frag := review.Fragment{
			Index: i,
			MIME:  asset.MIME,
			Data:  buf.Bytes(),
		}
		c.flagOversize(frag, threshold)
		frags = append(frags, frag)
	}
	return frags, nil
}

// flagOversize warns about a fragment that exceeds the byte threshold.
// Page-boundary fragments are sized by page count, so an image-heavy page
// range can overshoot and the backend may still reject the request.
func (c *Chunker) flagOversize(f review.Fragment, threshold int) {
	if len(f.Data) <= threshold {
		return
	}
	c.logger.Warn("fragment exceeds byte threshold",
		zap.Int("index", f.Index),
		zap.Int("size_bytes", len(f.Data)),
		zap.Int("threshold", threshold))
}
