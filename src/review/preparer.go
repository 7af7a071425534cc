package review

import (
	"context"
	"fmt"

	"github.com/Protocol-Lattice/sow-review/src/retry"
)

// InlinePreparer embeds document bytes directly in the request payload,
// splitting oversized documents into ordered fragments first.
type InlinePreparer struct {
	Splitter Splitter
}

func (p InlinePreparer) Prepare(ctx context.Context, asset DocumentAsset) ([]Part, error) {
	frags, err := p.Splitter.Split(asset)
	if err != nil {
		return nil, err
	}
	parts := make([]Part, len(frags))
	for i := range frags {
		parts[i] = Part{Inline: &frags[i]}
	}
	return parts, nil
}

// UploadPreparer uploads the document once and references the returned
// handle. Every handle is registered with the reaper before it is used,
// so cleanup still sees it if the request that follows fails.
type UploadPreparer struct {
	Backend ChatBackend
	Reaper  *Reaper
	Retry   retry.Policy
}

func (p UploadPreparer) Prepare(ctx context.Context, asset DocumentAsset) ([]Part, error) {
	handle, err := retry.Value(ctx, p.Retry, "upload "+asset.Name, func() (*RemoteHandle, error) {
		return p.Backend.Upload(ctx, asset)
	})
	if err != nil {
		return nil, fmt.Errorf("prepare %q: %w", asset.Name, err)
	}
	if p.Reaper != nil {
		p.Reaper.Register(handle)
	}
	return []Part{{Handle: handle}}, nil
}
