package review

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Reaper tracks remote handles created during a run and releases them on
// completion, success or failure. Release is best-effort: failures are
// logged, never raised, so cleanup cannot mask the run's primary result.
type Reaper struct {
	mu      sync.Mutex
	backend ChatBackend
	handles []*RemoteHandle
	logger  *zap.Logger
}

// NewReaper creates a Reaper bound to the backend that owns the handles.
func NewReaper(backend ChatBackend, logger *zap.Logger) *Reaper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reaper{backend: backend, logger: logger}
}

// Register adds a handle to the registry.
func (r *Reaper) Register(h *RemoteHandle) {
	if h == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handles = append(r.handles, h)
}

// Pending returns the number of registered handles still in state
// Uploaded.
func (r *Reaper) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, h := range r.handles {
		if h.State == HandleUploaded {
			n++
		}
	}
	return n
}

// ReleaseAll releases every handle still in state Uploaded and returns
// how many were released.
func (r *Reaper) ReleaseAll(ctx context.Context) int {
	r.mu.Lock()
	handles := make([]*RemoteHandle, len(r.handles))
	copy(handles, r.handles)
	r.mu.Unlock()

	released := 0
	for _, h := range handles {
		if h.State != HandleUploaded {
			continue
		}
		if err := r.backend.Release(ctx, h); err != nil {
			r.logger.Warn("could not release remote handle",
				zap.String("resource", h.Name),
				zap.Error(err))
			continue
		}
		h.State = HandleReleased
		released++
		r.logger.Info("remote handle released", zap.String("resource", h.Name))
	}
	return released
}
