package blob

import (
	"context"
	"errors"
	"time"

	"github.com/sitebox/sitebox/pkg/sblog"
)

// defaultProbeTimeout bounds each existence probe so one unreachable
// backend cannot hang a read; the probe loop just moves on.
const defaultProbeTimeout = 2 * time.Second

// Router multiplexes between the configured backends.
//
// Writes go to object storage and fall back to local disk only when the
// backend is unreachable; any other failure (auth, quota, malformed key)
// propagates, because silently falling back would mask misconfiguration.
//
// Reads probe local first, then primary and secondary object storage, so
// projects stored before a backend migration remain servable.
type Router struct {
	local     Store
	primary   Store // object storage; nil when unconfigured
	secondary Store // nil when unconfigured

	probeTimeout time.Duration
	logger       *sblog.Logger
}

// NewRouter creates a Router. local is required; primary and secondary
// may be nil.
func NewRouter(local Store, primary, secondary Store, logger *sblog.Logger) *Router {
	if logger == nil {
		logger = sblog.NewDefault()
	}
	return &Router{
		local:        local,
		primary:      primary,
		secondary:    secondary,
		probeTimeout: defaultProbeTimeout,
		logger:       logger,
	}
}

// backends returns the read-probe order: local, primary, secondary.
func (r *Router) backends() []Store {
	out := []Store{r.local}
	if r.primary != nil {
		out = append(out, r.primary)
	}
	if r.secondary != nil {
		out = append(out, r.secondary)
	}
	return out
}

// writeTarget is the preferred backend for new objects.
func (r *Router) writeTarget() Store {
	if r.primary != nil {
		return r.primary
	}
	if r.secondary != nil {
		return r.secondary
	}
	return r.local
}

// Put stores the object and returns the name of the backend holding it.
// An unreachable object store is retried once, then the write falls back
// to local disk.
func (r *Router) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	target := r.writeTarget()

	err := target.Put(ctx, key, data, contentType)
	if err != nil && ClassOf(err) == ClassUnreachable {
		r.logger.Warn("object store unreachable, retrying", "backend", target.Name(), "key", key, "error", err)
		err = target.Put(ctx, key, data, contentType)
	}
	if err == nil {
		return target.Name(), nil
	}

	if ClassOf(err) != ClassUnreachable || target == r.local {
		return "", err
	}

	r.logger.Warn("falling back to local storage", "backend", target.Name(), "key", key, "error", err)
	if err := r.local.Put(ctx, key, data, contentType); err != nil {
		return "", err
	}
	return r.local.Name(), nil
}

// Exists probes the backends in order; the first hit wins. Each probe is
// individually bounded so a dead backend cannot stall the request.
func (r *Router) Exists(ctx context.Context, key string) bool {
	return r.findBackend(ctx, key) != nil
}

func (r *Router) findBackend(ctx context.Context, key string) Store {
	for _, b := range r.backends() {
		probeCtx, cancel := context.WithTimeout(ctx, r.probeTimeout)
		ok := b.Exists(probeCtx, key)
		cancel()
		if ok {
			return b
		}
	}
	return nil
}

// Get serves the object from the first backend that has it.
func (r *Router) Get(ctx context.Context, key string) ([]byte, string, error) {
	b := r.findBackend(ctx, key)
	if b == nil {
		return nil, "", newError("router", ClassNotFound, errors.New("no backend holds "+key))
	}
	return b.Get(ctx, key)
}

// DeletePrefix removes the prefix from every configured backend,
// tolerating backends that never held the data. Partial failures are
// aggregated and returned alongside the count of objects removed; the
// caller decides whether a partial delete aborts anything.
func (r *Router) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	total := 0
	var errs []error

	for _, b := range r.backends() {
		n, err := b.DeletePrefix(ctx, prefix)
		total += n
		if err != nil && ClassOf(err) != ClassNotFound {
			r.logger.Warn("prefix delete failed", "backend", b.Name(), "prefix", prefix, "error", err)
			errs = append(errs, err)
		}
	}

	return total, errors.Join(errs...)
}
