package database

import (
	"context"
	"sync"
)

type afterCommitKey struct{}

// CommitHooks collects work that must only become visible once the
// surrounding transaction has committed, such as cache invalidation.
type CommitHooks struct {
	mu  sync.Mutex
	fns []func(context.Context)
}

// WithCommitHooks returns a context that defers AfterCommit callbacks into
// the returned hooks instead of running them immediately.
func WithCommitHooks(ctx context.Context) (context.Context, *CommitHooks) {
	hooks := &CommitHooks{}
	return context.WithValue(ctx, afterCommitKey{}, hooks), hooks
}

// AfterCommit runs fn once the transaction carried by ctx commits. Outside a
// transaction fn runs immediately. A rolled back transaction drops fn.
func AfterCommit(ctx context.Context, fn func(context.Context)) {
	hooks, ok := ctx.Value(afterCommitKey{}).(*CommitHooks)
	if !ok || hooks == nil {
		fn(ctx)
		return
	}

	hooks.mu.Lock()
	hooks.fns = append(hooks.fns, fn)
	hooks.mu.Unlock()
}

// Run invokes the collected callbacks in registration order.
func (h *CommitHooks) Run(ctx context.Context) {
	h.mu.Lock()
	fns := h.fns
	h.fns = nil
	h.mu.Unlock()

	for _, fn := range fns {
		fn(ctx)
	}
}

func (h *CommitHooks) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.fns)
}
