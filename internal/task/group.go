package task

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Group runs functions concurrently under a shared context that is canceled
// when the first of them fails.
type Group struct {
	g   *errgroup.Group
	ctx context.Context
}

// NewGroup returns a Group bound to ctx.
func NewGroup(ctx context.Context) *Group {
	g, gctx := errgroup.WithContext(ctx)
	return &Group{g: g, ctx: gctx}
}

// SetLimit caps the number of functions running at once. n < 0 means no limit.
func (g *Group) SetLimit(n int) {
	g.g.SetLimit(n)
}

// Go runs fn in a new goroutine with the group context.
func (g *Group) Go(fn func(ctx context.Context) error) {
	g.g.Go(func() error { return fn(g.ctx) })
}

// Wait blocks until every function has returned and reports the first error.
func (g *Group) Wait() error {
	return g.g.Wait()
}
