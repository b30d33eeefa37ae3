package ports

import "context"

// Confirmer asks the operator to approve a pending mutation. Returning false
// aborts the mutation with nothing written.
type Confirmer interface {
	Confirm(ctx context.Context, summary string) bool
}

// ConfirmerFunc adapts a plain function to Confirmer.
type ConfirmerFunc func(ctx context.Context, summary string) bool

func (f ConfirmerFunc) Confirm(ctx context.Context, summary string) bool {
	return f(ctx, summary)
}

// AutoConfirm approves every mutation.
var AutoConfirm Confirmer = ConfirmerFunc(func(context.Context, string) bool { return true })
