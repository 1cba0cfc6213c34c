package console

import "context"

type confirmationKey struct{}

// WithConfirmation records the user's answer to the pending question in ctx.
func WithConfirmation(ctx context.Context, confirmed bool) context.Context {
	return context.WithValue(ctx, confirmationKey{}, confirmed)
}

// ContextConfirmer answers from the value stored by WithConfirmation. A request that
// carries no answer is treated as declined.
type ContextConfirmer struct{}

func (ContextConfirmer) Confirm(ctx context.Context, _ string) bool {
	confirmed, _ := ctx.Value(confirmationKey{}).(bool)
	return confirmed
}
