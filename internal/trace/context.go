package trace

import "context"

type ctxKey struct{}

// ctxState is what a context carries: the tracer and the innermost open span.
type ctxState struct {
	tracer Tracer
	parent uint64
}

func stateOf(ctx context.Context) ctxState {
	if ctx != nil {
		if st, ok := ctx.Value(ctxKey{}).(ctxState); ok {
			return st
		}
	}
	return ctxState{tracer: Nop}
}

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return stateOf(ctx).tracer
}

// WithTracer attaches t to ctx. Spans started from the result are roots.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, ctxState{tracer: t})
}

// parentID is the span id new spans and points under ctx are attached to.
func parentID(ctx context.Context) uint64 {
	return stateOf(ctx).parent
}

func withParent(ctx context.Context, id uint64) context.Context {
	st := stateOf(ctx)
	st.parent = id
	return context.WithValue(ctx, ctxKey{}, st)
}
