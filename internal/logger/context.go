package logger

import "context"

type ctxKey struct{}

type runFields struct {
	runID      string
	transcript string
}

// WithRun tags ctx so every line logged with it carries the run id and transcript name.
func WithRun(ctx context.Context, runID, transcript string) context.Context {
	return context.WithValue(ctx, ctxKey{}, runFields{runID: runID, transcript: transcript})
}

func fieldsFrom(ctx context.Context) (runFields, bool) {
	if ctx == nil {
		return runFields{}, false
	}
	f, ok := ctx.Value(ctxKey{}).(runFields)
	return f, ok
}
