package executor

import "context"

// Executor runs external commands and returns their stdout.
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
	// ExecuteWithInput runs the command with input written to its stdin.
	ExecuteWithInput(ctx context.Context, input string, name string, args ...string) (string, error)
}
