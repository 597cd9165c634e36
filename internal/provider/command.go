package provider

import (
	"context"
	"strings"

	"github.com/nguyentantai21042004/minutes-flow/pkg/executor"
)

type commandProvider struct {
	name    string
	command string
	args    []string
	exec    executor.Executor
}

// NewCommand creates a Provider that runs a local CLI model. Arguments may use
// {model} and {prompt}; without {prompt} the prompt is written to stdin.
func NewCommand(name, command string, args []string, exec executor.Executor) Provider {
	return &commandProvider{
		name:    name,
		command: command,
		args:    args,
		exec:    exec,
	}
}

func (p *commandProvider) Name() string {
	return p.name
}

func (p *commandProvider) Generate(ctx context.Context, req Request) (string, error) {
	args := make([]string, len(p.args))
	inline := false
	for i, a := range p.args {
		if strings.Contains(a, "{prompt}") {
			inline = true
		}
		a = strings.ReplaceAll(a, "{model}", req.Model)
		args[i] = strings.ReplaceAll(a, "{prompt}", req.Prompt)
	}

	if inline {
		return p.exec.Execute(ctx, p.command, args...)
	}
	return p.exec.ExecuteWithInput(ctx, req.Prompt, p.command, args...)
}
