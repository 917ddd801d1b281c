package execx

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"auprint/internal/logging"
)

// Cmd describes one external invocation. Env entries are appended to the
// inherited environment; this is the only channel a secret ever travels to a
// child process, keeping it out of argument lists and process tables.
type Cmd struct {
	Name string
	Args []string
	Env  []string
}

// Runner executes external commands. The spooler and discovery tools are the
// source of truth for everything this program does, so all state-changing
// work funnels through here.
type Runner interface {
	// Run executes the command, streaming stderr to the terminal.
	Run(ctx context.Context, cmd Cmd) error
	// Output executes the command and returns its stdout.
	Output(ctx context.Context, cmd Cmd) (string, error)
}

// System runs commands via os/exec.
type System struct{}

func (System) Run(ctx context.Context, cmd Cmd) error {
	c := build(ctx, cmd)
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return nil
}

func (System) Output(ctx context.Context, cmd Cmd) (string, error) {
	c := build(ctx, cmd)
	var out bytes.Buffer
	c.Stdout = &out
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return "", fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return out.String(), nil
}

func build(ctx context.Context, cmd Cmd) *exec.Cmd {
	logging.Command(cmd.Name, cmd.Args)
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	return c
}
