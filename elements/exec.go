package elements

import (
	"context"
	"strings"
	"time"

	"github.com/kbukum/conduit/element"
	"github.com/kbukum/conduit/logger"
	"github.com/kbukum/conduit/process"
	"github.com/kbukum/conduit/stream"
)

// ExecConfig configures the exec element.
type ExecConfig struct {
	// Command is the default executable to run.
	Command string `mapstructure:"command" validate:"required"`
	// Args are the default command-line arguments. Each argument is
	// rendered as a template over the record before execution.
	Args []string `mapstructure:"args"`
	// Dir is the working directory.
	Dir string `mapstructure:"dir"`
	// Timeout bounds each execution, in seconds. Zero means unbounded.
	Timeout int `mapstructure:"timeout"`
	// CaptureOutput yields the process stdout instead of the exit code.
	CaptureOutput bool `mapstructure:"capture_output"`
	// Check fails the record on a non-zero exit code.
	Check bool `mapstructure:"check"`
}

// ExecInput is the per-item input of the exec element.
type ExecInput struct {
	Input   any       `mapstructure:"input"`
	Command *string   `mapstructure:"command"`
	Args    *[]string `mapstructure:"args"`
	Dir     *string   `mapstructure:"dir"`
	Timeout *int      `mapstructure:"timeout"`
}

// Exec runs a subprocess per record and emits its stdout or exit code.
type Exec struct {
	element.Base
	cfg ExecConfig
	log *logger.Logger
}

func NewExec(log *logger.Logger) *Exec {
	return &Exec{log: log}
}

func (e *Exec) Config() any { return &e.cfg }

func (e *Exec) Input() element.Shape {
	return element.NewShape(func() any { return &ExecInput{} })
}

func (e *Exec) Process(_ context.Context, in stream.Iterator) stream.Iterator {
	return mapEach(in, func(ctx context.Context, item any) (any, error) {
		req := perItem[ExecInput](item)
		e.Apply(req)

		command := e.cfg.Command
		if req.Command != nil {
			command = *req.Command
		}
		args := e.cfg.Args
		if req.Args != nil {
			args = *req.Args
		}
		dir := e.cfg.Dir
		if req.Dir != nil {
			dir = *req.Dir
		}
		timeout := e.cfg.Timeout
		if req.Timeout != nil {
			timeout = *req.Timeout
		}

		rendered, err := renderArgs(args, req.Input)
		if err != nil {
			return nil, err
		}

		e.log.Debug("running command", logger.Fields("command", command, "args", strings.Join(rendered, " ")))
		result, err := process.Run(ctx, process.Command{
			Binary:  command,
			Args:    rendered,
			Dir:     dir,
			Timeout: time.Duration(timeout) * time.Second,
		})
		if err != nil && (e.cfg.Check || result == nil) {
			return nil, err
		}

		if e.cfg.CaptureOutput {
			return string(result.Stdout), nil
		}
		return result.ExitCode, nil
	})
}

func renderArgs(args []string, input any) ([]string, error) {
	rendered := make([]string, len(args))
	for i, arg := range args {
		if !strings.Contains(arg, "{{") {
			rendered[i] = arg
			continue
		}
		out, err := renderTemplate(arg, input)
		if err != nil {
			return nil, err
		}
		rendered[i] = out
	}
	return rendered, nil
}
