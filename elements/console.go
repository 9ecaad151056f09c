package elements

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/kbukum/conduit/element"
	"github.com/kbukum/conduit/stream"
)

// ConsoleConfig configures the console sink element.
type ConsoleConfig struct {
	// Format is the default text/template rendered for each record.
	Format string `mapstructure:"format"`
}

// ConsoleInput is the per-item input of the console element.
type ConsoleInput struct {
	Input  any     `mapstructure:"input"`
	Format *string `mapstructure:"format"`
}

// Console renders each record through a template, writes one line, and
// passes the original record through unchanged.
type Console struct {
	element.Base
	cfg ConsoleConfig
	out io.Writer
}

func NewConsole() *Console {
	return &Console{cfg: ConsoleConfig{Format: "{{.input}}"}, out: os.Stdout}
}

// SetWriter redirects output, e.g. to a buffer in tests.
func (e *Console) SetWriter(w io.Writer) { e.out = w }

func (e *Console) Config() any { return &e.cfg }

func (e *Console) Input() element.Shape {
	return element.NewShape(func() any { return &ConsoleInput{} })
}

func (e *Console) Process(_ context.Context, in stream.Iterator) stream.Iterator {
	return mapEach(in, func(_ context.Context, item any) (any, error) {
		req := perItem[ConsoleInput](item)
		e.Apply(req)
		format := e.cfg.Format
		if req.Format != nil {
			format = *req.Format
		}
		line, err := renderTemplate(format, req.Input)
		if err != nil {
			return nil, err
		}
		if _, err := fmt.Fprintln(e.out, line); err != nil {
			return nil, err
		}
		return req.Input, nil
	})
}
