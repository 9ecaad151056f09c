package elements

import (
	"context"
	"strings"
	"text/template"

	"github.com/kbukum/conduit/coerce"
	"github.com/kbukum/conduit/element"
	"github.com/kbukum/conduit/stream"
)

// FormatConfig configures the format element.
type FormatConfig struct {
	// Template is the default text/template applied to each record.
	Template string `mapstructure:"template"`
}

// FormatInput is the per-item input of the format element.
type FormatInput struct {
	Input    any     `mapstructure:"input" validate:"required"`
	Template *string `mapstructure:"template"`
}

// Format renders each record through a text/template. Map and struct
// records expose their fields as template variables; every record is also
// available as .input.
type Format struct {
	element.Base
	cfg FormatConfig
}

func NewFormat() *Format {
	return &Format{cfg: FormatConfig{Template: "{{.input}}"}}
}

func (e *Format) Config() any { return &e.cfg }

func (e *Format) Input() element.Shape {
	return element.NewShape(func() any { return &FormatInput{} })
}

func (e *Format) Process(_ context.Context, in stream.Iterator) stream.Iterator {
	return mapEach(in, func(_ context.Context, item any) (any, error) {
		req := perItem[FormatInput](item)
		e.Apply(req)
		tpl := e.cfg.Template
		if req.Template != nil {
			tpl = *req.Template
		}
		return renderTemplate(tpl, req.Input)
	})
}

// renderTemplate renders a template over a record's field map. Missing
// variables render as zero values rather than failing the record.
func renderTemplate(tpl string, input any) (string, error) {
	t, err := template.New("format").Option("missingkey=zero").Parse(tpl)
	if err != nil {
		return "", err
	}
	vars := templateVars(input)
	var sb strings.Builder
	if err := t.Execute(&sb, vars); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func templateVars(input any) map[string]any {
	vars := make(map[string]any)
	switch input.(type) {
	case string, []byte, nil:
	default:
		for k, v := range coerce.AsMap(input) {
			vars[k] = v
		}
	}
	vars["input"] = input
	return vars
}
