package elements

import (
	"context"
	"regexp"

	"github.com/kbukum/conduit/element"
	"github.com/kbukum/conduit/stream"
)

// ReplaceConfig configures the replace element.
type ReplaceConfig struct {
	// Pattern is the default regular expression to match.
	Pattern string `mapstructure:"pattern"`
	// Replacement is the default replacement text. Supports $1 group refs.
	Replacement string `mapstructure:"replacement"`
}

// ReplaceInput is the per-item input of the replace element.
type ReplaceInput struct {
	Text        string  `mapstructure:"text" validate:"required"`
	Pattern     *string `mapstructure:"pattern"`
	Replacement *string `mapstructure:"replacement"`
}

// Replace performs regex substitution on each record's text.
type Replace struct {
	element.Base
	cfg ReplaceConfig

	lastPattern string
	lastRegexp  *regexp.Regexp
}

func NewReplace() *Replace {
	return &Replace{cfg: ReplaceConfig{Pattern: ".*", Replacement: ""}}
}

func (e *Replace) Config() any { return &e.cfg }

// Init validates the default pattern at build time.
func (e *Replace) Init() error {
	_, err := e.compile(e.cfg.Pattern)
	return err
}

func (e *Replace) Input() element.Shape {
	return element.NewShape(func() any { return &ReplaceInput{} })
}

func (e *Replace) Process(_ context.Context, in stream.Iterator) stream.Iterator {
	return mapEach(in, func(_ context.Context, item any) (any, error) {
		req := perItem[ReplaceInput](item)
		e.Apply(req)
		pattern := e.cfg.Pattern
		if req.Pattern != nil {
			pattern = *req.Pattern
		}
		replacement := e.cfg.Replacement
		if req.Replacement != nil {
			replacement = *req.Replacement
		}
		re, err := e.compile(pattern)
		if err != nil {
			return nil, err
		}
		return re.ReplaceAllString(req.Text, replacement), nil
	})
}

// compile caches the most recent pattern; per-item overrides rarely vary.
func (e *Replace) compile(pattern string) (*regexp.Regexp, error) {
	if e.lastRegexp != nil && e.lastPattern == pattern {
		return e.lastRegexp, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	e.lastPattern, e.lastRegexp = pattern, re
	return re, nil
}
