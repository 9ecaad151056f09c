package pipeline

import (
	"github.com/kbukum/conduit/element"
	"github.com/kbukum/conduit/logger"
)

// Register adds the structural elements that compile sub-pipelines through
// the registry they are registered in.
func Register(reg *element.Registry) {
	reg.Register("fork", func(log *logger.Logger) element.Element {
		return NewFork(reg, log)
	})
	reg.Register("pipeline", func(log *logger.Logger) element.Element {
		return NewNested(reg, log)
	})
}
