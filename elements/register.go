package elements

import (
	"github.com/kbukum/conduit/element"
	"github.com/kbukum/conduit/logger"
)

// Register adds every built-in element to the registry. The table is the
// complete static mapping of element identifiers; nothing is discovered at
// runtime.
func Register(reg *element.Registry) {
	reg.Register("identity", func(_ *logger.Logger) element.Element { return NewIdentity() })
	reg.Register("empty", func(_ *logger.Logger) element.Element { return NewEmpty() })
	reg.Register("input", func(_ *logger.Logger) element.Element { return NewInput() })
	reg.Register("iterate", func(_ *logger.Logger) element.Element { return NewIterate() })
	reg.Register("random", func(_ *logger.Logger) element.Element { return NewRandom() })
	reg.Register("format", func(_ *logger.Logger) element.Element { return NewFormat() })
	reg.Register("replace", func(_ *logger.Logger) element.Element { return NewReplace() })
	reg.Register("extract", func(_ *logger.Logger) element.Element { return NewExtract() })
	reg.Register("sort", func(_ *logger.Logger) element.Element { return NewSort() })
	reg.Register("groupby", func(_ *logger.Logger) element.Element { return NewGroupBy() })
	reg.Register("csv", func(_ *logger.Logger) element.Element { return NewCSV() })
	reg.Register("console", func(_ *logger.Logger) element.Element { return NewConsole() })
	reg.Register("exec", func(log *logger.Logger) element.Element { return NewExec(log) })
}
