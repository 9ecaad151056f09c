package elements

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/kbukum/conduit/element"
	"github.com/kbukum/conduit/stream"
)

// CSVConfig configures the csv reader element.
type CSVConfig struct {
	// Delimiter is the field separator, a single character.
	Delimiter string `mapstructure:"delimiter"`
	// Fieldnames overrides the header row. When empty the first row of each
	// file names the columns.
	Fieldnames []string `mapstructure:"fieldnames"`
	// SkipEmptyRows drops rows whose fields are all empty.
	SkipEmptyRows bool `mapstructure:"skip_empty_rows"`
}

// CSVInput is the per-item input of the csv reader element. Input is a file
// path or the raw CSV content when inline is set.
type CSVInput struct {
	Input      string    `mapstructure:"input" validate:"required"`
	Inline     *bool     `mapstructure:"inline"`
	Delimiter  *string   `mapstructure:"delimiter"`
	Fieldnames *[]string `mapstructure:"fieldnames"`
}

// CSV reads delimited files and emits one map per row, keyed by column
// name. Rows stream out lazily per file.
type CSV struct {
	element.Base
	cfg CSVConfig
}

func NewCSV() *CSV {
	return &CSV{cfg: CSVConfig{Delimiter: ",", SkipEmptyRows: true}}
}

func (e *CSV) Config() any { return &e.cfg }

func (e *CSV) Input() element.Shape {
	return element.NewShape(func() any { return &CSVInput{} })
}

func (e *CSV) Process(_ context.Context, in stream.Iterator) stream.Iterator {
	return flatEach(in, func(_ context.Context, item any) ([]any, error) {
		req := perItem[CSVInput](item)
		e.Apply(req)

		delimiter := e.cfg.Delimiter
		if req.Delimiter != nil {
			delimiter = *req.Delimiter
		}
		fieldnames := e.cfg.Fieldnames
		if req.Fieldnames != nil {
			fieldnames = *req.Fieldnames
		}

		var src io.Reader
		if req.Inline != nil && *req.Inline {
			src = strings.NewReader(req.Input)
		} else {
			f, err := os.Open(req.Input)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			src = f
		}
		return e.readRows(src, delimiter, fieldnames)
	})
}

func (e *CSV) readRows(src io.Reader, delimiter string, fieldnames []string) ([]any, error) {
	r := csv.NewReader(src)
	if delimiter != "" {
		r.Comma, _ = utf8.DecodeRuneInString(delimiter)
	}
	r.FieldsPerRecord = -1

	header := fieldnames
	var rows []any
	for {
		record, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		if header == nil {
			header = record
			continue
		}
		if e.cfg.SkipEmptyRows && allEmpty(record) {
			continue
		}
		row := make(map[string]any, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			} else {
				row[name] = ""
			}
		}
		// Extra cells beyond the header get positional keys.
		for i := len(header); i < len(record); i++ {
			row[fmt.Sprintf("_%d", i)] = record[i]
		}
		rows = append(rows, row)
	}
}

func allEmpty(record []string) bool {
	for _, v := range record {
		if v != "" {
			return false
		}
	}
	return true
}
