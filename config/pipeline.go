package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/conduit/element"
	"github.com/kbukum/conduit/errors"
)

// LoadPipeline reads a pipeline definition file: a YAML or JSON list of
// stage descriptors. JSON files may carry // and /* */ comments. With
// expandEnv set, ${VAR} and ${VAR:-default} references are substituted
// before parsing.
func LoadPipeline(path string, expandEnv bool) ([]element.Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.InvalidPipeline("cannot read pipeline file " + path).WithCause(err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return ParsePipelineYAML(data, expandEnv)
	case ".json", ".jsonc":
		return ParsePipelineJSON(data, expandEnv)
	default:
		return nil, errors.InvalidPipeline(fmt.Sprintf("unsupported pipeline file extension %q", ext))
	}
}

// ParsePipelineYAML parses a YAML descriptor list.
func ParsePipelineYAML(data []byte, expandEnv bool) ([]element.Descriptor, error) {
	if expandEnv {
		data = []byte(ExpandEnv(string(data)))
	}
	var descs []element.Descriptor
	if err := yaml.Unmarshal(data, &descs); err != nil {
		return nil, errors.InvalidPipeline("cannot parse pipeline YAML").WithCause(err)
	}
	return normalize(descs)
}

// ParsePipelineJSON parses a JSON descriptor list, tolerating comments.
func ParsePipelineJSON(data []byte, expandEnv bool) ([]element.Descriptor, error) {
	if expandEnv {
		data = []byte(ExpandEnv(string(data)))
	}
	var descs []element.Descriptor
	if err := json.Unmarshal(stripComments(data), &descs); err != nil {
		return nil, errors.InvalidPipeline("cannot parse pipeline JSON").WithCause(err)
	}
	return normalize(descs)
}

// normalize verifies every descriptor names its element.
func normalize(descs []element.Descriptor) ([]element.Descriptor, error) {
	if len(descs) == 0 {
		return nil, errors.InvalidPipeline("pipeline definition is empty")
	}
	for i, desc := range descs {
		if _, err := desc.ID(); err != nil {
			if e, ok := errors.As(err); ok {
				return nil, e.WithDetail("index", i)
			}
			return nil, err
		}
	}
	return descs, nil
}

// ExpandEnv substitutes ${VAR} and ${VAR:-default} references. An
// unset variable without a default is left untouched, so the parse error
// points at the reference instead of silently dropping it.
func ExpandEnv(text string) string {
	return envRef.ReplaceAllStringFunc(text, func(match string) string {
		expr := match[2 : len(match)-1]
		name, def, hasDef := strings.Cut(expr, ":-")
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		if hasDef {
			return strings.Trim(def, `'"`)
		}
		return match
	})
}
