package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/conduit/config"
	"github.com/kbukum/conduit/errors"
)

func TestParsePipelineYAML(t *testing.T) {
	descs, err := config.ParsePipelineYAML([]byte(`
- id: input
  data: [1, 2]
- id: sort
  key: size
`), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(descs) != 2 {
		t.Fatalf("expected 2 descriptors, got %v", descs)
	}
	if id, _ := descs[0].ID(); id != "input" {
		t.Fatalf("unexpected first id: %q", id)
	}
	if descs[1]["key"] != "size" {
		t.Fatalf("expected parameters preserved, got %v", descs[1])
	}
}

func TestParsePipelineJSONWithComments(t *testing.T) {
	descs, err := config.ParsePipelineJSON([]byte(`
// The source stage.
[
  {"id": "input"}, /* inline */
  {"id": "console", "format": "a // not a comment"}
]
`), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(descs) != 2 {
		t.Fatalf("expected 2 descriptors, got %v", descs)
	}
	// Comment markers inside string literals survive stripping.
	if descs[1]["format"] != "a // not a comment" {
		t.Fatalf("string literal mangled: %v", descs[1])
	}
}

func TestParsePipelineEmptyFails(t *testing.T) {
	_, err := config.ParsePipelineYAML([]byte("[]"), false)
	if !errors.Is(err, errors.ErrCodeInvalidPipeline) {
		t.Fatalf("expected invalid-pipeline, got %v", err)
	}
}

func TestParsePipelineMissingIDFails(t *testing.T) {
	_, err := config.ParsePipelineYAML([]byte("- key: size"), false)
	if err == nil {
		t.Fatal("expected error for descriptor without id")
	}
	e, ok := errors.As(err)
	if !ok || e.Details["index"] != 0 {
		t.Fatalf("expected the failing index reported, got %v", err)
	}
}

func TestLoadPipelineByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipe.yaml")
	if err := os.WriteFile(path, []byte("- id: identity"), 0o644); err != nil {
		t.Fatalf("cannot write fixture: %v", err)
	}
	descs, err := config.LoadPipeline(path, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(descs) != 1 {
		t.Fatalf("unexpected descriptors: %v", descs)
	}

	bad := filepath.Join(dir, "pipe.txt")
	if err := os.WriteFile(bad, []byte("- id: identity"), 0o644); err != nil {
		t.Fatalf("cannot write fixture: %v", err)
	}
	if _, err := config.LoadPipeline(bad, false); !errors.Is(err, errors.ErrCodeInvalidPipeline) {
		t.Fatalf("expected invalid-pipeline for unknown extension, got %v", err)
	}
}

func TestLoadPipelineMissingFile(t *testing.T) {
	_, err := config.LoadPipeline(filepath.Join(t.TempDir(), "missing.yaml"), false)
	if !errors.Is(err, errors.ErrCodeInvalidPipeline) {
		t.Fatalf("expected invalid-pipeline, got %v", err)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("CONDUIT_TEST_REGION", "eu-1")

	out := config.ExpandEnv("region: ${CONDUIT_TEST_REGION}")
	if out != "region: eu-1" {
		t.Fatalf("unexpected expansion: %q", out)
	}

	out = config.ExpandEnv("level: ${CONDUIT_TEST_UNSET:-debug}")
	if out != "level: debug" {
		t.Fatalf("expected default used, got %q", out)
	}

	out = config.ExpandEnv("level: ${CONDUIT_TEST_UNSET:-'quoted'}")
	if out != "level: quoted" {
		t.Fatalf("expected default unquoted, got %q", out)
	}

	// No default and unset: the reference stays so the parse error names it.
	out = config.ExpandEnv("key: ${CONDUIT_TEST_UNSET}")
	if !strings.Contains(out, "${CONDUIT_TEST_UNSET}") {
		t.Fatalf("expected reference left untouched, got %q", out)
	}
}

func TestParsePipelineYAMLExpandsEnv(t *testing.T) {
	t.Setenv("CONDUIT_TEST_KEY", "size")
	descs, err := config.ParsePipelineYAML([]byte("- id: sort\n  key: ${CONDUIT_TEST_KEY}"), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if descs[0]["key"] != "size" {
		t.Fatalf("expected env expanded, got %v", descs[0])
	}
}
