package jsonsort_test

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sokinpui/jsonsort.go/cli"
	"github.com/sokinpui/jsonsort.go/jsonsort"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func writeFiles(t *testing.T, files map[string]string) map[string]string {
	t.Helper()
	dir := t.TempDir()
	paths := make(map[string]string, len(files))
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
		paths[name] = path
	}
	return paths
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func bases(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}

func TestExecuteWritesFiles(t *testing.T) {
	paths := writeFiles(t, map[string]string{
		"sorted.json":    "{\"b\":1,\"a\":2}\n",
		"unchanged.json": "{\n  \"a\": 1\n}\n",
		"broken.json":    "{\"a\":\n",
	})
	cfg := &cli.Config{
		Files:  []string{paths["sorted.json"], paths["unchanged.json"], paths["broken.json"]},
		Write:  true,
		Indent: 2,
	}
	app, err := jsonsort.New(cfg, discard)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	var progress [][2]int
	app.SetProgressCallback(func(current, total int) {
		progress = append(progress, [2]int{current, total})
	})

	summary, err := app.Execute()
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if diff := cmp.Diff([]string{"sorted.json"}, bases(summary.Sorted)); diff != "" {
		t.Errorf("sorted mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"unchanged.json"}, bases(summary.Unchanged)); diff != "" {
		t.Errorf("unchanged mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"broken.json"}, bases(summary.Failed)); diff != "" {
		t.Errorf("failed mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][2]int{{0, 3}, {1, 3}, {2, 3}, {3, 3}}, progress); diff != "" {
		t.Errorf("progress mismatch (-want +got):\n%s", diff)
	}

	if got, want := readFile(t, paths["sorted.json"]), "{\n  \"a\": 2,\n  \"b\": 1\n}\n"; got != want {
		t.Errorf("sorted.json = %q, want %q", got, want)
	}
	if got, want := readFile(t, paths["broken.json"]), "{\"a\":\n"; got != want {
		t.Errorf("broken.json was modified: %q", got)
	}
}

func TestExecutePrintsResult(t *testing.T) {
	paths := writeFiles(t, map[string]string{"a.json": `{"b":1,"a":2}`})
	app, err := jsonsort.New(&cli.Config{Files: []string{paths["a.json"]}, Indent: 4}, discard)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	var out bytes.Buffer
	app.SetOutput(&out)

	if _, err := app.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got, want := out.String(), "{\n    \"a\": 2,\n    \"b\": 1\n}"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if got := readFile(t, paths["a.json"]); got != `{"b":1,"a":2}` {
		t.Errorf("file was modified without --write: %q", got)
	}
}

func TestExecutePrintsDiff(t *testing.T) {
	paths := writeFiles(t, map[string]string{"a.json": "{\"b\":1,\"a\":2}\n"})
	app, err := jsonsort.New(&cli.Config{Files: []string{paths["a.json"]}, Diff: true, Indent: 2}, discard)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	var out bytes.Buffer
	app.SetOutput(&out)

	if _, err := app.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	for _, want := range []string{"-{\"b\":1,\"a\":2}", "+  \"a\": 2,", "+  \"b\": 1"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("diff does not contain %q:\n%s", want, out.String())
		}
	}
}

func TestExecuteMissingFile(t *testing.T) {
	app, err := jsonsort.New(&cli.Config{Files: []string{filepath.Join(t.TempDir(), "missing.json")}}, discard)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	app.SetOutput(io.Discard)

	summary, err := app.Execute()
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(summary.Failed) != 1 {
		t.Errorf("expected one failed file, got %+v", summary)
	}
}

func TestExecuteNvimWithoutInstance(t *testing.T) {
	t.Setenv("NVIM", "")
	t.Setenv("NVIM_LISTEN_ADDRESS", "")
	app, err := jsonsort.New(&cli.Config{Nvim: true}, discard)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := app.Execute(); err == nil {
		t.Error("expected an error without a running nvim")
	}
}

func TestNewRequiresConfig(t *testing.T) {
	if _, err := jsonsort.New(nil, nil); err == nil {
		t.Error("expected an error for a nil config")
	}
}

func TestDetailedErrorUnwraps(t *testing.T) {
	base := errors.New("boom")
	err := &jsonsort.DetailedError{Err: base}
	if !errors.Is(err, base) || err.Error() != "boom" {
		t.Errorf("DetailedError does not wrap its cause: %v", err)
	}
}
