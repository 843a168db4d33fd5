package cli

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/textmap/internal/host/memdoc"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand("1.2.3")
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestVersion(t *testing.T) {
	out, err := runCommand(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if out != "textmap 1.2.3\n" {
		t.Errorf("expected version line, got %q", out)
	}
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	file := writeTemp(t, dir, "main.go", "package main\n\nfunc main() {\n}\n")
	output := filepath.Join(dir, "out.png")

	out, err := runCommand(t, "render", file, "-o", output, "--width", "80", "--height", "200")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, "wrote "+output) || !strings.Contains(out, "0 changed") {
		t.Errorf("unexpected summary %q", out)
	}

	f, err := os.Open(output)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 80 || b.Dy() != 200 {
		t.Errorf("expected 80x200 image, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestRenderDefaultOutput(t *testing.T) {
	dir := t.TempDir()
	file := writeTemp(t, dir, "notes.txt", "hello\nworld")

	if _, err := runCommand(t, "render", file); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "notes.png")); err != nil {
		t.Errorf("expected notes.png next to the input: %v", err)
	}
}

func TestRenderBaseline(t *testing.T) {
	dir := t.TempDir()
	old := writeTemp(t, dir, "old.txt", "a\nb\nc\nd")
	file := writeTemp(t, dir, "new.txt", "a\nB\nc\nd\ne")

	out, err := runCommand(t, "render", file, "--baseline", old, "-o", filepath.Join(dir, "x.png"))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, "5 of 5 lines, 2 changed") {
		t.Errorf("expected 2 changed lines, got %q", out)
	}
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	file := writeTemp(t, dir, "a.txt", "a")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing file", []string{"render", filepath.Join(dir, "nope.txt")}, "reading"},
		{"missing baseline", []string{"render", file, "--baseline", filepath.Join(dir, "nope.txt")}, "reading"},
		{"bad size", []string{"render", file, "--width", "0"}, "invalid"},
		{"no args", []string{"render"}, "accepts 1 arg"},
		{"bad level", []string{"render", file, "--log-level", "loud"}, "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestRenderConfigTheme(t *testing.T) {
	dir := t.TempDir()
	file := writeTemp(t, dir, "a.txt", "a")
	cfg := writeTemp(t, dir, "textmap.toml", "[theme]\nname = \"no-such-style\"\n")

	_, err := runCommand(t, "--config", cfg, "render", file, "-o", filepath.Join(dir, "a.png"))
	if err == nil || !strings.Contains(err.Error(), "unknown theme") {
		t.Errorf("expected unknown theme error, got %v", err)
	}
}

func TestRenderBadConfig(t *testing.T) {
	dir := t.TempDir()
	file := writeTemp(t, dir, "a.txt", "a")
	cfg := writeTemp(t, dir, "textmap.yaml", "overview:\n  minScale: 9\n")

	_, err := runCommand(t, "--config", cfg, "render", file)
	if err == nil || !strings.Contains(err.Error(), "invalid") {
		t.Errorf("expected invalid config error, got %v", err)
	}
}

func TestRenderLogFile(t *testing.T) {
	dir := t.TempDir()
	file := writeTemp(t, dir, "a.txt", "a\nb")
	logFile := filepath.Join(dir, "textmap.log")

	if _, err := runCommand(t, "render", file, "--log-level", "debug", "--log-file", logFile); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(data), `"message":"full pass"`) {
		t.Errorf("expected full pass debug log, got %q", data)
	}
}

func TestStaticHostRange(t *testing.T) {
	tests := []struct {
		name              string
		top, bottom       int
		wantTop, wantBott int
	}{
		{"whole document", -1, -1, 0, 9},
		{"given", 2, 5, 2, 5},
		{"bottom clamped", 3, 50, 3, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &staticHost{doc: newDoc(10), top: tt.top, bottom: tt.bottom}
			top, bottom := h.VisibleLineRange()
			if top != tt.wantTop || bottom != tt.wantBott {
				t.Errorf("expected (%d, %d), got (%d, %d)", tt.wantTop, tt.wantBott, top, bottom)
			}
		})
	}
}

func newDoc(n int) *memdoc.Document {
	return memdoc.New(strings.Repeat("x\n", n-1) + "x")
}
