package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/litecube/litecube/internal/config"
	"github.com/litecube/litecube/internal/platform"
	"github.com/litecube/litecube/internal/platform/headless"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func headlessConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Backend = "headless"
	cfg.PollInterval = 0
	return cfg
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestRunWindowStopsAfterFrames(t *testing.T) {
	b := headless.New()

	if err := runWindow(b, headlessConfig(), 3, nil, quietLogger()); err != nil {
		t.Fatalf("runWindow() error = %v", err)
	}
	if n := b.LiveWindows(); n != 0 {
		t.Fatalf("LiveWindows() = %d after run, want 0", n)
	}
	if n := b.Creations(); n != 1 {
		t.Fatalf("Creations() = %d, want 1", n)
	}
}

func TestRunWindowStopsOnSignal(t *testing.T) {
	b := headless.New()
	stop := make(chan os.Signal, 1)
	stop <- syscall.SIGTERM

	if err := runWindow(b, headlessConfig(), 0, stop, quietLogger()); err != nil {
		t.Fatalf("runWindow() error = %v", err)
	}
	if n := b.LiveWindows(); n != 0 {
		t.Fatalf("LiveWindows() = %d after run, want 0", n)
	}
}

func TestRunWindowBounces(t *testing.T) {
	b := headless.New()
	cfg := headlessConfig()
	cfg.Bounce.Enabled = true
	cfg.Bounce.Speed = 50

	if err := runWindow(b, cfg, 10, nil, quietLogger()); err != nil {
		t.Fatalf("runWindow() error = %v", err)
	}
}

func TestRunWindowOpenFailure(t *testing.T) {
	b := headless.New()
	b.SetFaults(headless.Faults{CreateWindow: true})

	if err := runWindow(b, headlessConfig(), 1, nil, quietLogger()); err == nil {
		t.Fatal("expected error when window creation fails")
	}
}

func TestProbeReportsGeometry(t *testing.T) {
	b := headless.New()

	r, err := probe(b, headlessConfig(), quietLogger())
	if err != nil {
		t.Fatalf("probe() error = %v", err)
	}

	want := map[string]string{
		"Backend":    "headless",
		"Title":      "Hello, World!",
		"Outer Size": "816x639",
		"Position":   "100,100",
		"Focused":    "true",
		"Work Area":  "1920x1080+0+0",
	}
	for label, wantValue := range want {
		got, ok := r.value(label)
		if !ok || got != wantValue {
			t.Fatalf("%s = %q, want %q", label, got, wantValue)
		}
	}
	if n := b.LiveWindows(); n != 0 {
		t.Fatalf("LiveWindows() = %d after probe, want 0", n)
	}
	if out := r.Render(); !strings.Contains(out, "816x639") {
		t.Fatalf("Render() missing outer size:\n%s", out)
	}
}

func TestBouncerStaysInsideArea(t *testing.T) {
	area := platform.Rect{Width: 100, Height: 80}
	bnc := newBouncer(area, 0, 0, 10, 10, 7)

	hitRight, hitBottom := false, false
	for i := 0; i < 200; i++ {
		x, y := bnc.step()
		if x < 0 || x > 90 || y < 0 || y > 70 {
			t.Fatalf("step %d = (%d, %d), outside area", i, x, y)
		}
		if x == 90 {
			hitRight = true
			if bnc.velocity.X >= 0 {
				t.Fatalf("velocity.X = %v after hitting right edge, want < 0", bnc.velocity.X)
			}
		}
		if y == 70 {
			hitBottom = true
		}
	}
	if !hitRight || !hitBottom {
		t.Fatalf("hitRight=%v hitBottom=%v, want both", hitRight, hitBottom)
	}
}

func TestBouncerKeepsSpeed(t *testing.T) {
	bnc := newBouncer(platform.Rect{Width: 50, Height: 50}, 20, 20, 10, 10, 3)
	for i := 0; i < 100; i++ {
		bnc.step()
		if l := bnc.velocity.Length(); l < 2.999 || l > 3.001 {
			t.Fatalf("speed = %v at step %d, want 3", l, i)
		}
	}
}

func TestOpenBackendHeadless(t *testing.T) {
	b, release, err := openBackend("headless")
	if err != nil {
		t.Fatalf("openBackend() error = %v", err)
	}
	defer release()
	if b.Name() != "headless" {
		t.Fatalf("Name() = %q, want headless", b.Name())
	}
}

func TestRunRunHeadless(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "backend: headless\npoll_interval: 0s\nlog_level: error\n")

	if rc := runRun([]string{"--config", path, "--frames", "2", "--title", "probe"}); rc != 0 {
		t.Fatalf("runRun rc=%d, want 0", rc)
	}
	if rc := runRun([]string{"--config", path, "--width", "0"}); rc != 1 {
		t.Fatalf("runRun with width 0 rc=%d, want 1", rc)
	}
}

func TestRunConfigValidate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, good, "window:\n  title: demo\n")
	writeFile(t, bad, "window:\n  flags: [sideways]\n")

	if rc := runConfig([]string{"validate", "--path", good}); rc != 0 {
		t.Fatalf("validate good rc=%d, want 0", rc)
	}
	if rc := runConfig([]string{"validate", "--path", bad}); rc != 1 {
		t.Fatalf("validate bad rc=%d, want 1", rc)
	}
	if rc := runConfig([]string{"explain", "--path", good, "window.title"}); rc != 0 {
		t.Fatalf("explain rc=%d, want 0", rc)
	}
	if rc := runConfig([]string{"bogus"}); rc != 2 {
		t.Fatalf("bogus rc=%d, want 2", rc)
	}
}

func TestConfigReport(t *testing.T) {
	res := &config.LoadResult{Config: config.DefaultConfig()}
	r := configReport(res)

	if v, _ := r.value("Config File"); v != "(defaults)" {
		t.Fatalf("Config File = %q, want (defaults)", v)
	}
	if v, _ := r.value("Window Size"); v != "800x600" {
		t.Fatalf("Window Size = %q, want 800x600", v)
	}
	if v, _ := r.value("Flags"); v != "resizable|minimize-button|maximize-button" {
		t.Fatalf("Flags = %q", v)
	}
}

func TestFormatSource(t *testing.T) {
	if got := formatSource(config.Source{Kind: config.SourceDefault}); got != "default" {
		t.Fatalf("formatSource(default) = %q", got)
	}
	src := config.Source{Kind: config.SourceFile, File: "/tmp/c.yaml", Line: 3, Column: 5}
	if got := formatSource(src); got != "/tmp/c.yaml:3:5" {
		t.Fatalf("formatSource(file) = %q", got)
	}
}
