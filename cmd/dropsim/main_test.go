package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/dropsim/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestHeadlessDefault(t *testing.T) {
	out, err := execute(t)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if lines[0] != `Time "Height (R=0.9)"` {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "0 10" {
		t.Errorf("first row = %q", lines[1])
	}
	if len(lines) != 202 {
		t.Errorf("expected header plus 201 rows, got %d lines", len(lines))
	}
	for _, l := range lines[1:] {
		if len(strings.Fields(l)) != 2 {
			t.Fatalf("malformed row %q", l)
		}
	}
}

func TestHeadlessFlags(t *testing.T) {
	out, err := execute(t, "--time", "1", "--output-step", "0.5", "--restitution", "0.5")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if lines[0] != `Time "Height (R=0.5)"` {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 4 {
		t.Errorf("expected 3 rows, got %q", lines[1:])
	}
}

func TestInvalidConfigFails(t *testing.T) {
	if _, err := execute(t, "--dt", "0"); err == nil {
		t.Error("zero timestep should be rejected")
	}
	if _, err := execute(t, "--preset", "nope"); err == nil {
		t.Error("unknown preset should be rejected")
	}
}

func TestConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "in.yaml")
	if err := os.WriteFile(file, []byte("output_step: 0.2\nduration: 12\n"), 0644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "out.yaml")

	if _, err := execute(t, "init-config", path, "--preset", "moon", "--config", file, "--time", "3"); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Gravity != -1.62 {
		t.Errorf("preset gravity lost: %v", cfg.Gravity)
	}
	if cfg.OutputStep != 0.2 {
		t.Errorf("config file output step lost: %v", cfg.OutputStep)
	}
	if cfg.Duration != 3 {
		t.Errorf("flag should win over config file, duration = %v", cfg.Duration)
	}
}

func TestStoredRunCommands(t *testing.T) {
	data := t.TempDir()

	out, err := execute(t, "run", "--save", "--data", data, "--time", "4")
	if err != nil {
		t.Fatal(err)
	}
	var runID string
	for _, l := range strings.Split(out, "\n") {
		if id, ok := strings.CutPrefix(l, "run id: "); ok {
			runID = id
		}
	}
	if runID == "" {
		t.Fatalf("no run id in output:\n%s", out)
	}
	for _, want := range []string{"steps: 4001", "samples: 81", "bounces:"} {
		if !strings.Contains(out, want) {
			t.Errorf("run output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "list", "--data", data)
	if err != nil || !strings.Contains(out, runID) {
		t.Errorf("list: err=%v\n%s", err, out)
	}

	out, err = execute(t, "export-csv", runID, "--data", data)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "time,x,y,z,vx,vy,vz\n0,0,10,0,0,0,0\n") {
		t.Errorf("unexpected csv start:\n%.80s", out)
	}

	out, err = execute(t, "analyze", runID, "--data", data)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "APEX") || !strings.Contains(out, "ground contacts:") {
		t.Errorf("analyze output:\n%s", out)
	}

	svgPath := filepath.Join(data, "run.svg")
	if _, err := execute(t, "export-svg", runID, "--data", data, "-o", svgPath); err != nil {
		t.Fatal(err)
	}
	svg, err := os.ReadFile(svgPath)
	if err != nil || !bytes.Contains(svg, []byte("<svg")) {
		t.Errorf("svg not written: %v", err)
	}

	if _, err := execute(t, "plot", "missing", "--data", data); err == nil {
		t.Error("plotting an unknown run should fail")
	}
}

func TestSweep(t *testing.T) {
	out, err := execute(t, "sweep", "height", "2", "4", "--time", "2", "--workers", "2")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "BOUNCES") {
		t.Errorf("missing table:\n%s", out)
	}
	if _, err := execute(t, "sweep", "colour", "1"); err == nil {
		t.Error("unknown parameter should be rejected")
	}
}

func TestPresets(t *testing.T) {
	out, err := execute(t, "presets")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range config.ListPresets() {
		if !strings.Contains(out, name) {
			t.Errorf("preset %s not listed", name)
		}
	}
}
