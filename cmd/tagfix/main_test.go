package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tagfix/internal/diag"
	"tagfix/internal/fix"
	"tagfix/internal/project"
)

// execute runs the root command once; flag values stick between runs, so every
// test passes the flags it depends on.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--color", "off", "--ui", "off"}, args...))
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTemplate(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestReadUIMode(t *testing.T) {
	cases := []struct {
		input string
		want  uiMode
	}{
		{"", uiModeAuto},
		{"auto", uiModeAuto},
		{" ON ", uiModeOn},
		{"off", uiModeOff},
	}
	for _, tc := range cases {
		got, err := readUIMode(tc.input)
		if err != nil {
			t.Fatalf("readUIMode(%q) error: %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("readUIMode(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestHandleApplyResult(t *testing.T) {
	res := &fix.ApplyResult{
		Applied: []fix.AppliedFix{{ID: "MIG3001-0-5-0", Title: "wrap in <for>", Applicability: diag.FixApplicabilityAlwaysSafe}},
		Skipped: []fix.SkippedFix{{Title: "rename ref", Reason: "not selected"}},
		FileChanges: []fix.FileChange{
			{Path: "a.marko", FixCount: 1, Written: true},
			{Path: "b.marko", FixCount: 0},
		},
	}
	var buf bytes.Buffer
	if err := handleApplyResult(&buf, res, nil, false); err != nil {
		t.Fatalf("handleApplyResult: %v", err)
	}
	want := "Applied 1 fix(es):\n" +
		"  wrap in <for> [MIG3001-0-5-0] (unknown location) (always-safe)\n" +
		"Updated files:\n" +
		"  a.marko (1 fixes)\n" +
		"Skipped fixes:\n" +
		"  rename ref [(unnamed)]: not selected\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestHandleApplyResultNothingApplied(t *testing.T) {
	var buf bytes.Buffer
	if err := handleApplyResult(&buf, &fix.ApplyResult{}, nil, true); err != nil {
		t.Fatalf("handleApplyResult: %v", err)
	}
	if buf.String() != "no applicable fixes found.\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestFixCommandRewritesFile(t *testing.T) {
	path := writeTemplate(t, "list.marko", "<box for(item, list)>content</box>")
	stdout, _, err := execute(t, "fix", "--all", path)
	if err != nil {
		t.Fatalf("fix: %v", err)
	}
	if !strings.Contains(stdout, "Applied 1 fix(es):") {
		t.Fatalf("missing applied summary in %q", stdout)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "<for(item, list)><box>content</box></for>"; got != want {
		t.Fatalf("file = %q, want %q", got, want)
	}
}

func TestPrintCommandLeavesFileAlone(t *testing.T) {
	input := `<div ref="myRef"/>`
	path := writeTemplate(t, "ref.marko", input)
	stdout, _, err := execute(t, "print", path)
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	if stdout != `<div key="myRef"/>` {
		t.Fatalf("print output = %q", stdout)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != input {
		t.Fatalf("print modified the file: %q", data)
	}
}

func TestInitCommandWritesConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "app")
	stdout, _, err := execute(t, "init", dir)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	path := filepath.Join(dir, project.ConfigName)
	if !strings.Contains(stdout, path) {
		t.Fatalf("init output %q does not mention %s", stdout, path)
	}
	if _, err := project.Load(path); err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if _, _, err := execute(t, "init", dir); err == nil {
		t.Fatal("second init must not overwrite the config")
	}
}
