package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/metbands/internal/ops"
)

// setupRun writes a manifest and recordings for the given subjects; a
// subject with zero rows gets no file.
func setupRun(t *testing.T, rows map[string]int) (dataDir, manifest string) {
	t.Helper()
	dataDir = t.TempDir()
	var m strings.Builder
	m.WriteString("pid\n")
	for id, n := range rows {
		m.WriteString(id + "\n")
		if n == 0 {
			continue
		}
		var b strings.Builder
		b.WriteString("time,annotation\n")
		for i := 0; i < n; i++ {
			fmt.Fprintf(&b, "t%d,\"walking;MET 3.5\"\n", i)
		}
		if err := os.WriteFile(filepath.Join(dataDir, id+".csv"), []byte(b.String()), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	manifest = filepath.Join(dataDir, "Metadata1.csv")
	if err := os.WriteFile(manifest, []byte(m.String()), 0o644); err != nil {
		t.Fatal(err)
	}
	return dataDir, manifest
}

func runApp(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newCLIApp(&out, &errOut)
	err = app.Run(append([]string{"metbands"}, args...))
	return out.String(), errOut.String(), err
}

func exitCode(err error) int {
	if ec, ok := err.(cli.ExitCoder); ok {
		return ec.ExitCode()
	}
	return -1
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty", "", nil},
		{"single", "csv", []string{"csv"}},
		{"multiple", "xlsx,csv,html", []string{"xlsx", "csv", "html"}},
		{"spaces and blanks", " xlsx , ,csv ", []string{"xlsx", "csv"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseList(tt.input)
			if fmt.Sprint(got) != fmt.Sprint(tt.expected) || len(got) != len(tt.expected) {
				t.Errorf("parseList(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRunCommand(t *testing.T) {
	dataDir, manifest := setupRun(t, map[string]int{"P1": 10, "P2": 5, "P3": 0})
	outPath := filepath.Join(t.TempDir(), "result_1.csv")

	stdout, stderr, err := runApp(t, "run",
		"--manifest", manifest,
		"--data-dir", dataDir,
		"--out", outPath,
		"--format", "csv",
		"--locale", "en",
		"--log-level", "error",
	)
	if err != nil {
		t.Fatalf("run failed: %v (stderr: %s)", err, stderr)
	}

	var output ops.RunOutput
	if err := json.Unmarshal([]byte(stdout), &output); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout)
	}
	if output.Subjects != 3 || output.Processed != 2 {
		t.Errorf("subjects=%d processed=%d, want 3/2", output.Subjects, output.Processed)
	}
	if len(output.Failed) != 1 || output.Failed[0].SubjectID != "P3" {
		t.Errorf("failed = %+v, want P3", output.Failed)
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Errorf("report not written: %v", err)
	}

	if !strings.Contains(stderr, "processed 2 of 3 subjects") {
		t.Errorf("stderr missing summary line: %s", stderr)
	}
	if !strings.Contains(stderr, "Subject ID") {
		t.Errorf("stderr missing console table: %s", stderr)
	}
	if strings.Contains(stdout, "Subject ID") {
		t.Errorf("console table leaked into stdout: %s", stdout)
	}
}

func TestRunCommand_Quiet(t *testing.T) {
	dataDir, manifest := setupRun(t, map[string]int{"P1": 3})

	_, stderr, err := runApp(t, "run", "-q",
		"--manifest", manifest,
		"--data-dir", dataDir,
		"--out", filepath.Join(t.TempDir(), "r.xlsx"),
		"--log-level", "error",
	)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if strings.Contains(stderr, "processed") {
		t.Errorf("quiet run printed summary: %s", stderr)
	}
}

func TestRunCommand_Strict(t *testing.T) {
	dataDir, manifest := setupRun(t, map[string]int{"P1": 3, "P2": 0})

	_, _, err := runApp(t, "run", "--strict", "-q",
		"--manifest", manifest,
		"--data-dir", dataDir,
		"--out", filepath.Join(t.TempDir(), "r.xlsx"),
		"--log-level", "error",
	)
	if err == nil {
		t.Fatal("expected error in strict mode with a failed subject")
	}
	if exitCode(err) != 1 {
		t.Errorf("exit code = %d, want 1", exitCode(err))
	}
	if !strings.Contains(err.Error(), "SUBJECT_LOAD_FAILED") {
		t.Errorf("error = %v", err)
	}
}

func TestRunCommand_NotStrictSucceedsWithFailures(t *testing.T) {
	dataDir, manifest := setupRun(t, map[string]int{"P1": 3, "P2": 0})

	_, _, err := runApp(t, "run", "-q",
		"--manifest", manifest,
		"--data-dir", dataDir,
		"--out", filepath.Join(t.TempDir(), "r.xlsx"),
		"--log-level", "error",
	)
	if err != nil {
		t.Fatalf("expected success without --strict, got %v", err)
	}
}

func TestRunCommand_Errors(t *testing.T) {
	dataDir, manifest := setupRun(t, map[string]int{"P1": 3})

	tests := []struct {
		name string
		args []string
		code string
	}{
		{"missing manifest", []string{"--manifest", filepath.Join(dataDir, "nope.csv")}, "FILE_NOT_FOUND"},
		{"bad format", []string{"--manifest", manifest, "--format", "pdf"}, "INVALID_REQUEST"},
		{"bad locale", []string{"--manifest", manifest, "--locale", "fr"}, "INVALID_REQUEST"},
		{"traversal", []string{"--manifest", manifest, "--out", "../r.xlsx"}, "INVALID_REQUEST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"run", "-q", "--data-dir", dataDir, "--log-level", "error"}, tt.args...)
			if !contains(tt.args, "--out") {
				args = append(args, "--out", filepath.Join(t.TempDir(), "r.xlsx"))
			}
			_, _, err := runApp(t, args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), "["+tt.code+"]") {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func TestRunCommand_ConfigFile(t *testing.T) {
	dataDir, manifest := setupRun(t, map[string]int{"P1": 3})
	outPath := filepath.Join(t.TempDir(), "from_config.html")

	cfgPath := filepath.Join(t.TempDir(), "metbands.json")
	cfg := fmt.Sprintf(`{"manifest_path": %q, "data_dir": %q, "output_path": %q, "formats": ["html"], "console": false, "log_level": "error"}`,
		manifest, dataDir, outPath)
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := runApp(t, "run", "--config", cfgPath); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Errorf("html report not written: %v", err)
	}
}

func TestSubjectCommand(t *testing.T) {
	dataDir, _ := setupRun(t, map[string]int{"P7": 4})

	stdout, stderr, err := runApp(t, "subject", filepath.Join(dataDir, "P7.csv"))
	if err != nil {
		t.Fatalf("subject failed: %v", err)
	}

	var output ops.SubjectOutput
	if err := json.Unmarshal([]byte(stdout), &output); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout)
	}
	if output.Summary.SubjectID != "P7" || output.Summary.Rows != 4 {
		t.Errorf("summary = %+v", output.Summary)
	}
	if !strings.Contains(stderr, "P7: 4 rows, 4 parsed") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestSubjectCommand_Errors(t *testing.T) {
	if _, _, err := runApp(t, "subject"); err == nil || !strings.Contains(err.Error(), "[INVALID_REQUEST]") {
		t.Errorf("no args: err = %v", err)
	}
	_, _, err := runApp(t, "subject", filepath.Join(t.TempDir(), "missing.csv"))
	if err == nil || !strings.Contains(err.Error(), "[SUBJECT_LOAD_FAILED]") {
		t.Errorf("missing file: err = %v", err)
	}
}

func TestVersionFlag(t *testing.T) {
	stdout, _, err := runApp(t, "--version")
	if err != nil {
		t.Fatalf("--version failed: %v", err)
	}
	if !strings.Contains(stdout, Version) {
		t.Errorf("stdout = %q, want version %q", stdout, Version)
	}
}
