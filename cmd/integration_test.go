package cmd

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const incidentsCSV = `Incident Type,Region of Incident,Incident Year,Incident Date,Total Number of Dead and Missing,Number of Survivors
Shipwreck,Mediterranean,2021,2021-03-02,10,4
Shipwreck,Mediterranean,2022,2022-07-11,6,1
Drowning,Europe,2022,2022-08-19,3,0
Violence,North America,2023,2023-01-05,2,2
`

// resetFlags clears sticky flag values and Changed state left by earlier runs.
func resetFlags(c *cobra.Command) {
	visit := func(fl *pflag.Flag) {
		if sv, ok := fl.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = fl.Value.Set(fl.DefValue)
		}
		fl.Changed = false
	}
	c.Flags().VisitAll(visit)
	c.PersistentFlags().VisitAll(visit)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd is a helper to execute the root command with args and return stdout.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func execCmd(args ...string) (string, error) {
	resetFlags(rootCmd)
	cfg = nil
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	t.Cleanup(func() { os.Setenv("HOME", oldHome) })
	os.Setenv("HOME", home)
	return home
}

func writeIncidents(t *testing.T, dir string) string {
	t.Helper()
	p := filepath.Join(dir, "incidents.csv")
	if err := os.WriteFile(p, []byte(incidentsCSV), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return p
}

func TestCLI_DashboardSampleMarkdown(t *testing.T) {
	isolateHome(t)
	out := runCmd(t, "dashboard")
	if !strings.Contains(out, "# Migration Incidents Analysis Dashboard") {
		t.Fatalf("missing title in output:\n%s", out)
	}
	if !strings.Contains(out, "Using example data") {
		t.Fatalf("expected sample notice in output")
	}
}

func TestCLI_DashboardJSONWithFilters(t *testing.T) {
	home := isolateHome(t)
	src := writeIncidents(t, home)
	outPath := filepath.Join(home, "out", "dash.json")

	out := runCmd(t, "dashboard", src, "--format", "json", "--year", "2022", "-o", outPath)
	if !strings.Contains(out, "✓ Wrote dashboard to") {
		t.Fatalf("unexpected output: %s", out)
	}
	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read dashboard: %v", err)
	}
	var d struct {
		Sample    bool   `json:"sample"`
		State     string `json:"state"`
		Rows      int    `json:"rows"`
		TotalRows int    `json:"total_rows"`
		Views     []struct {
			Feature string `json:"feature"`
			Status  string `json:"status"`
		} `json:"views"`
	}
	if err := json.Unmarshal(b, &d); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if d.Sample {
		t.Fatalf("uploaded file reported as sample")
	}
	if d.State != "filtered" || d.Rows != 2 || d.TotalRows != 4 {
		t.Fatalf("unexpected filtering: state=%s rows=%d total=%d", d.State, d.Rows, d.TotalRows)
	}
	statuses := map[string]string{}
	for _, v := range d.Views {
		statuses[v.Feature] = v.Status
	}
	if statuses["type_counts"] != "ok" {
		t.Fatalf("type_counts should be ok, got %q", statuses["type_counts"])
	}
	if statuses["geo_map"] != "disabled" {
		t.Fatalf("geo_map should be disabled without coordinates, got %q", statuses["geo_map"])
	}
}

func TestCLI_DashboardRejectsBadFormat(t *testing.T) {
	isolateHome(t)
	if _, err := execCmd("dashboard", "--format", "xml"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
	if _, err := execCmd("dashboard", "--view", "nope"); err == nil {
		t.Fatalf("expected error for unknown view")
	}
}

func TestCLI_DashboardMissingFile(t *testing.T) {
	home := isolateHome(t)
	if _, err := execCmd("dashboard", filepath.Join(home, "absent.csv")); err == nil {
		t.Fatalf("expected load error for a missing file")
	}
}

func TestCLI_SchemaReportsFeatures(t *testing.T) {
	home := isolateHome(t)
	src := writeIncidents(t, home)
	out := runCmd(t, "schema", src)
	for _, want := range []string{
		"incident_type <- Incident Type",
		"✓ type_counts",
		"✓ survival_rate",
		"✗ geo_map (missing: latitude, longitude)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("schema output missing %q:\n%s", want, out)
		}
	}
}

func TestCLI_ExportFiltered(t *testing.T) {
	home := isolateHome(t)
	src := writeIncidents(t, home)
	outPath := filepath.Join(home, "filtered.csv")

	runCmd(t, "export", src, "--type", "Shipwreck", "-o", outPath)
	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(recs))
	}
	if recs[0][0] != "Incident Type" {
		t.Fatalf("export should keep original headers, got %v", recs[0])
	}
	for _, r := range recs[1:] {
		if r[0] != "Shipwreck" {
			t.Fatalf("unexpected row in export: %v", r)
		}
	}
}

func TestCLI_ExportNoDataFails(t *testing.T) {
	home := isolateHome(t)
	src := writeIncidents(t, home)
	outPath := filepath.Join(home, "empty.csv")
	if _, err := execCmd("export", src, "--year", "2022", "--region", "North America", "-o", outPath); err == nil {
		t.Fatalf("expected no-data error")
	}
	if _, err := os.Stat(outPath); err == nil {
		t.Fatalf("no file should be written for an empty selection")
	}
}

func TestCLI_ChartWritesPNG(t *testing.T) {
	home := isolateHome(t)
	outPath := filepath.Join(home, "types.png")
	runCmd(t, "chart", "--view", "types", "-o", outPath, "--width", "640", "--height", "320")
	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read chart: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("\x89PNG")) {
		t.Fatalf("chart is not a PNG")
	}
	if _, err := execCmd("chart", "--view", "pie"); err == nil {
		t.Fatalf("expected error for unknown chart")
	}
}

func TestCLI_ConfigSetShow(t *testing.T) {
	home := isolateHome(t)
	cfgPath := filepath.Join(home, "incidentscope.yaml")

	runCmd(t, "config", "set", "top_n", "3", "--config", cfgPath)
	if _, err := os.Stat(cfgPath); err != nil {
		t.Fatalf("config not saved: %v", err)
	}
	if _, err := execCmd("config", "set", "top_n", "many", "--config", cfgPath); err == nil {
		t.Fatalf("expected error for a non-integer top_n")
	}
	if _, err := execCmd("config", "set", "colour", "blue", "--config", cfgPath); err == nil {
		t.Fatalf("expected error for an unknown key")
	}

	loadConfigFrom(t, cfgPath)
	out, err := showConfig()
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "top_n: 3") {
		t.Fatalf("saved value not shown:\n%s", out)
	}
}

// loadConfigFrom mirrors the OnInitialize hook, which tests bypass.
func loadConfigFrom(t *testing.T, path string) {
	t.Helper()
	resetFlags(rootCmd)
	cfgFile = path
	loadConfig()
	if cfg == nil {
		t.Fatalf("config not loaded")
	}
}

func showConfig() (string, error) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"config", "show"})
	err := rootCmd.Execute()
	return buf.String(), err
}
