package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/KaramelBytes/datalens-cli/internal/table"
)

const countriesCSV = `country,region,population,gdp
Argentina,Sur,40,400
Brazil,Este,200,1600
Chile,Sur,20,300
Peru,Oeste,30,
Uruguay,Sur,10,50
`

// resetFlags restores every flag to its default; cobra keeps values and
// Changed state across Execute calls in one process.
func resetFlags(c *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		if sv, ok := fl.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = fl.Value.Set(fl.DefValue)
		}
		fl.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd executes the root command with args and returns stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeDataset(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "paises.csv")
	if err := os.WriteFile(p, []byte(countriesCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDescribe(t *testing.T) {
	p := writeDataset(t)
	out, err := runCmd(t, "describe", p, "--sample-rows", "2")
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	for _, want := range []string{"[DATASET SUMMARY]", "File: paises.csv", "Rows: 5", "- population: numeric", "- region: categorical", "| Brazil |"} {
		if !strings.Contains(out, want) {
			t.Fatalf("describe output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "| Chile |") {
		t.Fatalf("only two sample rows expected:\n%s", out)
	}
}

func TestStats(t *testing.T) {
	p := writeDataset(t)
	out, err := runCmd(t, "stats", p, "--column", "population")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("unexpected output:\n%s", out)
	}
	got := strings.Fields(lines[1])
	want := []string{"population", "5", "60", "30", "79.05694150420948"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("stats row = %v, want %v", got, want)
	}

	out, err = runCmd(t, "stats", p, "--column", "gdp", "--json")
	if err != nil {
		t.Fatalf("stats --json: %v", err)
	}
	var recs []statsRecord
	if err := json.Unmarshal([]byte(out), &recs); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(recs) != 1 || recs[0].Count != 4 || *recs[0].Mean != 587.5 || *recs[0].Median != 350 {
		t.Fatalf("unexpected stats: %+v", recs)
	}

	if _, err := runCmd(t, "stats", p, "--column", "country"); !table.IsRecoverable(err) {
		t.Fatalf("expected a recoverable column error, got %v", err)
	}
}

func TestSortToStdout(t *testing.T) {
	p := writeDataset(t)
	out, err := runCmd(t, "sort", p, "--by", "gdp", "--desc")
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	want := "country,region,population,gdp\nBrazil,Este,200,1600\nArgentina,Sur,40,400\nChile,Sur,20,300\nUruguay,Sur,10,50\nPeru,Oeste,30,\n"
	if out != want {
		t.Fatalf("sort output:\n%s\nwant:\n%s", out, want)
	}
	if _, err := runCmd(t, "sort", p); err == nil {
		t.Fatalf("expected error without --by")
	}
}

func TestFilterToFile(t *testing.T) {
	p := writeDataset(t)
	dst := filepath.Join(t.TempDir(), "out", "filtered.csv")
	if _, err := runCmd(t, "filter", p, "--column", "population", "--min", "20", "-o", dst); err != nil {
		t.Fatalf("filter: %v", err)
	}
	b, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	want := "country,region,population,gdp\nArgentina,Sur,40,400\nBrazil,Este,200,1600\nChile,Sur,20,300\nPeru,Oeste,30,\n"
	if string(b) != want {
		t.Fatalf("filtered:\n%s", b)
	}

	_, err = runCmd(t, "filter", p, "--column", "population", "--min", "5")
	var rangeErr *table.InvalidRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected InvalidRangeError, got %v", err)
	}
}

func TestChart(t *testing.T) {
	p := writeDataset(t)
	dst := filepath.Join(t.TempDir(), "pie.png")
	if _, err := runCmd(t, "chart", p, "--kind", "pie", "--x", "region", "--y", "population", "-o", dst, "--width", "320", "--height", "240"); err != nil {
		t.Fatalf("chart: %v", err)
	}
	b, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b, []byte("\x89PNG")) {
		t.Fatalf("not a PNG")
	}

	_, err = runCmd(t, "chart", p, "--kind", "radar", "--x", "population", "--y", "gdp")
	var kindErr *table.InvalidChartKindError
	if !errors.As(err, &kindErr) {
		t.Fatalf("expected InvalidChartKindError, got %v", err)
	}
	_, err = runCmd(t, "chart", p, "--kind", "line", "--x", "country", "--y", "gdp", "-o", dst)
	var axisErr *table.NonNumericAxisError
	if !errors.As(err, &axisErr) || axisErr.Axis != "x" {
		t.Fatalf("expected NonNumericAxisError on x, got %v", err)
	}
}

func TestMissingDatasetIsLoadError(t *testing.T) {
	_, err := runCmd(t, "describe", filepath.Join(t.TempDir(), "nope.xlsx"))
	var le *table.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected LoadError, got %v", err)
	}
	if table.IsRecoverable(err) {
		t.Fatalf("load errors are fatal")
	}
}

func TestServeFailsFastOnBadDataset(t *testing.T) {
	_, err := runCmd(t, "serve", filepath.Join(t.TempDir(), "data.ods"))
	var le *table.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected LoadError before listening, got %v", err)
	}
}

func TestConfigSetAndShow(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if _, err := runCmd(t, "--config", cfgPath, "config", "set", "sheet_name", "Data"); err != nil {
		t.Fatalf("config set: %v", err)
	}
	out, err := runCmd(t, "--config", cfgPath, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, `sheet_name: "Data"`) || !strings.Contains(out, `sample_rows: "5"`) {
		t.Fatalf("unexpected config show:\n%s", out)
	}
	if _, err := runCmd(t, "--config", cfgPath, "config", "set", "log_level", "loud"); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestGlobalDelimiterFlag(t *testing.T) {
	p := filepath.Join(t.TempDir(), "semi.csv")
	if err := os.WriteFile(p, []byte("name;value\na;1,5\nb;2,5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := runCmd(t, "--delimiter", ";", "--decimal", "comma", "stats", p)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(out, "value") || !strings.Contains(out, "2") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if _, err := runCmd(t, "--delimiter", "x", "stats", p); err == nil {
		t.Fatalf("expected unsupported delimiter error")
	}
}
