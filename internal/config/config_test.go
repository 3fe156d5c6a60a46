package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaultsFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	body := "data_file: paises.xlsx\nsheet_index: 2\nsample_rows: 3\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DATALENS_LISTEN_ADDR", ":9000")

	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DataFile != "paises.xlsx" || c.SheetIndex != 2 || c.SampleRows != 3 {
		t.Fatalf("file values not applied: %+v", c)
	}
	if c.ListenAddr != ":9000" {
		t.Fatalf("env override not applied: %q", c.ListenAddr)
	}
	if c.ChartWidth != 1024 || c.ChartHeight != 640 || c.LogLevel != "info" || c.DecimalSeparator != "." {
		t.Fatalf("defaults not applied: %+v", c)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestSaveThenLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	c := &Global{DataFile: "a.csv", Delimiter: ";", SheetIndex: 1, SampleRows: 4, LogLevel: "debug"}
	if err := Save(c, p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	b, _ := os.ReadFile(p)
	if !strings.Contains(string(b), "data_file: a.csv") {
		t.Fatalf("unexpected yaml:\n%s", b)
	}
	back, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.DataFile != "a.csv" || back.Delimiter != ";" || back.LogLevel != "debug" {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}

func TestSetAndGet(t *testing.T) {
	c := &Global{}
	for _, kv := range [][2]string{
		{"sheet_index", "3"}, {"delimiter", `\t`}, {"log_level", "WARN"}, {"chart_width", "800"}, {"title", "Países"},
	} {
		if err := c.Set(kv[0], kv[1]); err != nil {
			t.Fatalf("Set(%s): %v", kv[0], err)
		}
	}
	if c.SheetIndex != 3 || c.Delimiter != "\t" || c.LogLevel != "warn" || c.ChartWidth != 800 {
		t.Fatalf("unexpected: %+v", c)
	}
	if v, _ := c.Get("title"); v != "Países" {
		t.Fatalf("Get(title) = %q", v)
	}

	bad := [][2]string{
		{"sheet_index", "0"}, {"sample_rows", "x"}, {"delimiter", ";;"}, {"log_level", "loud"}, {"chart_height", "10"}, {"nope", "1"},
	}
	for _, kv := range bad {
		if err := c.Set(kv[0], kv[1]); err == nil {
			t.Fatalf("Set(%s, %s) should fail", kv[0], kv[1])
		}
	}
	for _, k := range Keys {
		if _, err := c.Get(k); err != nil {
			t.Fatalf("Get(%s): %v", k, err)
		}
	}
}

func TestRune(t *testing.T) {
	if Rune("") != 0 || Rune(";") != ';' || Rune("é") != 'é' {
		t.Fatalf("Rune mismatch")
	}
}
