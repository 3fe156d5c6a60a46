package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSafeWriteFileReplaces(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "out.csv")
	if err := SafeWriteFile(p, []byte("a\n")); err != nil {
		t.Fatal(err)
	}
	if err := SafeWriteFile(p, []byte("b\n")); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(p)
	if string(b) != "b\n" {
		t.Fatalf("content = %q", b)
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}

func TestEnsureDirAndExportPath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports", "charts")
	if err := EnsureDir(dir); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Fatalf("dir not created: %v", err)
	}
	if err := EnsureDir(""); err != nil {
		t.Fatal(err)
	}
	if got := ExportPath(dir, "chart.png"); got != filepath.Join(dir, "chart.png") {
		t.Fatalf("ExportPath = %s", got)
	}
	if got := ExportPath("", "chart.png"); got != "chart.png" {
		t.Fatalf("ExportPath = %s", got)
	}
	abs := filepath.Join(t.TempDir(), "x.csv")
	if got := ExportPath(dir, abs); got != abs {
		t.Fatalf("ExportPath = %s", got)
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := PrettyJSON(map[string]int{"count": 3})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "{\n  \"count\": 3\n}" {
		t.Fatalf("json = %s", b)
	}
}
