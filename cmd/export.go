package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/datalens-cli/internal/table"
	"github.com/KaramelBytes/datalens-cli/internal/utils"
	"github.com/spf13/cobra"
)

// writeOutput sends data to stdout, or to out (under export_dir when set).
func writeOutput(cmd *cobra.Command, out string, data []byte) error {
	if out == "" || out == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	dir := ""
	if cfg != nil {
		dir = cfg.ExportDir
	}
	path := utils.ExportPath(dir, out)
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := utils.SafeWriteFile(path, data); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %s\n", path)
	return nil
}

func writeTableCSV(cmd *cobra.Command, out string, t *table.Table) error {
	var buf bytes.Buffer
	if err := table.WriteCSV(&buf, t); err != nil {
		return err
	}
	return writeOutput(cmd, out, buf.Bytes())
}
