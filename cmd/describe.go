package cmd

import (
	"fmt"

	"github.com/KaramelBytes/datalens-cli/internal/analysis"
	"github.com/spf13/cobra"
)

var descSampleRows int

var describeCmd = &cobra.Command{
	Use:   "describe [file]",
	Short: "Print a Markdown summary of the dataset: schema, column stats and head rows",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadDataset(args)
		if err != nil {
			return err
		}
		rows := descSampleRows
		if !cmd.Flags().Changed("sample-rows") && cfg != nil {
			rows = cfg.SampleRows
		}
		fmt.Fprint(cmd.OutOrStdout(), analysis.NewReport(t, rows).Markdown())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().IntVar(&descSampleRows, "sample-rows", 5, "number of head rows to include")
}
