package cmd

import (
	"fmt"

	"github.com/KaramelBytes/datalens-cli/internal/analysis"
	"github.com/spf13/cobra"
)

var (
	sortBy     string
	sortDesc   bool
	sortOutput string
)

var sortCmd = &cobra.Command{
	Use:   "sort [file]",
	Short: "Sort rows by a column and write CSV",
	Long:  "Sort rows by a column (stable; missing values last) and write the result as CSV to stdout or --output.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if sortBy == "" {
			return fmt.Errorf("--by is required")
		}
		t, err := loadDataset(args)
		if err != nil {
			return err
		}
		sorted, err := analysis.Sort(t, analysis.SortSpec{Column: sortBy, Ascending: !sortDesc})
		if err != nil {
			return err
		}
		return writeTableCSV(cmd, sortOutput, sorted)
	},
}

func init() {
	rootCmd.AddCommand(sortCmd)
	sortCmd.Flags().StringVar(&sortBy, "by", "", "column to sort by")
	sortCmd.Flags().BoolVar(&sortDesc, "desc", false, "sort descending")
	sortCmd.Flags().StringVarP(&sortOutput, "output", "o", "", "write CSV to this file instead of stdout")
}
