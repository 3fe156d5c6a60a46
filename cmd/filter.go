package cmd

import (
	"fmt"

	"github.com/KaramelBytes/datalens-cli/internal/analysis"
	"github.com/spf13/cobra"
)

var (
	filterColumn string
	filterMin    float64
	filterMax    float64
	filterOutput string
)

var filterCmd = &cobra.Command{
	Use:   "filter [file]",
	Short: "Keep rows whose numeric column lies within [--min, --max] and write CSV",
	Long: `Keep rows whose value in --column lies within the inclusive range [--min, --max].
An omitted bound defaults to the column's own minimum or maximum. Both bounds
must lie within the column's range.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if filterColumn == "" {
			return fmt.Errorf("--column is required")
		}
		t, err := loadDataset(args)
		if err != nil {
			return err
		}
		rng, err := analysis.Bounds(t, filterColumn)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("min") {
			rng.Min = filterMin
		}
		if cmd.Flags().Changed("max") {
			rng.Max = filterMax
		}
		out, err := analysis.Filter(t, filterColumn, rng)
		if err != nil {
			return err
		}
		logger.Info("filtered dataset", "column", filterColumn, "min", rng.Min, "max", rng.Max, "rows", out.Rows())
		return writeTableCSV(cmd, filterOutput, out)
	},
}

func init() {
	rootCmd.AddCommand(filterCmd)
	filterCmd.Flags().StringVar(&filterColumn, "column", "", "numeric column to filter on")
	filterCmd.Flags().Float64Var(&filterMin, "min", 0, "inclusive lower bound (default: column minimum)")
	filterCmd.Flags().Float64Var(&filterMax, "max", 0, "inclusive upper bound (default: column maximum)")
	filterCmd.Flags().StringVarP(&filterOutput, "output", "o", "", "write CSV to this file instead of stdout")
}
