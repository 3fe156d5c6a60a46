package cmd

import (
	"fmt"
	"math"
	"text/tabwriter"

	"github.com/KaramelBytes/datalens-cli/internal/analysis"
	"github.com/KaramelBytes/datalens-cli/internal/table"
	"github.com/KaramelBytes/datalens-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	statsColumns []string
	statsJSON    bool
)

// statsRecord is the JSON form of a summary; NaN becomes null.
type statsRecord struct {
	Column string   `json:"column"`
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean"`
	Median *float64 `json:"median"`
	Std    *float64 `json:"std"`
}

func orNull(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

var statsCmd = &cobra.Command{
	Use:   "stats [file]",
	Short: "Mean, median and standard deviation of numeric columns",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadDataset(args)
		if err != nil {
			return err
		}
		cols := statsColumns
		if len(cols) == 0 {
			cols = t.Schema().Numeric()
		}
		sums := make([]analysis.Summary, 0, len(cols))
		for _, c := range cols {
			s, err := analysis.Describe(t, c)
			if err != nil {
				return err
			}
			sums = append(sums, s)
		}
		if statsJSON {
			recs := make([]statsRecord, len(sums))
			for i, s := range sums {
				recs[i] = statsRecord{Column: s.Column, Count: s.Count, Mean: orNull(s.Mean), Median: orNull(s.Median), Std: orNull(s.Std)}
			}
			b, err := utils.PrettyJSON(recs)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "column\tcount\tmean\tmedian\tstd")
		for _, s := range sums {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", s.Column, s.Count, statNum(s.Mean), statNum(s.Median), statNum(s.Std))
		}
		return tw.Flush()
	},
}

func statNum(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return table.FormatFloat(v)
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringSliceVar(&statsColumns, "column", nil, "numeric column(s) to summarize (default: all numeric columns)")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print JSON instead of a table")
}
