package cmd

import (
	"bytes"
	"fmt"

	"github.com/KaramelBytes/datalens-cli/internal/analysis"
	"github.com/KaramelBytes/datalens-cli/internal/render"
	"github.com/spf13/cobra"
)

var (
	chartKind   string
	chartX      string
	chartY      string
	chartOutput string
	chartWidth  int
	chartHeight int
	chartTitle  string
)

var chartCmd = &cobra.Command{
	Use:   "chart [file]",
	Short: "Draw a bar, line, scatter or pie chart of two columns as PNG",
	Long: `Draw a chart of --y against --x and save it as PNG.
bar, line and scatter need numeric --x and --y. pie groups rows by --x
(first-appearance order) and sums --y per group.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if chartX == "" || chartY == "" {
			return fmt.Errorf("--x and --y are required")
		}
		kind, err := analysis.ParseChartKind(chartKind)
		if err != nil {
			return err
		}
		t, err := loadDataset(args)
		if err != nil {
			return err
		}
		data, err := analysis.BuildChart(t, analysis.ChartSpec{Kind: kind, X: chartX, Y: chartY})
		if err != nil {
			return err
		}
		opt := render.Options{Width: chartWidth, Height: chartHeight, Title: chartTitle}
		if cfg != nil {
			if !cmd.Flags().Changed("width") {
				opt.Width = cfg.ChartWidth
			}
			if !cmd.Flags().Changed("height") {
				opt.Height = cfg.ChartHeight
			}
		}
		if opt.Title == "" {
			opt.Title = chartY + " by " + chartX
		}
		var buf bytes.Buffer
		if err := render.PNG(&buf, data, opt); err != nil {
			return err
		}
		return writeOutput(cmd, chartOutput, buf.Bytes())
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.Flags().StringVar(&chartKind, "kind", "bar", "chart kind: bar, line, scatter or pie")
	chartCmd.Flags().StringVar(&chartX, "x", "", "x axis column (group column for pie)")
	chartCmd.Flags().StringVar(&chartY, "y", "", "numeric y axis column (summed per group for pie)")
	chartCmd.Flags().StringVarP(&chartOutput, "output", "o", "chart.png", "PNG output path ('-' for stdout)")
	chartCmd.Flags().IntVar(&chartWidth, "width", 1024, "image width in pixels")
	chartCmd.Flags().IntVar(&chartHeight, "height", 640, "image height in pixels")
	chartCmd.Flags().StringVar(&chartTitle, "title", "", "chart title (default \"<y> by <x>\")")
}
