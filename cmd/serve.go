package cmd

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/KaramelBytes/datalens-cli/internal/dashboard"
	"github.com/KaramelBytes/datalens-cli/internal/loader"
	"github.com/spf13/cobra"
)

var serveAddr string

// newDashboard preloads the dataset so a bad file fails before listening.
func newDashboard(args []string) (*dashboard.Server, error) {
	path, err := datasetPath(args)
	if err != nil {
		return nil, err
	}
	opt, err := loaderOptions()
	if err != nil {
		return nil, err
	}
	cache := loader.NewCache(opt, logger)
	if _, err := cache.Get(path); err != nil {
		return nil, err
	}
	return dashboard.New(dashboard.Options{
		DataFile:    path,
		Title:       cfg.Title,
		Description: cfg.Description,
		SampleRows:  cfg.SampleRows,
		ChartWidth:  cfg.ChartWidth,
		ChartHeight: cfg.ChartHeight,
	}, cache, logger), nil
}

var serveCmd = &cobra.Command{
	Use:   "serve [file]",
	Short: "Serve the three-page dashboard for a dataset",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := newDashboard(args)
		if err != nil {
			return err
		}
		addr := serveAddr
		if addr == "" {
			addr = cfg.ListenAddr
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := dashboard.Serve(ctx, addr, srv, logger); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config listen_addr)")
}
