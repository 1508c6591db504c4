package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tanpawarit/facebank-assistant/api"
	appx "github.com/tanpawarit/facebank-assistant/app"
)

func newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the assistant over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			if addr != "" {
				a.Config.HTTPAddr = addr
			}
			return api.NewServer(a).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides FACEBANK_HTTP_ADDR")

	return cmd
}

func buildApp(ctx context.Context) (*appx.App, error) {
	appCfg, llmCfg, archiveCfg, err := appx.LoadConfig()
	if err != nil {
		return nil, err
	}
	a, err := appx.New(ctx, appCfg, llmCfg, archiveCfg)
	if err != nil {
		return nil, fmt.Errorf("starting assistant: %w", err)
	}
	return a, nil
}
