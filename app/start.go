package app

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/GoPowerDNS-Admin/systeminfo/internal/daemon"
)

func newStartCmd(st *state) *cobra.Command {
	var devMode bool

	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the systeminfo web service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if devMode {
				st.cfg.DevMode = true
			}

			d, err := daemon.New(&st.cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return d.Run(ctx)
		},
	}

	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode")

	return startCmd
}
