package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GoPowerDNS-Admin/systeminfo/internal/config"
)

func newConfigCmd(st *state) *cobra.Command {
	var asJSON bool

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration, the database password is masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dump := config.DumpConfig
			if asJSON {
				dump = config.DumpConfigJSON
			}

			out, err := dump(&st.cfg)
			if err != nil {
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), out)

			return err
		},
	}

	configCmd.Flags().BoolVar(&asJSON, "json", false, "Print as json instead of toml")

	return configCmd
}
