// Package app implements the main application commands.
package app

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/GoPowerDNS-Admin/systeminfo/internal/config"
	"github.com/GoPowerDNS-Admin/systeminfo/internal/logger"
)

// skipConfig marks commands that run without reading the config.
const skipConfig = "skip-config"

// state is shared by all commands of one invocation.
type state struct {
	configPath string
	cfg        config.Config
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	st := &state{}

	rootCmd := &cobra.Command{
		Use:   "systeminfo",
		Short: "systeminfo is a runtime-editable key/value settings store",
		Long: `systeminfo keeps site settings that administrators change at runtime,
such as the site title or the main stylesheet, in the system_info table.
Settings are served over a small http api and managed from the command line.`,
		Args:         cobra.OnlyValidArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if _, ok := cmd.Annotations[skipConfig]; ok {
				return nil
			}

			var err error
			if st.cfg, err = config.ReadConfig(st.configPath); err != nil {
				return err
			}

			return logger.Init(st.cfg.Log)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&st.configPath, "config", "c", "./etc/", "directory containing "+config.MainConfigFile)

	rootCmd.AddCommand(
		newStartCmd(st),
		newMigrateCmd(st),
		newGetCmd(st),
		newSetCmd(st),
		newDeleteCmd(st),
		newListCmd(st),
		newTokenCmd(),
		newConfigCmd(st),
	)

	return rootCmd
}
