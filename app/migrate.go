package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GoPowerDNS-Admin/systeminfo/internal/db/engine"
	"github.com/GoPowerDNS-Admin/systeminfo/internal/db/migrations"
)

func newMigrateCmd(st *state) *cobra.Command {
	var rollback bool

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the system_info table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := engine.Open(&st.cfg)
			if err != nil {
				return err
			}

			defer func() { _ = engine.Close(db) }()

			if rollback {
				if err = migrations.Rollback(db); err != nil {
					return err
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), "rolled back the last migration")

				return err
			}

			if err = migrations.Migrate(db); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "database is up to date")

			return err
		},
	}

	migrateCmd.Flags().BoolVar(&rollback, "rollback", false, "Undo the last migration")

	return migrateCmd
}
