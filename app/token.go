package app

import (
	"fmt"

	"github.com/alexedwards/argon2id"
	"github.com/spf13/cobra"

	"github.com/GoPowerDNS-Admin/systeminfo/internal/uniuri"
)

func newTokenCmd() *cobra.Command {
	var length int

	tokenCmd := &cobra.Command{
		Use:         "token",
		Short:       "Generate an admin token and the hash for Webserver.AdminTokenHash",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: ""},
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := uniuri.Token(length)
			if err != nil {
				return err
			}

			hash, err := argon2id.CreateHash(token, argon2id.DefaultParams)
			if err != nil {
				return fmt.Errorf("failed to hash token: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(),
				"token: %s\n\n# main.toml, section [Webserver]\nAdminTokenHash = %q\n", token, hash)

			return err
		},
	}

	tokenCmd.Flags().IntVar(&length, "length", uniuri.TokenLen, "Token length")

	return tokenCmd
}
