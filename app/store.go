package app

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	store "github.com/GoPowerDNS-Admin/systeminfo/internal/db/controller/systeminfo"
	"github.com/GoPowerDNS-Admin/systeminfo/internal/db/engine"
	"github.com/GoPowerDNS-Admin/systeminfo/internal/db/session"
)

const commandTimeout = 30 * time.Second

// ErrKeyNotFound is returned by get for an absent key without --default.
var ErrKeyNotFound = errors.New("system info key not found")

// withSession runs fn in a fresh session and closes session and database afterwards.
// Info logs are muted, stdout belongs to the command output.
func withSession(cmd *cobra.Command, st *state, fn func(ctx context.Context, sess *session.Session) error) error {
	if zerolog.GlobalLevel() < zerolog.WarnLevel {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	db, err := engine.Open(&st.cfg)
	if err != nil {
		return err
	}

	defer func() { _ = engine.Close(db) }()

	sess, err := session.New(db)
	if err != nil {
		return err
	}

	defer func() { _ = sess.Close() }()

	return fn(ctx, sess)
}

func newGetCmd(st *state) *cobra.Command {
	var def string

	getCmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print the value stored under key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			withDefault := cmd.Flags().Changed("default")

			return withSession(cmd, st, func(ctx context.Context, sess *session.Session) error {
				var (
					value string
					found = true
					err   error
				)

				if withDefault {
					value, err = store.Get(ctx, sess, key, def)
				} else {
					value, found, err = store.Lookup(ctx, sess, key)
				}

				if err != nil {
					return err
				}

				if !found {
					return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), value)

				return err
			})
		},
	}

	getCmd.Flags().StringVar(&def, "default", "", "Value printed if key is not stored")

	return getCmd
}

func newSetCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store value under key",
		Args:  cobra.ExactArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, st, func(ctx context.Context, sess *session.Session) error {
				changed, err := store.Set(ctx, sess, args[0], args[1])
				if err != nil {
					return err
				}

				result := "unchanged"
				if changed {
					result = "changed"
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), result)

				return err
			})
		},
	}
}

func newDeleteCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Remove key, removing an absent key succeeds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, st, func(ctx context.Context, sess *session.Session) error {
				return store.Delete(ctx, sess, args[0], nil)
			})
		},
	}
}

func newListCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all keys and values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, st, func(ctx context.Context, sess *session.Session) error {
				entries, err := store.List(ctx, sess)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0) //nolint:mnd
				_, _ = fmt.Fprintln(w, "KEY\tVALUE")

				for i := range entries {
					_, _ = fmt.Fprintf(w, "%s\t%s\n", entries[i].Key, entries[i].StringValue())
				}

				return w.Flush()
			})
		},
	}
}
