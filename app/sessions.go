package app

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/GoPowerDNS-Admin/itsm-authz/internal/config"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/storage"
)

func init() { //nolint: gochecknoinits
	sessionsCmd.AddCommand(sessionsListCmd, sessionsPurgeCmd)
	rootCmd.AddCommand(sessionsCmd)
}

var (
	sessionsCmd = &cobra.Command{
		Use:   "sessions",
		Short: "Inspect the persisted client sessions",
	}

	sessionsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List the session ids that have persisted state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPurger(func(p storage.Purger) error {
				ids, err := p.Namespaces(cmd.Context())
				if err != nil {
					return errors.Wrap(err, "failed to list sessions")
				}

				for _, id := range ids {
					cmd.Println(id)
				}

				return nil
			})
		},
	}

	sessionsPurgeCmd = &cobra.Command{
		Use:   "purge <session-id>...",
		Short: "Remove every persisted item of the given sessions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPurger(func(p storage.Purger) error {
				for _, id := range args {
					n, err := p.Purge(cmd.Context(), id)
					if err != nil {
						return errors.Wrapf(err, "failed to purge session %s", id)
					}

					cmd.Printf("%s: %d items removed\n", id, n)
				}

				return nil
			})
		},
	}
)

// withPurger opens the configured session storage for fn.
func withPurger(fn func(storage.Purger) error) error {
	c, err := config.ReadConfig(configPath)
	if err != nil {
		return err
	}

	backend, err := storage.Open(c.Storage)
	if err != nil {
		return err
	}

	defer func() {
		_ = backend.Close()
	}()

	p, err := storage.AsPurger(backend)
	if err != nil {
		return err
	}

	return fn(p)
}
