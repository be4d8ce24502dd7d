package app

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/GoPowerDNS-Admin/itsm-authz/internal/auth"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/db/models"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/session"
)

// ErrDenied is returned by the check command when access is denied.
var ErrDenied = errors.New("access denied")

func init() { //nolint: gochecknoinits
	checkCmd.Flags().StringVar(&checkRole, "role", "", "Role of the principal")
	checkCmd.Flags().StringSliceVar(&checkPerms, "perm", nil, "Required permission resource:action, all must be held")
	checkCmd.Flags().StringSliceVar(&checkRoles, "require-role", nil, "Accepted roles, one must be held")
	_ = checkCmd.MarkFlagRequired("role")

	rootCmd.AddCommand(checkCmd)
}

var (
	checkRole  string
	checkPerms []string
	checkRoles []string

	checkCmd = &cobra.Command{
		Use:   "check",
		Short: "Evaluate a route requirement for a role",
		Example: `  itsm-authz check --role agent --perm ticket:read --perm ticket:update
  itsm-authz check --role manager --require-role admin,super_admin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			role, err := auth.ParseRole(checkRole)
			if err != nil {
				return err
			}

			perms := make([]auth.Grant, 0, len(checkPerms))
			for _, p := range checkPerms {
				g, err := auth.ParseGrant(p)
				if err != nil {
					return err
				}

				perms = append(perms, g)
			}

			roles := make([]auth.Role, 0, len(checkRoles))
			for _, name := range checkRoles {
				r, err := auth.ParseRole(name)
				if err != nil {
					return err
				}

				roles = append(roles, r)
			}

			resolver := auth.NewResolver(auth.StateSource(session.AuthState{
				User:            &models.User{Username: "cli", Role: string(role)},
				Token:           "cli",
				IsAuthenticated: true,
			}))

			if !auth.NewGuard(resolver).Route(perms, roles, nil) {
				cmd.Println("denied")

				return ErrDenied
			}

			cmd.Println("allowed")

			return nil
		},
	}
)
