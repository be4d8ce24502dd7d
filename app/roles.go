package app

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GoPowerDNS-Admin/itsm-authz/internal/auth"
)

func init() { //nolint: gochecknoinits
	rolesCmd.Flags().StringVar(&roleName, "role", "", "Only print this role")
	rolesCmd.Flags().BoolVar(&asJSON, "json", false, "Print the table as JSON")

	rootCmd.AddCommand(rolesCmd)
}

var (
	roleName string
	asJSON   bool

	rolesCmd = &cobra.Command{
		Use:   "roles",
		Short: "Print the role-permission table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			roles := auth.Roles()

			if roleName != "" {
				r, err := auth.ParseRole(roleName)
				if err != nil {
					return err
				}

				roles = []auth.Role{r}
			}

			table := make(map[auth.Role][]string, len(roles))
			for _, r := range roles {
				table[r] = auth.RolePermissions(r).Strings()
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")

				return enc.Encode(table)
			}

			for _, r := range roles {
				cmd.Printf("%s (%d)\n", r, len(table[r]))

				for _, res := range auth.RolePermissions(r).Resources() {
					acts := auth.RolePermissions(r).Actions(res)
					names := make([]string, len(acts))

					for i, a := range acts {
						names[i] = string(a)
					}

					cmd.Printf("  %-10s %s\n", res, strings.Join(names, ", "))
				}
			}

			return nil
		},
	}
)
