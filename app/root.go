// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "itsm-authz",
	Short: "itsm-authz is the identity, tenant context and authorization service of the ITSM platform",
	Long: `itsm-authz keeps the authenticated principal and the active tenant of every
client session and answers permission, role and route questions against the
static role-permission table.`,
	Args:          cobra.OnlyValidArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "Path to the configuration directory")
}
