package app

import (
	"github.com/spf13/cobra"

	"github.com/GoPowerDNS-Admin/itsm-authz/internal/config"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/daemon"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/logger"
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode")
	startCmd.Flags().BoolVar(&dumpConfig, "dump-config", false, "Print the effective configuration as TOML before starting")

	rootCmd.AddCommand(startCmd)
}

var (
	configPath string // Path to the configuration file

	cfg        config.Config
	devMode    bool
	dumpConfig bool

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the itsm-authz web service",
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error

			if cfg, err = config.ReadConfig(configPath); err != nil {
				return err
			}

			if devMode {
				cfg.DevMode = true
			}

			if err = logger.Init(cfg.Log); err != nil {
				return err
			}

			if dumpConfig {
				out, err := config.DumpConfig(&cfg)
				if err != nil {
					return err
				}

				cmd.Println(out)
			}

			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			d, err := daemon.New(&cfg)
			if err != nil {
				return err
			}

			return d.Start()
		},
	}
)
