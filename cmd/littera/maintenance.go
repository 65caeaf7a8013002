package main

import (
	"github.com/spf13/cobra"

	"github.com/ikari-pl/littera/internal/command"
	"github.com/ikari-pl/littera/internal/configfile"
	"github.com/ikari-pl/littera/internal/storage/ppg"
)

var maintenanceCmd = &cobra.Command{
	Use:   "maintenance",
	Short: "inspect and remediate the Work's embedded cluster",
}

func maintenanceConfig() (ppg.Config, error) {
	fc, err := configfile.Load(workRoot)
	if err != nil {
		return ppg.Config{}, err
	}
	return ppg.FromWorkConfig(workRoot, fc), nil
}

var maintenanceWALResetCmd = &cobra.Command{
	Use:   "wal-reset",
	Short: "reset the cluster's WAL, preserving committed data",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := maintenanceConfig()
		if err != nil {
			return err
		}
		return command.MaintenanceWALReset(cfg, opts())
	},
}

var maintenanceReinitCmd = &cobra.Command{
	Use:   "reinit",
	Short: "reinitialize the cluster, destroying all of this Work's data (requires --force)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := maintenanceConfig()
		if err != nil {
			return err
		}
		return command.MaintenanceReinit(cfg, opts())
	},
}

var maintenanceStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "report whether the cluster's data directory exists, its lock state, and its port",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := maintenanceConfig()
		if err != nil {
			return err
		}
		r, err := command.MaintenanceStatus(cfg)
		if err != nil {
			return err
		}
		return printResult(r)
	},
}

func init() {
	maintenanceCmd.AddCommand(maintenanceWALResetCmd, maintenanceReinitCmd, maintenanceStatusCmd)
}
