package db_cmd

import (
	"github.com/hereditas-net/hereditas/herdi/glb"
	"github.com/spf13/cobra"
)

func Init() *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db [<subcommand>]",
		Short: "specifies subcommands on the state DB",
		Args:  cobra.NoArgs,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			glb.ReadInConfig()
		},
	}
	dbCmd.InitDefaultHelpCmd()
	dbCmd.AddCommand(
		initDBInfoCmd(),
		initDBVaultsCmd(),
	)
	return dbCmd
}
