package main

import (
	"os"

	"github.com/hereditas-net/hereditas/herdi/db_cmd"
	"github.com/hereditas-net/hereditas/herdi/glb"
	"github.com/hereditas-net/hereditas/herdi/init_cmd"
	"github.com/hereditas-net/hereditas/herdi/vault_cmd"
	"github.com/hereditas-net/hereditas/herdi/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "herdi",
		Short: "a simple CLI for the Hereditas vault ledger",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			glb.ReadInConfig()
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "herdi config profile name")
	err := viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	glb.AssertNoError(err)

	rootCmd.PersistentFlags().String("api.endpoint", "", "<DNS name>:port of the node API")
	err = viper.BindPFlag("api.endpoint", rootCmd.PersistentFlags().Lookup("api.endpoint"))
	glb.AssertNoError(err)

	rootCmd.PersistentFlags().String("as", "", "caller address (hex encoded)")
	err = viper.BindPFlag("as", rootCmd.PersistentFlags().Lookup("as"))
	glb.AssertNoError(err)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	err = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	glb.AssertNoError(err)

	rootCmd.InitDefaultHelpCmd()
	rootCmd.AddCommand(
		init_cmd.Init(),
		db_cmd.Init(),
		vault_cmd.Init(),
		version.CmdVersion(),
	)

	if err = rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
