package init_cmd

import (
	"os"

	"github.com/hereditas-net/hereditas/herdi/glb"
	"github.com/hereditas-net/hereditas/ledger"
	"github.com/hereditas-net/hereditas/ledger/vaultstate"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

func Init() *cobra.Command {
	initCmd := &cobra.Command{
		Use:   "init [<subcommand>]",
		Short: "initializes the config profile and the ledger database",
		Args:  cobra.NoArgs,
	}
	initCmd.InitDefaultHelpCmd()
	initCmd.AddCommand(
		initProfileCmd(),
		initLedgerCmd(),
	)
	return initCmd
}

func initProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "writes the default 'herdi.yaml' config profile",
		Args:  cobra.NoArgs,
		Run:   runInitProfileCmd,
	}
}

func runInitProfileCmd(_ *cobra.Command, _ []string) {
	glb.FileMustNotExist("herdi.yaml")
	profile := map[string]any{
		"api": map[string]any{
			"endpoint": "http://127.0.0.1:8070",
		},
		"wallet": map[string]any{
			"address": "",
		},
		"db": map[string]any{
			"state": glb.StateDBName(),
		},
		"verbose": false,
	}
	data, err := yaml.Marshal(profile)
	glb.AssertNoError(err)
	err = os.WriteFile("herdi.yaml", data, 0644)
	glb.AssertNoError(err)
	glb.Infof("default config profile 'herdi.yaml' has been created")
}

func initLedgerCmd() *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "creates the vault ledger state database with genesis config",
		Args:  cobra.NoArgs,
		Run:   runInitLedgerCmd,
	}
	ledgerCmd.PersistentFlags().String("description", "hereditas vault ledger", "ledger description string")
	err := viper.BindPFlag("description", ledgerCmd.PersistentFlags().Lookup("description"))
	glb.AssertNoError(err)

	ledgerCmd.PersistentFlags().String("fee", "0", "platform fee amount (view-only)")
	err = viper.BindPFlag("fee", ledgerCmd.PersistentFlags().Lookup("fee"))
	glb.AssertNoError(err)

	ledgerCmd.PersistentFlags().String("fee_recipient", "", "platform fee recipient address")
	err = viper.BindPFlag("fee_recipient", ledgerCmd.PersistentFlags().Lookup("fee_recipient"))
	glb.AssertNoError(err)

	return ledgerCmd
}

func runInitLedgerCmd(_ *cobra.Command, _ []string) {
	par := ledger.DefaultParams()
	par.Description = viper.GetString("description")

	var err error
	par.FeeAmount, err = ledger.AmountFromDecimalString(viper.GetString("fee"))
	glb.AssertNoError(err)

	if s := viper.GetString("fee_recipient"); s != "" {
		par.FeeRecipient, err = ledger.AddressFromHexString(s)
		glb.AssertNoError(err)
	}

	glb.CreateStateStore()
	defer glb.CloseDatabases()

	vaultstate.InitLedgerState(glb.StateStore(), par)
	glb.Infof("vault ledger state database '%s' has been initialized:", glb.StateDBName())
	glb.Infof("%s", par.Lines("    ").String())
}
