package vault_cmd

import (
	"net/url"
	"strconv"

	"github.com/hereditas-net/hereditas/api"
	"github.com/hereditas-net/hereditas/herdi/glb"
	"github.com/hereditas-net/hereditas/ledger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func Init() *cobra.Command {
	vaultCmd := &cobra.Command{
		Use:   "vault [<subcommand>]",
		Short: "specifies vault subcommands on the node API",
		Args:  cobra.NoArgs,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			glb.ReadInConfig()
		},
	}

	vaultCmd.PersistentFlags().String("vaultid", "", "vault id, decimal or hex encoded")
	err := viper.BindPFlag("vaultid", vaultCmd.PersistentFlags().Lookup("vaultid"))
	glb.AssertNoError(err)

	vaultCmd.PersistentFlags().String("owner", "", "vault owner address. Default: the caller address")
	err = viper.BindPFlag("owner", vaultCmd.PersistentFlags().Lookup("owner"))
	glb.AssertNoError(err)

	vaultCmd.PersistentFlags().Uint64("height", 0, "explicit block height of the operation. Default: the node height")
	err = viper.BindPFlag("height", vaultCmd.PersistentFlags().Lookup("height"))
	glb.AssertNoError(err)

	vaultCmd.InitDefaultHelpCmd()
	vaultCmd.AddCommand(
		initLedgerInfoCmd(),
		initCreateCmd(),
		initCheckInCmd(),
		initDepositCmd(),
		initSetBeneficiaryCmd(),
		initGetBeneficiaryCmd(),
		initStatusCmd(),
		initTriggerCmd(1),
		initTriggerCmd(2),
		initFeeCmd(),
		initListCmd(),
		initJournalCmd(),
		initSyncHeightCmd(),
	)
	return vaultCmd
}

// mustVaultParams the vault key the node resolves per ledger variant: the
// 'vaultid' value for the multi-vault one, the 'owner' address for the solo one
func mustVaultParams(params url.Values) url.Values {
	if s := viper.GetString("vaultid"); s != "" {
		id, err := ledger.VaultIDFromString(s)
		glb.AssertNoError(err)
		params.Set("vaultid", id.StringHex())
	}
	params.Set("owner", ownerAddress().String())
	return params
}

// ownerAddress the explicit --owner value or the caller address
func ownerAddress() ledger.Address {
	if s := viper.GetString("owner"); s != "" {
		addr, err := ledger.AddressFromHexString(s)
		glb.AssertNoError(err)
		return addr
	}
	return glb.MustCallerAddress()
}

func callerParams() url.Values {
	params := url.Values{}
	params.Set("caller", glb.MustCallerAddress().String())
	if h := viper.GetUint64("height"); h != 0 {
		params.Set("height", strconv.FormatUint(h, 10))
	}
	return params
}

func mustNoAPIError(e api.Error) {
	glb.Assertf(e.Error == "", "from the node: %s", e.Error)
}
