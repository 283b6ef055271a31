package vault_cmd

import (
	"github.com/hereditas-net/hereditas/api"
	"github.com/hereditas-net/hereditas/herdi/glb"
	"github.com/hereditas-net/hereditas/ledger"
	"github.com/spf13/cobra"
)

func initDepositCmd() *cobra.Command {
	depositCmd := &cobra.Command{
		Use:   "deposit <amount>",
		Short: "records a deposit into the vault. The amount is a decimal number",
		Args:  cobra.ExactArgs(1),
		Run:   runDepositCmd,
	}
	depositCmd.InitDefaultHelpCmd()
	return depositCmd
}

func runDepositCmd(_ *cobra.Command, args []string) {
	amount, err := ledger.AmountFromDecimalString(args[0])
	glb.AssertNoError(err)
	glb.Assertf(!amount.IsZero(), "deposit amount must be positive")

	params := mustVaultParams(callerParams())
	params.Set("amount", amount.DecimalString())

	var resp api.SuccessResponse
	err = glb.APIGet(api.PathDeposit, params, &resp)
	glb.AssertNoError(err)
	mustNoAPIError(resp.Error)

	glb.Infof("deposit of %s has been recorded", amount.String())
}
