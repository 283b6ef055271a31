package vault_cmd

import (
	"net/url"

	"github.com/hereditas-net/hereditas/api"
	"github.com/hereditas-net/hereditas/herdi/glb"
	"github.com/hereditas-net/hereditas/ledger"
	"github.com/spf13/cobra"
)

func initSetBeneficiaryCmd() *cobra.Command {
	setBeneficiaryCmd := &cobra.Command{
		Use:     "setben <beneficiary address>",
		Aliases: []string{"set_beneficiary"},
		Short:   "replaces the vault beneficiary",
		Args:    cobra.ExactArgs(1),
		Run:     runSetBeneficiaryCmd,
	}
	setBeneficiaryCmd.InitDefaultHelpCmd()
	return setBeneficiaryCmd
}

func runSetBeneficiaryCmd(_ *cobra.Command, args []string) {
	newBeneficiary, err := ledger.AddressFromHexString(args[0])
	glb.AssertNoError(err)

	params := mustVaultParams(callerParams())
	params.Set("beneficiary", newBeneficiary.String())

	var resp api.SuccessResponse
	err = glb.APIGet(api.PathSetBeneficiary, params, &resp)
	glb.AssertNoError(err)
	mustNoAPIError(resp.Error)

	glb.Infof("beneficiary has been set to %s", newBeneficiary.String())
}

func initGetBeneficiaryCmd() *cobra.Command {
	getBeneficiaryCmd := &cobra.Command{
		Use:     "getben",
		Aliases: []string{"get_beneficiary"},
		Short:   "retrieves the current vault beneficiary",
		Args:    cobra.NoArgs,
		Run:     runGetBeneficiaryCmd,
	}
	getBeneficiaryCmd.InitDefaultHelpCmd()
	return getBeneficiaryCmd
}

func runGetBeneficiaryCmd(_ *cobra.Command, _ []string) {
	var resp api.Beneficiary
	err := glb.APIGet(api.PathGetBeneficiary, mustVaultParams(url.Values{}), &resp)
	glb.AssertNoError(err)
	mustNoAPIError(resp.Error)

	glb.Infof("beneficiary: %s", resp.Beneficiary)
}
