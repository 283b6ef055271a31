package vault_cmd

import (
	"github.com/hereditas-net/hereditas/api"
	"github.com/hereditas-net/hereditas/herdi/glb"
	"github.com/hereditas-net/hereditas/ledger"
	"github.com/spf13/cobra"
)

func initCreateCmd() *cobra.Command {
	createCmd := &cobra.Command{
		Use:   "create <beneficiary address>",
		Short: "creates a new vault with the caller as owner",
		Args:  cobra.ExactArgs(1),
		Run:   runCreateCmd,
	}
	createCmd.InitDefaultHelpCmd()
	return createCmd
}

func runCreateCmd(_ *cobra.Command, args []string) {
	beneficiary, err := ledger.AddressFromHexString(args[0])
	glb.AssertNoError(err)

	params := callerParams()
	params.Set("beneficiary", beneficiary.String())

	var resp api.CreateVault
	err = glb.APIGet(api.PathCreateVault, params, &resp)
	glb.AssertNoError(err)
	mustNoAPIError(resp.Error)

	if resp.VaultID != "" {
		glb.Infof("vault %s has been created, beneficiary: %s", resp.VaultID, beneficiary.String())
	} else {
		glb.Infof("vault has been created, beneficiary: %s", beneficiary.String())
	}
}
