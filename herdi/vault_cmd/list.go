package vault_cmd

import (
	"net/url"
	"strconv"

	"github.com/hereditas-net/hereditas/api"
	"github.com/hereditas-net/hereditas/herdi/glb"
	"github.com/spf13/cobra"
)

func initListCmd() *cobra.Command {
	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"myvaults"},
		Short:   "lists all vaults of the owner, with status",
		Args:    cobra.NoArgs,
		Run:     runListCmd,
	}
	listCmd.InitDefaultHelpCmd()
	return listCmd
}

func runListCmd(_ *cobra.Command, _ []string) {
	owner := ownerAddress()
	params := url.Values{}
	params.Set("owner", owner.String())

	var countResp api.VaultCount
	err := glb.APIGet(api.PathGetVaultCount, params, &countResp)
	glb.AssertNoError(err)
	mustNoAPIError(countResp.Error)

	glb.Infof("owner %s controls %d vault(s)", owner.String(), countResp.Count)
	for idx := uint64(0); idx < countResp.Count; idx++ {
		params.Set("index", strconv.FormatUint(idx, 10))

		var idResp api.VaultIDByIndex
		err = glb.APIGet(api.PathGetVaultIDByIndex, params, &idResp)
		glb.AssertNoError(err)
		mustNoAPIError(idResp.Error)

		statusParams := url.Values{}
		statusParams.Set("vaultid", idResp.VaultID)

		var statusResp api.Status
		err = glb.APIGet(api.PathGetStatus, statusParams, &statusResp)
		glb.AssertNoError(err)
		mustNoAPIError(statusResp.Error)

		glb.Infof("%3d  %s  %-14s deposited: %s", idx, idResp.VaultID, statusResp.StatusName, statusResp.TotalDeposited)
	}
}
