package vault_cmd

import (
	"net/url"

	"github.com/hereditas-net/hereditas/api"
	"github.com/hereditas-net/hereditas/herdi/glb"
	"github.com/spf13/cobra"
)

func initLedgerInfoCmd() *cobra.Command {
	ledgerInfoCmd := &cobra.Command{
		Use:   "info",
		Short: "retrieves general ledger info from the node",
		Args:  cobra.NoArgs,
		Run:   runLedgerInfoCmd,
	}
	ledgerInfoCmd.InitDefaultHelpCmd()
	return ledgerInfoCmd
}

func runLedgerInfoCmd(_ *cobra.Command, _ []string) {
	var resp api.LedgerInfo
	err := glb.APIGet(api.PathGetLedgerInfo, url.Values{}, &resp)
	glb.AssertNoError(err)
	mustNoAPIError(resp.Error)

	glb.Infof("  version:        %s", resp.Version)
	glb.Infof("  description:    %s", resp.Description)
	glb.Infof("  variant:        %s", resp.Variant)
	glb.Infof("  current height: %d", resp.CurrentHeight)
	glb.Infof("  total vaults:   %d", resp.TotalVaultCount)
	glb.Infof("  platform fee:   %s", resp.FeeAmount)
}
