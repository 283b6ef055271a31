package vault_cmd

import (
	"net/url"

	"github.com/hereditas-net/hereditas/api"
	"github.com/hereditas-net/hereditas/herdi/glb"
	"github.com/spf13/cobra"
)

func initFeeCmd() *cobra.Command {
	feeCmd := &cobra.Command{
		Use:   "fee",
		Short: "retrieves the view-only platform fee amount",
		Args:  cobra.NoArgs,
		Run:   runFeeCmd,
	}
	feeCmd.InitDefaultHelpCmd()
	return feeCmd
}

func runFeeCmd(_ *cobra.Command, _ []string) {
	var resp api.FeeAmount
	err := glb.APIGet(api.PathGetFeeAmount, url.Values{}, &resp)
	glb.AssertNoError(err)
	mustNoAPIError(resp.Error)

	glb.Infof("platform fee amount: %s", resp.FeeAmount)
}
