package vault_cmd

import (
	"github.com/hereditas-net/hereditas/api"
	"github.com/hereditas-net/hereditas/herdi/glb"
	"github.com/spf13/cobra"
)

func initCheckInCmd() *cobra.Command {
	checkInCmd := &cobra.Command{
		Use:     "checkin",
		Aliases: []string{"heartbeat"},
		Short:   "records an owner heartbeat, resetting the inactivity clock",
		Args:    cobra.NoArgs,
		Run:     runCheckInCmd,
	}
	checkInCmd.InitDefaultHelpCmd()
	return checkInCmd
}

func runCheckInCmd(_ *cobra.Command, _ []string) {
	var resp api.SuccessResponse
	err := glb.APIGet(api.PathCheckIn, mustVaultParams(callerParams()), &resp)
	glb.AssertNoError(err)
	mustNoAPIError(resp.Error)

	glb.Infof("heartbeat has been recorded")
}
