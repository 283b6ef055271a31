package vault_cmd

import (
	"fmt"

	"github.com/hereditas-net/hereditas/api"
	"github.com/hereditas-net/hereditas/herdi/glb"
	"github.com/spf13/cobra"
)

func initTriggerCmd(tier int) *cobra.Command {
	triggerCmd := &cobra.Command{
		Use:   fmt.Sprintf("trigger%d", tier),
		Short: fmt.Sprintf("triggers the tier %d release of the vault", tier),
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			runTriggerCmd(tier)
		},
	}
	triggerCmd.InitDefaultHelpCmd()
	return triggerCmd
}

func runTriggerCmd(tier int) {
	path := api.PathTriggerTier1
	if tier == 2 {
		path = api.PathTriggerTier2
	}
	var resp api.Trigger
	err := glb.APIGet(path, mustVaultParams(callerParams()), &resp)
	glb.AssertNoError(err)
	mustNoAPIError(resp.Error)

	glb.Infof("tier %d release has been triggered, released amount: %s", tier, resp.ReleasedAmount)
}
