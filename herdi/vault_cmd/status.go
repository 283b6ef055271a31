package vault_cmd

import (
	"net/url"

	"github.com/hereditas-net/hereditas/api"
	"github.com/hereditas-net/hereditas/herdi/glb"
	"github.com/spf13/cobra"
)

func initStatusCmd() *cobra.Command {
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "retrieves the full vault status snapshot",
		Args:  cobra.NoArgs,
		Run:   runStatusCmd,
	}
	statusCmd.InitDefaultHelpCmd()
	return statusCmd
}

func runStatusCmd(_ *cobra.Command, _ []string) {
	var resp api.Status
	err := glb.APIGet(api.PathGetStatus, mustVaultParams(url.Values{}), &resp)
	glb.AssertNoError(err)
	mustNoAPIError(resp.Error)

	glb.Infof("  status:           %s", resp.StatusName)
	glb.Infof("  owner:            %s", resp.Owner)
	glb.Infof("  last heartbeat:   %d", resp.LastHeartbeatBlock)
	glb.Infof("  current block:    %d", resp.CurrentBlock)
	glb.Infof("  deposited:        %s", resp.TotalDeposited)
	glb.Infof("  tier 1 tranche:   %s", resp.Tier1Amount)
	glb.Infof("  tier 2 tranche:   %s", resp.Tier2Amount)
	glb.Infof("  tier 1 remaining: %d block(s)", resp.Tier1BlocksRemaining)
	glb.Infof("  tier 2 remaining: %d block(s)", resp.Tier2BlocksRemaining)
}
