package vault_cmd

import (
	"net/url"
	"strconv"

	"github.com/hereditas-net/hereditas/api"
	"github.com/hereditas-net/hereditas/herdi/glb"
	"github.com/spf13/cobra"
)

func initSyncHeightCmd() *cobra.Command {
	syncCmd := &cobra.Command{
		Use:   "sync <height>",
		Short: "advances the node block height. Heights never move backwards",
		Args:  cobra.ExactArgs(1),
		Run:   runSyncHeightCmd,
	}
	syncCmd.InitDefaultHelpCmd()
	return syncCmd
}

func runSyncHeightCmd(_ *cobra.Command, args []string) {
	h, err := strconv.ParseUint(args[0], 10, 64)
	glb.AssertNoError(err)

	params := url.Values{}
	params.Set("height", strconv.FormatUint(h, 10))

	var resp api.SyncHeight
	err = glb.APIGet(api.PathSyncHeight, params, &resp)
	glb.AssertNoError(err)
	mustNoAPIError(resp.Error)

	glb.Infof("node height is now %d", resp.CurrentHeight)
}
