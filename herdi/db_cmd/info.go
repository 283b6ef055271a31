package db_cmd

import (
	"github.com/hereditas-net/hereditas/herdi/glb"
	"github.com/hereditas-net/hereditas/ledger"
	"github.com/hereditas-net/hereditas/ledger/vaultstate"
	"github.com/hereditas-net/hereditas/util"
	"github.com/spf13/cobra"
)

func initDBInfoCmd() *cobra.Command {
	dbInfoCmd := &cobra.Command{
		Use:   "info",
		Short: "displays general info of the vault state DB",
		Args:  cobra.NoArgs,
		Run:   runDbInfoCmd,
	}
	dbInfoCmd.InitDefaultHelpCmd()
	return dbInfoCmd
}

func runDbInfoCmd(_ *cobra.Command, _ []string) {
	glb.InitStateStore()
	defer glb.CloseDatabases()

	glb.Assertf(vaultstate.IsInitialized(glb.StateStore()), "state DB has not been initialized, run 'herdi init ledger' first")

	par := vaultstate.MustFetchParams(glb.StateStore())
	glb.Infof("----------------- ledger parameters --------------------")
	glb.Infof("%s", par.Lines("    ").String())

	glb.Infof("----------------- vault summary ------------------------")
	glb.Infof("    total vaults allocated: %s", util.Th(vaultstate.FetchTotalVaultCount(glb.StateStore())))
	glb.Infof("    next vault id:          %s", vaultstate.FetchIDCounter(glb.StateStore()).String())

	byStatus := make(map[ledger.VaultStatus]int)
	totalDeposited := ledger.NewAmount(0)
	vaultstate.IterateVaults(glb.StateStore(), func(v *ledger.Vault) bool {
		byStatus[v.Status]++
		var err error
		totalDeposited, err = totalDeposited.Add(v.TotalDeposited)
		glb.AssertNoError(err)
		return true
	})
	for _, status := range []ledger.VaultStatus{ledger.StatusActive, ledger.StatusTier1Released, ledger.StatusFinalized} {
		glb.Infof("    %-14s %d", status.String()+":", byStatus[status])
	}
	glb.Infof("    total deposited:        %s", totalDeposited.String())
}
