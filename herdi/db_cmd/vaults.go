package db_cmd

import (
	"github.com/hereditas-net/hereditas/herdi/glb"
	"github.com/hereditas-net/hereditas/ledger"
	"github.com/hereditas-net/hereditas/ledger/vaultstate"
	"github.com/spf13/cobra"
)

var (
	ownerFilter string
	maxVaults   int
)

func initDBVaultsCmd() *cobra.Command {
	dbVaultsCmd := &cobra.Command{
		Use:   "vaults",
		Short: "lists vault records in the state DB",
		Args:  cobra.NoArgs,
		Run:   runDbVaultsCmd,
	}
	dbVaultsCmd.PersistentFlags().StringVarP(&ownerFilter, "owner", "o", "", "only list vaults of the owner address")
	dbVaultsCmd.PersistentFlags().IntVarP(&maxVaults, "max", "m", -1, "maximum number of vaults to list. Default: all")

	dbVaultsCmd.InitDefaultHelpCmd()
	return dbVaultsCmd
}

func runDbVaultsCmd(_ *cobra.Command, _ []string) {
	glb.InitStateStore()
	defer glb.CloseDatabases()

	glb.Assertf(vaultstate.IsInitialized(glb.StateStore()), "state DB has not been initialized, run 'herdi init ledger' first")

	var owner ledger.Address
	if ownerFilter != "" {
		var err error
		owner, err = ledger.AddressFromHexString(ownerFilter)
		glb.AssertNoError(err)
	}

	count := 0
	vaultstate.IterateVaults(glb.StateStore(), func(v *ledger.Vault) bool {
		if !owner.IsNil() && v.Owner != owner {
			return true
		}
		glb.Infof("%s  %-14s owner: %s, deposited: %s",
			v.ID.String(), v.Status.String(), v.Owner.StringShort(), v.TotalDeposited.String())
		if glb.IsVerbose() {
			glb.Infof("%s", v.Lines("      ").String())
		}
		count++
		return maxVaults < 0 || count < maxVaults
	})
	glb.Infof("total %d vault(s) listed", count)
}
