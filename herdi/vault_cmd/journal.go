package vault_cmd

import (
	"net/url"
	"strconv"

	"github.com/hereditas-net/hereditas/api"
	"github.com/hereditas-net/hereditas/herdi/glb"
	"github.com/spf13/cobra"
)

var maxJournalEvents int

func initJournalCmd() *cobra.Command {
	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "retrieves recent release events from the node journal",
		Args:  cobra.NoArgs,
		Run:   runJournalCmd,
	}
	journalCmd.PersistentFlags().IntVarP(&maxJournalEvents, "max", "m", 20, "maximum number of events to retrieve")

	journalCmd.InitDefaultHelpCmd()
	return journalCmd
}

func runJournalCmd(_ *cobra.Command, _ []string) {
	params := url.Values{}
	params.Set("max", strconv.Itoa(maxJournalEvents))

	var resp api.Journal
	err := glb.APIGet(api.PathGetJournal, params, &resp)
	glb.AssertNoError(err)
	mustNoAPIError(resp.Error)

	glb.Infof("total %d release event(s) in the journal, showing last %d:", resp.TotalRecords, len(resp.Events))
	for _, ev := range resp.Events {
		if ev.VaultID != "" {
			glb.Infof("  height %d: tier %d release of %s from vault %s to %s, triggered by %s",
				ev.Height, ev.Tier, ev.Amount, ev.VaultID, ev.Beneficiary, ev.TriggeredBy)
		} else {
			glb.Infof("  height %d: tier %d release of %s from vault of %s to %s, triggered by %s",
				ev.Height, ev.Tier, ev.Amount, ev.Owner, ev.Beneficiary, ev.TriggeredBy)
		}
	}
}
