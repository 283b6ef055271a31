package node

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/hereditas-net/hereditas/core/journal"
	"github.com/hereditas-net/hereditas/core/vaultledger"
	"github.com/hereditas-net/hereditas/global"
	"github.com/hereditas-net/hereditas/ledger"
	"github.com/hereditas-net/hereditas/ledger/vaultstate"
	"github.com/lunfardo314/unitrie/adaptors/badger_adaptor"
	"github.com/spf13/viper"
	"go.uber.org/atomic"
)

// Hereditas the vault ledger node: the state DB, the ledger engine of the
// configured variant, the release journal and the API surfaces
type Hereditas struct {
	*global.Global
	stateDB    *badger.DB
	journalDB  *badger.DB
	stateStore vaultstate.StateStore

	// exactly one of the two is non-nil, per 'ledger.variant' config value
	vaultLedger *vaultledger.Ledger
	soloLedger  *vaultledger.SoloLedger

	journal *journal.Journal

	// currentHeight the latest block height reported by the host chain
	// follower, fed through the sync_height API call
	currentHeight atomic.Uint64
}

func New() *Hereditas {
	return &Hereditas{
		Global: global.NewFromConfig(),
	}
}

func (h *Hereditas) Run() {
	h.Log().Info(global.BannerString())

	if tags := viper.GetString("trace_tags"); tags != "" {
		h.StartTracingTags(strings.Split(tags, global.TraceTagsDelim)...)
	}

	err := h.initStateDB()
	if err != nil {
		h.Log().Fatalf("%v", err)
	}
	err = h.initLedger()
	if err != nil {
		h.Log().Fatalf("%v", err)
	}
	h.initJournal()
	h.currentHeight.Store(viper.GetUint64("height.start"))
	h.startAPIServer()
	h.startStreaming()

	h.goCatchInterrupt()
	<-h.Ctx().Done()
	h.waitStop()
}

func (h *Hereditas) initStateDB() error {
	dbName := viper.GetString("db.state")
	if dbName == "" {
		dbName = global.VaultStateDBName
	}
	if _, err := os.Stat(dbName); err != nil {
		return fmt.Errorf("state database '%s' does not exist: run 'herdi init ledger' first", dbName)
	}
	h.stateDB = badger_adaptor.MustCreateOrOpenBadgerDB(dbName)
	h.stateStore = badger_adaptor.New(h.stateDB)
	if !vaultstate.IsInitialized(h.stateStore) {
		return fmt.Errorf("state database '%s' has not been initialized: run 'herdi init ledger' first", dbName)
	}
	h.Log().Infof("state database: %s", dbName)
	return nil
}

func (h *Hereditas) initLedger() error {
	var err error
	switch variant := viper.GetString("ledger.variant"); variant {
	case "", "multi":
		h.vaultLedger, err = vaultledger.New(h, h.stateStore)
	case "solo":
		h.soloLedger, err = vaultledger.NewSolo(h, h.stateStore)
	default:
		return fmt.Errorf("unknown ledger variant '%s' in the config", variant)
	}
	return err
}

func (h *Hereditas) initJournal() {
	dbName := viper.GetString("db.journal")
	if dbName == "" {
		dbName = global.JournalDBName
	}
	h.journalDB = badger_adaptor.MustCreateOrOpenBadgerDB(dbName)
	h.journal = journal.New(h, badger_adaptor.New(h.journalDB), h)

	if h.vaultLedger != nil {
		h.vaultLedger.OnRelease(h.journal.Append)
	} else {
		h.soloLedger.OnRelease(h.journal.Append)
	}
	h.Log().Infof("journal database: %s", dbName)
}

func (h *Hereditas) goCatchInterrupt() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		h.Log().Infof("caught signal %v", sig)
		h.Stop()
	}()
}

func (h *Hereditas) waitStop() {
	h.WaitAllWorkProcessesStop(10 * time.Second)
	if h.stateDB != nil {
		_ = h.stateDB.Close()
	}
	if h.journalDB != nil {
		_ = h.journalDB.Close()
	}
	h.Log().Info("node stopped")
	_ = h.Log().Sync()
}

// environment of the API server and the streaming feed

func (h *Hereditas) VaultLedger() *vaultledger.Ledger {
	return h.vaultLedger
}

func (h *Hereditas) SoloVaultLedger() *vaultledger.SoloLedger {
	return h.soloLedger
}

func (h *Hereditas) Journal() *journal.Journal {
	return h.journal
}

func (h *Hereditas) ListenToReleases(fun func(ev vaultledger.ReleaseEvent)) {
	h.journal.ListenToReleases(fun)
}

func (h *Hereditas) CurrentHeight() ledger.Height {
	return ledger.Height(h.currentHeight.Load())
}

// SetCurrentHeight the followed height never moves backwards: a lower value
// than the current one is ignored
func (h *Hereditas) SetCurrentHeight(height ledger.Height) {
	for {
		old := h.currentHeight.Load()
		if uint64(height) <= old {
			return
		}
		if h.currentHeight.CompareAndSwap(old, uint64(height)) {
			return
		}
	}
}
