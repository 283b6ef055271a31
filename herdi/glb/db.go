package glb

import (
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/hereditas-net/hereditas/global"
	"github.com/hereditas-net/hereditas/ledger/vaultstate"
	"github.com/lunfardo314/unitrie/adaptors/badger_adaptor"
	"github.com/spf13/viper"
)

var (
	stateDB    *badger.DB
	stateStore vaultstate.StateStore
)

func StateDBName() string {
	if dbName := viper.GetString("db.state"); dbName != "" {
		return dbName
	}
	return global.VaultStateDBName
}

func FileMustExist(name string) {
	_, err := os.Stat(name)
	AssertNoError(err)
}

func FileMustNotExist(name string) {
	if _, err := os.Stat(name); err == nil {
		Fatalf("'%s' already exists", name)
	}
}

// InitStateStore opens the state database directly, for the commands which
// work on the DB without a running node
func InitStateStore() {
	dbName := StateDBName()
	Infof("state database: %s", dbName)
	FileMustExist(dbName)
	stateDB = badger_adaptor.MustCreateOrOpenBadgerDB(dbName)
	stateStore = badger_adaptor.New(stateDB)
}

// CreateStateStore creates a virgin state database
func CreateStateStore() {
	dbName := StateDBName()
	FileMustNotExist(dbName)
	stateDB = badger_adaptor.MustCreateOrOpenBadgerDB(dbName)
	stateStore = badger_adaptor.New(stateDB)
}

func StateStore() vaultstate.StateStore {
	return stateStore
}

func CloseDatabases() {
	if stateDB != nil {
		_ = stateDB.Close()
	}
}
