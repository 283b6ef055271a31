package vaultstate

import (
	"github.com/lunfardo314/unitrie/common"
)

// access to the persistent vault state

type (
	StateStoreReader interface {
		common.KVReader
		common.Traversable
		IsClosed() bool
	}

	StateStore interface {
		StateStoreReader
		common.BatchedUpdatable
	}
)
