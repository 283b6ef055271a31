// Package journal keeps the history of tier-release events: durable in a KV
// store and with a bounded in-memory window of the most recent events for the
// API and the streaming feed. It is informational only, no core vault
// semantics depend on it
package journal

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gammazero/deque"
	"github.com/hereditas-net/hereditas/core/vaultledger"
	"github.com/hereditas-net/hereditas/global"
	"github.com/hereditas-net/hereditas/ledger"
	"github.com/lunfardo314/unitrie/common"
	"github.com/prometheus/client_golang/prometheus"
)

type (
	environment interface {
		global.Logging
	}

	// kvStore is the store the journal needs: read/write plus prefix iteration
	kvStore interface {
		common.KVStore
		common.Traversable
	}

	Journal struct {
		environment
		mutex sync.RWMutex
		s     kvStore
		// seq next record key, restored from the store on start
		seq uint64
		// recent newest events, bounded by recentWindowSize
		recent *deque.Deque[vaultledger.ReleaseEvent]

		listenersMutex sync.RWMutex
		listeners      []func(ev vaultledger.ReleaseEvent)

		metricsEnabled  bool
		releasedCounter prometheus.Counter
	}
)

const (
	recentWindowSize = 100

	eventRecordByteLength = ledger.VaultIDByteLength + 3*ledger.AddressByteLength + 1 +
		ledger.AmountByteLength + ledger.HeightByteLength
)

func New(env environment, store kvStore, metricsRegistry ...global.Metrics) *Journal {
	ret := &Journal{
		environment: env,
		s:           store,
		recent:      deque.New[vaultledger.ReleaseEvent](),
		listeners:   make([]func(ev vaultledger.ReleaseEvent), 0),
	}
	ret.restore()
	if len(metricsRegistry) > 0 && metricsRegistry[0] != nil {
		ret.registerMetrics(metricsRegistry[0].MetricsRegistry())
	}
	return ret
}

func (j *Journal) registerMetrics(reg *prometheus.Registry) {
	j.metricsEnabled = true
	j.releasedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hereditas_journal_releases",
		Help: "number of tier release events recorded in the journal",
	})
	reg.MustRegister(j.releasedCounter)
}

// restore refills the recent window and the sequence counter from the store
func (j *Journal) restore() {
	var lastSeq uint64
	var count int
	j.s.Iterator(nil).Iterate(func(k, v []byte) bool {
		if len(k) != 8 {
			return true
		}
		seq := binary.BigEndian.Uint64(k)
		if seq >= lastSeq {
			lastSeq = seq + 1
		}
		count++
		return true
	})
	j.seq = lastSeq

	// the iterator is ordered by key, keep only the newest window
	skip := count - recentWindowSize
	j.s.Iterator(nil).Iterate(func(k, data []byte) bool {
		if len(k) != 8 {
			return true
		}
		if skip > 0 {
			skip--
			return true
		}
		ev, err := eventFromBytes(data)
		if err != nil {
			j.Log().Warnf("journal: skipping corrupted record: %v", err)
			return true
		}
		j.recent.PushBack(ev)
		return true
	})
	if j.seq > 0 {
		j.Log().Infof("journal restored: %d record(s), %d in the recent window", j.seq, j.recent.Len())
	}
}

// Append records a release event. Wired as a vaultledger.OnRelease listener
func (j *Journal) Append(ev vaultledger.ReleaseEvent) {
	j.mutex.Lock()

	var key [8]byte
	binary.BigEndian.PutUint64(key[:], j.seq)
	j.seq++
	j.s.Set(key[:], eventBytes(ev))

	j.recent.PushBack(ev)
	for j.recent.Len() > recentWindowSize {
		j.recent.PopFront()
	}
	j.mutex.Unlock()

	if j.metricsEnabled {
		j.releasedCounter.Inc()
	}
	j.listenersMutex.RLock()
	for _, fun := range j.listeners {
		fun(ev)
	}
	j.listenersMutex.RUnlock()
}

// ListenToReleases registers a listener called on every appended event
func (j *Journal) ListenToReleases(fun func(ev vaultledger.ReleaseEvent)) {
	j.listenersMutex.Lock()
	defer j.listenersMutex.Unlock()

	j.listeners = append(j.listeners, fun)
}

// Recent up to max most recent events, newest last
func (j *Journal) Recent(max int) []vaultledger.ReleaseEvent {
	j.mutex.RLock()
	defer j.mutex.RUnlock()

	n := j.recent.Len()
	if max > 0 && n > max {
		n = max
	}
	ret := make([]vaultledger.ReleaseEvent, n)
	for i := 0; i < n; i++ {
		ret[n-1-i] = j.recent.At(j.recent.Len() - 1 - i)
	}
	return ret
}

// NumRecords total number of events ever recorded
func (j *Journal) NumRecords() uint64 {
	j.mutex.RLock()
	defer j.mutex.RUnlock()

	return j.seq
}

func eventBytes(ev vaultledger.ReleaseEvent) []byte {
	ret := make([]byte, 0, eventRecordByteLength)
	ret = append(ret, ev.VaultID.Bytes()...)
	ret = append(ret, ev.Owner.Bytes()...)
	ret = append(ret, ev.Beneficiary.Bytes()...)
	ret = append(ret, ev.Tier)
	ret = append(ret, ev.Amount.Bytes()...)
	ret = append(ret, ev.Height.Bytes()...)
	ret = append(ret, ev.TriggeredBy.Bytes()...)
	return ret
}

func eventFromBytes(data []byte) (ret vaultledger.ReleaseEvent, err error) {
	if len(data) != eventRecordByteLength {
		err = fmt.Errorf("eventFromBytes: wrong data length %d", len(data))
		return
	}
	pos := 0
	ret.VaultID, err = ledger.VaultIDFromBytes(data[pos : pos+ledger.VaultIDByteLength])
	if err != nil {
		return
	}
	pos += ledger.VaultIDByteLength
	ret.Owner, err = ledger.AddressFromBytes(data[pos : pos+ledger.AddressByteLength])
	if err != nil {
		return
	}
	pos += ledger.AddressByteLength
	ret.Beneficiary, err = ledger.AddressFromBytes(data[pos : pos+ledger.AddressByteLength])
	if err != nil {
		return
	}
	pos += ledger.AddressByteLength
	ret.Tier = data[pos]
	pos++
	ret.Amount, err = ledger.AmountFromBytes(data[pos : pos+ledger.AmountByteLength])
	if err != nil {
		return
	}
	pos += ledger.AmountByteLength
	ret.Height, err = ledger.HeightFromBytes(data[pos : pos+ledger.HeightByteLength])
	if err != nil {
		return
	}
	pos += ledger.HeightByteLength
	ret.TriggeredBy, err = ledger.AddressFromBytes(data[pos : pos+ledger.AddressByteLength])
	return
}
