package global

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type (
	Logging interface {
		Log() *zap.SugaredLogger
		Tracef(tag string, format string, args ...any)
		StartTracingTags(tags ...string)
		// Assertf asserts only if global shutdown wasn't issued
		Assertf(cond bool, format string, args ...any)
		AssertNoError(err error, prefix ...string)
		VerbosityLevel() int
		Infof0(template string, args ...any)
		Infof1(template string, args ...any)
	}

	// StartStop interface of the global object which coordinates graceful shutdown
	StartStop interface {
		Ctx() context.Context // global context of the node. Canceling means stopping the node
		Stop()
		IsShuttingDown() bool
		MarkWorkProcessStarted(name string)
		MarkWorkProcessStopped(name string)
		WaitAllWorkProcessesStop(timeout ...time.Duration) bool
		RepeatInBackground(name string, period time.Duration, fun func() bool, skipFirst ...bool) // runs background goroutine
	}

	Metrics interface {
		MetricsRegistry() *prometheus.Registry
	}

	NodeGlobal interface {
		Logging
		StartStop
		Metrics
	}
)

// database names on disk
const (
	VaultStateDBName = "hereditasdb"
	JournalDBName    = VaultStateDBName + ".journal"
)

var ErrInterrupted = errors.New("interrupted by global stop")
