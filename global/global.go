package global

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/hereditas-net/hereditas/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Global struct {
	ctx             context.Context
	stopFun         context.CancelFunc
	logger          *zap.SugaredLogger
	logVerbosity    int
	metricsRegistry *prometheus.Registry
	stopOnce        sync.Once
	mutex           sync.RWMutex
	components      map[string]struct{}
	enabledTrace    bool
	traceTags       map[string]struct{}
}

const TraceTagsDelim = ","

func NewDefault(verbosity ...int) *Global {
	v := 0
	if len(verbosity) > 0 {
		v = verbosity[0]
	}
	return _new(zap.InfoLevel, v, "")
}

// NewFromConfig reads logger parameters from the viper config the way the
// node does it: 'logger.verbosity', 'logger.level' and 'logger.output'
func NewFromConfig() *Global {
	lvl := zap.InfoLevel
	if viper.GetBool("logger.debug") {
		lvl = zap.DebugLevel
	}
	return _new(lvl, viper.GetInt("logger.verbosity"), viper.GetString("logger.output"))
}

func _new(logLevel zapcore.Level, verbosity int, logOutput string) *Global {
	ctx, cancelFun := context.WithCancel(context.Background())
	ret := &Global{
		ctx:             ctx,
		stopFun:         cancelFun,
		logger:          newSugaredLogger(logLevel, logOutput),
		logVerbosity:    verbosity,
		metricsRegistry: prometheus.NewRegistry(),
		components:      make(map[string]struct{}),
		traceTags:       make(map[string]struct{}),
	}
	return ret
}

func newSugaredLogger(logLevel zapcore.Level, logOutput string) *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(logLevel)
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("01-02 15:04:05.000")
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	cfg.OutputPaths = []string{"stderr"}
	if logOutput != "" && logOutput != "stderr" {
		cfg.OutputPaths = append(cfg.OutputPaths, logOutput)
	}
	log, err := cfg.Build()
	if err != nil {
		fmt.Printf("can't create logger: %v\n", err)
		os.Exit(1)
	}
	return log.Sugar()
}

func (l *Global) Log() *zap.SugaredLogger {
	return l.logger
}

func (l *Global) MetricsRegistry() *prometheus.Registry {
	return l.metricsRegistry
}

func (l *Global) Ctx() context.Context {
	return l.ctx
}

func (l *Global) Stop() {
	l.stopOnce.Do(func() {
		l.logger.Info("global STOP invoked")
		l.stopFun()
	})
}

func (l *Global) IsShuttingDown() bool {
	select {
	case <-l.ctx.Done():
		return true
	default:
		return false
	}
}

func (l *Global) MarkWorkProcessStarted(name string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	_, already := l.components[name]
	util.Assertf(!already, "MarkWorkProcessStarted: repeating work process name '%s'", name)
	l.components[name] = struct{}{}
}

func (l *Global) MarkWorkProcessStopped(name string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	_, ok := l.components[name]
	util.Assertf(ok, "MarkWorkProcessStopped: unknown work process name '%s'", name)
	delete(l.components, name)
}

// WaitAllWorkProcessesStop polls until all registered work processes have
// reported shutdown. Returns false if it timed out
func (l *Global) WaitAllWorkProcessesStop(timeout ...time.Duration) bool {
	deadline := time.Now().Add(24 * time.Hour)
	if len(timeout) > 0 {
		deadline = time.Now().Add(timeout[0])
	}
	for {
		l.mutex.RLock()
		numRunning := len(l.components)
		l.mutex.RUnlock()
		if numRunning == 0 {
			return true
		}
		if time.Now().After(deadline) {
			l.mutex.RLock()
			for name := range l.components {
				l.logger.Warnf("WaitAllWorkProcessesStop: '%s' is still running", name)
			}
			l.mutex.RUnlock()
			return false
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func (l *Global) RepeatInBackground(name string, period time.Duration, fun func() bool, skipFirst ...bool) {
	l.MarkWorkProcessStarted(name)
	go func() {
		defer l.MarkWorkProcessStopped(name)

		if len(skipFirst) == 0 || !skipFirst[0] {
			if !fun() {
				return
			}
		}
		for {
			select {
			case <-l.ctx.Done():
				return
			case <-time.After(period):
				if !fun() {
					return
				}
			}
		}
	}()
}

func (l *Global) VerbosityLevel() int {
	return l.logVerbosity
}

func (l *Global) Infof0(template string, args ...any) {
	l.logger.Infof(template, args...)
}

func (l *Global) Infof1(template string, args ...any) {
	if l.logVerbosity >= 1 {
		l.logger.Infof(template, args...)
	}
}

func (l *Global) Assertf(cond bool, format string, args ...any) {
	if l.IsShuttingDown() {
		return
	}
	if !cond {
		l.logger.Fatalf("assertion failed:: "+format, util.EvalLazyArgs(args...)...)
	}
}

func (l *Global) AssertNoError(err error, prefix ...string) {
	if err != nil {
		pref := "error: "
		if len(prefix) > 0 {
			pref = prefix[0] + ": "
		}
		l.logger.Fatalf(pref+"%v", err)
	}
}

func (l *Global) StartTracingTags(tags ...string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	for _, tag := range tags {
		l.traceTags[tag] = struct{}{}
		l.enabledTrace = true
	}
}

func (l *Global) Tracef(tag string, format string, args ...any) {
	if !l.enabledTrace {
		return
	}
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	if _, ok := l.traceTags[tag]; !ok {
		return
	}
	l.logger.Infof("TRACE(%s) %s", tag, fmt.Sprintf(format, util.EvalLazyArgs(args...)...))
}
