package runtime

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/winrt-runtime/com"
)

// traceMu serializes installing and removing tracers across runtimes.
var traceMu sync.Mutex

// tracer logs every dispatched call before handing it to next. Tracers of
// several runtimes stack; a removed tracer that is not on top stays in the
// chain as a pass-through until the tracer above it is removed.
type tracer struct {
	next    com.Dispatcher
	log     *zap.Logger
	removed atomic.Bool
}

func installTracer(log *zap.Logger) *tracer {
	traceMu.Lock()
	defer traceMu.Unlock()
	t := &tracer{next: com.CurrentDispatcher(), log: log}
	com.SetDispatcher(t)
	return t
}

func (t *tracer) remove() {
	traceMu.Lock()
	defer traceMu.Unlock()
	t.removed.Store(true)
	if com.CurrentDispatcher() != com.Dispatcher(t) {
		return
	}
	next := t.next
	for {
		below, ok := next.(*tracer)
		if !ok || !below.removed.Load() {
			break
		}
		next = below.next
	}
	com.SetDispatcher(next)
}

func (t *tracer) Dispatch(fn uintptr, args ...uintptr) uintptr {
	ret := t.next.Dispatch(fn, args...)
	if t.removed.Load() {
		return ret
	}
	if ce := t.log.Check(zap.DebugLevel, "dispatch"); ce != nil {
		ce.Write(
			zap.Uintptr("fn", fn),
			zap.Uintptrs("args", args),
			zap.Stringer("ret", com.FromWord(ret)),
		)
	}
	return ret
}
