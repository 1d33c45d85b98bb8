package async

import (
	"context"

	"go.uber.org/zap"

	"github.com/wippyai/winrt-runtime/com"
	"github.com/wippyai/winrt-runtime/errors"
	"github.com/wippyai/winrt-runtime/invoke"
	"github.com/wippyai/winrt-runtime/winrt"
)

// Future resolves an async operation to its result. A Future is driven by
// one goroutine at a time; only the completion handler touches it from
// other threads, through the shared waker slot.
type Future struct {
	info       *winrt.AsyncInfo
	results    *invoke.Method
	sig        *signal
	result     winrt.Value
	err        error
	registered bool
	done       bool
}

// New creates a future for an async value. v keeps its own reference.
func New(v winrt.Value) (*Future, error) {
	info, ok := v.AsAsync()
	if !ok {
		got := "invalid value"
		if v.IsValid() {
			got = v.Type().String()
		}
		return nil, errors.TypeMismatch(errors.PhaseAsync, nil, got, "async operation")
	}
	return FromInfo(info.Clone()), nil
}

// FromInfo creates a future that owns info.
func FromInfo(info *winrt.AsyncInfo) *Future {
	sig := invoke.NewMethodSignature().Named("GetResults")
	if rt := info.ResultType(); rt != nil {
		sig.AddOut(rt)
	}
	return &Future{
		info:    info,
		results: sig.Build(info.ResultsSlot()),
		sig:     &signal{},
	}
}

// Info returns the operation, still owned by f.
func (f *Future) Info() *winrt.AsyncInfo { return f.info }

// Registered reports whether a completion handler was registered.
func (f *Future) Registered() bool { return f.registered }

// Poll reports the result if the operation finished. Otherwise it records w
// to be woken on completion and returns ready == false. Once ready, later
// polls return the same result without taking new references.
func (f *Future) Poll(w Waker) (v winrt.Value, ready bool, err error) {
	if f.done {
		return f.result, true, f.err
	}

	if f.registered {
		f.sig.set(w)
		return f.check()
	}

	status, err := f.info.Status()
	if err != nil {
		return f.resolve(winrt.Value{}, err)
	}
	if status != winrt.AsyncStarted {
		return f.finish(status)
	}

	f.sig.set(w)
	if err := f.register(); err != nil {
		return f.resolve(winrt.Value{}, err)
	}
	// completion may have raced the registration
	return f.check()
}

func (f *Future) check() (winrt.Value, bool, error) {
	status, err := f.info.Status()
	if err != nil {
		return f.resolve(winrt.Value{}, err)
	}
	if status == winrt.AsyncStarted {
		return winrt.Value{}, false, nil
	}
	return f.finish(status)
}

func (f *Future) register() error {
	h, err := newHandler(f.info.HandlerIID(), f.sig)
	if err != nil {
		return errors.Wrap(errors.PhaseAsync, errors.KindCallFailed, err, "create completion handler")
	}
	defer h.Release()

	op, err := f.info.Operation()
	if err != nil {
		return err
	}
	defer op.Release()

	slot := f.info.CompletedSlot()
	if hr := com.CallMethod(op.Raw(), slot, uintptr(h.Raw())); hr.Failed() {
		return errors.New(errors.PhaseAsync, errors.KindCallFailed).
			Type(f.info.Type().String()).Detail("put_Completed").Cause(hr).Build()
	}
	f.registered = true
	Logger().Debug("completion handler registered",
		zap.Stringer("operation", f.info),
		zap.Int("slot", slot))
	return nil
}

func (f *Future) finish(status winrt.AsyncStatus) (winrt.Value, bool, error) {
	op, err := f.info.Operation()
	if err != nil {
		return f.resolve(winrt.Value{}, err)
	}
	defer op.Release()

	out, err := f.results.Call(op)
	if err != nil {
		Logger().Debug("async operation failed",
			zap.Stringer("operation", f.info),
			zap.Stringer("status", status),
			zap.Error(err))
		return f.resolve(winrt.Value{}, errors.New(errors.PhaseAsync, errors.KindCallFailed).
			Type(f.info.Type().String()).Detail("GetResults (status %s)", status).Cause(err).Build())
	}
	if len(out) == 0 {
		return f.resolve(winrt.HResult(com.S_OK), nil)
	}
	return f.resolve(out[0], nil)
}

func (f *Future) resolve(v winrt.Value, err error) (winrt.Value, bool, error) {
	f.done = true
	f.result = v
	f.err = err
	return v, true, err
}

// Await polls f until it resolves or ctx ends. The operation keeps running
// when ctx ends first.
func (f *Future) Await(ctx context.Context) (winrt.Value, error) {
	ch := make(chan struct{}, 1)
	w := WakerFunc(func() {
		select {
		case ch <- struct{}{}:
		default:
		}
	})
	for {
		v, ready, err := f.Poll(w)
		if ready {
			return v, err
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return winrt.Value{}, ctx.Err()
		}
	}
}

// Close releases the operation. A registered handler stays alive until the
// platform releases it.
func (f *Future) Close() {
	f.info.Release()
}

// Await is a convenience for awaiting an async value once.
func Await(ctx context.Context, v winrt.Value) (winrt.Value, error) {
	f, err := New(v)
	if err != nil {
		return winrt.Value{}, err
	}
	defer f.Close()
	return f.Await(ctx)
}
