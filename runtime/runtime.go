package runtime

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/winrt-runtime/async"
	"github.com/wippyai/winrt-runtime/catalog"
	"github.com/wippyai/winrt-runtime/com"
	"github.com/wippyai/winrt-runtime/errors"
	"github.com/wippyai/winrt-runtime/guid"
	"github.com/wippyai/winrt-runtime/invoke"
	"github.com/wippyai/winrt-runtime/layout"
	"github.com/wippyai/winrt-runtime/roapi"
	"github.com/wippyai/winrt-runtime/winrt"
)

type Runtime struct {
	log    *zap.Logger
	types  *layout.Registry
	ifaces map[guid.GUID]*invoke.InterfaceSignature

	trace       *tracer
	apartment   roapi.Apartment
	mu          sync.RWMutex
	initialized bool
	closed      atomic.Bool
}

func New(ctx context.Context, opts ...Option) (*Runtime, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o, err := newOptions(opts)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseRuntime, errors.KindInvalidInput, err, "create debug logger")
	}

	r := &Runtime{
		log:       zap.NewNop(),
		types:     o.Registry,
		ifaces:    make(map[guid.GUID]*invoke.InterfaceSignature),
		apartment: o.Apartment,
	}
	if o.Logger != nil {
		r.log = o.Logger
		com.SetLogger(o.Logger.Named("com"))
		invoke.SetLogger(o.Logger.Named("invoke"))
		async.SetLogger(o.Logger.Named("async"))
	}

	if o.Initialize {
		if err := roapi.Initialize(o.Apartment); err != nil {
			return nil, err
		}
		r.initialized = true
	}
	if o.Trace {
		r.trace = installTracer(r.log)
	}

	r.log.Debug("runtime started",
		zap.Stringer("apartment", o.Apartment),
		zap.Bool("initialized", r.initialized),
		zap.Bool("trace", o.Trace),
	)
	return r, nil
}

// Close uninitializes the apartment and removes call tracing. Runtimes may
// be closed in any order. Objects obtained from the runtime must be released
// before calling this.
func (r *Runtime) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	if r.trace != nil {
		r.trace.remove()
	}
	if r.initialized {
		roapi.Uninitialize()
	}
	r.mu.Lock()
	clear(r.ifaces)
	r.mu.Unlock()
	r.log.Debug("runtime closed")
	return nil
}

func (r *Runtime) Types() *layout.Registry { return r.types }

func (r *Runtime) Apartment() roapi.Apartment { return r.apartment }

func (r *Runtime) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.closed.Load() {
		return errors.NotInitialized(errors.PhaseRuntime, "runtime")
	}
	return nil
}

// Define adds s to the interface cache, replacing any signature with the same IID.
func (r *Runtime) Define(s *invoke.InterfaceSignature) {
	r.mu.Lock()
	r.ifaces[s.IID] = s
	r.mu.Unlock()
}

// Signature returns the interface with identifier iid from the cache,
// falling back to the catalog.
func (r *Runtime) Signature(iid guid.GUID) (*invoke.InterfaceSignature, bool) {
	r.mu.RLock()
	s, ok := r.ifaces[iid]
	r.mu.RUnlock()
	if ok {
		return s, true
	}
	if s, ok = catalog.ByIID(iid); ok {
		r.Define(s)
	}
	return s, ok
}

// ActivationFactory returns the IActivationFactory of className.
func (r *Runtime) ActivationFactory(ctx context.Context, className string) (*com.Unknown, error) {
	return r.Factory(ctx, className, com.IIDActivationFactory)
}

// Factory returns the activation factory of className queried for iid.
func (r *Runtime) Factory(ctx context.Context, className string, iid guid.GUID) (*com.Unknown, error) {
	if err := r.check(ctx); err != nil {
		return nil, err
	}
	f, err := roapi.GetActivationFactory(className, iid)
	if err != nil {
		return nil, err
	}
	r.log.Debug("factory", zap.String("class", className), zap.Stringer("iid", iid))
	return f, nil
}

// Activate default-constructs className through IActivationFactory::ActivateInstance.
// The result is tagged with the runtime class type, carrying the default
// interface when the catalog knows the class.
func (r *Runtime) Activate(ctx context.Context, className string) (winrt.Value, error) {
	f, err := r.ActivationFactory(ctx, className)
	if err != nil {
		return winrt.Value{}, err
	}
	defer f.Release()

	res, err := catalog.IActivationFactory.Call(f, catalog.SlotActivateInstance)
	if err != nil {
		return winrt.Value{}, errors.New(errors.PhaseActivate, errors.KindCallFailed).
			Type(className).Detail("ActivateInstance").Cause(err).Build()
	}
	obj, _ := res[0].AsObject()
	if obj == nil {
		return winrt.Value{}, errors.New(errors.PhaseActivate, errors.KindCallFailed).
			Type(className).Detail("ActivateInstance returned null").Build()
	}
	return winrt.ObjectOf(classType(className), obj), nil
}

func classType(className string) winrt.RuntimeClassType {
	if t, ok := catalog.Resolve(className); ok {
		if rc, ok := t.(winrt.RuntimeClassType); ok && rc.Name == className {
			return rc
		}
	}
	return winrt.RuntimeClassType{Name: className}
}

// Interface queries obj for iid. The result is tagged with the cached
// signature's type when the interface is known.
func (r *Runtime) Interface(ctx context.Context, obj *com.Unknown, iid guid.GUID) (winrt.Value, error) {
	if err := r.check(ctx); err != nil {
		return winrt.Value{}, err
	}
	if obj.IsNil() {
		return winrt.Value{}, errors.ExpectObject(errors.PhaseCall, "null")
	}
	q, err := obj.QueryInterface(iid)
	if err != nil {
		return winrt.Value{}, errors.New(errors.PhaseCall, errors.KindCallFailed).
			Type(iid.Braced()).Detail("QueryInterface").Cause(err).Build()
	}
	typ := winrt.InterfaceType{IID: iid}
	if s, ok := r.Signature(iid); ok {
		typ = s.Type()
	}
	return winrt.ObjectOf(typ, q), nil
}

// Invoke calls m on obj.
func (r *Runtime) Invoke(ctx context.Context, obj *com.Unknown, m *invoke.Method, args ...winrt.Value) ([]winrt.Value, error) {
	if err := r.check(ctx); err != nil {
		return nil, err
	}
	return m.Call(obj, args...)
}

// InvokeNamed queries obj for iid and calls the method called name.
func (r *Runtime) InvokeNamed(ctx context.Context, obj *com.Unknown, iid guid.GUID, name string, args ...winrt.Value) ([]winrt.Value, error) {
	s, ok := r.Signature(iid)
	if !ok {
		return nil, errors.NotFound(errors.PhaseCall, "interface", iid.Braced())
	}
	m, ok := s.Lookup(name)
	if !ok {
		return nil, errors.NotFound(errors.PhaseCall, "method", s.Name+"."+name)
	}
	v, err := r.Interface(ctx, obj, iid)
	if err != nil {
		return nil, err
	}
	defer v.Release()
	return m.CallValue(v, args...)
}

// Await waits for an async operation value to complete.
func (r *Runtime) Await(ctx context.Context, v winrt.Value) (winrt.Value, error) {
	if err := r.check(ctx); err != nil {
		return winrt.Value{}, err
	}
	return async.Await(ctx, v)
}
