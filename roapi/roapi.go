package roapi

import (
	"sync"

	"github.com/wippyai/winrt-runtime/com"
	"github.com/wippyai/winrt-runtime/errors"
	"github.com/wippyai/winrt-runtime/guid"
)

// Apartment is the threading model passed to RoInitialize.
type Apartment uint32

const (
	SingleThreaded Apartment = 0
	MultiThreaded  Apartment = 1
)

func (a Apartment) String() string {
	if a == SingleThreaded {
		return "STA"
	}
	return "MTA"
}

// FactoryFunc creates a factory object for a registered class. The caller
// owns the returned reference.
type FactoryFunc func() (*com.Unknown, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]FactoryFunc{}
)

// Register serves className from fn until the returned function is called.
func Register(className string, fn FactoryFunc) (unregister func()) {
	registryMu.Lock()
	registry[className] = fn
	registryMu.Unlock()
	return func() {
		registryMu.Lock()
		delete(registry, className)
		registryMu.Unlock()
	}
}

func registered(className string) (FactoryFunc, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fn, ok := registry[className]
	return fn, ok
}

// Initialize initializes the runtime on the calling thread. An apartment
// already initialized with the same model is not an error.
func Initialize(a Apartment) error {
	hr := platformInitialize(a)
	if hr.Failed() {
		return errors.New(errors.PhaseActivate, errors.KindCallFailed).
			Detail("RoInitialize(%s)", a).Cause(hr).Build()
	}
	com.Logger().Debug("runtime initialized")
	return nil
}

// Uninitialize balances a successful Initialize.
func Uninitialize() {
	platformUninitialize()
}

// GetActivationFactory returns the activation factory of className queried
// for iid.
func GetActivationFactory(className string, iid guid.GUID) (*com.Unknown, error) {
	if className == "" {
		return nil, errors.InvalidInput(errors.PhaseActivate, "empty class name")
	}
	if fn, ok := registered(className); ok {
		f, err := fn()
		if err != nil {
			return nil, errors.Wrap(errors.PhaseActivate, errors.KindCallFailed, err, className)
		}
		defer f.Release()
		q, err := f.QueryInterface(iid)
		if err != nil {
			return nil, errors.New(errors.PhaseActivate, errors.KindCallFailed).
				Type(className).Detail("QueryInterface %s", iid).Cause(err).Build()
		}
		return q, nil
	}

	name, err := com.NewHString(className)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseActivate, errors.KindInvalidInput, err, className)
	}
	defer name.Delete()

	p, hr := platformActivationFactory(name, iid)
	if hr == com.REGDB_E_CLASSNOTREG {
		return nil, errors.New(errors.PhaseActivate, errors.KindNotFound).
			Type(className).Detail("class not registered").Cause(hr).Build()
	}
	if hr.Failed() {
		return nil, errors.New(errors.PhaseActivate, errors.KindCallFailed).
			Type(className).Detail("RoGetActivationFactory").Cause(hr).Build()
	}
	return com.FromRaw(p), nil
}
