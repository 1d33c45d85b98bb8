package runtime

import (
	"os"

	"go.uber.org/zap"

	"github.com/wippyai/winrt-runtime/catalog"
	"github.com/wippyai/winrt-runtime/layout"
	"github.com/wippyai/winrt-runtime/roapi"
)

// EnvDebug enables debug logging and call tracing when set to 1.
const EnvDebug = "WINRT_RUNTIME_DEBUG"

// Options configures a Runtime.
type Options struct {
	Logger     *zap.Logger
	Registry   *layout.Registry
	Apartment  roapi.Apartment
	Initialize bool
	Trace      bool
}

// Option modifies Options.
type Option func(*Options)

// WithLogger sets the logger used by the runtime and the com, invoke and
// async packages.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithApartment selects the apartment the runtime initializes.
func WithApartment(a roapi.Apartment) Option {
	return func(o *Options) { o.Apartment = a }
}

// WithoutInitialize skips RoInitialize for hosts that own the apartment.
func WithoutInitialize() Option {
	return func(o *Options) { o.Initialize = false }
}

// WithRegistry sets the registry value types are defined in.
// The catalog registry is used by default.
func WithRegistry(r *layout.Registry) Option {
	return func(o *Options) { o.Registry = r }
}

// WithTrace logs every dispatched call at debug level.
func WithTrace() Option {
	return func(o *Options) { o.Trace = true }
}

func newOptions(opts []Option) (Options, error) {
	o := Options{
		Registry:   catalog.Types,
		Apartment:  roapi.MultiThreaded,
		Initialize: true,
	}
	if os.Getenv(EnvDebug) == "1" {
		o.Trace = true
		l, err := zap.NewDevelopment()
		if err != nil {
			return o, err
		}
		o.Logger = l
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Registry == nil {
		o.Registry = layout.NewRegistry()
	}
	return o, nil
}
