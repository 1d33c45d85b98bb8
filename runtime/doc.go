// Package runtime provides the high-level API for calling Windows Runtime
// classes without generated bindings.
//
// # Quick Start
//
//	ctx := context.Background()
//	rt, err := runtime.New(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close()
//
//	// Get a class factory and create an instance
//	f, err := rt.Factory(ctx, "Windows.Foundation.Uri", catalog.IIDUriRuntimeClassFactory)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Release()
//
//	arg := winrt.MustString("https://example.com/path")
//	defer arg.Release()
//	res, err := catalog.IUriRuntimeClassFactory.Call(f, catalog.SlotActivateInstance, arg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	uri := res[0]
//	defer uri.Release()
//
//	// Call methods by name
//	obj, _ := uri.AsObject()
//	host, err := rt.InvokeNamed(ctx, obj, catalog.IIDUriRuntimeClass, "get_Host")
//
// # Activation
//
//	ActivationFactory(className)  - IActivationFactory of a class
//	Factory(className, iid)       - any factory interface of a class
//	Activate(className)           - default-constructed instance
//
// Classes can be served in-process with roapi.Register, which is how tests
// and hosts that implement classes in Go provide factories.
//
// # Interfaces
//
// The runtime keeps a cache of interface signatures by IID. Signatures from
// the catalog are found automatically; others are added with Define:
//
//	rt.Define(invoke.FromIInspectable("My.IWidget", iid).
//	    AddMethod(invoke.NewMethodSignature().Named("get_Name").AddOut(winrt.BasicString)))
//
// # Async Operations
//
// Await blocks until an IAsyncAction or IAsyncOperation completes or ctx is
// done:
//
//	result, err := rt.Await(ctx, op)
//
// # Configuration
//
//	WithLogger(l)         - logger for the runtime and the com, invoke and async packages
//	WithApartment(a)      - STA or MTA (default MTA)
//	WithoutInitialize()   - skip RoInitialize
//	WithRegistry(r)       - value type registry (default catalog.Types)
//	WithTrace()           - log every dispatched call
//
// Setting WINRT_RUNTIME_DEBUG=1 installs a development logger and enables
// tracing.
//
// # Thread Safety
//
// Runtime is safe for concurrent use. Values are not; each value must be
// released exactly once by its owner.
package runtime
