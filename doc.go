// Package winrtruntime calls Windows Runtime (WinRT) and COM interfaces from
// Go without generated bindings.
//
// Method shapes are described at run time: a caller lists parameter types,
// the library works out how each one is passed under the Windows x64
// convention and dispatches through the object's vtable. Value types get
// their C layout from a registry, parameterized interfaces get their IIDs
// from the platform's signature hashing, and async operations are bridged to
// Go with a completion handler implemented in Go.
//
// # Architecture Overview
//
//	winrtruntime/
//	├── abi/         Primitive ABI categories, raw values, foreign-call descriptors
//	├── layout/      Value type registry: size, alignment, field offsets
//	├── guid/        GUIDs and name-based (v5) IID hashing
//	├── winrt/       WinRT type model, signatures, IIDs, values, IAsyncInfo
//	├── invoke/      Dynamic method signatures, call frames and vtable calls
//	├── async/       Futures over IAsyncAction and IAsyncOperation
//	├── com/         HRESULT, IUnknown references, HSTRING, dispatch, Go COM objects
//	├── roapi/       RoInitialize and activation factories
//	├── catalog/     Well-known interfaces and value types
//	├── runtime/     High-level API: activation, interface cache, configuration
//	├── errors/      Structured error types for debugging
//	└── cmd/winrt/   Signature, IID and layout tool with an interactive explorer
//
// # Quick Start
//
//	rt, err := runtime.New(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close()
//
//	f, err := rt.Factory(ctx, "Windows.Devices.Geolocation.Geopoint", catalog.IIDGeopointFactory)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Release()
//
//	pos := catalog.BasicGeoposition.Handle.NewValue()
//	layout.Set(pos, 0, 47.643)
//	layout.Set(pos, 1, -122.131)
//	res, err := catalog.IGeopointFactory.Call(f, catalog.SlotGeopointCreate,
//	    winrt.Struct(catalog.BasicGeoposition, pos))
//
// # Platforms
//
// Calls reach real objects only on windows/amd64. Other platforms use an
// emulated dispatcher that runs Go-implemented COM objects, which is how the
// test suite exercises every call path.
package winrtruntime
