// Package invoke calls WinRT interface methods whose shape is only known at
// run time.
//
// A MethodSignature lists the declared parameters of a method in order, each
// either an input or an out parameter. Build turns it into a Method bound to
// a vtable slot and precomputes its Frame, the description of how every
// parameter occupies argument words under the Windows x64 convention:
//
//	m := invoke.NewMethodSignature().
//		Named("CreateUri").
//		Add(winrt.BasicString).
//		AddOut(uriClass).
//		Build(6)
//	out, err := m.Call(factory, winrt.MustString("https://example.com"))
//
// A call reads the function pointer from the object's vtable, allocates
// zeroed storage for every out parameter, assembles the receiver and the
// arguments in declaration order and dispatches. A failing HRESULT ends the
// call without reading any out storage. Otherwise out parameters are
// converted in declaration order and returned as winrt.Values owned by the
// caller.
//
// InterfaceSignature groups methods by slot, starting from the IUnknown or
// IInspectable prefix.
package invoke
