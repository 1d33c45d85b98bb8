package catalog

import (
	"github.com/wippyai/winrt-runtime/invoke"
	"github.com/wippyai/winrt-runtime/winrt"
)

func instance(def winrt.GenericType, args ...winrt.Type) *invoke.InterfaceSignature {
	p := def.Of(args...)
	return invoke.FromIInspectable(p.String(), winrt.MustIID(p))
}

// Reference returns IReference<T>.
func Reference(t winrt.Type) *invoke.InterfaceSignature {
	return instance(winrt.IReference, t).AddMethod(getter("get_Value", t))
}

// Iterable returns IIterable<T>.
func Iterable(t winrt.Type) *invoke.InterfaceSignature {
	return instance(winrt.IIterable, t).
		AddMethod(getter("First", winrt.IIterator.Of(t)))
}

// Iterator returns IIterator<T>.
func Iterator(t winrt.Type) *invoke.InterfaceSignature {
	return instance(winrt.IIterator, t).
		AddMethod(getter("get_Current", t)).
		AddMethod(getter("get_HasCurrent", winrt.BasicBool)).
		AddMethod(getter("MoveNext", winrt.BasicBool))
}

// VectorView returns IVectorView<T> without GetMany.
func VectorView(t winrt.Type) *invoke.InterfaceSignature {
	return instance(winrt.IVectorView, t).
		AddMethod(invoke.NewMethodSignature().Named("GetAt").Add(winrt.BasicU32).AddOut(t)).
		AddMethod(getter("get_Size", winrt.BasicU32)).
		AddMethod(invoke.NewMethodSignature().Named("IndexOf").Add(t).AddOut(winrt.BasicU32).AddOut(winrt.BasicBool))
}

// Vector returns IVector<T> without GetMany and ReplaceAll.
func Vector(t winrt.Type) *invoke.InterfaceSignature {
	return instance(winrt.IVector, t).
		AddMethod(invoke.NewMethodSignature().Named("GetAt").Add(winrt.BasicU32).AddOut(t)).
		AddMethod(getter("get_Size", winrt.BasicU32)).
		AddMethod(getter("GetView", winrt.IVectorView.Of(t))).
		AddMethod(invoke.NewMethodSignature().Named("IndexOf").Add(t).AddOut(winrt.BasicU32).AddOut(winrt.BasicBool)).
		AddMethod(invoke.NewMethodSignature().Named("SetAt").Add(winrt.BasicU32).Add(t)).
		AddMethod(invoke.NewMethodSignature().Named("InsertAt").Add(winrt.BasicU32).Add(t)).
		AddMethod(invoke.NewMethodSignature().Named("RemoveAt").Add(winrt.BasicU32)).
		AddMethod(invoke.NewMethodSignature().Named("Append").Add(t)).
		AddMethod(invoke.NewMethodSignature().Named("RemoveAtEnd")).
		AddMethod(invoke.NewMethodSignature().Named("Clear"))
}

// AsyncOperation returns the interface of an async shape: put_Completed,
// get_Completed, and GetResults when the shape has a result. Progress
// variants start with put_Progress and get_Progress.
func AsyncOperation(t winrt.Type) *invoke.InterfaceSignature {
	t = winrt.Resugar(t)
	if !winrt.IsAsync(t) {
		panic("catalog: " + t.String() + " is not an async shape")
	}
	handler := winrt.CompletedHandler(t)
	s := invoke.FromIInspectable(winrt.Desugar(t).String(), winrt.MustIID(t))
	switch t.(type) {
	case winrt.AsyncActionWithProgressType, winrt.AsyncOperationWithProgressType:
		s.AddMethod(invoke.NewMethodSignature().Named("put_Progress").Add(winrt.BasicObject))
		s.AddMethod(getter("get_Progress", winrt.BasicObject))
	}
	s.AddMethod(invoke.NewMethodSignature().Named("put_Completed").Add(handler))
	s.AddMethod(getter("get_Completed", handler))
	get := invoke.NewMethodSignature().Named("GetResults")
	if rt := winrt.ResultType(t); rt != nil {
		get.AddOut(rt)
	}
	return s.AddMethod(get)
}
