package winrt

import (
	"fmt"
	"strings"

	"github.com/wippyai/winrt-runtime/com"
	"github.com/wippyai/winrt-runtime/guid"
)

var basicSignatures = [...]string{
	BasicBool:   "b1",
	BasicI8:     "i1",
	BasicU8:     "u1",
	BasicI16:    "i2",
	BasicU16:    "u2",
	BasicI32:    "i4",
	BasicU32:    "u4",
	BasicI64:    "i8",
	BasicU64:    "u8",
	BasicF32:    "f4",
	BasicF64:    "f8",
	BasicChar16: "c2",
	BasicString: "string",
	BasicGuid:   "g16",
	BasicObject: "cinterface(IInspectable)",
}

// Signature returns the canonical WinRT type signature of t.
// It panics for ABI-only types and for uninstantiated generics.
func Signature(t Type) string {
	var b strings.Builder
	writeSignature(&b, t)
	return b.String()
}

func writeSignature(b *strings.Builder, t Type) {
	switch v := t.(type) {
	case BasicType:
		if v < BasicBool || v > BasicObject {
			panic(fmt.Sprintf("winrt: signature of invalid %v", v))
		}
		b.WriteString(basicSignatures[v])
	case InterfaceType:
		b.WriteString(v.IID.Braced())
	case DelegateType:
		b.WriteString("delegate(")
		b.WriteString(v.IID.Braced())
		b.WriteByte(')')
	case RuntimeClassType:
		b.WriteString("rc(")
		b.WriteString(v.Name)
		b.WriteByte(';')
		b.WriteString(v.Default.Braced())
		b.WriteByte(')')
	case ParameterizedType:
		b.WriteString("pinterface(")
		b.WriteString(v.Def.PIID.Braced())
		for _, a := range v.Args {
			b.WriteByte(';')
			writeSignature(b, a)
		}
		b.WriteByte(')')
	case AsyncActionType:
		b.WriteString(IIDAsyncAction.Braced())
	case AsyncActionWithProgressType, AsyncOperationType, AsyncOperationWithProgressType:
		writeSignature(b, Desugar(v))
	case StructType:
		b.WriteString("struct(")
		b.WriteString(v.Name)
		for _, f := range v.Fields {
			b.WriteByte(';')
			writeSignature(b, f)
		}
		b.WriteByte(')')
	case EnumType:
		b.WriteString("enum(")
		b.WriteString(v.Name)
		if v.Flags {
			b.WriteString(";u4)")
		} else {
			b.WriteString(";i4)")
		}
	case GenericType:
		panic(fmt.Sprintf("winrt: uninstantiated generic %v has no signature", v))
	case HResultType, OutValueType, ObjectArrayType:
		panic(fmt.Sprintf("winrt: ABI-only type %v has no signature", v))
	default:
		panic(fmt.Sprintf("winrt: unknown type %T", t))
	}
}

// IID returns the interface identifier of t. Parameterized types are hashed
// from their signature on every call. The second result is false for types
// that are not interfaces.
func IID(t Type) (guid.GUID, bool) {
	switch v := t.(type) {
	case BasicType:
		if v == BasicObject {
			return com.IIDInspectable, true
		}
		return guid.Nil, false
	case InterfaceType:
		return v.IID, true
	case DelegateType:
		return v.IID, true
	case RuntimeClassType:
		return v.Default, true
	case GenericType:
		return v.PIID, true
	case ParameterizedType:
		return guid.FromSignature(Signature(v)), true
	case AsyncActionType:
		return IIDAsyncAction, true
	case AsyncActionWithProgressType, AsyncOperationType, AsyncOperationWithProgressType:
		return IID(Desugar(v))
	default:
		return guid.Nil, false
	}
}

// MustIID is IID for types known to be interfaces.
func MustIID(t Type) guid.GUID {
	id, ok := IID(t)
	if !ok {
		panic(fmt.Sprintf("winrt: %v has no interface identifier", t))
	}
	return id
}

// CompletedHandler returns the completion handler delegate type for an async
// shape, or nil for other types.
func CompletedHandler(t Type) Type {
	switch v := t.(type) {
	case AsyncActionType:
		return DelegateType{Name: "Windows.Foundation.AsyncActionCompletedHandler", IID: IIDAsyncActionCompletedHandler}
	case AsyncActionWithProgressType:
		return AsyncActionWithProgressCompletedHandler.Of(v.Progress)
	case AsyncOperationType:
		return AsyncOperationCompletedHandler.Of(v.Result)
	case AsyncOperationWithProgressType:
		return AsyncOperationWithProgressCompletedHandler.Of(v.Result, v.Progress)
	}
	return nil
}

// CompletedHandlerIID returns the identifier of the completion handler for an
// async shape. The second result is false for other types.
func CompletedHandlerIID(t Type) (guid.GUID, bool) {
	h := CompletedHandler(t)
	if h == nil {
		return guid.Nil, false
	}
	return IID(h)
}
