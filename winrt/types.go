package winrt

import (
	"fmt"
	"strings"

	"github.com/wippyai/winrt-runtime/guid"
	"github.com/wippyai/winrt-runtime/layout"
)

// Type is a WinRT type description.
type Type interface {
	fmt.Stringer
	isType()
}

// BasicType is a fundamental type, String, Guid or the untyped Object reference.
type BasicType uint8

const (
	BasicBool BasicType = iota + 1
	BasicI8
	BasicU8
	BasicI16
	BasicU16
	BasicI32
	BasicU32
	BasicI64
	BasicU64
	BasicF32
	BasicF64
	BasicChar16
	BasicString
	BasicGuid
	BasicObject
)

var basicNames = [...]string{
	BasicBool:   "Boolean",
	BasicI8:     "Int8",
	BasicU8:     "UInt8",
	BasicI16:    "Int16",
	BasicU16:    "UInt16",
	BasicI32:    "Int32",
	BasicU32:    "UInt32",
	BasicI64:    "Int64",
	BasicU64:    "UInt64",
	BasicF32:    "Single",
	BasicF64:    "Double",
	BasicChar16: "Char16",
	BasicString: "String",
	BasicGuid:   "Guid",
	BasicObject: "Object",
}

func (BasicType) isType() {}

func (b BasicType) String() string {
	if b >= BasicBool && b <= BasicObject {
		return basicNames[b]
	}
	return fmt.Sprintf("BasicType(%d)", uint8(b))
}

// InterfaceType is a non-generic interface.
type InterfaceType struct {
	Name string
	IID  guid.GUID
}

func (InterfaceType) isType() {}

func (t InterfaceType) String() string {
	if t.Name != "" {
		return t.Name
	}
	return t.IID.Braced()
}

// DelegateType is a non-generic delegate.
type DelegateType struct {
	Name string
	IID  guid.GUID
}

func (DelegateType) isType() {}

func (t DelegateType) String() string {
	if t.Name != "" {
		return t.Name
	}
	return "delegate" + t.IID.Braced()
}

// RuntimeClassType is a runtime class identified by its default interface.
type RuntimeClassType struct {
	Name    string
	Default guid.GUID
}

func (RuntimeClassType) isType() {}

func (t RuntimeClassType) String() string { return t.Name }

// GenericType is an uninstantiated generic interface or delegate.
// It cannot be used for calls; instantiate it with Of.
type GenericType struct {
	Name     string
	PIID     guid.GUID
	Arity    int
	Delegate bool
}

func (GenericType) isType() {}

func (t GenericType) String() string {
	if t.Name != "" {
		return t.Name
	}
	return fmt.Sprintf("pinterface%s`%d", t.PIID.Braced(), t.Arity)
}

// Of instantiates t. The number of arguments must equal the arity.
func (t GenericType) Of(args ...Type) ParameterizedType {
	if len(args) != t.Arity {
		panic(fmt.Sprintf("winrt: %s takes %d type arguments, got %d", t, t.Arity, len(args)))
	}
	for i, a := range args {
		if a == nil {
			panic(fmt.Sprintf("winrt: nil type argument %d for %s", i, t))
		}
	}
	return ParameterizedType{Def: t, Args: append([]Type(nil), args...)}
}

// ParameterizedType is one instantiation of a generic definition.
type ParameterizedType struct {
	Def  GenericType
	Args []Type
}

func (ParameterizedType) isType() {}

func (t ParameterizedType) String() string {
	name := t.Def.String()
	if i := strings.IndexByte(name, '`'); i >= 0 {
		name = name[:i]
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return name + "<" + strings.Join(parts, ", ") + ">"
}

// AsyncActionType is Windows.Foundation.IAsyncAction.
type AsyncActionType struct{}

func (AsyncActionType) isType() {}

func (AsyncActionType) String() string { return "IAsyncAction" }

// AsyncActionWithProgressType is IAsyncActionWithProgress<Progress>.
type AsyncActionWithProgressType struct {
	Progress Type
}

func (AsyncActionWithProgressType) isType() {}

func (t AsyncActionWithProgressType) String() string {
	return "IAsyncActionWithProgress<" + t.Progress.String() + ">"
}

// AsyncOperationType is IAsyncOperation<Result>.
type AsyncOperationType struct {
	Result Type
}

func (AsyncOperationType) isType() {}

func (t AsyncOperationType) String() string {
	return "IAsyncOperation<" + t.Result.String() + ">"
}

// AsyncOperationWithProgressType is IAsyncOperationWithProgress<Result, Progress>.
type AsyncOperationWithProgressType struct {
	Result   Type
	Progress Type
}

func (AsyncOperationWithProgressType) isType() {}

func (t AsyncOperationWithProgressType) String() string {
	return "IAsyncOperationWithProgress<" + t.Result.String() + ", " + t.Progress.String() + ">"
}

// StructType is a WinRT value type. Handle carries its native layout and
// Fields the WinRT field types used for its signature.
type StructType struct {
	Name   string
	Fields []Type
	Handle layout.Handle
}

func (StructType) isType() {}

func (t StructType) String() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Handle.String()
}

// EnumType is a WinRT enum; Flags enums are unsigned.
type EnumType struct {
	Name  string
	Flags bool
}

func (EnumType) isType() {}

func (t EnumType) String() string { return t.Name }

// HResultType is a raw status code. ABI only.
type HResultType struct{}

func (HResultType) isType() {}

func (HResultType) String() string { return "HRESULT" }

// OutValueType is a pointer to storage of Elem. ABI only.
type OutValueType struct {
	Elem Type
}

func (OutValueType) isType() {}

func (t OutValueType) String() string { return "out " + t.Elem.String() }

// ObjectArrayType is a counted array of interface references. ABI only.
// As an input it occupies two words (length, data); as an output it is a
// receive array whose buffer the caller frees.
type ObjectArrayType struct {
	Elem Type
}

func (ObjectArrayType) isType() {}

func (t ObjectArrayType) String() string { return t.elem().String() + "[]" }

func (t ObjectArrayType) elem() Type {
	if t.Elem == nil {
		return BasicObject
	}
	return t.Elem
}

// Desugar rewrites the generic async shapes into their parameterized form.
// IAsyncAction is not generic and other types are returned unchanged.
func Desugar(t Type) Type {
	switch v := t.(type) {
	case AsyncActionWithProgressType:
		return IAsyncActionWithProgress.Of(v.Progress)
	case AsyncOperationType:
		return IAsyncOperation.Of(v.Result)
	case AsyncOperationWithProgressType:
		return IAsyncOperationWithProgress.Of(v.Result, v.Progress)
	default:
		return t
	}
}

// Resugar recognizes instantiations of the async generics and returns the
// matching async shape.
func Resugar(t Type) Type {
	p, ok := t.(ParameterizedType)
	if !ok {
		if i, ok := t.(InterfaceType); ok && i.IID == IIDAsyncAction {
			return AsyncActionType{}
		}
		return t
	}
	switch p.Def.PIID {
	case IAsyncOperation.PIID:
		return AsyncOperationType{Result: p.Args[0]}
	case IAsyncOperationWithProgress.PIID:
		return AsyncOperationWithProgressType{Result: p.Args[0], Progress: p.Args[1]}
	case IAsyncActionWithProgress.PIID:
		return AsyncActionWithProgressType{Progress: p.Args[0]}
	}
	return t
}

// IsAsync reports whether t is one of the four async shapes.
func IsAsync(t Type) bool {
	switch t.(type) {
	case AsyncActionType, AsyncActionWithProgressType, AsyncOperationType, AsyncOperationWithProgressType:
		return true
	}
	return false
}

// IsReference reports whether values of t are interface references.
func IsReference(t Type) bool {
	switch v := t.(type) {
	case BasicType:
		return v == BasicObject
	case InterfaceType, DelegateType, RuntimeClassType, ParameterizedType:
		return true
	}
	return IsAsync(t)
}

// ResultType returns the result of an async operation, or nil for actions and
// non-async types.
func ResultType(t Type) Type {
	switch v := t.(type) {
	case AsyncOperationType:
		return v.Result
	case AsyncOperationWithProgressType:
		return v.Result
	}
	return nil
}

// Equal reports whether a and b describe the same type.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	a, b = Desugar(a), Desugar(b)
	switch x := a.(type) {
	case ParameterizedType:
		y, ok := b.(ParameterizedType)
		if !ok || x.Def.PIID != y.Def.PIID || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case StructType:
		y, ok := b.(StructType)
		return ok && x.Handle == y.Handle
	case OutValueType:
		y, ok := b.(OutValueType)
		return ok && Equal(x.Elem, y.Elem)
	case ObjectArrayType:
		y, ok := b.(ObjectArrayType)
		return ok && Equal(x.elem(), y.elem())
	case RuntimeClassType:
		y, ok := b.(RuntimeClassType)
		return ok && x.Name == y.Name && x.Default == y.Default
	case InterfaceType:
		y, ok := b.(InterfaceType)
		return ok && x.IID == y.IID
	case DelegateType:
		y, ok := b.(DelegateType)
		return ok && x.IID == y.IID
	case GenericType:
		y, ok := b.(GenericType)
		return ok && x.PIID == y.PIID
	default:
		return a == b
	}
}
