// Package winrt models WinRT types and the values that cross the vtable ABI.
//
// # Type model
//
// Type is a closed sum. BasicType covers the fundamental types, String, Guid
// and the untyped Object reference. InterfaceType, DelegateType and
// RuntimeClassType name concrete interfaces. GenericType is an uninstantiated
// generic definition and ParameterizedType one instantiation of it. The four
// async shapes are sugar for instantiations of the well-known async
// interfaces. StructType and EnumType describe value types. HResultType,
// OutValueType and ObjectArrayType only describe ABI shapes and have no
// WinRT signature.
//
// Signature renders the canonical type signature string and IID derives the
// interface identifier, hashing the signature for parameterized types.
//
// # Values
//
// Value is a tagged union over the same variants. Reference variants own one
// COM reference and string variants own one HSTRING; Release gives them up.
// FromOut and FromOutValue convert raw out-parameter storage after a call.
//
// Describing an uninstantiated generic as if it were concrete, or asking an
// ABI-only type for its signature, panics. Shape mismatches in data produced
// by a call are returned as errors.
package winrt
