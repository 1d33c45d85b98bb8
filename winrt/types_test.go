package winrt

import (
	"testing"
	"unsafe"

	"github.com/wippyai/winrt-runtime/abi"
	"github.com/wippyai/winrt-runtime/guid"
	"github.com/wippyai/winrt-runtime/layout"
)

func TestDesugarResugar(t *testing.T) {
	shapes := []Type{
		AsyncOperationType{Result: BasicString},
		AsyncOperationWithProgressType{Result: BasicString, Progress: BasicU32},
		AsyncActionWithProgressType{Progress: BasicF64},
	}
	for _, s := range shapes {
		t.Run(s.String(), func(t *testing.T) {
			d := Desugar(s)
			if _, ok := d.(ParameterizedType); !ok {
				t.Fatalf("Desugar = %T", d)
			}
			if !Equal(Resugar(d), s) {
				t.Fatalf("Resugar(Desugar) = %v", Resugar(d))
			}
			if !Equal(d, s) {
				t.Fatal("sugared and desugared forms must be equal")
			}
		})
	}
	if _, ok := Desugar(AsyncActionType{}).(AsyncActionType); !ok {
		t.Fatal("IAsyncAction is not generic")
	}
	if _, ok := Resugar(InterfaceType{IID: IIDAsyncAction}).(AsyncActionType); !ok {
		t.Fatal("IAsyncAction interface should resugar")
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{"basic", BasicI32, BasicI32, true},
		{"basic differ", BasicI32, BasicU32, false},
		{"parameterized", IVector.Of(BasicString), IVector.Of(BasicString), true},
		{"parameterized arg", IVector.Of(BasicString), IVector.Of(BasicI32), false},
		{"parameterized def", IVector.Of(BasicString), IVectorView.Of(BasicString), false},
		{"interface by iid", InterfaceType{Name: "A", IID: IIDStringable}, InterfaceType{IID: IIDStringable}, true},
		{"out", OutValueType{Elem: BasicI32}, OutValueType{Elem: BasicI32}, true},
		{"nil", nil, nil, true},
		{"nil vs basic", nil, BasicI32, false},
		{"kind differ", BasicObject, InterfaceType{IID: IIDStringable}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTypeStrings(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{BasicString, "String"},
		{IVector.Of(IVector.Of(BasicString)), "Windows.Foundation.Collections.IVector<Windows.Foundation.Collections.IVector<String>>"},
		{AsyncOperationWithProgressType{Result: BasicString, Progress: BasicU32}, "IAsyncOperationWithProgress<String, UInt32>"},
		{ObjectArrayType{}, "Object[]"},
		{OutValueType{Elem: BasicBool}, "out Boolean"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestLookupGeneric(t *testing.T) {
	for _, name := range []string{
		"IVector", "IVector`1", "Windows.Foundation.Collections.IVector`1", "Windows.Foundation.Collections.IVector",
	} {
		g, ok := LookupGeneric(name)
		if !ok || g.PIID != IVector.PIID {
			t.Errorf("LookupGeneric(%q) = %v, %v", name, g, ok)
		}
	}
	if _, ok := LookupGeneric("IVectorish"); ok {
		t.Error("unknown generic resolved")
	}
	if len(KnownGenerics()) != 14 {
		t.Errorf("KnownGenerics = %d", len(KnownGenerics()))
	}
}

func TestAbiType(t *testing.T) {
	tests := []struct {
		typ  Type
		want abi.Type
	}{
		{BasicBool, abi.Bool},
		{BasicChar16, abi.U16},
		{BasicI64, abi.I64},
		{BasicF32, abi.F32},
		{BasicString, abi.Ptr},
		{BasicObject, abi.Ptr},
		{uriClass, abi.Ptr},
		{IVector.Of(BasicString), abi.Ptr},
		{AsyncActionType{}, abi.Ptr},
		{EnumType{Name: "E"}, abi.I32},
		{EnumType{Name: "F", Flags: true}, abi.U32},
		{HResultType{}, abi.I32},
		{OutValueType{Elem: BasicF64}, abi.Ptr},
	}
	for _, tt := range tests {
		if got := AbiType(tt.typ); got != tt.want {
			t.Errorf("AbiType(%v) = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestGenericHasNoAbiType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	AbiType(IAsyncOperation)
}

func TestNewStruct(t *testing.T) {
	reg := layout.NewRegistry()
	geo := NewStruct(reg, "Windows.Devices.Geolocation.BasicGeoposition", BasicF64, BasicF64, BasicF64)
	if got := Signature(geo); got != "struct(Windows.Devices.Geolocation.BasicGeoposition;f8;f8;f8)" {
		t.Fatalf("Signature = %q", got)
	}
	if d := Descriptor(geo); d.Size != 24 || d.Align != 8 || abi.Classify(d) != abi.ClassIndirect {
		t.Fatalf("Descriptor = %+v", d)
	}

	point := NewStruct(reg, "Windows.Foundation.Point", BasicF32, BasicF32)
	if abi.Classify(Descriptor(point)) != abi.ClassPacked {
		t.Fatal("Point should be passed packed in one word")
	}

	withGuid := NewStruct(reg, "Sample.Keyed", BasicGuid, BasicI32, EnumType{Name: "Sample.Mode"})
	if withGuid.Handle.Size() != 24 || withGuid.Handle.FieldOffset(1) != 16 {
		t.Fatalf("guid struct layout = %+v", withGuid.Handle.Layout())
	}
	if g := LayoutHandle(reg, BasicGuid); g.Size() != uint32(unsafe.Sizeof(guid.GUID{})) || g.Align() != 4 {
		t.Fatalf("guid layout = %+v", g.Layout())
	}
	if Descriptor(BasicGuid).Size != 16 || StorageSize(ObjectArrayType{}) != 2*abi.PointerSize {
		t.Fatal("storage sizes")
	}
}
