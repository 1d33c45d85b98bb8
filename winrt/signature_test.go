package winrt

import (
	"strings"
	"testing"

	"github.com/wippyai/winrt-runtime/guid"
)

var (
	storageFile = RuntimeClassType{
		Name:    "Windows.Storage.StorageFile",
		Default: guid.MustParse("fa3f6186-4214-428c-a64c-14c9ac7315ea"),
	}
	uriClass = RuntimeClassType{
		Name:    "Windows.Foundation.Uri",
		Default: guid.MustParse("9e365e57-48b2-4160-956f-c7385120bbfc"),
	}
)

func TestBasicSignatures(t *testing.T) {
	tests := []struct {
		typ  BasicType
		want string
	}{
		{BasicBool, "b1"}, {BasicI8, "i1"}, {BasicU8, "u1"},
		{BasicI16, "i2"}, {BasicU16, "u2"}, {BasicI32, "i4"}, {BasicU32, "u4"},
		{BasicI64, "i8"}, {BasicU64, "u8"}, {BasicF32, "f4"}, {BasicF64, "f8"},
		{BasicChar16, "c2"}, {BasicString, "string"}, {BasicGuid, "g16"},
		{BasicObject, "cinterface(IInspectable)"},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			if got := Signature(tt.typ); got != tt.want {
				t.Errorf("Signature = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompositeSignatures(t *testing.T) {
	iid := guid.MustParse("96369f54-8eb6-48f0-abce-c1b211e627c3")
	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{"interface", InterfaceType{IID: iid}, "{96369f54-8eb6-48f0-abce-c1b211e627c3}"},
		{"delegate", DelegateType{IID: iid}, "delegate({96369f54-8eb6-48f0-abce-c1b211e627c3})"},
		{"runtime class", storageFile, "rc(Windows.Storage.StorageFile;{fa3f6186-4214-428c-a64c-14c9ac7315ea})"},
		{"operation of string", IAsyncOperation.Of(BasicString), "pinterface({9fc2b0bb-e446-44e2-aa61-9cab8f636af2};string)"},
		{"async sugar", AsyncOperationType{Result: BasicString}, "pinterface({9fc2b0bb-e446-44e2-aa61-9cab8f636af2};string)"},
		{"action", AsyncActionType{}, "{5a648006-843a-4da9-865b-9d26e5dfad7b}"},
		{
			"nested vector",
			IVector.Of(IVector.Of(BasicString)),
			"pinterface({913337e9-11a1-4345-a3a2-4e7f956e222d};pinterface({913337e9-11a1-4345-a3a2-4e7f956e222d};string))",
		},
		{
			"map",
			IMap.Of(BasicString, BasicObject),
			"pinterface({3c2925fe-8519-45c1-aa79-197b6718c1c1};string;cinterface(IInspectable))",
		},
		{"enum", EnumType{Name: "Windows.Foundation.AsyncStatus"}, "enum(Windows.Foundation.AsyncStatus;i4)"},
		{"flags", EnumType{Name: "Windows.Storage.FileAttributes", Flags: true}, "enum(Windows.Storage.FileAttributes;u4)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Signature(tt.typ); got != tt.want {
				t.Errorf("Signature = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParameterizedIIDs(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{"IAsyncOperation<String>", IAsyncOperation.Of(BasicString), "3e1fe603-f897-5263-b328-0806426b8a79"},
		{"IAsyncOperation<Boolean>", IAsyncOperation.Of(BasicBool), "cdb5efb3-5788-509d-9be1-71ccb8a3362a"},
		{"IAsyncOperation<Int32>", IAsyncOperation.Of(BasicI32), "968b9665-06ed-5774-8f53-8edeabd5f7b5"},
		{"IVector<String>", IVector.Of(BasicString), "98b9acc1-4b56-532e-ac73-03d5291cca90"},
		{"IVectorView<String>", IVectorView.Of(BasicString), "2f13c006-a03a-5f69-b090-75a43e33423e"},
		{"IIterable<String>", IIterable.Of(BasicString), "e2fcc7c1-3bfc-5a0b-b2b0-72e769d1cb7e"},
		{"IReference<Int32>", IReference.Of(BasicI32), "548cefbd-bc8a-5fa0-8df2-957440fc8bf4"},
		{"IReference<Double>", IReference.Of(BasicF64), "2f2d6c29-5473-5f3e-92e7-96572bb990e2"},
		{"IVector<IVector<String>>", IVector.Of(IVector.Of(BasicString)), "97e143e6-5c72-50c6-bb46-65596d6d681e"},
		{"IAsyncOperation<StorageFile>", IAsyncOperation.Of(storageFile), "5e52f8ce-aced-5a42-95b4-f674dd84885e"},
		{"IAsyncOperation<Uri>", AsyncOperationType{Result: uriClass}, "641cb9dd-a28d-59e2-b8db-a227eda6cf2e"},
		{"IAsyncOperation<Object>", AsyncOperationType{Result: BasicObject}, "abf53c57-ee50-5342-b52a-26e3b8cc024f"},
		{"IAsyncActionWithProgress<Double>", AsyncActionWithProgressType{Progress: BasicF64}, "4f1430a6-a825-56ca-b047-1a9bad52ba67"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := IID(tt.typ)
			if !ok {
				t.Fatal("IID not available")
			}
			if got != guid.MustParse(tt.want) {
				t.Errorf("IID = %s, want %s", got, tt.want)
			}
			if again := MustIID(tt.typ); again != got {
				t.Errorf("IID not deterministic: %s then %s", got, again)
			}
		})
	}
}

func TestCompletedHandlerIIDs(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{"action", AsyncActionType{}, "a4ed5c81-76c9-40bd-8be6-b1d90fb20ae7"},
		{"operation<String>", AsyncOperationType{Result: BasicString}, "b79a741f-7fb5-50ae-9e99-911201ec3d41"},
		{"operation<Boolean>", AsyncOperationType{Result: BasicBool}, "c1d3d1a2-ae17-5a5f-b5a2-bdcc8844889a"},
		{"operation with progress<String,UInt32>", AsyncOperationWithProgressType{Result: BasicString, Progress: BasicU32}, "8335c403-9fa3-5a2d-bab1-1a223c4eb1a8"},
		{"action with progress<Double>", AsyncActionWithProgressType{Progress: BasicF64}, "94d64ac6-4491-53ef-8be8-36481f3ff1e8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CompletedHandlerIID(tt.typ)
			if !ok || got != guid.MustParse(tt.want) {
				t.Errorf("CompletedHandlerIID = %s, %v; want %s", got, ok, tt.want)
			}
		})
	}

	for _, typ := range []Type{BasicString, IVector.Of(BasicString), uriClass} {
		if _, ok := CompletedHandlerIID(typ); ok {
			t.Errorf("%v should have no completion handler", typ)
		}
	}
}

func TestOperationWithProgressIID(t *testing.T) {
	got := MustIID(AsyncOperationWithProgressType{Result: BasicString, Progress: BasicU32})
	if got != guid.MustParse("ffdbb24e-d502-5c1e-8230-746dc95ae37e") {
		t.Fatalf("IID = %s", got)
	}
}

func TestFixedIIDs(t *testing.T) {
	tests := []struct {
		typ  Type
		want guid.GUID
	}{
		{BasicObject, guid.MustParse("af86e2e0-b12d-4c6a-9c5a-d7aa65101e90")},
		{AsyncActionType{}, IIDAsyncAction},
		{uriClass, uriClass.Default},
		{IVector, IVector.PIID},
	}
	for _, tt := range tests {
		if got, ok := IID(tt.typ); !ok || got != tt.want {
			t.Errorf("IID(%v) = %s, %v", tt.typ, got, ok)
		}
	}
	for _, typ := range []Type{BasicI32, BasicString, EnumType{Name: "E"}, HResultType{}} {
		if _, ok := IID(typ); ok {
			t.Errorf("IID(%v) should not exist", typ)
		}
	}
}

func TestSignaturePanics(t *testing.T) {
	for _, typ := range []Type{HResultType{}, OutValueType{Elem: BasicI32}, ObjectArrayType{}, IVector} {
		t.Run(typ.String(), func(t *testing.T) {
			defer func() {
				r := recover()
				if r == nil {
					t.Fatal("expected panic")
				}
				if msg, _ := r.(string); !strings.Contains(msg, "no signature") {
					t.Fatalf("panic = %v", r)
				}
			}()
			Signature(typ)
		})
	}
}

func TestGenericArityPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	IMap.Of(BasicString)
}
