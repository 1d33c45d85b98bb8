package invoke

import (
	stderrors "errors"
	"math"
	"sync"
	"testing"
	"unsafe"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/winrt-runtime/abi"
	"github.com/wippyai/winrt-runtime/com"
	"github.com/wippyai/winrt-runtime/errors"
	"github.com/wippyai/winrt-runtime/internal/comtest"
	"github.com/wippyai/winrt-runtime/layout"
	"github.com/wippyai/winrt-runtime/winrt"
)

type basicGeoposition struct {
	Latitude, Longitude, Altitude float64
}

var geopointType = winrt.InterfaceType{Name: "Windows.Devices.Geolocation.IGeopoint"}

// ref returns an owning reference to o released when the test ends.
func ref(t *testing.T, o *comtest.Object) *com.Unknown {
	t.Helper()
	u := o.Unknown()
	t.Cleanup(func() { u.Release() })
	return u
}

func isKind(err error, phase errors.Phase, kind errors.Kind) bool {
	return stderrors.Is(err, &errors.Error{Phase: phase, Kind: kind})
}

func TestCallOutputsInDeclarationOrder(t *testing.T) {
	var gotInt int32
	var gotFloat float64
	fake := comtest.New().On(6, func(args []uintptr) uintptr {
		gotInt = int32(args[0])
		comtest.StoreHString(args[1], "first")
		gotFloat = math.Float64frombits(uint64(args[2]))
		comtest.Store(args[3], int32(99))
		return com.S_OK.Word()
	})
	defer fake.Release()

	sig := NewMethodSignature().
		Add(winrt.BasicI32).
		AddOut(winrt.BasicString).
		Add(winrt.BasicF64).
		AddOut(winrt.BasicI32)
	wantParams := []Parameter{
		{Type: winrt.BasicI32, Index: 0},
		{Type: winrt.BasicString, Index: 0, Out: true},
		{Type: winrt.BasicF64, Index: 1},
		{Type: winrt.BasicI32, Index: 1, Out: true},
	}
	if diff := cmp.Diff(wantParams, sig.Params()); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}

	res, err := sig.Build(6).Call(ref(t, fake), winrt.Int32(-5), winrt.Float64(2.5))
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	defer res[0].Release()

	if gotInt != -5 || gotFloat != 2.5 {
		t.Errorf("callee saw %d, %v", gotInt, gotFloat)
	}
	if len(res) != 2 {
		t.Fatalf("got %d results, want 2", len(res))
	}
	if s, _ := res[0].AsString(); s != "first" {
		t.Errorf("result 0 = %v", res[0])
	}
	if n, _ := res[1].AsInt32(); n != 99 {
		t.Errorf("result 1 = %v", res[1])
	}
}

func TestCallAccessors(t *testing.T) {
	fake := comtest.New().
		On(6, comtest.OutString("https://www.example.com/path")).
		On(19, comtest.Out(int32(443))).
		On(7, comtest.Returns(com.S_OK))
	defer fake.Release()
	u := ref(t, fake)

	res, err := NewMethodSignature().AddOut(winrt.BasicString).Build(6).Call(u)
	if err != nil {
		t.Fatalf("string getter: %v", err)
	}
	if s, _ := res[0].AsString(); s != "https://www.example.com/path" {
		t.Errorf("string getter = %v", res[0])
	}
	res[0].Release()

	res, err = NewMethodSignature().AddOut(winrt.BasicI32).Build(19).Call(u)
	if err != nil {
		t.Fatalf("int getter: %v", err)
	}
	if n, _ := res[0].AsInt32(); n != 443 {
		t.Errorf("int getter = %v", res[0])
	}

	res, err = NewMethodSignature().Build(7).Call(u)
	if err != nil || len(res) != 0 {
		t.Fatalf("action = %v, %v", res, err)
	}
	if fake.Calls(7) != 1 {
		t.Errorf("action dispatched %d times", fake.Calls(7))
	}
}

func TestCallFailureShortCircuits(t *testing.T) {
	fake := comtest.New().On(6, comtest.Fails(com.E_FAIL))
	defer fake.Release()

	res, err := NewMethodSignature().AddOut(winrt.BasicString).Build(6).Call(ref(t, fake))
	if res != nil {
		t.Fatalf("failed call returned %v", res)
	}
	if !stderrors.Is(err, com.E_FAIL) {
		t.Fatalf("err = %v, want E_FAIL", err)
	}
	if !isKind(err, errors.PhaseCall, errors.KindCallFailed) {
		t.Fatalf("err kind = %v", err)
	}
	if code, ok := errors.StatusOf(err); !ok || code != int32(com.E_FAIL) {
		t.Fatalf("StatusOf = %#x, %v", code, ok)
	}
}

func TestCallArgumentChecks(t *testing.T) {
	fake := comtest.New().On(6, comtest.Returns(com.S_OK))
	defer fake.Release()
	u := ref(t, fake)
	m := NewMethodSignature().Add(winrt.BasicI32).Add(winrt.BasicString).Build(6)

	tests := []struct {
		name  string
		args  []winrt.Value
		phase errors.Phase
		kind  errors.Kind
	}{
		{"too few", []winrt.Value{winrt.Int32(1)}, errors.PhaseCall, errors.KindInvalidInput},
		{"too many", []winrt.Value{winrt.Int32(1), winrt.HString(0), winrt.Int32(2)}, errors.PhaseCall, errors.KindInvalidInput},
		{"float for int", []winrt.Value{winrt.Float64(1), winrt.HString(0)}, errors.PhaseCall, errors.KindTypeMismatch},
		{"unsigned for int", []winrt.Value{winrt.Uint32(1), winrt.HString(0)}, errors.PhaseCall, errors.KindTypeMismatch},
		{"object for string", []winrt.Value{winrt.Int32(1), winrt.Object(nil)}, errors.PhaseCall, errors.KindTypeMismatch},
		{"invalid value", []winrt.Value{winrt.Int32(1), {}}, errors.PhaseCall, errors.KindTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Call(u, tt.args...)
			if !isKind(err, tt.phase, tt.kind) {
				t.Fatalf("err = %v, want %s", err, tt.kind)
			}
		})
	}
	if fake.Calls(6) != 0 {
		t.Fatalf("rejected calls reached the object %d times", fake.Calls(6))
	}

	if _, err := m.Call(nil, winrt.Int32(1), winrt.HString(0)); !isKind(err, errors.PhaseCall, errors.KindExpectObject) {
		t.Fatalf("nil receiver = %v", err)
	}
	if _, err := m.CallValue(winrt.Int32(3), winrt.Int32(1), winrt.HString(0)); !isKind(err, errors.PhaseCall, errors.KindExpectObject) {
		t.Fatalf("scalar receiver = %v", err)
	}
	if _, err := m.Call(u, winrt.Int32(1), winrt.HString(0)); err != nil {
		t.Fatalf("valid call: %v", err)
	}
}

func TestConversionFailureReleasesEarlierOutputs(t *testing.T) {
	child := comtest.New()
	defer child.Release()
	notAsync := comtest.New()
	defer notAsync.Release()
	fake := comtest.New().On(6, func(args []uintptr) uintptr {
		comtest.Store(args[0], child.Unknown().Raw())
		comtest.Store(args[1], notAsync.Unknown().Raw())
		return com.S_OK.Word()
	})
	defer fake.Release()

	m := NewMethodSignature().
		AddOut(winrt.BasicObject).
		AddOut(winrt.AsyncActionType{}).
		Build(6)
	res, err := m.Call(ref(t, fake))
	if !stderrors.Is(err, com.E_NOINTERFACE) || res != nil {
		t.Fatalf("Call = %v, %v", res, err)
	}
	if child.RefCount() != 1 {
		t.Fatalf("child refcount = %d, want converted output released", child.RefCount())
	}
	if notAsync.RefCount() != 1 {
		t.Fatalf("operation refcount = %d, want failed output released", notAsync.RefCount())
	}
}

func TestStructArguments(t *testing.T) {
	reg := layout.NewRegistry()
	point := winrt.NewStruct(reg, "Windows.Foundation.Point", winrt.BasicF32, winrt.BasicF32)
	geo := winrt.NewStruct(reg, "Windows.Devices.Geolocation.BasicGeoposition", winrt.BasicF64, winrt.BasicF64, winrt.BasicF64)

	var packed uintptr
	var seen basicGeoposition
	fake := comtest.New().
		On(6, func(args []uintptr) uintptr {
			packed = args[0]
			return com.S_OK.Word()
		}).
		On(7, func(args []uintptr) uintptr {
			seen = comtest.Load[basicGeoposition](args[0])
			comtest.Store(args[0], basicGeoposition{})
			return com.S_OK.Word()
		})
	defer fake.Release()
	u := ref(t, fake)

	pv := point.Handle.NewValue()
	layout.Set(pv, 0, float32(1.5))
	layout.Set(pv, 1, float32(-2))
	if _, err := NewMethodSignature().Add(point).Build(6).Call(u, winrt.Struct(point, pv)); err != nil {
		t.Fatalf("packed call: %v", err)
	}
	if uint32(packed) != math.Float32bits(1.5) || uint32(uint64(packed)>>32) != math.Float32bits(-2) {
		t.Errorf("packed word = %#x", packed)
	}

	gv := geo.Handle.NewValue()
	layout.Set(gv, 0, 47.643)
	layout.Set(gv, 1, -122.131)
	layout.Set(gv, 2, 100.0)
	if _, err := NewMethodSignature().Add(geo).Build(7).Call(u, winrt.Struct(geo, gv)); err != nil {
		t.Fatalf("indirect call: %v", err)
	}
	if seen != (basicGeoposition{47.643, -122.131, 100}) {
		t.Errorf("callee saw %+v", seen)
	}
	if layout.Get[float64](gv, 0) != 47.643 {
		t.Error("callee wrote through to the caller's struct")
	}
}

func TestGeopointFactory(t *testing.T) {
	reg := layout.NewRegistry()
	geo := winrt.NewStruct(reg, "Windows.Devices.Geolocation.BasicGeoposition", winrt.BasicF64, winrt.BasicF64, winrt.BasicF64)

	var created *comtest.Object
	factory := comtest.New().On(6, func(args []uintptr) uintptr {
		pos := comtest.Load[basicGeoposition](args[0])
		created = comtest.New().On(6, comtest.Out(pos))
		comtest.Store(args[1], created.Raw())
		return com.S_OK.Word()
	})
	defer factory.Release()

	create := NewMethodSignature().Named("Create").Add(geo).AddOut(geopointType).Build(6)
	position := NewMethodSignature().Named("get_Position").AddOut(geo).Build(6)

	gv := geo.Handle.NewValue()
	layout.Set(gv, 0, 47.643)
	layout.Set(gv, 1, -122.131)
	layout.Set(gv, 2, 100.0)
	res, err := create.Call(ref(t, factory), winrt.Struct(geo, gv))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	point := res[0]
	if !winrt.Equal(point.Type(), geopointType) {
		t.Errorf("result type = %v", point.Type())
	}

	out, err := position.CallValue(point)
	if err != nil {
		t.Fatalf("get_Position: %v", err)
	}
	data, ok := out[0].AsStruct()
	if !ok {
		t.Fatalf("position = %v", out[0])
	}
	want := []float64{47.643, -122.131, 100.0}
	for i, w := range want {
		if got := layout.Get[float64](data, i); math.Abs(got-w) > 1e-9 {
			t.Errorf("field %d = %v, want %v", i, got, w)
		}
	}

	point.Release()
	if !created.Dropped() {
		t.Error("geopoint should be destroyed with its last reference")
	}
}

func TestObjectArrays(t *testing.T) {
	a, b := comtest.New(), comtest.New()
	defer a.Release()
	defer b.Release()

	var seen []unsafe.Pointer
	fake := comtest.New().
		On(6, func(args []uintptr) uintptr {
			for i := uintptr(0); i < args[0]; i++ {
				seen = append(seen, comtest.Load[unsafe.Pointer](args[1]+i*uintptr(abi.PointerSize)))
			}
			return com.S_OK.Word()
		}).
		On(7, func(args []uintptr) uintptr {
			buf := com.TaskMemAlloc(2 * uintptr(abi.PointerSize))
			ptrs := unsafe.Slice((*unsafe.Pointer)(buf), 2)
			ptrs[0] = a.Unknown().Raw()
			ptrs[1] = b.Unknown().Raw()
			comtest.Store(args[0], uint32(2))
			comtest.Store(args[1], buf)
			return com.S_OK.Word()
		})
	defer fake.Release()
	u := ref(t, fake)

	in := winrt.ObjectArray(winrt.BasicObject, []*com.Unknown{ref(t, a), ref(t, b)})
	if _, err := NewMethodSignature().Add(winrt.ObjectArrayType{}).Build(6).Call(u, in); err != nil {
		t.Fatalf("array in: %v", err)
	}
	if len(seen) != 2 || seen[0] != a.Raw() || seen[1] != b.Raw() {
		t.Fatalf("callee saw %v", seen)
	}

	res, err := NewMethodSignature().AddOut(winrt.ObjectArrayType{}).Build(7).Call(u)
	if err != nil {
		t.Fatalf("array out: %v", err)
	}
	objs, _ := res[0].AsObjectArray()
	if len(objs) != 2 || objs[0].Raw() != a.Raw() || objs[1].Raw() != b.Raw() {
		t.Fatalf("array out = %v", res[0])
	}
	res[0].Release()
	if a.RefCount() != 2 || b.RefCount() != 2 {
		t.Fatalf("refcounts = %d, %d", a.RefCount(), b.RefCount())
	}
}

func TestAsyncArgumentPassesOperation(t *testing.T) {
	typ := winrt.AsyncOperationType{Result: winrt.BasicString}
	info := comtest.New(winrt.IIDAsyncInfo)
	op := comtest.New(winrt.MustIID(typ)).Alias(winrt.IIDAsyncInfo, info)
	info.Alias(winrt.MustIID(typ), op)
	defer op.Release()
	defer info.Release()

	a, err := winrt.NewAsyncInfo(typ, ref(t, op))
	if err != nil {
		t.Fatal(err)
	}
	v := winrt.Async(a)
	defer v.Release()

	var passed uintptr
	fake := comtest.New().On(6, func(args []uintptr) uintptr {
		passed = args[0]
		return com.S_OK.Word()
	})
	defer fake.Release()

	if _, err := NewMethodSignature().Add(typ).Build(6).Call(ref(t, fake), v); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if passed != uintptr(op.Raw()) {
		t.Fatal("async argument should pass the operation interface")
	}
	if op.RefCount() != 2 {
		t.Fatalf("operation refcount = %d, temporary reference leaked", op.RefCount())
	}
}

func TestInterfaceSignature(t *testing.T) {
	fake := comtest.New(winrt.IIDStringable).
		Named("Windows.Foundation.Uri").
		On(com.SlotGetTrustLevel, comtest.Out(int32(1))).
		On(com.SlotGetIids, func(args []uintptr) uintptr {
			comtest.Store(args[0], uint32(7))
			return com.S_OK.Word()
		}).
		On(6, comtest.OutString("https://www.example.com/"))
	defer fake.Release()
	u := ref(t, fake)

	iface := FromIInspectable("Windows.Foundation.IStringable", winrt.IIDStringable).
		AddMethod(NewMethodSignature().Named("ToString").AddOut(winrt.BasicString))
	if len(iface.Methods) != 7 {
		t.Fatalf("got %d methods, want 7", len(iface.Methods))
	}
	for i, m := range iface.Methods {
		if m.Slot() != i {
			t.Errorf("method %s at slot %d, want %d", m.Name(), m.Slot(), i)
		}
	}
	if m, ok := iface.Lookup("ToString"); !ok || m.Slot() != 6 {
		t.Fatalf("Lookup(ToString) = %v, %v", m, ok)
	}

	res, err := iface.Call(u, com.SlotGetRuntimeClassName)
	if err != nil {
		t.Fatalf("GetRuntimeClassName: %v", err)
	}
	if s, _ := res[0].AsString(); s != "Windows.Foundation.Uri" {
		t.Errorf("class name = %v", res[0])
	}
	res[0].Release()

	res, err = iface.Call(u, com.SlotGetTrustLevel)
	if err != nil {
		t.Fatalf("GetTrustLevel: %v", err)
	}
	if n, _ := res[0].AsEnum(); n != 1 {
		t.Errorf("trust level = %v", res[0])
	}

	count := comtest.Alloc[uint32](t)
	ids := comtest.Alloc[uintptr](t)
	_, err = iface.Call(u, com.SlotGetIids,
		winrt.Out(winrt.BasicU32, unsafe.Pointer(count)),
		winrt.Out(winrt.BasicGuid, unsafe.Pointer(ids)))
	if err != nil || *count != 7 {
		t.Errorf("GetIids = %d, %v", *count, err)
	}

	res, err = iface.Call(u, 0, winrt.Guid(winrt.IIDStringable))
	if err != nil {
		t.Fatalf("QueryInterface: %v", err)
	}
	if obj, _ := res[0].AsObject(); obj.Raw() != fake.Raw() {
		t.Errorf("QueryInterface returned %v", res[0])
	}
	res[0].Release()

	_, err = iface.Call(u, 0, winrt.Guid(winrt.IIDAsyncAction))
	if !stderrors.Is(err, com.E_NOINTERFACE) {
		t.Errorf("QueryInterface for a missing interface = %v", err)
	}

	res, err = iface.Call(u, 6)
	if err != nil {
		t.Fatalf("ToString: %v", err)
	}
	if s, _ := res[0].AsString(); s != "https://www.example.com/" {
		t.Errorf("ToString = %v", res[0])
	}
	res[0].Release()

	if _, err := iface.Call(u, 9); !isKind(err, errors.PhaseCall, errors.KindNotFound) {
		t.Errorf("missing slot = %v", err)
	}
}

func TestCallSingleOut(t *testing.T) {
	fake := comtest.New().On(7, func(args []uintptr) uintptr {
		comtest.Store(args[1], int32(args[0])*2)
		return com.S_OK.Word()
	})
	defer fake.Release()

	v, err := CallSingleOut(ref(t, fake), 7, winrt.BasicI32, winrt.Int32(21))
	if err != nil {
		t.Fatalf("CallSingleOut: %v", err)
	}
	if n, _ := v.AsInt32(); n != 42 {
		t.Fatalf("got %v, want i32(42)", v)
	}
}

func TestConcurrentCalls(t *testing.T) {
	fake := comtest.New().On(6, comtest.Out(uint32(7)))
	defer fake.Release()
	u := ref(t, fake)
	m := NewMethodSignature().AddOut(winrt.BasicU32).Build(6)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				res, err := m.Call(u)
				if err != nil {
					errs <- err
					return
				}
				if n, _ := res[0].AsUint32(); n != 7 {
					errs <- stderrors.New("wrong result")
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
	if fake.Calls(6) != 400 {
		t.Fatalf("got %d calls, want 400", fake.Calls(6))
	}
}

func TestNestedOutRejectedBeforeDispatch(t *testing.T) {
	fake := comtest.New().On(6, func(args []uintptr) uintptr {
		comtest.StoreHString(args[0], "leaked")
		return com.S_OK.Word()
	})
	defer fake.Release()

	tests := []struct {
		name string
		sig  *MethodSignature
	}{
		{"out of out value", NewMethodSignature().AddOut(winrt.OutValueType{Elem: winrt.BasicString})},
		{"in of nested out value", NewMethodSignature().Add(winrt.OutValueType{Elem: winrt.OutValueType{Elem: winrt.BasicI32}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m *Method
			func() {
				defer func() {
					r := recover()
					err, ok := r.(error)
					if !ok || !isKind(err, errors.PhaseConvert, errors.KindInvalidNestedOut) {
						t.Fatalf("recovered %v, want invalid nested out", r)
					}
				}()
				m = tt.sig.Build(6)
			}()
			if m != nil {
				t.Fatal("Build returned a method")
			}
		})
	}
	if n := fake.Calls(6); n != 0 {
		t.Errorf("callee dispatched %d times", n)
	}
}
