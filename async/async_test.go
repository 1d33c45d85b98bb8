package async

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unsafe"

	"github.com/wippyai/winrt-runtime/com"
	"github.com/wippyai/winrt-runtime/errors"
	"github.com/wippyai/winrt-runtime/guid"
	"github.com/wippyai/winrt-runtime/internal/comtest"
	"github.com/wippyai/winrt-runtime/winrt"
)

// fakeOp is an async operation with an IAsyncInfo tear-off whose status the
// test controls.
type fakeOp struct {
	op, info *comtest.Object
	typ      winrt.Type
	handler  *com.Unknown
	status   atomic.Int32
	mu       sync.Mutex
}

func newFakeOp(t *testing.T, typ winrt.Type, status winrt.AsyncStatus) *fakeOp {
	t.Helper()
	f := &fakeOp{typ: typ}
	f.status.Store(int32(status))
	f.info = comtest.New(winrt.IIDAsyncInfo).
		On(winrt.SlotAsyncInfoStatus, func(args []uintptr) uintptr {
			comtest.Store(args[0], f.status.Load())
			return com.S_OK.Word()
		})
	f.op = comtest.New(winrt.MustIID(typ)).Alias(winrt.IIDAsyncInfo, f.info)
	f.info.Alias(winrt.MustIID(typ), f.op)
	f.op.On(f.completedSlot(), func(args []uintptr) uintptr {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.handler = com.FromRawBorrowed(unsafe.Pointer(args[0]))
		return com.S_OK.Word()
	})
	t.Cleanup(func() {
		f.mu.Lock()
		f.handler.Release()
		f.mu.Unlock()
		f.op.Release()
		f.info.Release()
	})
	return f
}

func (f *fakeOp) progress() bool {
	switch f.typ.(type) {
	case winrt.AsyncActionWithProgressType, winrt.AsyncOperationWithProgressType:
		return true
	}
	return false
}

func (f *fakeOp) completedSlot() int {
	if f.progress() {
		return 8
	}
	return 6
}

func (f *fakeOp) resultsSlot() int {
	if f.progress() {
		return 10
	}
	return 8
}

func (f *fakeOp) registered() *com.Unknown {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.handler
}

// complete moves the operation to status and invokes the registered handler.
func (f *fakeOp) complete(status winrt.AsyncStatus) com.HRESULT {
	f.status.Store(int32(status))
	h := f.registered()
	if h == nil {
		return com.S_OK
	}
	return com.CallMethod(h.Raw(), SlotHandlerInvoke, uintptr(f.info.Raw()), uintptr(status))
}

func (f *fakeOp) future(t *testing.T) *Future {
	t.Helper()
	u := f.op.Unknown()
	defer u.Release()
	info, err := winrt.NewAsyncInfo(f.typ, u)
	if err != nil {
		t.Fatalf("NewAsyncInfo: %v", err)
	}
	fut := FromInfo(info)
	t.Cleanup(fut.Close)
	return fut
}

type countingWaker struct {
	n atomic.Int32
}

func (w *countingWaker) Wake() { w.n.Add(1) }

func isKind(err error, phase errors.Phase, kind errors.Kind) bool {
	return stderrors.Is(err, &errors.Error{Phase: phase, Kind: kind})
}

func TestFastPathRegistersNoHandler(t *testing.T) {
	op := newFakeOp(t, winrt.AsyncOperationType{Result: winrt.BasicString}, winrt.AsyncCompleted)
	op.op.On(op.resultsSlot(), comtest.OutString("done"))
	fut := op.future(t)

	v, ready, err := fut.Poll(&countingWaker{})
	if err != nil || !ready {
		t.Fatalf("Poll = %v, %v, %v", v, ready, err)
	}
	defer v.Release()
	if s, _ := v.AsString(); s != "done" {
		t.Fatalf("result = %v", v)
	}
	if n := op.op.Calls(op.completedSlot()); n != 0 {
		t.Fatalf("put_Completed called %d times", n)
	}
	if fut.Registered() {
		t.Fatal("future registered a handler")
	}

	again, ready, err := fut.Poll(nil)
	if !ready || err != nil || again.Kind() != winrt.KindString {
		t.Fatalf("second Poll = %v, %v, %v", again, ready, err)
	}
}

func TestSlowPath(t *testing.T) {
	op := newFakeOp(t, winrt.AsyncOperationType{Result: winrt.BasicI32}, winrt.AsyncStarted)
	op.op.On(op.resultsSlot(), comtest.Out(int32(42)))
	fut := op.future(t)
	w := &countingWaker{}

	if _, ready, err := fut.Poll(w); ready || err != nil {
		t.Fatalf("first Poll = %v, %v", ready, err)
	}
	if !fut.Registered() || op.registered() == nil {
		t.Fatal("pending future should register a handler")
	}
	if _, ready, _ := fut.Poll(w); ready {
		t.Fatal("second Poll ready before completion")
	}
	if n := op.op.Calls(op.completedSlot()); n != 1 {
		t.Fatalf("put_Completed called %d times, want 1", n)
	}
	if n := op.op.Calls(op.resultsSlot()); n != 0 {
		t.Fatalf("GetResults called %d times before completion", n)
	}

	if hr := op.complete(winrt.AsyncCompleted); hr != com.S_OK {
		t.Fatalf("Invoke = %v", hr)
	}
	if w.n.Load() != 1 {
		t.Fatalf("waker woken %d times, want 1", w.n.Load())
	}
	if n := op.op.Calls(op.resultsSlot()); n != 0 {
		t.Fatal("the handler must not fetch results")
	}

	v, ready, err := fut.Poll(w)
	if !ready || err != nil {
		t.Fatalf("Poll after completion = %v, %v", ready, err)
	}
	if n, _ := v.AsInt32(); n != 42 {
		t.Fatalf("result = %v", v)
	}
}

func TestHandlerIdentity(t *testing.T) {
	typ := winrt.AsyncOperationType{Result: winrt.BasicString}
	iid, _ := winrt.CompletedHandlerIID(typ)
	live := com.LiveHostObjects()

	h, err := NewHandler(iid, nil)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		iid  guid.GUID
		ok   bool
	}{
		{"IUnknown", com.IIDUnknown, true},
		{"IAgileObject", com.IIDAgileObject, true},
		{"handler", iid, true},
		{"IInspectable", com.IIDInspectable, false},
		{"IMarshal", com.IIDMarshal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.Is(tt.iid); got != tt.ok {
				t.Errorf("Is(%s) = %v, want %v", tt.name, got, tt.ok)
			}
		})
	}

	ppv := comtest.Alloc[uintptr](t)
	if hr := com.CallMethod(h.Raw(), com.SlotQueryInterface, 0, comtest.Addr(ppv)); hr != com.E_INVALIDARG {
		t.Errorf("QueryInterface(nil iid) = %v", hr)
	}
	// invoking without a waker is harmless
	if hr := com.CallMethod(h.Raw(), SlotHandlerInvoke, 0, uintptr(winrt.AsyncCompleted)); hr != com.S_OK {
		t.Errorf("Invoke = %v", hr)
	}

	h.Release()
	if got := com.LiveHostObjects(); got != live {
		t.Fatalf("live host objects = %d, want %d", got, live)
	}
}

func TestResultSlots(t *testing.T) {
	tests := []struct {
		typ  winrt.Type
		want func(v winrt.Value) bool
	}{
		{winrt.AsyncActionType{}, func(v winrt.Value) bool {
			hr, ok := v.AsHResult()
			return ok && hr == com.S_OK
		}},
		{winrt.AsyncActionWithProgressType{Progress: winrt.BasicF64}, func(v winrt.Value) bool {
			_, ok := v.AsHResult()
			return ok
		}},
		{winrt.AsyncOperationWithProgressType{Result: winrt.BasicU32, Progress: winrt.BasicU32}, func(v winrt.Value) bool {
			n, ok := v.AsUint32()
			return ok && n == 9
		}},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			op := newFakeOp(t, tt.typ, winrt.AsyncStarted)
			if winrt.ResultType(tt.typ) == nil {
				op.op.On(op.resultsSlot(), comtest.Returns(com.S_OK))
			} else {
				op.op.On(op.resultsSlot(), comtest.Out(uint32(9)))
			}
			fut := op.future(t)

			if _, ready, err := fut.Poll(&countingWaker{}); ready || err != nil {
				t.Fatalf("first Poll = %v, %v", ready, err)
			}
			if n := op.op.Calls(op.completedSlot()); n != 1 {
				t.Fatalf("put_Completed at slot %d called %d times", op.completedSlot(), n)
			}
			op.complete(winrt.AsyncCompleted)
			v, ready, err := fut.Poll(&countingWaker{})
			if !ready || err != nil || !tt.want(v) {
				t.Fatalf("Poll = %v, %v, %v", v, ready, err)
			}
			if n := op.op.Calls(op.resultsSlot()); n != 1 {
				t.Fatalf("GetResults at slot %d called %d times", op.resultsSlot(), n)
			}
		})
	}
}

func TestFailedOperation(t *testing.T) {
	op := newFakeOp(t, winrt.AsyncOperationType{Result: winrt.BasicString}, winrt.AsyncError)
	op.op.On(op.resultsSlot(), comtest.Fails(com.E_ACCESSDENIED))
	fut := op.future(t)

	v, ready, err := fut.Poll(nil)
	if !ready {
		t.Fatal("failed operation should resolve immediately")
	}
	if v.IsValid() {
		t.Fatalf("failed operation produced %v", v)
	}
	if !stderrors.Is(err, com.E_ACCESSDENIED) {
		t.Fatalf("err = %v", err)
	}
	if !isKind(err, errors.PhaseAsync, errors.KindCallFailed) {
		t.Fatalf("err kind = %v", err)
	}
}

func TestRegistrationFailure(t *testing.T) {
	op := newFakeOp(t, winrt.AsyncActionType{}, winrt.AsyncStarted)
	op.op.On(op.completedSlot(), comtest.Returns(com.E_ILLEGAL_DELEGATE_ASSIGNMENT))
	fut := op.future(t)

	_, ready, err := fut.Poll(nil)
	if !ready || !stderrors.Is(err, com.E_ILLEGAL_DELEGATE_ASSIGNMENT) {
		t.Fatalf("Poll = %v, %v", ready, err)
	}
	if fut.Registered() {
		t.Fatal("failed registration reported as registered")
	}
}

func TestCompletionRacingRegistration(t *testing.T) {
	op := newFakeOp(t, winrt.AsyncActionType{}, winrt.AsyncStarted)
	op.op.On(op.resultsSlot(), comtest.Returns(com.S_OK))
	// the operation finishes while the handler is being attached
	op.op.On(op.completedSlot(), func(args []uintptr) uintptr {
		op.status.Store(int32(winrt.AsyncCompleted))
		return com.S_OK.Word()
	})
	fut := op.future(t)

	v, ready, err := fut.Poll(nil)
	if !ready || err != nil {
		t.Fatalf("Poll = %v, %v, %v", v, ready, err)
	}
}

func TestAwait(t *testing.T) {
	op := newFakeOp(t, winrt.AsyncOperationType{Result: winrt.BasicString}, winrt.AsyncStarted)
	op.op.On(op.resultsSlot(), comtest.OutString("later"))
	op.op.On(op.completedSlot(), func(args []uintptr) uintptr {
		h := com.FromRawBorrowed(unsafe.Pointer(args[0]))
		go func() {
			defer h.Release()
			time.Sleep(10 * time.Millisecond)
			op.status.Store(int32(winrt.AsyncCompleted))
			com.CallMethod(h.Raw(), SlotHandlerInvoke, 0, uintptr(winrt.AsyncCompleted))
		}()
		return com.S_OK.Word()
	})
	fut := op.future(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	v, err := fut.Await(ctx)
	if err != nil {
		t.Fatalf("Await: %v", err)
	}
	defer v.Release()
	if s, _ := v.AsString(); s != "later" {
		t.Fatalf("result = %v", v)
	}
}

func TestAwaitContextCanceled(t *testing.T) {
	op := newFakeOp(t, winrt.AsyncActionType{}, winrt.AsyncStarted)
	fut := op.future(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := fut.Await(ctx)
	if !stderrors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Await = %v", err)
	}
	if op.info.Calls(winrt.SlotAsyncInfoCancel) != 0 {
		t.Fatal("abandoning a wait must not cancel the operation")
	}
}

func TestAwaitValue(t *testing.T) {
	op := newFakeOp(t, winrt.AsyncOperationType{Result: winrt.BasicBool}, winrt.AsyncCompleted)
	op.op.On(op.resultsSlot(), comtest.Out(uint8(1)))

	u := op.op.Unknown()
	defer u.Release()
	info, err := winrt.NewAsyncInfo(op.typ, u)
	if err != nil {
		t.Fatal(err)
	}
	v := winrt.Async(info)
	defer v.Release()

	got, err := Await(context.Background(), v)
	if b, _ := got.AsBool(); err != nil || !b {
		t.Fatalf("Await = %v, %v", got, err)
	}

	if _, err := New(winrt.Int32(1)); !isKind(err, errors.PhaseAsync, errors.KindTypeMismatch) {
		t.Fatalf("New(i32) = %v", err)
	}
}
