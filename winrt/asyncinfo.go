package winrt

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/wippyai/winrt-runtime/com"
	"github.com/wippyai/winrt-runtime/errors"
	"github.com/wippyai/winrt-runtime/guid"
)

// AsyncStatus is the state reported by IAsyncInfo.
type AsyncStatus int32

const (
	AsyncStarted   AsyncStatus = 0
	AsyncCompleted AsyncStatus = 1
	AsyncCanceled  AsyncStatus = 2
	AsyncError     AsyncStatus = 3
)

func (s AsyncStatus) String() string {
	switch s {
	case AsyncStarted:
		return "Started"
	case AsyncCompleted:
		return "Completed"
	case AsyncCanceled:
		return "Canceled"
	case AsyncError:
		return "Error"
	default:
		return fmt.Sprintf("AsyncStatus(%d)", int32(s))
	}
}

// IAsyncInfo vtable slots.
const (
	SlotAsyncInfoID        = 6
	SlotAsyncInfoStatus    = 7
	SlotAsyncInfoErrorCode = 8
	SlotAsyncInfoCancel    = 9
	SlotAsyncInfoClose     = 10
)

// AsyncInfo is an in-flight async operation: its IAsyncInfo reference and
// the async shape describing it.
type AsyncInfo struct {
	info *com.Unknown
	typ  Type
}

// NewAsyncInfo queries op for IAsyncInfo. op is borrowed. t must be an async shape.
func NewAsyncInfo(t Type, op *com.Unknown) (*AsyncInfo, error) {
	t = Resugar(t)
	if !IsAsync(t) {
		return nil, errors.TypeMismatch(errors.PhaseAsync, nil, t.String(), "async operation type")
	}
	if op.IsNil() {
		return nil, errors.ExpectObject(errors.PhaseAsync, "null "+t.String())
	}
	info, err := op.QueryInterface(IIDAsyncInfo)
	if err != nil {
		return nil, errors.New(errors.PhaseAsync, errors.KindCallFailed).
			Type(t.String()).Detail("QueryInterface IAsyncInfo").Cause(err).Build()
	}
	return &AsyncInfo{info: info, typ: t}, nil
}

// Info returns the IAsyncInfo reference, still owned by a.
func (a *AsyncInfo) Info() *com.Unknown { return a.info }

// Type returns the async shape.
func (a *AsyncInfo) Type() Type { return a.typ }

// IID returns the identifier of the concrete operation interface.
func (a *AsyncInfo) IID() guid.GUID { return MustIID(a.typ) }

// HandlerIID returns the identifier of the matching completion handler.
func (a *AsyncInfo) HandlerIID() guid.GUID {
	id, _ := CompletedHandlerIID(a.typ)
	return id
}

// ResultType returns the operation result type, or nil for actions.
func (a *AsyncInfo) ResultType() Type { return ResultType(a.typ) }

// HasProgress reports whether the shape reports progress, which shifts the
// completion and results slots by two.
func (a *AsyncInfo) HasProgress() bool {
	switch a.typ.(type) {
	case AsyncActionWithProgressType, AsyncOperationWithProgressType:
		return true
	}
	return false
}

// CompletedSlot is the put_Completed slot of the concrete interface.
func (a *AsyncInfo) CompletedSlot() int {
	if a.HasProgress() {
		return 8
	}
	return 6
}

// ResultsSlot is the GetResults slot of the concrete interface.
func (a *AsyncInfo) ResultsSlot() int {
	if a.HasProgress() {
		return 10
	}
	return 8
}

func (a *AsyncInfo) getWord(slot int) (uint32, error) {
	var pin runtime.Pinner
	out := new(uint32)
	pin.Pin(out)
	defer pin.Unpin()
	hr := com.CallMethod(a.info.Raw(), slot, uintptr(unsafe.Pointer(out)))
	if hr.Failed() {
		return 0, errors.CallFailed(slot, hr)
	}
	return *out, nil
}

// ID returns the operation identifier.
func (a *AsyncInfo) ID() (uint32, error) {
	return a.getWord(SlotAsyncInfoID)
}

// Status returns the current state.
func (a *AsyncInfo) Status() (AsyncStatus, error) {
	s, err := a.getWord(SlotAsyncInfoStatus)
	return AsyncStatus(int32(s)), err
}

// ErrorCode returns the failure code of an operation in the Error state.
func (a *AsyncInfo) ErrorCode() (com.HRESULT, error) {
	c, err := a.getWord(SlotAsyncInfoErrorCode)
	return com.HRESULT(int32(c)), err
}

// Cancel requests cancellation.
func (a *AsyncInfo) Cancel() error {
	if hr := com.CallMethod(a.info.Raw(), SlotAsyncInfoCancel); hr.Failed() {
		return errors.CallFailed(SlotAsyncInfoCancel, hr)
	}
	return nil
}

// Close releases the operation's results on the platform side.
func (a *AsyncInfo) Close() error {
	if hr := com.CallMethod(a.info.Raw(), SlotAsyncInfoClose); hr.Failed() {
		return errors.CallFailed(SlotAsyncInfoClose, hr)
	}
	return nil
}

// Operation queries the concrete operation interface. The caller owns the result.
func (a *AsyncInfo) Operation() (*com.Unknown, error) {
	op, err := a.info.QueryInterface(a.IID())
	if err != nil {
		return nil, errors.New(errors.PhaseAsync, errors.KindCallFailed).
			Type(a.typ.String()).Detail("QueryInterface %s", a.IID()).Cause(err).Build()
	}
	return op, nil
}

// Clone returns an AsyncInfo with its own reference.
func (a *AsyncInfo) Clone() *AsyncInfo {
	return &AsyncInfo{info: a.info.Clone(), typ: a.typ}
}

// Release drops the IAsyncInfo reference.
func (a *AsyncInfo) Release() {
	a.info.Release()
}

func (a *AsyncInfo) String() string {
	return fmt.Sprintf("%s(%p)", a.typ, a.info.Raw())
}
