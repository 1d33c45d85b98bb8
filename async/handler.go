package async

import (
	"sync"
	"unsafe"

	"github.com/wippyai/winrt-runtime/com"
	"github.com/wippyai/winrt-runtime/guid"
)

// SlotHandlerInvoke is the Invoke slot of every completion handler delegate.
const SlotHandlerInvoke = 3

// Waker is notified when a pending future may make progress.
type Waker interface {
	Wake()
}

// WakerFunc adapts a function to Waker.
type WakerFunc func()

func (f WakerFunc) Wake() { f() }

// signal is the waker slot shared between a future and its handler.
type signal struct {
	waker Waker
	mu    sync.Mutex
}

func (s *signal) set(w Waker) {
	s.mu.Lock()
	s.waker = w
	s.mu.Unlock()
}

func (s *signal) wake() {
	s.mu.Lock()
	w := s.waker
	s.mu.Unlock()
	if w != nil {
		w.Wake()
	}
}

// handler is a completion delegate whose interface id is only known at run
// time. It answers IUnknown, IAgileObject and its own id.
type handler struct {
	sig *signal
	iid guid.GUID
}

func (h *handler) Interface(self unsafe.Pointer, iid guid.GUID) unsafe.Pointer {
	switch iid {
	case com.IIDUnknown, com.IIDAgileObject, h.iid:
		return self
	}
	return nil
}

var (
	handlerOnce   sync.Once
	handlerVtable *com.HostVtable
)

func sharedHandlerVtable() *com.HostVtable {
	handlerOnce.Do(func() {
		handlerVtable = com.NewHostVtable(com.NewCallback(handlerInvoke))
	})
	return handlerVtable
}

func handlerInvoke(this, asyncInfo, status uintptr) uintptr {
	impl, ok := com.HostFromRaw(unsafe.Pointer(this))
	if !ok {
		return com.E_UNEXPECTED.Word()
	}
	h, ok := impl.(*handler)
	if !ok {
		return com.E_UNEXPECTED.Word()
	}
	h.sig.wake()
	return com.S_OK.Word()
}

// NewHandler creates a completion handler for the delegate iid that wakes w
// when invoked. The caller owns the returned reference.
func NewHandler(iid guid.GUID, w Waker) (*com.Unknown, error) {
	sig := &signal{waker: w}
	return newHandler(iid, sig)
}

func newHandler(iid guid.GUID, sig *signal) (*com.Unknown, error) {
	p, err := com.NewHostObject(sharedHandlerVtable(), &handler{iid: iid, sig: sig})
	if err != nil {
		return nil, err
	}
	return com.FromRaw(p), nil
}
