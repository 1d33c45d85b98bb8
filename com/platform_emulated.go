//go:build !(windows && amd64)

package com

import (
	"fmt"
	"reflect"
	"sync"
	"unicode/utf16"
	"unsafe"

	"github.com/wippyai/winrt-runtime/internal/handles"
)

// Native reports whether calls reach real platform code.
const Native = false

// Emulated function pointers are synthetic addresses; they are never
// dereferenced, only looked up by the dispatcher.
const (
	callbackBase   uintptr = 0x10000000
	callbackStride uintptr = 16
)

var (
	callbacksMu sync.RWMutex
	callbacks   []reflect.Value
)

// NewCallback registers fn and returns a synthetic function pointer that the
// emulated dispatcher routes to it. fn must take only uintptr-sized
// arguments and return one uintptr.
func NewCallback(fn any) uintptr {
	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		panic("com: NewCallback requires a function")
	}
	if t.NumOut() != 1 || t.Out(0).Size() != unsafe.Sizeof(uintptr(0)) {
		panic("com: NewCallback function must return one uintptr-sized value")
	}
	for i := 0; i < t.NumIn(); i++ {
		if t.In(i).Size() > unsafe.Sizeof(uintptr(0)) {
			panic(fmt.Sprintf("com: NewCallback argument %d is wider than a word", i))
		}
	}

	callbacksMu.Lock()
	defer callbacksMu.Unlock()
	callbacks = append(callbacks, v)
	return callbackBase + uintptr(len(callbacks)-1)*callbackStride
}

type platformDispatcher struct{}

func (platformDispatcher) Dispatch(fn uintptr, args ...uintptr) uintptr {
	idx := (fn - callbackBase) / callbackStride
	callbacksMu.RLock()
	if fn < callbackBase || (fn-callbackBase)%callbackStride != 0 || idx >= uintptr(len(callbacks)) {
		callbacksMu.RUnlock()
		panic(fmt.Sprintf("com: no emulated function at %#x", fn))
	}
	cb := callbacks[idx]
	callbacksMu.RUnlock()

	t := cb.Type()
	in := make([]reflect.Value, t.NumIn())
	for i := range in {
		var w uintptr
		if i < len(args) {
			w = args[i]
		}
		in[i] = reflect.New(t.In(i)).Elem()
		setWord(in[i], w)
	}
	out := cb.Call(in)
	return wordOf(out[0])
}

func setWord(v reflect.Value, w uintptr) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v.SetInt(int64(w))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		v.SetUint(uint64(w))
	case reflect.UnsafePointer:
		v.SetPointer(unsafe.Pointer(w))
	default:
		panic(fmt.Sprintf("com: unsupported callback argument kind %v", v.Kind()))
	}
}

func wordOf(v reflect.Value) uintptr {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return uintptr(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return uintptr(v.Uint())
	case reflect.UnsafePointer:
		return uintptr(v.UnsafePointer())
	default:
		panic(fmt.Sprintf("com: unsupported callback result kind %v", v.Kind()))
	}
}

// Emulated HSTRINGs are handles into a table of UTF-16 buffers.
var stringHeap = handles.New()

const stringKind = 1

func createString(s string) (HString, error) {
	if s == "" {
		return 0, nil
	}
	h, err := stringHeap.Insert(stringKind, utf16.Encode([]rune(s)))
	if err != nil {
		return 0, err
	}
	return HString(h), nil
}

func stringValue(h HString) string {
	if h == 0 {
		return ""
	}
	v, ok := stringHeap.GetKind(handles.Handle(h), stringKind)
	if !ok {
		panic(fmt.Sprintf("com: invalid HSTRING %#x", uintptr(h)))
	}
	return string(utf16.Decode(v.([]uint16)))
}

func duplicateString(h HString) (HString, error) {
	if h == 0 {
		return 0, nil
	}
	return createString(stringValue(h))
}

func deleteString(h HString) {
	if h != 0 {
		stringHeap.Remove(handles.Handle(h))
	}
}

// liveStrings reports the number of undeleted emulated HSTRINGs.
func liveStrings() int {
	return stringHeap.Len()
}

var (
	taskMemMu sync.Mutex
	taskMem   = map[unsafe.Pointer][]uint64{}
)

func taskMemAlloc(size uintptr) unsafe.Pointer {
	buf := make([]uint64, (size+7)/8+1)
	p := unsafe.Pointer(&buf[0])
	taskMemMu.Lock()
	taskMem[p] = buf
	taskMemMu.Unlock()
	return p
}

func taskMemFree(p unsafe.Pointer) {
	if p == nil {
		return
	}
	taskMemMu.Lock()
	delete(taskMem, p)
	taskMemMu.Unlock()
}
