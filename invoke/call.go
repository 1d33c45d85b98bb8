package invoke

import (
	"runtime"
	"sync"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/winrt-runtime/abi"
	"github.com/wippyai/winrt-runtime/com"
	"github.com/wippyai/winrt-runtime/errors"
	"github.com/wippyai/winrt-runtime/guid"
	"github.com/wippyai/winrt-runtime/winrt"
)

var wordsPool = sync.Pool{
	New: func() any {
		s := make([]uintptr, 0, 16)
		return &s
	},
}

// frameState is the per-call storage of one invocation. Everything handed to
// the callee as a word is pinned until finish.
type frameState struct {
	pin   runtime.Pinner
	outs  []unsafe.Pointer
	temps []*com.Unknown
}

func (st *frameState) finish() {
	st.pin.Unpin()
	for _, t := range st.temps {
		t.Release()
	}
}

func (st *frameState) alloc(size uint32) unsafe.Pointer {
	n := (size + 7) / 8
	if n == 0 {
		n = 1
	}
	buf := make([]uint64, n)
	p := unsafe.Pointer(&buf[0])
	st.pin.Pin(p)
	return p
}

// Call invokes m on obj. Outputs are returned in declaration order and are
// owned by the caller. A failing status yields an error wrapping the
// com.HRESULT and no outputs.
func (m *Method) Call(obj *com.Unknown, args ...winrt.Value) ([]winrt.Value, error) {
	if obj.IsNil() {
		return nil, errors.ExpectObject(errors.PhaseCall, "null receiver")
	}
	return m.CallRaw(obj.Raw(), args...)
}

// CallValue invokes m on the reference held by obj.
func (m *Method) CallValue(obj winrt.Value, args ...winrt.Value) ([]winrt.Value, error) {
	u, ok := obj.AsObject()
	if !ok {
		return nil, errors.ExpectObject(errors.PhaseCall, obj.Type().String())
	}
	return m.Call(u, args...)
}

// CallRaw invokes m on a borrowed interface pointer.
func (m *Method) CallRaw(obj unsafe.Pointer, args ...winrt.Value) ([]winrt.Value, error) {
	if obj == nil {
		return nil, errors.ExpectObject(errors.PhaseCall, "null receiver")
	}
	if len(args) != m.ins {
		return nil, errors.New(errors.PhaseCall, errors.KindInvalidInput).
			Detail("%s: got %d arguments, want %d", m.name, len(args), m.ins).Build()
	}

	var st frameState
	defer st.finish()

	fn := com.FunctionPointer(obj, m.slot)

	st.outs = make([]unsafe.Pointer, 0, m.outs)
	for _, pl := range m.frame.plans {
		if pl.out {
			st.outs = append(st.outs, st.alloc(pl.storage))
		}
	}

	wp := wordsPool.Get().(*[]uintptr)
	words := append((*wp)[:0], uintptr(obj))
	defer func() {
		*wp = words[:0]
		wordsPool.Put(wp)
	}()

	out := 0
	for i, pl := range m.frame.plans {
		p := m.params[i]
		if pl.out {
			storage := st.outs[out]
			out++
			words = append(words, uintptr(storage))
			if pl.lowering == LowerArrayPair {
				words = append(words, uintptr(unsafe.Add(storage, abi.PointerSize)))
			}
			continue
		}
		next, err := st.lower(words, pl, p, args[p.Index])
		if err != nil {
			return nil, err
		}
		words = next
	}

	hr := com.FromWord(com.Dispatch(fn, words...))
	if hr.Failed() {
		Logger().Debug("method call failed",
			zap.String("method", m.name),
			zap.Int("slot", m.slot),
			zap.Stringer("hresult", hr))
		return nil, errors.CallFailed(m.slot, hr)
	}

	results := make([]winrt.Value, 0, m.outs)
	out = 0
	for _, pl := range m.frame.plans {
		if !pl.out {
			continue
		}
		v, err := winrt.FromOut(pl.typ, st.outs[out])
		out++
		if err != nil {
			for _, r := range results {
				r.Release()
			}
			Logger().Debug("out conversion failed",
				zap.String("method", m.name),
				zap.Int("out", out-1),
				zap.Error(err))
			return nil, err
		}
		results = append(results, v)
	}
	return results, nil
}

func (st *frameState) lower(words []uintptr, pl plan, p Parameter, v winrt.Value) ([]uintptr, error) {
	if !accepts(p.Type, v) {
		got := "invalid value"
		if v.Type() != nil {
			got = v.Type().String()
		}
		return nil, errors.TypeMismatch(errors.PhaseCall, []string{p.String()}, got, p.Type.String())
	}

	switch pl.lowering {
	case LowerFloat:
		raw, _ := v.Abi()
		return append(words, uintptr(raw.Bits())), nil

	case LowerPacked:
		data, _ := v.AsStruct()
		var w uint64
		copy(unsafe.Slice((*byte)(unsafe.Pointer(&w)), 8), data.Bytes())
		return append(words, uintptr(w)), nil

	case LowerIndirect:
		if id, ok := v.AsGuid(); ok {
			g := new(guid.GUID)
			*g = id
			st.pin.Pin(g)
			return append(words, uintptr(unsafe.Pointer(g))), nil
		}
		data, _ := v.AsStruct()
		c := data.Clone()
		st.pin.Pin(c.Pointer())
		return append(words, uintptr(c.Pointer())), nil

	case LowerArrayPair:
		objs, _ := v.AsObjectArray()
		if len(objs) == 0 {
			return append(words, 0, 0), nil
		}
		ptrs := make([]unsafe.Pointer, len(objs))
		for i, o := range objs {
			ptrs[i] = o.Raw()
		}
		st.pin.Pin(&ptrs[0])
		return append(words, uintptr(len(ptrs)), uintptr(unsafe.Pointer(&ptrs[0]))), nil
	}

	switch v.Kind() {
	case winrt.KindObject:
		u, _ := v.AsObject()
		return append(words, uintptr(u.Raw())), nil
	case winrt.KindAsync:
		a, _ := v.AsAsync()
		op, err := a.Operation()
		if err != nil {
			return nil, err
		}
		st.temps = append(st.temps, op)
		return append(words, uintptr(op.Raw())), nil
	case winrt.KindString:
		h, _ := v.AsHString()
		return append(words, uintptr(h)), nil
	case winrt.KindOut:
		ptr, _ := v.AsOut()
		return append(words, uintptr(ptr)), nil
	}
	raw, _ := v.Abi()
	return append(words, raw.Word()), nil
}

// accepts reports whether v can be passed for a parameter declared as t.
// Any reference can fill a reference parameter; everything else must carry
// the declared type.
func accepts(t winrt.Type, v winrt.Value) bool {
	if !v.IsValid() {
		return false
	}
	if winrt.IsReference(t) {
		return v.Kind() == winrt.KindObject || v.Kind() == winrt.KindAsync
	}
	if _, ok := t.(winrt.ObjectArrayType); ok {
		return v.Kind() == winrt.KindObjectArray
	}
	return winrt.Equal(v.Type(), t)
}
