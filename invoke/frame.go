package invoke

import (
	"fmt"
	"strings"

	"github.com/wippyai/winrt-runtime/abi"
	"github.com/wippyai/winrt-runtime/errors"
	"github.com/wippyai/winrt-runtime/winrt"
)

// Lowering is how one declared parameter occupies argument words.
type Lowering uint8

const (
	// LowerWord passes an integer, pointer, string or reference in one word.
	LowerWord Lowering = iota
	// LowerFloat passes the IEEE bits of a float in one word.
	LowerFloat
	// LowerPacked passes a struct of 1, 2, 4 or 8 bytes by value in one word.
	LowerPacked
	// LowerIndirect passes a pointer to a caller-owned copy of the value.
	LowerIndirect
	// LowerArrayPair passes a length word and a data pointer word. As an out
	// parameter both words point into the out storage.
	LowerArrayPair
	// LowerOutPointer passes a pointer to zeroed out storage.
	LowerOutPointer
)

func (l Lowering) String() string {
	switch l {
	case LowerWord:
		return "word"
	case LowerFloat:
		return "float"
	case LowerPacked:
		return "packed"
	case LowerIndirect:
		return "indirect"
	case LowerArrayPair:
		return "array"
	case LowerOutPointer:
		return "out"
	default:
		return "unknown"
	}
}

// Words returns the number of argument words taken by l.
func (l Lowering) Words() int {
	if l == LowerArrayPair {
		return 2
	}
	return 1
}

type plan struct {
	typ      winrt.Type
	storage  uint32
	lowering Lowering
	out      bool
}

// Frame is the precomputed call descriptor of a method: the receiver word,
// one plan per declared parameter and a 32-bit status result.
type Frame struct {
	plans []plan
	words int
	outs  int
}

func newFrame(params []Parameter) *Frame {
	f := &Frame{plans: make([]plan, len(params)), words: 1}
	for i, p := range params {
		pl := planFor(p)
		f.plans[i] = pl
		f.words += pl.lowering.Words()
		if pl.out {
			f.outs++
		}
	}
	return f
}

func planFor(p Parameter) plan {
	if _, ok := p.Type.(winrt.GenericType); ok {
		panic(fmt.Sprintf("invoke: uninstantiated generic %v cannot be a parameter", p.Type))
	}
	if ov, ok := p.Type.(winrt.OutValueType); ok {
		// An out value cannot itself be produced from an out slot.
		if _, nested := ov.Elem.(winrt.OutValueType); p.Out || nested {
			panic(errors.InvalidNestedOut(p.Type.String()))
		}
	}
	if _, ok := p.Type.(winrt.ObjectArrayType); ok {
		return plan{typ: p.Type, lowering: LowerArrayPair, storage: winrt.StorageSize(p.Type), out: p.Out}
	}
	if p.Out {
		return plan{typ: p.Type, lowering: LowerOutPointer, storage: winrt.StorageSize(p.Type), out: true}
	}

	d := winrt.Descriptor(p.Type)
	switch abi.Classify(d) {
	case abi.ClassFloat:
		return plan{typ: p.Type, lowering: LowerFloat}
	case abi.ClassPacked:
		return plan{typ: p.Type, lowering: LowerPacked, storage: d.Size}
	case abi.ClassIndirect:
		return plan{typ: p.Type, lowering: LowerIndirect, storage: d.Size}
	default:
		return plan{typ: p.Type, lowering: LowerWord}
	}
}

// Len returns the number of declared parameters.
func (f *Frame) Len() int { return len(f.plans) }

// Words returns the number of argument words including the receiver.
func (f *Frame) Words() int { return f.words }

// Outs returns the number of out parameters.
func (f *Frame) Outs() int { return f.outs }

// Lowering returns the lowering of parameter i.
func (f *Frame) Lowering(i int) Lowering { return f.plans[i].lowering }

// Storage returns the bytes of out or copy storage parameter i needs, zero
// when it is passed directly.
func (f *Frame) Storage(i int) uint32 { return f.plans[i].storage }

// String renders the frame as (this, word, out[8], ...) -> i32.
func (f *Frame) String() string {
	var b strings.Builder
	b.WriteString("(this")
	for _, pl := range f.plans {
		b.WriteString(", ")
		if pl.out && pl.lowering == LowerArrayPair {
			b.WriteString("out ")
		}
		b.WriteString(pl.lowering.String())
		if pl.storage > 0 && pl.lowering != LowerArrayPair {
			fmt.Fprintf(&b, "[%d]", pl.storage)
		}
	}
	b.WriteString(") -> i32")
	return b.String()
}
