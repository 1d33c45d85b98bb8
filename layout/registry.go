package layout

import (
	"fmt"
	"strings"
	"sync"

	"github.com/wippyai/winrt-runtime/abi"
)

// Info is the computed layout of a type.
type Info struct {
	Size  uint32
	Align uint32
}

type structEntry struct {
	name    string
	fields  []Handle
	offsets []uint32
	info    Info
}

// Registry owns struct definitions. Safe for concurrent use.
type Registry struct {
	entries []*structEntry
	mu      sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make([]*structEntry, 0, 16)}
}

// Primitive returns the handle of a scalar category in this registry.
func (r *Registry) Primitive(t abi.Type) Handle {
	if !t.Valid() {
		panic(fmt.Sprintf("layout: invalid primitive %v", t))
	}
	return Handle{reg: r, prim: t}
}

// DefineStruct appends an anonymous struct built from fields and returns its handle.
// Field handles must come from r.
func (r *Registry) DefineStruct(fields ...Handle) Handle {
	return r.DefineNamedStruct("", fields...)
}

// DefineNamedStruct is DefineStruct with a fully qualified type name, used by
// WinRT struct signatures.
func (r *Registry) DefineNamedStruct(name string, fields ...Handle) Handle {
	entry := &structEntry{
		name:    name,
		fields:  append([]Handle(nil), fields...),
		offsets: make([]uint32, len(fields)),
	}

	maxAlign := uint32(1)
	offset := uint32(0)
	for i, f := range fields {
		if !f.Valid() {
			panic(fmt.Sprintf("layout: field %d has an invalid handle", i))
		}
		fl := f.Layout()
		offset = abi.AlignTo(offset, fl.Align)
		entry.offsets[i] = offset
		if fl.Align > maxAlign {
			maxAlign = fl.Align
		}
		offset += fl.Size
	}
	entry.info = Info{Size: abi.AlignTo(offset, maxAlign), Align: maxAlign}

	r.mu.Lock()
	id := uint32(len(r.entries))
	r.entries = append(r.entries, entry)
	r.mu.Unlock()

	return Handle{reg: r, id: id, isStruct: true}
}

// Len returns the number of defined structs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Lookup returns the most recently defined struct with the given name.
func (r *Registry) Lookup(name string) (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].name == name && name != "" {
			return Handle{reg: r, id: uint32(i), isStruct: true}, true
		}
	}
	return Handle{}, false
}

func (r *Registry) entry(id uint32) *structEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(id) >= len(r.entries) {
		panic(fmt.Sprintf("layout: unknown struct id %d", id))
	}
	return r.entries[id]
}

// Handle names a primitive category or a struct of one registry.
// The zero Handle is invalid.
type Handle struct {
	reg      *Registry
	id       uint32
	prim     abi.Type
	isStruct bool
}

func (h Handle) Valid() bool {
	return h.reg != nil && (h.isStruct || h.prim.Valid())
}

func (h Handle) Registry() *Registry { return h.reg }

func (h Handle) IsStruct() bool { return h.isStruct }

// Primitive returns the scalar category of a primitive handle.
func (h Handle) Primitive() (abi.Type, bool) {
	if h.isStruct {
		return abi.Invalid, false
	}
	return h.prim, h.prim.Valid()
}

func (h Handle) mustStruct(op string) *structEntry {
	if !h.isStruct || h.reg == nil {
		panic(fmt.Sprintf("layout: %s called on non-struct handle %v", op, h))
	}
	return h.reg.entry(h.id)
}

// Layout returns size and alignment.
func (h Handle) Layout() Info {
	if h.isStruct {
		return h.mustStruct("Layout").info
	}
	return Info{Size: h.prim.Size(), Align: h.prim.Align()}
}

func (h Handle) Size() uint32  { return h.Layout().Size }
func (h Handle) Align() uint32 { return h.Layout().Align }

// Name returns the struct name given at definition, or the primitive name.
func (h Handle) Name() string {
	if h.isStruct {
		return h.mustStruct("Name").name
	}
	return h.prim.String()
}

// FieldCount returns the number of fields of a struct handle.
func (h Handle) FieldCount() int {
	return len(h.mustStruct("FieldCount").fields)
}

// FieldOffset returns the byte offset of field i.
func (h Handle) FieldOffset(i int) uint32 {
	e := h.mustStruct("FieldOffset")
	if i < 0 || i >= len(e.offsets) {
		panic(fmt.Sprintf("layout: field index %d out of range [0,%d)", i, len(e.offsets)))
	}
	return e.offsets[i]
}

// FieldType returns the handle of field i.
func (h Handle) FieldType(i int) Handle {
	e := h.mustStruct("FieldType")
	if i < 0 || i >= len(e.fields) {
		panic(fmt.Sprintf("layout: field index %d out of range [0,%d)", i, len(e.fields)))
	}
	return e.fields[i]
}

// Offsets returns a copy of all field offsets.
func (h Handle) Offsets() []uint32 {
	return append([]uint32(nil), h.mustStruct("Offsets").offsets...)
}

// Descriptor builds the foreign-call descriptor on demand.
func (h Handle) Descriptor() abi.Descriptor {
	if !h.isStruct {
		return h.prim.Descriptor()
	}
	e := h.mustStruct("Descriptor")
	elems := make([]abi.Descriptor, len(e.fields))
	for i, f := range e.fields {
		elems[i] = f.Descriptor()
	}
	return abi.StructDescriptor(elems...)
}

func (h Handle) String() string {
	if !h.Valid() {
		return "invalid"
	}
	if !h.isStruct {
		return h.prim.String()
	}
	e := h.reg.entry(h.id)
	parts := make([]string, len(e.fields))
	for i, f := range e.fields {
		parts[i] = f.String()
	}
	name := e.name
	if name == "" {
		name = fmt.Sprintf("struct#%d", h.id)
	}
	return name + "{" + strings.Join(parts, ",") + "}"
}
