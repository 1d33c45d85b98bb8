package abi

import "strings"

// DescKind is the coarse shape of a foreign-call type.
type DescKind uint8

const (
	DescInteger DescKind = iota
	DescFloat
	DescPointer
	DescStruct
)

// Descriptor describes how a type crosses the call boundary.
// Struct descriptors list their elements in declaration order.
type Descriptor struct {
	Elements []Descriptor
	Size     uint32
	Align    uint32
	Kind     DescKind
}

// Descriptor returns the foreign-call descriptor of a scalar category.
func (t Type) Descriptor() Descriptor {
	d := Descriptor{Size: t.Size(), Align: t.Align()}
	switch {
	case t.IsFloat():
		d.Kind = DescFloat
	case t == Ptr:
		d.Kind = DescPointer
	default:
		d.Kind = DescInteger
	}
	return d
}

// StructDescriptor lays out elems with natural alignment.
func StructDescriptor(elems ...Descriptor) Descriptor {
	maxAlign := uint32(1)
	offset := uint32(0)
	for _, e := range elems {
		offset = AlignTo(offset, e.Align)
		offset += e.Size
		if e.Align > maxAlign {
			maxAlign = e.Align
		}
	}
	return Descriptor{
		Kind:     DescStruct,
		Size:     AlignTo(offset, maxAlign),
		Align:    maxAlign,
		Elements: elems,
	}
}

// Flatten returns the scalar leaves of d in order.
func (d Descriptor) Flatten() []Descriptor {
	if d.Kind != DescStruct {
		return []Descriptor{d}
	}
	var out []Descriptor
	for _, e := range d.Elements {
		out = append(out, e.Flatten()...)
	}
	return out
}

func (d Descriptor) String() string {
	switch d.Kind {
	case DescFloat:
		if d.Size == 4 {
			return "f32"
		}
		return "f64"
	case DescPointer:
		return "ptr"
	case DescStruct:
		parts := make([]string, len(d.Elements))
		for i, e := range d.Elements {
			parts[i] = e.String()
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		switch d.Size {
		case 1:
			return "i8"
		case 2:
			return "i16"
		case 4:
			return "i32"
		default:
			return "i64"
		}
	}
}
