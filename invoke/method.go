package invoke

import (
	"fmt"
	"strings"

	"github.com/wippyai/winrt-runtime/winrt"
)

// Parameter is one declared parameter. Index counts inputs and outputs
// separately, each from zero.
type Parameter struct {
	Type  winrt.Type
	Index int
	Out   bool
}

func (p Parameter) String() string {
	if p.Out {
		return fmt.Sprintf("out%d %v", p.Index, p.Type)
	}
	return fmt.Sprintf("in%d %v", p.Index, p.Type)
}

// MethodSignature accumulates the parameters of a method in declaration order.
type MethodSignature struct {
	name   string
	params []Parameter
	ins    int
	outs   int
}

// NewMethodSignature starts an empty signature.
func NewMethodSignature() *MethodSignature {
	return &MethodSignature{}
}

// Named sets the method name used in logs and errors.
func (s *MethodSignature) Named(name string) *MethodSignature {
	s.name = name
	return s
}

// Add appends an input parameter.
func (s *MethodSignature) Add(t winrt.Type) *MethodSignature {
	s.params = append(s.params, Parameter{Type: t, Index: s.ins})
	s.ins++
	return s
}

// AddOut appends an out parameter.
func (s *MethodSignature) AddOut(t winrt.Type) *MethodSignature {
	s.params = append(s.params, Parameter{Type: t, Index: s.outs, Out: true})
	s.outs++
	return s
}

// Params returns a copy of the declared parameters.
func (s *MethodSignature) Params() []Parameter {
	return append([]Parameter(nil), s.params...)
}

// Build binds the signature to a vtable slot and computes its frame.
// Later changes to s do not affect the returned method.
func (s *MethodSignature) Build(slot int) *Method {
	if slot < 0 {
		panic(fmt.Sprintf("invoke: negative vtable slot %d", slot))
	}
	params := s.Params()
	name := s.name
	if name == "" {
		name = fmt.Sprintf("slot%d", slot)
	}
	return &Method{
		name:   name,
		slot:   slot,
		params: params,
		frame:  newFrame(params),
		ins:    s.ins,
		outs:   s.outs,
	}
}

// Method is a built signature bound to a vtable slot. It is immutable and
// safe for concurrent use.
type Method struct {
	frame  *Frame
	name   string
	params []Parameter
	slot   int
	ins    int
	outs   int
}

func (m *Method) Name() string { return m.name }

func (m *Method) Slot() int { return m.slot }

// Frame returns the call descriptor computed at Build time.
func (m *Method) Frame() *Frame { return m.frame }

// Params returns the declared parameters.
func (m *Method) Params() []Parameter { return append([]Parameter(nil), m.params...) }

// NumIn returns the number of input parameters.
func (m *Method) NumIn() int { return m.ins }

// NumOut returns the number of out parameters.
func (m *Method) NumOut() int { return m.outs }

func (m *Method) String() string {
	parts := make([]string, len(m.params))
	for i, p := range m.params {
		if p.Out {
			parts[i] = "out " + p.Type.String()
		} else {
			parts[i] = p.Type.String()
		}
	}
	return fmt.Sprintf("%s@%d(%s)", m.name, m.slot, strings.Join(parts, ", "))
}
