package invoke

import (
	"fmt"

	"github.com/wippyai/winrt-runtime/com"
	"github.com/wippyai/winrt-runtime/errors"
	"github.com/wippyai/winrt-runtime/guid"
	"github.com/wippyai/winrt-runtime/winrt"
)

// TrustLevel is the enum returned by IInspectable::GetTrustLevel.
var TrustLevel = winrt.EnumType{Name: "TrustLevel"}

// InterfaceSignature is the method table of one interface, indexed by slot.
type InterfaceSignature struct {
	Name    string
	Methods []*Method
	IID     guid.GUID
}

// DefineInterface starts an interface with no methods.
func DefineInterface(name string, iid guid.GUID) *InterfaceSignature {
	return &InterfaceSignature{Name: name, IID: iid}
}

// FromIUnknown starts an interface with the three IUnknown methods in slots 0-2.
func FromIUnknown(name string, iid guid.GUID) *InterfaceSignature {
	s := DefineInterface(name, iid)
	s.AddMethod(NewMethodSignature().Named("QueryInterface").Add(winrt.BasicGuid).AddOut(winrt.BasicObject))
	s.AddMethod(NewMethodSignature().Named("AddRef"))
	s.AddMethod(NewMethodSignature().Named("Release"))
	return s
}

// FromIInspectable starts an interface with the IInspectable methods in slots 0-5.
// GetIids takes caller-provided out slots for the count and the IID buffer.
func FromIInspectable(name string, iid guid.GUID) *InterfaceSignature {
	s := FromIUnknown(name, iid)
	s.AddMethod(NewMethodSignature().Named("GetIids").
		Add(winrt.OutValueType{Elem: winrt.BasicU32}).
		Add(winrt.OutValueType{Elem: winrt.BasicGuid}))
	s.AddMethod(NewMethodSignature().Named("GetRuntimeClassName").AddOut(winrt.BasicString))
	s.AddMethod(NewMethodSignature().Named("GetTrustLevel").AddOut(TrustLevel))
	return s
}

// AddMethod builds sig at the next free slot.
func (s *InterfaceSignature) AddMethod(sig *MethodSignature) *InterfaceSignature {
	s.Methods = append(s.Methods, sig.Build(len(s.Methods)))
	return s
}

// Method returns the method at slot.
func (s *InterfaceSignature) Method(slot int) (*Method, bool) {
	if slot < 0 || slot >= len(s.Methods) {
		return nil, false
	}
	return s.Methods[slot], true
}

// Lookup returns the first method called name.
func (s *InterfaceSignature) Lookup(name string) (*Method, bool) {
	for _, m := range s.Methods {
		if m.name == name {
			return m, true
		}
	}
	return nil, false
}

// Call invokes the method at slot on obj.
func (s *InterfaceSignature) Call(obj *com.Unknown, slot int, args ...winrt.Value) ([]winrt.Value, error) {
	m, ok := s.Method(slot)
	if !ok {
		return nil, errors.NotFound(errors.PhaseCall, "method", fmt.Sprintf("%s slot %d", s.Name, slot))
	}
	return m.Call(obj, args...)
}

// Type returns the interface as a winrt type.
func (s *InterfaceSignature) Type() winrt.InterfaceType {
	return winrt.InterfaceType{Name: s.Name, IID: s.IID}
}

func (s *InterfaceSignature) String() string {
	return fmt.Sprintf("%s %s (%d methods)", s.Name, s.IID.Braced(), len(s.Methods))
}

// CallSingleOut calls the method at slot taking args and producing one out
// value of type out. The signature is derived from the argument types.
func CallSingleOut(obj *com.Unknown, slot int, out winrt.Type, args ...winrt.Value) (winrt.Value, error) {
	sig := NewMethodSignature()
	for _, a := range args {
		if !a.IsValid() {
			return winrt.Value{}, errors.InvalidInput(errors.PhaseCall, "invalid argument value")
		}
		sig.Add(a.Type())
	}
	res, err := sig.AddOut(out).Build(slot).Call(obj, args...)
	if err != nil {
		return winrt.Value{}, err
	}
	return res[0], nil
}
