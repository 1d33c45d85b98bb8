package catalog

import (
	"slices"
	"strings"
	"sync"

	"github.com/wippyai/winrt-runtime/guid"
	"github.com/wippyai/winrt-runtime/invoke"
	"github.com/wippyai/winrt-runtime/layout"
	"github.com/wippyai/winrt-runtime/winrt"
)

// Types is the registry holding the layouts of the catalog's value types.
var Types = layout.NewRegistry()

// Value types.
var (
	Point    = winrt.NewStruct(Types, "Windows.Foundation.Point", winrt.BasicF32, winrt.BasicF32)
	Size     = winrt.NewStruct(Types, "Windows.Foundation.Size", winrt.BasicF32, winrt.BasicF32)
	Rect     = winrt.NewStruct(Types, "Windows.Foundation.Rect", winrt.BasicF32, winrt.BasicF32, winrt.BasicF32, winrt.BasicF32)
	DateTime = winrt.NewStruct(Types, "Windows.Foundation.DateTime", winrt.BasicI64)
	TimeSpan = winrt.NewStruct(Types, "Windows.Foundation.TimeSpan", winrt.BasicI64)

	BasicGeoposition = winrt.NewStruct(Types, "Windows.Devices.Geolocation.BasicGeoposition",
		winrt.BasicF64, winrt.BasicF64, winrt.BasicF64)
)

// Enums.
var (
	AsyncStatus             = winrt.EnumType{Name: "Windows.Foundation.AsyncStatus"}
	PropertyType            = winrt.EnumType{Name: "Windows.Foundation.PropertyType"}
	UriComponents           = winrt.EnumType{Name: "Windows.Foundation.UriComponents"}
	AltitudeReferenceSystem = winrt.EnumType{Name: "Windows.Devices.Geolocation.AltitudeReferenceSystem"}
	GeoshapeType            = winrt.EnumType{Name: "Windows.Devices.Geolocation.GeoshapeType"}
)

var (
	indexMu sync.RWMutex
	byName  = map[string]*invoke.InterfaceSignature{}
	byIID   = map[guid.GUID]*invoke.InterfaceSignature{}
)

func register(s *invoke.InterfaceSignature) *invoke.InterfaceSignature {
	indexMu.Lock()
	defer indexMu.Unlock()
	byName[s.Name] = s
	byIID[s.IID] = s
	return s
}

// Lookup finds an interface by full name, by name without namespace, or by IID.
func Lookup(key string) (*invoke.InterfaceSignature, bool) {
	indexMu.RLock()
	defer indexMu.RUnlock()
	if s, ok := byName[key]; ok {
		return s, true
	}
	if id, err := guid.Parse(key); err == nil {
		s, ok := byIID[id]
		return s, ok
	}
	for name, s := range byName {
		if name[strings.LastIndex(name, ".")+1:] == key {
			return s, true
		}
	}
	return nil, false
}

// ByIID returns the interface with identifier iid.
func ByIID(iid guid.GUID) (*invoke.InterfaceSignature, bool) {
	indexMu.RLock()
	defer indexMu.RUnlock()
	s, ok := byIID[iid]
	return s, ok
}

// Interfaces returns all registered interfaces sorted by name.
func Interfaces() []*invoke.InterfaceSignature {
	indexMu.RLock()
	out := make([]*invoke.InterfaceSignature, 0, len(byName))
	for _, s := range byName {
		out = append(out, s)
	}
	indexMu.RUnlock()
	slices.SortFunc(out, func(a, b *invoke.InterfaceSignature) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// Resolve maps a value type, enum, class or interface name to its type.
// Names match in full or without the namespace.
func Resolve(name string) (winrt.Type, bool) {
	for _, t := range []winrt.Type{
		Point, Size, Rect, DateTime, TimeSpan, BasicGeoposition,
		AsyncStatus, PropertyType, UriComponents, AltitudeReferenceSystem, GeoshapeType,
		Uri, Geopoint,
	} {
		full := t.String()
		if name == full || name == full[strings.LastIndex(full, ".")+1:] {
			return t, true
		}
	}
	if s, ok := Lookup(name); ok {
		return s.Type(), true
	}
	return nil, false
}

func getter(name string, t winrt.Type) *invoke.MethodSignature {
	return invoke.NewMethodSignature().Named(name).AddOut(t)
}
