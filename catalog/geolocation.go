package catalog

import (
	"github.com/wippyai/winrt-runtime/guid"
	"github.com/wippyai/winrt-runtime/invoke"
	"github.com/wippyai/winrt-runtime/winrt"
)

// IGeopoint and IGeopointFactory slots.
const (
	SlotGeopointPosition = 6
	SlotGeopointCreate   = 6
)

var (
	IIDGeopoint        = guid.MustParse("6bfa00eb-e56e-49bb-9caf-cbaa78a8bcef")
	IIDGeopointFactory = guid.MustParse("db6b8d33-76bd-4e30-8af7-a844dc37b7a0")
	IIDGeoshape        = guid.MustParse("c99ca2af-c729-43c1-8bab-d6dec914df7e")
)

// Geopoint is the Windows.Devices.Geolocation.Geopoint runtime class.
var Geopoint = winrt.RuntimeClassType{Name: "Windows.Devices.Geolocation.Geopoint", Default: IIDGeopoint}

var (
	IGeopoint        = register(geopoint())
	IGeopointFactory = register(geopointFactory())
	IGeoshape        = register(geoshape())
)

func geopoint() *invoke.InterfaceSignature {
	return invoke.FromIInspectable("Windows.Devices.Geolocation.IGeopoint", IIDGeopoint).
		AddMethod(getter("get_Position", BasicGeoposition))
}

func geopointFactory() *invoke.InterfaceSignature {
	return invoke.FromIInspectable("Windows.Devices.Geolocation.IGeopointFactory", IIDGeopointFactory).
		AddMethod(invoke.NewMethodSignature().Named("Create").
			Add(BasicGeoposition).AddOut(Geopoint)).
		AddMethod(invoke.NewMethodSignature().Named("CreateWithAltitudeReferenceSystem").
			Add(BasicGeoposition).Add(AltitudeReferenceSystem).AddOut(Geopoint)).
		AddMethod(invoke.NewMethodSignature().Named("CreateWithAltitudeReferenceSystemAndSpatialReferenceId").
			Add(BasicGeoposition).Add(AltitudeReferenceSystem).Add(winrt.BasicU32).AddOut(Geopoint))
}

func geoshape() *invoke.InterfaceSignature {
	return invoke.FromIInspectable("Windows.Devices.Geolocation.IGeoshape", IIDGeoshape).
		AddMethod(getter("get_GeoshapeType", GeoshapeType)).
		AddMethod(getter("get_SpatialReferenceId", winrt.BasicU32)).
		AddMethod(getter("get_AltitudeReferenceSystem", AltitudeReferenceSystem))
}
