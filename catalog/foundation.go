package catalog

import (
	"github.com/wippyai/winrt-runtime/com"
	"github.com/wippyai/winrt-runtime/guid"
	"github.com/wippyai/winrt-runtime/invoke"
	"github.com/wippyai/winrt-runtime/winrt"
)

// Uri slots of IUriRuntimeClass.
const (
	SlotUriAbsoluteUri = 6
	SlotUriDisplayUri  = 7
	SlotUriDomain      = 8
	SlotUriExtension   = 9
	SlotUriFragment    = 10
	SlotUriHost        = 11
	SlotUriPassword    = 12
	SlotUriPath        = 13
	SlotUriQuery       = 14
	SlotUriQueryParsed = 15
	SlotUriRawUri      = 16
	SlotUriSchemeName  = 17
	SlotUriUserName    = 18
	SlotUriPort        = 19
	SlotUriSuspicious  = 20
	SlotUriEquals      = 21
	SlotUriCombineUri  = 22
)

// Slot of IActivationFactory::ActivateInstance and of the first factory
// method of every class factory interface.
const SlotActivateInstance = 6

var (
	IIDUriRuntimeClass        = guid.MustParse("9e365e57-48b2-4160-956f-c7385120bbfc")
	IIDUriRuntimeClassFactory = guid.MustParse("44a9796f-723e-4fdf-a218-033e75b0c084")
	IIDPropertyValueStatics   = guid.MustParse("629bdbc8-d932-4ff4-96b9-8d96c5c1e858")
)

// Uri is the Windows.Foundation.Uri runtime class.
var Uri = winrt.RuntimeClassType{Name: "Windows.Foundation.Uri", Default: IIDUriRuntimeClass}

var (
	IUnknown                = register(invoke.FromIUnknown("IUnknown", com.IIDUnknown))
	IInspectable            = register(invoke.FromIInspectable("IInspectable", com.IIDInspectable))
	IActivationFactory      = register(activationFactory())
	IAsyncInfo              = register(asyncInfo())
	IStringable             = register(stringable())
	IUriRuntimeClass        = register(uriRuntimeClass())
	IUriRuntimeClassFactory = register(uriRuntimeClassFactory())
	IPropertyValue          = register(propertyValue())
	IPropertyValueStatics   = register(propertyValueStatics())
)

func activationFactory() *invoke.InterfaceSignature {
	return invoke.FromIInspectable("IActivationFactory", com.IIDActivationFactory).
		AddMethod(getter("ActivateInstance", winrt.BasicObject))
}

func asyncInfo() *invoke.InterfaceSignature {
	return invoke.FromIInspectable("Windows.Foundation.IAsyncInfo", winrt.IIDAsyncInfo).
		AddMethod(getter("get_Id", winrt.BasicU32)).
		AddMethod(getter("get_Status", AsyncStatus)).
		AddMethod(getter("get_ErrorCode", winrt.HResultType{})).
		AddMethod(invoke.NewMethodSignature().Named("Cancel")).
		AddMethod(invoke.NewMethodSignature().Named("Close"))
}

func stringable() *invoke.InterfaceSignature {
	return invoke.FromIInspectable("Windows.Foundation.IStringable", winrt.IIDStringable).
		AddMethod(getter("ToString", winrt.BasicString))
}

func uriRuntimeClass() *invoke.InterfaceSignature {
	s := invoke.FromIInspectable("Windows.Foundation.IUriRuntimeClass", IIDUriRuntimeClass)
	for _, name := range []string{
		"get_AbsoluteUri", "get_DisplayUri", "get_Domain", "get_Extension",
		"get_Fragment", "get_Host", "get_Password", "get_Path", "get_Query",
	} {
		s.AddMethod(getter(name, winrt.BasicString))
	}
	s.AddMethod(getter("get_QueryParsed", winrt.BasicObject))
	s.AddMethod(getter("get_RawUri", winrt.BasicString))
	s.AddMethod(getter("get_SchemeName", winrt.BasicString))
	s.AddMethod(getter("get_UserName", winrt.BasicString))
	s.AddMethod(getter("get_Port", winrt.BasicI32))
	s.AddMethod(getter("get_Suspicious", winrt.BasicBool))
	s.AddMethod(invoke.NewMethodSignature().Named("Equals").Add(Uri).AddOut(winrt.BasicBool))
	s.AddMethod(invoke.NewMethodSignature().Named("CombineUri").Add(winrt.BasicString).AddOut(Uri))
	return s
}

func uriRuntimeClassFactory() *invoke.InterfaceSignature {
	return invoke.FromIInspectable("Windows.Foundation.IUriRuntimeClassFactory", IIDUriRuntimeClassFactory).
		AddMethod(invoke.NewMethodSignature().Named("CreateUri").Add(winrt.BasicString).AddOut(Uri)).
		AddMethod(invoke.NewMethodSignature().Named("CreateWithRelativeUri").
			Add(winrt.BasicString).Add(winrt.BasicString).AddOut(Uri))
}

// propertyScalars are the value kinds of IPropertyValue and
// IPropertyValueStatics in slot order after the first two methods.
var propertyScalars = []struct {
	name string
	typ  winrt.Type
}{
	{"UInt8", winrt.BasicU8},
	{"Int16", winrt.BasicI16},
	{"UInt16", winrt.BasicU16},
	{"Int32", winrt.BasicI32},
	{"UInt32", winrt.BasicU32},
	{"Int64", winrt.BasicI64},
	{"UInt64", winrt.BasicU64},
	{"Single", winrt.BasicF32},
	{"Double", winrt.BasicF64},
	{"Char16", winrt.BasicChar16},
	{"Boolean", winrt.BasicBool},
	{"String", winrt.BasicString},
	{"Inspectable", winrt.BasicObject},
	{"Guid", winrt.BasicGuid},
	{"DateTime", DateTime},
	{"TimeSpan", TimeSpan},
	{"Point", Point},
	{"Size", Size},
	{"Rect", Rect},
}

func propertyValue() *invoke.InterfaceSignature {
	s := invoke.FromIInspectable("Windows.Foundation.IPropertyValue", winrt.IIDPropertyValue).
		AddMethod(getter("get_Type", PropertyType)).
		AddMethod(getter("get_IsNumericScalar", winrt.BasicBool))
	for _, p := range propertyScalars {
		if p.name == "Inspectable" {
			// IPropertyValue has no getter for inspectables
			continue
		}
		s.AddMethod(getter("Get"+p.name, p.typ))
	}
	return s
}

func propertyValueStatics() *invoke.InterfaceSignature {
	s := invoke.FromIInspectable("Windows.Foundation.IPropertyValueStatics", IIDPropertyValueStatics).
		AddMethod(getter("CreateEmpty", winrt.BasicObject))
	for _, p := range propertyScalars {
		s.AddMethod(creator("Create"+p.name, p.typ))
	}
	return s
}

func creator(name string, t winrt.Type) *invoke.MethodSignature {
	return invoke.NewMethodSignature().Named(name).Add(t).AddOut(winrt.BasicObject)
}
