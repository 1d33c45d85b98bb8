package winrt

import (
	"strings"

	"github.com/wippyai/winrt-runtime/guid"
)

// Fixed interface identifiers of the async pattern.
var (
	IIDAsyncAction                 = guid.MustParse("5a648006-843a-4da9-865b-9d26e5dfad7b")
	IIDAsyncActionCompletedHandler = guid.MustParse("a4ed5c81-76c9-40bd-8be6-b1d90fb20ae7")
	IIDAsyncInfo                   = guid.MustParse("00000036-0000-0000-c000-000000000046")
	IIDStringable                  = guid.MustParse("96369f54-8eb6-48f0-abce-c1b211e627c3")
	IIDPropertyValue               = guid.MustParse("4bd682dd-7554-40e9-9a9b-82654ede7e62")
)

// Generic definitions of Windows.Foundation and Windows.Foundation.Collections.
var (
	IAsyncOperation = GenericType{
		Name: "Windows.Foundation.IAsyncOperation`1", Arity: 1,
		PIID: guid.MustParse("9fc2b0bb-e446-44e2-aa61-9cab8f636af2"),
	}
	IAsyncOperationWithProgress = GenericType{
		Name: "Windows.Foundation.IAsyncOperationWithProgress`2", Arity: 2,
		PIID: guid.MustParse("b5d036d7-e297-498f-ba60-0289e76e23dd"),
	}
	IAsyncActionWithProgress = GenericType{
		Name: "Windows.Foundation.IAsyncActionWithProgress`1", Arity: 1,
		PIID: guid.MustParse("1f6db258-e803-48a1-9546-eb7353398884"),
	}
	IReference = GenericType{
		Name: "Windows.Foundation.IReference`1", Arity: 1,
		PIID: guid.MustParse("61c17706-2d65-11e0-9ae8-d48564015472"),
	}
	IVector = GenericType{
		Name: "Windows.Foundation.Collections.IVector`1", Arity: 1,
		PIID: guid.MustParse("913337e9-11a1-4345-a3a2-4e7f956e222d"),
	}
	IVectorView = GenericType{
		Name: "Windows.Foundation.Collections.IVectorView`1", Arity: 1,
		PIID: guid.MustParse("bbe1fa4c-b0e3-4583-baef-1f1b2e483e56"),
	}
	IIterable = GenericType{
		Name: "Windows.Foundation.Collections.IIterable`1", Arity: 1,
		PIID: guid.MustParse("faa585ea-6214-4217-afda-7f46de5869b3"),
	}
	IIterator = GenericType{
		Name: "Windows.Foundation.Collections.IIterator`1", Arity: 1,
		PIID: guid.MustParse("6a79e863-4300-459a-9966-cbb660963ee1"),
	}
	IMap = GenericType{
		Name: "Windows.Foundation.Collections.IMap`2", Arity: 2,
		PIID: guid.MustParse("3c2925fe-8519-45c1-aa79-197b6718c1c1"),
	}
	IMapView = GenericType{
		Name: "Windows.Foundation.Collections.IMapView`2", Arity: 2,
		PIID: guid.MustParse("e480ce40-a338-4ada-adcf-272272e48cb9"),
	}
	IKeyValuePair = GenericType{
		Name: "Windows.Foundation.Collections.IKeyValuePair`2", Arity: 2,
		PIID: guid.MustParse("02b51929-c1c4-4a7e-8940-0312b5c18500"),
	}

	AsyncOperationCompletedHandler = GenericType{
		Name: "Windows.Foundation.AsyncOperationCompletedHandler`1", Arity: 1, Delegate: true,
		PIID: guid.MustParse("fcdcf02c-e5d8-4478-915a-4d90b74b83a5"),
	}
	AsyncOperationWithProgressCompletedHandler = GenericType{
		Name: "Windows.Foundation.AsyncOperationWithProgressCompletedHandler`2", Arity: 2, Delegate: true,
		PIID: guid.MustParse("e85df41d-6aa7-46e3-a8e2-f009d840c627"),
	}
	AsyncActionWithProgressCompletedHandler = GenericType{
		Name: "Windows.Foundation.AsyncActionWithProgressCompletedHandler`1", Arity: 1, Delegate: true,
		PIID: guid.MustParse("9c029f91-cc84-44fd-ac26-0a6c4e555281"),
	}
)

var knownGenerics = []GenericType{
	IAsyncOperation, IAsyncOperationWithProgress, IAsyncActionWithProgress,
	IReference, IVector, IVectorView, IIterable, IIterator, IMap, IMapView, IKeyValuePair,
	AsyncOperationCompletedHandler, AsyncOperationWithProgressCompletedHandler,
	AsyncActionWithProgressCompletedHandler,
}

// LookupGeneric finds a well-known generic definition by short or full name,
// with or without the arity suffix.
func LookupGeneric(name string) (GenericType, bool) {
	for _, g := range knownGenerics {
		full := g.Name
		short := full[strings.LastIndexByte(full, '.')+1:]
		bare := short
		if i := strings.IndexByte(short, '`'); i >= 0 {
			bare = short[:i]
		}
		if name == full || name == short || name == bare || name == full[:len(full)-len(short)]+bare {
			return g, true
		}
	}
	return GenericType{}, false
}

// KnownGenerics lists the well-known generic definitions.
func KnownGenerics() []GenericType {
	return append([]GenericType(nil), knownGenerics...)
}
